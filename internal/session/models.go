// Package session holds the interview state, the chat transcript and the
// candidate roster, and hands every change to a persister.
package session

import (
	"time"

	"github.com/spigell/interview-assistant/internal/timer"
)

// QuestionCount is the number of questions in every interview.
const QuestionCount = 6

// Status is the lifecycle status of a candidate.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Difficulty is the tier of an interview question.
type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// DefaultTimeLimit returns the conventional answer time for the tier in seconds.
func (d Difficulty) DefaultTimeLimit() int {
	switch d {
	case Easy:
		return 20
	case Medium:
		return 60
	case Hard:
		return 120
	default:
		return 0
	}
}

// Valid reports whether d is one of the known tiers.
func (d Difficulty) Valid() bool {
	return d == Easy || d == Medium || d == Hard
}

// Author identifies who wrote a transcript message.
type Author string

const (
	AuthorBot  Author = "bot"
	AuthorUser Author = "user"
)

// Candidate is an interviewee in the roster.
type Candidate struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	ResumeText     string     `json:"resumeContent"`
	ResumeFileName string     `json:"resumeFileName"`
	CreatedAt      time.Time  `json:"createdAt"`
	FinalScore     float64    `json:"finalScore"`
	AISummary      string     `json:"aiSummary"`
	Status         Status     `json:"status"`
	Questions      []Question `json:"questions,omitempty"`
}

// Question is a single timed interview question and its result.
type Question struct {
	ID         string     `json:"id"`
	Content    string     `json:"content"`
	Difficulty Difficulty `json:"difficulty"`
	TimeLimit  int        `json:"timeLimit"`
	Answer     string     `json:"answer"`
	Score      int        `json:"score"`
	TimeSpent  int        `json:"timeSpent"`
}

// Message is a chat transcript entry.
type Message struct {
	ID        string    `json:"id"`
	Author    Author    `json:"type"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// InterviewState is a copy of the session fields of the store.
type InterviewState struct {
	Messages             []Message      `json:"messages"`
	Questions            []Question     `json:"questions"`
	CurrentQuestionIndex int            `json:"currentQuestionIndex"`
	Started              bool           `json:"isInterviewStarted"`
	Completed            bool           `json:"isInterviewCompleted"`
	Timer                timer.Snapshot `json:"timer"`
	CandidateID          string         `json:"candidateId,omitempty"`
	HasUnfinishedSession bool           `json:"hasUnfinishedSession"`
}

// Snapshot is the whole persisted state: the interview and the roster.
type Snapshot struct {
	Interview          InterviewState `json:"interview"`
	Candidates         []Candidate    `json:"candidates"`
	CurrentCandidateID string         `json:"currentCandidateId,omitempty"`
}

// Persister receives a snapshot after every state change.
type Persister interface {
	Save(Snapshot)
}

func copyQuestions(in []Question) []Question {
	if in == nil {
		return nil
	}
	out := make([]Question, len(in))
	copy(out, in)
	return out
}

func copyCandidate(c Candidate) Candidate {
	c.Questions = copyQuestions(c.Questions)
	return c
}
