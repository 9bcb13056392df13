package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spigell/interview-assistant/internal/timer"
)

var (
	// ErrQuestionCount is returned when an interview is started with the wrong number of questions.
	ErrQuestionCount = fmt.Errorf("interview requires exactly %d questions", QuestionCount)
	// ErrNoCurrentQuestion is returned by timer operations when no question is active.
	ErrNoCurrentQuestion = errors.New("no current question")
	// ErrCandidateNotFound is returned when a candidate id is not in the roster.
	ErrCandidateNotFound = errors.New("candidate not found")
)

// Store is the process-wide interview and roster state. All mutations go through
// its methods; each one ends by handing a snapshot to the persister.
type Store struct {
	// Now and NewID can be replaced before first use.
	Now   func() time.Time
	NewID func() string

	mu         sync.RWMutex
	persister  Persister
	interview  InterviewState
	clock      timer.Timer
	candidates []Candidate
	currentID  string
}

// New returns an empty store. A nil persister disables persistence.
func New(persister Persister) *Store {
	return &Store{
		Now:       time.Now,
		NewID:     uuid.NewString,
		persister: persister,
	}
}

// AddMessage appends a transcript entry.
func (s *Store) AddMessage(author Author, content string) Message {
	var msg Message
	s.mutate(func() {
		msg = Message{
			ID:        s.NewID(),
			Author:    author,
			Content:   content,
			Timestamp: s.Now().UTC(),
		}
		s.interview.Messages = append(s.interview.Messages, msg)
	})
	return msg
}

// StartInterview installs the question list and moves to the first question.
func (s *Store) StartInterview(candidateID string, questions []Question) error {
	if len(questions) != QuestionCount {
		return fmt.Errorf("%w: got %d", ErrQuestionCount, len(questions))
	}

	s.mutate(func() {
		s.interview.CandidateID = candidateID
		s.interview.Questions = copyQuestions(questions)
		s.interview.CurrentQuestionIndex = 0
		s.interview.Started = true
		s.interview.Completed = false
		s.interview.HasUnfinishedSession = true
		s.clock.Reset(questions[0].TimeLimit)

		if idx := s.candidateIndex(candidateID); idx != -1 {
			s.candidates[idx].Status = StatusInProgress
		}
	})
	return nil
}

// SubmitAnswer records the result on the current question only.
func (s *Store) SubmitAnswer(answer string, score, timeSpent int) {
	s.mutate(func() {
		idx := s.interview.CurrentQuestionIndex
		if idx < 0 || idx >= len(s.interview.Questions) {
			return
		}
		q := &s.interview.Questions[idx]
		q.Answer = answer
		q.Score = score
		q.TimeSpent = timeSpent
	})
}

// NextQuestion advances to the following question, or completes the interview
// when the last one has been reached. Once completed further calls change nothing.
func (s *Store) NextQuestion() {
	s.mu.RLock()
	skip := s.interview.Completed || !s.interview.Started
	s.mu.RUnlock()
	if skip {
		return
	}

	s.mutate(func() {
		next := s.interview.CurrentQuestionIndex + 1
		if next < len(s.interview.Questions) {
			s.interview.CurrentQuestionIndex = next
			s.clock.Reset(s.interview.Questions[next].TimeLimit)
			return
		}

		s.interview.Completed = true
		s.interview.HasUnfinishedSession = false
		if s.clock.State() != timer.Idle {
			_ = s.clock.Stop()
		}
	})
}

// StartTimer starts the countdown at the current question's limit.
func (s *Store) StartTimer() error {
	var err error
	s.mutate(func() {
		q, ok := s.currentQuestion()
		if !ok || s.interview.Completed {
			err = ErrNoCurrentQuestion
			return
		}
		s.clock.Start(q.TimeLimit)
	})
	return err
}

// StopTimer halts the countdown. Stopping an idle timer is a no-op.
func (s *Store) StopTimer() {
	s.mutate(func() {
		if s.clock.State() != timer.Idle {
			_ = s.clock.Stop()
		}
	})
}

// TickTimer advances the countdown by one second and reports expiry.
func (s *Store) TickTimer() (bool, error) {
	var (
		expired bool
		err     error
	)
	s.mutate(func() {
		expired, err = s.clock.Tick()
	})
	return expired, err
}

// ResetInterview restores every session field to its initial value. The roster
// is not touched.
func (s *Store) ResetInterview() {
	s.mutate(func() {
		s.interview = InterviewState{}
		s.clock = timer.Timer{}
	})
}

// CheckUnfinishedSession recomputes the unfinished-session flag and returns it.
func (s *Store) CheckUnfinishedSession() bool {
	var unfinished bool
	s.mutate(func() {
		s.interview.HasUnfinishedSession = s.interview.Started && !s.interview.Completed
		unfinished = s.interview.HasUnfinishedSession
	})
	return unfinished
}

// CreateCandidate appends a pending candidate to the roster and makes it current.
func (s *Store) CreateCandidate(name, email, phone, resumeText, fileName string) Candidate {
	var c Candidate
	s.mutate(func() {
		c = Candidate{
			ID:             s.NewID(),
			Name:           name,
			Email:          email,
			Phone:          phone,
			ResumeText:     resumeText,
			ResumeFileName: fileName,
			CreatedAt:      s.Now().UTC(),
			Status:         StatusPending,
		}
		s.candidates = append(s.candidates, c)
		s.currentID = c.ID
	})
	return copyCandidate(c)
}

// UpdateCandidate applies fn to the roster entry with the given id.
func (s *Store) UpdateCandidate(id string, fn func(*Candidate)) error {
	var err error
	s.mutate(func() {
		idx := s.candidateIndex(id)
		if idx == -1 {
			err = fmt.Errorf("%w: %s", ErrCandidateNotFound, id)
			return
		}
		c := s.candidates[idx]
		fn(&c)
		c.ID = id
		s.candidates[idx] = copyCandidate(c)
	})
	return err
}

// SetCurrentCandidate selects the current candidate; an unknown id clears it.
func (s *Store) SetCurrentCandidate(id string) {
	s.mutate(func() {
		if s.candidateIndex(id) == -1 {
			s.currentID = ""
			return
		}
		s.currentID = id
	})
}

// ClearCurrentCandidate leaves the store without a current candidate.
func (s *Store) ClearCurrentCandidate() {
	s.mutate(func() {
		s.currentID = ""
	})
}

// CurrentCandidate returns the current candidate, if any.
func (s *Store) CurrentCandidate() (Candidate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.candidateIndex(s.currentID)
	if idx == -1 {
		return Candidate{}, false
	}
	return copyCandidate(s.candidates[idx]), true
}

// Candidates returns the roster in creation order.
func (s *Store) Candidates() []Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Candidate, 0, len(s.candidates))
	for _, c := range s.candidates {
		out = append(out, copyCandidate(c))
	}
	return out
}

// State returns a copy of the session fields.
func (s *Store) State() InterviewState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.interviewCopy()
}

// CurrentQuestion returns the question at the current index.
func (s *Store) CurrentQuestion() (Question, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentQuestion()
}

// Snapshot returns the whole state for persistence.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Restore replaces the whole state with a persisted snapshot. It does not
// trigger a save.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.interview = snap.Interview
	s.interview.Messages = append([]Message(nil), snap.Interview.Messages...)
	s.interview.Questions = copyQuestions(snap.Interview.Questions)
	s.clock = timer.Restore(snap.Interview.Timer)

	if n := len(s.interview.Questions); n == 0 {
		s.interview.CurrentQuestionIndex = 0
	} else if s.interview.CurrentQuestionIndex < 0 || s.interview.CurrentQuestionIndex >= n {
		s.interview.CurrentQuestionIndex = n - 1
	}
	if q, ok := s.currentQuestion(); ok && s.clock.Remaining() > q.TimeLimit {
		s.clock = timer.Restore(timer.Snapshot{Remaining: q.TimeLimit, State: s.clock.State()})
	}

	s.candidates = make([]Candidate, 0, len(snap.Candidates))
	for _, c := range snap.Candidates {
		s.candidates = append(s.candidates, copyCandidate(c))
	}
	s.currentID = ""
	if s.candidateIndex(snap.CurrentCandidateID) != -1 {
		s.currentID = snap.CurrentCandidateID
	}
}

func (s *Store) mutate(fn func()) {
	s.mu.Lock()
	fn()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if s.persister != nil {
		s.persister.Save(snap)
	}
}

func (s *Store) snapshotLocked() Snapshot {
	candidates := make([]Candidate, 0, len(s.candidates))
	for _, c := range s.candidates {
		candidates = append(candidates, copyCandidate(c))
	}
	return Snapshot{
		Interview:          s.interviewCopy(),
		Candidates:         candidates,
		CurrentCandidateID: s.currentID,
	}
}

func (s *Store) interviewCopy() InterviewState {
	st := s.interview
	st.Messages = append([]Message(nil), s.interview.Messages...)
	st.Questions = copyQuestions(s.interview.Questions)
	st.Timer = s.clock.Snapshot()
	return st
}

func (s *Store) currentQuestion() (Question, bool) {
	idx := s.interview.CurrentQuestionIndex
	if idx < 0 || idx >= len(s.interview.Questions) {
		return Question{}, false
	}
	return s.interview.Questions[idx], true
}

func (s *Store) candidateIndex(id string) int {
	if id == "" {
		return -1
	}
	for i, c := range s.candidates {
		if c.ID == id {
			return i
		}
	}
	return -1
}
