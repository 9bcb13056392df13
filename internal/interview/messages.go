package interview

import (
	"github.com/spigell/interview-assistant/internal/ai"
	"github.com/spigell/interview-assistant/internal/resume"
)

// Every result message carries the run it was started in. StartNew begins a
// new run, so results of abandoned calls are recognised and dropped.

// ResumeParsedMsg carries the result of résumé extraction.
type ResumeParsedMsg struct {
	Data resume.Data
	Err  error
	run  int
}

// QuestionsGeneratedMsg carries the generated question list.
type QuestionsGeneratedMsg struct {
	CandidateID string
	Questions   []ai.GeneratedQuestion
	Err         error
	run         int
}

// AnswerEvaluatedMsg carries the score for the question at Index.
type AnswerEvaluatedMsg struct {
	Index     int
	Answer    string
	TimeSpent int
	Score     int
	Err       error
	run       int
}

// SummaryGeneratedMsg carries the interviewer summary of a finished interview.
type SummaryGeneratedMsg struct {
	CandidateID string
	FinalScore  float64
	Summary     string
	Err         error
	run         int
}

// TickMsg advances the countdown by one second. Ticks from a superseded loop
// are ignored.
type TickMsg struct {
	Gen int
}

// NextQuestionMsg fires after the delay that follows a scored answer to the
// question at Index.
type NextQuestionMsg struct {
	Index int
	run   int
}
