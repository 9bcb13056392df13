package interview

// Phase is a named step of the interview flow.
type Phase int

const (
	PhaseAwaitingResume Phase = iota
	PhaseCollectingInfo
	PhaseGeneratingQuestions
	PhaseAnswering
	PhaseCompleted
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingResume:
		return "awaiting_resume"
	case PhaseCollectingInfo:
		return "collecting_info"
	case PhaseGeneratingQuestions:
		return "generating_questions"
	case PhaseAnswering:
		return "answering"
	case PhaseCompleted:
		return "completed"
	default:
		return "unknown"
	}
}
