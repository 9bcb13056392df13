// Package interview drives a candidate from résumé upload to a scored and
// summarised interview. It is written for the bubbletea event loop: every
// entry point runs on that loop and returns a tea.Cmd, and external calls run
// inside the returned commands and come back as messages to Update.
package interview

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/spigell/interview-assistant/internal/ai"
	"github.com/spigell/interview-assistant/internal/logger"
	"github.com/spigell/interview-assistant/internal/notify"
	"github.com/spigell/interview-assistant/internal/resume"
	"github.com/spigell/interview-assistant/internal/session"
	"github.com/spigell/interview-assistant/internal/timer"
)

const (
	// ExpiredAnswer is submitted on behalf of the candidate when time runs out.
	ExpiredAnswer = "No answer provided (time expired)"
	// SummaryFailed is stored as the summary when the summary call fails.
	SummaryFailed = "Summary generation failed."

	welcomeMessage   = "Welcome! Please upload your resume to get started."
	timeUpMessage    = "Time's up! Moving to the next question."
	allInfoMessage   = "Great! I have all your information. Let me generate interview questions based on your background."
	collectedMessage = "Perfect! Now let me generate interview questions based on your background."
	introMessage     = "Perfect! I've prepared 6 questions for you. Let's begin with the first question:"

	defaultCandidateName = "Candidate"
)

// Options tune the pacing of the flow.
type Options struct {
	// TickInterval is the countdown resolution. Default one second.
	TickInterval time.Duration
	// AdvanceDelay separates a score notice from the next question. Default two seconds.
	AdvanceDelay time.Duration
	// Timeout bounds every collaborator call. Default one minute.
	Timeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.TickInterval <= 0 {
		o.TickInterval = time.Second
	}
	if o.AdvanceDelay <= 0 {
		o.AdvanceDelay = 2 * time.Second
	}
	if o.Timeout <= 0 {
		o.Timeout = time.Minute
	}
	return o
}

// Deps are the collaborators of an Orchestrator. Notices and Logger may be nil.
type Deps struct {
	Store     *session.Store
	Extractor resume.Extractor
	Questions ai.QuestionGenerator
	Evaluator ai.AnswerEvaluator
	Summaries ai.SummaryWriter
	Notices   *notify.Surface
	Logger    *zap.Logger
	Options   Options
}

// Orchestrator owns the phase machine. It is not safe for concurrent use; the
// bubbletea loop is its only caller.
type Orchestrator struct {
	store     *session.Store
	extractor resume.Extractor
	questions ai.QuestionGenerator
	evaluator ai.AnswerEvaluator
	summaries ai.SummaryWriter
	notices   *notify.Surface
	logger    *zap.Logger
	opts      Options

	phase   Phase
	contact resume.Data
	missing []resume.Field

	// busy is set while a collaborator call is in flight.
	busy bool
	// halted is set after a failed AI call; only StartNew recovers.
	halted bool

	run     int
	tickGen int
}

func New(deps Deps) *Orchestrator {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	notices := deps.Notices
	if notices == nil {
		notices = notify.New(log)
	}
	return &Orchestrator{
		store:     deps.Store,
		extractor: deps.Extractor,
		questions: deps.Questions,
		evaluator: deps.Evaluator,
		summaries: deps.Summaries,
		notices:   notices,
		logger:    log,
		opts:      deps.Options.withDefaults(),
	}
}

// Phase returns the current phase.
func (o *Orchestrator) Phase() Phase { return o.phase }

// Busy reports whether a collaborator call is pending.
func (o *Orchestrator) Busy() bool { return o.busy }

// Halted reports whether the flow stopped after a failed AI call.
func (o *Orchestrator) Halted() bool { return o.halted }

// Missing returns the contact fields still to be collected.
func (o *Orchestrator) Missing() []resume.Field {
	return append([]resume.Field(nil), o.missing...)
}

// Init derives the phase from the store. An empty transcript gets the welcome
// message. A completed interview whose candidate never received a summary
// (the process stopped mid-call) gets the summary requested again.
func (o *Orchestrator) Init() tea.Cmd {
	state := o.store.State()

	switch {
	case state.Completed:
		o.phase = PhaseCompleted
		if c, ok := o.candidate(state.CandidateID); ok && c.Status != session.StatusCompleted {
			return o.complete()
		}
	case state.Started:
		o.phase = PhaseAnswering
	default:
		o.phase = PhaseAwaitingResume
		if len(state.Messages) == 0 {
			o.say(welcomeMessage)
		}
	}
	return nil
}

// Resume continues an unfinished interview restored from storage.
func (o *Orchestrator) Resume() tea.Cmd {
	state := o.store.State()
	if !state.Started || state.Completed {
		return nil
	}
	o.phase = PhaseAnswering

	q, ok := o.store.CurrentQuestion()
	if !ok {
		return nil
	}

	o.logger.Info("resuming interview",
		append(logger.InterviewFields(state.CandidateID, state.CurrentQuestionIndex),
			zap.String("timer_state", string(state.Timer.State)),
			zap.Int("remaining", state.Timer.Remaining))...,
	)

	switch state.Timer.State {
	case timer.Running:
		return o.startTicking()
	case timer.Expired:
		o.notices.TimerInterrupted()
		return o.expire()
	}

	if q.Answer != "" {
		return o.advance(state.CurrentQuestionIndex)
	}

	o.say(q.Content)
	if err := o.store.StartTimer(); err != nil {
		o.logger.Warn("restart timer failed", zap.Error(err))
		return nil
	}
	return o.startTicking()
}

// StartNew abandons the current interview and returns to the upload step. The
// roster keeps every candidate created so far.
func (o *Orchestrator) StartNew() tea.Cmd {
	o.run++
	o.tickGen++
	o.busy = false
	o.halted = false
	o.contact = resume.Data{}
	o.missing = nil
	o.phase = PhaseAwaitingResume

	o.store.ResetInterview()
	o.store.ClearCurrentCandidate()
	o.say(welcomeMessage)

	o.logger.Info("new interview started")
	return nil
}

// Upload starts résumé extraction for the file at path.
func (o *Orchestrator) Upload(path string) tea.Cmd {
	path = strings.TrimSpace(path)
	if path == "" || o.phase != PhaseAwaitingResume || o.busy {
		return nil
	}

	o.busy = true
	run := o.run
	extractor := o.extractor
	timeout := o.opts.Timeout

	o.logger.Info("resume upload", zap.String("path", path))

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		data, err := extractor.Extract(ctx, path)
		return ResumeParsedMsg{Data: data, Err: err, run: run}
	}
}

// Submit handles a line typed by the candidate: a missing contact detail or an
// answer. Input that fits neither, or arrives while a call is pending, is
// ignored.
func (o *Orchestrator) Submit(text string) tea.Cmd {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if o.busy {
		o.logger.Debug("input ignored while busy", zap.String("phase", o.phase.String()))
		return nil
	}

	switch o.phase {
	case PhaseCollectingInfo:
		o.store.AddMessage(session.AuthorUser, text)
		return o.collect(text)
	case PhaseAnswering:
		if o.halted || o.store.State().Timer.State != timer.Running {
			o.logger.Debug("answer ignored, no question is open")
			return nil
		}
		o.store.AddMessage(session.AuthorUser, text)
		return o.submitAnswer(text)
	default:
		o.logger.Debug("input ignored", zap.String("phase", o.phase.String()))
		return nil
	}
}

// Update applies a message produced by one of the orchestrator's commands.
// Anything else is ignored and yields nil.
func (o *Orchestrator) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case TickMsg:
		return o.handleTick(msg)
	case ResumeParsedMsg:
		if o.stale(msg.run, "resume parsed") {
			return nil
		}
		return o.handleResumeParsed(msg)
	case QuestionsGeneratedMsg:
		if o.stale(msg.run, "questions generated") {
			return nil
		}
		return o.handleQuestions(msg)
	case AnswerEvaluatedMsg:
		if o.stale(msg.run, "answer evaluated") {
			return nil
		}
		return o.handleEvaluation(msg)
	case NextQuestionMsg:
		if o.stale(msg.run, "next question") {
			return nil
		}
		return o.advance(msg.Index)
	case SummaryGeneratedMsg:
		if o.stale(msg.run, "summary generated") {
			return nil
		}
		return o.handleSummary(msg)
	}
	return nil
}

func (o *Orchestrator) stale(run int, what string) bool {
	if run == o.run {
		return false
	}
	o.logger.Debug("dropping result of abandoned interview", zap.String("result", what))
	return true
}

func (o *Orchestrator) handleResumeParsed(msg ResumeParsedMsg) tea.Cmd {
	o.busy = false

	if msg.Err != nil {
		o.logger.Warn("resume extraction failed", zap.Error(msg.Err))
		o.notices.FileUploadError(msg.Err)
		return nil
	}

	o.contact = msg.Data
	o.missing = msg.Data.Missing()
	if len(o.missing) == 0 {
		o.say(allInfoMessage)
		return o.generate()
	}

	o.phase = PhaseCollectingInfo
	o.say(fmt.Sprintf("I've processed your resume! However, I need some additional information. Please provide your %s.", joinFields(o.missing)))
	return nil
}

func (o *Orchestrator) collect(text string) tea.Cmd {
	if len(o.missing) == 0 {
		return nil
	}

	o.contact.Set(o.missing[0], text)
	o.missing = o.missing[1:]

	if len(o.missing) > 0 {
		o.say(fmt.Sprintf("Thank you! Now please provide your %s.", o.missing[0]))
		return nil
	}

	o.say(collectedMessage)
	return o.generate()
}

func (o *Orchestrator) generate() tea.Cmd {
	c := o.store.CreateCandidate(o.contact.Name, o.contact.Email, o.contact.Phone, o.contact.Text, o.contact.FileName)

	o.phase = PhaseGeneratingQuestions
	o.busy = true
	run := o.run
	generator := o.questions
	timeout := o.opts.Timeout
	text := o.contact.Text

	o.logger.Info("generating questions", logger.InterviewFields(c.ID, -1)...)

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		questions, err := generator.GenerateQuestions(ctx, text)
		return QuestionsGeneratedMsg{CandidateID: c.ID, Questions: questions, Err: err, run: run}
	}
}

func (o *Orchestrator) handleQuestions(msg QuestionsGeneratedMsg) tea.Cmd {
	o.busy = false
	log := o.logger.With(logger.InterviewFields(msg.CandidateID, -1)...)

	err := msg.Err
	if err == nil {
		err = checkQuestions(msg.Questions)
	}
	if err != nil {
		log.Error("question generation failed", zap.Error(err))
		o.halt(err)
		return nil
	}

	questions := make([]session.Question, len(msg.Questions))
	for i, q := range msg.Questions {
		limit := q.TimeLimit
		if limit <= 0 {
			limit = q.Difficulty.DefaultTimeLimit()
		}
		questions[i] = session.Question{
			ID:         "q_" + strconv.Itoa(i),
			Content:    q.Content,
			Difficulty: q.Difficulty,
			TimeLimit:  limit,
		}
	}

	if err := o.store.StartInterview(msg.CandidateID, questions); err != nil {
		log.Error("start interview failed", zap.Error(err))
		o.halt(err)
		return nil
	}

	o.phase = PhaseAnswering
	o.say(introMessage)
	o.say(questions[0].Content)

	if err := o.store.StartTimer(); err != nil {
		log.Error("start timer failed", zap.Error(err))
		return nil
	}
	log.Info("interview started")
	return o.startTicking()
}

func checkQuestions(questions []ai.GeneratedQuestion) error {
	if len(questions) == 0 {
		return ai.ErrNoQuestions
	}
	if len(questions) != session.QuestionCount {
		return fmt.Errorf("%w: got %d", session.ErrQuestionCount, len(questions))
	}
	for i, q := range questions {
		if strings.TrimSpace(q.Content) == "" {
			return fmt.Errorf("%w: question %d has no content", ai.ErrMalformedResponse, i+1)
		}
		if !q.Difficulty.Valid() {
			return fmt.Errorf("%w: question %d has difficulty %q", ai.ErrMalformedResponse, i+1, q.Difficulty)
		}
	}
	return nil
}

func (o *Orchestrator) startTicking() tea.Cmd {
	o.tickGen++
	return o.tick(o.tickGen)
}

func (o *Orchestrator) tick(gen int) tea.Cmd {
	return tea.Tick(o.opts.TickInterval, func(time.Time) tea.Msg {
		return TickMsg{Gen: gen}
	})
}

func (o *Orchestrator) handleTick(msg TickMsg) tea.Cmd {
	if msg.Gen != o.tickGen {
		return nil
	}

	expired, err := o.store.TickTimer()
	if err != nil {
		// The timer was stopped by a submission; this loop is done.
		return nil
	}
	if expired {
		return o.expire()
	}
	return o.tick(msg.Gen)
}

func (o *Orchestrator) expire() tea.Cmd {
	if o.busy || o.halted {
		o.logger.Warn("time expired while a call is pending, expiry dropped")
		return nil
	}
	o.say(timeUpMessage)
	return o.submitAnswer(ExpiredAnswer)
}

func (o *Orchestrator) submitAnswer(answer string) tea.Cmd {
	state := o.store.State()
	q, ok := o.store.CurrentQuestion()
	if !ok {
		return nil
	}

	timeSpent := q.TimeLimit - state.Timer.Remaining
	if timeSpent < 0 {
		timeSpent = 0
	}

	o.store.StopTimer()
	o.tickGen++

	o.busy = true
	index := state.CurrentQuestionIndex
	run := o.run
	evaluator := o.evaluator
	timeout := o.opts.Timeout
	content := q.Content

	o.logger.Debug("evaluating answer",
		append(logger.InterviewFields(state.CandidateID, index), zap.Int("time_spent", timeSpent))...,
	)

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		score, err := evaluator.EvaluateAnswer(ctx, content, answer)
		return AnswerEvaluatedMsg{
			Index:     index,
			Answer:    answer,
			TimeSpent: timeSpent,
			Score:     score,
			Err:       err,
			run:       run,
		}
	}
}

func (o *Orchestrator) handleEvaluation(msg AnswerEvaluatedMsg) tea.Cmd {
	state := o.store.State()
	log := o.logger.With(logger.InterviewFields(state.CandidateID, msg.Index)...)

	// Evaluations are serialized, so this is the result of the one pending call.
	o.busy = false

	if o.phase != PhaseAnswering || msg.Index < 0 || msg.Index >= len(state.Questions) ||
		msg.Index != state.CurrentQuestionIndex || state.Questions[msg.Index].Answer != "" {
		log.Warn("discarding evaluation for a question that is no longer current",
			zap.Int("current_index", state.CurrentQuestionIndex))
		return nil
	}

	if msg.Err != nil {
		log.Error("answer evaluation failed", zap.Error(msg.Err))
		o.halt(msg.Err)
		return nil
	}

	score := clampScore(msg.Score)
	o.store.SubmitAnswer(msg.Answer, score, msg.TimeSpent)
	o.say(fmt.Sprintf("Thank you for your answer! (Score: %d/10)", score))
	log.Info("answer scored", zap.Int("score", score), zap.Int("time_spent", msg.TimeSpent))

	if msg.Index < len(state.Questions)-1 {
		run := o.run
		index := msg.Index
		return tea.Tick(o.opts.AdvanceDelay, func(time.Time) tea.Msg {
			return NextQuestionMsg{Index: index, run: run}
		})
	}

	o.store.NextQuestion()
	o.phase = PhaseCompleted
	return o.complete()
}

// advance moves past the answered question at index and opens the next one.
func (o *Orchestrator) advance(index int) tea.Cmd {
	state := o.store.State()
	if o.phase != PhaseAnswering || o.halted || state.CurrentQuestionIndex != index {
		return nil
	}

	o.store.NextQuestion()

	q, ok := o.store.CurrentQuestion()
	if !ok || o.store.State().Completed {
		o.phase = PhaseCompleted
		return o.complete()
	}

	o.say(q.Content)
	if err := o.store.StartTimer(); err != nil {
		o.logger.Warn("start timer failed", zap.Error(err))
		return nil
	}
	return o.startTicking()
}

func (o *Orchestrator) complete() tea.Cmd {
	state := o.store.State()
	final := FinalScore(state.Questions)

	name := defaultCandidateName
	if c, ok := o.candidate(state.CandidateID); ok && strings.TrimSpace(c.Name) != "" {
		name = c.Name
	}

	answers := make([]ai.QA, len(state.Questions))
	for i, q := range state.Questions {
		answers[i] = ai.QA{Question: q.Content, Answer: q.Answer, Score: q.Score}
	}

	o.busy = true
	run := o.run
	writer := o.summaries
	timeout := o.opts.Timeout
	candidateID := state.CandidateID

	o.logger.Info("interview completed",
		append(logger.InterviewFields(candidateID, -1), zap.Float64("final_score", final))...,
	)

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		summary, err := writer.Summarize(ctx, name, answers)
		return SummaryGeneratedMsg{CandidateID: candidateID, FinalScore: final, Summary: summary, Err: err, run: run}
	}
}

func (o *Orchestrator) handleSummary(msg SummaryGeneratedMsg) tea.Cmd {
	o.busy = false
	log := o.logger.With(logger.InterviewFields(msg.CandidateID, -1)...)

	summary := msg.Summary
	if msg.Err != nil {
		log.Error("summary generation failed", zap.Error(msg.Err))
		o.notices.APIError(msg.Err)
		summary = SummaryFailed
	}

	questions := o.store.State().Questions
	err := o.store.UpdateCandidate(msg.CandidateID, func(c *session.Candidate) {
		c.FinalScore = msg.FinalScore
		c.AISummary = summary
		c.Status = session.StatusCompleted
		c.Questions = questions
	})
	if err != nil {
		log.Warn("record result failed", zap.Error(err))
	}

	o.say(fmt.Sprintf("Interview completed! Your final score: %s/10. Thank you for your time!", FormatScore(msg.FinalScore)))
	return nil
}

func (o *Orchestrator) halt(err error) {
	o.halted = true
	o.notices.APIError(err)
}

func (o *Orchestrator) say(content string) {
	o.store.AddMessage(session.AuthorBot, content)
}

func (o *Orchestrator) candidate(id string) (session.Candidate, bool) {
	if id == "" {
		return session.Candidate{}, false
	}
	for _, c := range o.store.Candidates() {
		if c.ID == id {
			return c, true
		}
	}
	return session.Candidate{}, false
}

// FinalScore is the mean question score rounded to one decimal.
func FinalScore(questions []session.Question) float64 {
	if len(questions) == 0 {
		return 0
	}
	total := 0
	for _, q := range questions {
		total += q.Score
	}
	return math.Round(float64(total)/float64(len(questions))*10) / 10
}

// FormatScore prints a score without a trailing ".0".
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

func clampScore(score int) int {
	switch {
	case score < 1:
		return 1
	case score > 10:
		return 10
	default:
		return score
	}
}

func joinFields(fields []resume.Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
