// Package app is the bubbletea shell of the interview: transcript, input line,
// countdown and notice modal around an interview.Orchestrator.
package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/spigell/interview-assistant/internal/interview"
	"github.com/spigell/interview-assistant/internal/notify"
	"github.com/spigell/interview-assistant/internal/session"
	"github.com/spigell/interview-assistant/internal/ui"
	"github.com/spigell/interview-assistant/internal/utils"
)

// Model is the root bubbletea model.
type Model struct {
	orch    *interview.Orchestrator
	store   *session.Store
	notices <-chan notify.Notice
	resume  bool

	input  []rune
	notice *notify.Notice

	width  int
	height int
}

// New wraps orch. When resume is set, Init continues the restored interview
// instead of waiting for input.
func New(orch *interview.Orchestrator, store *session.Store, notices <-chan notify.Notice, resume bool) Model {
	return Model{
		orch:    orch,
		store:   store,
		notices: notices,
		resume:  resume,
	}
}

// Init starts the orchestrator and the notice subscription.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitNoticeCmd(m.notices), m.orch.Init()}
	if m.resume {
		cmds = append(cmds, m.orch.Resume())
	}
	return tea.Batch(cmds...)
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case NoticeMsg:
		n := msg.Notice
		m.notice = &n
		return m, waitNoticeCmd(m.notices)
	}

	return m, m.orch.Update(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == KeyCtrlC {
		return m, tea.Quit
	}

	if m.notice != nil {
		if key == KeyEsc || key == KeyEnter {
			m.notice = nil
		}
		return m, nil
	}

	switch key {
	case KeyNew:
		m.input = nil
		return m, m.orch.StartNew()

	case KeyEnter:
		if m.orch.Busy() {
			return m, nil
		}
		text := strings.TrimSpace(string(m.input))
		if text == "" {
			return m, nil
		}
		m.input = nil
		if m.orch.Phase() == interview.PhaseAwaitingResume {
			return m, m.orch.Upload(text)
		}
		return m, m.orch.Submit(text)

	case KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
		return m, nil

	case KeyClear:
		m.input = nil
		return m, nil
	}

	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		m.input = append(m.input, msg.Runes...)
	}
	return m, nil
}

// Placeholder is the hint shown on an empty input line.
func (m Model) Placeholder() string {
	switch m.orch.Phase() {
	case interview.PhaseAwaitingResume:
		return "Path to your resume (.pdf or .docx)..."
	case interview.PhaseCollectingInfo:
		if missing := m.orch.Missing(); len(missing) > 0 {
			return fmt.Sprintf("Enter your %s...", missing[0])
		}
		return ""
	case interview.PhaseAnswering:
		return "Type your answer..."
	case interview.PhaseCompleted:
		return "Press ctrl+n to interview another candidate"
	default:
		return "Please wait..."
	}
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	contentH := m.contentHeight()
	divider := ui.DividerStyle.Render(strings.Repeat("─", m.width))

	var body string
	if m.notice != nil {
		body = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.renderNotice())
	} else {
		body = m.renderTranscript(contentH)
	}

	return strings.Join([]string{
		m.renderHeader(),
		m.renderStatusBar(),
		divider,
		body,
		divider,
		m.renderInput(),
		m.renderFooter(),
	}, "\n")
}

func (m Model) contentHeight() int {
	// header, status, two dividers, input, footer
	const reserved = 6
	return max(3, m.height-reserved)
}

func (m Model) renderHeader() string {
	title := ui.TitleStyle.Render("INTERVIEW ASSISTANT")
	if c, ok := m.store.CurrentCandidate(); ok {
		title += ui.DimStyle.Render("  " + c.Name)
	}
	return title
}

func (m Model) renderStatusBar() string {
	state := m.store.State()

	var status string
	switch m.orch.Phase() {
	case interview.PhaseAwaitingResume:
		status = ui.StatusStyle.Render("Waiting for resume")
	case interview.PhaseCollectingInfo:
		status = ui.StatusStyle.Render("Collecting contact details")
	case interview.PhaseGeneratingQuestions:
		status = ui.StatusStyle.Render("Generating questions")
	case interview.PhaseAnswering:
		status = ui.StatusStyle.Render(fmt.Sprintf("Question %d of %d", state.CurrentQuestionIndex+1, session.QuestionCount))
		if q, ok := m.store.CurrentQuestion(); ok {
			status += ui.DimStyle.Render(fmt.Sprintf(" (%s)", q.Difficulty))
			status += "  " + ui.TimerStyle(state.Timer.Remaining, q.TimeLimit).Render("⏱ "+utils.FormatClock(state.Timer.Remaining))
		}
	case interview.PhaseCompleted:
		status = ui.StatusStyle.Render("Interview completed")
		if c, ok := m.store.CurrentCandidate(); ok && c.Status == session.StatusCompleted {
			status += ui.DimStyle.Render(fmt.Sprintf("  Final score %s/10", interview.FormatScore(c.FinalScore)))
		}
	}

	switch {
	case m.orch.Halted():
		status += "  " + ui.ErrorStyle.Render("stopped, press ctrl+n to start over")
	case m.orch.Busy():
		status += "  " + ui.BusyStyle.Render("⟳ working")
	}
	return status
}

func (m Model) renderTranscript(height int) string {
	width := max(20, m.width-2)
	wrap := lipgloss.NewStyle().Width(width)

	var lines []string
	for _, msg := range m.store.State().Messages {
		label := ui.BotLabelStyle.Render("Interviewer")
		if msg.Author == session.AuthorUser {
			label = ui.UserLabelStyle.Render("You")
		}
		lines = append(lines, label+" "+ui.TimestampStyle.Render(msg.Timestamp.Format("15:04")))
		lines = append(lines, strings.Split(wrap.Render(msg.Content), "\n")...)
		lines = append(lines, "")
	}

	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderNotice() string {
	n := m.notice
	box := ui.ModalStyle.BorderForeground(ui.SeverityColor(n.Severity)).Width(min(60, max(20, m.width-4)))
	title := lipgloss.NewStyle().Bold(true).Foreground(ui.SeverityColor(n.Severity)).Render(n.Title)
	return box.Render(title + "\n\n" + n.Message + "\n\n" + ui.DimStyle.Render("esc to dismiss"))
}

func (m Model) renderInput() string {
	prompt := ui.PromptStyle.Render("> ")
	if len(m.input) == 0 {
		return prompt + ui.DimStyle.Render(m.Placeholder())
	}
	return prompt + string(m.input) + "█"
}

func (m Model) renderFooter() string {
	keys := []struct{ key, desc string }{
		{"enter", "send"},
		{"ctrl+n", "new interview"},
		{"ctrl+c", "quit"},
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, ui.FooterKeyStyle.Render(k.key)+" "+ui.FooterDescStyle.Render(k.desc))
	}
	return strings.Join(parts, "  ")
}
