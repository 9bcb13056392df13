package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/spigell/interview-assistant/internal/notify"
)

// NoticeMsg carries a notice reported on the error surface.
type NoticeMsg struct {
	Notice notify.Notice
}

// waitNoticeCmd blocks until the next notice arrives on ch.
func waitNoticeCmd(ch <-chan notify.Notice) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return NoticeMsg{Notice: n}
	}
}
