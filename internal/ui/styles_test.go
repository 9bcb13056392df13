package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestTimerStyle(t *testing.T) {
	tests := []struct {
		name      string
		remaining int
		limit     int
		want      lipgloss.TerminalColor
	}{
		{name: "plenty of time", remaining: 15, limit: 20, want: ColorGreen},
		{name: "exactly half", remaining: 10, limit: 20, want: ColorYellow},
		{name: "under a quarter", remaining: 5, limit: 20, want: ColorRed},
		{name: "no limit", remaining: 0, limit: 0, want: ColorGray},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TimerStyle(tt.remaining, tt.limit).GetForeground(); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
