package dashboard

import (
	"strings"
	"testing"
	"time"

	"github.com/spigell/interview-assistant/internal/session"
)

func TestLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		c    session.Candidate
		want string
	}{
		{
			name: "completed",
			c:    session.Candidate{Name: "Alice Smith", Email: "alice@example.com", Status: session.StatusCompleted, FinalScore: 7.5},
			want: "Alice Smith <alice@example.com> completed 7.5",
		},
		{
			name: "in progress has no score",
			c:    session.Candidate{Name: "Bob Jones", Email: "bob@example.com", Status: session.StatusInProgress},
			want: "Bob Jones <bob@example.com> in_progress -",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Label(tt.c); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestDetails(t *testing.T) {
	t.Parallel()

	c := session.Candidate{
		Name:       "Alice Smith",
		Email:      "alice@example.com",
		Phone:      "555-123-4567",
		Status:     session.StatusCompleted,
		FinalScore: 8.5,
		CreatedAt:  time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		AISummary:  "Strong fundamentals.\n",
		Questions: []session.Question{
			{Content: "What is JSX?", Difficulty: session.Easy, TimeLimit: 20, Answer: "Syntax sugar", Score: 9, TimeSpent: 11},
			{Content: "Design a rate limiter.", Difficulty: session.Hard, TimeLimit: 120, Score: 1, TimeSpent: 120},
		},
	}

	got := Details(c)
	for _, want := range []string{
		"Score:   8.5/10 (good)",
		"Summary:\nStrong fundamentals.\n",
		"1. [Easy] What is JSX?",
		"   Score: 9/10, 11s of 20s",
		"2. [Hard] Design a rate limiter.\n   Answer: -",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in:\n%s", want, got)
		}
	}
}
