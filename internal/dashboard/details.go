package dashboard

import (
	"fmt"
	"strings"

	"github.com/spigell/interview-assistant/internal/session"
)

// Label is the one-line form of a candidate used in selection lists.
func Label(c session.Candidate) string {
	score := "-"
	if c.Status == session.StatusCompleted {
		score = fmt.Sprintf("%.1f", c.FinalScore)
	}
	return fmt.Sprintf("%s <%s> %s %s", c.Name, c.Email, c.Status, score)
}

// Details renders the contact info, summary and per-question results of c.
func Details(c session.Candidate) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Name:    %s\n", c.Name)
	fmt.Fprintf(&b, "Email:   %s\n", c.Email)
	fmt.Fprintf(&b, "Phone:   %s\n", c.Phone)
	fmt.Fprintf(&b, "Status:  %s\n", c.Status)
	fmt.Fprintf(&b, "Created: %s\n", c.CreatedAt.Format("2006-01-02 15:04"))
	if c.ResumeFileName != "" {
		fmt.Fprintf(&b, "Resume:  %s\n", c.ResumeFileName)
	}
	if c.Status == session.StatusCompleted {
		fmt.Fprintf(&b, "Score:   %.1f/10 (%s)\n", c.FinalScore, ScoreBand(c.FinalScore))
	}

	if c.AISummary != "" {
		b.WriteString("\nSummary:\n")
		b.WriteString(strings.TrimSpace(c.AISummary))
		b.WriteString("\n")
	}

	if len(c.Questions) > 0 {
		b.WriteString("\nQuestions:\n")
		for i, q := range c.Questions {
			fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, q.Difficulty, q.Content)
			answer := q.Answer
			if answer == "" {
				answer = "-"
			}
			fmt.Fprintf(&b, "   Answer: %s\n", answer)
			fmt.Fprintf(&b, "   Score: %d/10, %ds of %ds\n", q.Score, q.TimeSpent, q.TimeLimit)
		}
	}

	return b.String()
}
