// Package dashboard holds the interviewer-side views over the candidate roster.
package dashboard

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/spigell/interview-assistant/internal/session"
)

// SortField selects the roster ordering.
type SortField string

const (
	SortByName  SortField = "name"
	SortByScore SortField = "score"
	SortByDate  SortField = "date"
)

// SortOrder is ascending or descending.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// ParseSort validates flag values. Empty values mean newest first.
func ParseSort(field, order string) (SortField, SortOrder, error) {
	f := SortField(strings.ToLower(strings.TrimSpace(field)))
	if f == "" {
		f = SortByDate
	}
	switch f {
	case SortByName, SortByScore, SortByDate:
	default:
		return "", "", fmt.Errorf("unknown sort field %q (want name, score or date)", field)
	}

	o := SortOrder(strings.ToLower(strings.TrimSpace(order)))
	if o == "" {
		o = Desc
	}
	if o != Asc && o != Desc {
		return "", "", fmt.Errorf("unknown sort order %q (want asc or desc)", order)
	}
	return f, o, nil
}

// Filter keeps candidates whose name or email contains term, ignoring case.
func Filter(candidates []session.Candidate, term string) []session.Candidate {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]session.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if term == "" ||
			strings.Contains(strings.ToLower(c.Name), term) ||
			strings.Contains(strings.ToLower(c.Email), term) {
			out = append(out, c)
		}
	}
	return out
}

// Sort returns a sorted copy. Ties keep roster order.
func Sort(candidates []session.Candidate, field SortField, order SortOrder) []session.Candidate {
	out := slices.Clone(candidates)
	slices.SortStableFunc(out, func(a, b session.Candidate) int {
		var c int
		switch field {
		case SortByName:
			c = cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		case SortByScore:
			c = cmp.Compare(a.FinalScore, b.FinalScore)
		default:
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		if order == Desc {
			return -c
		}
		return c
	})
	return out
}

// Stats summarises the roster.
type Stats struct {
	Total      int
	Completed  int
	InProgress int
	// AverageScore is the mean final score of completed candidates, one decimal.
	AverageScore float64
}

func ComputeStats(candidates []session.Candidate) Stats {
	var (
		s   Stats
		sum float64
	)
	s.Total = len(candidates)
	for _, c := range candidates {
		switch c.Status {
		case session.StatusCompleted:
			s.Completed++
			sum += c.FinalScore
		case session.StatusInProgress:
			s.InProgress++
		}
	}
	if s.Completed > 0 {
		s.AverageScore = math.Round(sum/float64(s.Completed)*10) / 10
	}
	return s
}

// Band is the colour class of a score.
type Band string

const (
	BandGood Band = "good"
	BandFair Band = "fair"
	BandPoor Band = "poor"
)

// ScoreBand buckets a score: 8 and above is good, 6 and above fair.
func ScoreBand(score float64) Band {
	switch {
	case score >= 8:
		return BandGood
	case score >= 6:
		return BandFair
	default:
		return BandPoor
	}
}
