package dashboard

import (
	"testing"
	"time"

	"github.com/spigell/interview-assistant/internal/session"
)

func roster() []session.Candidate {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return []session.Candidate{
		{ID: "1", Name: "carol White", Email: "carol@corp.io", FinalScore: 6.5, Status: session.StatusCompleted, CreatedAt: base},
		{ID: "2", Name: "Alice Smith", Email: "alice@example.com", FinalScore: 8.3, Status: session.StatusCompleted, CreatedAt: base.Add(time.Hour)},
		{ID: "3", Name: "Bob Jones", Email: "bob@example.com", Status: session.StatusInProgress, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "4", Name: "Dan Brown", Email: "dan@corp.io", Status: session.StatusPending, CreatedAt: base.Add(3 * time.Hour)},
	}
}

func ids(cs []session.Candidate) string {
	out := ""
	for _, c := range cs {
		out += c.ID
	}
	return out
}

func TestFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		term string
		want string
	}{
		{term: "", want: "1234"},
		{term: "ALICE", want: "2"},
		{term: "corp.io", want: "14"},
		{term: "example", want: "23"},
		{term: "zed", want: ""},
	}

	for _, tt := range tests {
		if got := ids(Filter(roster(), tt.term)); got != tt.want {
			t.Fatalf("Filter(%q): expected %q, got %q", tt.term, tt.want, got)
		}
	}
}

func TestSort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		field SortField
		order SortOrder
		want  string
	}{
		{field: SortByName, order: Asc, want: "2314"},
		{field: SortByName, order: Desc, want: "4132"},
		{field: SortByScore, order: Desc, want: "2134"},
		{field: SortByScore, order: Asc, want: "3412"},
		{field: SortByDate, order: Desc, want: "4321"},
		{field: SortByDate, order: Asc, want: "1234"},
	}

	for _, tt := range tests {
		in := roster()
		if got := ids(Sort(in, tt.field, tt.order)); got != tt.want {
			t.Fatalf("Sort(%s, %s): expected %q, got %q", tt.field, tt.order, tt.want, got)
		}
		if ids(in) != "1234" {
			t.Fatal("Sort must not reorder its input")
		}
	}
}

func TestParseSort(t *testing.T) {
	t.Parallel()

	f, o, err := ParseSort("", "")
	if err != nil || f != SortByDate || o != Desc {
		t.Fatalf("unexpected defaults: %s %s %v", f, o, err)
	}
	if f, o, err = ParseSort("Score", "ASC"); err != nil || f != SortByScore || o != Asc {
		t.Fatalf("unexpected parse: %s %s %v", f, o, err)
	}
	if _, _, err := ParseSort("salary", "asc"); err == nil {
		t.Fatal("expected error for unknown field")
	}
	if _, _, err := ParseSort("name", "up"); err == nil {
		t.Fatal("expected error for unknown order")
	}
}

func TestComputeStats(t *testing.T) {
	t.Parallel()

	got := ComputeStats(roster())
	want := Stats{Total: 4, Completed: 2, InProgress: 1, AverageScore: 7.4}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	if empty := ComputeStats(nil); empty != (Stats{}) {
		t.Fatalf("expected zero stats, got %+v", empty)
	}
}

func TestScoreBand(t *testing.T) {
	t.Parallel()

	tests := map[float64]Band{10: BandGood, 8: BandGood, 7.9: BandFair, 6: BandFair, 5.9: BandPoor, 0: BandPoor}
	for score, want := range tests {
		if got := ScoreBand(score); got != want {
			t.Fatalf("ScoreBand(%v): expected %s, got %s", score, want, got)
		}
	}
}
