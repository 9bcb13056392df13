package storage

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/spigell/interview-assistant/internal/session"
	"github.com/spigell/interview-assistant/internal/timer"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(context.Background(), DriverSQLite, filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleSnapshot() session.Snapshot {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return session.Snapshot{
		Interview: session.InterviewState{
			Messages: []session.Message{
				{ID: "m1", Author: session.AuthorBot, Content: "Welcome!", Timestamp: created},
			},
			Questions: []session.Question{
				{ID: "q1", Content: "What is JSX?", Difficulty: session.Easy, TimeLimit: 20},
			},
			Started:              true,
			Timer:                timer.Snapshot{Remaining: 12, State: timer.Running},
			CandidateID:          "c1",
			HasUnfinishedSession: true,
		},
		Candidates: []session.Candidate{
			{ID: "c1", Name: "Alice Smith", Email: "alice@example.com", CreatedAt: created, Status: session.StatusInProgress},
		},
		CurrentCandidateID: "c1",
	}
}

func TestLoadEmpty(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.LoadSnapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected no snapshot in a fresh database")
	}
}

func TestSaveAndLoad(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := sampleSnapshot()
	if err := s.SaveSnapshot(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}

	second := sampleSnapshot()
	second.Interview.Timer.Remaining = 3
	second.Candidates[0].Status = session.StatusCompleted
	if err := s.SaveSnapshot(ctx, second); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, ok, err := s.LoadSnapshot(ctx)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(got, second) {
		t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", second, got)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.sqlite")
	ctx := context.Background()

	s, err := Open(ctx, "", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if s.Driver() != DriverSQLite {
		t.Fatalf("expected sqlite as default driver, got %q", s.Driver())
	}
	if err := s.SaveSnapshot(ctx, sampleSnapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}
	s.Close()

	s, err = Open(ctx, DriverSQLite, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	got, ok, err := s.LoadSnapshot(ctx)
	if err != nil || !ok {
		t.Fatalf("load after reopen: ok=%v err=%v", ok, err)
	}
	if got.CurrentCandidateID != "c1" {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
}

func TestLoadCorrupt(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.put(ctx, rootKey, "{not json"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, _, err := s.LoadSnapshot(ctx); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), "mysql", "dsn"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
	if _, err := Open(context.Background(), DriverPostgres, ""); err == nil {
		t.Fatal("expected error for postgres without dsn")
	}
}

func TestRebind(t *testing.T) {
	pg := &Store{driver: DriverPostgres}
	if got := pg.rebind("INSERT INTO kv (key, value) VALUES (?, ?)"); got != "INSERT INTO kv (key, value) VALUES ($1, $2)" {
		t.Fatalf("unexpected postgres query: %q", got)
	}

	lite := &Store{driver: DriverSQLite}
	if got := lite.rebind("SELECT value FROM kv WHERE key = ?"); got != "SELECT value FROM kv WHERE key = ?" {
		t.Fatalf("sqlite query must not change: %q", got)
	}
}

func TestPostgres(t *testing.T) {
	dsn := os.Getenv("INTERVIEW_ASSISTANT_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("INTERVIEW_ASSISTANT_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	s, err := Open(ctx, DriverPostgres, dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	want := sampleSnapshot()
	if err := s.SaveSnapshot(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok, err := s.LoadSnapshot(ctx)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if got.CurrentCandidateID != want.CurrentCandidateID {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
}
