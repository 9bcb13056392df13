package storage

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/interview-assistant/internal/session"
)

type recordingSaver struct {
	mu    sync.Mutex
	saved []session.Snapshot
	err   error
	gate  chan struct{}
}

func (r *recordingSaver) SaveSnapshot(_ context.Context, snap session.Snapshot) error {
	if r.gate != nil {
		<-r.gate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, snap)
	return r.err
}

func (r *recordingSaver) snapshots() []session.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]session.Snapshot(nil), r.saved...)
}

func TestAsyncWriterFlushesLatestOnClose(t *testing.T) {
	saver := &recordingSaver{gate: make(chan struct{})}
	w := NewAsyncWriter(saver, zap.NewNop())

	for _, id := range []string{"a", "b", "c", "d"} {
		w.Save(session.Snapshot{CurrentCandidateID: id})
	}
	close(saver.gate)
	w.Close()

	saved := saver.snapshots()
	if len(saved) == 0 {
		t.Fatal("expected at least one write")
	}
	if len(saved) > 2 {
		t.Fatalf("expected writes to be coalesced, got %d", len(saved))
	}
	if last := saved[len(saved)-1].CurrentCandidateID; last != "d" {
		t.Fatalf("expected last snapshot to be written, got %q", last)
	}
}

func TestAsyncWriterIgnoresSavesAfterClose(t *testing.T) {
	saver := &recordingSaver{}
	w := NewAsyncWriter(saver, nil)
	w.Close()
	w.Close()

	w.Save(session.Snapshot{CurrentCandidateID: "late"})

	if got := len(saver.snapshots()); got != 0 {
		t.Fatalf("expected no writes after close, got %d", got)
	}
}

func TestAsyncWriterLogsFailures(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	saver := &recordingSaver{err: errors.New("disk full")}
	w := NewAsyncWriter(saver, zap.New(core))

	w.Save(session.Snapshot{})
	w.Close()

	entries := observed.FilterMessage("persist session failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one warning, got %d", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("expected warn level, got %s", entries[0].Level)
	}
}

func TestAsyncWriterWithSQLite(t *testing.T) {
	s := openTestStore(t)
	w := NewAsyncWriter(s, zap.NewNop())

	store := session.New(w)
	c := store.CreateCandidate("Alice Smith", "alice@example.com", "555-123-4567", "resume", "alice.pdf")
	store.AddMessage(session.AuthorBot, "Welcome!")
	w.Close()

	got, ok, err := s.LoadSnapshot(context.Background())
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if got.CurrentCandidateID != c.ID || len(got.Interview.Messages) != 1 {
		t.Fatalf("unexpected persisted snapshot: %+v", got)
	}
}
