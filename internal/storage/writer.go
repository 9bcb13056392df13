package storage

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/interview-assistant/internal/session"
)

const defaultWriteTimeout = 5 * time.Second

type snapshotSaver interface {
	SaveSnapshot(ctx context.Context, snap session.Snapshot) error
}

// AsyncWriter is a session.Persister that writes on a background goroutine.
// Snapshots that arrive while a write is in flight are coalesced, so only the
// latest one is written next. Failures are logged and otherwise ignored.
type AsyncWriter struct {
	saver   snapshotSaver
	logger  *zap.Logger
	timeout time.Duration

	mu      sync.Mutex
	pending *session.Snapshot
	closed  bool

	wake      chan struct{}
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

var _ session.Persister = (*AsyncWriter)(nil)

func NewAsyncWriter(saver snapshotSaver, logger *zap.Logger) *AsyncWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &AsyncWriter{
		saver:   saver,
		logger:  logger,
		timeout: defaultWriteTimeout,
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

// Save queues snap and returns immediately.
func (w *AsyncWriter) Save(snap session.Snapshot) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.pending = &snap
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Close writes the last queued snapshot and stops the goroutine.
func (w *AsyncWriter) Close() {
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()
		close(w.stop)
	})
	<-w.done
}

func (w *AsyncWriter) run() {
	defer close(w.done)
	for {
		select {
		case <-w.wake:
			w.flush()
		case <-w.stop:
			w.flush()
			return
		}
	}
}

func (w *AsyncWriter) flush() {
	w.mu.Lock()
	snap := w.pending
	w.pending = nil
	w.mu.Unlock()
	if snap == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	if err := w.saver.SaveSnapshot(ctx, *snap); err != nil {
		w.logger.Warn("persist session failed", zap.Error(err))
		return
	}
	w.logger.Debug("session persisted",
		zap.Int("messages", len(snap.Interview.Messages)),
		zap.Int("candidates", len(snap.Candidates)),
	)
}
