package cmd

import (
	"context"
	"fmt"

	"github.com/spigell/interview-assistant/internal/session"
	"github.com/spigell/interview-assistant/internal/storage"
)

// loadRoster reads the saved candidate roster without taking over the session.
func loadRoster(ctx context.Context, cfg *StorageConfig) ([]session.Candidate, error) {
	db, err := storage.Open(ctx, cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	snap, _, err := db.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	return snap.Candidates, nil
}
