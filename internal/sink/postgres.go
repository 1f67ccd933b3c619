package sink

import (
	"context"
	"fmt"

	"github.com/faizanmasroor/volunteery-webapp/internal/event"
	"github.com/faizanmasroor/volunteery-webapp/internal/storage"
)

// PostgresSink persists runs through the storage layer. The store
// writes each run in a single transaction, so the batch-as-one-unit
// contract holds.
type PostgresSink struct {
	store *storage.Store
}

// NewPostgresSink creates a sink writing to the given store.
func NewPostgresSink(store *storage.Store) *PostgresSink {
	return &PostgresSink{store: store}
}

// Name identifies the sink in logs.
func (s *PostgresSink) Name() string { return "postgres" }

// Write saves the run.
func (s *PostgresSink) Write(ctx context.Context, records []event.Record) error {
	if err := s.store.SaveAll(ctx, records); err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}
