package sink

import (
	"context"
	"fmt"
	"io"

	"github.com/faizanmasroor/volunteery-webapp/internal/event"
)

// DryRunSink reports what would be written without touching the
// database. The CLI points it at stderr so formatted output on stdout
// stays clean.
type DryRunSink struct {
	w io.Writer
}

// NewDryRunSink creates a dry-run sink printing to w.
func NewDryRunSink(w io.Writer) *DryRunSink {
	return &DryRunSink{w: w}
}

// Name identifies the sink in logs.
func (s *DryRunSink) Name() string { return "dry-run" }

// Write lists what would have been saved.
func (s *DryRunSink) Write(_ context.Context, records []event.Record) error {
	fmt.Fprintf(s.w, "dry run: %d record(s) would be saved\n", len(records))
	for i, r := range records {
		fmt.Fprintf(s.w, "  %d. %s (%s)\n", i+1, r.Title, r.Schedule.String())
	}
	return nil
}
