package sink

import (
	"context"

	"github.com/faizanmasroor/volunteery-webapp/internal/event"
)

// Sink receives every record of one scrape run. Write is called once
// per run with the full result set; a sink must treat the batch as one
// unit and never keep part of it on failure.
type Sink interface {
	Name() string
	Write(ctx context.Context, records []event.Record) error
}
