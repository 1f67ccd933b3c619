package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/faizanmasroor/volunteery-webapp/internal/event"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	// FormatText is plain text output
	FormatText OutputFormat = "text"
	// FormatJSON is JSON output
	FormatJSON OutputFormat = "json"
)

// OutputResult represents one scrape run for output
type OutputResult struct {
	ScrapedAt  time.Time      `json:"scraped_at"`
	EventCount int            `json:"event_count"`
	Events     []event.Record `json:"events"`
}

// WriteOutput writes the result in the given format. In text mode,
// verbose adds the address and age requirement under each event.
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if result.EventCount == 0 {
		fmt.Fprintln(w, "No volunteering events found.")
		return nil
	}

	fmt.Fprintf(w, "Found %d volunteering event(s):\n\n", result.EventCount)
	for i, r := range result.Events {
		fmt.Fprintf(w, "%d. %s (%s)\n", i+1, r.Title, r.Schedule.String())
		if !verbose {
			continue
		}
		fmt.Fprintf(w, "   Address: %s\n", r.Address)
		if r.HasAgeRestriction() {
			fmt.Fprintf(w, "   Ages: %s\n", r.AgeRestriction)
		}
	}
	return nil
}
