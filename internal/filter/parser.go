package filter

import (
	"fmt"
	"strings"
	"time"
)

// dayLayouts are the date forms accepted on the command line.
var dayLayouts = []string{
	"2006-01-02",
	"Jan 2, 2006",
	"January 2, 2006",
	"1/2/2006",
}

// ParseDay parses a calendar day from a flag value, returning midnight
// UTC. Accepted forms include "2024-02-10", "Feb 10, 2024", and
// "2/10/2024".
func ParseDay(input string) (time.Time, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("date cannot be empty")
	}

	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q (try 2006-01-02)", input)
}
