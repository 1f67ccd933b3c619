package event

import (
	"fmt"
	"strings"
	"time"
)

// ShiftDateLayout is the form the shifts table uses for dates,
// e.g. "Mon Jan 5, 2024".
const ShiftDateLayout = "Mon Jan 2, 2006"

// ParseShiftDate parses a shifts-table date such as "Mon Jan 5, 2024".
// The input must already be reduced to the date portion of the cell.
func ParseShiftDate(text string) (time.Time, error) {
	parsed, err := time.Parse(ShiftDateLayout, strings.TrimSpace(text))
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing shift date %q: %w", text, err)
	}
	return parsed, nil
}
