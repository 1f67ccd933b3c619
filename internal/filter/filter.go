// Package filter narrows a scrape run's records before they are
// printed, exported, or saved.
//
// A zero Filter matches every record. Criteria combine with AND:
//
//	f := filter.Filter{OngoingOnly: true}
//	kept := f.Apply(records)
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/faizanmasroor/volunteery-webapp/internal/event"
)

// Filter holds the active criteria.
type Filter struct {
	// ShiftsFrom keeps records with at least one shift on or after this
	// day. Ongoing records always pass date criteria; they have no dates
	// to test.
	ShiftsFrom *time.Time
	// ShiftsTo keeps records with at least one shift on or before this
	// day.
	ShiftsTo *time.Time
	// OngoingOnly keeps only records without scheduled shifts.
	OngoingOnly bool
	// ExcludeAgeRestricted drops records that state a minimum age.
	ExcludeAgeRestricted bool
	// Titles keeps records whose title contains any of these strings,
	// case-insensitively.
	Titles []string
}

// IsEmpty reports whether the filter has no active criteria.
func (f *Filter) IsEmpty() bool {
	return f.ShiftsFrom == nil &&
		f.ShiftsTo == nil &&
		!f.OngoingOnly &&
		!f.ExcludeAgeRestricted &&
		len(f.Titles) == 0
}

// Matches reports whether a record passes every active criterion.
func (f *Filter) Matches(r *event.Record) bool {
	if f.OngoingOnly && !r.Schedule.Ongoing {
		return false
	}

	if f.ExcludeAgeRestricted && r.HasAgeRestriction() {
		return false
	}

	if (f.ShiftsFrom != nil || f.ShiftsTo != nil) && !r.Schedule.Ongoing {
		if !f.anyShiftInRange(r.Schedule.Shifts) {
			return false
		}
	}

	if len(f.Titles) > 0 {
		titleLower := strings.ToLower(r.Title)
		matched := false
		for _, want := range f.Titles {
			if strings.Contains(titleLower, strings.ToLower(want)) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

func (f *Filter) anyShiftInRange(shifts []time.Time) bool {
	for _, shift := range shifts {
		if f.ShiftsFrom != nil && shift.Before(*f.ShiftsFrom) {
			continue
		}
		if f.ShiftsTo != nil && shift.After(*f.ShiftsTo) {
			continue
		}
		return true
	}
	return false
}

// Apply returns the records that pass the filter, preserving order. An
// empty filter returns the input unchanged.
func (f *Filter) Apply(records []event.Record) []event.Record {
	if f.IsEmpty() {
		return records
	}

	kept := make([]event.Record, 0, len(records))
	for i := range records {
		if f.Matches(&records[i]) {
			kept = append(kept, records[i])
		}
	}
	return kept
}

// String returns a human-readable description of the active criteria,
// or "no active filters".
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "no active filters"
	}

	var parts []string
	if f.ShiftsFrom != nil {
		parts = append(parts, fmt.Sprintf("shifts from %s", f.ShiftsFrom.Format(event.ShiftDateLayout)))
	}
	if f.ShiftsTo != nil {
		parts = append(parts, fmt.Sprintf("shifts to %s", f.ShiftsTo.Format(event.ShiftDateLayout)))
	}
	if f.OngoingOnly {
		parts = append(parts, "ongoing only")
	}
	if f.ExcludeAgeRestricted {
		parts = append(parts, "no age restrictions")
	}
	if len(f.Titles) > 0 {
		parts = append(parts, fmt.Sprintf("titles: %s", strings.Join(f.Titles, ", ")))
	}
	return strings.Join(parts, " | ")
}
