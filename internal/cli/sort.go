package cli

import (
	"sort"
	"strings"
	"time"

	"github.com/faizanmasroor/volunteery-webapp/internal/event"
)

// SortOrder selects how events are ordered in the output.
type SortOrder string

const (
	// SortByScrape keeps the order events appeared on the site.
	SortByScrape SortOrder = "scrape"
	// SortByDate orders by earliest shift, ongoing events last.
	SortByDate SortOrder = "date"
	// SortByTitle orders alphabetically, ignoring case.
	SortByTitle SortOrder = "title"
)

// sortRecords reorders records in place. SortByScrape leaves the site
// order untouched.
func sortRecords(records []event.Record, order SortOrder) {
	switch order {
	case SortByDate:
		sort.SliceStable(records, func(i, j int) bool {
			return earlierSchedule(records[i], records[j])
		})
	case SortByTitle:
		sort.SliceStable(records, func(i, j int) bool {
			return strings.ToLower(records[i].Title) < strings.ToLower(records[j].Title)
		})
	}
}

// earlierSchedule reports whether a should sort before b by date.
// Ongoing records come after scheduled ones; ties fall back to title.
func earlierSchedule(a, b event.Record) bool {
	aShift, aOK := earliestShift(a)
	bShift, bOK := earliestShift(b)

	switch {
	case !aOK && !bOK:
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	case !aOK:
		return false
	case !bOK:
		return true
	}

	if aShift.Equal(bShift) {
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	}
	return aShift.Before(bShift)
}

// earliestShift finds the soonest shift of a record. Shifts keep the
// site's listing order, so the first entry is not guaranteed earliest.
func earliestShift(r event.Record) (time.Time, bool) {
	if r.Schedule.Ongoing || len(r.Schedule.Shifts) == 0 {
		return time.Time{}, false
	}
	earliest := r.Schedule.Shifts[0]
	for _, s := range r.Schedule.Shifts[1:] {
		if s.Before(earliest) {
			earliest = s
		}
	}
	return earliest, true
}
