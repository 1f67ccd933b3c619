package event

import (
	"fmt"
	"strings"
	"time"
)

// Ongoing is the sentinel value recorded in place of shift dates for
// opportunities that volunteers can join at any time.
const Ongoing = "Ongoing"

// Record represents one volunteering opportunity scraped from the site
type Record struct {
	Title          string   `json:"title"`
	Schedule       Schedule `json:"schedule"`
	Address        string   `json:"address"`
	AgeRestriction string   `json:"age_restriction,omitempty"`
}

// Schedule holds an opportunity's shift dates in the order the site's
// shifts table lists them. Ongoing is set when the site shows no shifts
// table for the opportunity; then Shifts is empty.
type Schedule struct {
	Shifts  []time.Time `json:"shifts,omitempty"`
	Ongoing bool        `json:"ongoing,omitempty"`
}

// NewSchedule builds a schedule from parsed shift dates. An empty list
// means the opportunity is ongoing.
func NewSchedule(shifts []time.Time) Schedule {
	if len(shifts) == 0 {
		return OngoingSchedule()
	}
	return Schedule{Shifts: shifts}
}

// OngoingSchedule returns the schedule for an opportunity with no
// scheduled shifts.
func OngoingSchedule() Schedule {
	return Schedule{Ongoing: true}
}

// String renders the schedule as the site-facing text: the Ongoing
// sentinel, or the shift dates joined by "; ".
func (s Schedule) String() string {
	if s.Ongoing {
		return Ongoing
	}
	parts := make([]string, 0, len(s.Shifts))
	for _, shift := range s.Shifts {
		parts = append(parts, shift.Format(ShiftDateLayout))
	}
	return strings.Join(parts, "; ")
}

// Validate checks the record against the model invariants: non-empty
// title and address, a schedule that is ongoing or holds at least one
// date, and an age restriction that is absent or a non-empty phrase.
func (r *Record) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("record has empty title")
	}
	if strings.TrimSpace(r.Address) == "" {
		return fmt.Errorf("record %q has empty address", r.Title)
	}
	if !r.Schedule.Ongoing && len(r.Schedule.Shifts) == 0 {
		return fmt.Errorf("record %q has neither shifts nor the ongoing sentinel", r.Title)
	}
	if r.Schedule.Ongoing && len(r.Schedule.Shifts) > 0 {
		return fmt.Errorf("record %q is ongoing but carries %d shifts", r.Title, len(r.Schedule.Shifts))
	}
	if strings.TrimSpace(r.AgeRestriction) == "" && r.AgeRestriction != "" {
		return fmt.Errorf("record %q has a blank age restriction", r.Title)
	}
	return nil
}

// HasAgeRestriction reports whether the site stated an age restriction
// for this opportunity.
func (r *Record) HasAgeRestriction() bool {
	return r.AgeRestriction != ""
}
