// Package calendar renders scraped records as iCalendar files.
package calendar

import (
	"crypto/sha1"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/faizanmasroor/volunteery-webapp/internal/event"
)

// GenerateICS renders a record as an iCalendar file with one all-day
// VEVENT per shift. The site lists shift dates without reliable times,
// so events are exported as all-day entries. Ongoing records have no
// dates to put on a calendar and yield ok = false.
func GenerateICS(r *event.Record) (ics string, ok bool) {
	if r.Schedule.Ongoing || len(r.Schedule.Shifts) == 0 {
		return "", false
	}

	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//The Stewpot Volunteering//volunteery-webapp//EN\r\n")
	b.WriteString("CALSCALE:GREGORIAN\r\n")
	b.WriteString("METHOD:PUBLISH\r\n")

	stamp := formatICSTime(time.Now().UTC())
	uid := uidBase(r.Title)

	description := fmt.Sprintf("Volunteer opportunity at The Stewpot.\nAddress: %s", r.Address)
	if r.HasAgeRestriction() {
		description += fmt.Sprintf("\nAges: %s", r.AgeRestriction)
	}

	for _, shift := range r.Schedule.Shifts {
		b.WriteString("BEGIN:VEVENT\r\n")
		b.WriteString(fmt.Sprintf("UID:%s-%s@thestewpot.org\r\n", uid, shift.Format("20060102")))
		b.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", stamp))
		b.WriteString(fmt.Sprintf("DTSTART;VALUE=DATE:%s\r\n", shift.Format("20060102")))
		b.WriteString(fmt.Sprintf("DTEND;VALUE=DATE:%s\r\n", shift.AddDate(0, 0, 1).Format("20060102")))
		b.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(r.Title)))
		b.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(description)))
		b.WriteString(fmt.Sprintf("LOCATION:%s\r\n", escapeICS(r.Address)))
		b.WriteString("STATUS:CONFIRMED\r\n")
		b.WriteString("SEQUENCE:0\r\n")
		b.WriteString("TRANSP:OPAQUE\r\n")
		b.WriteString("END:VEVENT\r\n")
	}

	b.WriteString("END:VCALENDAR\r\n")
	return b.String(), true
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Filename returns a filesystem-safe name for a record's calendar file.
func Filename(r *event.Record) string {
	slug := strings.ToLower(strings.TrimSpace(r.Title))
	slug = nonAlnum.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "event"
	}
	return slug + ".ics"
}

// uidBase derives a deterministic identifier from the normalized title,
// stable across runs so re-imports update instead of duplicating.
func uidBase(title string) string {
	h := sha1.New()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(title))))
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters according to RFC 5545
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
