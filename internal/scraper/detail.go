package scraper

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/faizanmasroor/volunteery-webapp/internal/event"
)

// Title returns the trimmed event title from a detail page.
func Title(doc *goquery.Document) (string, error) {
	heading := doc.Find(".panel-title").First()
	if heading.Length() == 0 {
		return "", &ExtractionError{
			Field:  "title",
			Reason: ElementMissing,
			Detail: "detail page has no .panel-title",
		}
	}

	title := strings.TrimSpace(heading.Text())
	if title == "" {
		return "", &ExtractionError{
			Field:  "title",
			Reason: ContentMalformed,
			Detail: ".panel-title is blank",
		}
	}
	return title, nil
}

// ShiftSchedule extracts the shift dates listed in a detail page's
// shifts table. Each shift row's first cell starts with a date like
// "Mon Jan 5, 2024"; trailing cell text such as times is ignored. An
// absent table, or one with no shift rows, is the ongoing state, not an
// error.
func ShiftSchedule(doc *goquery.Document) (event.Schedule, error) {
	table := doc.Find("table#shifts-table").First()
	if table.Length() == 0 {
		return event.OngoingSchedule(), nil
	}

	rows := table.Find(`tr[tabindex="0"]`)
	shifts := make([]time.Time, 0, rows.Length())

	var badRow error
	rows.EachWithBreak(func(i int, row *goquery.Selection) bool {
		cell := row.Find("td").First()
		if cell.Length() == 0 {
			badRow = &ExtractionError{
				Field:  "shift dates",
				Reason: ContentMalformed,
				Detail: fmt.Sprintf("shift row %d has no cells", i),
			}
			return false
		}

		// The cell reads "Mon Jan 5, 2024 9:00am - 12:00pm"; the date is
		// the first four whitespace-separated tokens.
		tokens := strings.Fields(cell.Text())
		if len(tokens) < 4 {
			badRow = &ExtractionError{
				Field:  "shift dates",
				Reason: ContentMalformed,
				Detail: fmt.Sprintf("shift row %d cell %q is too short to hold a date", i, strings.TrimSpace(cell.Text())),
			}
			return false
		}

		raw := strings.Join(tokens[:4], " ")
		date, err := event.ParseShiftDate(raw)
		if err != nil {
			badRow = &ParseError{Field: "shift date", Input: raw, Err: err}
			return false
		}

		shifts = append(shifts, date)
		return true
	})
	if badRow != nil {
		return event.Schedule{}, badRow
	}

	return event.NewSchedule(shifts), nil
}

// AddressFromLocation extracts the street address from the info page's
// location fragment, collapsing whitespace runs to single spaces.
func AddressFromLocation(doc *goquery.Document) (string, error) {
	cell := doc.Find("td.text").First()
	if cell.Length() == 0 {
		return "", &ExtractionError{
			Field:  "address",
			Reason: ElementMissing,
			Detail: "location fragment has no td.text",
		}
	}

	address := strings.Join(strings.Fields(cell.Text()), " ")
	if address == "" {
		return "", &ExtractionError{
			Field:  "address",
			Reason: ContentMalformed,
			Detail: "location fragment's td.text is blank",
		}
	}
	return address, nil
}

// AgeRestriction returns the minimum-age phrase from a detail page's
// requirements section, or "" when the site states none. The portal
// keys the phrase off its own wording: when the requirements body
// mentions "and older", the phrase is the body's second line, as in
//
//	Age Requirement
//	18 and older
//
// A body that mentions a restriction without that second line is
// malformed.
func AgeRestriction(doc *goquery.Document) (string, error) {
	body := doc.Find("section.requirements tbody").First()
	if body.Length() == 0 {
		return "", nil
	}

	text := strings.TrimSpace(body.Text())
	if !strings.Contains(text, "and older") {
		return "", nil
	}

	lines := strings.Split(text, "\n")
	if len(lines) < 2 || strings.TrimSpace(lines[1]) == "" {
		return "", &ExtractionError{
			Field:  "age restriction",
			Reason: ContentMalformed,
			Detail: fmt.Sprintf("requirements body %q names a restriction but carries no phrase line", text),
		}
	}
	return strings.TrimSpace(lines[1]), nil
}
