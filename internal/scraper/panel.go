package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PerPage is how many event cards the portal lists per panel page.
// Pagination links address offsets in steps of this size.
const PerPage = 12

// needIndexPattern matches the portal's pagination link targets, which
// carry the offset of the page they lead to.
var needIndexPattern = regexp.MustCompile(`^/need/index/(\d+)$`)

// EventLinks returns the detail link of every event card on a panel
// page, in document order. A page with no cards yields an empty slice;
// a card without a link is malformed and aborts the run.
func EventLinks(doc *goquery.Document) ([]string, error) {
	links := make([]string, 0)

	var badCard error
	doc.Find("div.need").EachWithBreak(func(i int, card *goquery.Selection) bool {
		href, ok := card.Find("a").First().Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			badCard = &ExtractionError{
				Field:  "event link",
				Reason: ContentMalformed,
				Detail: fmt.Sprintf("card %d has no detail link", i),
			}
			return false
		}
		links = append(links, strings.TrimSpace(href))
		return true
	})
	if badCard != nil {
		return nil, badCard
	}

	return links, nil
}

// NextPageHref reports whether the panel page fetched at the given
// offset links to a further page, and returns that link's target. The
// next page sits at offset+PerPage; a panel without a link to exactly
// that offset is the last page. Absence is a normal stop, never an
// error.
func NextPageHref(doc *goquery.Document, offset int) (string, bool) {
	want := offset + PerPage

	var href string
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		target := strings.TrimSpace(a.AttrOr("href", ""))
		matches := needIndexPattern.FindStringSubmatch(target)
		if matches == nil {
			return true
		}
		n, err := strconv.Atoi(matches[1])
		if err != nil || n != want {
			return true
		}
		href = target
		return false
	})

	return href, href != ""
}
