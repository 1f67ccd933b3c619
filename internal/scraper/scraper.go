package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/faizanmasroor/volunteery-webapp/internal/event"
)

// StartURL is The Stewpot's public site. The volunteer portal hangs off
// a fixed menu path from here.
const StartURL = "https://www.thestewpot.org/"

// menuPath is the click path from the start page to the paginated
// events panel on the volunteer portal, in order.
var menuPath = []string{
	`.button[href="/i-want-to-help"]`,
	`.button[href="/volunteer"]`,
	`.button[href="https://thestewpot.galaxydigital.com"]`,
	`.btn[href="/need/"]`,
}

// Selectors read or clicked once the portal is reached.
const (
	panelContentSelector = ".panel-content"
	detailPanelSelector  = ".panel"
	moreInfoSelector     = ".more-info"
	locationSelector     = ".location"
)

// Browser is the narrow surface the scraper needs from a web browser.
// internal/browser implements it with a headless Chrome session; tests
// substitute a scripted fake serving static fixtures.
type Browser interface {
	// Navigate loads a URL and waits for the page to render.
	Navigate(ctx context.Context, url string) error
	// Click clicks the first element matching the selector and waits for
	// the resulting page to render.
	Click(ctx context.Context, selector string) error
	// InnerHTML returns the inner HTML of the first element matching the
	// selector on the current page.
	InnerHTML(ctx context.Context, selector string) (string, error)
	// Back returns to the previous page in session history.
	Back(ctx context.Context) error
}

// Scraper walks the volunteer portal and collects one record per listed
// opportunity.
type Scraper struct {
	browser  Browser
	startURL string
	log      *zap.Logger
}

// Options configure a Scraper. Zero values mean the production start
// URL and no logging.
type Options struct {
	StartURL string
	Logger   *zap.Logger
}

// New creates a Scraper driving the given browser.
func New(b Browser, opts Options) *Scraper {
	if opts.StartURL == "" {
		opts.StartURL = StartURL
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Scraper{
		browser:  b,
		startURL: opts.StartURL,
		log:      opts.Logger,
	}
}

// ScrapeAll performs one full run: open the start page, walk the menu
// path to the events panel, scrape every event on every panel page, and
// return the records in the order the site lists them. The run is
// all-or-nothing: the first navigation, extraction, or parse failure
// aborts it and no partial results are returned.
func (s *Scraper) ScrapeAll(ctx context.Context) ([]event.Record, error) {
	started := time.Now()

	if err := s.browser.Navigate(ctx, s.startURL); err != nil {
		return nil, &NavigationError{Step: "open start page", Selector: s.startURL, Err: err}
	}
	for _, selector := range menuPath {
		if err := s.browser.Click(ctx, selector); err != nil {
			return nil, &NavigationError{Step: "walk menu path", Selector: selector, Err: err}
		}
	}
	s.log.Info("events panel reached", zap.String("start_url", s.startURL))

	records := make([]event.Record, 0)
	offset := 0
	pages := 0
	for {
		pages++
		doc, err := s.panelDocument(ctx)
		if err != nil {
			return nil, err
		}

		links, err := EventLinks(doc)
		if err != nil {
			return nil, err
		}
		s.log.Info("panel page listed",
			zap.Int("page", pages),
			zap.Int("events", len(links)))

		for _, link := range links {
			record, err := s.scrapeEvent(ctx, link)
			if err != nil {
				return nil, err
			}
			records = append(records, record)
		}

		next, ok := NextPageHref(doc, offset)
		if !ok {
			break
		}
		if err := s.browser.Click(ctx, anchorSelector(next)); err != nil {
			return nil, &NavigationError{Step: "open next panel page", Selector: next, Err: err}
		}
		offset += PerPage
	}

	s.log.Info("scrape finished",
		zap.Int("pages", pages),
		zap.Int("events", len(records)),
		zap.Duration("took", time.Since(started)))
	return records, nil
}

// panelDocument reads and parses the current panel page's card listing.
func (s *Scraper) panelDocument(ctx context.Context) (*goquery.Document, error) {
	html, err := s.browser.InnerHTML(ctx, panelContentSelector)
	if err != nil {
		return nil, &NavigationError{Step: "read events panel", Selector: panelContentSelector, Err: err}
	}
	doc, err := parseFragment(html)
	if err != nil {
		return nil, fmt.Errorf("parsing events panel: %w", err)
	}
	return doc, nil
}

// scrapeEvent opens one event card, extracts its record, and returns
// the browser to the panel. The address lives on a separate info page;
// the detail document is parsed before that side trip, so every other
// field reads from the page as first rendered.
func (s *Scraper) scrapeEvent(ctx context.Context, link string) (event.Record, error) {
	if err := s.browser.Click(ctx, cardSelector(link)); err != nil {
		return event.Record{}, &NavigationError{Step: "open event", Selector: link, Err: err}
	}

	html, err := s.browser.InnerHTML(ctx, detailPanelSelector)
	if err != nil {
		return event.Record{}, &NavigationError{Step: "read event detail", Selector: detailPanelSelector, Err: err}
	}
	doc, err := parseFragment(html)
	if err != nil {
		return event.Record{}, fmt.Errorf("parsing event detail: %w", err)
	}

	title, err := Title(doc)
	if err != nil {
		return event.Record{}, err
	}
	schedule, err := ShiftSchedule(doc)
	if err != nil {
		return event.Record{}, err
	}
	address, err := s.scrapeAddress(ctx)
	if err != nil {
		return event.Record{}, err
	}
	restriction, err := AgeRestriction(doc)
	if err != nil {
		return event.Record{}, err
	}

	if err := s.browser.Back(ctx); err != nil {
		return event.Record{}, &NavigationError{Step: "return to events panel", Selector: link, Err: err}
	}

	record := event.Record{
		Title:          title,
		Schedule:       schedule,
		Address:        address,
		AgeRestriction: restriction,
	}
	s.log.Info("event scraped",
		zap.String("title", record.Title),
		zap.String("dates", record.Schedule.String()))
	return record, nil
}

// scrapeAddress makes the side trip the address requires: open the info
// page via the more-info control, read the embedded location fragment,
// and restore the detail page. The browser is returned to the detail
// page whether or not the read succeeds.
func (s *Scraper) scrapeAddress(ctx context.Context) (string, error) {
	if err := s.browser.Click(ctx, moreInfoSelector); err != nil {
		return "", &NavigationError{Step: "open info page", Selector: moreInfoSelector, Err: err}
	}

	address, err := s.readLocation(ctx)

	if backErr := s.browser.Back(ctx); backErr != nil && err == nil {
		err = &NavigationError{Step: "return to event detail", Selector: moreInfoSelector, Err: backErr}
	}
	if err != nil {
		return "", err
	}
	return address, nil
}

func (s *Scraper) readLocation(ctx context.Context) (string, error) {
	html, err := s.browser.InnerHTML(ctx, locationSelector)
	if err != nil {
		return "", &NavigationError{Step: "read location fragment", Selector: locationSelector, Err: err}
	}
	doc, err := parseFragment(html)
	if err != nil {
		return "", fmt.Errorf("parsing location fragment: %w", err)
	}
	return AddressFromLocation(doc)
}

// parseFragment parses an HTML fragment captured from the browser into
// a queryable document.
func parseFragment(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// cardSelector targets the card that links to the given detail page.
func cardSelector(link string) string {
	return fmt.Sprintf(`.card-body[href=%q]`, link)
}

// anchorSelector targets the anchor with the given link target.
func anchorSelector(href string) string {
	return fmt.Sprintf(`a[href=%q]`, href)
}
