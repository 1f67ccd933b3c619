package scraper

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/faizanmasroor/volunteery-webapp/internal/event"
)

// fakePage is one page of a scripted site: which selectors can be
// clicked and where they lead, and what InnerHTML returns per selector.
type fakePage struct {
	clicks map[string]string
	html   map[string]string
}

// fakeBrowser implements Browser over a map of scripted pages, tracking
// history the way a real session would.
type fakeBrowser struct {
	pages      map[string]*fakePage
	current    string
	history    []string
	panelReads int
}

func (f *fakeBrowser) Navigate(_ context.Context, url string) error {
	if _, ok := f.pages[url]; !ok {
		return fmt.Errorf("no page at %s", url)
	}
	f.current = url
	f.history = nil
	return nil
}

func (f *fakeBrowser) Click(_ context.Context, selector string) error {
	page := f.pages[f.current]
	if page == nil {
		return fmt.Errorf("not on any page")
	}
	next, ok := page.clicks[selector]
	if !ok {
		return fmt.Errorf("nothing matches %q on %s", selector, f.current)
	}
	f.history = append(f.history, f.current)
	f.current = next
	return nil
}

func (f *fakeBrowser) InnerHTML(_ context.Context, selector string) (string, error) {
	page := f.pages[f.current]
	if page == nil {
		return "", fmt.Errorf("not on any page")
	}
	html, ok := page.html[selector]
	if !ok {
		return "", fmt.Errorf("nothing matches %q on %s", selector, f.current)
	}
	if selector == panelContentSelector {
		f.panelReads++
	}
	return html, nil
}

func (f *fakeBrowser) Back(_ context.Context) error {
	if len(f.history) == 0 {
		return fmt.Errorf("no history")
	}
	f.current = f.history[len(f.history)-1]
	f.history = f.history[:len(f.history)-1]
	return nil
}

// stewpotSite scripts the fixed menu path from the start page to the
// events panel; the caller supplies everything from the panel onward.
func stewpotSite(portal map[string]*fakePage) *fakeBrowser {
	pages := map[string]*fakePage{
		StartURL: {clicks: map[string]string{
			`.button[href="/i-want-to-help"]`: "help",
		}},
		"help": {clicks: map[string]string{
			`.button[href="/volunteer"]`: "volunteer",
		}},
		"volunteer": {clicks: map[string]string{
			`.button[href="https://thestewpot.galaxydigital.com"]`: "portal-home",
		}},
		"portal-home": {clicks: map[string]string{
			`.btn[href="/need/"]`: "panel-1",
		}},
	}
	for name, page := range portal {
		pages[name] = page
	}
	return &fakeBrowser{pages: pages}
}

const locationFragment = `<table><tr><td class="text">
	1822 Young Street
	Dallas, TX 75201
</td></tr></table>`

func TestScrapeAll_TwoEvents(t *testing.T) {
	browser := stewpotSite(map[string]*fakePage{
		"panel-1": {
			html: map[string]string{panelContentSelector: `
				<div class="need"><a href="/need/detail/100">Meal Service</a></div>
				<div class="need"><a href="/need/detail/200">Clothing Room</a></div>
			`},
			clicks: map[string]string{
				`.card-body[href="/need/detail/100"]`: "event-100",
				`.card-body[href="/need/detail/200"]`: "event-200",
			},
		},
		"event-100": {
			html: map[string]string{detailPanelSelector: `
				<h2 class="panel-title">Meal Service Volunteer</h2>
				<table id="shifts-table"><tbody>
					<tr tabindex="0"><td>Mon Jan 5, 2024 9:00am - 12:00pm</td><td>4 open</td></tr>
				</tbody></table>
			`},
			clicks: map[string]string{moreInfoSelector: "info-100"},
		},
		"info-100": {
			html: map[string]string{locationSelector: locationFragment},
		},
		"event-200": {
			html: map[string]string{detailPanelSelector: `
				<h2 class="panel-title">Clothing Room Assistant</h2>
				<section class="requirements"><table><tbody>
					<tr><td>Age Requirement</td></tr>
					<tr><td>18 and older</td></tr>
				</tbody></table></section>
			`},
			clicks: map[string]string{moreInfoSelector: "info-200"},
		},
		"info-200": {
			html: map[string]string{locationSelector: locationFragment},
		},
	})

	s := New(browser, Options{})
	records, err := s.ScrapeAll(context.Background())
	if err != nil {
		t.Fatalf("ScrapeAll() error: %v", err)
	}

	want := []event.Record{
		{
			Title: "Meal Service Volunteer",
			Schedule: event.NewSchedule([]time.Time{
				time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC),
			}),
			Address: "1822 Young Street Dallas, TX 75201",
		},
		{
			Title:          "Clothing Room Assistant",
			Schedule:       event.OngoingSchedule(),
			Address:        "1822 Young Street Dallas, TX 75201",
			AgeRestriction: "18 and older",
		},
	}

	if !reflect.DeepEqual(records, want) {
		t.Errorf("ScrapeAll() = %+v, want %+v", records, want)
	}

	if browser.current != "panel-1" {
		t.Errorf("browser finished on %q, want back on the events panel", browser.current)
	}
}

func TestScrapeAll_Pagination(t *testing.T) {
	detail := func(title string) *fakePage {
		return &fakePage{
			html: map[string]string{detailPanelSelector: fmt.Sprintf(
				`<h2 class="panel-title">%s</h2>`, title,
			)},
			clicks: map[string]string{moreInfoSelector: "info"},
		}
	}

	browser := stewpotSite(map[string]*fakePage{
		"panel-1": {
			html: map[string]string{panelContentSelector: `
				<div class="need"><a href="/need/detail/1">First</a></div>
				<a href="/need/index/12">2</a>
			`},
			clicks: map[string]string{
				`.card-body[href="/need/detail/1"]`: "event-1",
				`a[href="/need/index/12"]`:          "panel-2",
			},
		},
		"panel-2": {
			// The second page links back to the first, never forward:
			// the back-link must not read as another page.
			html: map[string]string{panelContentSelector: `
				<div class="need"><a href="/need/detail/2">Second</a></div>
				<a href="/need/index/0">1</a>
			`},
			clicks: map[string]string{
				`.card-body[href="/need/detail/2"]`: "event-2",
			},
		},
		"event-1": detail("First Opportunity"),
		"event-2": detail("Second Opportunity"),
		"info":    {html: map[string]string{locationSelector: locationFragment}},
	})

	s := New(browser, Options{})
	records, err := s.ScrapeAll(context.Background())
	if err != nil {
		t.Fatalf("ScrapeAll() error: %v", err)
	}

	if browser.panelReads != 2 {
		t.Errorf("visited %d panel pages, want exactly 2", browser.panelReads)
	}

	titles := make([]string, 0, len(records))
	for _, r := range records {
		titles = append(titles, r.Title)
	}
	wantTitles := []string{"First Opportunity", "Second Opportunity"}
	if !reflect.DeepEqual(titles, wantTitles) {
		t.Errorf("titles = %v, want %v", titles, wantTitles)
	}
}

func TestScrapeAll_EmptyPanel(t *testing.T) {
	browser := stewpotSite(map[string]*fakePage{
		"panel-1": {
			html: map[string]string{panelContentSelector: `<p>No results found.</p>`},
		},
	})

	s := New(browser, Options{})
	records, err := s.ScrapeAll(context.Background())
	if err != nil {
		t.Fatalf("ScrapeAll() error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("ScrapeAll() = %d records, want 0", len(records))
	}
}

func TestScrapeAll_BrokenMenuPath(t *testing.T) {
	browser := stewpotSite(nil)
	// The volunteer page lost its portal button.
	browser.pages["volunteer"] = &fakePage{}

	s := New(browser, Options{})
	records, err := s.ScrapeAll(context.Background())
	if records != nil {
		t.Errorf("ScrapeAll() returned records alongside error")
	}

	var navErr *NavigationError
	if !errors.As(err, &navErr) {
		t.Fatalf("ScrapeAll() error = %T, want *NavigationError", err)
	}
	if navErr.Step != "walk menu path" {
		t.Errorf("NavigationError step = %q, want %q", navErr.Step, "walk menu path")
	}
}

func TestScrapeAll_AbortsOnBadShiftDate(t *testing.T) {
	browser := stewpotSite(map[string]*fakePage{
		"panel-1": {
			html: map[string]string{panelContentSelector: `
				<div class="need"><a href="/need/detail/1">Fine</a></div>
				<div class="need"><a href="/need/detail/2">Broken</a></div>
			`},
			clicks: map[string]string{
				`.card-body[href="/need/detail/1"]`: "event-1",
				`.card-body[href="/need/detail/2"]`: "event-2",
			},
		},
		"event-1": {
			html: map[string]string{detailPanelSelector: `
				<h2 class="panel-title">Fine Opportunity</h2>
			`},
			clicks: map[string]string{moreInfoSelector: "info"},
		},
		"event-2": {
			html: map[string]string{detailPanelSelector: `
				<h2 class="panel-title">Broken Opportunity</h2>
				<table id="shifts-table"><tbody>
					<tr tabindex="0"><td>whenever works for you</td></tr>
				</tbody></table>
			`},
			clicks: map[string]string{moreInfoSelector: "info"},
		},
		"info": {html: map[string]string{locationSelector: locationFragment}},
	})

	s := New(browser, Options{})
	records, err := s.ScrapeAll(context.Background())

	// All-or-nothing: the record scraped before the failure is discarded.
	if records != nil {
		t.Errorf("ScrapeAll() = %d records alongside error, want none", len(records))
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("ScrapeAll() error = %T, want *ParseError", err)
	}
}

// The info-page side trip must land back on the detail page whether or
// not the location read succeeds.
func TestScrapeAddress_RestoresDetailPage(t *testing.T) {
	browser := &fakeBrowser{
		pages: map[string]*fakePage{
			"detail": {clicks: map[string]string{moreInfoSelector: "info"}},
			"info":   {}, // no location fragment to read
		},
		current: "detail",
	}

	s := New(browser, Options{})
	_, err := s.scrapeAddress(context.Background())
	if err == nil {
		t.Fatal("scrapeAddress() expected error, got nil")
	}
	if browser.current != "detail" {
		t.Errorf("browser left on %q, want restored to detail page", browser.current)
	}
}

func TestScrapeAll_Deterministic(t *testing.T) {
	site := func() *fakeBrowser {
		return stewpotSite(map[string]*fakePage{
			"panel-1": {
				html: map[string]string{panelContentSelector: `
					<div class="need"><a href="/need/detail/9">Repeatable</a></div>
				`},
				clicks: map[string]string{
					`.card-body[href="/need/detail/9"]`: "event-9",
				},
			},
			"event-9": {
				html: map[string]string{detailPanelSelector: `
					<h2 class="panel-title">Repeatable Opportunity</h2>
					<table id="shifts-table"><tbody>
						<tr tabindex="0"><td>Tue Jul 2, 2024 6:00pm - 8:00pm</td></tr>
					</tbody></table>
				`},
				clicks: map[string]string{moreInfoSelector: "info-9"},
			},
			"info-9": {html: map[string]string{locationSelector: locationFragment}},
		})
	}

	s1 := New(site(), Options{})
	first, err := s1.ScrapeAll(context.Background())
	if err != nil {
		t.Fatalf("first ScrapeAll() error: %v", err)
	}

	s2 := New(site(), Options{})
	second, err := s2.ScrapeAll(context.Background())
	if err != nil {
		t.Fatalf("second ScrapeAll() error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("runs differ:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}
