// Package scraper walks The Stewpot's volunteer portal and extracts one
// record per listed opportunity.
//
// The portal is a browser-rendered site: the scraper drives a Browser
// through a fixed menu path to the paginated events panel, opens every
// event card, and pulls the title, shift dates, street address, and age
// restriction out of the rendered HTML. Extraction is split into pure
// functions over parsed documents so the selectors and parsing rules can
// be exercised against static fixtures without a browser.
package scraper
