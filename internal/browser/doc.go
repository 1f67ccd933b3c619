// Package browser wraps a headless Chrome session behind the small
// navigate/click/read surface the scraper drives.
package browser
