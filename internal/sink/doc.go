// Package sink delivers the records of a completed scrape run to their
// destination: the Postgres store in production, or a dry-run printer
// for checking a scrape without writing anything.
package sink
