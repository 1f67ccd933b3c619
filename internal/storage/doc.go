// Package storage persists scraped volunteering records in Postgres.
//
// Every scrape run is written in a single transaction: one row per
// opportunity in volunteering_events and one row per shift date in
// event_shifts, ordered the way the site listed them. A failed run
// therefore never leaves partial data behind.
package storage
