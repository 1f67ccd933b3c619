// Package cli implements the volunteery-scraper command line interface.
//
// The root command runs one full scrape of The Stewpot's volunteering
// portal, filters the results, delivers them to Postgres (or a dry-run
// preview), and prints them as text or JSON.
package cli
