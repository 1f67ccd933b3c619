// Package event defines the record scraped for each volunteering
// opportunity on The Stewpot's portal.
//
// A record carries exactly the four fields the site exposes per
// opportunity: title, shift schedule, street address, and an optional
// age restriction. The schedule is either an ordered list of shift
// dates or the "Ongoing" sentinel for opportunities with no scheduled
// shifts; it is never both and never empty.
package event
