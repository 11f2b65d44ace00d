// Package model defines the core data structures shared across holidayscan.
//
// The central types are Holiday, a single (year, name, date) record
// extracted from the schedule table, and ScrapeReport, the accumulator
// that pipeline steps fill in as a scrape run progresses.
package model
