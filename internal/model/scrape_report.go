package model

import "time"

// ScrapeReport accumulates the state of one scrape run as it moves
// through the pipeline. The fetch step fills in the raw page and
// attempt accounting, the extract step fills in year labels and
// records, and the store step records how many rows were persisted.
//
// Design decision: Steps communicate through this single accumulator
// rather than returning values to each other because it mirrors how
// the run is reported afterwards: everything a report writer needs is
// in one place, including partial results when a later step fails.
type ScrapeReport struct {
	// SourceURL is the page this run scraped.
	SourceURL string `json:"source_url"`

	// DateScraped is when the run started.
	DateScraped time.Time `json:"date_scraped"`

	// Attempts is the number of HTTP attempts the fetch made,
	// including the successful one.
	Attempts int `json:"attempts"`

	// FetchElapsed is the wall-clock time spent fetching, across
	// all attempts.
	FetchElapsed time.Duration `json:"fetch_elapsed"`

	// RawHTML is the fetched page body. It is consumed by the extract
	// step and excluded from JSON output to keep reports small.
	RawHTML string `json:"-"`

	// Years holds the year column labels found in the table header,
	// in document order.
	Years []string `json:"years"`

	// Holidays holds the extracted records in encounter order.
	Holidays []Holiday `json:"holidays"`

	// RowsSkipped counts body rows dropped because they had no
	// name element.
	RowsSkipped int `json:"rows_skipped,omitempty"`

	// Saved is the number of records persisted to the database.
	// Zero when saving is disabled.
	Saved int `json:"saved"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Error holds the fatal error of the run, if any.
	// ErrorMessage carries the same information through JSON encoding.
	Error        error  `json:"-"`
	ErrorMessage string `json:"error,omitempty"`
}

// NewScrapeReport creates a report for the given source URL with the
// scrape time set to now.
func NewScrapeReport(sourceURL string) *ScrapeReport {
	return &ScrapeReport{
		SourceURL:   sourceURL,
		DateScraped: time.Now().UTC(),
		Holidays:    make([]Holiday, 0),
	}
}

// RecordCount returns the number of extracted records.
func (r *ScrapeReport) RecordCount() int {
	return len(r.Holidays)
}

// HasRecords reports whether the run extracted at least one record.
func (r *ScrapeReport) HasRecords() bool {
	return len(r.Holidays) > 0
}

// CountByYear returns how many records were extracted per year label.
// The keys follow the Years slice; years with no records map to zero.
func (r *ScrapeReport) CountByYear() map[string]int {
	counts := make(map[string]int, len(r.Years))
	for _, y := range r.Years {
		counts[y] = 0
	}
	for _, h := range r.Holidays {
		counts[h.Year]++
	}
	return counts
}
