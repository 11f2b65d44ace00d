// Package pipeline orchestrates the scrape workflow as a sequence of
// steps operating on a shared report.
//
// A scrape run is fetch, extract, store: each concern is a Step and a
// Pipeline executes them in order against one ScrapeReport. The
// BatchProcessor runs one pipeline per source URL with bounded
// concurrency for multi-source scrapes.
package pipeline
