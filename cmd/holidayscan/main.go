// Package main provides the entry point for the holidayscan CLI.
//
// holidayscan scrapes public holiday tables from government web pages,
// stores the extracted records in SQLite, and reports on the results.
//
// Usage:
//
//	holidayscan scrape
//	holidayscan scrape <url> [<url>...]
//	holidayscan list --year 2026
//
// See --help for all available options.
package main

// main is the entry point for holidayscan.
func main() {
	Execute()
}
