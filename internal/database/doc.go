// Package database provides SQLite-based storage for holidayscan.
//
// This package implements the HolidayDB, which stores:
//   - Extracted holiday records, one row per (holiday, year) pair
//   - Scrape run metadata for historical auditing
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of
// other databases because:
//  1. No external dependencies - the database is a single file
//  2. CGO-free implementation allows easy cross-compilation
//  3. Sufficient performance for our use case
//  4. WAL mode provides good concurrent read performance
package database
