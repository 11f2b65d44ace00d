package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/holidayscan/internal/model"
)

// HolidayDB provides SQLite-based storage for extracted holiday
// records and scrape run history. It manages connection pooling and
// provides methods for inserts and read-back.
//
// The record table is append-only: there is no update or delete path,
// and duplicate records are stored as encountered.
type HolidayDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HolidayDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HolidayDB at the specified path.
// If CreateIfNotExists is true, the directory and database file are
// created. If CreateIfNotExists is false and the database doesn't
// exist, an error is returned.
func Open(dbDir string, opts Options) (*HolidayDB, error) {
	dbPath := filepath.Join(dbDir, "holidayscan.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files
	// and mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; multiple connections don't help.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HolidayDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HolidayDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
// Schema initialization is idempotent so Open can run it every time.
func (hdb *HolidayDB) createTables() error {
	schema := `
	-- Holiday records: one row per (holiday, year) pair, append-only
	CREATE TABLE IF NOT EXISTS holidays (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		date TEXT NOT NULL,
		year TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_year ON holidays(year);
	CREATE INDEX IF NOT EXISTS idx_holidays_name ON holidays(name);

	-- Scrape runs record when and how each scrape happened
	CREATE TABLE IF NOT EXISTS scrape_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source_url TEXT NOT NULL,
		scraped_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		attempts INTEGER DEFAULT 0,
		fetch_elapsed_ms INTEGER DEFAULT 0,
		record_count INTEGER DEFAULT 0,
		error TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_scraped_at ON scrape_runs(scraped_at);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// InsertHolidays inserts a batch of holiday records in a single
// transaction, preserving encounter order. No deduplication is
// performed; duplicate records are legal.
func (hdb *HolidayDB) InsertHolidays(ctx context.Context, holidays []model.Holiday) error {
	if len(holidays) == 0 {
		return nil
	}

	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO holidays (name, date, year) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, h := range holidays {
		if _, err := stmt.ExecContext(ctx, h.Name, h.Date, h.Year); err != nil {
			return fmt.Errorf("failed to insert holiday record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit holiday records: %w", err)
	}

	return nil
}

// ListHolidays returns all stored holiday records in insertion order.
func (hdb *HolidayDB) ListHolidays(ctx context.Context) ([]model.Holiday, error) {
	return hdb.queryHolidays(ctx,
		"SELECT name, date, year FROM holidays ORDER BY id")
}

// ListHolidaysByYear returns the stored records for one year label,
// in insertion order.
func (hdb *HolidayDB) ListHolidaysByYear(ctx context.Context, year string) ([]model.Holiday, error) {
	return hdb.queryHolidays(ctx,
		"SELECT name, date, year FROM holidays WHERE year = ? ORDER BY id", year)
}

// queryHolidays runs a holiday query and scans the rows.
func (hdb *HolidayDB) queryHolidays(ctx context.Context, query string, args ...any) ([]model.Holiday, error) {
	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query holidays: %w", err)
	}
	defer rows.Close()

	holidays := make([]model.Holiday, 0)
	for rows.Next() {
		var h model.Holiday
		if err := rows.Scan(&h.Name, &h.Date, &h.Year); err != nil {
			return nil, fmt.Errorf("failed to scan holiday record: %w", err)
		}
		holidays = append(holidays, h)
	}

	return holidays, rows.Err()
}

// CountHolidays returns the number of stored holiday records.
func (hdb *HolidayDB) CountHolidays(ctx context.Context) (int, error) {
	var count int
	err := hdb.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM holidays").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count holidays: %w", err)
	}
	return count, nil
}

// ScrapeRun is a stored record of one scrape run.
type ScrapeRun struct {
	// ID is the unique identifier of the run.
	ID int64

	// SourceURL is the page the run scraped.
	SourceURL string

	// ScrapedAt is when the run was recorded.
	ScrapedAt time.Time

	// Attempts is the number of HTTP attempts the fetch made.
	Attempts int

	// FetchElapsed is the wall-clock fetch time across all attempts.
	FetchElapsed time.Duration

	// RecordCount is how many records the run extracted.
	RecordCount int

	// Error is the run's fatal error message, empty on success.
	Error string
}

// SaveScrapeRun records the outcome of a scrape run.
func (hdb *HolidayDB) SaveScrapeRun(ctx context.Context, report *model.ScrapeReport) error {
	query := `
	INSERT INTO scrape_runs (source_url, attempts, fetch_elapsed_ms, record_count, error)
	VALUES (?, ?, ?, ?, ?)
	`

	_, err := hdb.db.ExecContext(ctx, query,
		report.SourceURL,
		report.Attempts,
		report.FetchElapsed.Milliseconds(),
		report.RecordCount(),
		report.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to save scrape run: %w", err)
	}

	return nil
}

// ListScrapeRuns returns all recorded scrape runs, newest first.
func (hdb *HolidayDB) ListScrapeRuns(ctx context.Context) ([]ScrapeRun, error) {
	query := `
	SELECT id, source_url, scraped_at, attempts, fetch_elapsed_ms, record_count, COALESCE(error, '')
	FROM scrape_runs
	ORDER BY scraped_at DESC, id DESC
	`

	rows, err := hdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query scrape runs: %w", err)
	}
	defer rows.Close()

	var runs []ScrapeRun
	for rows.Next() {
		var run ScrapeRun
		var scrapedAt string
		var elapsedMS int64

		if err := rows.Scan(&run.ID, &run.SourceURL, &scrapedAt, &run.Attempts, &elapsedMS, &run.RecordCount, &run.Error); err != nil {
			return nil, fmt.Errorf("failed to scan scrape run: %w", err)
		}

		run.ScrapedAt = parseTimestamp(scrapedAt)
		run.FetchElapsed = time.Duration(elapsedMS) * time.Millisecond
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may
// return. The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple
// formats. SQLite may return timestamps in different formats depending
// on configuration. If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
