package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values are chosen to be polite to the source site while still
// recovering from the transient failures government pages tend to have.
const (
	// DefaultSourceURL is the public holiday table this tool was built
	// for. Any page with the same table shape works; this is just the
	// out-of-the-box target.
	DefaultSourceURL = "https://www.commerce.wa.gov.au/labour-relations/public-holidays-western-australia"

	// DefaultTimeout is the per-request HTTP timeout. Government sites
	// can be slow but 30 seconds is enough headroom for a single page.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is how many times a failed fetch is retried.
	// With the initial attempt this gives four tries per page, which
	// rides out short outages without hammering the server.
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the fixed pause between retry attempts.
	// Two seconds is long enough for transient errors to clear and
	// short enough that a full retry cycle stays under ten seconds.
	DefaultRetryDelay = 2 * time.Second

	// DefaultBatchSize is the number of concurrent fetches when
	// scraping multiple sources. Holiday pages are small, so a low
	// concurrency keeps us well under any rate limit.
	DefaultBatchSize = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "holidayscan"

	// DefaultUserAgent identifies holidayscan in HTTP requests.
	// Using a descriptive User-Agent is good practice and allows
	// operators to identify scraper traffic in their logs.
	DefaultUserAgent = "holidayscan/1.0 (+https://github.com/nao1215/holidayscan)"

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 5MB is sufficient for any HTML page while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB
)

// Config holds all configuration options for holidayscan.
// This struct is designed to be populated from CLI flags and the
// optional config file, then passed through the application via
// dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested
// structs (e.g., FetchConfig, ReportConfig) for simplicity. The number
// of options is manageable, and nesting would add complexity without
// significant benefit.
type Config struct {
	// Sources is the list of page URLs to scrape.
	// When empty, DefaultSourceURL is used.
	Sources []string

	// Timeout is the HTTP timeout for each request attempt.
	Timeout time.Duration

	// MaxRetries is the number of retries after a failed attempt.
	// A value of zero means a single attempt with no retries.
	MaxRetries int

	// RetryDelay is the fixed delay between retry attempts.
	RetryDelay time.Duration

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchSize is the number of concurrent fetches when scraping
	// multiple sources.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .holidayscan in the current
	// directory and then in the user's home directory.
	ConfigFilePath string

	// SourceConfigs holds per-source configurations loaded from the
	// config file. This is populated by LoadConfigFile.
	SourceConfigs *File

	// JSONReport enables JSON report output instead of the
	// human-readable format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of the
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated.
	// Set to 0 to use the default (5MB).
	MaxBodySize int64

	// DBDir is the directory path for storing the SQLite database.
	// Defaults to the XDG data directory
	// (~/.local/share/holidayscan on Linux).
	DBDir string

	// SaveToDB indicates whether to persist extracted records.
	// Disabled with the --no-save CLI flag.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most
// use cases. Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, retry
// delay). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Timeout:     DefaultTimeout,
		MaxRetries:  DefaultMaxRetries,
		RetryDelay:  DefaultRetryDelay,
		BatchSize:   DefaultBatchSize,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		SaveToDB:    true,
	}
}

// XDGDataDir returns the XDG data directory for holidayscan.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/holidayscan
// On macOS: ~/Library/Application Support/holidayscan
// On Windows: %LOCALAPPDATA%\holidayscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for holidayscan.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/holidayscan
// On macOS: ~/Library/Application Support/holidayscan
// On Windows: %APPDATA%\holidayscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any scraping begins.
//
// We chose to return the first error found rather than collecting all
// errors because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// Timeout must be positive; zero timeout would cause immediate failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	// A negative retry count is invalid; zero means a single attempt
	if c.MaxRetries < 0 {
		return ErrInvalidMaxRetries
	}

	// RetryDelay must be non-negative
	if c.RetryDelay < 0 {
		return ErrInvalidRetryDelay
	}

	// BatchSize must be positive; zero would mean no scraping
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	// MaxBodySize must be non-negative if set
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}

// SourceList returns the configured source URLs, falling back to the
// default page when none were provided.
func (c *Config) SourceList() []string {
	if len(c.Sources) == 0 {
		return []string{DefaultSourceURL}
	}
	return c.Sources
}
