package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to
// use errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than
// fmt.Errorf() because we don't need to include dynamic values in
// these messages.
var (
	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A timeout of zero or negative would cause immediate request failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxRetries is returned when the retry count is negative.
	// Use 0 for a single attempt with no retries.
	ErrInvalidMaxRetries = errors.New("invalid max retries: must be non-negative")

	// ErrInvalidRetryDelay is returned when the retry delay is negative.
	// Use 0 for back-to-back retry attempts.
	ErrInvalidRetryDelay = errors.New("invalid retry delay: must be non-negative")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	// A batch size of zero would mean no concurrent fetches, effectively
	// stopping the scrape.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// A negative body size is invalid; use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")
)
