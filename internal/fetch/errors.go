package fetch

import (
	"fmt"
	"time"
)

// ExhaustedError is returned by Fetch when every attempt failed.
// It carries the attempt count and the wall-clock time spent across
// all attempts so callers can report retry behavior without having
// instrumented the client.
type ExhaustedError struct {
	// URL is the page that could not be fetched.
	URL string

	// Attempts is the total number of attempts made, including the
	// initial one.
	Attempts int

	// Elapsed is the wall-clock duration from the first attempt to
	// the final failure, including retry delays.
	Elapsed time.Duration

	// LastErr is the error from the final attempt, if the failure was
	// a transport error rather than a bad status.
	LastErr error
}

// Error implements the error interface.
func (e *ExhaustedError) Error() string {
	if e.LastErr != nil {
		return fmt.Sprintf("failed to fetch %s after %d attempts in %s: %v",
			e.URL, e.Attempts, e.Elapsed.Round(time.Millisecond), e.LastErr)
	}
	return fmt.Sprintf("failed to fetch %s after %d attempts in %s",
		e.URL, e.Attempts, e.Elapsed.Round(time.Millisecond))
}

// Unwrap returns the error from the final attempt, if any.
func (e *ExhaustedError) Unwrap() error {
	return e.LastErr
}
