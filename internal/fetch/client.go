package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Default client settings. The retry schedule is deliberately a fixed
// delay rather than exponential backoff: the target is a single
// low-traffic static page, and a constant pause is enough to ride out
// transient failures without complicating the loop.
const (
	// DefaultTimeout is the per-attempt request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the number of retries after the initial
	// attempt, so a fetch makes at most DefaultMaxRetries+1 attempts.
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the fixed pause between attempts.
	DefaultRetryDelay = 2 * time.Second

	// DefaultUserAgent identifies holidayscan in HTTP requests.
	// A descriptive User-Agent lets site operators identify scraper
	// traffic in their logs.
	DefaultUserAgent = "holidayscan/1.0 (+https://github.com/nao1215/holidayscan)"

	// DefaultMaxBodySize limits the response body size to read.
	// 5MB is far more than any schedule page needs while preventing
	// memory exhaustion from an unexpected response.
	DefaultMaxBodySize = 5 * 1024 * 1024
)

// Stats holds lifetime usage counters for one Client. The counters are
// updated exactly once per Fetch call, not per attempt: a call that
// retried four times before succeeding still counts as one total and
// one successful request.
type Stats struct {
	// TotalRequests is the number of completed Fetch calls.
	TotalRequests uint64

	// SuccessfulRequests counts Fetch calls that returned a body.
	SuccessfulRequests uint64

	// FailedRequests counts Fetch calls that exhausted their attempts.
	FailedRequests uint64
}

// Client fetches pages over HTTP with bounded retries.
//
// Design decision: The retry loop is an explicit attempt counter with
// per-attempt failures kept local, raising only when the budget is
// exhausted. This keeps a single fetch's control flow readable and
// makes the attempt accounting trivial to report.
type Client struct {
	// httpClient carries the per-attempt timeout.
	httpClient *http.Client

	// maxRetries is the retry budget after the initial attempt.
	maxRetries int

	// retryDelay is the fixed pause between attempts.
	retryDelay time.Duration

	// userAgent is sent as the User-Agent header on every request.
	userAgent string

	// headers are additional default headers sent on every request.
	headers map[string]string

	// maxBodySize limits how much of the response body is read.
	maxBodySize int64

	// logger for structured per-attempt logging.
	logger *slog.Logger

	// mu serializes stats updates. The client is designed for
	// single-caller sequential use, but the mutex makes concurrent
	// fetches against one instance safe as well.
	mu    sync.Mutex
	stats Stats
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-attempt request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithMaxRetries sets the number of retries after the initial attempt.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithRetryDelay sets the fixed pause between attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.retryDelay = d
		}
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithHeaders sets additional default headers sent with every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		c.headers = headers
	}
}

// WithMaxBodySize sets the maximum response body size to read.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		if size > 0 {
			c.maxBodySize = size
		}
	}
}

// WithLogger sets a custom logger for per-attempt logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient replaces the underlying HTTP client.
// This exists mainly for tests that need custom transports.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a Client with default timeout and retry settings.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		maxRetries:  DefaultMaxRetries,
		retryDelay:  DefaultRetryDelay,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Result describes a completed fetch: the page body plus the attempt
// accounting a caller may want to report.
type Result struct {
	// Body is the fetched page as text.
	Body string

	// Attempts is how many HTTP attempts the fetch made, including
	// the successful one.
	Attempts int

	// Elapsed is the wall-clock time across all attempts.
	Elapsed time.Duration
}

// Fetch retrieves the page at pageURL and returns its body as text.
// It makes up to maxRetries+1 attempts, pausing retryDelay between
// them, and returns the body of the first attempt with a success
// status. When every attempt fails it returns an *ExhaustedError.
//
// Exactly one stats update happens per call regardless of how many
// attempts were made.
func (c *Client) Fetch(ctx context.Context, pageURL string) (string, error) {
	result, err := c.FetchDetailed(ctx, pageURL)
	if err != nil {
		return "", err
	}
	return result.Body, nil
}

// FetchDetailed is Fetch with attempt accounting for callers that
// report on the run afterwards. The retry behavior and the
// once-per-call stats update are identical to Fetch.
func (c *Client) FetchDetailed(ctx context.Context, pageURL string) (*Result, error) {
	start := time.Now()

	var lastErr error
	attempts := 0
	for attempts <= c.maxRetries {
		attempts++

		body, err := c.attempt(ctx, pageURL)
		if err == nil {
			c.recordSuccess()
			elapsed := time.Since(start)
			c.logger.Info("fetched page",
				"url", pageURL,
				"attempt", attempts,
				"elapsed", elapsed,
			)
			return &Result{
				Body:     body,
				Attempts: attempts,
				Elapsed:  elapsed,
			}, nil
		}
		lastErr = err

		c.logger.Warn("fetch attempt failed",
			"url", pageURL,
			"attempt", attempts,
			"error", err,
		)

		// Pause before the next attempt if any budget remains.
		// The wait is cooperative: only this fetch blocks.
		if attempts <= c.maxRetries {
			select {
			case <-ctx.Done():
				c.recordFailure()
				return nil, ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}
	}

	c.recordFailure()
	return nil, &ExhaustedError{
		URL:      pageURL,
		Attempts: attempts,
		Elapsed:  time.Since(start),
		LastErr:  lastErr,
	}
}

// attempt performs a single GET request. A response with a non-2xx
// status is a failed attempt, same as a transport error.
func (c *Client) attempt(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// Drain the body so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, c.maxBodySize)) //nolint:errcheck // Best effort drain
		return "", fmt.Errorf("unexpected status: %s", resp.Status)
	}

	// The body is consumed as UTF-8 text regardless of the declared
	// Content-Type; the target page is known to be UTF-8 encoded.
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), nil
}

// Stats returns a copy of the client's lifetime usage counters.
func (c *Client) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// recordSuccess counts one completed, successful Fetch call.
func (c *Client) recordSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.TotalRequests++
	c.stats.SuccessfulRequests++
}

// recordFailure counts one completed, failed Fetch call.
func (c *Client) recordFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.TotalRequests++
	c.stats.FailedRequests++
}
