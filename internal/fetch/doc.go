// Package fetch provides the HTTP client used to retrieve the holiday
// schedule page.
//
// The client wraps net/http with a bounded retry loop: each Fetch call
// makes one initial attempt plus up to maxRetries retries with a fixed
// delay between them, and gives up with an ExhaustedError once the
// budget is spent. The client also keeps lifetime usage counters so
// callers can audit reliability without instrumenting the network
// layer themselves.
package fetch
