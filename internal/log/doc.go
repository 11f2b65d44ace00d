// Package log provides logging for holidayscan with automatic
// sanitization of request credentials, built on top of the standard
// slog package.
//
// Per-source configuration may carry cookies or authorization headers
// a site requires, and debug logging echoes request details. The
// SanitizingHandler masks those values so a verbose log can be shared
// without leaking credentials.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	logger.Debug("request sent",
//	    "cookie", "session=abc123",  // Masked in output
//	    "url", "https://example.com/holidays",
//	)
package log
