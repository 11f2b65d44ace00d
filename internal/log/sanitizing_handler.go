package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// sensitiveKeys contains attribute keys that are always masked.
// These are the credential-shaped values that per-source configuration
// can inject into requests.
var sensitiveKeys = map[string]bool{
	// HTTP headers
	"authorization":       true,
	"cookie":              true,
	"set-cookie":          true,
	"x-api-key":           true,
	"x-auth-token":        true,
	"proxy-authorization": true,

	// Generic credential keys
	"password": true,
	"secret":   true,
	"token":    true,
	"api_key":  true,
	"apikey":   true,
	"api-key":  true,
}

// sensitivePatterns contains regex patterns that indicate credential
// values. Values matching these patterns are masked regardless of key
// name.
var sensitivePatterns = []*regexp.Regexp{
	// Bearer tokens
	regexp.MustCompile(`(?i)^bearer\s+.+`),

	// Basic auth
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),

	// JWT tokens
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),
}

// MaskValue is the string used to replace masked values.
const MaskValue = "***REDACTED***"

// SanitizingHandler wraps an slog.Handler to mask credential values.
// It intercepts log records and masks attribute values that match
// credential key names or value patterns before passing them to the
// underlying handler.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Call sites stay ordinary slog calls with no masking discipline
type SanitizingHandler struct {
	// handler is the underlying slog handler that receives masked records.
	handler slog.Handler
}

// NewSanitizingHandler creates a new SanitizingHandler wrapping the
// given handler. If handler is nil, slog.Default().Handler() is used.
func NewSanitizingHandler(handler slog.Handler) *SanitizingHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SanitizingHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *SanitizingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's attributes and passes it to the underlying
// handler.
func (h *SanitizingHandler) Handle(ctx context.Context, r slog.Record) error {
	masked := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(h.sanitizeAttr(a))
		return true
	})

	return h.handler.Handle(ctx, masked)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are masked before being added.
func (h *SanitizingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	maskedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		maskedAttrs[i] = h.sanitizeAttr(a)
	}
	return &SanitizingHandler{handler: h.handler.WithAttrs(maskedAttrs)}
}

// WithGroup returns a new handler with the given group name.
func (h *SanitizingHandler) WithGroup(name string) slog.Handler {
	return &SanitizingHandler{handler: h.handler.WithGroup(name)}
}

// sanitizeAttr masks a single attribute, recursively handling groups.
func (h *SanitizingHandler) sanitizeAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		maskedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			maskedAttrs[i] = h.sanitizeAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(maskedAttrs...)}
	}

	keyLower := strings.ToLower(a.Key)
	if sensitiveKeys[keyLower] {
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() == slog.KindString {
		if isSensitiveValue(a.Value.String()) {
			return slog.String(a.Key, MaskValue)
		}
	}

	return a
}

// isSensitiveValue checks if a value matches credential patterns.
func isSensitiveValue(value string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}

// NewLogger creates a new slog.Logger with credential masking and
// human-readable text output.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	textHandler := slog.NewTextHandler(w, opts)
	return slog.New(NewSanitizingHandler(textHandler))
}

// NewJSONLogger creates a new slog.Logger with credential masking that
// outputs JSON format. Useful for structured log aggregation.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	jsonHandler := slog.NewJSONHandler(w, opts)
	return slog.New(NewSanitizingHandler(jsonHandler))
}
