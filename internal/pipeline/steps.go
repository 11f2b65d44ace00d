package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nao1215/holidayscan/internal/database"
	"github.com/nao1215/holidayscan/internal/extract"
	"github.com/nao1215/holidayscan/internal/fetch"
	"github.com/nao1215/holidayscan/internal/model"
)

// FetchStep retrieves the source page over HTTP with retries and
// records the raw body plus attempt accounting in the report.
//
// Design decision: Fetching is a separate step because:
// 1. It's the only step that touches the network
// 2. Its failure mode (retry exhaustion) ends the run
// 3. Tests can replace it to drive the extract step with fixed markup
type FetchStep struct {
	// client performs the HTTP fetches.
	client *fetch.Client

	// logger for structured logging.
	logger *slog.Logger
}

// FetchStepOption configures a FetchStep.
type FetchStepOption func(*FetchStep)

// WithFetchLogger sets a custom logger for the fetch step.
func WithFetchLogger(logger *slog.Logger) FetchStepOption {
	return func(s *FetchStep) {
		s.logger = logger
	}
}

// NewFetchStep creates a new fetch step using the given client.
func NewFetchStep(client *fetch.Client, opts ...FetchStepOption) *FetchStep {
	s := &FetchStep{
		client: client,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *FetchStep) Name() string {
	return "fetch"
}

// Do executes the fetch step. The report's attempt accounting is
// filled in even when the fetch exhausts its retries, so a failed run
// still reports how hard it tried.
func (s *FetchStep) Do(ctx context.Context, report *model.ScrapeReport) error {
	result, err := s.client.FetchDetailed(ctx, report.SourceURL)
	if err != nil {
		var exhausted *fetch.ExhaustedError
		if errors.As(err, &exhausted) {
			report.Attempts = exhausted.Attempts
			report.FetchElapsed = exhausted.Elapsed
		}
		return err
	}

	report.RawHTML = result.Body
	report.Attempts = result.Attempts
	report.FetchElapsed = result.Elapsed

	return nil
}

// ExtractStep parses the fetched page and fills the report with year
// labels and holiday records.
type ExtractStep struct {
	// extractor parses the holiday table.
	extractor *extract.Extractor

	// logger for structured logging.
	logger *slog.Logger
}

// ExtractStepOption configures an ExtractStep.
type ExtractStepOption func(*ExtractStep)

// WithExtractLogger sets a custom logger for the extract step.
func WithExtractLogger(logger *slog.Logger) ExtractStepOption {
	return func(s *ExtractStep) {
		s.logger = logger
	}
}

// NewExtractStep creates a new extract step using the given extractor.
func NewExtractStep(extractor *extract.Extractor, opts ...ExtractStepOption) *ExtractStep {
	s := &ExtractStep{
		extractor: extractor,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *ExtractStep) Name() string {
	return "extract"
}

// Do executes the extract step. Extraction never fails: malformed or
// empty markup yields zero records, which is a reportable outcome
// rather than an error.
func (s *ExtractStep) Do(_ context.Context, report *model.ScrapeReport) error {
	result := s.extractor.Extract(report.RawHTML)

	report.Years = result.Years
	report.Holidays = result.Holidays
	report.RowsSkipped = result.RowsSkipped

	s.logger.Info("extraction completed",
		"source", report.SourceURL,
		"years", len(result.Years),
		"records", len(result.Holidays),
		"rows_skipped", result.RowsSkipped,
	)

	return nil
}

// StoreStep persists extracted records and the run's metadata to the
// database.
type StoreStep struct {
	// db is the storage backend.
	db *database.HolidayDB

	// logger for structured logging.
	logger *slog.Logger
}

// StoreStepOption configures a StoreStep.
type StoreStepOption func(*StoreStep)

// WithStoreLogger sets a custom logger for the store step.
func WithStoreLogger(logger *slog.Logger) StoreStepOption {
	return func(s *StoreStep) {
		s.logger = logger
	}
}

// NewStoreStep creates a new store step using the given database.
func NewStoreStep(db *database.HolidayDB, opts ...StoreStepOption) *StoreStep {
	s := &StoreStep{
		db:     db,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *StoreStep) Name() string {
	return "store"
}

// Do executes the store step. Records and the run entry are written
// even when the run extracted nothing, so an empty result is still
// visible in the history.
func (s *StoreStep) Do(ctx context.Context, report *model.ScrapeReport) error {
	if err := s.db.InsertHolidays(ctx, report.Holidays); err != nil {
		return err
	}
	report.Saved = len(report.Holidays)

	if err := s.db.SaveScrapeRun(ctx, report); err != nil {
		return err
	}

	s.logger.Info("records persisted",
		"source", report.SourceURL,
		"saved", report.Saved,
	)

	return nil
}

// DefaultPipeline creates a pipeline with the standard scrape steps:
// fetch, extract, and optionally store.
//
// Design decision: We provide a default pipeline because:
// 1. Most runs want the full fetch-extract-store sequence
// 2. It reduces boilerplate in the CLI
// 3. It ensures consistent step ordering
//
// Pass a nil db to skip persistence (the --no-save path).
func DefaultPipeline(client *fetch.Client, extractor *extract.Extractor, db *database.HolidayDB, opts ...Option) *Pipeline {
	p := New(opts...)

	p.AddSteps(
		NewFetchStep(client, WithFetchLogger(p.logger)),
		NewExtractStep(extractor, WithExtractLogger(p.logger)),
	)

	if db != nil {
		p.AddStep(NewStoreStep(db, WithStoreLogger(p.logger)))
	}

	return p
}
