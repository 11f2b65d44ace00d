package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/holidayscan/internal/model"
	"golang.org/x/sync/errgroup"
)

// BatchProcessor handles concurrent scraping of multiple source pages.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate BatchProcessor rather than adding
// batch functionality to Pipeline because:
// 1. It keeps the Pipeline focused on single-source execution
// 2. It allows per-source pipelines (each source may need its own
//    headers or retry budget)
// 3. It provides cleaner separation of concerns
type BatchProcessor struct {
	// pipelineFactory creates a pipeline for each source URL.
	// A factory (rather than a shared instance) lets each source get
	// a fetch client configured with its own headers and retries.
	pipelineFactory func(sourceURL string) *Pipeline

	// concurrency is the maximum number of concurrent scrapes.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed reports.
	// Access is synchronized via mutex.
	results []*model.ScrapeReport
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent scrapes.
// Default is 4 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// The pipelineFactory function is called once per source URL to create
// a fresh pipeline instance. This ensures that pipeline state doesn't
// leak between sources and allows per-source customization.
func NewBatchProcessor(pipelineFactory func(sourceURL string) *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     4,
		results:         make([]*model.ScrapeReport, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch scrapes multiple source pages concurrently.
// It respects the configured concurrency limit and context cancellation.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// Each source gets its own goroutine, but only 'concurrency' goroutines
// run simultaneously.
//
// Returns all reports collected, in the order of the input slice, even
// for sources that failed. The error return indicates cancellation.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, sources []string) ([]*model.ScrapeReport, error) {
	bp.logger.Info("starting batch scrape",
		"total_sources", len(sources),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Pre-allocate results slice to maintain order
	bp.results = make([]*model.ScrapeReport, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, source := range sources {
		i, source := i, source
		g.Go(func() error {
			// Check for cancellation before starting
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("scraping source",
				"source", source,
				"index", i+1,
				"total", len(sources),
			)

			report := model.NewScrapeReport(source)

			pipeline := bp.pipelineFactory(source)
			err := pipeline.Execute(ctx, report)

			// Store result regardless of error
			// The report contains error information if the scrape failed
			bp.mu.Lock()
			bp.results[i] = report
			bp.mu.Unlock()

			if err != nil {
				bp.logger.Warn("scrape failed",
					"source", source,
					"error", err,
				)
				// Don't return error to errgroup - we want the other
				// sources to finish. The error is recorded in the report.
				return nil
			}

			bp.logger.Info("scrape completed",
				"source", source,
				"records", report.RecordCount(),
			)

			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch scrape complete",
		"total_sources", len(sources),
		"elapsed", time.Since(startTime),
	)

	return bp.results, err
}
