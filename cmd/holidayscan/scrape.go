package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/nao1215/holidayscan/internal/config"
	"github.com/nao1215/holidayscan/internal/database"
	"github.com/nao1215/holidayscan/internal/extract"
	"github.com/nao1215/holidayscan/internal/fetch"
	"github.com/nao1215/holidayscan/internal/log"
	"github.com/nao1215/holidayscan/internal/model"
	"github.com/nao1215/holidayscan/internal/pipeline"
	"github.com/nao1215/holidayscan/internal/report"
	"github.com/spf13/cobra"
)

// NewScrapeCmd creates the scrape command.
func NewScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape [url...]",
		Short: "Fetch holiday pages and extract their tables",
		Long: `Scrape fetches one or more public holiday pages, extracts the holiday
table from each, stores the records in the local database, and prints
a report.

Without arguments, the default Western Australia public holidays page
is scraped. Any page with the same table shape (year columns in the
header, one emphasized holiday name per row) can be passed instead.

Examples:
  # Scrape the default page
  holidayscan scrape

  # Scrape specific pages
  holidayscan scrape https://example.gov/holidays https://other.gov/holidays

  # Output a Markdown report to a file
  holidayscan scrape --markdown -o report.md

  # Scrape without persisting records
  holidayscan scrape --no-save

Configuration file (.holidayscan) example:
  sources:
    "https://example.gov/holidays":
      cookie: "session=abc123"
      maxRetries: 5`,
		Args: cobra.ArbitraryArgs,
		RunE: runScrapeCmd,
	}

	// Fetch behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"HTTP timeout for each request attempt")
	cmd.Flags().IntP("retries", "r", config.DefaultMaxRetries,
		"Number of retries after a failed attempt")
	cmd.Flags().Duration("retry-delay", config.DefaultRetryDelay,
		"Fixed delay between retry attempts")
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User-Agent header sent with requests")

	// Batch scraping flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent fetches when scraping multiple pages")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .holidayscan in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// Persistence flags
	cmd.Flags().Bool("no-save", false,
		"Do not persist extracted records to the database")
	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")

	return cmd
}

// runScrapeCmd executes the scrape command.
func runScrapeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with credential masking
	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScrape(ctx, cmd, cfg, logger)
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.MaxRetries, err = cmd.Flags().GetInt("retries")
	if err != nil {
		return nil, err
	}

	cfg.RetryDelay, err = cmd.Flags().GetDuration("retry-delay")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load per-source configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SourceConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.SourceConfigs = &config.File{
			Sources: make(map[string]config.SourceConfig),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave

	cfg.DBDir, err = cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if cfg.DBDir == "" {
		cfg.DBDir = config.XDGDataDir()
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Positional arguments are the pages to scrape
	cfg.Sources = args

	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// runScrape executes the scrape across all configured sources.
func runScrape(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	sources := cfg.SourceList()

	logger.Info("starting scrape",
		"sources", sources,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	// Open database connection if saving is enabled
	var db *database.HolidayDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	extractor, err := extract.New(extract.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create extractor: %w", err)
	}

	startTime := time.Now()

	// The batch processor handles the single-source case too: one
	// goroutine, same reporting path.
	bp := pipeline.NewBatchProcessor(
		func(sourceURL string) *pipeline.Pipeline {
			return createPipelineForSource(cfg, sourceURL, extractor, db, logger)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	reports, err := bp.ProcessBatch(ctx, sources)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Scraped %d page(s) in %s\n",
		len(reports), time.Since(startTime).Round(time.Millisecond))

	// Output a report per source
	var failures int
	for _, scrapeReport := range reports {
		if scrapeReport == nil {
			continue
		}
		if scrapeReport.Error != nil {
			failures++
		}
		if err := outputReport(cfg, scrapeReport); err != nil {
			logger.Error("report output failed",
				"source", scrapeReport.SourceURL,
				"error", err,
			)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d source(s) failed", failures, len(reports))
	}

	return nil
}

// createPipelineForSource builds a pipeline whose fetch client carries
// the per-source configuration (cookie, headers, retry budget).
func createPipelineForSource(cfg *config.Config, sourceURL string, extractor *extract.Extractor, db *database.HolidayDB, logger *slog.Logger) *pipeline.Pipeline {
	sourceConfig := cfg.SourceConfigs.GetSourceConfig(sourceURL)

	userAgent := cfg.UserAgent
	if sourceConfig.UserAgent != "" {
		userAgent = sourceConfig.UserAgent
	}

	maxRetries := cfg.MaxRetries
	if sourceConfig.MaxRetries != 0 {
		maxRetries = sourceConfig.MaxRetries
	}

	headers := make(map[string]string, len(sourceConfig.Headers)+1)
	for k, v := range sourceConfig.Headers {
		headers[k] = v
	}
	if sourceConfig.Cookie != "" {
		headers["Cookie"] = sourceConfig.Cookie
	}

	client := fetch.NewClient(
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithMaxRetries(maxRetries),
		fetch.WithRetryDelay(cfg.RetryDelay),
		fetch.WithUserAgent(userAgent),
		fetch.WithHeaders(headers),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
		fetch.WithLogger(logger),
	)

	// continueOnError keeps the store step running after a failed
	// fetch, so the run and its error still land in the history.
	return pipeline.DefaultPipeline(client, extractor, db,
		pipeline.WithLogger(logger),
		pipeline.WithContinueOnError(true),
	)
}

// outputReport outputs the scrape report in the requested format.
func outputReport(cfg *config.Config, scrapeReport *model.ScrapeReport) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Append so multi-source runs collect into one file
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	_, err := writer.Write(scrapeReport)
	return err
}
