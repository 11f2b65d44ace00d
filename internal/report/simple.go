package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/holidayscan/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose enables the full record listing in the output.
	// When false, only the summary sections are shown.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output including the full record listing.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.ScrapeReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeSummary(&sb, report)
	if w.verbose {
		w.writeRecords(&sb, report)
	}
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.ScrapeReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        HOLIDAYSCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Source:        %s\n", report.SourceURL))
	sb.WriteString(fmt.Sprintf("Scrape Date:   %s\n", report.DateScraped.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("HTTP Attempts: %d\n", report.Attempts))
	sb.WriteString(fmt.Sprintf("Fetch Time:    %s\n", report.FetchElapsed))

	if report.ErrorMessage != "" {
		sb.WriteString(fmt.Sprintf("Status:        ERROR - %s\n", report.ErrorMessage))
	} else {
		sb.WriteString("Status:        Complete\n")
	}

	sb.WriteString("\n")
}

// writeSummary writes the extraction summary section.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.ScrapeReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("EXTRACTION SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Year Columns:  %d\n", len(report.Years)))
	sb.WriteString(fmt.Sprintf("  Records:       %d\n", report.RecordCount()))
	sb.WriteString(fmt.Sprintf("  Rows Skipped:  %d\n", report.RowsSkipped))
	sb.WriteString(fmt.Sprintf("  Saved:         %d\n", report.Saved))
	sb.WriteString("\n")

	if len(report.Years) > 0 {
		counts := report.CountByYear()
		sb.WriteString("  Records per year:\n")
		for _, year := range report.Years {
			sb.WriteString(fmt.Sprintf("    %s: %d\n", year, counts[year]))
		}
		sb.WriteString("\n")
	}
}

// writeRecords writes the full record listing.
func (w *SimpleWriter) writeRecords(sb *strings.Builder, report *model.ScrapeReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("RECORDS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if !report.HasRecords() {
		sb.WriteString("  No records extracted\n\n")
		return
	}

	for _, h := range report.Holidays {
		sb.WriteString(fmt.Sprintf("  [%s] %-40s %s\n", h.Year, h.Name, h.Date))
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by holidayscan\n")
	sb.WriteString("https://github.com/nao1215/holidayscan\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
