package report

import (
	"io"
	"strconv"

	"github.com/nao1215/holidayscan/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent
// markdown generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.ScrapeReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeRecords(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.ScrapeReport) {
	md.H1("Holidayscan Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Source", "`" + report.SourceURL + "`"},
			{"Scrape Date", report.DateScraped.Format("2006-01-02 15:04:05 MST")},
			{"HTTP Attempts", strconv.Itoa(report.Attempts)},
			{"Fetch Time", report.FetchElapsed.String()},
			{"Status", w.getStatusText(report)},
		},
	})
	md.PlainText("")
}

// getStatusText returns the status text based on report state.
func (w *MarkdownWriter) getStatusText(report *model.ScrapeReport) string {
	if report.ErrorMessage != "" {
		return "❌ Error - " + report.ErrorMessage
	}
	return "✅ Complete"
}

// writeSummary writes the extraction summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.ScrapeReport) {
	md.H2("Extraction Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Year Columns", strconv.Itoa(len(report.Years))},
			{"Records", strconv.Itoa(report.RecordCount())},
			{"Rows Skipped", strconv.Itoa(report.RowsSkipped)},
			{"Saved", strconv.Itoa(report.Saved)},
		},
	})
	md.PlainText("")

	if report.HasRecords() {
		w.writePieChart(md, report)
	}

	w.writeAlert(md, report)
}

// writePieChart writes a mermaid pie chart of records per year.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.ScrapeReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Records per Year"),
		piechart.WithShowData(true),
	)

	counts := report.CountByYear()
	for _, year := range report.Years {
		if counts[year] > 0 {
			chart.LabelAndIntValue(year, uint64(counts[year]))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on the run outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.ScrapeReport) {
	switch {
	case report.ErrorMessage != "":
		md.Cautionf("The scrape failed: %s", report.ErrorMessage)
	case !report.HasRecords():
		md.Warningf("No records were extracted. The page layout may have changed.")
	case report.RowsSkipped > 0:
		md.Importantf("%d row(s) were skipped because they had no name element.", report.RowsSkipped)
	default:
		md.Tip("All table rows were extracted successfully.")
	}
	md.PlainText("")
}

// writeRecords writes the extracted records as a table.
func (w *MarkdownWriter) writeRecords(md *markdown.Markdown, report *model.ScrapeReport) {
	md.H2("Records")
	md.PlainText("")

	if !report.HasRecords() {
		md.PlainText("No records extracted.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Holidays))
	for i, h := range report.Holidays {
		rows[i] = []string{h.Year, h.Name, h.Date}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Year", "Holiday", "Date"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [holidayscan](https://github.com/nao1215/holidayscan)*")
}
