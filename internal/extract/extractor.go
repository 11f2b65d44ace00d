package extract

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/nao1215/holidayscan/internal/model"
)

// Structural selectors for the schedule table. The first header cell
// is the holiday-name column label and carries no year, so yearLabels
// drops it.
const (
	headerCellSelector = "thead th"
	bodyRowSelector    = "tbody tr"
	nameCellSelector   = "th strong"
	dataCellSelector   = "td"
)

// Extractor parses holiday schedule markup into Holiday records.
//
// Design decision: The navigation logic is written against
// goquery.Matcher rather than string selectors so the extractor depends
// on a query capability, not on one selector engine. Selectors are
// compiled once with cascadia in New; a compile failure there is a
// programming defect, not bad input, and the recognized selector set is
// fixed and known-valid.
//
// The extractor is stateless across calls: Parse is a pure function of
// its input and is safe to invoke concurrently on independent inputs.
type Extractor struct {
	// headerCells matches the table header cells carrying year labels.
	headerCells goquery.Matcher

	// bodyRows matches the data rows of the table body.
	bodyRows goquery.Matcher

	// nameCell matches the emphasized holiday-name element in a row.
	nameCell goquery.Matcher

	// dataCells matches the per-year date cells in a row.
	dataCells goquery.Matcher

	// logger for structural diagnostics (skipped rows, length
	// mismatches). Never affects extraction results.
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets a custom logger for structural diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// New creates an Extractor with its structural selectors compiled.
// The only possible error is a selector compilation failure, which
// indicates a defect rather than malformed input and should never
// occur in correct builds.
func New(opts ...Option) (*Extractor, error) {
	e := &Extractor{logger: slog.Default()}

	var err error
	if e.headerCells, err = compileSelector(headerCellSelector); err != nil {
		return nil, err
	}
	if e.bodyRows, err = compileSelector(bodyRowSelector); err != nil {
		return nil, err
	}
	if e.nameCell, err = compileSelector(nameCellSelector); err != nil {
		return nil, err
	}
	if e.dataCells, err = compileSelector(dataCellSelector); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// compileSelector compiles a structural query into a matcher.
func compileSelector(expr string) (cascadia.Selector, error) {
	sel, err := cascadia.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("failed to compile selector %q: %w", expr, err)
	}
	return sel, nil
}

// Result contains everything extracted from one page.
//
// Design decision: We return a result struct rather than only the
// record slice because the report layer also wants the year labels and
// the skipped-row count, and a single parsing pass can collect all of
// it.
type Result struct {
	// Years holds the header year labels in document order, with the
	// name-column label already dropped.
	Years []string

	// Holidays holds the extracted records in encounter order.
	// Duplicates are legal and preserved; no sorting is applied.
	Holidays []model.Holiday

	// RowsSkipped counts body rows dropped for lacking a name element.
	RowsSkipped int
}

// Parse extracts Holiday records from raw markup. It never fails on
// malformed input; it returns an empty or partial list instead.
func (e *Extractor) Parse(markup string) []model.Holiday {
	return e.Extract(markup).Holidays
}

// Extract runs a single extraction pass over the markup and returns
// the full result, including year labels and skip diagnostics.
func (e *Extractor) Extract(markup string) *Result {
	result := &Result{
		Years:    make([]string, 0),
		Holidays: make([]model.Holiday, 0),
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		// Reading from an in-memory string cannot fail in practice;
		// treat it as a page with nothing to extract.
		e.logger.Warn("failed to parse markup", "error", err)
		return result
	}

	result.Years = e.yearLabels(doc)

	doc.FindMatcher(e.bodyRows).Each(func(_ int, row *goquery.Selection) {
		name, ok := e.holidayName(row)
		if !ok {
			// A row without an emphasized name element is a layout or
			// header row, not data.
			result.RowsSkipped++
			e.logger.Debug("skipping row without name element")
			return
		}

		cells := row.FindMatcher(e.dataCells)
		if cells.Length() != len(result.Years) {
			e.logger.Debug("row cell count differs from year columns",
				"holiday", name,
				"cells", cells.Length(),
				"years", len(result.Years),
			)
		}

		// Lockstep pairing: one record per (cell, year) pair, stopping
		// at the shorter sequence.
		n := min(cells.Length(), len(result.Years))
		for i := 0; i < n; i++ {
			result.Holidays = append(result.Holidays, model.Holiday{
				Year: result.Years[i],
				Name: name,
				Date: Normalize(innerHTML(cells.Eq(i))),
			})
		}
	})

	return result
}

// yearLabels reads the year column labels from the table header.
// The first header cell is the name-column label and is dropped.
func (e *Extractor) yearLabels(doc *goquery.Document) []string {
	years := make([]string, 0)
	doc.FindMatcher(e.headerCells).Each(func(i int, cell *goquery.Selection) {
		if i == 0 {
			return
		}
		years = append(years, strings.TrimSpace(cell.Text()))
	})
	return years
}

// holidayName extracts and normalizes the row's holiday name.
// The second return value is false when the row has no name element.
func (e *Extractor) holidayName(row *goquery.Selection) (string, bool) {
	nameEl := row.FindMatcher(e.nameCell).First()
	if nameEl.Length() == 0 {
		return "", false
	}
	return Normalize(innerHTML(nameEl)), true
}

// innerHTML returns the serialized inner markup of the selection's
// first node. Serialization errors only happen for nil nodes, which
// FindMatcher never yields, so the error collapses to empty text.
func innerHTML(sel *goquery.Selection) string {
	markup, err := sel.Html()
	if err != nil {
		return ""
	}
	return markup
}
