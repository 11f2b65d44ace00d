package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nao1215/holidayscan/internal/database"
	"github.com/spf13/cobra"
)

const testPage = `
<html><body>
<table>
	<thead>
		<tr><th>Holiday</th><th>2026</th><th>2027</th></tr>
	</thead>
	<tbody>
		<tr>
			<th><strong>New Year's Day</strong></th>
			<td>1 January</td><td>1 January</td>
		</tr>
		<tr>
			<th><strong>Australia Day</strong></th>
			<td>26 January</td><td>26 January</td>
		</tr>
	</tbody>
</table>
</body></html>`

// newScrapeRoot builds the root command so the scrape command sees the
// persistent verbose flag, as it does in production.
func newScrapeRoot(args ...string) *cobra.Command {
	root := NewRootCmd()
	root.SetArgs(append([]string{"scrape"}, args...))
	return root
}

func TestScrapeCmdPersistsRecords(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testPage))
	}))
	defer srv.Close()

	dbDir := t.TempDir()

	root := newScrapeRoot(
		"--db-dir", dbDir,
		"--retry-delay", "0s",
		srv.URL,
	)

	if err := root.Execute(); err != nil {
		t.Fatalf("scrape failed: %v", err)
	}

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false})
	if err != nil {
		t.Fatalf("database not created: %v", err)
	}
	defer db.Close()

	count, err := db.CountHolidays(context.Background())
	if err != nil {
		t.Fatalf("failed to count holidays: %v", err)
	}
	if count != 4 {
		t.Errorf("expected 4 records (2 holidays x 2 years), got %d", count)
	}

	runs, err := db.ListScrapeRuns(context.Background())
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 recorded run, got %d", len(runs))
	}
	if runs[0].SourceURL != srv.URL {
		t.Errorf("unexpected run source: %q", runs[0].SourceURL)
	}
	if runs[0].RecordCount != 4 {
		t.Errorf("expected run record count 4, got %d", runs[0].RecordCount)
	}
}

func TestScrapeCmdNoSave(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testPage))
	}))
	defer srv.Close()

	dbDir := t.TempDir()

	root := newScrapeRoot(
		"--db-dir", dbDir,
		"--retry-delay", "0s",
		"--no-save",
		srv.URL,
	)

	if err := root.Execute(); err != nil {
		t.Fatalf("scrape failed: %v", err)
	}

	// Without saving, no database file should be created.
	if _, err := database.Open(dbDir, database.Options{CreateIfNotExists: false}); err == nil {
		t.Error("database should not exist with --no-save")
	}
}

func TestScrapeCmdFailedSource(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	root := newScrapeRoot(
		"--db-dir", t.TempDir(),
		"--retries", "0",
		"--retry-delay", "0s",
		srv.URL,
	)

	err := root.Execute()
	if err == nil {
		t.Fatal("expected error when the only source fails")
	}
	if !strings.Contains(err.Error(), "1 of 1") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestScrapeCmdMultipleSources(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testPage))
	}))
	defer srv.Close()

	dbDir := t.TempDir()

	root := newScrapeRoot(
		"--db-dir", dbDir,
		"--retry-delay", "0s",
		"--batch", "2",
		srv.URL+"/a", srv.URL+"/b",
	)

	if err := root.Execute(); err != nil {
		t.Fatalf("scrape failed: %v", err)
	}

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false})
	if err != nil {
		t.Fatalf("database not created: %v", err)
	}
	defer db.Close()

	count, err := db.CountHolidays(context.Background())
	if err != nil {
		t.Fatalf("failed to count holidays: %v", err)
	}
	if count != 8 {
		t.Errorf("expected 8 records from two sources, got %d", count)
	}
}

func TestScrapeCmdConflictingFormats(t *testing.T) {
	t.Parallel()

	root := newScrapeRoot("--json", "--markdown", "https://example.com")

	if err := root.Execute(); err == nil {
		t.Error("expected error for conflicting report formats")
	}
}

func TestScrapeCmdMissingConfigFile(t *testing.T) {
	t.Parallel()

	root := newScrapeRoot("--config", "/nonexistent/config.yaml", "https://example.com")

	if err := root.Execute(); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}
