package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/nao1215/holidayscan/internal/database"
	"github.com/nao1215/holidayscan/internal/model"
)

// seedDatabase creates a database with a few records for list tests.
func seedDatabase(t *testing.T) string {
	t.Helper()

	dbDir := t.TempDir()
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	records := []model.Holiday{
		{Year: "2026", Name: "New Year's Day", Date: "1 January"},
		{Year: "2027", Name: "New Year's Day", Date: "1 January"},
		{Year: "2026", Name: "Australia Day", Date: "26 January"},
	}
	if err := db.InsertHolidays(context.Background(), records); err != nil {
		t.Fatalf("failed to seed records: %v", err)
	}

	report := model.NewScrapeReport("https://example.com/holidays")
	report.Attempts = 1
	report.Holidays = records
	if err := db.SaveScrapeRun(context.Background(), report); err != nil {
		t.Fatalf("failed to seed run: %v", err)
	}

	return dbDir
}

func runListCommand(t *testing.T, args ...string) string {
	t.Helper()

	var buf bytes.Buffer
	cmd := NewListCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	return buf.String()
}

func TestListCmdAllRecords(t *testing.T) {
	t.Parallel()

	dbDir := seedDatabase(t)
	out := runListCommand(t, "--db-dir", dbDir)

	for _, want := range []string{"New Year's Day", "Australia Day", "2026", "2027"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestListCmdYearFilter(t *testing.T) {
	t.Parallel()

	dbDir := seedDatabase(t)
	out := runListCommand(t, "--db-dir", dbDir, "--year", "2027")

	if !strings.Contains(out, "New Year's Day") {
		t.Errorf("expected 2027 record in output:\n%s", out)
	}
	if strings.Contains(out, "Australia Day") {
		t.Errorf("2026-only record should be filtered out:\n%s", out)
	}
}

func TestListCmdJSON(t *testing.T) {
	t.Parallel()

	dbDir := seedDatabase(t)
	out := runListCommand(t, "--db-dir", dbDir, "--json")

	if !strings.Contains(out, `"name": "New Year's Day"`) {
		t.Errorf("expected JSON record output:\n%s", out)
	}
}

func TestListCmdRuns(t *testing.T) {
	t.Parallel()

	dbDir := seedDatabase(t)
	out := runListCommand(t, "--db-dir", dbDir, "--runs")

	if !strings.Contains(out, "https://example.com/holidays") {
		t.Errorf("expected run history in output:\n%s", out)
	}
	if !strings.Contains(out, "SCRAPED AT") {
		t.Errorf("expected table header in output:\n%s", out)
	}
}

func TestListCmdMissingDatabase(t *testing.T) {
	t.Parallel()

	cmd := NewListCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--db-dir", t.TempDir()})

	if err := cmd.Execute(); err == nil {
		t.Error("expected error when database does not exist")
	}
}

func TestListCmdEmptyDatabase(t *testing.T) {
	t.Parallel()

	dbDir := t.TempDir()
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	db.Close()

	out := runListCommand(t, "--db-dir", dbDir)
	if !strings.Contains(out, "No records found") {
		t.Errorf("expected empty message:\n%s", out)
	}
}
