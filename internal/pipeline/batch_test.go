package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nao1215/holidayscan/internal/fetch"
)

func TestProcessBatchCollectsAllReports(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testTableMarkup))
	}))
	defer srv.Close()

	factory := func(string) *Pipeline {
		return DefaultPipeline(
			fetch.NewClient(fetch.WithRetryDelay(0)),
			newTestExtractor(t),
			nil,
		)
	}

	bp := NewBatchProcessor(factory, WithConcurrency(2))

	sources := []string{srv.URL + "/a", srv.URL + "/b", srv.URL + "/c"}
	reports, err := bp.ProcessBatch(context.Background(), sources)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(reports) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(reports))
	}
	for i, report := range reports {
		if report == nil {
			t.Fatalf("report %d is nil", i)
		}
		if report.SourceURL != sources[i] {
			t.Errorf("reports should preserve input order: got %q at index %d", report.SourceURL, i)
		}
		if report.RecordCount() != 2 {
			t.Errorf("report %d: expected 2 records, got %d", i, report.RecordCount())
		}
	}
}

func TestProcessBatchKeepsFailedSources(t *testing.T) {
	t.Parallel()

	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testTableMarkup))
	}))
	defer good.Close()

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	factory := func(string) *Pipeline {
		return DefaultPipeline(
			fetch.NewClient(fetch.WithMaxRetries(0), fetch.WithRetryDelay(0)),
			newTestExtractor(t),
			nil,
		)
	}

	bp := NewBatchProcessor(factory)

	reports, err := bp.ProcessBatch(context.Background(), []string{good.URL, bad.URL})
	if err != nil {
		t.Fatalf("failed sources should not fail the batch: %v", err)
	}

	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	if reports[0].Error != nil {
		t.Errorf("first source should succeed: %v", reports[0].Error)
	}
	if reports[1].Error == nil {
		t.Error("second source should carry its fetch error")
	}
}

func TestProcessBatchCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	factory := func(string) *Pipeline {
		return DefaultPipeline(fetch.NewClient(), newTestExtractor(t), nil)
	}

	bp := NewBatchProcessor(factory)

	_, err := bp.ProcessBatch(ctx, []string{"https://example.com/a"})
	if err == nil {
		t.Error("expected cancellation error")
	}
}
