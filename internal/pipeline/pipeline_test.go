package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/nao1215/holidayscan/internal/model"
)

// recordingStep is a test step that records its execution and can be
// configured to fail.
type recordingStep struct {
	name     string
	err      error
	executed *[]string
}

func (s *recordingStep) Do(_ context.Context, _ *model.ScrapeReport) error {
	*s.executed = append(*s.executed, s.name)
	return s.err
}

func (s *recordingStep) Name() string {
	return s.name
}

func TestPipelineExecutesStepsInOrder(t *testing.T) {
	t.Parallel()

	var executed []string
	p := New()
	p.AddSteps(
		&recordingStep{name: "first", executed: &executed},
		&recordingStep{name: "second", executed: &executed},
		&recordingStep{name: "third", executed: &executed},
	)

	report := model.NewScrapeReport("https://example.com")
	if err := p.Execute(context.Background(), report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(executed) != 3 || executed[0] != "first" || executed[1] != "second" || executed[2] != "third" {
		t.Errorf("unexpected execution order: %v", executed)
	}
	if len(report.PerformedSteps) != 3 {
		t.Errorf("expected 3 performed steps, got %v", report.PerformedSteps)
	}
}

func TestPipelineStopsOnError(t *testing.T) {
	t.Parallel()

	var executed []string
	stepErr := errors.New("step failed")

	p := New()
	p.AddSteps(
		&recordingStep{name: "first", executed: &executed},
		&recordingStep{name: "failing", err: stepErr, executed: &executed},
		&recordingStep{name: "never", executed: &executed},
	)

	report := model.NewScrapeReport("https://example.com")
	err := p.Execute(context.Background(), report)

	if !errors.Is(err, stepErr) {
		t.Errorf("expected step error, got %v", err)
	}
	if len(executed) != 2 {
		t.Errorf("pipeline should stop after failing step, executed: %v", executed)
	}
	if report.ErrorMessage != "step failed" {
		t.Errorf("error should be recorded in report, got %q", report.ErrorMessage)
	}
}

func TestPipelineContinueOnError(t *testing.T) {
	t.Parallel()

	var executed []string
	p := New(WithContinueOnError(true))
	p.AddSteps(
		&recordingStep{name: "failing", err: errors.New("boom"), executed: &executed},
		&recordingStep{name: "still-runs", executed: &executed},
	)

	report := model.NewScrapeReport("https://example.com")
	if err := p.Execute(context.Background(), report); err != nil {
		t.Fatalf("continueOnError pipeline should not return error: %v", err)
	}

	if len(executed) != 2 {
		t.Errorf("all steps should run with continueOnError, executed: %v", executed)
	}
	if report.ErrorMessage != "boom" {
		t.Errorf("failure should still be recorded, got %q", report.ErrorMessage)
	}
}

func TestPipelineRespectsCancellation(t *testing.T) {
	t.Parallel()

	var executed []string
	p := New()
	p.AddStep(&recordingStep{name: "never", executed: &executed})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := model.NewScrapeReport("https://example.com")
	err := p.Execute(ctx, report)

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(executed) != 0 {
		t.Errorf("no steps should run after cancellation, executed: %v", executed)
	}
	if report.Error == nil {
		t.Error("cancellation should be recorded in report")
	}
}

func TestPipelineStepNames(t *testing.T) {
	t.Parallel()

	var executed []string
	p := New()
	p.AddSteps(
		&recordingStep{name: "fetch", executed: &executed},
		&recordingStep{name: "extract", executed: &executed},
	)

	if p.StepCount() != 2 {
		t.Errorf("expected 2 steps, got %d", p.StepCount())
	}

	names := p.StepNames()
	if names[0] != "fetch" || names[1] != "extract" {
		t.Errorf("unexpected step names: %v", names)
	}
}
