package runner

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/crolabs/lpqa/internal/checks"
	"github.com/crolabs/lpqa/internal/config"
	"github.com/crolabs/lpqa/pkg/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSnapshot() *models.PageSnapshot {
	return &models.PageSnapshot{
		URL:      "https://example.com/lp",
		FinalURL: "https://example.com/lp",
		Title:    "Acme Corp | Offer",
		Mobile:   &models.ViewportSnapshot{},
	}
}

func TestRunProducesFullReport(t *testing.T) {
	r := New(config.CreateDefault().Thresholds, testLogger())
	report := r.Run(context.Background(), testSnapshot(), &models.QAContext{LandingPageURL: "https://example.com/lp"})

	if len(report.Results) != 57 {
		t.Fatalf("expected 57 results, got %d", len(report.Results))
	}
	if report.Summary.Total != 57 {
		t.Fatalf("summary not built: %+v", report.Summary)
	}
	for _, cat := range models.Categories {
		if _, ok := report.Summary.ByCategory[cat]; !ok {
			t.Fatalf("missing category %q in summary", cat)
		}
	}
}

func TestRunStampsIdentity(t *testing.T) {
	r := New(config.CreateDefault().Thresholds, testLogger())
	report := r.Run(context.Background(), testSnapshot(), &models.QAContext{})

	registered := checks.All()
	for i, res := range report.Results {
		c := registered[i]
		if res.CheckID != c.ID || res.Name != c.Name || res.Category != c.Category {
			t.Fatalf("result %d identity mismatch: got %s/%s/%s, want %s/%s/%s",
				i, res.CheckID, res.Name, res.Category, c.ID, c.Name, c.Category)
		}
	}
}

func TestRunCategory(t *testing.T) {
	r := New(config.CreateDefault().Thresholds, testLogger())
	report := r.RunCategory(context.Background(), models.CategoryDesigner, testSnapshot(), &models.QAContext{})

	if len(report.Results) != 11 {
		t.Fatalf("expected 11 designer results, got %d", len(report.Results))
	}
	for _, res := range report.Results {
		if res.Category != models.CategoryDesigner {
			t.Fatalf("unexpected category %q", res.Category)
		}
	}

	empty := r.RunCategory(context.Background(), "plumber", testSnapshot(), &models.QAContext{})
	if len(empty.Results) != 0 {
		t.Fatalf("unknown category should yield no results, got %d", len(empty.Results))
	}
	if empty.Summary.PassRate != "N/A" {
		t.Fatalf("empty report pass rate should be N/A, got %q", empty.Summary.PassRate)
	}
}

func TestPanickingCheckBecomesWarn(t *testing.T) {
	r := New(config.CreateDefault().Thresholds, testLogger())
	c := checks.Check{
		ID:       "explosive",
		Name:     "Explosive check",
		Category: models.CategoryDeveloper,
		Fn: func(*models.PageSnapshot, *models.QAContext, config.ThresholdsConfig) models.CheckResult {
			panic("boom")
		},
	}
	res := r.runOne(c, testSnapshot(), &models.QAContext{})

	if res.Status != models.StatusWarn {
		t.Fatalf("expected warn from panicking check, got %s", res.Status)
	}
	if res.CheckID != "explosive" || res.Name != "Explosive check" || res.Category != models.CategoryDeveloper {
		t.Fatalf("identity not stamped on panic result: %+v", res)
	}
}

func TestNilSliceSnapshotDoesNotPanic(t *testing.T) {
	r := New(config.CreateDefault().Thresholds, testLogger())
	report := r.Run(context.Background(), &models.PageSnapshot{}, &models.QAContext{})

	if len(report.Results) != 57 {
		t.Fatalf("expected 57 results, got %d", len(report.Results))
	}
	for _, res := range report.Results {
		if res.Status == models.StatusWarn && len(res.Message) > 12 && res.Message[:12] == "Check error:" {
			t.Errorf("check %s errored on empty snapshot: %s", res.CheckID, res.Message)
		}
	}
}

func TestProgressEvents(t *testing.T) {
	r := New(config.CreateDefault().Thresholds, testLogger())
	var events []ProgressEvent
	ctx := WithProgressReporter(context.Background(), func(ev ProgressEvent) {
		events = append(events, ev)
	})
	r.RunCategory(ctx, models.CategoryCopywriter, testSnapshot(), &models.QAContext{})

	if len(events) != 18 {
		t.Fatalf("expected 18 progress events (start+end per check), got %d", len(events))
	}
	if events[0].Phase != "start" || events[1].Phase != "end" {
		t.Fatalf("unexpected event phases: %s, %s", events[0].Phase, events[1].Phase)
	}
	if events[0].Total != 9 || events[0].Index != 1 {
		t.Fatalf("unexpected event counters: %+v", events[0])
	}
}
