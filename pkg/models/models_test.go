package models

import "testing"

func TestBuildSummaryCounts(t *testing.T) {
	r := &QAReport{Results: []CheckResult{
		{CheckID: "a", Category: CategoryDeveloper, Status: StatusPass},
		{CheckID: "b", Category: CategoryDeveloper, Status: StatusFail},
		{CheckID: "c", Category: CategoryDesigner, Status: StatusWarn},
		{CheckID: "d", Category: CategoryCopywriter, Status: StatusSkip},
	}}
	r.BuildSummary()
	s := r.Summary
	if s.Total != 4 || s.Passed != 1 || s.Failed != 1 || s.Warnings != 1 || s.Skipped != 1 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if s.PassRate != "25%" {
		t.Fatalf("expected pass rate 25%%, got %q", s.PassRate)
	}
	dev := s.ByCategory[CategoryDeveloper]
	if dev.Total != 2 || dev.Passed != 1 || dev.Failed != 1 {
		t.Fatalf("unexpected developer summary: %+v", dev)
	}
}

func TestBuildSummaryEmpty(t *testing.T) {
	r := &QAReport{}
	r.BuildSummary()
	if r.Summary.Total != 0 {
		t.Fatalf("expected zero total, got %d", r.Summary.Total)
	}
	if r.Summary.PassRate != "N/A" {
		t.Fatalf("expected N/A pass rate, got %q", r.Summary.PassRate)
	}
}

func TestBuildSummaryIdempotent(t *testing.T) {
	r := &QAReport{Results: []CheckResult{{Category: CategoryDeveloper, Status: StatusPass}}}
	r.BuildSummary()
	r.Results = append(r.Results, CheckResult{Category: CategoryDeveloper, Status: StatusFail})
	r.BuildSummary()
	if r.Summary.Total != 2 || r.Summary.Passed != 1 || r.Summary.Failed != 1 {
		t.Fatalf("summary not recomputed: %+v", r.Summary)
	}
	if r.Summary.PassRate != "50%" {
		t.Fatalf("expected 50%%, got %q", r.Summary.PassRate)
	}
}

func TestStatusFilters(t *testing.T) {
	r := &QAReport{Results: []CheckResult{
		{CheckID: "a", Status: StatusPass},
		{CheckID: "b", Status: StatusFail},
		{CheckID: "c", Status: StatusFail},
		{CheckID: "d", Status: StatusWarn},
	}}
	if got := len(r.Failed()); got != 2 {
		t.Fatalf("expected 2 failed, got %d", got)
	}
	if got := len(r.Passed()); got != 1 {
		t.Fatalf("expected 1 passed, got %d", got)
	}
	if got := len(r.Skipped()); got != 0 {
		t.Fatalf("expected 0 skipped, got %d", got)
	}
	// report order preserved
	failed := r.Failed()
	if failed[0].CheckID != "b" || failed[1].CheckID != "c" {
		t.Fatalf("filter order changed: %+v", failed)
	}
}

func TestMobileView(t *testing.T) {
	snap := &PageSnapshot{}
	if snap.HasMobile() {
		t.Fatal("no mobile snapshot expected")
	}
	if got := snap.MobileView(); len(got.StickyElements) != 0 || len(got.Forms) != 0 {
		t.Fatalf("expected zero viewport, got %+v", got)
	}

	snap.Mobile = &ViewportSnapshot{Fonts: []string{"Montserrat"}}
	if !snap.HasMobile() {
		t.Fatal("mobile snapshot expected")
	}
	if got := snap.MobileView(); len(got.Fonts) != 1 {
		t.Fatalf("mobile view lost data: %+v", got)
	}
}

func TestPassRateRounding(t *testing.T) {
	// 1 of 3 → 33%, 2 of 3 → 67%
	r := &QAReport{Results: []CheckResult{
		{Status: StatusPass}, {Status: StatusFail}, {Status: StatusFail},
	}}
	r.BuildSummary()
	if r.Summary.PassRate != "33%" {
		t.Fatalf("expected 33%%, got %q", r.Summary.PassRate)
	}
	r.Results[1].Status = StatusPass
	r.BuildSummary()
	if r.Summary.PassRate != "67%" {
		t.Fatalf("expected 67%%, got %q", r.Summary.PassRate)
	}
}
