package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/crolabs/lpqa/pkg/models"
)

func sampleReport() *models.QAReport {
	r := &models.QAReport{
		Context: models.QAContext{
			LandingPageURL: "https://example.com/lp",
			ClientName:     "Acme Corp",
			CampaignName:   "Summer 2025",
		},
		Results: []models.CheckResult{
			{CheckID: "form_id", Name: "Form ID matches expected", Category: models.CategoryDeveloper,
				Status: models.StatusPass, Message: "Form with id found."},
			{CheckID: "gtm_present", Name: "Tag manager implemented", Category: models.CategoryDeveloper,
				Status: models.StatusFail, Message: "No tag manager detected.", Evidence: "scripts: app.js"},
			{CheckID: "responsive_images", Name: "Responsive images", Category: models.CategoryDesigner,
				Status: models.StatusWarn, Message: "No srcset found."},
			{CheckID: "cro_vault", Name: "CRO vault entry", Category: models.CategoryCopywriter,
				Status: models.StatusSkip, Message: "Manual process."},
		},
	}
	r.BuildSummary()
	return r
}

func testTime() time.Time {
	return time.Date(2025, 8, 14, 10, 30, 0, 0, time.UTC)
}

func TestJSONRoundTrip(t *testing.T) {
	env := NewEnvelope(sampleReport(), testTime())
	data, err := JSONBytes(env)
	if err != nil {
		t.Fatal(err)
	}

	var decoded Envelope
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.URL != "https://example.com/lp" {
		t.Fatalf("url lost: %q", decoded.URL)
	}
	if len(decoded.Results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(decoded.Results))
	}
	if decoded.Summary.Total != 4 || decoded.Summary.Failed != 1 {
		t.Fatalf("summary lost: %+v", decoded.Summary)
	}
	if decoded.Results[1].Evidence != "scripts: app.js" {
		t.Fatalf("evidence lost: %+v", decoded.Results[1])
	}
}

func TestSaveJSON(t *testing.T) {
	dir := t.TempDir()
	path, err := SaveJSON(dir, NewEnvelope(sampleReport(), testTime()))
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "qa_results_20250814_103000.json" {
		t.Fatalf("unexpected filename: %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
}

func TestMarkdownSections(t *testing.T) {
	var b bytes.Buffer
	WriteMarkdown(&b, sampleReport(), testTime())
	md := b.String()

	for _, want := range []string{
		"# QA Report",
		"**URL:** https://example.com/lp",
		"**Client:** Acme Corp",
		"## Summary",
		"Failures (Action Required)",
		"Tag manager implemented",
		"`gtm_present`",
		"scripts: app.js",
		"Warnings (Review Recommended)",
		"## ✅ Passed",
		"Skipped (Manual or Future Phase)",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}

	// failures listed before warnings, warnings before passes
	failIdx := strings.Index(md, "## ❌ Failures")
	warnIdx := strings.Index(md, "## ⚠️ Warnings")
	passIdx := strings.Index(md, "## ✅ Passed")
	if !(failIdx < warnIdx && warnIdx < passIdx) {
		t.Fatalf("section order wrong: fail=%d warn=%d pass=%d", failIdx, warnIdx, passIdx)
	}
}

func TestMarkdownNAPlaceholders(t *testing.T) {
	r := sampleReport()
	r.Context.ClientName = ""
	r.Context.CampaignName = ""
	var b bytes.Buffer
	WriteMarkdown(&b, r, testTime())
	if !strings.Contains(b.String(), "**Client:** N/A") {
		t.Fatal("missing client placeholder")
	}
}

func TestTerminalOutput(t *testing.T) {
	var b bytes.Buffer
	err := WriteTerminal(&b, sampleReport(), testTime(), TerminalOptions{})
	if err != nil {
		t.Fatal(err)
	}
	out := b.String()
	for _, want := range []string{
		"QA REPORT - https://example.com/lp",
		"TOTAL: 4",
		"Pass rate: 25%",
		"DEVELOPER",
		"DESIGNER",
		"COPYWRITER",
		"FAILURES REQUIRING ACTION",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("terminal output missing %q", want)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatal("color disabled but ANSI codes present")
	}
}

func TestTerminalColor(t *testing.T) {
	var b bytes.Buffer
	if err := WriteTerminal(&b, sampleReport(), testTime(), TerminalOptions{Color: true}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), "\x1b[31m") {
		t.Fatal("expected red ANSI code for failure")
	}
}

func TestTrackerCommentWarningCap(t *testing.T) {
	r := sampleReport()
	for i := 0; i < 14; i++ {
		r.Results = append(r.Results, models.CheckResult{
			CheckID: fmt.Sprintf("warn_%d", i), Name: fmt.Sprintf("Warning %d", i),
			Category: models.CategoryDeveloper, Status: models.StatusWarn, Message: "check this",
		})
	}
	r.BuildSummary()

	comment := TrackerComment(r, testTime())
	if !strings.Contains(comment, "QA Agent Report") {
		t.Fatal("missing header")
	}
	if !strings.Contains(comment, "Pass rate:") {
		t.Fatal("missing pass rate")
	}
	// 15 warnings total: 10 listed, 5 collapsed
	if got := strings.Count(comment, "\n⚠️ "); got != 10 {
		t.Fatalf("expected 10 listed warnings, got %d", got)
	}
	if !strings.Contains(comment, "... and 5 more warnings") {
		t.Fatal("missing overflow counter")
	}
}

func TestClipKeepsValidUTF8(t *testing.T) {
	s := strings.Repeat("é", 40)
	for _, max := range []int{1, 3, 39, 79} {
		got := clip(s, max)
		if !utf8.ValidString(got) {
			t.Errorf("clip at %d produced invalid UTF-8: %q", max, got)
		}
		if len(got) > max {
			t.Errorf("clip at %d returned %d bytes", max, len(got))
		}
	}
}

func TestTrackerCommentNoFailures(t *testing.T) {
	r := &models.QAReport{
		Context: models.QAContext{LandingPageURL: "https://example.com/lp"},
		Results: []models.CheckResult{{Status: models.StatusPass, Category: models.CategoryDeveloper}},
	}
	r.BuildSummary()
	comment := TrackerComment(r, testTime())
	if strings.Contains(comment, "FAILURES") {
		t.Fatal("failure section should be absent")
	}
}
