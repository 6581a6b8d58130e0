package output

import (
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/crolabs/lpqa/pkg/models"
)

// WriteMarkdown renders the full report as markdown: summary table first,
// then failures, warnings, passes, and skipped checks.
func WriteMarkdown(w io.Writer, report *models.QAReport, at time.Time) {
	s := report.Summary
	ctx := report.Context

	fmt.Fprintf(w, "# QA Report\n\n")
	fmt.Fprintf(w, "**URL:** %s\n", ctx.LandingPageURL)
	fmt.Fprintf(w, "**Date:** %s\n", at.Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "**Client:** %s\n", orNA(ctx.ClientName))
	fmt.Fprintf(w, "**Campaign:** %s\n\n", orNA(ctx.CampaignName))

	fmt.Fprintf(w, "## Summary\n\n")
	fmt.Fprintf(w, "| Metric | Count |\n")
	fmt.Fprintf(w, "|--------|-------|\n")
	fmt.Fprintf(w, "| Total checks | %d |\n", s.Total)
	fmt.Fprintf(w, "| ✅ Passed | %d |\n", s.Passed)
	fmt.Fprintf(w, "| ❌ Failed | %d |\n", s.Failed)
	fmt.Fprintf(w, "| ⚠️ Warnings | %d |\n", s.Warnings)
	fmt.Fprintf(w, "| ⏭️ Skipped | %d |\n", s.Skipped)
	fmt.Fprintf(w, "| **Pass rate** | **%s** |\n\n", s.PassRate)

	if failed := report.Failed(); len(failed) > 0 {
		fmt.Fprintf(w, "## ❌ Failures (Action Required)\n\n")
		for _, r := range failed {
			fmt.Fprintf(w, "### %s\n", r.Name)
			fmt.Fprintf(w, "**Category:** %s | **Check ID:** `%s`\n\n", r.Category, r.CheckID)
			fmt.Fprintf(w, "%s\n", r.Message)
			if r.Evidence != "" {
				fmt.Fprintf(w, "```\n%s\n```\n", clip(r.Evidence, 500))
			}
			fmt.Fprintln(w)
		}
	}

	if warnings := report.Warnings(); len(warnings) > 0 {
		fmt.Fprintf(w, "## ⚠️ Warnings (Review Recommended)\n\n")
		for _, r := range warnings {
			fmt.Fprintf(w, "- **%s** (%s): %s\n", r.Name, r.Category, clip(r.Message, 150))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "## ✅ Passed\n\n")
	for _, r := range report.Passed() {
		fmt.Fprintf(w, "- **%s** (%s): %s\n", r.Name, r.Category, clip(r.Message, 120))
	}
	fmt.Fprintln(w)

	if skipped := report.Skipped(); len(skipped) > 0 {
		fmt.Fprintf(w, "## ⏭️ Skipped (Manual or Future Phase)\n\n")
		for _, r := range skipped {
			fmt.Fprintf(w, "- **%s** (%s): %s\n", r.Name, r.Category, clip(r.Message, 120))
		}
		fmt.Fprintln(w)
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
