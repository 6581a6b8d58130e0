package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/crolabs/lpqa/pkg/models"
)

// maxCommentWarnings caps the warning lines included in a tracker comment;
// the remainder collapses into an overflow count.
const maxCommentWarnings = 10

// TrackerComment formats the report as a compact plain-text comment for
// posting to the task tracker.
func TrackerComment(report *models.QAReport, at time.Time) string {
	s := report.Summary
	var b strings.Builder

	fmt.Fprintf(&b, "🤖 QA Agent Report - %s\n", at.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "URL: %s\n\n", report.Context.LandingPageURL)
	fmt.Fprintf(&b, "Results: ✅ %d | ❌ %d | ⚠️ %d | ⏭️ %d\n", s.Passed, s.Failed, s.Warnings, s.Skipped)
	fmt.Fprintf(&b, "Pass rate: %s\n", s.PassRate)

	if failed := report.Failed(); len(failed) > 0 {
		fmt.Fprintf(&b, "\n-- FAILURES --\n")
		for _, r := range failed {
			fmt.Fprintf(&b, "❌ [%s] %s\n", r.Category, r.Name)
			fmt.Fprintf(&b, "   %s\n", clip(r.Message, 150))
		}
	}

	if warnings := report.Warnings(); len(warnings) > 0 {
		fmt.Fprintf(&b, "\n-- WARNINGS (%d) --\n", len(warnings))
		for i, r := range warnings {
			if i == maxCommentWarnings {
				fmt.Fprintf(&b, "   ... and %d more warnings\n", len(warnings)-maxCommentWarnings)
				break
			}
			fmt.Fprintf(&b, "⚠️ %s: %s\n", r.Name, clip(r.Message, 100))
		}
	}

	fmt.Fprintf(&b, "\nFull report saved. Run `lpqa run` with --output for details.\n")
	return b.String()
}
