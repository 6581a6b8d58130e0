package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/crolabs/lpqa/pkg/models"
)

// TerminalOptions controls terminal rendering.
type TerminalOptions struct {
	Color   bool
	Verbose bool // include evidence lines under non-pass results
}

const ansiReset = "\x1b[0m"

func statusIcon(s models.Status) string {
	switch s {
	case models.StatusPass:
		return "✅"
	case models.StatusFail:
		return "❌"
	case models.StatusWarn:
		return "⚠️"
	default:
		return "⏭️"
	}
}

func colorStatus(s models.Status, enabled bool) string {
	if !enabled {
		return string(s)
	}
	switch s {
	case models.StatusPass:
		return "\x1b[32m" + string(s) + ansiReset
	case models.StatusFail:
		return "\x1b[31m" + string(s) + ansiReset
	case models.StatusWarn:
		return "\x1b[33m" + string(s) + ansiReset
	default:
		return "\x1b[90m" + string(s) + ansiReset
	}
}

// WriteTerminal prints the human-readable run summary: header, counts, a
// per-category result table, and a closing failure digest.
func WriteTerminal(w io.Writer, report *models.QAReport, at time.Time, opts TerminalOptions) error {
	s := report.Summary

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintf(w, "  QA REPORT - %s\n", report.Context.LandingPageURL)
	fmt.Fprintf(w, "  %s\n", at.Format("2006-01-02 15:04"))
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  TOTAL: %d  |  ✅ %d  ❌ %d  ⚠️ %d  ⏭️ %d\n",
		s.Total, s.Passed, s.Failed, s.Warnings, s.Skipped)
	fmt.Fprintf(w, "  Pass rate: %s\n\n", s.PassRate)

	for _, cat := range models.Categories {
		catSummary, ok := s.ByCategory[cat]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "  -- %s (%d checks) --\n", strings.ToUpper(cat), catSummary.Total)
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, r := range report.Results {
			if r.Category != cat {
				continue
			}
			fmt.Fprintf(tw, "    %s\t%s\t%s\n", statusIcon(r.Status), colorStatus(r.Status, opts.Color), r.Name)
			fmt.Fprintf(tw, "    \t\t%s\n", clip(r.Message, 120))
			if opts.Verbose && r.Evidence != "" && r.Status != models.StatusPass {
				for _, line := range firstLines(r.Evidence, 3) {
					fmt.Fprintf(tw, "    \t\t-> %s\n", clip(line, 100))
				}
			}
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	if failed := report.Failed(); len(failed) > 0 {
		fmt.Fprintln(w, "  FAILURES REQUIRING ACTION:")
		for _, r := range failed {
			fmt.Fprintf(w, "    ❌ [%s] %s: %s\n", r.Category, r.Name, clip(r.Message, 100))
		}
		fmt.Fprintln(w)
	}
	return nil
}

func firstLines(s string, n int) []string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return lines
}
