// Package runner executes registered QA checks against a page snapshot and
// assembles the report. Check failures are isolated: a panicking check
// becomes a warn result and the run continues.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/crolabs/lpqa/internal/checks"
	"github.com/crolabs/lpqa/internal/config"
	"github.com/crolabs/lpqa/pkg/models"
)

// Runner runs a checklist against snapshots. Zero value is not usable;
// construct with New.
type Runner struct {
	cfg config.ThresholdsConfig
	log *slog.Logger
}

func New(cfg config.ThresholdsConfig, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{cfg: cfg, log: log}
}

// Run executes every registered check against the snapshot and returns the
// report with its summary built. Checks run in registration order within
// the fixed category order.
func (r *Runner) Run(ctx context.Context, snap *models.PageSnapshot, qa *models.QAContext) *models.QAReport {
	return r.run(ctx, checks.All(), snap, qa)
}

// RunCategory executes only the named category's checks. An unknown
// category yields an empty report.
func (r *Runner) RunCategory(ctx context.Context, category string, snap *models.PageSnapshot, qa *models.QAContext) *models.QAReport {
	return r.run(ctx, checks.ByCategory(category), snap, qa)
}

func (r *Runner) run(ctx context.Context, list []checks.Check, snap *models.PageSnapshot, qa *models.QAContext) *models.QAReport {
	report := &models.QAReport{Context: *qa, Results: make([]models.CheckResult, 0, len(list))}
	for i, c := range list {
		reportProgress(ctx, ProgressEvent{
			Phase: "start", CheckID: c.ID, Name: c.Name, Category: c.Category,
			Index: i + 1, Total: len(list),
		})
		start := time.Now()
		res := r.runOne(c, snap, qa)
		r.log.Debug("check complete",
			"check_id", c.ID,
			"category", c.Category,
			"status", string(res.Status),
			"elapsed", time.Since(start).Round(time.Millisecond).String(),
		)
		reportProgress(ctx, ProgressEvent{
			Phase: "end", CheckID: c.ID, Name: c.Name, Category: c.Category,
			Index: i + 1, Total: len(list), Status: res.Status,
		})
		report.Results = append(report.Results, res)
	}
	report.BuildSummary()
	return report
}

// runOne invokes a single check and stamps identity from the registration
// entry, overwriting anything the check function set. A panic inside the
// check is recovered into a warn result so one broken predicate cannot
// sink the run.
func (r *Runner) runOne(c checks.Check, snap *models.PageSnapshot, qa *models.QAContext) (res models.CheckResult) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Warn("check panicked", "check_id", c.ID, "panic", fmt.Sprint(rec))
			res = models.CheckResult{
				Status:  models.StatusWarn,
				Message: fmt.Sprintf("Check error: %v", rec),
			}
		}
		res.CheckID = c.ID
		res.Name = c.Name
		res.Category = c.Category
	}()
	res = c.Fn(snap, qa, r.cfg)
	return res
}
