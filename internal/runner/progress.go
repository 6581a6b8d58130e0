package runner

import (
	"context"

	"github.com/crolabs/lpqa/pkg/models"
)

// ProgressEvent is emitted before and after each check runs.
type ProgressEvent struct {
	Phase    string // "start" | "end"
	CheckID  string
	Name     string
	Category string
	Index    int
	Total    int
	Status   models.Status
}

// ProgressReporter receives progress events during a run.
type ProgressReporter func(ProgressEvent)

type progressKey struct{}

// WithProgressReporter attaches a reporter to the context. A nil reporter
// leaves the context unchanged.
func WithProgressReporter(ctx context.Context, reporter ProgressReporter) context.Context {
	if reporter == nil {
		return ctx
	}
	return context.WithValue(ctx, progressKey{}, reporter)
}

func reportProgress(ctx context.Context, ev ProgressEvent) {
	if reporter, ok := ctx.Value(progressKey{}).(ProgressReporter); ok && reporter != nil {
		reporter(ev)
	}
}
