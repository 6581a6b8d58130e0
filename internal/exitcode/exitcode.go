// Package exitcode defines the process exit codes for the lpqa CLI.
package exitcode

import "github.com/crolabs/lpqa/pkg/models"

const (
	OK           = 0
	ChecksFailed = 1
	ConfigError  = 2
	RuntimeError = 3
	OutputError  = 4
)

// FromSummary maps a report summary to a process exit code. With strictWarn
// set, warnings count as failures.
func FromSummary(s models.Summary, strictWarn bool) int {
	if s.Failed > 0 {
		return ChecksFailed
	}
	if strictWarn && s.Warnings > 0 {
		return ChecksFailed
	}
	return OK
}
