// Package checks implements the landing-page QA checklist as a registry of
// pure predicate functions over a page snapshot and run context.
package checks

import (
	"github.com/crolabs/lpqa/internal/config"
	"github.com/crolabs/lpqa/pkg/models"
)

// Func is a single QA check: a pure function of the snapshot and run
// context. It must not mutate its inputs, perform I/O, or depend on the
// order other checks run in.
type Func func(snap *models.PageSnapshot, qa *models.QAContext, th config.ThresholdsConfig) models.CheckResult

// Check registers one predicate with its stable identifier, display name,
// and category. ID and Name are independent fields: display names are never
// derived from identifiers.
type Check struct {
	ID       string
	Name     string
	Category string
	Fn       Func
}

// Developer returns the developer checklist in registration order.
func Developer() []Check { return developerChecks }

// Designer returns the designer checklist in registration order.
func Designer() []Check { return designerChecks }

// Copywriter returns the copywriter checklist in registration order.
func Copywriter() []Check { return copywriterChecks }

// All returns every registered check, concatenated in the fixed category
// order developer, designer, copywriter.
func All() []Check {
	out := make([]Check, 0, len(developerChecks)+len(designerChecks)+len(copywriterChecks))
	out = append(out, developerChecks...)
	out = append(out, designerChecks...)
	out = append(out, copywriterChecks...)
	return out
}

// ByCategory returns the registered checks for one category, or nil for an
// unknown category.
func ByCategory(category string) []Check {
	switch category {
	case models.CategoryDeveloper:
		return developerChecks
	case models.CategoryDesigner:
		return designerChecks
	case models.CategoryCopywriter:
		return copywriterChecks
	}
	return nil
}
