// Package checks provides the Checker interface and the fixed set of
// implementations that validate a skill package against the packaging rules.
package checks

import (
	"context"

	"github.com/microsoft/skillvet/internal/skill"
)

// Checker inspects one aspect of a skill package. Implementations hold no
// mutable state across calls and never modify pkg; the same package checked
// twice yields the same findings.
type Checker interface {
	// Category tags every finding the checker emits.
	Category() Category
	// Check reports the findings for pkg. Implementations convert their own
	// read and subprocess failures into findings rather than aborting.
	Check(ctx context.Context, pkg *skill.Package) []Finding
}

// Checkers returns every package checker in display order. The order is
// load-bearing: results are flattened and reported in this sequence, so
// aggregation stays deterministic regardless of scheduling. opts configures
// the script syntax checker; the zero value uses defaults.
func Checkers(opts ScriptsOptions) []Checker {
	return []Checker{
		&NamingChecker{},
		&StructureChecker{},
		&FrontmatterChecker{},
		&ContentChecker{},
		&ReferencesChecker{},
		NewScriptsChecker(opts),
	}
}
