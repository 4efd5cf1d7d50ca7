package checks

import (
	"context"
	"fmt"
	"regexp"

	"github.com/microsoft/skillvet/internal/skill"
)

// maxNameLength is the longest allowed skill identifier.
const maxNameLength = 64

// namePattern is the required identifier format: lowercase alphanumeric
// segments joined by single hyphens, no leading/trailing/consecutive hyphens.
var namePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// NamingChecker validates the skill's declared identifier: the directory
// basename, and its agreement with the frontmatter name when one parsed.
// Identifier violations make the skill unaddressable, so everything here is
// critical.
type NamingChecker struct{}

var _ Checker = (*NamingChecker)(nil)

func (*NamingChecker) Category() Category { return CategoryNaming }

func (*NamingChecker) Check(_ context.Context, pkg *skill.Package) []Finding {
	var findings []Finding

	name := pkg.Name
	if !namePattern.MatchString(name) {
		findings = append(findings, Finding{
			Severity:   SeverityCritical,
			Category:   CategoryNaming,
			Message:    fmt.Sprintf("Skill name %q must be lowercase letters, digits, and hyphens", name),
			Location:   pkg.Dir,
			Suggestion: "Use lowercase words joined by single hyphens, e.g. pdf-processing",
		})
	}
	if len(name) > maxNameLength {
		findings = append(findings, Finding{
			Severity: SeverityCritical,
			Category: CategoryNaming,
			Message:  fmt.Sprintf("Skill name is %d characters (maximum %d)", len(name), maxNameLength),
			Location: pkg.Dir,
		})
	}

	fmName := pkg.Frontmatter.Name
	if fmName != "" && fmName != name {
		findings = append(findings, Finding{
			Severity:   SeverityCritical,
			Category:   CategoryNaming,
			Message:    fmt.Sprintf("Directory name %q does not match frontmatter name %q", name, fmName),
			Location:   pkg.DocPath,
			Suggestion: "Rename the directory or the frontmatter name so the two agree",
		})
	}
	return findings
}
