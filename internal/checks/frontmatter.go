package checks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/microsoft/skillvet/internal/skill"
)

// allowedFrontmatterKeys lists the top-level frontmatter keys the loader
// consumes. Anything else is ignored at load time and flagged here.
var allowedFrontmatterKeys = map[string]bool{
	"name":        true,
	"description": true,
}

// minDescriptionLength is the shortest description that can plausibly
// describe both what a skill does and when to use it.
const minDescriptionLength = 30

// triggerKeywords indicate that a description tells the agent when to
// activate the skill.
var triggerKeywords = []string{"when", "use", "trigger", "scenario", "context"}

// FrontmatterChecker validates the metadata block of the instruction
// document: presence, well-formedness, required fields, and description
// quality. The description is the only text an agent sees before deciding
// to load the skill, so its quality gets its own findings.
type FrontmatterChecker struct{}

var _ Checker = (*FrontmatterChecker)(nil)

func (*FrontmatterChecker) Category() Category { return CategoryFrontmatter }

func (*FrontmatterChecker) Check(_ context.Context, pkg *skill.Package) []Finding {
	if !pkg.HasDoc {
		return nil
	}
	if !pkg.HasFrontmatter {
		return []Finding{{
			Severity:   SeverityCritical,
			Category:   CategoryFrontmatter,
			Message:    "No YAML frontmatter found",
			Location:   pkg.DocPath,
			Suggestion: "Open the document with a --- block declaring name and description",
		}}
	}
	if pkg.FrontmatterErr != nil {
		return []Finding{{
			Severity: SeverityCritical,
			Category: CategoryFrontmatter,
			Message:  "Frontmatter is malformed",
			Location: pkg.DocPath,
			Details:  pkg.FrontmatterErr.Error(),
		}}
	}

	var findings []Finding
	if strings.TrimSpace(pkg.Frontmatter.Name) == "" {
		findings = append(findings, Finding{
			Severity: SeverityCritical,
			Category: CategoryFrontmatter,
			Message:  "Required frontmatter field missing: name",
			Location: pkg.DocPath,
		})
	}
	desc := strings.TrimSpace(pkg.Frontmatter.Description)
	if desc == "" {
		findings = append(findings, Finding{
			Severity: SeverityCritical,
			Category: CategoryFrontmatter,
			Message:  "Required frontmatter field missing: description",
			Location: pkg.DocPath,
		})
	}

	var extra []string
	for key := range pkg.FrontmatterRaw {
		if !allowedFrontmatterKeys[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	if len(extra) > 0 {
		findings = append(findings, Finding{
			Severity:   SeverityWarning,
			Category:   CategoryFrontmatter,
			Message:    fmt.Sprintf("Unexpected frontmatter fields: %s", strings.Join(extra, ", ")),
			Location:   locationWithLine(pkg.DocPath, pkg.FrontmatterKeyLine(extra[0])),
			Suggestion: "Only name and description are loaded; move anything else into the body",
		})
	}

	if desc != "" {
		findings = append(findings, checkDescription(pkg, desc)...)
	}
	return findings
}

func checkDescription(pkg *skill.Package, desc string) []Finding {
	var findings []Finding
	loc := locationWithLine(pkg.DocPath, pkg.FrontmatterKeyLine("description"))

	if length := utf8.RuneCountInString(desc); length < minDescriptionLength {
		findings = append(findings, Finding{
			Severity:   SeverityWarning,
			Category:   CategoryFrontmatter,
			Message:    fmt.Sprintf("Description is %d characters; too brief to describe the skill", length),
			Location:   loc,
			Suggestion: "Describe what the skill does and when to use it, in the third person",
		})
	}

	lower := strings.ToLower(desc)
	hasTrigger := false
	for _, kw := range triggerKeywords {
		if strings.Contains(lower, kw) {
			hasTrigger = true
			break
		}
	}
	if !hasTrigger {
		findings = append(findings, Finding{
			Severity:   SeverityWarning,
			Category:   CategoryFrontmatter,
			Message:    "Description does not indicate when to use the skill",
			Location:   loc,
			Suggestion: `State the trigger conditions, e.g. "Use when the user asks about PDF files"`,
		})
	}
	return findings
}

// locationWithLine appends :line to path when line is known.
func locationWithLine(path string, line int) string {
	if line <= 0 {
		return path
	}
	return fmt.Sprintf("%s:%d", path, line)
}
