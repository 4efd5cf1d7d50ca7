package checks

// Severity classifies the impact of a finding.
type Severity string

const (
	// SeverityCritical marks violations that make the skill unusable or
	// unloadable. Any critical finding fails the run.
	SeverityCritical Severity = "critical"
	// SeverityWarning marks issues that degrade quality but do not block use.
	SeverityWarning Severity = "warning"
	// SeveritySuggestion marks optional improvements.
	SeveritySuggestion Severity = "suggestion"
)

var severityRank = map[Severity]int{
	SeveritySuggestion: 1,
	SeverityWarning:    2,
	SeverityCritical:   3,
}

// Rank returns the ordering weight of s, highest for critical. Unknown
// severities rank below suggestion.
func (s Severity) Rank() int { return severityRank[s] }

// Category identifies the checker that produced a finding.
type Category string

const (
	CategoryNaming      Category = "naming"
	CategoryStructure   Category = "structure"
	CategoryFrontmatter Category = "frontmatter"
	CategoryContent     Category = "content"
	CategoryReferences  Category = "references"
	CategoryScripts     Category = "scripts"
)

var categoryTitles = map[Category]string{
	CategoryNaming:      "Naming Convention",
	CategoryStructure:   "Directory Structure",
	CategoryFrontmatter: "Frontmatter",
	CategoryContent:     "Content Structure",
	CategoryReferences:  "References",
	CategoryScripts:     "Script Syntax",
}

// Categories returns every category in display order, matching the order
// checkers run in.
func Categories() []Category {
	return []Category{
		CategoryNaming,
		CategoryStructure,
		CategoryFrontmatter,
		CategoryContent,
		CategoryReferences,
		CategoryScripts,
	}
}

// Title returns the human-readable section title for c.
func (c Category) Title() string {
	if t, ok := categoryTitles[c]; ok {
		return t
	}
	return string(c)
}

// Finding is one validation defect reported by a checker.
type Finding struct {
	// Severity classifies the impact of the finding.
	Severity Severity
	// Category names the checker that produced the finding.
	Category Category
	// Message is a human-readable one-line description.
	Message string
	// Location optionally points at the offending file, with a :line suffix
	// when a line is known.
	Location string
	// Details carries optional supporting output, such as interpreter stderr.
	Details string
	// Suggestion optionally proposes a remediation.
	Suggestion string
}
