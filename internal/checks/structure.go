package checks

import (
	"context"
	"fmt"
	"strings"

	"github.com/microsoft/skillvet/internal/skill"
)

// unnecessaryFilePrefixes flags repo-style documentation files that dilute
// the always-loaded context. Matched against lowercased filenames.
var unnecessaryFilePrefixes = []string{
	"readme",
	"changelog",
	"install",
	"license",
	"contributing",
	"authors",
	"upgrade",
}

// knownResourceDirs are the subdirectories the packaging format recognizes.
var knownResourceDirs = map[string]bool{
	skill.ScriptsDirName:    true,
	skill.ReferencesDirName: true,
	skill.AssetsDirName:     true,
}

// StructureChecker validates the package layout: the instruction document
// must exist, and the root should hold only the document plus recognized
// resource directories.
type StructureChecker struct{}

var _ Checker = (*StructureChecker)(nil)

func (*StructureChecker) Category() Category { return CategoryStructure }

func (*StructureChecker) Check(_ context.Context, pkg *skill.Package) []Finding {
	var findings []Finding

	if !pkg.HasDoc {
		findings = append(findings, Finding{
			Severity:   SeverityCritical,
			Category:   CategoryStructure,
			Message:    fmt.Sprintf("%s not found in skill directory", skill.DocFileName),
			Location:   pkg.Dir,
			Suggestion: fmt.Sprintf("Every skill needs a %s at its root", skill.DocFileName),
		})
	}

	var unnecessary []string
	for _, f := range pkg.RootFiles {
		lower := strings.ToLower(f)
		for _, prefix := range unnecessaryFilePrefixes {
			if strings.HasPrefix(lower, prefix) {
				unnecessary = append(unnecessary, f)
				break
			}
		}
	}
	if len(unnecessary) > 0 {
		findings = append(findings, Finding{
			Severity:   SeveritySuggestion,
			Category:   CategoryStructure,
			Message:    fmt.Sprintf("Unnecessary documentation files: %s", strings.Join(unnecessary, ", ")),
			Location:   pkg.Dir,
			Suggestion: fmt.Sprintf("%s is the only document loaded; fold anything important into it and remove the rest", skill.DocFileName),
		})
	}

	var unknown []string
	for _, d := range pkg.RootDirs {
		if strings.HasPrefix(d, ".") || knownResourceDirs[d] {
			continue
		}
		unknown = append(unknown, d)
	}
	if len(unknown) > 0 {
		findings = append(findings, Finding{
			Severity:   SeveritySuggestion,
			Category:   CategoryStructure,
			Message:    fmt.Sprintf("Unrecognized directories: %s", strings.Join(unknown, ", ")),
			Location:   pkg.Dir,
			Suggestion: "Bundled content belongs under scripts/, references/, or assets/",
		})
	}
	return findings
}
