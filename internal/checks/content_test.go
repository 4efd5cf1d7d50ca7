package checks

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/microsoft/skillvet/internal/skill"
)

// contentFixture loads a skill whose document is the standard frontmatter
// followed by body, and runs the content checker over it.
func contentFixture(t *testing.T, body string) (*skill.Package, []Finding) {
	t.Helper()
	doc := `---
name: pdf-processing
description: Extracts text and tables from PDF files. Use when the user asks about PDF content.
---
` + body
	pkg := loadFixture(t, "pdf-processing", map[string]string{"SKILL.md": doc})
	return pkg, (&ContentChecker{}).Check(context.Background(), pkg)
}

func TestContentChecker_Clean(t *testing.T) {
	_, findings := contentFixture(t, `
# PDF Processing

Run the bundled extraction script against the provided document.

## Extract tables

Call the extraction script with the table flag.
`)
	require.Empty(t, findings)
}

func TestContentChecker_NoDoc(t *testing.T) {
	pkg := loadFixture(t, "pdf-processing", nil)
	require.Nil(t, (&ContentChecker{}).Check(context.Background(), pkg))
}

func TestContentChecker_LongBody(t *testing.T) {
	body := "\n# Title\n\n" + strings.Repeat("A line of instruction text.\n", 520)
	_, findings := contentFixture(t, body)
	require.Len(t, findings, 1)
	require.Equal(t, SeverityWarning, findings[0].Severity)
	require.Contains(t, findings[0].Message, "recommended under 500")
}

func TestContentChecker_TemplateHeading(t *testing.T) {
	pkg, findings := contentFixture(t, `
# Title

## When to Use This Skill

Use it whenever.
`)
	// The leftover heading is critical; its text also trips the
	// trigger-language suggestion.
	require.Equal(t, []Severity{SeverityCritical, SeveritySuggestion}, severities(findings))
	require.Contains(t, findings[0].Message, `"When to Use This Skill"`)
	require.Equal(t, fmt.Sprintf("%s:8", pkg.DocPath), findings[0].Location)
}

func TestContentChecker_TemplateHeadingVariants(t *testing.T) {
	tests := []struct {
		name    string
		heading string
	}{
		{name: "structuring", heading: "## Structuring This Skill"},
		{name: "bundled resources", heading: "## Bundled Resources"},
		{name: "anatomy", heading: "# Anatomy of a Skill"},
		{name: "progressive disclosure", heading: "## Progressive Disclosure"},
		{name: "what not to include", heading: "## What Not Include"},
		{name: "skill naming", heading: "## Skill Naming"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, findings := contentFixture(t, "\n# Title\n\n"+tt.heading+"\n\nFiller.\n")
			require.Len(t, findings, 1)
			require.Equal(t, SeverityCritical, findings[0].Severity)
			require.Equal(t, CategoryContent, findings[0].Category)
		})
	}
}

func TestContentChecker_TemplateHeadingDeepLevelIgnored(t *testing.T) {
	_, findings := contentFixture(t, `
# Title

### Progressive Disclosure

A legitimate subsection discussing the loading model.
`)
	require.Empty(t, findings)
}

func TestContentChecker_TriggerLanguageInBody(t *testing.T) {
	_, findings := contentFixture(t, `
# Title

This skill applies when to use is unclear.
`)
	require.Len(t, findings, 1)
	require.Equal(t, SeveritySuggestion, findings[0].Severity)
	require.Contains(t, findings[0].Suggestion, "description")
}

func TestContentChecker_HowToHeading(t *testing.T) {
	_, findings := contentFixture(t, `
# Title

## How to extract tables

Steps here.

## How to merge documents

More steps.
`)
	require.Len(t, findings, 1)
	require.Equal(t, SeveritySuggestion, findings[0].Severity)
	require.Contains(t, findings[0].Message, `"How to extract tables"`)
}

func TestContentChecker_TODOMarkers(t *testing.T) {
	_, findings := contentFixture(t, `
# Title

TODO: document the flags.

TODO: add an example.
`)
	require.Len(t, findings, 1)
	require.Equal(t, SeverityWarning, findings[0].Severity)
	require.Contains(t, findings[0].Message, "2 TODO markers")
}

func TestContentChecker_LayoutSection(t *testing.T) {
	_, findings := contentFixture(t, `
# Title

## Resources

The files that ship with this package.
`)
	require.Len(t, findings, 1)
	require.Equal(t, SeveritySuggestion, findings[0].Severity)
	require.Contains(t, findings[0].Message, `"Resources"`)
}
