package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/microsoft/skillvet/internal/checks"
	"github.com/microsoft/skillvet/internal/scoring"
)

var testStart = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func testInfo() Info {
	return Info{
		SkillPath: "/skills/pdf-processing",
		StartedAt: testStart,
		Duration:  1234 * time.Millisecond,
	}
}

func TestFileName(t *testing.T) {
	name := FileName("pdf-processing", testStart)
	require.Equal(t, "skill-test-report-pdf-processing-20240301-120000.md", name)
}

func TestRender_CleanResult(t *testing.T) {
	res := scoring.Evaluate("pdf-processing", nil)
	doc := Render(res, testInfo())

	require.Contains(t, doc, "# Skill Validation Report: pdf-processing")
	require.Contains(t, doc, "- **Date**: 2024-03-01 12:00:00")
	require.Contains(t, doc, "- **Skill Path**: `/skills/pdf-processing`")
	require.Contains(t, doc, "- **Duration**: 1.234s")
	require.Contains(t, doc, "| Status | ✅ Pass |")
	require.Contains(t, doc, "| Score | 100/100 (A) |")

	for i, cat := range checks.Categories() {
		require.Contains(t, doc, "## "+string(rune('1'+i))+". "+cat.Title())
	}
	require.Contains(t, doc, "## 7. Semantic Analysis")
	require.Equal(t, 6, strings.Count(doc, "✅ No issues found."))
	require.Contains(t, doc, "It is ready to publish.")
	require.Contains(t, doc, "*Generated by skillvet*")
}

func TestRender_FindingsLandInTheirSections(t *testing.T) {
	findings := []checks.Finding{
		{
			Severity: checks.SeverityCritical,
			Category: checks.CategoryStructure,
			Message:  "SKILL.md not found in skill directory",
		},
		{
			Severity:   checks.SeverityWarning,
			Category:   checks.CategoryFrontmatter,
			Message:    "Description is 12 characters; too brief to describe the skill",
			Location:   "/skills/pdf-processing/SKILL.md",
			Suggestion: "Describe what the skill does and when to use it.",
		},
		{
			Severity: checks.SeverityCritical,
			Category: checks.CategoryScripts,
			Message:  "Python syntax error in broken.py",
			Details:  "SyntaxError: invalid syntax\n  line 3",
		},
	}
	res := scoring.Evaluate("pdf-processing", findings)
	doc := Render(res, testInfo())

	structure := section(t, doc, "## 2. Directory Structure")
	require.Contains(t, structure, "❌ **SKILL.md not found in skill directory**")

	frontmatter := section(t, doc, "## 3. Frontmatter")
	require.Contains(t, frontmatter, "⚠️ **Description is 12 characters")
	require.Contains(t, frontmatter, "- Location: `/skills/pdf-processing/SKILL.md`")
	require.Contains(t, frontmatter, "- Suggestion: Describe what the skill does")

	scripts := section(t, doc, "## 6. Script Syntax")
	require.Contains(t, scripts, "❌ **Python syntax error in broken.py**")
	require.Contains(t, scripts, "    SyntaxError: invalid syntax\n")
	require.Contains(t, scripts, "    ```\n")

	naming := section(t, doc, "## 1. Naming Convention")
	require.Contains(t, naming, "✅ No issues found.")
}

func TestRender_SummaryMatchesCounts(t *testing.T) {
	findings := []checks.Finding{
		{Severity: checks.SeverityCritical, Category: checks.CategoryNaming, Message: "a"},
		{Severity: checks.SeverityWarning, Category: checks.CategoryContent, Message: "b"},
		{Severity: checks.SeverityWarning, Category: checks.CategoryContent, Message: "c"},
		{Severity: checks.SeveritySuggestion, Category: checks.CategoryContent, Message: "d"},
	}
	doc := Render(scoring.Evaluate("pdf-processing", findings), testInfo())

	require.Contains(t, doc, "| Status | ❌ Fail |")
	require.Contains(t, doc, "| Score | 55/100 (F) |")
	require.Contains(t, doc, "| Critical Issues | 1 |")
	require.Contains(t, doc, "| Warnings | 2 |")
	require.Contains(t, doc, "| Suggestions | 1 |")
}

func TestRender_PriorityRecommendations(t *testing.T) {
	findings := []checks.Finding{
		{Severity: checks.SeveritySuggestion, Category: checks.CategoryContent, Message: "just a tip"},
		{Severity: checks.SeverityWarning, Category: checks.CategoryContent, Message: "warn one"},
		{Severity: checks.SeverityCritical, Category: checks.CategoryNaming, Message: "crit one"},
		{Severity: checks.SeverityCritical, Category: checks.CategoryScripts, Message: "crit two"},
	}
	doc := Render(scoring.Evaluate("pdf-processing", findings), testInfo())

	recs := section(t, doc, "## Priority Recommendations")
	require.Contains(t, recs, "1. ❌ crit one")
	require.Contains(t, recs, "2. ❌ crit two")
	require.Contains(t, recs, "3. ⚠️ warn one")
	require.NotContains(t, recs, "just a tip")
}

func TestRender_RecommendationsCapWarnings(t *testing.T) {
	var findings []checks.Finding
	for _, msg := range []string{"w1", "w2", "w3", "w4", "w5", "w6", "w7"} {
		findings = append(findings, checks.Finding{
			Severity: checks.SeverityWarning,
			Category: checks.CategoryContent,
			Message:  msg,
		})
	}
	doc := Render(scoring.Evaluate("pdf-processing", findings), testInfo())

	recs := section(t, doc, "## Priority Recommendations")
	require.Contains(t, recs, "5. ⚠️ w5")
	require.NotContains(t, recs, "w6")
	require.NotContains(t, recs, "w7")
}

func TestRender_SuggestionOnlyRecommendations(t *testing.T) {
	findings := []checks.Finding{
		{Severity: checks.SeveritySuggestion, Category: checks.CategoryContent, Message: "tip"},
	}
	doc := Render(scoring.Evaluate("pdf-processing", findings), testInfo())

	recs := section(t, doc, "## Priority Recommendations")
	require.Contains(t, recs, "Nothing blocking.")
}

func TestWrite_CreatesDirectoryAndFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "reports")
	res := scoring.Evaluate("pdf-processing", nil)

	path, err := Write(dir, res, testInfo())
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "skill-test-report-pdf-processing-20240301-120000.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, Render(res, testInfo()), string(data))
}

func TestWrite_NeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	res := scoring.Evaluate("pdf-processing", nil)

	first, err := Write(dir, res, testInfo())
	require.NoError(t, err)
	second, err := Write(dir, res, testInfo())
	require.NoError(t, err)

	require.NotEqual(t, first, second)
	require.True(t, strings.HasSuffix(second, "-2.md"), "got %s", second)
	require.FileExists(t, first)
	require.FileExists(t, second)
}

// section returns the report text between heading and the next "## ".
func section(t *testing.T, doc, heading string) string {
	t.Helper()
	start := strings.Index(doc, heading)
	require.GreaterOrEqual(t, start, 0, "missing section %q", heading)
	rest := doc[start+len(heading):]
	if end := strings.Index(rest, "\n## "); end >= 0 {
		rest = rest[:end]
	}
	return rest
}
