// Package report renders a validation result as a persisted Markdown
// document.
package report

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/microsoft/skillvet/internal/checks"
	"github.com/microsoft/skillvet/internal/scoring"
)

// FileNamePrefix starts every persisted report name.
const FileNamePrefix = "skill-test-report"

// timestampLayout is the run timestamp embedded in report names.
const timestampLayout = "20060102-150405"

// maxRecommendedWarnings caps the warnings listed under Priority
// Recommendations. Criticals are always listed in full.
const maxRecommendedWarnings = 5

// Info carries run metadata stamped into the report header.
type Info struct {
	// SkillPath is the validated skill directory.
	SkillPath string
	// StartedAt is when the run began.
	StartedAt time.Time
	// Duration is how long validation took.
	Duration time.Duration
}

// FileName returns the report name for a skill validated at now.
func FileName(skillName string, now time.Time) string {
	return fmt.Sprintf("%s-%s-%s.md", FileNamePrefix, skillName, now.Format(timestampLayout))
}

// Write renders res as Markdown and persists it under dir, creating the
// directory if needed. Existing reports are never overwritten; a name
// collision gets a numeric suffix.
func Write(dir string, res scoring.Result, info Info) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}

	doc := Render(res, info)
	base := strings.TrimSuffix(FileName(res.SkillName, info.StartedAt), ".md")
	path := filepath.Join(dir, base+".md")
	for n := 2; ; n++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, fs.ErrExist) {
			path = filepath.Join(dir, fmt.Sprintf("%s-%d.md", base, n))
			continue
		}
		if err != nil {
			return "", fmt.Errorf("creating report file: %w", err)
		}
		_, werr := f.WriteString(doc)
		if cerr := f.Close(); werr == nil {
			werr = cerr
		}
		if werr != nil {
			return "", fmt.Errorf("writing report file: %w", werr)
		}
		return path, nil
	}
}

// Render produces the full Markdown report for res.
func Render(res scoring.Result, info Info) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Skill Validation Report: %s\n\n", res.SkillName)
	fmt.Fprintf(&b, "- **Date**: %s\n", info.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "- **Skill Path**: `%s`\n", info.SkillPath)
	fmt.Fprintf(&b, "- **Duration**: %s\n\n", info.Duration.Round(time.Millisecond))

	writeSummary(&b, res)

	grouped := groupByCategory(res.Findings)
	categories := checks.Categories()
	for i, cat := range categories {
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, cat.Title())
		writeFindings(&b, grouped[cat])
	}

	// Filled in by the external analyzer from the exported metadata; the
	// validator itself never performs semantic analysis.
	fmt.Fprintf(&b, "## %d. Semantic Analysis\n\n", len(categories)+1)
	b.WriteString("_Not run. Export AI metadata and hand the payload to an analyzer to complete this section._\n\n")

	writeRecommendations(&b, res)
	writeConclusion(&b, res)

	b.WriteString("---\n\n*Generated by skillvet*\n")
	return b.String()
}

func writeSummary(b *strings.Builder, res scoring.Result) {
	b.WriteString("## Executive Summary\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(b, "| Status | %s |\n", statusLabel(res.Status))
	fmt.Fprintf(b, "| Score | %d/100 (%s) |\n", res.Score, res.Grade)
	fmt.Fprintf(b, "| Critical Issues | %d |\n", res.Counts.Critical)
	fmt.Fprintf(b, "| Warnings | %d |\n", res.Counts.Warnings)
	fmt.Fprintf(b, "| Suggestions | %d |\n\n", res.Counts.Suggestions)
}

func writeFindings(b *strings.Builder, findings []checks.Finding) {
	if len(findings) == 0 {
		b.WriteString("✅ No issues found.\n\n")
		return
	}
	for _, f := range findings {
		fmt.Fprintf(b, "- %s **%s**\n", severityIcon(f.Severity), f.Message)
		if f.Location != "" {
			fmt.Fprintf(b, "  - Location: `%s`\n", f.Location)
		}
		if f.Suggestion != "" {
			fmt.Fprintf(b, "  - Suggestion: %s\n", f.Suggestion)
		}
		if f.Details != "" {
			b.WriteString("  - Details:\n\n")
			b.WriteString("    ```\n")
			b.WriteString(indent(f.Details, "    "))
			b.WriteString("    ```\n")
		}
	}
	b.WriteString("\n")
}

func writeRecommendations(b *strings.Builder, res scoring.Result) {
	b.WriteString("## Priority Recommendations\n\n")

	var items []checks.Finding
	warnings := 0
	for _, f := range scoring.TopIssues(res.Findings, len(res.Findings)) {
		switch f.Severity {
		case checks.SeverityCritical:
			items = append(items, f)
		case checks.SeverityWarning:
			if warnings < maxRecommendedWarnings {
				items = append(items, f)
				warnings++
			}
		}
	}

	if len(items) == 0 {
		b.WriteString("Nothing blocking. Address the suggestions above at your leisure.\n\n")
		return
	}
	for i, f := range items {
		fmt.Fprintf(b, "%d. %s %s", i+1, severityIcon(f.Severity), f.Message)
		if f.Suggestion != "" {
			fmt.Fprintf(b, " (%s)", f.Suggestion)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func writeConclusion(b *strings.Builder, res scoring.Result) {
	b.WriteString("## Conclusion\n\n")
	switch res.Status {
	case scoring.StatusFail:
		fmt.Fprintf(b, "Validation failed with %s. Resolve every critical finding before publishing; the skill may not load or may mislead its consumers until then.\n\n",
			plural(res.Counts.Critical, "critical issue"))
	case scoring.StatusWarn:
		fmt.Fprintf(b, "The skill passed validation with %s worth addressing. None are blocking, but fixing them will improve how reliably the skill is picked up and followed.\n\n",
			plural(res.Counts.Total(), "finding"))
	default:
		b.WriteString("The skill passed validation with no findings. It is ready to publish.\n\n")
	}
}

func groupByCategory(findings []checks.Finding) map[checks.Category][]checks.Finding {
	grouped := make(map[checks.Category][]checks.Finding, len(findings))
	for _, f := range findings {
		grouped[f.Category] = append(grouped[f.Category], f)
	}
	return grouped
}

func statusLabel(s scoring.Status) string {
	switch s {
	case scoring.StatusPass:
		return "✅ Pass"
	case scoring.StatusWarn:
		return "⚠️ Pass with warnings"
	case scoring.StatusFail:
		return "❌ Fail"
	default:
		return string(s)
	}
}

func severityIcon(s checks.Severity) string {
	switch s {
	case checks.SeverityCritical:
		return "❌"
	case checks.SeverityWarning:
		return "⚠️"
	case checks.SeveritySuggestion:
		return "💡"
	default:
		return "•"
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// indent prefixes every line of text with prefix, preserving a trailing
// newline so fenced blocks close on their own line.
func indent(text, prefix string) string {
	trimmed := strings.TrimRight(text, "\n")
	lines := strings.Split(trimmed, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n") + "\n"
}
