package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/microsoft/skillvet/internal/checks"
	"github.com/microsoft/skillvet/internal/pipeline"
	"github.com/microsoft/skillvet/internal/scoring"
)

// ---------------------------------------------------------------------------
// Shared display helpers — single source of truth for check output formatting.
//
// Convention:
//   Section header:  "emoji Title: summary\n"
//   Status line:     "   emoji  message\n"   (3-space indent, emoji, 2-space gap)
//
// 3-state icons:  ✅ = pass   ⚠️ = warning   ❌ = fail
// ---------------------------------------------------------------------------

type writer = interface{ Write([]byte) (int, error) }

// topIssueCount is how many findings the summary view and the structured
// value surface.
const topIssueCount = 5

// messageWidth is the display-column budget for one-line finding messages.
const messageWidth = 72

// writeSection prints a section header: "emoji Title: summary\n".
//
//nolint:errcheck
func writeSection(w writer, emoji, title, summary string) {
	if summary != "" {
		fmt.Fprintf(w, "%s %s: %s\n", emoji, title, summary)
	} else {
		fmt.Fprintf(w, "%s %s\n", emoji, title)
	}
}

// writeStatus prints a status line: "   icon  message\n".
//
//nolint:errcheck
func writeStatus(w writer, icon, message string) {
	fmt.Fprintf(w, "   %s  %s\n", icon, message)
}

// statusIcon returns the standard 3-state icon for a run status.
func statusIcon(status scoring.Status) string {
	switch status {
	case scoring.StatusPass:
		return "✅"
	case scoring.StatusWarn:
		return "⚠️"
	case scoring.StatusFail:
		return "❌"
	default:
		return "—"
	}
}

// statusText returns the human-readable form of a run status.
func statusText(status scoring.Status) string {
	switch status {
	case scoring.StatusPass:
		return "Pass"
	case scoring.StatusWarn:
		return "Pass with warnings"
	case scoring.StatusFail:
		return "Fail"
	default:
		return string(status)
	}
}

// severityIcon returns the icon for one finding's severity.
func severityIcon(sev checks.Severity) string {
	switch sev {
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

// severityLabel renders a "[CRITICAL]"-style label, colorized when enabled.
func severityLabel(sev checks.Severity, colorize bool) string {
	label := fmt.Sprintf("[%s]", strings.ToUpper(string(sev)))
	if !colorize {
		return label
	}
	switch sev {
	case checks.SeverityCritical:
		return color.New(color.FgRed, color.Bold).Sprint(label)
	case checks.SeverityWarning:
		return color.New(color.FgYellow).Sprint(label)
	case checks.SeveritySuggestion:
		return color.New(color.FgCyan).Sprint(label)
	default:
		return label
	}
}

// isTerminal reports whether w is a terminal. Gates color output so piped
// and captured output stays plain.
func isTerminal(w writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

// truncate shortens s to width display columns, ending with "…" if needed.
func truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}

//nolint:errcheck // display function — fmt.Fprintf errors to stdout are not actionable
func displayResult(w writer, out *pipeline.Outcome, verbose bool) {
	res := out.Result
	colorize := isTerminal(w)

	// Header
	fmt.Fprintf(w, "\n🔍 Skill Validation\n")
	fmt.Fprintf(w, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	fmt.Fprintf(w, "Skill: %s\n", res.SkillName)
	fmt.Fprintf(w, "Status: %s %s\n", statusIcon(res.Status), statusText(res.Status))
	fmt.Fprintf(w, "Score: %d/100 (%s)\n\n", res.Score, res.Grade)

	fmt.Fprintf(w, "   Critical: %d   Warnings: %d   Suggestions: %d\n\n",
		res.Counts.Critical, res.Counts.Warnings, res.Counts.Suggestions)

	if verbose {
		displayCheckerSections(w, res, colorize)
	} else if top := scoring.TopIssues(res.Findings, topIssueCount); len(top) > 0 {
		writeSection(w, "🎯", "Top Issues", "")
		for _, f := range top {
			writeStatus(w, severityIcon(f.Severity),
				fmt.Sprintf("%s %s", severityLabel(f.Severity, colorize), truncate(f.Message, messageWidth)))
		}
		fmt.Fprintf(w, "\n")
	}

	if out.ReportPath != "" {
		fmt.Fprintf(w, "📄 Report: %s\n", out.ReportPath)
	}
	if out.ReportErr != nil {
		writeStatus(w, "⚠️", fmt.Sprintf("report not written: %v", out.ReportErr))
	}
	if out.MetadataErr != nil {
		writeStatus(w, "⚠️", fmt.Sprintf("metadata not exported: %v", out.MetadataErr))
	}
	fmt.Fprintf(w, "\n")
}

// displayCheckerSections prints one section per checker with every finding,
// clean checkers included.
//
//nolint:errcheck
func displayCheckerSections(w writer, res scoring.Result, colorize bool) {
	byCategory := make(map[checks.Category][]checks.Finding)
	for _, f := range res.Findings {
		byCategory[f.Category] = append(byCategory[f.Category], f)
	}

	for _, cat := range checks.Categories() {
		findings := byCategory[cat]
		writeSection(w, "🔎", cat.Title(), fmt.Sprintf("%d finding(s)", len(findings)))
		if len(findings) == 0 {
			writeStatus(w, "✅", "no issues")
			fmt.Fprintf(w, "\n")
			continue
		}
		for _, f := range findings {
			writeStatus(w, severityIcon(f.Severity),
				fmt.Sprintf("%s %s", severityLabel(f.Severity, colorize), f.Message))
			if f.Location != "" {
				fmt.Fprintf(w, "        at %s\n", f.Location)
			}
			if f.Suggestion != "" {
				fmt.Fprintf(w, "        fix: %s\n", f.Suggestion)
			}
		}
		fmt.Fprintf(w, "\n")
	}
}
