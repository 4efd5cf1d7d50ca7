// Package metadata builds and exports the AI analyzer handoff payload.
// The validator never runs semantic analysis itself; it writes this
// payload and an external analyzer takes it from there.
package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microsoft/skillvet/internal/scoring"
	"github.com/microsoft/skillvet/internal/skill"
)

// Sentinel prefixes the stdout line announcing a successful export.
const Sentinel = "SKILL_TEST_AI_METADATA::"

// bodyPreviewLimit caps how much of the document body ships in the payload.
const bodyPreviewLimit = 2000

// maxPayloadIssues caps the structural issue lines in the payload.
const maxPayloadIssues = 10

// StructuralResults summarizes the deterministic findings for the analyzer.
type StructuralResults struct {
	Critical    int      `json:"critical"`
	Warnings    int      `json:"warnings"`
	Suggestions int      `json:"suggestions"`
	Issues      []string `json:"issues"`
}

// Payload is the handoff document for the external semantic analyzer. Its
// shape is pinned by the embedded JSON Schema.
type Payload struct {
	SkillName         string            `json:"skill_name"`
	SkillPath         string            `json:"skill_path"`
	Name              string            `json:"name"`
	Description       string            `json:"description"`
	BodyPreview       string            `json:"body_preview"`
	FullBodyPath      string            `json:"full_body_path"`
	WordCount         int               `json:"word_count"`
	LineCount         int               `json:"line_count"`
	StructuralResults StructuralResults `json:"structural_results"`
	ReportPath        string            `json:"report_path"`
	Timestamp         string            `json:"timestamp"`
}

// Build assembles the analyzer payload for a validated skill.
func Build(pkg *skill.Package, res scoring.Result, reportPath string, now time.Time) Payload {
	issues := make([]string, 0, maxPayloadIssues)
	for _, f := range scoring.TopIssues(res.Findings, maxPayloadIssues) {
		issues = append(issues, fmt.Sprintf("[%s] %s", strings.ToUpper(string(f.Severity)), f.Message))
	}

	return Payload{
		SkillName:    res.SkillName,
		SkillPath:    pkg.Dir,
		Name:         pkg.Frontmatter.Name,
		Description:  pkg.Frontmatter.Description,
		BodyPreview:  bodyPreview(pkg.Body),
		FullBodyPath: pkg.DocPath,
		WordCount:    pkg.BodyWords,
		LineCount:    pkg.BodyLines,
		StructuralResults: StructuralResults{
			Critical:    res.Counts.Critical,
			Warnings:    res.Counts.Warnings,
			Suggestions: res.Counts.Suggestions,
			Issues:      issues,
		},
		ReportPath: reportPath,
		Timestamp:  now.UTC().Format(time.RFC3339),
	}
}

// Export validates the payload against its schema and writes it to path,
// creating parent directories as needed.
func Export(payload Payload, path string) error {
	if errs := Validate(payload); len(errs) > 0 {
		return fmt.Errorf("metadata payload invalid: %s", strings.Join(errs, "; "))
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling metadata payload: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating metadata directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing metadata payload: %w", err)
	}
	return nil
}

// bodyPreview returns the leading slice of body, cut at a rune boundary so
// the payload stays valid UTF-8.
func bodyPreview(body string) string {
	if len(body) <= bodyPreviewLimit {
		return body
	}
	cut := bodyPreviewLimit
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut]
}
