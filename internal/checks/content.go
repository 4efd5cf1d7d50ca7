package checks

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/microsoft/skillvet/internal/skill"
)

// maxBodyLines is the recommended ceiling for the instruction document
// body. Everything above it competes for context on every load.
const maxBodyLines = 500

// templateHeadings match section titles left over from the authoring
// template. Their presence means the author shipped scaffolding instead of
// instructions.
var templateHeadings = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^When\s+to\s+Use\s+(This\s+)?Skill`),
	regexp.MustCompile(`(?i)^Structuring\s+(This\s+)?Skill`),
	regexp.MustCompile(`(?i)^Bundled\s+Resources?`),
	regexp.MustCompile(`(?i)^Anatomy\s+of\s+a\s+Skill`),
	regexp.MustCompile(`(?i)^Progressive\s+Disclosure`),
	regexp.MustCompile(`(?i)^What\s+(to\s+)?Not\s+Include`),
	regexp.MustCompile(`(?i)^Skill\s+Naming`),
}

// howToHeading matches tutorial-style section titles.
var howToHeading = regexp.MustCompile(`(?i)^How\s+to\b`)

// ContentChecker validates the instruction document body: size, leftover
// template sections, and guidance that belongs in the frontmatter rather
// than the body.
type ContentChecker struct{}

var _ Checker = (*ContentChecker)(nil)

func (*ContentChecker) Category() Category { return CategoryContent }

func (*ContentChecker) Check(_ context.Context, pkg *skill.Package) []Finding {
	if !pkg.HasDoc {
		return nil
	}

	var findings []Finding
	headings := extractHeadings(pkg)

	matched := make(map[int]bool)
	for _, h := range headings {
		if h.level > 2 {
			continue
		}
		for i, pattern := range templateHeadings {
			if matched[i] || !pattern.MatchString(h.text) {
				continue
			}
			matched[i] = true
			findings = append(findings, Finding{
				Severity:   SeverityCritical,
				Category:   CategoryContent,
				Message:    fmt.Sprintf("Template section %q was not removed", h.text),
				Location:   locationWithLine(pkg.DocPath, h.line),
				Suggestion: "Replace the authoring template's sections with the skill's own instructions",
			})
		}
	}

	if pkg.BodyLines > maxBodyLines {
		findings = append(findings, Finding{
			Severity:   SeverityWarning,
			Category:   CategoryContent,
			Message:    fmt.Sprintf("Body is %d lines (recommended under %d)", pkg.BodyLines, maxBodyLines),
			Location:   pkg.DocPath,
			Suggestion: "Move detailed material into references/ so it loads on demand",
		})
	}

	if n := strings.Count(pkg.Body, "TODO"); n > 0 {
		findings = append(findings, Finding{
			Severity:   SeverityWarning,
			Category:   CategoryContent,
			Message:    fmt.Sprintf("Body contains %d TODO markers", n),
			Location:   pkg.DocPath,
			Suggestion: "Finish or remove the open items before packaging",
		})
	}

	if strings.Contains(strings.ToLower(pkg.Body), "when to use") {
		findings = append(findings, Finding{
			Severity:   SeveritySuggestion,
			Category:   CategoryContent,
			Message:    "Body discusses when to use the skill",
			Location:   pkg.DocPath,
			Suggestion: "Trigger conditions belong in the frontmatter description, which is what the agent reads first",
		})
	}

	for _, h := range headings {
		if h.level >= 2 && howToHeading.MatchString(h.text) {
			findings = append(findings, Finding{
				Severity:   SeveritySuggestion,
				Category:   CategoryContent,
				Message:    fmt.Sprintf("Heading %q reads like a tutorial", h.text),
				Location:   locationWithLine(pkg.DocPath, h.line),
				Suggestion: `Name sections by the task, e.g. "Extract tables" instead of "How to extract tables"`,
			})
			break
		}
	}

	for _, h := range headings {
		describesLayout := (h.level == 2 && strings.HasPrefix(h.text, "Resources")) ||
			(h.level == 3 && strings.Contains(h.text, "scripts/"))
		if describesLayout {
			findings = append(findings, Finding{
				Severity:   SeveritySuggestion,
				Category:   CategoryContent,
				Message:    fmt.Sprintf("Section %q documents the package layout", h.text),
				Location:   locationWithLine(pkg.DocPath, h.line),
				Suggestion: "Bundled files are discovered automatically; describe tasks, not directory contents",
			})
			break
		}
	}
	return findings
}

type heading struct {
	level int
	text  string
	line  int
}

// extractHeadings parses the body as Markdown and returns its headings in
// document order, with line numbers relative to the full document.
func extractHeadings(pkg *skill.Package) []heading {
	source := []byte(pkg.Body)
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	// The body is a suffix of the raw document; lines before it belong to
	// the frontmatter block.
	bodyStart := strings.Count(pkg.RawContent[:len(pkg.RawContent)-len(pkg.Body)], "\n")

	var headings []heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		entry := heading{level: h.Level, text: nodeText(h, source)}
		if h.Lines().Len() > 0 {
			start := h.Lines().At(0).Start
			entry.line = bodyStart + strings.Count(string(source[:start]), "\n") + 1
		}
		headings = append(headings, entry)
		return ast.WalkSkipChildren, nil
	})
	return headings
}

// nodeText flattens the plain-text children of a node.
func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(source))
		}
	}
	return sb.String()
}
