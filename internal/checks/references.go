package checks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/microsoft/skillvet/internal/skill"
)

// maxReferenceLinesWithoutTOC is the size above which a reference document
// needs a table of contents so an agent can jump instead of reading linearly.
const maxReferenceLinesWithoutTOC = 100

// tocScanLines bounds how far into a reference document the table of
// contents may sit.
const tocScanLines = 20

// ReferencesChecker validates the documents under references/: each should
// be navigable at its size and not chain into further reference documents.
type ReferencesChecker struct{}

var _ Checker = (*ReferencesChecker)(nil)

func (*ReferencesChecker) Category() Category { return CategoryReferences }

func (*ReferencesChecker) Check(_ context.Context, pkg *skill.Package) []Finding {
	dir := pkg.ReferencesDir()
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return []Finding{{
			Severity: SeverityWarning,
			Category: CategoryReferences,
			Message:  "Could not read references directory",
			Location: dir,
			Details:  err.Error(),
		}}
	}

	var findings []Finding
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".md") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			findings = append(findings, Finding{
				Severity: SeverityWarning,
				Category: CategoryReferences,
				Message:  fmt.Sprintf("Could not read reference file %s", entry.Name()),
				Location: path,
				Details:  err.Error(),
			})
			continue
		}
		findings = append(findings, checkReferenceFile(path, entry.Name(), string(data))...)
	}
	return findings
}

func checkReferenceFile(path, name, content string) []Finding {
	var findings []Finding

	lines := strings.Count(content, "\n") + 1
	if lines > maxReferenceLinesWithoutTOC && !hasTOCMarker(content) {
		findings = append(findings, Finding{
			Severity:   SeverityWarning,
			Category:   CategoryReferences,
			Message:    fmt.Sprintf("%s is %d lines with no table of contents", name, lines),
			Location:   path,
			Suggestion: "Add a table of contents near the top so sections can be found without reading the whole file",
		})
	}

	for _, dest := range extractLocalDocLinks([]byte(content)) {
		if strings.Contains(dest, name) {
			continue
		}
		findings = append(findings, Finding{
			Severity:   SeverityWarning,
			Category:   CategoryReferences,
			Message:    fmt.Sprintf("%s links to another document: %s", name, dest),
			Location:   path,
			Suggestion: "Keep reference material one level deep; link everything from the instruction document instead",
		})
		break
	}
	return findings
}

// hasTOCMarker reports whether a table-of-contents heading appears near the
// top of content.
func hasTOCMarker(content string) bool {
	scanned := strings.SplitN(content, "\n", tocScanLines+1)
	if len(scanned) > tocScanLines {
		scanned = scanned[:tocScanLines]
	}
	head := strings.ToLower(strings.Join(scanned, "\n"))
	return strings.Contains(head, "toc") || strings.Contains(head, "contents")
}

// extractLocalDocLinks parses Markdown and returns link and image
// destinations that point at local .md files, in document order.
func extractLocalDocLinks(source []byte) []string {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	var dests []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		var dest string
		switch v := n.(type) {
		case *ast.Link:
			dest = string(v.Destination)
		case *ast.Image:
			dest = string(v.Destination)
		default:
			return ast.WalkContinue, nil
		}
		dest = stripFragment(dest)
		if dest == "" || strings.HasPrefix(dest, "http://") || strings.HasPrefix(dest, "https://") {
			return ast.WalkContinue, nil
		}
		if strings.HasSuffix(strings.ToLower(dest), ".md") {
			dests = append(dests, dest)
		}
		return ast.WalkContinue, nil
	})
	return dests
}

// stripFragment removes a #fragment suffix from a link destination.
func stripFragment(dest string) string {
	if i := strings.Index(dest, "#"); i >= 0 {
		return dest[:i]
	}
	return dest
}
