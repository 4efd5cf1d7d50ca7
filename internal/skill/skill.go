// Package skill loads a skill package directory for validation.
package skill

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DocFileName is the instruction document every skill package carries.
const DocFileName = "SKILL.md"

// Resource subdirectories recognized at the package root.
const (
	ScriptsDirName    = "scripts"
	ReferencesDirName = "references"
	AssetsDirName     = "assets"
)

// Frontmatter holds the typed YAML frontmatter of the instruction document.
// Only these two fields are loaded by consumers; anything else in the block
// is surfaced through FrontmatterRaw.
type Frontmatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Package is a skill directory loaded for validation. It is read once and
// never modified; checkers treat it as immutable shared input.
//
// Frontmatter parse failures are recorded on the package rather than
// returned from Load, so a malformed document still flows through the full
// pipeline as findings.
type Package struct {
	// Dir is the resolved absolute path of the skill directory.
	Dir string
	// Name is the directory basename, the package's declared identifier.
	Name string
	// DocPath is where the instruction document lives (or would live).
	DocPath string
	// HasDoc reports whether the instruction document exists.
	HasDoc bool

	// Frontmatter is the typed view of the frontmatter block.
	Frontmatter Frontmatter
	// FrontmatterRaw is the full decoded mapping, nil when absent or unparsable.
	FrontmatterRaw map[string]any
	// FrontmatterNode preserves the YAML node tree for line positions.
	FrontmatterNode *yaml.Node
	// HasFrontmatter reports whether the document opens with a --- block.
	HasFrontmatter bool
	// FrontmatterErr records a delimiter or YAML failure, nil when clean.
	FrontmatterErr error

	// Body is the document content after the frontmatter block.
	Body string
	// RawContent is the unmodified document text.
	RawContent string
	// BodyLines and BodyWords are counts over Body.
	BodyLines int
	BodyWords int

	// RootFiles and RootDirs are the sorted names of regular files and
	// subdirectories at the package root.
	RootFiles []string
	RootDirs  []string
}

// Load reads the skill directory at dir. It fails only on preconditions
// that leave nothing to validate: the path missing, not a directory, or an
// existing instruction document that cannot be read.
func Load(dir string) (*Package, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving skill path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("skill path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("skill path %s is not a directory", abs)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("reading skill directory: %w", err)
	}

	p := &Package{
		Dir:     abs,
		Name:    filepath.Base(abs),
		DocPath: filepath.Join(abs, DocFileName),
	}
	for _, e := range entries {
		if e.IsDir() {
			p.RootDirs = append(p.RootDirs, e.Name())
		} else {
			p.RootFiles = append(p.RootFiles, e.Name())
		}
	}

	data, err := os.ReadFile(p.DocPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return p, nil
	case err != nil:
		return nil, fmt.Errorf("reading %s: %w", DocFileName, err)
	}
	p.HasDoc = true
	p.RawContent = string(data)
	p.HasFrontmatter = strings.HasPrefix(p.RawContent, "---")

	fm, raw, node, body, err := parseFrontmatter(p.RawContent)
	p.Frontmatter = fm
	p.FrontmatterRaw = raw
	p.FrontmatterNode = node
	p.FrontmatterErr = err
	p.Body = body
	if p.Body != "" {
		p.BodyLines = strings.Count(p.Body, "\n") + 1
	}
	p.BodyWords = len(strings.Fields(p.Body))
	return p, nil
}

// HasDir reports whether name is a subdirectory at the package root.
func (p *Package) HasDir(name string) bool {
	for _, d := range p.RootDirs {
		if d == name {
			return true
		}
	}
	return false
}

// ScriptsDir returns the path of the scripts directory, or "" when absent.
func (p *Package) ScriptsDir() string { return p.resourceDir(ScriptsDirName) }

// ReferencesDir returns the path of the references directory, or "" when absent.
func (p *Package) ReferencesDir() string { return p.resourceDir(ReferencesDirName) }

func (p *Package) resourceDir(name string) string {
	if !p.HasDir(name) {
		return ""
	}
	return filepath.Join(p.Dir, name)
}

// parseFrontmatter splits YAML frontmatter (delimited by ---) from body.
func parseFrontmatter(content string) (Frontmatter, map[string]any, *yaml.Node, string, error) {
	var fm Frontmatter

	if !strings.HasPrefix(content, "---") {
		// No frontmatter — return empty fields with the whole content as body.
		return fm, nil, nil, content, nil
	}

	// Find the closing ---
	rest := content[3:]
	if strings.HasPrefix(rest, "\r\n") {
		rest = rest[2:]
	} else if strings.HasPrefix(rest, "\n") {
		rest = rest[1:]
	}

	idx := strings.Index(rest, "\n---")
	if idx < 0 {
		return fm, nil, nil, content, errors.New("closing frontmatter delimiter not found")
	}

	yamlBlock := rest[:idx]
	body := rest[idx+4:] // skip \n---

	var rawFrontmatter map[string]any
	if err := yaml.Unmarshal([]byte(yamlBlock), &rawFrontmatter); err != nil {
		return fm, nil, nil, content, fmt.Errorf("unmarshalling frontmatter: %w", err)
	}
	if err := yaml.Unmarshal([]byte(yamlBlock), &fm); err != nil {
		return fm, nil, nil, content, fmt.Errorf("unmarshalling frontmatter: %w", err)
	}
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(yamlBlock), &node); err != nil {
		return fm, nil, nil, content, fmt.Errorf("unmarshalling frontmatter: %w", err)
	}

	return fm, rawFrontmatter, &node, body, nil
}

// FrontmatterKeyLine returns the document line number of a top-level
// frontmatter key, or 0 when unknown. Node lines are relative to the YAML
// block, which starts one line after the opening delimiter.
func (p *Package) FrontmatterKeyLine(key string) int {
	node := p.FrontmatterNode
	if node == nil {
		return 0
	}
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return 0
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i].Line + 1
		}
	}
	return 0
}
