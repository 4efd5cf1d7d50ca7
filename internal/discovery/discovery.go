package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/microsoft/skillvet/internal/skill"
)

// DiscoveredSkill represents a skill found during directory traversal.
type DiscoveredSkill struct {
	Name      string   // directory name containing SKILL.md
	SkillPath string   // absolute path to SKILL.md
	Dir       string   // absolute path to the skill directory
	Resources []string // bundled resource dirs present (scripts, references, assets)
}

// HasResources returns true if the skill bundles any resource directories.
func (d DiscoveredSkill) HasResources() bool {
	return len(d.Resources) > 0
}

// Discover walks the given root directory and finds all skill packages.
// A skill is a directory containing SKILL.md.
func Discover(root string) ([]DiscoveredSkill, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root path: %w", err)
	}

	// Verify root exists before walking
	if _, err := os.Stat(absRoot); err != nil {
		return nil, fmt.Errorf("root path: %w", err)
	}

	var skills []DiscoveredSkill

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}

		// Skip hidden directories and dependency trees, but never the root
		// itself.
		if d.IsDir() && path != absRoot {
			if strings.HasPrefix(d.Name(), ".") || d.Name() == "node_modules" || d.Name() == "vendor" {
				return fs.SkipDir
			}
		}

		if !d.IsDir() && d.Name() == skill.DocFileName {
			dir := filepath.Dir(path)
			skills = append(skills, DiscoveredSkill{
				Name:      filepath.Base(dir),
				SkillPath: path,
				Dir:       dir,
				Resources: findResources(dir),
			})
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", absRoot, err)
	}

	return skills, nil
}

// findResources reports which of the conventional resource directories
// exist under a skill directory, in display order.
func findResources(skillDir string) []string {
	var found []string
	for _, name := range []string{skill.ScriptsDirName, skill.ReferencesDirName, skill.AssetsDirName} {
		if dirExists(filepath.Join(skillDir, name)) {
			found = append(found, name)
		}
	}
	return found
}

// dirExists checks if a path exists and is a directory.
func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
