package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/microsoft/skillvet/internal/discovery"
	"github.com/microsoft/skillvet/internal/skill"
)

func newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [root]",
		Short: "List skill packages under a directory",
		Long: `List skill packages under a directory tree.

Walks the tree looking for SKILL.md files, skipping hidden directories,
node_modules, and vendor. For each skill found, reports the directory
name, frontmatter state, and bundled resource directories.

Frontmatter states:
  ok          - parses and declares name and description
  incomplete  - parses but name or description is missing
  invalid     - frontmatter block is malformed
  missing     - no frontmatter block or unreadable document

With no argument, lists skills under the current directory.

Examples:
  skillvet list skills/
  skillvet list . --format json`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runList,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.Flags().String("format", "text", "Output format: text | json")
	return cmd
}

type listEntry struct {
	Name        string   `json:"name"`
	Path        string   `json:"path"`
	Frontmatter string   `json:"frontmatter"`
	Resources   []string `json:"resources,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format %q: expected text or json", format)
	}

	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving root path: %w", err)
	}

	discovered, err := discovery.Discover(absRoot)
	if err != nil {
		return err
	}

	entries := make([]listEntry, 0, len(discovered))
	for _, d := range discovered {
		path := d.Dir
		if rel, relErr := filepath.Rel(absRoot, d.Dir); relErr == nil {
			path = rel
		}
		entries = append(entries, listEntry{
			Name:        d.Name,
			Path:        filepath.ToSlash(path),
			Frontmatter: frontmatterState(d.Dir),
			Resources:   d.Resources,
		})
	}

	if format == "json" {
		return outputListJSON(cmd, entries)
	}
	displayListTable(cmd.OutOrStdout(), entries)
	return nil
}

// frontmatterState classifies the instruction document's frontmatter for
// the listing. The full checker pipeline is not run here; this is a quick
// parse-level triage.
func frontmatterState(dir string) string {
	pkg, err := skill.Load(dir)
	if err != nil || !pkg.HasDoc || !pkg.HasFrontmatter {
		return "missing"
	}
	if pkg.FrontmatterErr != nil {
		return "invalid"
	}
	if pkg.Frontmatter.Name == "" || pkg.Frontmatter.Description == "" {
		return "incomplete"
	}
	return "ok"
}

//nolint:errcheck
func displayListTable(w writer, entries []listEntry) {
	if len(entries) == 0 {
		fmt.Fprintf(w, "No skills found.\n")
		return
	}

	const maxNameWidth = 25
	const colFrontmatter = 11
	const colResources = 27 // fits "scripts, references, assets"

	// Compute dynamic column width from the longest skill name.
	nameWidth := len("Skill")
	for _, e := range entries {
		if runeLen := utf8.RuneCountInString(e.Name); runeLen > nameWidth {
			nameWidth = runeLen
		}
	}
	if nameWidth > maxNameWidth {
		nameWidth = maxNameWidth
	}

	totalWidth := nameWidth + colFrontmatter + colResources + len("Path") + 6 // 6 = 3 gaps × 2 spaces

	fmt.Fprintf(w, "%s  %s  %s  %s\n",
		padRight("Skill", nameWidth),
		padRight("Frontmatter", colFrontmatter),
		padRight("Resources", colResources),
		"Path")
	fmt.Fprintf(w, "%s\n", strings.Repeat("─", totalWidth))

	for _, e := range entries {
		resources := strings.Join(e.Resources, ", ")
		if resources == "" {
			resources = "—"
		}
		fmt.Fprintf(w, "%s  %s  %s  %s\n",
			padRight(truncate(e.Name, nameWidth), nameWidth),
			padRight(e.Frontmatter, colFrontmatter),
			padRight(resources, colResources),
			e.Path)
	}
	fmt.Fprintf(w, "\n%d skill(s) found\n", len(entries))
}

// outputListJSON marshals the listing as indented JSON to the command's stdout.
func outputListJSON(cmd *cobra.Command, entries []listEntry) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(struct {
		Skills []listEntry `json:"skills"`
	}{Skills: entries}); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	_, err := fmt.Fprint(cmd.OutOrStdout(), buf.String())
	return err
}
