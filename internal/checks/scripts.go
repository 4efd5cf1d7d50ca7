package checks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/microsoft/skillvet/internal/skill"
)

// defaultScriptTimeout bounds each interpreter invocation so a wedged tool
// degrades a single finding instead of hanging the run.
const defaultScriptTimeout = 10 * time.Second

// Script kinds, used as keys for tool overrides.
const (
	KindPython     = "python"
	KindShell      = "shell"
	KindJavaScript = "javascript"
	KindPowerShell = "powershell"
	KindBatch      = "batch"
)

// ToolCommand overrides the interpreter used for one script kind.
type ToolCommand struct {
	// Command is the executable name or path.
	Command string
	// Args are prepended before the strategy's own arguments.
	Args []string
	// Timeout overrides the per-invocation bound when positive.
	Timeout time.Duration
}

// ScriptsOptions configures the script syntax checker. The zero value uses
// the host interpreters with the default timeout.
type ScriptsOptions struct {
	// Timeout bounds each interpreter invocation; zero means the default.
	Timeout time.Duration
	// Tools overrides the interpreter per script kind.
	Tools map[string]ToolCommand

	// runner is replaced in tests.
	runner toolRunner
}

// scriptStrategies dispatches on file extension. Supporting another
// language means adding an entry here; nothing else changes.
var scriptStrategies = map[string]func(*ScriptsChecker, context.Context, string) []Finding{
	".py":  (*ScriptsChecker).checkPython,
	".sh":  (*ScriptsChecker).checkShell,
	".js":  (*ScriptsChecker).checkJavaScript,
	".ts":  (*ScriptsChecker).checkJavaScript,
	".ps1": (*ScriptsChecker).checkPowerShell,
	".bat": (*ScriptsChecker).checkBatch,
	".cmd": (*ScriptsChecker).checkBatch,
}

// ScriptsChecker validates the syntax of bundled scripts. Every strategy is
// parse- or compile-only; the scripts' own logic never runs. A missing or
// hung interpreter downgrades that file to "not verified" rather than
// failing the package.
type ScriptsChecker struct {
	runner  toolRunner
	timeout time.Duration
	tools   map[string]ToolCommand
}

var _ Checker = (*ScriptsChecker)(nil)

// NewScriptsChecker builds the checker, filling defaults for unset options.
func NewScriptsChecker(opts ScriptsOptions) *ScriptsChecker {
	r := opts.runner
	if r == nil {
		r = execRunner{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultScriptTimeout
	}
	return &ScriptsChecker{runner: r, timeout: timeout, tools: opts.Tools}
}

func (*ScriptsChecker) Category() Category { return CategoryScripts }

func (c *ScriptsChecker) Check(ctx context.Context, pkg *skill.Package) []Finding {
	dir := pkg.ScriptsDir()
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return []Finding{{
			Severity: SeverityWarning,
			Category: CategoryScripts,
			Message:  "Could not read scripts directory",
			Location: dir,
			Details:  err.Error(),
		}}
	}

	var findings []Finding
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		check, ok := scriptStrategies[strings.ToLower(filepath.Ext(entry.Name()))]
		if !ok {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		slog.Debug("checking script syntax", "path", path)
		findings = append(findings, check(c, ctx, path)...)
	}
	return findings
}

func (c *ScriptsChecker) checkPython(ctx context.Context, path string) []Finding {
	name := filepath.Base(path)
	tool, prefix, ok := c.resolveTool(KindPython, "python3", "python")
	if !ok {
		return []Finding{notVerified(name, path, "Python interpreter not found")}
	}
	args := append(append([]string{}, prefix...), "-m", "py_compile", path)
	_, stderr, err := c.runTool(ctx, KindPython, tool, args...)
	findings := syntaxFindings(name, path, "Python", stderr, err)
	if !hasCritical(findings) {
		if content, readErr := os.ReadFile(path); readErr == nil {
			findings = append(findings, helpFindings(name, path, string(content), true)...)
		}
	}
	return findings
}

func (c *ScriptsChecker) checkShell(ctx context.Context, path string) []Finding {
	name := filepath.Base(path)
	var findings []Finding

	content, readErr := os.ReadFile(path)
	if readErr == nil {
		findings = append(findings, shebangFindings(name, path, string(content))...)
	}

	tool, prefix, ok := c.resolveTool(KindShell, "bash")
	if !ok {
		findings = append(findings, notVerified(name, path, "bash not found"))
	} else {
		args := append(append([]string{}, prefix...), "-n", path)
		_, stderr, err := c.runTool(ctx, KindShell, tool, args...)
		findings = append(findings, syntaxFindings(name, path, "Shell", stderr, err)...)
	}

	if readErr == nil && !hasCritical(findings) {
		findings = append(findings, helpFindings(name, path, string(content), false)...)
	}
	return findings
}

func (c *ScriptsChecker) checkJavaScript(ctx context.Context, path string) []Finding {
	name := filepath.Base(path)
	lang := "JavaScript"
	if strings.EqualFold(filepath.Ext(path), ".ts") {
		lang = "TypeScript"
	}
	tool, prefix, ok := c.resolveTool(KindJavaScript, "node")
	if !ok {
		return []Finding{notVerified(name, path, "Node.js not found")}
	}
	args := append(append([]string{}, prefix...), "--check", path)
	_, stderr, err := c.runTool(ctx, KindJavaScript, tool, args...)
	return syntaxFindings(name, path, lang, stderr, err)
}

func (c *ScriptsChecker) checkPowerShell(ctx context.Context, path string) []Finding {
	name := filepath.Base(path)
	tool, prefix, ok := c.resolveTool(KindPowerShell, "pwsh")
	if !ok {
		return []Finding{notVerified(name, path, "PowerShell not available")}
	}
	// Parse the file into a scriptblock without invoking it.
	script := fmt.Sprintf("[void][scriptblock]::Create((Get-Content -Raw -LiteralPath '%s'))",
		strings.ReplaceAll(path, "'", "''"))
	args := append(append([]string{}, prefix...), "-NoProfile", "-NonInteractive", "-Command", script)
	_, stderr, err := c.runTool(ctx, KindPowerShell, tool, args...)
	return syntaxFindings(name, path, "PowerShell", stderr, err)
}

var (
	batchGotoPattern  = regexp.MustCompile(`(?im)^\s*goto\s+:?([A-Za-z0-9_.-]+)`)
	batchLabelPattern = regexp.MustCompile(`(?m)^\s*:([A-Za-z0-9_.-]+)`)
)

// checkBatch has no parser to call, so it applies heuristics only.
func (c *ScriptsChecker) checkBatch(_ context.Context, path string) []Finding {
	name := filepath.Base(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return []Finding{notVerified(name, path, "could not read file: "+err.Error())}
	}
	content := string(data)

	var findings []Finding
	if !strings.Contains(strings.ToLower(content), "@echo off") {
		findings = append(findings, Finding{
			Severity:   SeveritySuggestion,
			Category:   CategoryScripts,
			Message:    fmt.Sprintf("%s does not disable command echo", name),
			Location:   path,
			Suggestion: "Start batch scripts with @echo off to keep output readable",
		})
	}

	labels := make(map[string]bool)
	for _, m := range batchLabelPattern.FindAllStringSubmatch(content, -1) {
		labels[strings.ToLower(m[1])] = true
	}
	undefined := make(map[string]bool)
	for _, m := range batchGotoPattern.FindAllStringSubmatch(content, -1) {
		target := strings.ToLower(m[1])
		if target == "eof" || labels[target] {
			continue
		}
		undefined[target] = true
	}
	if len(undefined) > 0 {
		targets := make([]string, 0, len(undefined))
		for t := range undefined {
			targets = append(targets, t)
		}
		sort.Strings(targets)
		findings = append(findings, Finding{
			Severity: SeveritySuggestion,
			Category: CategoryScripts,
			Message:  fmt.Sprintf("%s jumps to labels that are never defined: %s", name, strings.Join(targets, ", ")),
			Location: path,
		})
	}
	return findings
}

// resolveTool returns the command and argument prefix for kind, consulting
// overrides first and falling back over PATH candidates.
func (c *ScriptsChecker) resolveTool(kind string, candidates ...string) (string, []string, bool) {
	if tc, ok := c.tools[kind]; ok && tc.Command != "" {
		return tc.Command, tc.Args, true
	}
	for _, cand := range candidates {
		if path, err := c.runner.Look(cand); err == nil {
			return path, nil, true
		}
	}
	return "", nil, false
}

func (c *ScriptsChecker) runTool(ctx context.Context, kind, tool string, args ...string) (string, string, error) {
	timeout := c.timeout
	if tc, ok := c.tools[kind]; ok && tc.Timeout > 0 {
		timeout = tc.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.runner.Run(ctx, tool, args...)
}

// syntaxFindings converts an interpreter invocation result into findings:
// nothing when the parse passed, a critical when the tool rejected the
// file, and a not-verified suggestion when the tool could not complete.
func syntaxFindings(name, path, lang, stderr string, err error) []Finding {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return []Finding{notVerified(name, path, lang+" check timed out")}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return []Finding{{
			Severity: SeverityCritical,
			Category: CategoryScripts,
			Message:  fmt.Sprintf("%s syntax error in %s", lang, name),
			Location: path,
			Details:  strings.TrimSpace(stderr),
		}}
	}
	return []Finding{notVerified(name, path, lang+" check could not run: "+err.Error())}
}

// notVerified reports that a script's syntax could not be confirmed. Never
// critical: an incomplete host toolchain is not the skill's defect.
func notVerified(name, path, reason string) Finding {
	return Finding{
		Severity: SeveritySuggestion,
		Category: CategoryScripts,
		Message:  fmt.Sprintf("%s not verified: %s", name, reason),
		Location: path,
	}
}

func shebangFindings(name, path, content string) []Finding {
	first, _, _ := strings.Cut(content, "\n")
	if !strings.HasPrefix(first, "#!") {
		return []Finding{{
			Severity:   SeverityWarning,
			Category:   CategoryScripts,
			Message:    fmt.Sprintf("%s has no shebang line", name),
			Location:   path,
			Suggestion: "Start the script with #!/bin/bash (or the intended shell)",
		}}
	}
	if !strings.Contains(first, "sh") {
		return []Finding{{
			Severity: SeverityWarning,
			Category: CategoryScripts,
			Message:  fmt.Sprintf("Shebang %q in %s does not name a shell", strings.TrimSpace(first), name),
			Location: path,
		}}
	}
	return nil
}

// helpFindings flags invocable scripts that document no usage. The scan is
// static; the script itself is never executed.
func helpFindings(name, path, content string, requireMain bool) []Finding {
	if requireMain && !strings.Contains(content, "__main__") {
		return nil
	}
	if strings.Contains(content, "--help") || strings.Contains(content, "argparse") ||
		strings.Contains(strings.ToLower(content), "usage") {
		return nil
	}
	return []Finding{{
		Severity:   SeveritySuggestion,
		Category:   CategoryScripts,
		Message:    fmt.Sprintf("%s exposes no --help or usage text", name),
		Location:   path,
		Suggestion: "Document the interface so an agent can learn it without reading the source",
	}}
}

func hasCritical(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityCritical {
			return true
		}
	}
	return false
}
