package projectconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/microsoft/skillvet/internal/checks"
)

func TestNew_ReturnsAllDefaults(t *testing.T) {
	cfg := New()

	assertEqual(t, "OutputDir", "reports", cfg.OutputDir)
	assertEqualInt(t, "Scripts.TimeoutSeconds", 10, cfg.Scripts.TimeoutSeconds)
	if cfg.Scripts.Tools != nil {
		t.Error("Scripts.Tools should be nil by default")
	}
}

func TestLoad_FullConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".skillvet.yaml", `
output_dir: "out/validation"
scripts:
  timeout_seconds: 30
  tools:
    python: python3.12
    shell:
      command: /opt/homebrew/bin/bash
      args: ["--posix"]
      timeout_seconds: 5
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	assertEqual(t, "OutputDir", "out/validation", cfg.OutputDir)
	assertEqualInt(t, "Scripts.TimeoutSeconds", 30, cfg.Scripts.TimeoutSeconds)

	opts, err := cfg.ScriptOptions()
	if err != nil {
		t.Fatalf("ScriptOptions() error: %v", err)
	}
	if opts.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", opts.Timeout)
	}
	assertToolCommand(t, "python", checks.ToolCommand{Command: "python3.12"}, opts.Tools["python"])
	assertToolCommand(t, "shell", checks.ToolCommand{
		Command: "/opt/homebrew/bin/bash",
		Args:    []string{"--posix"},
		Timeout: 5 * time.Second,
	}, opts.Tools["shell"])
}

func TestLoad_PartialConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".skillvet.yaml", `
output_dir: "custom-reports"
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Overridden
	assertEqual(t, "OutputDir", "custom-reports", cfg.OutputDir)

	// Defaults preserved
	assertEqualInt(t, "Scripts.TimeoutSeconds", 10, cfg.Scripts.TimeoutSeconds)
}

func TestLoad_MissingFile_ReturnsDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	defaults := New()
	assertEqual(t, "OutputDir", defaults.OutputDir, cfg.OutputDir)
	assertEqualInt(t, "Scripts.TimeoutSeconds", defaults.Scripts.TimeoutSeconds, cfg.Scripts.TimeoutSeconds)
}

func TestLoad_InvalidYAML_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".skillvet.yaml", `
scripts:
  tools: [not valid yaml
    this is broken
`)

	_, err := Load(dir)
	if err == nil {
		t.Fatal("Load() should return error for invalid YAML")
	}
}

func TestLoad_WalksUpDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".skillvet.yaml", `
output_dir: "found-it"
`)

	child := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(child, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(child)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	assertEqual(t, "OutputDir", "found-it", cfg.OutputDir)
	// Other defaults still populated
	assertEqualInt(t, "Scripts.TimeoutSeconds", 10, cfg.Scripts.TimeoutSeconds)
}

func TestScriptOptions_Defaults(t *testing.T) {
	opts, err := New().ScriptOptions()
	if err != nil {
		t.Fatalf("ScriptOptions() error: %v", err)
	}
	if opts.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", opts.Timeout)
	}
	if opts.Tools != nil {
		t.Error("Tools should be nil when no overrides are configured")
	}
}

func TestScriptOptions_EmptyCommand(t *testing.T) {
	cfg := New()
	cfg.Scripts.Tools = map[string]any{"python": "   "}

	_, err := cfg.ScriptOptions()
	if err == nil {
		t.Fatal("ScriptOptions() should reject an empty command string")
	}
	if got := err.Error(); !strings.Contains(got, "scripts.tools.python") {
		t.Errorf("error %q should name the offending entry", got)
	}
}

func TestScriptOptions_ObjectWithoutCommand(t *testing.T) {
	cfg := New()
	cfg.Scripts.Tools = map[string]any{
		"shell": map[string]any{"args": []any{"-n"}},
	}

	_, err := cfg.ScriptOptions()
	if err == nil {
		t.Fatal("ScriptOptions() should reject a tool object without a command")
	}
}

func TestScriptOptions_BadEntryType(t *testing.T) {
	cfg := New()
	cfg.Scripts.Tools = map[string]any{"python": 42}

	if _, err := cfg.ScriptOptions(); err == nil {
		t.Fatal("ScriptOptions() should reject a non-string, non-object entry")
	}
}

// --- test helpers ---

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func assertEqual(t *testing.T, field, want, got string) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %q, want %q", field, got, want)
	}
}

func assertEqualInt(t *testing.T, field string, want, got int) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %d, want %d", field, got, want)
	}
}

func assertToolCommand(t *testing.T, kind string, want, got checks.ToolCommand) {
	t.Helper()
	if got.Command != want.Command {
		t.Errorf("tools[%s].Command = %q, want %q", kind, got.Command, want.Command)
	}
	if len(got.Args) != len(want.Args) {
		t.Fatalf("tools[%s].Args = %v, want %v", kind, got.Args, want.Args)
	}
	for i := range want.Args {
		if got.Args[i] != want.Args[i] {
			t.Errorf("tools[%s].Args[%d] = %q, want %q", kind, i, got.Args[i], want.Args[i])
		}
	}
	if got.Timeout != want.Timeout {
		t.Errorf("tools[%s].Timeout = %v, want %v", kind, got.Timeout, want.Timeout)
	}
}
