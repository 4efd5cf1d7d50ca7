// Package projectconfig provides the ProjectConfig struct and loader for
// .skillvet.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/microsoft/skillvet/internal/checks"
)

// ConfigFileName is the project configuration file searched for upward
// from the working directory.
const ConfigFileName = ".skillvet.yaml"

// Default values for project configuration. These are the single source of
// truth — New() references them and no other code should duplicate them.
const (
	DefaultOutputDir            = "reports"
	DefaultScriptTimeoutSeconds = 10
)

// ScriptsConfig holds script syntax check settings. Tools maps a script
// kind (python, shell, javascript, powershell, batch) to either a plain
// command string or a {command, args, timeout_seconds} object.
type ScriptsConfig struct {
	TimeoutSeconds int            `yaml:"timeout_seconds,omitempty"`
	Tools          map[string]any `yaml:"tools,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .skillvet.yaml.
type ProjectConfig struct {
	OutputDir string        `yaml:"output_dir,omitempty"`
	Scripts   ScriptsConfig `yaml:"scripts,omitempty"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		OutputDir: DefaultOutputDir,
		Scripts: ScriptsConfig{
			TimeoutSeconds: DefaultScriptTimeoutSeconds,
		},
	}
}

// Load finds .skillvet.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // no file found → return defaults
		}
		return nil, fmt.Errorf("loading %s: %w", ConfigFileName, err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ConfigFileName, err)
	}

	mergeConfig(cfg, &fileCfg)
	return cfg, nil
}

// findConfigFile walks up from dir looking for .skillvet.yaml (max 10
// levels). Returns os.ErrNotExist if no config file is found. Propagates
// real I/O errors (e.g. permission denied) instead of silently swallowing
// them.
func findConfigFile(dir string) ([]byte, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, ConfigFileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	if src.OutputDir != "" {
		dst.OutputDir = src.OutputDir
	}
	if src.Scripts.TimeoutSeconds != 0 {
		dst.Scripts.TimeoutSeconds = src.Scripts.TimeoutSeconds
	}
	if len(src.Scripts.Tools) > 0 {
		dst.Scripts.Tools = src.Scripts.Tools
	}
}

// ScriptOptions converts the scripts section into checker options.
func (c *ProjectConfig) ScriptOptions() (checks.ScriptsOptions, error) {
	opts := checks.ScriptsOptions{
		Timeout: time.Duration(c.Scripts.TimeoutSeconds) * time.Second,
	}
	if len(c.Scripts.Tools) == 0 {
		return opts, nil
	}

	opts.Tools = make(map[string]checks.ToolCommand, len(c.Scripts.Tools))
	for kind, raw := range c.Scripts.Tools {
		cmd, err := decodeToolEntry(raw)
		if err != nil {
			return checks.ScriptsOptions{}, fmt.Errorf("scripts.tools.%s: %w", kind, err)
		}
		opts.Tools[kind] = cmd
	}
	return opts, nil
}

func decodeToolEntry(raw any) (checks.ToolCommand, error) {
	if s, ok := raw.(string); ok {
		if strings.TrimSpace(s) == "" {
			return checks.ToolCommand{}, errors.New("command is empty")
		}
		return checks.ToolCommand{Command: s}, nil
	}

	var v struct {
		Command        string   `mapstructure:"command"`
		Args           []string `mapstructure:"args"`
		TimeoutSeconds int      `mapstructure:"timeout_seconds"`
	}
	if err := mapstructure.Decode(raw, &v); err != nil {
		return checks.ToolCommand{}, err
	}
	if strings.TrimSpace(v.Command) == "" {
		return checks.ToolCommand{}, errors.New("command is required")
	}
	return checks.ToolCommand{
		Command: v.Command,
		Args:    v.Args,
		Timeout: time.Duration(v.TimeoutSeconds) * time.Second,
	}, nil
}
