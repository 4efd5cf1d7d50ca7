package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/microsoft/skillvet/internal/metadata"
	"github.com/microsoft/skillvet/internal/pipeline"
	"github.com/microsoft/skillvet/internal/projectconfig"
	"github.com/microsoft/skillvet/internal/scoring"
)

// jsonSentinel prefixes the machine-parsable result line in text mode.
const jsonSentinel = "SKILL_TEST_JSON::"

func newCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <skill-path>",
		Short: "Validate a skill package and score it",
		Long: `Validate a skill package against the structural rules for Agent Skills.

Runs six checkers:
  1. Naming       - directory naming conventions
  2. Structure    - required files and layout
  3. Frontmatter  - YAML frontmatter fields
  4. Content      - instruction document quality
  5. References   - reference document hygiene
  6. Scripts      - bundled script syntax

Scoring starts at 100 and deducts 20 points per critical issue, 10 per
warning, and 5 per suggestion. Any critical issue fails the run.

A Markdown report is written to the output directory on every run. With
--ai-metadata, a JSON payload for external semantic analysis is exported
and announced on stdout.

Examples:
  skillvet check skills/pdf-processing
  skillvet check . --verbose
  skillvet check skills/pdf-processing --format json
  skillvet check skills/pdf-processing --ai-metadata out/metadata.json`,
		Args:          cobra.ExactArgs(1),
		RunE:          runCheck,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.Flags().String("output-dir", "", `Report directory (default "reports", or output_dir from .skillvet.yaml)`)
	cmd.Flags().String("ai-metadata", "", "Export the semantic-analysis metadata payload to this path")
	cmd.Flags().String("format", "text", "Output format: text | json")
	cmd.Flags().Bool("verbose", false, "Show every finding grouped by checker")
	return cmd
}

// --- JSON output structs ---

type checkJSONReport struct {
	Status        string      `json:"status"`
	Score         int         `json:"score"`
	Grade         string      `json:"grade"`
	ReportPath    string      `json:"report_path"`
	Summary       summaryJSON `json:"summary"`
	TopIssues     []string    `json:"top_issues"`
	ReportError   string      `json:"report_error,omitempty"`
	MetadataError string      `json:"metadata_error,omitempty"`
}

type summaryJSON struct {
	Critical    int `json:"critical"`
	Warnings    int `json:"warnings"`
	Suggestions int `json:"suggestions"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format %q: expected text or json", format)
	}
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return err
	}

	skillDir := args[0]
	if !filepath.IsAbs(skillDir) {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		skillDir = filepath.Join(wd, skillDir)
	}

	// Flags beat .skillvet.yaml; the config beats built-in defaults.
	cfg, err := projectconfig.Load(skillDir)
	if err != nil {
		return err
	}
	scripts, err := cfg.ScriptOptions()
	if err != nil {
		return err
	}
	outputDir, err := cmd.Flags().GetString("output-dir")
	if err != nil {
		return err
	}
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}
	metadataPath, err := cmd.Flags().GetString("ai-metadata")
	if err != nil {
		return err
	}

	out, err := pipeline.Run(cmd.Context(), skillDir, pipeline.Options{
		OutputDir:    outputDir,
		MetadataPath: metadataPath,
		Scripts:      scripts,
	})
	if err != nil {
		return err
	}

	jr := buildCheckJSON(out)
	if format == "json" {
		if err := outputCheckJSON(cmd, jr); err != nil {
			return err
		}
	} else {
		w := cmd.OutOrStdout()
		displayResult(w, out, verbose)

		line, err := json.Marshal(jr)
		if err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		fmt.Fprintf(w, "%s%s\n", jsonSentinel, line) //nolint:errcheck
		if out.MetadataPath != "" {
			fmt.Fprintf(w, "%s%s\n", metadata.Sentinel, filepath.ToSlash(out.MetadataPath)) //nolint:errcheck
		}
	}

	if out.Result.Status == scoring.StatusFail {
		return &ValidationFailedError{
			Message: fmt.Sprintf("validation failed: %d critical issue(s) in skill %s",
				out.Result.Counts.Critical, out.Result.SkillName),
		}
	}
	return nil
}

// buildCheckJSON converts a run outcome to its structured representation.
func buildCheckJSON(out *pipeline.Outcome) checkJSONReport {
	res := out.Result
	jr := checkJSONReport{
		Status:     string(res.Status),
		Score:      res.Score,
		Grade:      res.Grade,
		ReportPath: out.ReportPath,
		Summary: summaryJSON{
			Critical:    res.Counts.Critical,
			Warnings:    res.Counts.Warnings,
			Suggestions: res.Counts.Suggestions,
		},
		TopIssues: make([]string, 0, topIssueCount),
	}
	for _, f := range scoring.TopIssues(res.Findings, topIssueCount) {
		jr.TopIssues = append(jr.TopIssues, fmt.Sprintf("[%s] %s", strings.ToUpper(string(f.Severity)), f.Message))
	}
	if out.ReportErr != nil {
		jr.ReportError = out.ReportErr.Error()
	}
	if out.MetadataErr != nil {
		jr.MetadataError = out.MetadataErr.Error()
	}
	return jr
}

// outputCheckJSON marshals the report as indented JSON to the command's stdout.
func outputCheckJSON(cmd *cobra.Command, jr checkJSONReport) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jr); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	_, err := fmt.Fprint(cmd.OutOrStdout(), buf.String())
	return err
}
