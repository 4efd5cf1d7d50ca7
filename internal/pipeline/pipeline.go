// Package pipeline drives a full validation run: load the skill package,
// fan the checkers out, aggregate the findings, persist the report, and
// export the analyzer metadata when enabled.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/microsoft/skillvet/internal/checks"
	"github.com/microsoft/skillvet/internal/metadata"
	"github.com/microsoft/skillvet/internal/report"
	"github.com/microsoft/skillvet/internal/scoring"
	"github.com/microsoft/skillvet/internal/skill"
)

// Options configures one validation run.
type Options struct {
	// OutputDir is where the Markdown report is persisted.
	OutputDir string
	// MetadataPath enables AI metadata export when non-empty.
	MetadataPath string
	// Scripts configures the script syntax checker.
	Scripts checks.ScriptsOptions
	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

// Outcome is everything a run produced. Report and metadata write
// failures are recorded here rather than aborting the run; the result is
// valid either way.
type Outcome struct {
	Package      *skill.Package
	Result       scoring.Result
	ReportPath   string
	ReportErr    error
	MetadataPath string
	MetadataErr  error
	Duration     time.Duration
}

// Run validates the skill directory at dir. Only fatal preconditions
// (path missing, unreadable) return an error; everything past loading
// degrades into findings or Outcome fields.
func Run(ctx context.Context, dir string, opts Options) (*Outcome, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	start := now()

	pkg, err := skill.Load(dir)
	if err != nil {
		return nil, err
	}
	slog.Debug("loaded skill package", "name", pkg.Name, "dir", pkg.Dir, "hasDoc", pkg.HasDoc)

	findings := runCheckers(ctx, pkg, opts.Scripts)
	result := scoring.Evaluate(pkg.Name, findings)
	duration := now().Sub(start)
	slog.Debug("validation complete",
		"skill", result.SkillName,
		"score", result.Score,
		"status", result.Status,
		"findings", len(findings))

	out := &Outcome{
		Package:  pkg,
		Result:   result,
		Duration: duration,
	}

	info := report.Info{
		SkillPath: pkg.Dir,
		StartedAt: start,
		Duration:  duration,
	}
	out.ReportPath, out.ReportErr = report.Write(opts.OutputDir, result, info)
	if out.ReportErr != nil {
		slog.Warn("report write failed", "error", out.ReportErr)
		out.ReportPath = ""
	}

	if opts.MetadataPath != "" {
		payload := metadata.Build(pkg, result, out.ReportPath, now())
		if err := metadata.Export(payload, opts.MetadataPath); err != nil {
			slog.Warn("metadata export failed", "error", err)
			out.MetadataErr = err
		} else {
			out.MetadataPath = opts.MetadataPath
		}
	}

	return out, nil
}

// runCheckers fans the checkers out and flattens their findings in
// declaration order, so the result is independent of completion order.
func runCheckers(ctx context.Context, pkg *skill.Package, scripts checks.ScriptsOptions) []checks.Finding {
	chks := checks.Checkers(scripts)
	results := make([][]checks.Finding, len(chks))

	g, ctx := errgroup.WithContext(ctx)
	for i, c := range chks {
		g.Go(func() error {
			results[i] = c.Check(ctx, pkg)
			return nil
		})
	}
	// Checkers convert their own failures to findings and never error.
	_ = g.Wait()

	var findings []checks.Finding
	for _, fs := range results {
		findings = append(findings, fs...)
	}
	return findings
}
