// Package scoring aggregates checker findings into a score, grade, and run
// status. Everything here is a pure function of the findings multiset:
// permuting the input never changes the outcome.
package scoring

import (
	"sort"

	"github.com/microsoft/skillvet/internal/checks"
)

// MaxScore is the score of a skill with no findings.
const MaxScore = 100

// severityPenalties is the score deduction per finding.
var severityPenalties = map[checks.Severity]int{
	checks.SeverityCritical:   20,
	checks.SeverityWarning:    10,
	checks.SeveritySuggestion: 5,
}

// Status is the overall outcome of a validation run.
type Status string

const (
	// StatusPass means no findings at all.
	StatusPass Status = "pass"
	// StatusWarn means findings exist but none are critical.
	StatusWarn Status = "warn"
	// StatusFail means at least one critical finding.
	StatusFail Status = "fail"
)

// Counts tallies findings by severity.
type Counts struct {
	Critical    int
	Warnings    int
	Suggestions int
}

// Total returns the number of findings counted.
func (c Counts) Total() int { return c.Critical + c.Warnings + c.Suggestions }

// Result is the aggregated outcome for one skill.
type Result struct {
	// SkillName is the declared identifier of the validated skill.
	SkillName string
	// Findings holds every finding in checker display order.
	Findings []checks.Finding
	// Counts tallies Findings by severity.
	Counts Counts
	// Score is 0..MaxScore after severity-weighted deductions.
	Score int
	// Grade is the letter band for Score.
	Grade string
	// Status is the pass/warn/fail outcome.
	Status Status
}

// Evaluate aggregates findings for the named skill.
func Evaluate(skillName string, findings []checks.Finding) Result {
	counts := CountBySeverity(findings)
	score := computeScore(counts)
	return Result{
		SkillName: skillName,
		Findings:  findings,
		Counts:    counts,
		Score:     score,
		Grade:     GradeFor(score),
		Status:    statusFor(counts),
	}
}

// CountBySeverity tallies findings by severity.
func CountBySeverity(findings []checks.Finding) Counts {
	var c Counts
	for _, f := range findings {
		switch f.Severity {
		case checks.SeverityCritical:
			c.Critical++
		case checks.SeverityWarning:
			c.Warnings++
		case checks.SeveritySuggestion:
			c.Suggestions++
		}
	}
	return c
}

func computeScore(c Counts) int {
	score := MaxScore
	score -= c.Critical * severityPenalties[checks.SeverityCritical]
	score -= c.Warnings * severityPenalties[checks.SeverityWarning]
	score -= c.Suggestions * severityPenalties[checks.SeveritySuggestion]
	if score < 0 {
		score = 0
	}
	return score
}

// GradeFor maps a score to its letter band.
func GradeFor(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

func statusFor(c Counts) Status {
	switch {
	case c.Critical > 0:
		return StatusFail
	case c.Total() > 0:
		return StatusWarn
	default:
		return StatusPass
	}
}

// TopIssues returns the n highest-impact findings, critical first. The sort
// is stable, so ties keep the checker display order the findings arrived in.
func TopIssues(findings []checks.Finding, n int) []checks.Finding {
	top := make([]checks.Finding, len(findings))
	copy(top, findings)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Severity.Rank() > top[j].Severity.Rank()
	})
	if len(top) > n {
		top = top[:n]
	}
	return top
}
