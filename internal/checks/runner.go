package checks

import (
	"bytes"
	"context"
	"os/exec"
)

// toolRunner abstracts interpreter lookups and invocations so syntax
// strategies can be exercised without the host toolchains installed.
type toolRunner interface {
	// Look resolves a tool name on PATH.
	Look(tool string) (string, error)
	// Run executes tool with args, returning captured stdout and stderr.
	// A context deadline kills the process and surfaces as ctx.Err().
	Run(ctx context.Context, tool string, args ...string) (stdout, stderr string, err error)
}

// execRunner is the real toolRunner backed by os/exec.
type execRunner struct{}

var _ toolRunner = execRunner{}

func (execRunner) Look(tool string) (string, error) {
	return exec.LookPath(tool)
}

func (execRunner) Run(ctx context.Context, tool string, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, tool, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if ctx.Err() != nil {
		err = ctx.Err()
	}
	return stdout.String(), stderr.String(), err
}
