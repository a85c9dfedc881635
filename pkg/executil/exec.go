// Package executil provides external command execution behind a small
// interface so callers can be tested without spawning processes.
package executil

import (
	"context"
	"fmt"
	"os/exec"
)

// Executor runs external commands. The CLI shells out only to launch the
// browser on exported reports, so the surface is intentionally small.
type Executor interface {
	// Run executes a command and returns its combined output.
	Run(ctx context.Context, cmd string, args ...string) ([]byte, error)
}

// RealExecutor calls actual shell commands.
type RealExecutor struct{}

// Run executes a command and returns its combined output.
func (e *RealExecutor) Run(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, cmd, args...).CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("exec %s: %w", cmd, err)
	}
	return out, nil
}
