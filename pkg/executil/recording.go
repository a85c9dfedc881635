package executil

import (
	"context"
	"sync"
)

// RecordedCommand is one invocation seen by a RecordingExecutor.
type RecordedCommand struct {
	Cmd  string
	Args []string
}

// RecordingExecutor captures invocations instead of spawning processes.
// Populate Outputs and Errors to script the return values per command name.
type RecordingExecutor struct {
	mu       sync.Mutex
	Commands []RecordedCommand

	// Outputs maps a command name (e.g. "xdg-open") to its output.
	Outputs map[string][]byte

	// Errors maps a command name to the error it should fail with.
	Errors map[string]error
}

// Run appends the invocation to Commands and returns any scripted
// output/error for the command name.
func (e *RecordingExecutor) Run(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.Commands = append(e.Commands, RecordedCommand{Cmd: cmd, Args: args})

	var out []byte
	var err error
	if e.Outputs != nil {
		out = e.Outputs[cmd]
	}
	if e.Errors != nil {
		err = e.Errors[cmd]
	}
	return out, err
}
