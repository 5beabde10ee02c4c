package zonefile

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// HookError reports a failed post-generation command.
type HookError struct {
	Command string
	Err     error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("reload command %q failed: %v", e.Command, e.Err)
}

func (e *HookError) Unwrap() error { return e.Err }

// RunHook runs command through sh -c with the given output streams. An
// empty command is a no-op.
func RunHook(ctx context.Context, command string, stdout, stderr io.Writer) error {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		return &HookError{Command: command, Err: err}
	}
	return nil
}
