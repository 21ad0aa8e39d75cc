package runner

import (
	"context"
	"fmt"
	"strings"
)

// Runner executes external commands.
type Runner interface {
	// Run executes name with args in dir. A process that starts and exits
	// non-zero is not an error: the code is reported in Output.ExitCode.
	// The error return is for commands that could not be run at all.
	Run(ctx context.Context, dir, name string, args ...string) (*Output, error)
}

// Output captures the result of a command execution.
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// ExitError reports a command that exited non-zero.
type ExitError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Command, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += "\n" + s
	}
	return msg
}

// Check runs the command and converts a non-zero exit into *ExitError.
func Check(ctx context.Context, r Runner, dir, name string, args ...string) (*Output, error) {
	out, err := r.Run(ctx, dir, name, args...)
	if err != nil {
		return out, fmt.Errorf("running %s: %w", CommandLine(name, args), err)
	}
	if out.ExitCode != 0 {
		return out, &ExitError{
			Command:  CommandLine(name, args),
			ExitCode: out.ExitCode,
			Stderr:   out.Stderr,
		}
	}
	return out, nil
}

// CommandLine renders name and args as a single display string.
func CommandLine(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}
