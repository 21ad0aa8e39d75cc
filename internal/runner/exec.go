package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Exec is the production Runner backed by os/exec.
type Exec struct {
	// Stdout and Stderr receive a live copy of the child's output. Nil
	// discards it; the output is captured in Output either way.
	Stdout io.Writer
	Stderr io.Writer

	// Env is appended to the inherited process environment.
	Env []string
}

// Run resolves name on PATH, runs it in dir and waits for it to exit.
func (e *Exec) Run(ctx context.Context, dir, name string, args ...string) (*Output, error) {
	bin, err := exec.LookPath(name)
	if err != nil {
		return nil, fmt.Errorf("%s not found in PATH: %w", name, err)
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	if len(e.Env) > 0 {
		cmd.Env = append(os.Environ(), e.Env...)
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = teeTo(e.Stdout, &stdoutBuf)
	cmd.Stderr = teeTo(e.Stderr, &stderrBuf)

	err = cmd.Run()

	output := &Output{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return output, fmt.Errorf("%s interrupted: %w", CommandLine(name, args), ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			output.ExitCode = exitErr.ExitCode()
			return output, nil
		}
		return output, fmt.Errorf("executing %s: %w", CommandLine(name, args), err)
	}

	return output, nil
}

func teeTo(w io.Writer, buf *bytes.Buffer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(w, buf)
}
