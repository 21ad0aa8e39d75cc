// Package gitinit replaces the history inherited from a cloned template with
// a fresh repository holding a single commit.
package gitinit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ngstart-labs/ngstart/internal/runner"
)

// DefaultMessage is used when no commit message is supplied.
const DefaultMessage = "chore: initial commit"

// Error reports the git step that failed.
type Error struct {
	Step string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("git %s: %v", e.Step, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Init removes dir/.git, runs git init, stages everything and commits once
// with message.
func Init(ctx context.Context, r runner.Runner, dir, message string) error {
	if message == "" {
		message = DefaultMessage
	}

	if err := os.RemoveAll(filepath.Join(dir, ".git")); err != nil {
		return &Error{Step: "cleanup", Err: err}
	}

	steps := []struct {
		name string
		args []string
	}{
		{"init", []string{"init", "-q"}},
		{"add", []string{"add", "-A"}},
		{"commit", []string{"commit", "-q", "-m", message}},
	}
	for _, step := range steps {
		if _, err := runner.Check(ctx, r, dir, "git", step.args...); err != nil {
			return &Error{Step: step.name, Err: err}
		}
	}
	return nil
}
