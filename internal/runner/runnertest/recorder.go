// Package runnertest provides a recording runner.Runner for tests.
package runnertest

import (
	"context"
	"slices"
	"sync"

	"github.com/ngstart-labs/ngstart/internal/runner"
)

// Call is one recorded invocation.
type Call struct {
	Dir  string
	Name string
	Args []string
}

// Line renders the call as "name arg1 arg2".
func (c Call) Line() string {
	return runner.CommandLine(c.Name, c.Args)
}

// HandlerFunc decides the outcome of a recorded call.
type HandlerFunc func(ctx context.Context, c Call) (*runner.Output, error)

// Recorder records every invocation. With a nil Handler every command
// succeeds with empty output.
type Recorder struct {
	Handler HandlerFunc

	mu    sync.Mutex
	calls []Call
}

// Run records the call and delegates to Handler.
func (r *Recorder) Run(ctx context.Context, dir, name string, args ...string) (*runner.Output, error) {
	c := Call{Dir: dir, Name: name, Args: slices.Clone(args)}
	r.mu.Lock()
	r.calls = append(r.calls, c)
	r.mu.Unlock()

	if r.Handler == nil {
		return &runner.Output{}, nil
	}
	return r.Handler(ctx, c)
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

// Lines returns every recorded call rendered with Call.Line.
func (r *Recorder) Lines() []string {
	var lines []string
	for _, c := range r.Calls() {
		lines = append(lines, c.Line())
	}
	return lines
}

// Delegate forwards calls to commands in names to real and succeeds for
// everything else. Used to run git for real while faking npm.
func Delegate(real runner.Runner, names ...string) HandlerFunc {
	return func(ctx context.Context, c Call) (*runner.Output, error) {
		if slices.Contains(names, c.Name) {
			return real.Run(ctx, c.Dir, c.Name, c.Args...)
		}
		return &runner.Output{}, nil
	}
}

// FailWhen makes calls matching match exit with code and stderr.
func FailWhen(match func(Call) bool, code int, stderr string) HandlerFunc {
	return func(_ context.Context, c Call) (*runner.Output, error) {
		if match(c) {
			return &runner.Output{ExitCode: code, Stderr: stderr}, nil
		}
		return &runner.Output{}, nil
	}
}
