// Package deps drives the package manager inside a generated project.
package deps

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ngstart-labs/ngstart/internal/ctxlog"
	"github.com/ngstart-labs/ngstart/internal/runner"
)

// DependencyInstallError reports a package-manager command that failed.
type DependencyInstallError struct {
	Command  string
	ExitCode int // -1 when the command could not be started
	Stderr   string
	Err      error
}

func (e *DependencyInstallError) Error() string {
	msg := fmt.Sprintf("dependency command %q failed", e.Command)
	if e.ExitCode >= 0 {
		msg += fmt.Sprintf(" with exit code %d", e.ExitCode)
	}
	if e.Err != nil && e.ExitCode < 0 {
		msg += ": " + e.Err.Error()
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += "\n" + s
	}
	return msg
}

func (e *DependencyInstallError) Unwrap() error { return e.Err }

// DefaultCommands is the install sequence for an Angular project: full
// install, framework update, general update.
var DefaultCommands = [][]string{
	{"npm", "install"},
	{"npx", "ng", "update", "@angular/cli", "@angular/core"},
	{"npm", "update"},
}

// Installer runs package-manager commands in Dir.
type Installer struct {
	Runner   runner.Runner
	Dir      string
	Commands [][]string // DefaultCommands when empty
}

// Install runs every command in order and stops at the first failure.
func (i *Installer) Install(ctx context.Context) error {
	commands := i.Commands
	if len(commands) == 0 {
		commands = DefaultCommands
	}
	for _, argv := range commands {
		if len(argv) == 0 {
			continue
		}
		if err := i.run(ctx, argv[0], argv[1:]...); err != nil {
			return err
		}
	}
	return nil
}

// AddDev installs pkg as a development dependency.
func (i *Installer) AddDev(ctx context.Context, pkg string) error {
	return i.run(ctx, "npm", "install", "--save-dev", pkg)
}

func (i *Installer) run(ctx context.Context, name string, args ...string) error {
	line := runner.CommandLine(name, args)
	ctxlog.FromContext(ctx).Debug("running dependency command", "command", line, "dir", i.Dir)

	_, err := runner.Check(ctx, i.Runner, i.Dir, name, args...)
	if err == nil {
		return nil
	}

	var exitErr *runner.ExitError
	if errors.As(err, &exitErr) {
		return &DependencyInstallError{Command: line, ExitCode: exitErr.ExitCode, Stderr: exitErr.Stderr, Err: err}
	}
	return &DependencyInstallError{Command: line, ExitCode: -1, Err: err}
}
