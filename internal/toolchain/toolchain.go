// Package toolchain checks that the external programs the pipeline drives
// (git, node, npm) are installed, and that git is recent enough.
package toolchain

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/ngstart-labs/ngstart/internal/runner"
)

// ParseGitVersion extracts the semantic version from `git --version` output,
// e.g. "git version 2.39.3 (Apple Git-145)" or "git version 2.45.1.windows.1".
func ParseGitVersion(output string) (*semver.Version, error) {
	fields := strings.Fields(strings.TrimSpace(output))
	if len(fields) < 3 || fields[0] != "git" || fields[1] != "version" {
		return nil, fmt.Errorf("unexpected git --version output %q", strings.TrimSpace(output))
	}

	parts := strings.Split(fields[2], ".")
	if len(parts) > 3 {
		parts = parts[:3]
	}
	v, err := semver.NewVersion(strings.Join(parts, "."))
	if err != nil {
		return nil, fmt.Errorf("parsing git version %q: %w", fields[2], err)
	}
	return v, nil
}

// GitVersion runs `git --version` and parses the result.
func GitVersion(ctx context.Context, r runner.Runner) (*semver.Version, error) {
	out, err := runner.Check(ctx, r, "", "git", "--version")
	if err != nil {
		return nil, fmt.Errorf("git is required: %w", err)
	}
	return ParseGitVersion(out.Stdout)
}

// RequireGit fails unless git is installed at version min or later. An empty
// min only checks that git runs.
func RequireGit(ctx context.Context, r runner.Runner, min string) error {
	v, err := GitVersion(ctx, r)
	if err != nil {
		return err
	}
	if min == "" {
		return nil
	}
	minVersion, err := semver.NewVersion(strings.TrimPrefix(min, "v"))
	if err != nil {
		return fmt.Errorf("parsing minimum git version %q: %w", min, err)
	}
	if v.LessThan(minVersion) {
		return fmt.Errorf("git %s is older than the required %s", v, minVersion)
	}
	return nil
}

// Tools lists the programs Check looks for, with the argument that makes each
// print its version.
var Tools = []struct {
	Name string
	Arg  string
}{
	{"git", "--version"},
	{"node", "--version"},
	{"npm", "--version"},
}

// Check prints one status line per tool to w and returns an error naming the
// missing tools, if any.
func Check(ctx context.Context, r runner.Runner, w io.Writer, minGit string) error {
	fmt.Fprintln(w, "Toolchain check:")

	var missing []string
	for _, tool := range Tools {
		out, err := runner.Check(ctx, r, "", tool.Name, tool.Arg)
		if err != nil {
			fmt.Fprintf(w, "  [MISS] %s: %v\n", tool.Name, err)
			missing = append(missing, tool.Name)
			continue
		}
		fmt.Fprintf(w, "  [ OK ] %s %s\n", tool.Name, firstLine(out.Stdout))
	}

	if len(missing) == 0 {
		if err := RequireGit(ctx, r, minGit); err != nil {
			fmt.Fprintf(w, "  [WARN] %v\n", err)
			return err
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
	}
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
