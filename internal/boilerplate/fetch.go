package boilerplate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ngstart-labs/ngstart/internal/ctxlog"
	"github.com/ngstart-labs/ngstart/internal/runner"
	"github.com/ngstart-labs/ngstart/internal/toolchain"
)

// DestinationExistsError is returned when the clone target is already on disk.
// Path is the full target; the message names only the folder.
type DestinationExistsError struct {
	Path string
}

func (e *DestinationExistsError) Error() string {
	return fmt.Sprintf("Folder %s already exists.", filepath.Base(e.Path))
}

// FetchError wraps a failed clone.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching template %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// FetchOptions tunes the clone.
type FetchOptions struct {
	// Shallow clones with --depth=1. The history is discarded later anyway.
	Shallow bool

	// MinGitVersion, when set, is checked before cloning.
	MinGitVersion string
}

// Fetch clones source into dest. It refuses to touch an existing dest and
// removes whatever a failed clone left behind.
func Fetch(ctx context.Context, r runner.Runner, source, dest string, opts FetchOptions) error {
	if _, err := os.Lstat(dest); err == nil {
		return &DestinationExistsError{Path: dest}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking destination %s: %w", dest, err)
	}

	if opts.MinGitVersion != "" {
		if err := toolchain.RequireGit(ctx, r, opts.MinGitVersion); err != nil {
			return &FetchError{Source: source, Err: err}
		}
	}

	args := []string{"clone"}
	if opts.Shallow {
		args = append(args, "--depth=1")
	}
	args = append(args, source, dest)

	if _, err := runner.Check(ctx, r, "", "git", args...); err != nil {
		if rmErr := os.RemoveAll(dest); rmErr != nil {
			ctxlog.FromContext(ctx).Warn("could not remove partial clone", "dir", dest, "error", rmErr)
		}
		return &FetchError{Source: source, Err: err}
	}
	return nil
}
