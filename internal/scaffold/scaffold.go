package scaffold

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/ngstart-labs/ngstart/internal/ctxlog"
)

// Substitution replaces every occurrence of Token with Value.
type Substitution struct {
	Token string
	Value string
}

// PassResult records the outcome of one substitution pass.
type PassResult struct {
	Token     string
	Rewritten []string         // root-relative slash paths, sorted
	Failed    map[string]error // root-relative slash path → cause
}

// Result holds the outcome of Replace.
type Result struct {
	Root   string
	Files  []string // every file rewritten by any pass, sorted
	Passes []PassResult
}

// PartialRewriteError reports a pass in which some files could not be
// rewritten. Later passes were not run.
type PartialRewriteError struct {
	Token     string
	Succeeded []string
	Failed    map[string]error
}

func (e *PartialRewriteError) Error() string {
	paths := make([]string, 0, len(e.Failed))
	for p := range e.Failed {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var b strings.Builder
	fmt.Fprintf(&b, "replacing %s: %d file(s) rewritten, %d failed", e.Token, len(e.Succeeded), len(e.Failed))
	for _, p := range paths {
		fmt.Fprintf(&b, "\n  %s: %v", p, e.Failed[p])
	}
	return b.String()
}

// Replace applies subs in order across every regular file under root,
// skipping entries whose base name or root-relative path is listed in ignore.
// Pass N+1 starts only once pass N has finished the whole tree without
// failures. On a failed pass the partial Result is returned together with
// *PartialRewriteError.
func Replace(ctx context.Context, root string, subs []Substitution, ignore []string) (*Result, error) {
	result := &Result{Root: root}
	log := ctxlog.FromContext(ctx)

	for _, sub := range subs {
		if sub.Token == "" {
			return result, fmt.Errorf("substitution with empty token")
		}

		pass, err := replacePass(ctx, root, sub, ignore)
		if err != nil {
			return result, err
		}
		result.Passes = append(result.Passes, *pass)
		result.Files = mergeSorted(result.Files, pass.Rewritten)
		log.Debug("substitution pass complete", "token", sub.Token, "rewritten", len(pass.Rewritten), "failed", len(pass.Failed))

		if len(pass.Failed) > 0 {
			return result, &PartialRewriteError{
				Token:     sub.Token,
				Succeeded: pass.Rewritten,
				Failed:    pass.Failed,
			}
		}
	}

	return result, nil
}

// replacePass walks the whole tree once for a single substitution. Per-file
// errors are collected; only walk-level failures abort the pass.
func replacePass(ctx context.Context, root string, sub Substitution, ignore []string) (*PassResult, error) {
	pass := &PassResult{Token: sub.Token, Failed: map[string]error{}}
	token := []byte(sub.Token)
	value := []byte(sub.Value)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if walkErr != nil {
			if rel == "." {
				return walkErr
			}
			pass.Failed[rel] = walkErr
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if rel != "." && isIgnored(rel, d.Name(), ignore) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		changed, err := rewriteFile(path, token, value)
		if err != nil {
			pass.Failed[rel] = err
			return nil
		}
		if changed {
			pass.Rewritten = append(pass.Rewritten, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	sort.Strings(pass.Rewritten)
	return pass, nil
}

// rewriteFile replaces token in a single file, preserving its mode. Files
// without the token are left untouched.
func rewriteFile(path string, token, value []byte) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	if !bytes.Contains(data, token) {
		return false, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	if err := os.WriteFile(path, bytes.ReplaceAll(data, token, value), info.Mode().Perm()); err != nil {
		return false, err
	}
	return true, nil
}

// isIgnored matches an entry by base name ("node_modules") or by its
// root-relative slash path ("src/assets/vendor").
func isIgnored(rel, name string, ignore []string) bool {
	for _, pattern := range ignore {
		pattern = strings.Trim(filepath.ToSlash(pattern), "/")
		if pattern == name || pattern == rel {
			return true
		}
	}
	return false
}

func mergeSorted(a, b []string) []string {
	out := append(slices.Clone(a), b...)
	sort.Strings(out)
	return slices.Compact(out)
}
