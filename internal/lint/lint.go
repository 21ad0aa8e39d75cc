// Package lint patches a generated project's lint configuration so it extends
// a shared base configuration.
package lint

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"reflect"
	"slices"

	"github.com/ngstart-labs/ngstart/internal/ctxlog"
	"github.com/ngstart-labs/ngstart/internal/deps"
)

// MissingLintConfigError is returned when the project has no lint config file.
type MissingLintConfigError struct {
	Path string
}

func (e *MissingLintConfigError) Error() string {
	return fmt.Sprintf("lint config %s not found", e.Path)
}

// Options configures Configure.
type Options struct {
	File        string         // e.g. "tslint.json", relative to the project dir
	BasePackage string         // npm package providing the base config; skipped when empty
	Base        map[string]any // top-level keys the project inherits
}

// Result describes what Configure did.
type Result struct {
	Path    string
	Added   []string // base keys that were missing from the project file
	Changed bool
}

// Configure installs the base package, merges the base config under the
// project's lint config and writes it back. A failed install is fatal.
func Configure(ctx context.Context, inst *deps.Installer, dir string, opts Options) (*Result, error) {
	path := filepath.Join(dir, opts.File)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingLintConfigError{Path: path}
		}
		return nil, fmt.Errorf("checking lint config %s: %w", path, err)
	}

	if opts.BasePackage != "" {
		if err := inst.AddDev(ctx, opts.BasePackage); err != nil {
			return nil, err
		}
	}

	project, err := readObject(path)
	if err != nil {
		return nil, err
	}

	merged := Merge(opts.Base, project)
	result := &Result{Path: path}
	for key := range opts.Base {
		if _, ok := project[key]; !ok {
			result.Added = append(result.Added, key)
		}
	}
	slices.Sort(result.Added)

	if reflect.DeepEqual(merged, project) {
		ctxlog.FromContext(ctx).Debug("lint config already up to date", "path", path)
		return result, nil
	}

	if err := writeObject(path, merged); err != nil {
		return nil, err
	}
	result.Changed = true
	return result, nil
}

// Merge returns base overlaid with project: a shallow, top-level merge in
// which the project's own keys win. Neither input is modified.
func Merge(base, project map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(project))
	maps.Copy(merged, base)
	maps.Copy(merged, project)
	return merged
}

func readObject(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lint config %s: %w", path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("parsing lint config %s: %w", path, err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("lint config %s must contain a JSON object", path)
	}
	return obj, nil
}

func writeObject(path string, obj map[string]any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(obj); err != nil {
		return fmt.Errorf("encoding lint config: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("writing lint config %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing lint config %s: %w", path, err)
	}
	return nil
}
