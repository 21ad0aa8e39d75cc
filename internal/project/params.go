// Package project resolves command-line options into the immutable parameter
// set shared by every provisioning stage.
package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ngstart-labs/ngstart/internal/config"
)

// Params is built once by Resolve and never mutated afterwards.
type Params struct {
	Name          string // destination directory and name placeholder value
	Prefix        string // prefix placeholder value
	Template      string // git URL or path of the boilerplate
	LintEnabled   bool
	CommitMessage string
}

// Options are the raw values collected from flags.
type Options struct {
	Name          string
	Prefix        string
	Template      string
	NoLinter      bool
	CommitMessage string
}

// UsageError reports a missing or malformed command-line argument.
type UsageError struct {
	Flag   string
	Reason string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("--%s %s", e.Flag, e.Reason)
}

// Resolve validates opts and fills omitted values from cfg.
func Resolve(opts Options, cfg *config.Config) (*Params, error) {
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		return nil, &UsageError{Flag: "name", Reason: "is required"}
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return nil, &UsageError{Flag: "name", Reason: fmt.Sprintf("must be a single directory name, got %q", name)}
	}

	prefix := strings.TrimSpace(opts.Prefix)
	if prefix == "" {
		return nil, &UsageError{Flag: "prefix", Reason: "is required"}
	}

	template := strings.TrimSpace(opts.Template)
	if template == "" {
		template = cfg.TemplateURL
	}
	if template == "" {
		return nil, &UsageError{Flag: "template", Reason: "is required when no default template_url is configured"}
	}

	message := strings.TrimSpace(opts.CommitMessage)
	if message == "" {
		message = cfg.CommitMessage
	}

	return &Params{
		Name:          name,
		Prefix:        prefix,
		Template:      template,
		LintEnabled:   !opts.NoLinter,
		CommitMessage: message,
	}, nil
}
