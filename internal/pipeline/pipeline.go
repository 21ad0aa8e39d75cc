// Package pipeline drives the provisioning stages in order: fetch, validate,
// rewrite, lint, install, git. Each stage runs only after the previous one
// succeeded; the project directory is the only shared state.
package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/ngstart-labs/ngstart/internal/boilerplate"
	"github.com/ngstart-labs/ngstart/internal/config"
	"github.com/ngstart-labs/ngstart/internal/console"
	"github.com/ngstart-labs/ngstart/internal/ctxlog"
	"github.com/ngstart-labs/ngstart/internal/deps"
	"github.com/ngstart-labs/ngstart/internal/gitinit"
	"github.com/ngstart-labs/ngstart/internal/lint"
	"github.com/ngstart-labs/ngstart/internal/project"
	"github.com/ngstart-labs/ngstart/internal/runner"
	"github.com/ngstart-labs/ngstart/internal/scaffold"
)

// Stage names used in StageError and log records.
const (
	StageFetch    = "fetch"
	StageValidate = "validate"
	StageRewrite  = "rewrite"
	StageLint     = "lint"
	StageInstall  = "install"
	StageGit      = "git"
)

// Pipeline provisions one project per Run call.
type Pipeline struct {
	cfg     *config.Config
	runner  runner.Runner
	workDir string
	out     io.Writer
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithWorkDir sets the parent directory the project is created in.
// Defaults to the process working directory.
func WithWorkDir(dir string) Option {
	return func(p *Pipeline) { p.workDir = dir }
}

// WithOutput sets where progress lines are written. Defaults to io.Discard.
func WithOutput(w io.Writer) Option {
	return func(p *Pipeline) { p.out = w }
}

// New returns a Pipeline using cfg for every tunable and r for every
// external command.
func New(cfg *config.Config, r runner.Runner, opts ...Option) *Pipeline {
	p := &Pipeline{cfg: cfg, runner: r, out: io.Discard}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Result describes how far a Run got.
type Result struct {
	Dir     string
	State   State
	Rewrite *scaffold.Result
	Lint    *lint.Result // nil when linting was disabled
}

// Run provisions params.Name under the work directory. The returned Result is
// never nil; on failure its State tells where the pipeline stopped and the
// error is a *StageError.
func (p *Pipeline) Run(ctx context.Context, params *project.Params) (*Result, error) {
	workDir := p.workDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return &Result{State: Failed}, &StageError{Stage: StageFetch, Dir: params.Name, Err: err}
		}
		workDir = wd
	}

	dir := filepath.Join(workDir, params.Name)
	res := &Result{Dir: dir, State: Start}
	log := ctxlog.FromContext(ctx).With("dir", dir)
	con := console.New(p.out)

	log.Debug("provisioning project", "root", workDir, "template", params.Template)

	// fail records a stage failure. Only failures before the tree has been
	// rewritten move the machine to Failed.
	fail := func(stage string, err error) (*Result, error) {
		switch res.State {
		case Start, Fetched, Validated:
			res.State = Failed
		}
		con.Failed("%s", stage)
		log.Debug("stage failed", "stage", stage, "state", res.State, "error", err)
		return res, &StageError{Stage: stage, Dir: params.Name, Err: err}
	}
	advance := func(to State) {
		log.Debug("stage complete", "from", res.State, "to", to)
		res.State = to
	}

	// Start → Fetched
	err := boilerplate.Fetch(ctx, p.runner, params.Template, dir, boilerplate.FetchOptions{
		Shallow:       p.cfg.ShallowClone,
		MinGitVersion: p.cfg.MinGitVersion,
	})
	if err != nil {
		return fail(StageFetch, err)
	}
	advance(Fetched)
	con.Done("Cloned %s into %s", params.Template, params.Name)

	// Fetched → Validated
	if err := boilerplate.Validate(dir, p.cfg.MarkerFile); err != nil {
		return fail(StageValidate, err)
	}
	advance(Validated)
	con.Done("Found %s", p.cfg.MarkerFile)

	// Validated → Rewritten
	rewrite, err := scaffold.Replace(ctx, dir, []scaffold.Substitution{
		{Token: p.cfg.NamePlaceholder, Value: params.Name},
		{Token: p.cfg.PrefixPlaceholder, Value: params.Prefix},
	}, p.cfg.IgnoredPaths)
	res.Rewrite = rewrite
	if err != nil {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			log.Warn("could not remove project directory after failed rewrite", "error", rmErr)
		}
		return fail(StageRewrite, err)
	}
	advance(Rewritten)
	con.Done("Replaced placeholders in %d file(s)", len(rewrite.Files))

	installer := &deps.Installer{Runner: p.runner, Dir: dir, Commands: p.cfg.InstallCommands}

	// Rewritten → Linted
	if params.LintEnabled {
		lintRes, err := lint.Configure(ctx, installer, dir, lint.Options{
			File:        p.cfg.LintConfigFile,
			BasePackage: p.cfg.LintBasePackage,
			Base:        p.cfg.LintBase,
		})
		if err != nil {
			return fail(StageLint, err)
		}
		res.Lint = lintRes
		con.Done("Configured %s", p.cfg.LintConfigFile)
	} else {
		con.Skipped("Lint configuration (--no-linter)")
	}
	advance(Linted)

	// Linted → DepsInstalled
	if err := installer.Install(ctx); err != nil {
		return fail(StageInstall, err)
	}
	advance(DepsInstalled)
	con.Done("Installed dependencies")

	// DepsInstalled → GitReady
	if err := gitinit.Init(ctx, p.runner, dir, params.CommitMessage); err != nil {
		return fail(StageGit, err)
	}
	advance(GitReady)
	con.Done("Initialized git repository")

	con.Printf("\nProject %s is ready at %s\n", params.Name, dir)
	return res, nil
}
