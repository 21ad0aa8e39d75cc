package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/ngstart-labs/ngstart/internal/branding"
	"github.com/ngstart-labs/ngstart/internal/config"
	"github.com/ngstart-labs/ngstart/internal/ctxlog"
	"github.com/ngstart-labs/ngstart/internal/pipeline"
	"github.com/ngstart-labs/ngstart/internal/project"
	"github.com/ngstart-labs/ngstart/internal/runner"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	flagName     string
	flagPrefix   string
	flagTemplate string
	flagMessage  string
	flagNoLinter bool
	flagEnvFile  string
	flagConfig   string
	flagVerbose  bool
)

// newRunner builds the runner for external commands. Tests replace it.
var newRunner = func(verbose bool, stderr io.Writer) runner.Runner {
	r := &runner.Exec{}
	if verbose {
		r.Stdout = stderr
		r.Stderr = stderr
	}
	return r
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName() + " --name <name> --prefix <prefix>",
	Short: branding.Description(),
	Long: branding.DisplayName() + ` clones an Angular boilerplate, checks it really is an Angular
project, replaces the name and prefix placeholders, extends the lint
configuration, installs dependencies and starts a fresh git history.

Examples:
  ngstart --name demo --prefix dm
  ngstart -n shop -p sh --template git@github.com:acme/ng-boilerplate.git --no-linter`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if flagEnvFile == "" {
			return nil
		}
		if err := godotenv.Load(flagEnvFile); err != nil {
			return fmt.Errorf("loading env file %s: %w", flagEnvFile, err)
		}
		return nil
	},
	RunE: runCreate,
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&flagName, "name", "n", "", "Project and directory name (required)")
	f.StringVarP(&flagPrefix, "prefix", "p", "", "Component prefix (required)")
	f.StringVarP(&flagTemplate, "template", "t", "", "Boilerplate git URL (default: template_url from config)")
	f.StringVarP(&flagMessage, "message", "m", "", "Initial commit message (default: commit_message from config)")
	f.BoolVar(&flagNoLinter, "no-linter", false, "Skip lint configuration")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Config file (default: ~/.ngstart/config.yaml)")
	pf.StringVar(&flagEnvFile, "env-file", "", "Load environment variables (e.g. git or npm credentials) from a dotenv file")
	pf.BoolVar(&flagVerbose, "verbose", false, "Debug logging and live output of git and npm")

	rootCmd.SetVersionTemplate("{{.Name}} version {{.Version}}\n")
}

func runCreate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	params, err := project.Resolve(project.Options{
		Name:          flagName,
		Prefix:        flagPrefix,
		Template:      flagTemplate,
		NoLinter:      flagNoLinter,
		CommitMessage: flagMessage,
	}, cfg)
	if err != nil {
		return err
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}

	logger := ctxlog.New(cmd.ErrOrStderr(), flagVerbose)
	ctx := ctxlog.WithLogger(cmd.Context(), logger)

	p := pipeline.New(cfg, newRunner(flagVerbose, cmd.ErrOrStderr()),
		pipeline.WithWorkDir(wd),
		pipeline.WithOutput(cmd.OutOrStdout()),
	)
	res, err := p.Run(ctx, params)
	if err != nil && res != nil && !res.State.Terminal() {
		fmt.Fprintf(cmd.ErrOrStderr(), "Project kept at %s after reaching %s; fix the error and finish by hand.\n", res.Dir, res.State)
	}
	return err
}

// Execute runs the root command with build info injected via ldflags.
// Errors are printed to stderr; the caller only has to pick the exit code.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	rootCmd.Version = version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		var usageErr *project.UsageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", branding.CLIName())
		}
	}
	return err
}
