package cli

import (
	"github.com/ngstart-labs/ngstart/internal/config"
	"github.com/ngstart-labs/ngstart/internal/toolchain"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that git, node and npm are installed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return err
		}
		return toolchain.Check(cmd.Context(), newRunner(false, cmd.ErrOrStderr()), cmd.OutOrStdout(), cfg.MinGitVersion)
	},
}
