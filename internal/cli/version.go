package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/ngstart-labs/ngstart/internal/branding"
	"github.com/spf13/cobra"
)

var (
	versionShort bool
	versionJSON  bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version info as JSON")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(out, buildVersion)
			return nil
		}

		if versionJSON {
			info := map[string]any{
				"version": buildVersion,
				"commit":  buildCommit,
				"date":    buildDate,
				"release": isRelease(buildVersion),
				"source":  "https://github.com/" + branding.GitHubRepo(),
			}
			data, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling version info: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintf(out, "%s version %s (commit: %s, built: %s)\n", branding.CLIName(), buildVersion, buildCommit, buildDate)
		if isRelease(buildVersion) {
			fmt.Fprintf(out, "Release notes: https://github.com/%s/releases/tag/%s\n", branding.GitHubRepo(), buildVersion)
		}
		return nil
	},
}

// isRelease reports whether v is a tagged semver release rather than a dev
// or prerelease build.
func isRelease(v string) bool {
	sv, err := semver.StrictNewVersion(strings.TrimPrefix(v, "v"))
	return err == nil && sv.Prerelease() == ""
}
