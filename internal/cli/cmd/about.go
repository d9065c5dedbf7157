package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/omni/internal/cli/styles"
)

var aboutCmd = &cobra.Command{
	Use:   "about",
	Short: "Show version and build information",
	Long:  `Display version and build info, the storage files in use, the browser endpoint and the placeholder page.`,
	Args:  cobra.NoArgs,
	RunE:  runAbout,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "omni %s (%s, built %s, %s)\n",
			buildInfo.Version, buildInfo.Commit, buildInfo.BuildDate, buildInfo.GoVersion)
	},
}

func init() {
	rootCmd.AddCommand(aboutCmd)
	rootCmd.AddCommand(versionCmd)
}

func runAbout(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	writeLine(cmd.OutOrStdout(), styles.NewAboutRenderer(a.Theme).Render(styles.AboutInfo{
		Build:          a.BuildInfo,
		DatabasePath:   a.Config.Database.Path,
		SyncedPath:     a.Config.Synced.Path,
		ControlURL:     a.Config.Browser.ControlURL,
		PlaceholderURL: a.Config.Suspension.PlaceholderURL,
	}))
	return nil
}
