// Package cmd provides Cobra CLI commands for omni.
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/omni/internal/cli"
	"github.com/bnema/omni/internal/domain/build"
	"github.com/bnema/omni/internal/domain/entity"
)

// annotationNoApp marks commands that must run before config is loaded.
const annotationNoApp = "omni/no-app"

var (
	app       *cli.App
	appOpts   cli.Options
	buildInfo build.Info
	rootCmd   = &cobra.Command{
		Use:   "omni",
		Short: "Suspend tabs, save sessions and search everything open or saved",
		Long: `Omni - a tab and session manager for Chromium-based browsers.

Omni drives a browser over the DevTools protocol to:
  - Suspend tabs to a lightweight placeholder and restore them later
  - Save windows as named sessions, kept in a local and a synced tier
  - Mirror sessions into a bookmark-style backup and recover from it
  - Search open tabs, suspended tabs and saved sessions at once
  - Export and import sessions as JSON, YAML or Markdown

Point browser.control_url at a running browser's DevTools endpoint,
or leave it empty to launch one. Run 'omni daemon' to keep orphan
sweeping and reconciliation running in the background.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion", "gen-docs", "version":
				return nil
			}
			if cmd.Annotations[annotationNoApp] == "true" {
				return nil
			}

			var err error
			app, err = cli.NewApp(appOpts)
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			// Set build info from main.go
			app.BuildInfo = buildInfo
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
				app = nil
			}
		},
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
}

func requireApp() (*cli.App, error) {
	a := GetApp()
	if a == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	return a, nil
}

func writeLine(w io.Writer, s string) {
	_, _ = fmt.Fprintln(w, s)
}

// findSessionByIDOrSuffix finds a session by exact ID or unique suffix.
// Session ids are long; users typically type the last few characters.
func findSessionByIDOrSuffix(sessions []entity.Session, idOrSuffix string) (entity.Session, error) {
	var matches []entity.Session
	for _, s := range sessions {
		if string(s.ID) == idOrSuffix {
			return s, nil
		}
		if strings.HasSuffix(string(s.ID), idOrSuffix) {
			matches = append(matches, s)
		}
	}

	switch len(matches) {
	case 0:
		return entity.Session{}, fmt.Errorf("%w: no session matching '%s'", entity.ErrNotFound, idOrSuffix)
	case 1:
		return matches[0], nil
	default:
		return entity.Session{}, fmt.Errorf("ambiguous session ID '%s' matches %d sessions - be more specific", idOrSuffix, len(matches))
	}
}
