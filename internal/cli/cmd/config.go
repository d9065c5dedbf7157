package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/omni/internal/cli/styles"
	"github.com/bnema/omni/internal/infrastructure/config"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and manage the configuration file",
	Long: `Omni reads $XDG_CONFIG_HOME/omni/config.toml. Every key can be
overridden with an OMNI_ environment variable, e.g.
OMNI_BROWSER_CONTROL_URL or OMNI_LOG_LEVEL.`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// config path
var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config, database and synced file locations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		configFile := a.Manager.GetConfigFile()
		if configFile == "" {
			if configFile, err = config.GetConfigFile(); err != nil {
				return err
			}
		}
		writeLine(cmd.OutOrStdout(), styles.NewConfigRenderer(a.Theme).
			RenderConfigInfo(configFile, a.Config.Database.Path, a.Config.Synced.Path))
		return nil
	},
}

// config init
var configInitCmd = &cobra.Command{
	Use:         "init",
	Short:       "Write the default configuration file",
	Long:        `Write config.toml with every default value. An existing file is kept unless --force is given.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationNoApp: "true"},
	RunE:        runConfigInit,
}

// config schema
var configSchemaCmd = &cobra.Command{
	Use:         "schema",
	Short:       "Write config.schema.json next to the config file",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationNoApp: "true"},
	RunE: func(cmd *cobra.Command, _ []string) error {
		r := styles.NewConfigRenderer(styles.NewTheme())
		path, err := config.GenerateSchemaFile()
		if err != nil {
			writeLine(cmd.ErrOrStderr(), r.RenderError(err))
			return err
		}
		writeLine(cmd.OutOrStdout(), r.RenderSchemaWritten(path))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSchemaCmd)
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing config file")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	r := styles.NewConfigRenderer(styles.NewTheme())
	path, err := config.GetConfigFile()
	if err != nil {
		return err
	}

	_, statErr := os.Stat(path)
	switch {
	case statErr == nil && !configForce:
		writeLine(cmd.OutOrStdout(), r.RenderExists(path))
		return nil
	case statErr != nil && !errors.Is(statErr, fs.ErrNotExist):
		return fmt.Errorf("stat config file: %w", statErr)
	}

	if err := config.WriteConfigOrdered(config.DefaultConfig(), path); err != nil {
		writeLine(cmd.ErrOrStderr(), r.RenderError(err))
		return err
	}
	writeLine(cmd.OutOrStdout(), r.RenderCreated(path))
	return nil
}
