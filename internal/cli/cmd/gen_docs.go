package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/bnema/omni/internal/infrastructure/config"
)

const dirPerm = 0o755

// docFormat is one output of `omni gen-docs`.
type docFormat struct {
	ext        string
	defaultDir func() (string, error)
	write      func(root *cobra.Command, dir string) error
}

var docFormats = map[string]docFormat{
	"man": {
		ext:        ".1",
		defaultDir: manDir,
		write: func(root *cobra.Command, dir string) error {
			now := time.Now()
			return doc.GenManTree(root, &doc.GenManHeader{
				Title:   "OMNI",
				Section: "1",
				Source:  "omni " + buildInfo.Version,
				Manual:  "Omni Tab and Session Manager",
				Date:    &now,
			}, dir)
		},
	},
	"markdown": {
		ext:        ".md",
		defaultDir: func() (string, error) { return "./docs", nil },
		write:      doc.GenMarkdownTree,
	},
}

var (
	genDocsOutputDir string
	genDocsFormat    string
)

var genDocsCmd = &cobra.Command{
	Use:   "gen-docs",
	Short: "Write man pages or markdown for every omni command",
	Long: `Write reference docs for the omni command tree.

Formats:
  man       groff pages, installed to $XDG_DATA_HOME/man/man1 so 'man omni' works
  markdown  one file per command, written to ./docs

Run 'mandb' afterwards if your man index is not refreshed automatically.`,
	Example: `  omni gen-docs
  omni gen-docs --format markdown
  omni gen-docs --output ./man`,
	Args: cobra.NoArgs,
	RunE: runGenDocs,
}

func init() {
	rootCmd.AddCommand(genDocsCmd)
	genDocsCmd.Flags().StringVarP(&genDocsOutputDir, "output", "o", "", "Output directory (defaults per format)")
	genDocsCmd.Flags().StringVarP(&genDocsFormat, "format", "f", "man", "Output format: "+strings.Join(docFormatNames(), ", "))
}

func runGenDocs(cmd *cobra.Command, _ []string) error {
	return writeDocs(cmd.OutOrStdout(), cmd.Root(), genDocsFormat, genDocsOutputDir)
}

func writeDocs(w io.Writer, root *cobra.Command, format, dir string) error {
	f, ok := docFormats[format]
	if !ok {
		return fmt.Errorf("unsupported format %q (use: %s)", format, strings.Join(docFormatNames(), ", "))
	}
	if dir == "" {
		var err error
		if dir, err = f.defaultDir(); err != nil {
			return fmt.Errorf("resolve %s directory: %w", format, err)
		}
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	// Reproducible output.
	root.DisableAutoGenTag = true
	if err := f.write(root, dir); err != nil {
		return fmt.Errorf("generate %s docs: %w", format, err)
	}

	_, _ = fmt.Fprintf(w, "Wrote %s docs to %s\n", format, dir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == f.ext {
			_, _ = fmt.Fprintf(w, "  %s\n", e.Name())
		}
	}
	return nil
}

// manDir maps $XDG_DATA_HOME/omni to $XDG_DATA_HOME/man/man1.
func manDir() (string, error) {
	dataDir, err := config.GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(dataDir), "man", "man1"), nil
}

func docFormatNames() []string {
	names := make([]string, 0, len(docFormats))
	for name := range docFormats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
