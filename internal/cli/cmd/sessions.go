package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bnema/omni/internal/application/usecase"
	"github.com/bnema/omni/internal/cli/styles"
	"github.com/bnema/omni/internal/domain/entity"
	"github.com/bnema/omni/internal/infrastructure/export"
)

const (
	defaultSessionsLimit = 20
	exportFilePerm       = 0o644
)

var (
	sessionsJSON   bool
	sessionsLimit  int
	saveWindowID   int
	restoreURLs    []string
	exportOutput   string
	exportFormat   string
	exportCompress bool
	importReplace  bool
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage saved sessions",
	Long: `Save, restore, list and move saved sessions.

Sessions live in two tiers: the local tier holds every session, the
synced tier holds a size-bounded projection of the most recent ones.
Run without arguments to list sessions.`,
	RunE: runSessionsList,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}

// sessions list
var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved sessions",
	Long:  `List saved sessions, most recent first, with their tab and window counts.`,
	RunE:  runSessionsList,
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsListCmd.Flags().BoolVar(&sessionsJSON, "json", false, "output as JSON")
	sessionsListCmd.Flags().IntVar(&sessionsLimit, "limit", defaultSessionsLimit, "maximum sessions to show")
}

func runSessionsList(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	if err := a.InitSessions(); err != nil {
		return err
	}

	sessions, err := a.Sessions.List(a.Ctx())
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	if sessionsJSON {
		return writeJSON(cmd.OutOrStdout(), sessions)
	}
	writeLine(cmd.OutOrStdout(), styles.NewSessionsCLIRenderer(a.Theme).RenderList(sessions, sessionsLimit))
	return nil
}

// sessions save [name]
var sessionsSaveCmd = &cobra.Command{
	Use:   "save [name]",
	Short: "Save open windows as a session",
	Long: `Capture the open tabs of every window, or of one window with --window,
into a new session. Suspended tabs are saved with their original URL.
Tabs matching the deny patterns are skipped.

Example:
  omni sessions save "Research"
  omni sessions save --window 2`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSessionsSave,
}

func init() {
	sessionsCmd.AddCommand(sessionsSaveCmd)
	sessionsSaveCmd.Flags().IntVar(&saveWindowID, "window", 0, "only save this window")
}

func runSessionsSave(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	uc, err := a.SaveSession()
	if err != nil {
		return err
	}

	input := usecase.SaveSessionInput{WindowID: saveWindowID}
	if len(args) == 1 {
		input.Name = args[0]
	}
	out, err := uc.Execute(a.Ctx(), input)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	writeLine(cmd.OutOrStdout(), styles.NewSessionsCLIRenderer(a.Theme).RenderSaved(out))
	return nil
}

// sessions restore <id>
var sessionsRestoreCmd = &cobra.Command{
	Use:   "restore <session-id>",
	Short: "Restore a saved session",
	Long: `Reopen a saved session, one browser window per saved window.

You can use a short suffix of the session ID as long as it's unique.
With --url, only the matching tabs are reopened.

Example:
  omni sessions restore session_01hx3k6y0c9v2m8q4t7w1e5r6n
  omni sessions restore 5r6n --url https://go.dev/doc/`,
	Args: cobra.ExactArgs(1),
	RunE: runSessionsRestore,
}

func init() {
	sessionsCmd.AddCommand(sessionsRestoreCmd)
	sessionsRestoreCmd.Flags().StringArrayVar(&restoreURLs, "url", nil, "only restore tabs with this URL (repeatable)")
}

func runSessionsRestore(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	uc, err := a.RestoreSession()
	if err != nil {
		return err
	}
	session, err := resolveSession(a.Ctx(), a.Sessions, args[0])
	if err != nil {
		return err
	}

	out, err := uc.Execute(a.Ctx(), usecase.RestoreSessionInput{SessionID: session.ID, URLs: restoreURLs})
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	writeLine(cmd.OutOrStdout(), styles.NewSessionsCLIRenderer(a.Theme).RenderRestored(out))
	return nil
}

// sessions delete <id>
var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a saved session",
	Long: `Delete a saved session from both tiers.

You can use a short suffix of the session ID as long as it's unique.`,
	Args: cobra.ExactArgs(1),
	RunE: runSessionsDelete,
}

func init() {
	sessionsCmd.AddCommand(sessionsDeleteCmd)
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	if err := a.InitSessions(); err != nil {
		return err
	}
	session, err := resolveSession(a.Ctx(), a.Sessions, args[0])
	if err != nil {
		return err
	}

	remaining, err := a.Sessions.Remove(a.Ctx(), session.ID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	writeLine(cmd.OutOrStdout(), styles.NewSessionsCLIRenderer(a.Theme).RenderDeleted(session.ID, len(remaining)))
	return nil
}

// sessions convert
var sessionsConvertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Save every open tab as a session, then close them",
	Long: `Capture every window into one session named "Converted Tabs" and close the
captured tabs. If the session cannot be stored, nothing is closed.`,
	Args: cobra.NoArgs,
	RunE: runSessionsConvert,
}

func init() {
	sessionsCmd.AddCommand(sessionsConvertCmd)
}

func runSessionsConvert(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	uc, err := a.ConvertAllTabs()
	if err != nil {
		return err
	}
	out, err := uc.Execute(a.Ctx())
	if err != nil {
		return fmt.Errorf("convert tabs: %w", err)
	}
	writeLine(cmd.OutOrStdout(), styles.NewSessionsCLIRenderer(a.Theme).RenderConverted(out))
	return nil
}

// sessions export
var sessionsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every session to a file or stdout",
	Long: `Write all sessions as an export document.

The format is taken from --format or from the output file extension
(.json, .yaml, .md). A .zst suffix or --compress writes zstd. Markdown
is for reading only and cannot be imported back.

Example:
  omni sessions export -o sessions.json
  omni sessions export -o backup.yaml.zst
  omni sessions export --format md > sessions.md`,
	Args: cobra.NoArgs,
	RunE: runSessionsExport,
}

func init() {
	sessionsCmd.AddCommand(sessionsExportCmd)
	sessionsExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	sessionsExportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "json, yaml or md")
	sessionsExportCmd.Flags().BoolVar(&exportCompress, "compress", false, "zstd-compress the output")
}

func runSessionsExport(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	if err := a.InitSessions(); err != nil {
		return err
	}

	format, compressed := exportFormat, exportCompress
	toFile := exportOutput != "" && exportOutput != "-"
	if toFile {
		guessed, zst := export.FormatFromPath(exportOutput)
		if format == "" {
			format = guessed
		}
		compressed = compressed || zst
	}
	exp, err := export.NewExporter(format)
	if err != nil {
		return err
	}

	doc, err := a.Sessions.ExportAll(a.Ctx())
	if err != nil {
		return fmt.Errorf("export sessions: %w", err)
	}

	if !toFile {
		return export.Write(cmd.OutOrStdout(), exp, doc, compressed)
	}

	if err := os.MkdirAll(filepath.Dir(exportOutput), dirPerm); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.OpenFile(exportOutput, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, exportFilePerm)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	if err := export.Write(f, exp, doc, compressed); err != nil {
		_ = f.Close()
		return fmt.Errorf("write export: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	writeLine(cmd.OutOrStdout(), styles.NewSessionsCLIRenderer(a.Theme).RenderExported(len(doc.Sessions), exportOutput))
	return nil
}

// sessions import <file>
var sessionsImportCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Import sessions from an export file",
	Long: `Read a JSON or YAML export document, optionally zstd-compressed, and
merge its sessions into the store. Sessions whose id already exists are
skipped. With --replace the stored list is replaced instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runSessionsImport,
}

func init() {
	sessionsCmd.AddCommand(sessionsImportCmd)
	sessionsImportCmd.Flags().BoolVar(&importReplace, "replace", false, "replace stored sessions instead of merging")
}

func runSessionsImport(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	if err := a.InitSessions(); err != nil {
		return err
	}

	var r io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open import file: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	data, err := export.ReadAll(r)
	if err != nil {
		return err
	}
	res, err := a.Sessions.ImportAll(a.Ctx(), data, !importReplace)
	if err != nil {
		return fmt.Errorf("import sessions: %w", err)
	}
	writeLine(cmd.OutOrStdout(), styles.NewSessionsCLIRenderer(a.Theme).RenderImported(res))
	return nil
}

// sessions recover
var sessionsRecoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "Rebuild sessions from the bookmark backup",
	Long: `When both tiers are empty, rebuild the session list from the bookmark
backup folder. Does nothing if any session is stored.`,
	Args: cobra.NoArgs,
	RunE: runSessionsRecover,
}

func init() {
	sessionsCmd.AddCommand(sessionsRecoverCmd)
}

func runSessionsRecover(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	res, err := a.Sessions.RecoverIfEmpty(a.Ctx())
	if err != nil {
		return fmt.Errorf("recover sessions: %w", err)
	}
	writeLine(cmd.OutOrStdout(), styles.NewSessionsCLIRenderer(a.Theme).RenderRecovery(res))
	return nil
}

// sessions backup on|off|clean
var sessionsBackupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Control the bookmark backup of sessions",
}

var sessionsBackupOnCmd = &cobra.Command{
	Use:   "on",
	Short: "Mirror sessions into the bookmark backup and write it now",
	Args:  cobra.NoArgs,
	RunE:  func(cmd *cobra.Command, _ []string) error { return runSessionsBackupToggle(cmd, true) },
}

var sessionsBackupOffCmd = &cobra.Command{
	Use:   "off",
	Short: "Stop mirroring sessions into the bookmark backup",
	Args:  cobra.NoArgs,
	RunE:  func(cmd *cobra.Command, _ []string) error { return runSessionsBackupToggle(cmd, false) },
}

var sessionsBackupCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the bookmark backup folder",
	Long:  `Remove the bookmark backup folder. Refused while mirroring is enabled.`,
	Args:  cobra.NoArgs,
	RunE:  runSessionsBackupClean,
}

func init() {
	sessionsCmd.AddCommand(sessionsBackupCmd)
	sessionsBackupCmd.AddCommand(sessionsBackupOnCmd, sessionsBackupOffCmd, sessionsBackupCleanCmd)
}

func runSessionsBackupToggle(cmd *cobra.Command, enabled bool) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	if err := a.InitSessions(); err != nil {
		return err
	}
	if err := a.Sessions.SetMirrorEnabled(a.Ctx(), enabled); err != nil {
		return fmt.Errorf("update backup setting: %w", err)
	}
	stats, err := a.Sessions.Stats(a.Ctx())
	if err != nil {
		return err
	}
	writeLine(cmd.OutOrStdout(), styles.NewSessionsCLIRenderer(a.Theme).RenderStats(stats))
	return nil
}

func runSessionsBackupClean(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	res, err := a.Sessions.CleanMirror(a.Ctx())
	if err != nil {
		return fmt.Errorf("clean backup: %w", err)
	}
	writeLine(cmd.OutOrStdout(), styles.NewSessionsCLIRenderer(a.Theme).RenderMirrorCleaned(res))
	return nil
}

// sessions stats
var sessionsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show session counts and storage usage per tier",
	Args:  cobra.NoArgs,
	RunE:  runSessionsStats,
}

func init() {
	sessionsCmd.AddCommand(sessionsStatsCmd)
	sessionsStatsCmd.Flags().BoolVar(&sessionsJSON, "json", false, "output as JSON")
}

func runSessionsStats(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	if err := a.InitSessions(); err != nil {
		return err
	}
	stats, err := a.Sessions.Stats(a.Ctx())
	if err != nil {
		return fmt.Errorf("session stats: %w", err)
	}
	if sessionsJSON {
		return writeJSON(cmd.OutOrStdout(), stats)
	}
	writeLine(cmd.OutOrStdout(), styles.NewSessionsCLIRenderer(a.Theme).RenderStats(stats))
	return nil
}

// sessions schema
var sessionsSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the export document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		data, err := export.Schema()
		if err != nil {
			return err
		}
		writeLine(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsSchemaCmd)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func resolveSession(ctx context.Context, store *usecase.SessionStore, idOrSuffix string) (entity.Session, error) {
	sessions, err := store.List(ctx)
	if err != nil {
		return entity.Session{}, fmt.Errorf("list sessions: %w", err)
	}
	return findSessionByIDOrSuffix(sessions, idOrSuffix)
}
