package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/omni/internal/application/port"
	"github.com/bnema/omni/internal/cli/styles"
	"github.com/bnema/omni/internal/domain/entity"
)

var (
	tabsJSON     bool
	sweepMaxDays int
)

var tabsCmd = &cobra.Command{
	Use:   "tabs",
	Short: "List, suspend and restore tabs",
	Long: `Work with live tabs through the browser's DevTools endpoint.

A suspended tab shows a placeholder page until it is restored. Its
original URL, title and position are kept under a unique id that
survives browser restarts.`,
}

func init() {
	rootCmd.AddCommand(tabsCmd)
}

// tabs list
var tabsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List open tabs grouped by window",
	Args:  cobra.NoArgs,
	RunE:  runTabsList,
}

func init() {
	tabsCmd.AddCommand(tabsListCmd)
	tabsListCmd.Flags().BoolVar(&tabsJSON, "json", false, "output as JSON")
}

func runTabsList(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	tabs, err := port.ListAllTabs(a.Ctx(), a.Browser)
	if err != nil {
		return fmt.Errorf("list tabs: %w", err)
	}
	if tabsJSON {
		return writeJSON(cmd.OutOrStdout(), tabs)
	}
	writeLine(cmd.OutOrStdout(), styles.NewTabsCLIRenderer(a.Theme).RenderOpenTabs(tabs))
	return nil
}

// tabs suspend <tab-id>
var tabsSuspendCmd = &cobra.Command{
	Use:   "suspend <tab-id>",
	Short: "Replace a tab with the placeholder page",
	Long: `Suspend a tab by its browser tab id (see 'omni tabs list').

Tabs whose URL matches a deny pattern, and tabs already suspended,
are refused.`,
	Args: cobra.ExactArgs(1),
	RunE: runTabsSuspend,
}

func init() {
	tabsCmd.AddCommand(tabsSuspendCmd)
}

func runTabsSuspend(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid tab id %q: %w", args[0], err)
	}
	tracker, err := a.Tracker()
	if err != nil {
		return err
	}
	rec, err := tracker.Suspend(a.Ctx(), entity.BrowserTabID(id))
	if err != nil {
		return fmt.Errorf("suspend tab: %w", err)
	}
	writeLine(cmd.OutOrStdout(), styles.NewTabsCLIRenderer(a.Theme).RenderSuspended(rec))
	return nil
}

// tabs restore <unique-id>
var tabsRestoreCmd = &cobra.Command{
	Use:   "restore <unique-id>",
	Short: "Restore a suspended tab",
	Long: `Navigate the placeholder of a suspended tab back to its original URL.
If the placeholder was closed, the URL is reopened in a new tab.

A unique prefix of the id is enough.`,
	Args: cobra.ExactArgs(1),
	RunE: runTabsRestore,
}

func init() {
	tabsCmd.AddCommand(tabsRestoreCmd)
}

func runTabsRestore(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	tracker, err := a.Tracker()
	if err != nil {
		return err
	}
	id, err := findSuspendedByPrefix(tracker.List(), args[0])
	if err != nil {
		return err
	}
	res, err := tracker.Restore(a.Ctx(), id)
	if err != nil {
		return fmt.Errorf("restore tab: %w", err)
	}
	writeLine(cmd.OutOrStdout(), styles.NewTabsCLIRenderer(a.Theme).RenderRestored(res))
	return nil
}

// tabs suspended
var tabsSuspendedCmd = &cobra.Command{
	Use:   "suspended",
	Short: "List suspended tabs",
	Args:  cobra.NoArgs,
	RunE:  runTabsSuspended,
}

func init() {
	tabsCmd.AddCommand(tabsSuspendedCmd)
	tabsSuspendedCmd.Flags().BoolVar(&tabsJSON, "json", false, "output as JSON")
}

func runTabsSuspended(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	tracker, err := a.Tracker()
	if err != nil {
		return err
	}
	recs := tracker.List()
	if tabsJSON {
		return writeJSON(cmd.OutOrStdout(), recs)
	}
	writeLine(cmd.OutOrStdout(), styles.NewTabsCLIRenderer(a.Theme).RenderSuspendedList(recs))
	return nil
}

// tabs sweep
var tabsSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Drop suspended-tab records older than the orphan age",
	Long: `Remove records of tabs suspended longer ago than --max-age-days
(default: suspension.orphan_max_age_days). The placeholder tabs, if any
are still open, are left alone.`,
	Args: cobra.NoArgs,
	RunE: runTabsSweep,
}

func init() {
	tabsCmd.AddCommand(tabsSweepCmd)
	tabsSweepCmd.Flags().IntVar(&sweepMaxDays, "max-age-days", 0, "override the configured orphan age")
}

func runTabsSweep(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	tracker, err := a.Tracker()
	if err != nil {
		return err
	}
	days := a.Config.Suspension.OrphanMaxAgeDays
	if sweepMaxDays > 0 {
		days = sweepMaxDays
	}
	n, err := tracker.SweepOrphans(a.Ctx(), time.Duration(days)*24*time.Hour)
	if err != nil {
		return fmt.Errorf("sweep orphans: %w", err)
	}
	writeLine(cmd.OutOrStdout(), styles.NewTabsCLIRenderer(a.Theme).RenderSwept(n))
	return nil
}

// tabs reconcile
var tabsReconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Match suspended-tab records against the live placeholders",
	Long: `After a browser restart tab ids change. Reconcile finds each open
placeholder by its unique id, rebinds the record to the new tab id and
drops records whose placeholder is gone.`,
	Args: cobra.NoArgs,
	RunE: runTabsReconcile,
}

func init() {
	tabsCmd.AddCommand(tabsReconcileCmd)
}

func runTabsReconcile(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	tracker, err := a.Tracker()
	if err != nil {
		return err
	}
	res, err := tracker.Reconcile(a.Ctx())
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}
	writeLine(cmd.OutOrStdout(), styles.NewTabsCLIRenderer(a.Theme).RenderReconciled(res))
	return nil
}

func findSuspendedByPrefix(recs []entity.SuspendedTab, prefix string) (entity.UniqueID, error) {
	var matches []entity.UniqueID
	for _, rec := range recs {
		if string(rec.UniqueID) == prefix {
			return rec.UniqueID, nil
		}
		if strings.HasPrefix(string(rec.UniqueID), prefix) {
			matches = append(matches, rec.UniqueID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: no suspended tab matching '%s'", entity.ErrNotFound, prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("ambiguous id '%s' matches %d suspended tabs - be more specific", prefix, len(matches))
	}
}
