package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/omni/internal/cli/styles"
	"github.com/bnema/omni/internal/domain/entity"
)

var (
	searchNoOpen      bool
	searchNoSuspended bool
	searchNoSessions  bool
	searchJSON        bool
	searchQuick       bool
	searchLimit       int
	historyClear      bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search open tabs, suspended tabs and saved sessions",
	Long: `Search titles and URLs across open tabs, suspended tabs and the tabs
of saved sessions. Results are ranked by relevance: title matches
outrank URL matches, and recently used tabs get a small boost.

Each query is added to the search history used for suggestions.

Example:
  omni search github
  omni search --no-open "release notes"
  omni search --quick go`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().BoolVar(&searchNoOpen, "no-open", false, "skip open tabs (does not contact the browser)")
	searchCmd.Flags().BoolVar(&searchNoSuspended, "no-suspended", false, "skip suspended tabs")
	searchCmd.Flags().BoolVar(&searchNoSessions, "no-sessions", false, "skip saved sessions")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output as JSON")
	searchCmd.Flags().BoolVarP(&searchQuick, "quick", "q", false, "flat list of the best hits with the action for each")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "maximum quick results (0 = no limit)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	uc, err := a.Search(!searchNoOpen)
	if err != nil {
		return err
	}
	query := strings.Join(args, " ")

	if searchQuick {
		results, err := uc.QuickSearch(a.Ctx(), query, searchLimit)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		if searchJSON {
			return writeJSON(cmd.OutOrStdout(), results)
		}
		writeLine(cmd.OutOrStdout(), styles.NewSearchCLIRenderer(a.Theme).RenderQuick(results))
		return nil
	}

	results, err := uc.Search(a.Ctx(), query, entity.SearchOptions{
		ExcludeOpenTabs:  searchNoOpen,
		ExcludeSuspended: searchNoSuspended,
		ExcludeSessions:  searchNoSessions,
	})
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if searchJSON {
		return writeJSON(cmd.OutOrStdout(), results)
	}
	writeLine(cmd.OutOrStdout(), styles.NewSearchCLIRenderer(a.Theme).RenderResults(results))
	return nil
}

// search suggest <partial>
var searchSuggestCmd = &cobra.Command{
	Use:   "suggest <partial>",
	Short: "Suggest completions from search history and session names",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearchSuggest,
}

func init() {
	searchCmd.AddCommand(searchSuggestCmd)
	searchSuggestCmd.Flags().BoolVar(&searchJSON, "json", false, "output as JSON")
}

func runSearchSuggest(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	uc, err := a.Search(false)
	if err != nil {
		return err
	}
	items, err := uc.Suggestions(a.Ctx(), args[0])
	if err != nil {
		return fmt.Errorf("suggestions: %w", err)
	}
	if searchJSON {
		return writeJSON(cmd.OutOrStdout(), items)
	}
	writeLine(cmd.OutOrStdout(), styles.NewSearchCLIRenderer(a.Theme).RenderSuggestions(items))
	return nil
}

// search history
var searchHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or clear the search history",
	Args:  cobra.NoArgs,
	RunE:  runSearchHistory,
}

func init() {
	searchCmd.AddCommand(searchHistoryCmd)
	searchHistoryCmd.Flags().BoolVar(&historyClear, "clear", false, "clear the history")
}

func runSearchHistory(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	uc, err := a.Search(false)
	if err != nil {
		return err
	}
	r := styles.NewSearchCLIRenderer(a.Theme)
	if historyClear {
		if err := uc.ClearHistory(a.Ctx()); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
		writeLine(cmd.OutOrStdout(), r.RenderHistoryCleared())
		return nil
	}
	writeLine(cmd.OutOrStdout(), r.RenderHistory(uc.History()))
	return nil
}
