package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/f11-ff/terms-and-conditions-analyzer/internal/store"
	"github.com/f11-ff/terms-and-conditions-analyzer/internal/textproc"
)

var searchLimit int

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search [id] <keyword>",
	Short: "Search stored analyses for a keyword",
	Long: `Search finds keyword matches in past analyses.

With a keyword alone, the stored clauses of every analysis are searched
and matches are listed highest risk score first. With an analysis ID and
a keyword, the full raw text of that analysis is searched sentence by
sentence, so matches outside the selected clauses are found too.
Matching is case-insensitive.

Example:
  tca search arbitration
  tca search 3 "third party"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "maximum matches to show (0 = all)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return searchAllClauses(args[0])
	}

	id, err := parseAnalysisID(args[0])
	if err != nil {
		return err
	}
	return searchAnalysisText(id, args[1])
}

// searchAllClauses looks the keyword up in every stored clause.
func searchAllClauses(term string) error {
	return withStore(func(ctx context.Context, s *store.Store) error {
		hits, err := s.SearchClauses(ctx, term, searchLimit)
		if err != nil {
			return fmt.Errorf("search clauses: %w", err)
		}
		if len(hits) == 0 {
			fmt.Printf("No stored clauses match %q.\n", term)
			return nil
		}

		fmt.Printf("%d clause(s) matching %q:\n\n", len(hits), term)
		for _, h := range hits {
			fmt.Printf("  #%d %s\n", h.AnalysisID, h.Source)
			fmt.Printf("    [%s, score %d] %s (%s)\n", h.Risk, h.Score, h.Text, h.Location)
		}
		return nil
	})
}

// searchAnalysisText scans one analysis's raw text sentence by sentence,
// so it also finds sentences that were never selected as clauses.
func searchAnalysisText(id int64, term string) error {
	return withStore(func(ctx context.Context, s *store.Store) error {
		a, err := s.GetAnalysis(ctx, id)
		if err != nil {
			return err
		}

		want := strings.ToLower(term)
		normalized := textproc.Normalize(a.Result.RawText)

		var matches []string
		for _, sentence := range textproc.Sentences(normalized) {
			if strings.Contains(strings.ToLower(sentence), want) {
				matches = append(matches, sentence)
			}
		}

		if len(matches) == 0 {
			fmt.Printf("No sentences in analysis #%d match %q.\n", id, term)
			return nil
		}

		shown := matches
		if searchLimit > 0 && len(shown) > searchLimit {
			shown = shown[:searchLimit]
		}

		fmt.Printf("%d sentence(s) in analysis #%d match %q:\n\n", len(matches), id, term)
		for _, m := range shown {
			fmt.Printf("  - %s\n", m)
		}
		if len(shown) < len(matches) {
			fmt.Printf("\n(%d more; raise --limit to see them)\n", len(matches)-len(shown))
		}
		return nil
	})
}
