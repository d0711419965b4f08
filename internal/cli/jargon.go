package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/f11-ff/terms-and-conditions-analyzer/internal/model"
	"github.com/f11-ff/terms-and-conditions-analyzer/internal/store"
)

var jargonSpotID int64

// jargonCmd represents the jargon command
var jargonCmd = &cobra.Command{
	Use:   "jargon [term]",
	Short: "Explain legal jargon in plain English",
	Long: `Jargon looks up legal terms in the built-in glossary.

Without arguments the full glossary is listed. With a term, its
definition is printed. With --in, the glossary terms that actually
appear in a stored analysis are spotted and explained.

Example:
  tca jargon
  tca jargon indemnify
  tca jargon --in 3`,
	Args: cobra.MaximumNArgs(1),
	RunE: runJargon,
}

func init() {
	rootCmd.AddCommand(jargonCmd)
	jargonCmd.Flags().Int64Var(&jargonSpotID, "in", 0, "spot glossary terms appearing in a stored analysis")
}

func runJargon(cmd *cobra.Command, args []string) error {
	if jargonSpotID > 0 {
		return spotJargon(jargonSpotID)
	}

	if len(args) == 1 {
		jt, ok := model.LookupJargon(args[0])
		if !ok {
			return fmt.Errorf("no glossary entry for %q (run 'tca jargon' to list all terms)", args[0])
		}
		printJargonTerm(jt)
		return nil
	}

	fmt.Println("Legal jargon glossary:")
	fmt.Println()
	for _, jt := range model.JargonTerms() {
		printJargonTerm(jt)
	}
	return nil
}

// spotJargon lists the glossary terms found in a stored analysis's text.
func spotJargon(id int64) error {
	return withStore(func(ctx context.Context, s *store.Store) error {
		a, err := s.GetAnalysis(ctx, id)
		if err != nil {
			return err
		}

		lower := strings.ToLower(a.Result.RawText)
		var found []model.JargonTerm
		for _, jt := range model.JargonTerms() {
			if strings.Contains(lower, strings.ToLower(jt.Term)) {
				found = append(found, jt)
			}
		}

		if len(found) == 0 {
			fmt.Printf("No glossary terms found in analysis #%d.\n", id)
			return nil
		}

		fmt.Printf("%d glossary term(s) in analysis #%d (%s):\n\n", len(found), id, a.Source)
		for _, jt := range found {
			printJargonTerm(jt)
		}
		return nil
	})
}

func printJargonTerm(jt model.JargonTerm) {
	fmt.Printf("  %s\n    %s\n\n", jt.Term, jt.Definition)
}
