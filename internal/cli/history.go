package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/f11-ff/terms-and-conditions-analyzer/internal/pipeline"
	"github.com/f11-ff/terms-and-conditions-analyzer/internal/store"
)

var (
	historyLimit  int
	historyFormat string
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse past analyses",
	Long: `History lists, shows, and deletes analyses recorded by tca analyze
and tca batch. Reports are stored in a local SQLite database
(~/.tca/analyses.db by default).`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored analyses, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, s *store.Store) error {
			analyses, err := s.ListAnalyses(ctx, historyLimit)
			if err != nil {
				return fmt.Errorf("list analyses: %w", err)
			}
			if len(analyses) == 0 {
				fmt.Println("No stored analyses. Run 'tca analyze <source>' first.")
				return nil
			}

			fmt.Printf("%-5s %-7s %-10s %-20s %s\n", "ID", "RISK", "KIND", "DATE", "SOURCE")
			for _, a := range analyses {
				fmt.Printf("%-5d %-7.1f %-10s %-20s %s\n",
					a.ID, a.OverallRisk, a.Kind,
					a.CreatedAt.Local().Format("2006-01-02 15:04"), a.Source)
			}
			return nil
		})
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one stored analysis in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseAnalysisID(args[0])
		if err != nil {
			return err
		}

		return withStore(func(ctx context.Context, s *store.Store) error {
			a, err := s.GetAnalysis(ctx, id)
			if err != nil {
				return err
			}

			renderer := pipeline.NewRenderer(false)
			switch historyFormat {
			case "json":
				out, err := renderer.JSONString(a.Result)
				if err != nil {
					return fmt.Errorf("encode JSON: %w", err)
				}
				fmt.Println(out)
			case "md", "markdown":
				fmt.Println(renderer.Markdown(a.Result))
			default:
				fmt.Printf("Analysis #%d  %s (%s)  %s\n\n",
					a.ID, a.Source, a.Kind, a.CreatedAt.Local().Format("2006-01-02 15:04"))
				renderer.RenderSummary(a.Result)
			}
			return nil
		})
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one stored analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseAnalysisID(args[0])
		if err != nil {
			return err
		}

		return withStore(func(ctx context.Context, s *store.Store) error {
			if err := s.DeleteAnalysis(ctx, id); err != nil {
				return err
			}
			fmt.Printf("✓ Deleted analysis #%d\n", id)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)

	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum analyses to list (0 = all)")
	historyShowCmd.Flags().StringVar(&historyFormat, "format", "text", "output format (text, json, md)")
}

// withStore opens the configured history database, runs fn, and closes it.
func withStore(fn func(ctx context.Context, s *store.Store) error) error {
	cfg, err := loadBaseConfig()
	if err != nil {
		return err
	}
	cfg.Normalize()

	ctx := context.Background()
	s, err := store.Open(ctx, cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer s.Close()

	return fn(ctx, s)
}

func parseAnalysisID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid analysis id %q", arg)
	}
	return id, nil
}
