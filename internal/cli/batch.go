package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/f11-ff/terms-and-conditions-analyzer/internal/ingest"
	"github.com/f11-ff/terms-and-conditions-analyzer/internal/model"
	"github.com/f11-ff/terms-and-conditions-analyzer/internal/pipeline"
	"github.com/f11-ff/terms-and-conditions-analyzer/internal/store"
	"github.com/f11-ff/terms-and-conditions-analyzer/internal/worker"
)

var (
	batchWorkers int
	batchOutDir  string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <list-file>",
	Short: "Analyze multiple documents from a file in parallel",
	Long: `Batch analyzes multiple sources concurrently:
- Read sources (file paths or URLs) from an input file, one per line
- Blank lines and # comments are skipped
- Process sources in parallel with a configurable worker count
- Rate limit URL fetches per host
- Write individual JSON and Markdown reports for each source

Example:
  tca batch sources.txt
  tca batch sources.txt --workers 8 --output-dir ./reports
  tca batch sources.txt --llm --llm-provider ollama --llm-model llama3.1:8b`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	registerAnalysisFlags(batchCmd)

	batchCmd.Flags().IntVar(&batchWorkers, "workers", 4, "number of concurrent workers")
	batchCmd.Flags().StringVar(&batchOutDir, "output-dir", "./tca-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "batch-timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&noSave, "no-save", false, "do not record analyses in history")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("workers") || cfg.Concurrency.Workers <= 0 {
		cfg.Concurrency.Workers = batchWorkers
	}

	sources, err := worker.ReadSourcesFromFile(file)
	if err != nil {
		return fmt.Errorf("read sources: %w", err)
	}
	if len(sources) == 0 {
		return fmt.Errorf("no sources found in %s", file)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Analysis\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Sources:      %d\n", len(sources))
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", batchOutDir)
	if cfg.LLM.Provider != "" {
		fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	}
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(batchOutDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	var st *store.Store
	if cfg.Store.Enabled && !noSave {
		st, err = store.Open(ctx, cfg.Store.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: history disabled: %v\n", err)
			st = nil
		} else {
			defer st.Close()
		}
	}
	// SQLite allows one writer at a time; serialize saves explicitly.
	var storeMu sync.Mutex

	analyzer := pipeline.NewAnalyzer(cfg)
	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	fetcher := newFetcher(cfg)

	analyze := func(ctx context.Context, source string) (*model.DocumentResult, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		var (
			doc *ingest.Document
			err error
		)
		if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
			doc, err = fetcher.FetchWithRetry(ctx, source)
		} else {
			doc, err = ingest.ReadFile(source)
		}
		if err != nil {
			return nil, err
		}

		result := analyzer.Process(ctx, doc.Pages)

		slug := sanitizeFilename(source)
		if err := renderer.RenderJSON(result, filepath.Join(batchOutDir, slug+".json")); err != nil {
			return nil, fmt.Errorf("write JSON: %w", err)
		}
		if err := renderer.RenderMarkdown(result, filepath.Join(batchOutDir, slug+".md")); err != nil {
			return nil, fmt.Errorf("write Markdown: %w", err)
		}

		if st != nil {
			storeMu.Lock()
			_, saveErr := st.SaveAnalysis(ctx, doc.Source, doc.Kind, result)
			storeMu.Unlock()
			if saveErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save %s: %v\n", source, saveErr)
			}
		}

		return result, nil
	}

	fmt.Fprintf(os.Stderr, "⚙️  Processing sources with %d workers...\n\n", cfg.Concurrency.Workers)

	limiter := worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.BurstSize)
	processor := worker.NewBatchProcessor(analyze, cfg.Concurrency.Workers, limiter)
	results := processor.ProcessSources(ctx, sources)

	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Source, result.Err)
			continue
		}

		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s (risk: %.1f/100, %d clauses)\n",
			result.Source, result.Result.OverallRiskScore, len(result.Result.Clauses()))
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d sources\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", batchOutDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// sanitizeFilename derives a filesystem-safe report name from a source.
func sanitizeFilename(source string) string {
	name := strings.NewReplacer(
		"://", "_",
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	).Replace(source)

	name = strings.Trim(name, "._-")
	if name == "" {
		name = "report"
	}
	if len(name) > 100 {
		name = name[:100]
	}

	return name
}
