package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/f11-ff/terms-and-conditions-analyzer/internal/cache"
	"github.com/f11-ff/terms-and-conditions-analyzer/internal/ingest"
	"github.com/f11-ff/terms-and-conditions-analyzer/internal/model"
	"github.com/f11-ff/terms-and-conditions-analyzer/internal/pipeline"
	"github.com/f11-ff/terms-and-conditions-analyzer/internal/store"
)

var (
	outJSON      string
	outMD        string
	outFormat    string
	timeout      time.Duration
	userAgent    string
	maxBytes     int64
	noCache      bool
	noRobots     bool
	noFooter     bool
	noSave       bool
	llmEnabled   bool
	llmProvider  string
	llmModel     string
	categories   []string
	keywordsFile string
	policyName   string
	maxBullets   int
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <file|url|->",
	Short: "Analyze one document and generate a risk report",
	Long: `Analyze reads a terms-and-conditions document from a file, a URL, or
stdin ("-"), and produces a risk report:
- Clauses tagged into categories by keyword matching
- Risk scores from a table of known risky phrases
- Per-category and whole-document risk rollups
- Optional LLM summaries per category and for the document

Example:
  tca analyze terms.txt
  tca analyze https://example.com/legal/terms --json report.json --md report.md
  cat terms.txt | tca analyze - --format md
  tca analyze terms.txt --llm --llm-provider openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	registerAnalysisFlags(analyzeCmd)

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().StringVar(&outFormat, "format", "text", "stdout format (text, json, md)")
	analyzeCmd.Flags().BoolVar(&noSave, "no-save", false, "do not record this analysis in history")
}

// registerAnalysisFlags adds the flags shared by analyze and batch.
func registerAnalysisFlags(cmd *cobra.Command) {
	// HTTP flags
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall analysis timeout")
	cmd.Flags().StringVar(&userAgent, "ua", "tca/0.5 (+https://github.com/f11-ff/terms-and-conditions-analyzer)", "HTTP User-Agent")
	cmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max response bytes to read")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	cmd.Flags().BoolVar(&noRobots, "no-robots", false, "skip robots.txt checks")
	cmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Tagging flags
	cmd.Flags().StringSliceVar(&categories, "categories", nil, "declared category order (default: built-in Software ToS set)")
	cmd.Flags().StringVar(&keywordsFile, "keywords-file", "", "YAML file with custom categories, keywords, and risk scores")
	cmd.Flags().StringVar(&policyName, "policy", "adaptive", "clause selection policy (adaptive, fixed)")
	cmd.Flags().IntVar(&maxBullets, "max-bullets", 6, "clause cap used by the fixed policy")

	// LLM flags
	cmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM summary generation")
	cmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	cmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

// loadBaseConfig returns the config file's settings when one was found,
// otherwise the defaults.
func loadBaseConfig() (*model.Config, error) {
	if path := viper.ConfigFileUsed(); path != "" {
		return model.LoadConfigFile(path)
	}
	return model.DefaultConfig(), nil
}

// buildConfig layers command-line flags over the base configuration.
// Flags override the config file only when explicitly set.
func buildConfig(cmd *cobra.Command) (*model.Config, error) {
	cfg, err := loadBaseConfig()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("timeout") {
		cfg.HTTP.Timeout = timeout
	}
	if flags.Changed("ua") {
		cfg.HTTP.UserAgent = userAgent
	}
	if flags.Changed("max-bytes") {
		cfg.HTTP.MaxBodyBytes = maxBytes
	}
	if flags.Changed("categories") {
		cfg.Categories = categories
	}
	if flags.Changed("policy") {
		cfg.Selection.Policy = policyName
	}
	if flags.Changed("max-bullets") {
		cfg.Selection.MaxBullets = maxBullets
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noRobots {
		cfg.HTTP.RespectRobots = false
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}
	cfg.Output.Verbose = verbose

	if keywordsFile != "" {
		if err := model.LoadKeywordFile(keywordsFile, cfg); err != nil {
			return nil, err
		}
	}

	// Configure LLM if enabled
	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel

		// Get API key from environment
		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "anthropic", "claude":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
			}
		case "ollama":
			// Ollama doesn't need an API key
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}

	cfg.Normalize()
	return cfg, nil
}

// newFetcher builds a fetcher with the configured cache attached.
func newFetcher(cfg *model.Config) *ingest.Fetcher {
	fetcher := ingest.NewFetcher(cfg.HTTP)
	if cfg.Cache.Enabled {
		pages := cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		fetcher = fetcher.WithCache(pages, cfg.Cache.DiskTTL)
	}
	return fetcher
}

// loadDocument ingests a source: "-" for stdin, a URL, or a file path.
func loadDocument(ctx context.Context, cfg *model.Config, source string) (*ingest.Document, error) {
	switch {
	case source == "-":
		return ingest.ReadStdin(os.Stdin)
	case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
		return newFetcher(cfg).FetchWithRetry(ctx, source)
	default:
		return ingest.ReadFile(source)
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	source := args[0]

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s\n", source)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintln(os.Stderr)
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	doc, err := loadDocument(ctx, cfg, source)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	if len(doc.Pages) == 0 {
		fmt.Fprintln(os.Stderr, "Warning: no text extracted from source")
	} else if verbose {
		fmt.Fprintf(os.Stderr, "✓ Loaded %d page(s)\n", len(doc.Pages))
	}

	analyzer := pipeline.NewAnalyzer(cfg)
	result := analyzer.Process(ctx, doc.Pages)

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Reported %d categories\n", len(result.Categories))
		fmt.Fprintf(os.Stderr, "✓ Selected %d clauses\n", len(result.Clauses()))
		fmt.Fprintf(os.Stderr, "✓ Overall risk score: %.1f/100\n", result.OverallRiskScore)
		fmt.Fprintln(os.Stderr)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)

	if outJSON != "" {
		if err := renderer.RenderJSON(result, outJSON); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", outJSON)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(result, outMD); err != nil {
			return fmt.Errorf("write Markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", outMD)
		}
	}

	switch outFormat {
	case "json":
		s, err := renderer.JSONString(result)
		if err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
		fmt.Println(s)
	case "md", "markdown":
		fmt.Println(renderer.Markdown(result))
	default:
		renderer.RenderSummary(result)
	}

	if cfg.Store.Enabled && !noSave {
		if err := recordAnalysis(ctx, cfg, doc, result); err != nil {
			// History is a convenience; a failed save should not fail the run.
			fmt.Fprintf(os.Stderr, "Warning: failed to save analysis: %v\n", err)
		}
	}

	return nil
}

func recordAnalysis(ctx context.Context, cfg *model.Config, doc *ingest.Document, result *model.DocumentResult) error {
	s, err := store.Open(ctx, cfg.Store.Path)
	if err != nil {
		return err
	}
	defer s.Close()

	id, err := s.SaveAnalysis(ctx, doc.Source, doc.Kind, result)
	if err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Saved as analysis #%d\n", id)
	}
	return nil
}
