package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/f11-ff/terms-and-conditions-analyzer/internal/classify"
	"github.com/f11-ff/terms-and-conditions-analyzer/internal/model"
	"github.com/f11-ff/terms-and-conditions-analyzer/internal/rank"
	"github.com/f11-ff/terms-and-conditions-analyzer/internal/risk"
	"github.com/f11-ff/terms-and-conditions-analyzer/internal/summarize"
	"github.com/f11-ff/terms-and-conditions-analyzer/internal/textproc"
)

// Summarizer produces plain-language synopses of clause text. The analyzer
// treats it as an external collaborator whose failures never surface as
// pipeline failures.
type Summarizer interface {
	Summarize(ctx context.Context, text string, maxLen, minLen int) string
	SummarizeDocument(ctx context.Context, text string, maxLen, minLen int) string
}

// Analyzer runs the clause extraction pipeline over a page-split document
// and assembles the risk report.
type Analyzer struct {
	tagger     *classify.Tagger
	scorer     *risk.Scorer
	ranker     *rank.Ranker
	summarizer Summarizer
	config     *model.Config
}

// NewAnalyzer creates an analyzer from configuration. The summarization
// provider comes from cfg.LLM; a misconfigured provider degrades to the
// built-in excerpt fallback rather than failing construction.
func NewAnalyzer(cfg *model.Config) *Analyzer {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	cfg.Normalize()

	summarizer, err := summarize.NewSummarizer(summarize.ConfigFromModel(cfg.LLM))
	if err != nil {
		fmt.Printf("Warning: Failed to initialize summarization provider: %v\n", err)
		summarizer, _ = summarize.NewSummarizer(summarize.Config{})
	}

	return NewAnalyzerWithSummarizer(cfg, summarizer)
}

// NewAnalyzerWithSummarizer creates an analyzer with an injected summarizer,
// which tests use to substitute a deterministic stub. A nil summarizer gets
// the disabled default.
func NewAnalyzerWithSummarizer(cfg *model.Config, summarizer Summarizer) *Analyzer {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	cfg.Normalize()

	if summarizer == nil {
		summarizer, _ = summarize.NewSummarizer(summarize.Config{})
	}

	return &Analyzer{
		tagger:     classify.NewTagger(cfg.Keywords),
		scorer:     risk.NewScorer(cfg.RiskScores),
		ranker:     rank.NewRanker(rank.PolicyFromConfig(cfg.Selection)),
		summarizer: summarizer,
		config:     cfg,
	}
}

// Process analyzes a page-split document and returns the structured risk
// report. It is total: any input, including no pages at all, produces a
// well-formed result.
func (a *Analyzer) Process(ctx context.Context, pages map[int]string) *model.DocumentResult {
	// 1. Order pages ascending so output is deterministic
	pageNums := make([]int, 0, len(pages))
	for n := range pages {
		pageNums = append(pageNums, n)
	}
	sort.Ints(pageNums)

	// 2. Resolve the category order. Caller-declared categories are emitted
	// in declared order even when empty; without a declared list the
	// categories derive from the keyword table and empty ones are omitted.
	declared := len(a.config.Categories) > 0
	var order []string
	if declared {
		order = a.config.Categories
	} else {
		order = a.tagger.Categories()
	}

	buckets := make(map[string][]model.Clause, len(order))
	for _, cat := range order {
		buckets[cat] = nil
	}

	// 3. Segment each page and tag, score, and band its sentences
	var rawText strings.Builder
	index := 0
	for _, pageNum := range pageNums {
		pageText := pages[pageNum]
		fmt.Fprintf(&rawText, "\n--- Page %d ---\n%s", pageNum, pageText)

		normalized := textproc.Normalize(pageText)
		for _, text := range textproc.Sentences(normalized) {
			sent := model.Sentence{Text: text, Page: pageNum, Index: index}
			index++

			cats := a.tagger.Tag(sent.Text)
			if len(cats) == 0 {
				continue
			}

			score, triggers := a.scorer.Score(sent.Text)
			band := risk.Band(score)
			location := fmt.Sprintf("Page %d", sent.Page)

			for cat, matched := range cats {
				if _, ok := buckets[cat]; !ok {
					continue
				}
				buckets[cat] = append(buckets[cat], model.Clause{
					Text:         sent.Text,
					Risk:         band,
					Rationale:    matched,
					RiskTriggers: triggers,
					Provenance:   model.Provenance{Snippet: sent.Text, Location: location},
					Score:        score,
				})
			}
		}
	}

	// 4. Rank each category, roll up its risk, and summarize its selection
	categoriesOut := make([]model.CategoryResult, 0, len(order))
	var topTexts []string
	for _, cat := range order {
		selected := a.ranker.Select(buckets[cat])
		if len(selected) == 0 && !declared {
			continue
		}

		summary := ""
		catRisk := model.RiskLow
		if len(selected) > 0 {
			joined := joinClauseTexts(selected)
			summary = a.summarizer.Summarize(ctx, joined, 60, 15)
			topTexts = append(topTexts, joined)
			catRisk = rank.CategoryRisk(selected)
		}

		categoriesOut = append(categoriesOut, model.CategoryResult{
			Category:        cat,
			CategorySummary: summary,
			CategoryRisk:    catRisk,
			Bullets:         selected,
		})
	}

	// 5. Document-level rollups
	aiSummary := a.summarizer.SummarizeDocument(ctx, strings.Join(topTexts, " "), 100, 30)

	return &model.DocumentResult{
		AISummary:        aiSummary,
		Categories:       categoriesOut,
		RawText:          strings.TrimSpace(rawText.String()),
		OverallRiskScore: rank.OverallRiskScore(categoriesOut),
	}
}

func joinClauseTexts(clauses []model.Clause) string {
	texts := make([]string, 0, len(clauses))
	for _, c := range clauses {
		texts = append(texts, c.Text)
	}
	return strings.Join(texts, " ")
}
