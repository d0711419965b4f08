package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/f11-ff/terms-and-conditions-analyzer/internal/model"
)

// AnalyzeFunc turns one source (file path or URL) into a risk report.
type AnalyzeFunc func(ctx context.Context, source string) (*model.DocumentResult, error)

// BatchResult is the outcome of analyzing one source. Index preserves
// the source's position in the input list.
type BatchResult struct {
	Index  int
	Source string
	Result *model.DocumentResult
	Err    error
}

// GetError returns the analysis error, if any.
func (r *BatchResult) GetError() error {
	return r.Err
}

// analyzeJob runs one source through the analyze function, waiting on
// the rate limiter first for URL sources.
type analyzeJob struct {
	index   int
	source  string
	analyze AnalyzeFunc
	limiter *Limiter
}

func (j *analyzeJob) Execute(ctx context.Context) Result {
	if j.limiter != nil && isURL(j.source) {
		if err := j.limiter.Wait(ctx, j.source); err != nil {
			return &BatchResult{Index: j.index, Source: j.source, Err: err}
		}
	}

	result, err := j.analyze(ctx, j.source)
	return &BatchResult{Index: j.index, Source: j.source, Result: result, Err: err}
}

// BatchProcessor analyzes many sources concurrently.
type BatchProcessor struct {
	analyze     AnalyzeFunc
	concurrency int
	limiter     *Limiter
}

// NewBatchProcessor creates a processor running up to concurrency
// analyses at once. A nil limiter disables rate limiting.
func NewBatchProcessor(analyze AnalyzeFunc, concurrency int, limiter *Limiter) *BatchProcessor {
	return &BatchProcessor{
		analyze:     analyze,
		concurrency: concurrency,
		limiter:     limiter,
	}
}

// ProcessSources analyzes all sources and returns results in input
// order regardless of completion order.
func (b *BatchProcessor) ProcessSources(ctx context.Context, sources []string) []*BatchResult {
	if len(sources) == 0 {
		return []*BatchResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	// Propagate caller cancellation into the pool's own context.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			pool.Shutdown()
		case <-done:
		}
	}()

	for i, source := range sources {
		pool.Submit(&analyzeJob{
			index:   i,
			source:  source,
			analyze: b.analyze,
			limiter: b.limiter,
		})
	}

	results := pool.Wait()

	batchResults := make([]*BatchResult, 0, len(results))
	for _, result := range results {
		batchResults = append(batchResults, result.(*BatchResult))
	}

	sort.Slice(batchResults, func(i, j int) bool {
		return batchResults[i].Index < batchResults[j].Index
	})

	return batchResults
}

// ProcessFile reads sources from a list file and analyzes them.
func (b *BatchProcessor) ProcessFile(ctx context.Context, path string) ([]*BatchResult, error) {
	sources, err := ReadSourcesFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}

	return b.ProcessSources(ctx, sources), nil
}

// ReadSourcesFromFile reads one source per line, skipping blank lines
// and # comments, and dropping duplicates.
func ReadSourcesFromFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var sources []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			sources = append(sources, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return sources, nil
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
