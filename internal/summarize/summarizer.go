package summarize

import (
	"context"
	"strings"
	"sync"
)

const (
	// minSummarizeRunes is the shortest input worth condensing. Anything
	// shorter comes back verbatim.
	minSummarizeRunes = 40

	// maxInputRunes caps what is sent to the provider in one call.
	maxInputRunes = 2048

	// fallbackRunes is the excerpt length used when no provider answer is
	// available.
	fallbackRunes = 250
)

// Summarizer is the failure-tolerant boundary in front of the summarization
// providers. It never returns an error: a missing, unavailable, or failing
// provider degrades to a truncated excerpt of the input, so report assembly
// cannot be broken by the collaborator.
type Summarizer struct {
	provider Provider
	config   Config

	availOnce sync.Once
	available bool
}

// NewSummarizer creates a summarizer from configuration. An empty provider
// name yields a disabled summarizer, which is still fully usable.
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}

	return &Summarizer{
		provider: provider,
		config:   config,
	}, nil
}

// IsEnabled reports whether a provider is configured.
func (s *Summarizer) IsEnabled() bool {
	return s.provider != nil
}

// ProviderName returns the configured provider's name, or "" when disabled.
func (s *Summarizer) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// Summarize condenses one category's clause text to roughly minLen-maxLen
// words.
func (s *Summarizer) Summarize(ctx context.Context, text string, maxLen, minLen int) string {
	return s.run(ctx, text, maxLen, minLen, BuildPrompt)
}

// SummarizeDocument condenses the document-wide clause text with the
// higher-level prompt, so the global summary synthesizes rather than
// restates the per-category output.
func (s *Summarizer) SummarizeDocument(ctx context.Context, text string, maxLen, minLen int) string {
	return s.run(ctx, text, maxLen, minLen, BuildDocumentPrompt)
}

func (s *Summarizer) run(ctx context.Context, text string, maxLen, minLen int, buildPrompt func(string, int, int) string) string {
	text = strings.TrimSpace(text)

	// Inputs below the threshold are already their own best summary.
	runes := []rune(text)
	if len(runes) < minSummarizeRunes {
		return text
	}

	if s.provider == nil || !s.providerAvailable(ctx) {
		return fallback(runes)
	}

	capped := text
	if len(runes) > maxInputRunes {
		capped = string(runes[:maxInputRunes])
	}

	resp, err := s.provider.Summarize(ctx, Request{
		Text:      capped,
		MaxLength: maxLen,
		MinLength: minLen,
		Prompt:    buildPrompt(capped, maxLen, minLen),
	})
	if err != nil || resp == nil || strings.TrimSpace(resp.Summary) == "" {
		return fallback(runes)
	}

	return strings.TrimSpace(resp.Summary)
}

// providerAvailable caches the availability probe so a dead provider is
// detected once per run, not once per category.
func (s *Summarizer) providerAvailable(ctx context.Context) bool {
	s.availOnce.Do(func() {
		s.available = s.provider.IsAvailable(ctx)
	})
	return s.available
}

// fallback returns a clearly truncated excerpt of the input.
func fallback(runes []rune) string {
	if len(runes) > fallbackRunes {
		runes = runes[:fallbackRunes]
	}
	return string(runes) + "..."
}
