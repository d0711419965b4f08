package summarize

import (
	"context"
	"fmt"
)

// Provider defines the interface for summarization backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize condenses the requested clause text into a synopsis
	Summarize(ctx context.Context, req Request) (*Response, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Request contains the input for one summarization call
type Request struct {
	// Text is the clause text to condense
	Text string

	// MaxLength and MinLength bound the synopsis size in words
	MaxLength int
	MinLength int

	// Prompt is an optional custom prompt (if empty, built from Text)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// Response contains the provider's output
type Response struct {
	// Summary is the generated synopsis text
	Summary string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds summarization provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Model:     "",
		Timeout:   30,
		MaxTokens: 300,
	}
}

const systemPrompt = "You are a paralegal assistant who explains terms-of-service clauses in plain English. You never give legal advice and never invent facts that are not in the provided text."

// BuildPrompt constructs the default prompt for condensing one category's
// selected clauses.
func BuildPrompt(text string, maxLen, minLen int) string {
	return fmt.Sprintf(`Summarize the following terms-and-conditions clauses in plain English for a non-lawyer.
Focus on what the user is agreeing to and any obligations or risks.
Aim for roughly %d to %d words. Do not add legal advice or information that is not in the clauses.

Clauses:
%s`, minLen, maxLen, text)
}

// BuildDocumentPrompt constructs the prompt for the document-level summary.
// It asks for a synthesis across categories rather than a restatement of the
// per-category text.
func BuildDocumentPrompt(text string, maxLen, minLen int) string {
	return fmt.Sprintf(`Below are the highest-risk clauses extracted from a terms-and-conditions document, drawn from several categories.
Write an overall assessment of what a user accepts by agreeing to this document: the major risks, obligations, and anything unusual.
Synthesize across the clauses rather than restating them one by one. Aim for roughly %d to %d words.

Clauses:
%s`, minLen, maxLen, text)
}
