package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/f11-ff/terms-and-conditions-analyzer/internal/model"
)

// Renderer writes analysis results as JSON, Markdown, or console output
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the result as indented JSON to the given path
func (r *Renderer) RenderJSON(result *model.DocumentResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// JSONString returns the result as an indented JSON string
func (r *Renderer) JSONString(result *model.DocumentResult) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}
	return string(data), nil
}

// RenderMarkdown writes the result as a Markdown report to the given path
func (r *Renderer) RenderMarkdown(result *model.DocumentResult, path string) error {
	if err := os.WriteFile(path, []byte(r.Markdown(result)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Markdown builds the full Markdown report
func (r *Renderer) Markdown(result *model.DocumentResult) string {
	var b strings.Builder

	b.WriteString("# Terms & Conditions Risk Report\n\n")
	fmt.Fprintf(&b, "**Overall Risk Score:** %.1f / 100\n\n", result.OverallRiskScore)

	if result.AISummary != "" {
		b.WriteString("## Summary\n\n")
		b.WriteString(result.AISummary)
		b.WriteString("\n\n")
	}

	for _, cat := range result.Categories {
		fmt.Fprintf(&b, "## %s (%s)\n\n", cat.Category, cat.CategoryRisk)

		if cat.CategorySummary != "" {
			b.WriteString(cat.CategorySummary)
			b.WriteString("\n\n")
		}

		if len(cat.Bullets) == 0 {
			b.WriteString("No matching clauses found.\n\n")
			continue
		}

		for _, clause := range cat.Bullets {
			fmt.Fprintf(&b, "- **%s** (score %d): %s", clause.Risk, clause.Score, clause.Text)
			details := []string{clause.Provenance.Location}
			if len(clause.Rationale) > 0 {
				details = append(details, "keywords: "+strings.Join(clause.Rationale, ", "))
			}
			if len(clause.RiskTriggers) > 0 {
				details = append(details, "triggers: "+strings.Join(clause.RiskTriggers, ", "))
			}
			fmt.Fprintf(&b, " _(%s)_\n", strings.Join(details, "; "))
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n")
		b.WriteString("_Generated by tca v0.5.0_\n")
	}

	return b.String()
}

// RenderSummary prints a compact report to stdout
func (r *Renderer) RenderSummary(result *model.DocumentResult) {
	fmt.Printf("Overall Risk Score: %.1f/100\n\n", result.OverallRiskScore)

	for _, cat := range result.Categories {
		noun := "clauses"
		if len(cat.Bullets) == 1 {
			noun = "clause"
		}
		fmt.Printf("  %-36s %-7s %d %s\n", cat.Category, cat.CategoryRisk, len(cat.Bullets), noun)
	}

	if result.AISummary != "" {
		fmt.Printf("\nSummary: %s\n", result.AISummary)
	}
}
