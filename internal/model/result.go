package model

// CategoryResult groups the selected clauses of one category together with
// the category-level summary and risk rollup.
type CategoryResult struct {
	Category        string   `json:"category"`
	CategorySummary string   `json:"category_summary"`
	CategoryRisk    RiskBand `json:"category_risk"`
	Bullets         []Clause `json:"bullets"`
}

// DocumentResult is the complete analysis of one document. It is the sole
// output of the pipeline, immutable once returned, and safe to serialize
// verbatim: persistence, export, and UI collaborators all round-trip this
// exact shape.
type DocumentResult struct {
	AISummary        string           `json:"ai_summary"`
	Categories       []CategoryResult `json:"categories"`
	RawText          string           `json:"raw_text"`
	OverallRiskScore float64          `json:"overall_risk_score"` // 0..100
}

// Clauses returns every selected clause across all categories, in category
// order. The same sentence may appear under several categories.
func (r *DocumentResult) Clauses() []Clause {
	var out []Clause
	for _, cat := range r.Categories {
		out = append(out, cat.Bullets...)
	}
	return out
}
