package rank

import "github.com/f11-ff/terms-and-conditions-analyzer/internal/model"

// CategoryRisk returns the highest band among the clauses, Low when empty.
func CategoryRisk(clauses []model.Clause) model.RiskBand {
	band := model.RiskLow
	for _, c := range clauses {
		band = model.MaxBand(band, c.Risk)
	}
	return band
}

// OverallRiskScore computes the document-wide risk score on a 0 to 100
// scale. Selected clauses are deduplicated by text across categories, since
// one sentence may appear under several, then each contributes its band
// weight against a maximum of three per clause. Zero clauses score zero.
func OverallRiskScore(categories []model.CategoryResult) float64 {
	seen := make(map[string]bool)
	weighted := 0
	count := 0
	for _, cat := range categories {
		for _, c := range cat.Bullets {
			if seen[c.Text] {
				continue
			}
			seen[c.Text] = true
			weighted += c.Risk.Weight()
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return 100 * float64(weighted) / float64(3*count)
}
