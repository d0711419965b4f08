package risk

import "github.com/f11-ff/terms-and-conditions-analyzer/internal/model"

// Band maps a clause score to its risk band. The thresholds are fixed: six
// points and up is High, three to five is Medium, everything below is Low.
func Band(score int) model.RiskBand {
	switch {
	case score >= 6:
		return model.RiskHigh
	case score >= 3:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}
