package model

// RiskBand is the ordinal risk label attached to clauses and categories.
// The ordering Low < Medium < High is fixed; Weight exposes it numerically.
type RiskBand string

const (
	RiskLow    RiskBand = "Low"
	RiskMedium RiskBand = "Medium"
	RiskHigh   RiskBand = "High"
)

// Weight returns the numeric weight of a band (Low=1, Medium=2, High=3).
// Unknown bands weigh 0 so they never outrank a real band.
func (b RiskBand) Weight() int {
	switch b {
	case RiskHigh:
		return 3
	case RiskMedium:
		return 2
	case RiskLow:
		return 1
	default:
		return 0
	}
}

// MaxBand returns the higher of two bands under Low < Medium < High.
func MaxBand(a, b RiskBand) RiskBand {
	if b.Weight() > a.Weight() {
		return b
	}
	return a
}
