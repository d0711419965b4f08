package rank

import "github.com/f11-ff/terms-and-conditions-analyzer/internal/model"

// SelectionPolicy bounds how many deduplicated clauses a category surfaces,
// given the raw (pre-dedup) candidate count tagged into it.
type SelectionPolicy func(candidates int) int

// AdaptivePolicy scales the cap with the candidate count: a floor of two
// bullets, one more per four candidates, and a hard ceiling of seven.
// Categories with more findings surface proportionally more clauses.
func AdaptivePolicy() SelectionPolicy {
	return func(candidates int) int {
		limit := 2 + candidates/4
		if limit > 7 {
			limit = 7
		}
		return limit
	}
}

// FixedPolicy caps every category at n clauses regardless of findings.
func FixedPolicy(n int) SelectionPolicy {
	return func(int) int { return n }
}

// PolicyFromConfig resolves the configured selection policy. Anything other
// than "fixed" selects the adaptive default.
func PolicyFromConfig(sel model.SelectionConfig) SelectionPolicy {
	if sel.Policy == "fixed" {
		return FixedPolicy(sel.MaxBullets)
	}
	return AdaptivePolicy()
}
