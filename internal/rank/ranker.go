package rank

import (
	"sort"

	"github.com/f11-ff/terms-and-conditions-analyzer/internal/model"
)

// Ranker turns a category's raw clause candidates into its final ranked
// bullet list.
type Ranker struct {
	policy SelectionPolicy
}

// NewRanker creates a ranker with the given selection policy. A nil policy
// selects the adaptive default.
func NewRanker(policy SelectionPolicy) *Ranker {
	if policy == nil {
		policy = AdaptivePolicy()
	}
	return &Ranker{policy: policy}
}

// Select deduplicates, ranks, and truncates one category's candidates.
// Duplicate texts keep their first-seen occurrence, survivors sort by
// descending score with ties holding their original order, and the cap is
// computed from the raw candidate count. The result is never nil.
func (r *Ranker) Select(candidates []model.Clause) []model.Clause {
	seen := make(map[string]bool, len(candidates))
	deduped := make([]model.Clause, 0, len(candidates))
	for _, c := range candidates {
		if seen[c.Text] {
			continue
		}
		seen[c.Text] = true
		deduped = append(deduped, c)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].Score > deduped[j].Score
	})

	limit := r.policy(len(candidates))
	if limit < 0 {
		limit = 0
	}
	if len(deduped) > limit {
		deduped = deduped[:limit]
	}
	return deduped
}
