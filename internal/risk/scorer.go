package risk

import (
	"sort"
	"strings"

	"github.com/f11-ff/terms-and-conditions-analyzer/internal/model"
)

// Scorer assigns risk points to sentences by summing the weights of every
// trigger phrase found in them, case-insensitively.
type Scorer struct {
	triggers []trigger
}

type trigger struct {
	phrase string
	points int
}

// NewScorer creates a scorer for the given trigger weight table. A nil table
// selects the built-in defaults; an empty table scores everything zero.
// Triggers are evaluated in sorted phrase order so reported hits are
// deterministic.
func NewScorer(scores map[string]int) *Scorer {
	if scores == nil {
		scores = model.DefaultRiskScores()
	}

	lowered := make(map[string]int, len(scores))
	for phrase, pts := range scores {
		lowered[strings.ToLower(phrase)] = pts
	}

	triggers := make([]trigger, 0, len(lowered))
	for phrase, pts := range lowered {
		triggers = append(triggers, trigger{phrase: phrase, points: pts})
	}
	sort.Slice(triggers, func(i, j int) bool { return triggers[i].phrase < triggers[j].phrase })

	return &Scorer{triggers: triggers}
}

// Score returns the summed points of all trigger phrases present in the
// sentence, plus the phrases that fired.
func (s *Scorer) Score(sentence string) (int, []string) {
	lower := strings.ToLower(sentence)

	score := 0
	var hits []string
	for _, tr := range s.triggers {
		if strings.Contains(lower, tr.phrase) {
			score += tr.points
			hits = append(hits, tr.phrase)
		}
	}
	return score, hits
}
