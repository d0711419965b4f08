package classify

import (
	"sort"
	"strings"

	"github.com/f11-ff/terms-and-conditions-analyzer/internal/model"
)

// Tagger assigns sentences to clause categories by case-insensitive
// substring matching against a keyword table.
type Tagger struct {
	keywords map[string][]keyword
}

// keyword carries both spellings so matching is case-insensitive while the
// reported rationale keeps the configured form.
type keyword struct {
	raw   string
	lower string
}

// NewTagger creates a tagger for the given category-to-keyword table. A nil
// table selects the built-in defaults; an empty table tags nothing.
func NewTagger(keywords map[string][]string) *Tagger {
	if keywords == nil {
		keywords = model.DefaultKeywords()
	}

	kws := make(map[string][]keyword, len(keywords))
	for cat, list := range keywords {
		entries := make([]keyword, 0, len(list))
		for _, kw := range list {
			entries = append(entries, keyword{raw: kw, lower: strings.ToLower(kw)})
		}
		kws[cat] = entries
	}
	return &Tagger{keywords: kws}
}

// Tag returns every category the sentence matches, mapped to the keywords
// that hit in their configured order. Sentences matching nothing return an
// empty map.
func (t *Tagger) Tag(sentence string) map[string][]string {
	lower := strings.ToLower(sentence)

	hits := make(map[string][]string)
	for cat, kws := range t.keywords {
		var matched []string
		for _, kw := range kws {
			if strings.Contains(lower, kw.lower) {
				matched = append(matched, kw.raw)
			}
		}
		if len(matched) > 0 {
			hits[cat] = matched
		}
	}
	return hits
}

// Categories returns the tagger's category names in sorted order.
func (t *Tagger) Categories() []string {
	cats := make([]string, 0, len(t.keywords))
	for cat := range t.keywords {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	return cats
}
