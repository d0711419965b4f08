package model

// Sentence is one segmented sentence tagged with its source page.
// Sentences are ephemeral: the segmenter produces them, the tagger and
// scorer consume them, and they are discarded after aggregation.
type Sentence struct {
	Text  string `json:"text"`
	Page  int    `json:"page"`
	Index int    `json:"index"` // 0-based order within the document
}

// Clause is a sentence that matched at least one category's keyword list.
// One Clause is created per (sentence, category) pair and never mutated
// after creation.
type Clause struct {
	Text string   `json:"text"`
	Risk RiskBand `json:"risk"`

	// Rationale lists the category keywords that tagged this clause into
	// its category. RiskTriggers lists the weight-table phrases that
	// contributed to Score. The two are distinct vocabularies and are
	// never conflated.
	Rationale    []string `json:"rationale"`
	RiskTriggers []string `json:"risk_triggers,omitempty"`

	Provenance Provenance `json:"provenance"`
	Score      int        `json:"score"`
}

// Provenance records where a clause came from, for traceability back to
// the source text.
type Provenance struct {
	Snippet  string `json:"snippet,omitempty"`
	Location string `json:"location"` // e.g. "Page 3"
}
