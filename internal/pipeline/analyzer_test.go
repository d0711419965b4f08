package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/f11-ff/terms-and-conditions-analyzer/internal/model"
)

// stubSummarizer records every call and returns canned text, keeping
// analyzer tests deterministic and offline.
type stubSummarizer struct {
	categoryInputs []string
	documentInputs []string
}

func (s *stubSummarizer) Summarize(ctx context.Context, text string, maxLen, minLen int) string {
	s.categoryInputs = append(s.categoryInputs, text)
	return "condensed category"
}

func (s *stubSummarizer) SummarizeDocument(ctx context.Context, text string, maxLen, minLen int) string {
	s.documentInputs = append(s.documentInputs, text)
	return "condensed document"
}

func findCategory(t *testing.T, result *model.DocumentResult, name string) model.CategoryResult {
	t.Helper()
	for _, cat := range result.Categories {
		if cat.Category == name {
			return cat
		}
	}
	t.Fatalf("Expected category '%s' in result, got %d categories", name, len(result.Categories))
	return model.CategoryResult{}
}

func TestAnalyzer_TagsAndScores(t *testing.T) {
	cfg := &model.Config{
		Keywords: map[string][]string{
			"Data Sharing": {"share", "third party"},
			"Restrictions": {"reverse engineer", "you agree not to"},
		},
		RiskScores: map[string]int{"share": 1, "third party": 0},
	}
	analyzer := NewAnalyzerWithSummarizer(cfg, &stubSummarizer{})

	pages := map[int]string{
		1: "We may share your personal data with third party advertisers. You agree not to reverse engineer this software.",
	}

	result := analyzer.Process(context.Background(), pages)

	if len(result.Categories) != 2 {
		t.Fatalf("Expected 2 categories, got %d", len(result.Categories))
	}

	sharing := findCategory(t, result, "Data Sharing")
	if len(sharing.Bullets) != 1 {
		t.Fatalf("Expected 1 Data Sharing clause, got %d", len(sharing.Bullets))
	}

	clause := sharing.Bullets[0]
	if clause.Score != 1 {
		t.Errorf("Expected score 1, got %d", clause.Score)
	}
	if clause.Risk != model.RiskLow {
		t.Errorf("Expected Low risk, got %s", clause.Risk)
	}

	// Rationale lists the category keywords that matched, in table order.
	wantRationale := []string{"share", "third party"}
	if len(clause.Rationale) != len(wantRationale) {
		t.Fatalf("Expected rationale %v, got %v", wantRationale, clause.Rationale)
	}
	for i := range wantRationale {
		if clause.Rationale[i] != wantRationale[i] {
			t.Errorf("Rationale %d: expected '%s', got '%s'", i, wantRationale[i], clause.Rationale[i])
		}
	}

	// Both weight-table keys matched, including the zero-point one.
	foundShare, foundThirdParty := false, false
	for _, tr := range clause.RiskTriggers {
		if tr == "share" {
			foundShare = true
		}
		if tr == "third party" {
			foundThirdParty = true
		}
	}
	if !foundShare || !foundThirdParty {
		t.Errorf("Expected both triggers to be recorded, got %v", clause.RiskTriggers)
	}

	restrictions := findCategory(t, result, "Restrictions")
	if len(restrictions.Bullets) != 1 {
		t.Fatalf("Expected 1 Restrictions clause, got %d", len(restrictions.Bullets))
	}
	if restrictions.Bullets[0].Score != 0 {
		t.Errorf("Expected score 0, got %d", restrictions.Bullets[0].Score)
	}
	if restrictions.Bullets[0].Risk != model.RiskLow {
		t.Errorf("Expected Low risk, got %s", restrictions.Bullets[0].Risk)
	}
}

func TestAnalyzer_BandBoundaries(t *testing.T) {
	cases := []struct {
		phrase string
		points int
		want   model.RiskBand
	}{
		{"grave danger", 7, model.RiskHigh},
		{"moderate concern", 4, model.RiskMedium},
		{"minor detail", 1, model.RiskLow},
	}

	for _, tc := range cases {
		cfg := &model.Config{
			Keywords:   map[string][]string{"Test": {"clause"}},
			RiskScores: map[string]int{tc.phrase: tc.points},
		}
		analyzer := NewAnalyzerWithSummarizer(cfg, &stubSummarizer{})

		pages := map[int]string{1: "This clause contains " + tc.phrase + " for everyone."}
		result := analyzer.Process(context.Background(), pages)

		cat := findCategory(t, result, "Test")
		if len(cat.Bullets) != 1 {
			t.Fatalf("Expected 1 clause for %d points, got %d", tc.points, len(cat.Bullets))
		}
		if cat.Bullets[0].Risk != tc.want {
			t.Errorf("%d points: expected %s, got %s", tc.points, tc.want, cat.Bullets[0].Risk)
		}
		if cat.CategoryRisk != tc.want {
			t.Errorf("%d points: expected category risk %s, got %s", tc.points, tc.want, cat.CategoryRisk)
		}
	}
}

func TestAnalyzer_DeduplicatesAcrossPages(t *testing.T) {
	analyzer := NewAnalyzerWithSummarizer(model.DefaultConfig(), &stubSummarizer{})

	repeated := "Your account may be suspended immediately without notice."
	pages := map[int]string{
		1: repeated,
		3: repeated,
	}

	result := analyzer.Process(context.Background(), pages)

	termination := findCategory(t, result, "Termination")
	if len(termination.Bullets) != 1 {
		t.Fatalf("Expected 1 deduplicated clause, got %d", len(termination.Bullets))
	}
	if termination.Bullets[0].Provenance.Location != "Page 1" {
		t.Errorf("Expected first-seen provenance 'Page 1', got '%s'",
			termination.Bullets[0].Provenance.Location)
	}
}

func TestAnalyzer_EmptyInput(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.LLM.Provider = ""
	analyzer := NewAnalyzer(cfg)

	result := analyzer.Process(context.Background(), map[int]string{})

	// Declared categories are all emitted, each with empty bullets.
	if len(result.Categories) != len(model.DefaultCategories()) {
		t.Fatalf("Expected %d categories, got %d", len(model.DefaultCategories()), len(result.Categories))
	}
	for _, cat := range result.Categories {
		if cat.Bullets == nil {
			t.Errorf("Expected non-nil bullets for %s", cat.Category)
		}
		if len(cat.Bullets) != 0 {
			t.Errorf("Expected no bullets for %s, got %d", cat.Category, len(cat.Bullets))
		}
		if cat.CategoryRisk != model.RiskLow {
			t.Errorf("Expected Low risk for empty %s, got %s", cat.Category, cat.CategoryRisk)
		}
		if cat.CategorySummary != "" {
			t.Errorf("Expected empty summary for %s, got '%s'", cat.Category, cat.CategorySummary)
		}
	}

	if result.OverallRiskScore != 0 {
		t.Errorf("Expected overall risk score 0, got %f", result.OverallRiskScore)
	}
	if result.RawText != "" {
		t.Errorf("Expected empty raw text, got '%s'", result.RawText)
	}
	if result.AISummary != "" {
		t.Errorf("Expected empty summary, got '%s'", result.AISummary)
	}
}

func TestAnalyzer_DeclaredOrderPreserved(t *testing.T) {
	cfg := &model.Config{
		Categories: []string{"Termination", "Data Collection", "Dispute Resolution"},
	}
	analyzer := NewAnalyzerWithSummarizer(cfg, &stubSummarizer{})

	pages := map[int]string{1: "We collect usage data. Accounts face termination for misuse."}
	result := analyzer.Process(context.Background(), pages)

	want := []string{"Termination", "Data Collection", "Dispute Resolution"}
	if len(result.Categories) != len(want) {
		t.Fatalf("Expected %d categories, got %d", len(want), len(result.Categories))
	}
	for i := range want {
		if result.Categories[i].Category != want[i] {
			t.Errorf("Position %d: expected '%s', got '%s'", i, want[i], result.Categories[i].Category)
		}
	}

	// Dispute Resolution matched nothing but still appears, empty.
	dispute := result.Categories[2]
	if len(dispute.Bullets) != 0 {
		t.Errorf("Expected empty Dispute Resolution, got %d bullets", len(dispute.Bullets))
	}
}

func TestAnalyzer_DerivedCategoriesOmitEmpty(t *testing.T) {
	cfg := &model.Config{
		Keywords: map[string][]string{
			"Billing":  {"refund"},
			"Privacy":  {"personal data"},
			"Security": {"encryption"},
		},
	}
	analyzer := NewAnalyzerWithSummarizer(cfg, &stubSummarizer{})

	pages := map[int]string{1: "No refund is available after purchase."}
	result := analyzer.Process(context.Background(), pages)

	if len(result.Categories) != 1 {
		t.Fatalf("Expected only the matched category, got %d", len(result.Categories))
	}
	if result.Categories[0].Category != "Billing" {
		t.Errorf("Expected 'Billing', got '%s'", result.Categories[0].Category)
	}
}

func TestAnalyzer_SentenceInMultipleCategories(t *testing.T) {
	analyzer := NewAnalyzerWithSummarizer(model.DefaultConfig(), &stubSummarizer{})

	pages := map[int]string{1: "We may share the personal data we collect with each partner."}
	result := analyzer.Process(context.Background(), pages)

	collection := findCategory(t, result, "Data Collection")
	sharing := findCategory(t, result, "Data Sharing")

	if len(collection.Bullets) != 1 || len(sharing.Bullets) != 1 {
		t.Fatalf("Expected the sentence under both categories, got %d and %d",
			len(collection.Bullets), len(sharing.Bullets))
	}
	if collection.Bullets[0].Text != sharing.Bullets[0].Text {
		t.Error("Expected the same clause text under both categories")
	}
}

func TestAnalyzer_RawTextPageMarkers(t *testing.T) {
	analyzer := NewAnalyzerWithSummarizer(model.DefaultConfig(), &stubSummarizer{})

	pages := map[int]string{
		2: "Second page text.",
		1: "First page text.",
	}
	result := analyzer.Process(context.Background(), pages)

	want := "--- Page 1 ---\nFirst page text.\n--- Page 2 ---\nSecond page text."
	if result.RawText != want {
		t.Errorf("Expected raw text with ordered page markers:\n%s\ngot:\n%s", want, result.RawText)
	}
}

func TestAnalyzer_SummarizerReceivesJoinedClauses(t *testing.T) {
	stub := &stubSummarizer{}
	cfg := &model.Config{
		Keywords:   map[string][]string{"Billing": {"refund"}, "Privacy": {"personal data"}},
		RiskScores: map[string]int{},
	}
	analyzer := NewAnalyzerWithSummarizer(cfg, stub)

	pages := map[int]string{1: "No refund is available. We store personal data indefinitely."}
	result := analyzer.Process(context.Background(), pages)

	if len(stub.categoryInputs) != 2 {
		t.Fatalf("Expected 2 category summarization calls, got %d", len(stub.categoryInputs))
	}
	if len(stub.documentInputs) != 1 {
		t.Fatalf("Expected 1 document summarization call, got %d", len(stub.documentInputs))
	}

	global := stub.documentInputs[0]
	if !strings.Contains(global, "No refund is available.") || !strings.Contains(global, "We store personal data indefinitely.") {
		t.Errorf("Expected document call to include all selected clauses, got '%s'", global)
	}

	if result.AISummary != "condensed document" {
		t.Errorf("Expected stub document summary, got '%s'", result.AISummary)
	}
	for _, cat := range result.Categories {
		if cat.CategorySummary != "condensed category" {
			t.Errorf("Expected stub category summary for %s, got '%s'", cat.Category, cat.CategorySummary)
		}
	}
}

func TestAnalyzer_ResultSerializesRoundTrip(t *testing.T) {
	analyzer := NewAnalyzerWithSummarizer(model.DefaultConfig(), &stubSummarizer{})

	pages := map[int]string{
		1: "We may sell data collected about you. You waive your right to a class action.",
	}
	result := analyzer.Process(context.Background(), pages)

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("Failed to marshal result: %v", err)
	}

	for _, key := range []string{`"ai_summary"`, `"categories"`, `"raw_text"`, `"overall_risk_score"`, `"category_risk"`, `"bullets"`, `"provenance"`, `"location"`, `"rationale"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("Expected serialized result to contain %s", key)
		}
	}

	// Empty declared categories serialize as [], not null.
	if strings.Contains(string(data), `"bullets":null`) {
		t.Error("Expected empty bullets to serialize as [], not null")
	}

	var back model.DocumentResult
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Failed to unmarshal result: %v", err)
	}

	if back.OverallRiskScore != result.OverallRiskScore {
		t.Errorf("Expected overall score %f after round trip, got %f",
			result.OverallRiskScore, back.OverallRiskScore)
	}
	if len(back.Categories) != len(result.Categories) {
		t.Errorf("Expected %d categories after round trip, got %d",
			len(result.Categories), len(back.Categories))
	}
	if back.RawText != result.RawText {
		t.Error("Expected raw text to survive round trip")
	}
}

func TestAnalyzer_OverallScoreReflectsBands(t *testing.T) {
	cfg := &model.Config{
		Keywords:   map[string][]string{"Test": {"clause"}},
		RiskScores: map[string]int{"severe breach": 8},
	}
	analyzer := NewAnalyzerWithSummarizer(cfg, &stubSummarizer{})

	pages := map[int]string{1: "This clause covers a severe breach of trust."}
	result := analyzer.Process(context.Background(), pages)

	// One High clause: 3/3 weight.
	if result.OverallRiskScore != 100 {
		t.Errorf("Expected overall risk score 100, got %f", result.OverallRiskScore)
	}
}
