package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/f11-ff/terms-and-conditions-analyzer/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResult() *model.DocumentResult {
	return &model.DocumentResult{
		OverallRiskScore: 66.7,
		AISummary:        "Arbitration and data sharing dominate the risk profile.",
		RawText:          "You agree to binding Arbitration. We share data with partners.",
		Categories: []model.CategoryResult{
			{
				Category:        "Dispute Resolution",
				CategorySummary: "Disputes go to arbitration.",
				CategoryRisk:    model.RiskMedium,
				Bullets: []model.Clause{
					{
						Text:         "You agree to binding Arbitration.",
						Risk:         model.RiskMedium,
						Rationale:    []string{"arbitrat"},
						RiskTriggers: []string{"arbitrat"},
						Provenance:   model.Provenance{Location: "Page 1"},
						Score:        3,
					},
				},
			},
			{
				Category:        "Data Sharing",
				CategorySummary: "Data goes to partners.",
				CategoryRisk:    model.RiskLow,
				Bullets: []model.Clause{
					{
						Text:       "We share data with partners.",
						Risk:       model.RiskLow,
						Rationale:  []string{"share", "partner"},
						Provenance: model.Provenance{Location: "Page 2"},
						Score:      1,
					},
				},
			},
		},
	}
}

func TestSaveAndGetAnalysis(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.SaveAnalysis(ctx, "https://example.com/terms", "url", sampleResult())
	if err != nil {
		t.Fatalf("SaveAnalysis failed: %v", err)
	}
	if id == 0 {
		t.Fatal("Expected non-zero analysis ID")
	}

	a, err := s.GetAnalysis(ctx, id)
	if err != nil {
		t.Fatalf("GetAnalysis failed: %v", err)
	}

	if a.Source != "https://example.com/terms" {
		t.Errorf("Expected source URL, got %q", a.Source)
	}
	if a.Kind != "url" {
		t.Errorf("Expected kind 'url', got %q", a.Kind)
	}
	if a.OverallRisk != 66.7 {
		t.Errorf("Expected overall risk 66.7, got %v", a.OverallRisk)
	}
	if a.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set")
	}
	if a.Result == nil {
		t.Fatal("Expected stored result to be loaded")
	}
	if len(a.Result.Categories) != 2 {
		t.Fatalf("Expected 2 categories, got %d", len(a.Result.Categories))
	}
	if got := a.Result.Categories[0].Bullets[0].Text; got != "You agree to binding Arbitration." {
		t.Errorf("Unexpected clause text: %q", got)
	}
}

func TestGetAnalysisMissing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetAnalysis(context.Background(), 42)
	if err == nil {
		t.Fatal("Expected error for missing analysis, got nil")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("Expected not-found error, got %v", err)
	}
}

func TestListAnalysesNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id1, err := s.SaveAnalysis(ctx, "first.txt", "file", sampleResult())
	if err != nil {
		t.Fatalf("SaveAnalysis failed: %v", err)
	}
	id2, err := s.SaveAnalysis(ctx, "second.txt", "file", sampleResult())
	if err != nil {
		t.Fatalf("SaveAnalysis failed: %v", err)
	}

	analyses, err := s.ListAnalyses(ctx, 0)
	if err != nil {
		t.Fatalf("ListAnalyses failed: %v", err)
	}
	if len(analyses) != 2 {
		t.Fatalf("Expected 2 analyses, got %d", len(analyses))
	}
	if analyses[0].ID != id2 || analyses[1].ID != id1 {
		t.Errorf("Expected newest first, got IDs %d, %d", analyses[0].ID, analyses[1].ID)
	}
	if analyses[0].Result != nil {
		t.Error("Expected listings to omit full results")
	}

	limited, err := s.ListAnalyses(ctx, 1)
	if err != nil {
		t.Fatalf("ListAnalyses failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("Expected 1 analysis with limit, got %d", len(limited))
	}
}

func TestDeleteAnalysisCascades(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.SaveAnalysis(ctx, "terms.txt", "file", sampleResult())
	if err != nil {
		t.Fatalf("SaveAnalysis failed: %v", err)
	}

	if err := s.DeleteAnalysis(ctx, id); err != nil {
		t.Fatalf("DeleteAnalysis failed: %v", err)
	}

	if _, err := s.GetAnalysis(ctx, id); err == nil {
		t.Error("Expected deleted analysis to be gone")
	}

	hits, err := s.SearchClauses(ctx, "arbitration", 0)
	if err != nil {
		t.Fatalf("SearchClauses failed: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("Expected clauses removed with their analysis, got %d hits", len(hits))
	}

	if err := s.DeleteAnalysis(ctx, id); err == nil {
		t.Error("Expected error deleting missing analysis")
	}
}

func TestSearchClauses(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.SaveAnalysis(ctx, "terms.txt", "file", sampleResult())
	if err != nil {
		t.Fatalf("SaveAnalysis failed: %v", err)
	}

	// LIKE matching is case-insensitive for ASCII.
	hits, err := s.SearchClauses(ctx, "arbitration", 0)
	if err != nil {
		t.Fatalf("SearchClauses failed: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("Expected 1 hit, got %d", len(hits))
	}
	if hits[0].AnalysisID != id {
		t.Errorf("Expected hit from analysis %d, got %d", id, hits[0].AnalysisID)
	}
	if hits[0].Category != "Dispute Resolution" {
		t.Errorf("Unexpected category: %q", hits[0].Category)
	}
	if hits[0].Location != "Page 1" {
		t.Errorf("Unexpected location: %q", hits[0].Location)
	}

	hits, err = s.SearchClauses(ctx, "data", 0)
	if err != nil {
		t.Fatalf("SearchClauses failed: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("Expected 1 hit for 'data', got %d", len(hits))
	}

	hits, err = s.SearchClauses(ctx, "no such phrase", 0)
	if err != nil {
		t.Fatalf("SearchClauses failed: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("Expected no hits, got %d", len(hits))
	}
}

func TestSearchClausesOrdersByScore(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.SaveAnalysis(ctx, "terms.txt", "file", sampleResult()); err != nil {
		t.Fatalf("SaveAnalysis failed: %v", err)
	}

	// Both stored clauses mention a shared word in different categories.
	hits, err := s.SearchClauses(ctx, "e", 0)
	if err != nil {
		t.Fatalf("SearchClauses failed: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("Expected 2 hits, got %d", len(hits))
	}
	if hits[0].Score < hits[1].Score {
		t.Errorf("Expected highest score first, got %d then %d", hits[0].Score, hits[1].Score)
	}
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "history.db")

	s, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected database file at %s, got %v", path, err)
	}
}
