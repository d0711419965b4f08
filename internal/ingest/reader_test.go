package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPagesFromTextSinglePage(t *testing.T) {
	pages := PagesFromText("You agree to binding arbitration.")

	if len(pages) != 1 {
		t.Fatalf("Expected 1 page, got %d", len(pages))
	}
	if pages[1] != "You agree to binding arbitration." {
		t.Errorf("Unexpected page text: %q", pages[1])
	}
}

func TestPagesFromTextFormFeedBoundaries(t *testing.T) {
	pages := PagesFromText("First page.\fSecond page.\fThird page.")

	if len(pages) != 3 {
		t.Fatalf("Expected 3 pages, got %d", len(pages))
	}
	if pages[2] != "Second page." {
		t.Errorf("Expected 'Second page.' at page 2, got %q", pages[2])
	}
}

func TestPagesFromTextBlankPageKeepsNumbering(t *testing.T) {
	pages := PagesFromText("First page.\f   \fThird page.")

	if len(pages) != 2 {
		t.Fatalf("Expected 2 pages, got %d", len(pages))
	}
	if _, ok := pages[2]; ok {
		t.Error("Expected blank page 2 to be skipped")
	}
	if pages[3] != "Third page." {
		t.Errorf("Expected third page to keep number 3, got %q", pages[3])
	}
}

func TestPagesFromTextEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\f\f"} {
		pages := PagesFromText(input)
		if len(pages) != 0 {
			t.Errorf("Expected no pages for %q, got %d", input, len(pages))
		}
		if pages == nil {
			t.Errorf("Expected non-nil map for %q", input)
		}
	}
}

func TestReadFilePlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terms.txt")
	content := "Page one text.\fPage two text."
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	doc, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	if doc.Kind != "file" {
		t.Errorf("Expected kind 'file', got %q", doc.Kind)
	}
	if doc.Source != path {
		t.Errorf("Expected source %q, got %q", path, doc.Source)
	}
	if len(doc.Pages) != 2 {
		t.Fatalf("Expected 2 pages, got %d", len(doc.Pages))
	}
	if doc.Pages[2] != "Page two text." {
		t.Errorf("Unexpected page 2: %q", doc.Pages[2])
	}
}

func TestReadFileExtractsHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terms.html")
	content := "<html><body><script>var x = 1;</script><p>We share your data with partners.</p></body></html>"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	doc, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	if len(doc.Pages) != 1 {
		t.Fatalf("Expected 1 page, got %d", len(doc.Pages))
	}
	if !strings.Contains(doc.Pages[1], "We share your data with partners.") {
		t.Errorf("Expected extracted clause, got %q", doc.Pages[1])
	}
	if strings.Contains(doc.Pages[1], "var x") {
		t.Errorf("Expected script content to be stripped, got %q", doc.Pages[1])
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.txt"))
	if err == nil {
		t.Fatal("Expected error for missing file, got nil")
	}
}

func TestReadStdin(t *testing.T) {
	doc, err := ReadStdin(strings.NewReader("Pasted terms text."))
	if err != nil {
		t.Fatalf("ReadStdin failed: %v", err)
	}

	if doc.Kind != "stdin" {
		t.Errorf("Expected kind 'stdin', got %q", doc.Kind)
	}
	if doc.Pages[1] != "Pasted terms text." {
		t.Errorf("Unexpected page text: %q", doc.Pages[1])
	}
}
