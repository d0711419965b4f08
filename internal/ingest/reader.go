package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Document is a loaded terms-and-conditions document ready for analysis.
type Document struct {
	Source string         // file path, URL, or "stdin"
	Kind   string         // "file", "url", or "stdin"
	Pages  map[int]string // 1-based page numbers
}

// PagesFromText splits raw text into numbered pages. Form feed
// characters mark page boundaries, as emitted by most PDF-to-text
// converters. Text without form feeds becomes a single page, and blank
// pages are skipped without renumbering so provenance stays aligned
// with the physical document.
func PagesFromText(text string) map[int]string {
	pages := make(map[int]string)
	for i, part := range strings.Split(text, "\f") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		pages[i+1] = part
	}
	return pages
}

// ReadFile loads a document from disk. Files with an .html or .htm
// extension are reduced to their visible text first.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	text := string(data)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		text, err = VisibleText(strings.NewReader(text))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	return &Document{
		Source: path,
		Kind:   "file",
		Pages:  PagesFromText(text),
	}, nil
}

// ReadStdin loads a document from the given reader, typically os.Stdin.
func ReadStdin(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}

	return &Document{
		Source: "stdin",
		Kind:   "stdin",
		Pages:  PagesFromText(string(data)),
	}, nil
}
