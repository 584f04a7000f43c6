package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nngkb/internal/article"
	"nngkb/internal/models"
)

func exportArticle() *models.Article {
	return &models.Article{
		Title:     "Sample Article",
		SourceURL: "https://www.nngroup.com/articles/sample-article/",
		Authors:   []string{"Jakob Nielsen", "Kate Moran"},
		DateRaw:   "January 5, 2024",
		Summary:   "A short summary.",
		Body:      "## First Section\n\nParagraph one.",
		Tags:      []string{"Usability", "Research"},
		RelatedArticles: []models.RelatedLink{
			{Title: "Other Article", URL: "https://www.nngroup.com/articles/other-article/"},
		},
	}
}

func TestRender_Convention(t *testing.T) {
	out := Render(exportArticle())

	if !strings.HasPrefix(out, "# Sample Article\n\nSource: https://www.nngroup.com/articles/sample-article/\n\n---\n\n# Sample Article\n") {
		t.Errorf("Unexpected document head:\n%s", out)
	}

	if !strings.Contains(out, "by Jakob Nielsen and Kate Moran\n") {
		t.Errorf("Expected byline, got:\n%s", out)
	}

	if !strings.Contains(out, "Summary: A short summary.\n") {
		t.Errorf("Expected summary line, got:\n%s", out)
	}

	if !strings.Contains(out, "Topics: Usability, Research\n") {
		t.Errorf("Expected topics line, got:\n%s", out)
	}

	if !strings.Contains(out, "- [Other Article](https://www.nngroup.com/articles/other-article/)") {
		t.Errorf("Expected related article entry, got:\n%s", out)
	}

	if !strings.HasSuffix(out, "\n") {
		t.Error("Expected trailing newline")
	}
}

func TestRender_RoundTripsThroughParser(t *testing.T) {
	out := Render(exportArticle())

	parsed, err := article.NewParser().ParseArticle(out)
	if err != nil {
		t.Fatalf("Rendered document failed to parse: %v", err)
	}

	if parsed.Title != "Sample Article" {
		t.Errorf("Round-trip title mismatch: %q", parsed.Title)
	}

	if parsed.SourceURL != "https://www.nngroup.com/articles/sample-article/" {
		t.Errorf("Round-trip source mismatch: %q", parsed.SourceURL)
	}

	if len(parsed.Authors) != 2 {
		t.Errorf("Round-trip authors mismatch: %v", parsed.Authors)
	}

	if len(parsed.Tags) != 2 {
		t.Errorf("Round-trip tags mismatch: %v", parsed.Tags)
	}

	if len(parsed.RelatedArticles) != 1 {
		t.Errorf("Round-trip related articles mismatch: %v", parsed.RelatedArticles)
	}
}

func TestRender_OmitsEmptyParts(t *testing.T) {
	art := &models.Article{
		Title:     "Minimal",
		SourceURL: "https://www.nngroup.com/articles/minimal/",
		Body:      "Just body.",
	}

	out := Render(art)

	if strings.Contains(out, "by ") {
		t.Error("Expected no byline for author-less article")
	}

	if strings.Contains(out, "Summary:") {
		t.Error("Expected no summary line")
	}

	if strings.Contains(out, "Topics:") {
		t.Error("Expected no topics line")
	}

	if strings.Contains(out, "Related Articles:") {
		t.Error("Expected no related list")
	}
}

func TestExport(t *testing.T) {
	tmpDir := t.TempDir()
	corpusRoot := filepath.Join(tmpDir, "corpus")

	path, err := Export(exportArticle(), corpusRoot)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if filepath.Base(path) != "sample-article.md" {
		t.Errorf("Expected slug-named file, got %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read exported file: %v", err)
	}

	if !strings.HasPrefix(string(data), "# Sample Article\n") {
		t.Errorf("Unexpected exported content:\n%s", data)
	}
}

func TestExport_NoSlug(t *testing.T) {
	art := &models.Article{Title: "No URL", SourceURL: "https://www.nngroup.com/"}

	if _, err := Export(art, t.TempDir()); !errors.Is(err, ErrNoSlug) {
		t.Fatalf("Expected ErrNoSlug, got %v", err)
	}
}
