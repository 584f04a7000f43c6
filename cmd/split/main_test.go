package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nngkb/internal/article"
	"nngkb/internal/corpus"
)

const splitTestSep = "<|RELATED_DOC_SEP-magic-4c1d9e|>"

const firstArticle = `# Usability Testing 101

Source: https://www.nngroup.com/articles/usability-testing-101/
`

const secondArticle = `# Checklist for Planning Usability Studies

Source: https://www.nngroup.com/articles/usability-test-checklist/
`

// writeCorpusFile creates a corpus file for split tests.
func writeCorpusFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
}

func TestSplitFile_SegmentReclaimsOriginalPath(t *testing.T) {
	tmpDir := t.TempDir()

	// The file is named after its first article's slug, as the ingest
	// exporter names files.
	path := filepath.Join(tmpDir, "usability-testing-101.md")
	writeCorpusFile(t, path, firstArticle+"\n"+splitTestSep+"\n\n"+secondArticle)

	outPaths, err := splitFile(corpus.NewScanner(tmpDir), article.NewParser(), path, true, false)
	if err != nil {
		t.Fatalf("splitFile failed: %v", err)
	}

	if len(outPaths) != 2 {
		t.Fatalf("Expected 2 output paths, got %d", len(outPaths))
	}

	if outPaths[0] != path {
		t.Errorf("Expected first segment to claim %s, got %s", path, outPaths[0])
	}

	// The original path now holds the first article and must survive the
	// post-split removal.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("First article file lost: %v", err)
	}

	if !strings.Contains(string(data), "# Usability Testing 101") {
		t.Errorf("Expected first article at original path, got %q", string(data))
	}

	if strings.Contains(string(data), splitTestSep) || strings.Contains(string(data), "Checklist") {
		t.Errorf("Expected original path to hold only the first article, got %q", string(data))
	}

	second, err := os.ReadFile(filepath.Join(tmpDir, "usability-test-checklist.md"))
	if err != nil {
		t.Fatalf("Second article file missing: %v", err)
	}

	if !strings.Contains(string(second), "# Checklist for Planning Usability Studies") {
		t.Errorf("Expected second article content, got %q", string(second))
	}
}

func TestSplitFile_DistinctSlugsRemoveOriginal(t *testing.T) {
	tmpDir := t.TempDir()

	path := filepath.Join(tmpDir, "pair.md")
	writeCorpusFile(t, path, firstArticle+"\n"+splitTestSep+"\n\n"+secondArticle)

	outPaths, err := splitFile(corpus.NewScanner(tmpDir), article.NewParser(), path, true, false)
	if err != nil {
		t.Fatalf("splitFile failed: %v", err)
	}

	if len(outPaths) != 2 {
		t.Fatalf("Expected 2 output paths, got %d", len(outPaths))
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Expected original %s to be removed", path)
	}

	for _, name := range []string{"usability-testing-101.md", "usability-test-checklist.md"} {
		if _, err := os.Stat(filepath.Join(tmpDir, name)); err != nil {
			t.Errorf("Expected split file %s: %v", name, err)
		}
	}
}

func TestSplitFile_KeepRetainsOriginal(t *testing.T) {
	tmpDir := t.TempDir()

	path := filepath.Join(tmpDir, "pair.md")
	writeCorpusFile(t, path, firstArticle+"\n"+splitTestSep+"\n\n"+secondArticle)

	if _, err := splitFile(corpus.NewScanner(tmpDir), article.NewParser(), path, true, true); err != nil {
		t.Fatalf("splitFile failed: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected original to be kept: %v", err)
	}
}

func TestSplitFile_DryRunWritesNothing(t *testing.T) {
	tmpDir := t.TempDir()

	path := filepath.Join(tmpDir, "pair.md")
	content := firstArticle + "\n" + splitTestSep + "\n\n" + secondArticle
	writeCorpusFile(t, path, content)

	outPaths, err := splitFile(corpus.NewScanner(tmpDir), article.NewParser(), path, false, false)
	if err != nil {
		t.Fatalf("splitFile failed: %v", err)
	}

	if len(outPaths) != 2 {
		t.Fatalf("Expected 2 output paths, got %d", len(outPaths))
	}

	data, err := os.ReadFile(path)
	if err != nil || string(data) != content {
		t.Errorf("Expected original untouched in dry-run, err=%v", err)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, "usability-test-checklist.md")); !os.IsNotExist(err) {
		t.Errorf("Expected no files written in dry-run")
	}
}

func TestSplitFile_SingleArticleSkipped(t *testing.T) {
	tmpDir := t.TempDir()

	path := filepath.Join(tmpDir, "usability-testing-101.md")
	writeCorpusFile(t, path, firstArticle)

	outPaths, err := splitFile(corpus.NewScanner(tmpDir), article.NewParser(), path, true, false)
	if err != nil {
		t.Fatalf("splitFile failed: %v", err)
	}

	if outPaths != nil {
		t.Errorf("Expected nil output paths for single-article file, got %v", outPaths)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected single-article file untouched: %v", err)
	}
}

func TestSegmentPaths_DuplicateSlugsFallBackToOrdinal(t *testing.T) {
	segments := []corpus.Segment{
		{Content: firstArticle, StartLine: 1},
		{Content: firstArticle, StartLine: 6},
	}

	paths := segmentPaths(article.NewParser(), filepath.Join("corpus", "dupes.md"), segments)

	if paths[0] != filepath.Join("corpus", "usability-testing-101.md") {
		t.Errorf("Expected slug path for first segment, got %s", paths[0])
	}

	if paths[1] != filepath.Join("corpus", "dupes-02.md") {
		t.Errorf("Expected ordinal fallback for duplicate slug, got %s", paths[1])
	}
}

func TestSegmentPaths_SluglessSegmentUsesOrdinal(t *testing.T) {
	segments := []corpus.Segment{
		{Content: firstArticle, StartLine: 1},
		{Content: "no title here\n", StartLine: 6},
	}

	paths := segmentPaths(article.NewParser(), filepath.Join("corpus", "pair.md"), segments)

	if paths[1] != filepath.Join("corpus", "pair-02.md") {
		t.Errorf("Expected ordinal fallback for slugless segment, got %s", paths[1])
	}
}
