package ingest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"nngkb/internal/article"
	"nngkb/internal/models"
)

// ErrNoSlug is returned when an article's URL yields no usable filename.
var ErrNoSlug = errors.New("cannot derive slug from article URL")

// Render writes an extracted article back out in the corpus markdown
// convention: title, source line, horizontal rule, repeated title block,
// body, trailing tags and related lists.
func Render(art *models.Article) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", art.Title)
	fmt.Fprintf(&sb, "Source: %s\n\n", art.SourceURL)
	sb.WriteString("---\n\n")
	fmt.Fprintf(&sb, "# %s\n\n", art.Title)

	if byline := article.FormatByline(art.Authors); byline != "" {
		sb.WriteString(byline + "\n\n")
	}

	if art.DateRaw != "" {
		sb.WriteString(art.DateRaw + "\n\n")
	}

	if art.Summary != "" {
		fmt.Fprintf(&sb, "Summary: %s\n\n", art.Summary)
	}

	if art.Body != "" {
		sb.WriteString(strings.TrimSpace(art.Body) + "\n\n")
	}

	if len(art.Tags) > 0 {
		fmt.Fprintf(&sb, "Topics: %s\n\n", strings.Join(art.Tags, ", "))
	}

	if len(art.RelatedArticles) > 0 {
		sb.WriteString("Related Articles:\n\n")

		for _, rel := range art.RelatedArticles {
			fmt.Fprintf(&sb, "- [%s](%s)\n", rel.Title, rel.URL)
		}

		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// Export writes the article into the corpus directory as <slug>.md and
// returns the written path.
func Export(art *models.Article, corpusRoot string) (string, error) {
	slug := article.SlugFromURL(art.SourceURL)
	if slug == "" {
		return "", fmt.Errorf("%w: %s", ErrNoSlug, art.SourceURL)
	}

	if err := os.MkdirAll(corpusRoot, 0755); err != nil {
		return "", fmt.Errorf("failed to create corpus directory: %w", err)
	}

	path := filepath.Join(corpusRoot, slug+".md")

	if err := os.WriteFile(path, []byte(Render(art)), 0644); err != nil {
		return "", fmt.Errorf("failed to write article file: %w", err)
	}

	return path, nil
}
