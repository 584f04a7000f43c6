// Package article parses one knowledge-base entry from its markdown source
// following the NN/g export convention.
package article

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"nngkb/internal/models"
	"nngkb/pkg/metadata"
	"nngkb/pkg/textutil"
)

// Parser errors.
var (
	ErrMissingTitle = errors.New("no H1 title found")
	ErrEmptyContent = errors.New("empty document content")
)

// Trailing list section labels.
const (
	labelRelatedTopics   = "Related Topics"
	labelLearnMore       = "Learn More"
	labelRelatedArticles = "Related Articles"
	labelInThisArticle   = "In This Article"
)

// Parser extracts an Article from the markdown document convention:
// H1 title, "Source:" line, horizontal rule, repeated title, byline, date
// line, "Summary:" line, "In This Article" list, H2/H3 sections, captioned
// images, trailing tags line, and the Related Topics / Learn More / Related
// Articles lists.
type Parser struct {
	titlePattern    *regexp.Regexp
	sourcePattern   *regexp.Regexp
	bylinePattern   *regexp.Regexp
	datePattern     *regexp.Regexp
	summaryPattern  *regexp.Regexp
	tagsPattern     *regexp.Regexp
	headingPattern  *regexp.Regexp
	imagePattern    *regexp.Regexp
	linkPattern     *regexp.Regexp
	listItemPattern *regexp.Regexp
	durationPattern *regexp.Regexp
	italicPattern   *regexp.Regexp
}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{
		titlePattern:  regexp.MustCompile(`^#\s+(.+?)\s*$`),
		sourcePattern: regexp.MustCompile(`^Source:\s*<?([^<>\s]+)>?\s*$`),
		// Byline: "by Jakob Nielsen", "By Raluca Budiu and Kate Moran",
		// possibly with markdown-linked author names
		bylinePattern: regexp.MustCompile(`^[Bb]y\s+(.+?)\s*$`),
		// Date line: "January 5, 2024"
		datePattern:    regexp.MustCompile(`^([A-Z][a-z]+ \d{1,2}, \d{4})\s*(?:[|•].*)?$`),
		summaryPattern: regexp.MustCompile(`^Summary:\s*(.+)$`),
		// Trailing tags line: "Tags: a, b" or "Topics: a, b"
		tagsPattern:     regexp.MustCompile(`^(?:Tags|Topics):\s*(.+)$`),
		headingPattern:  regexp.MustCompile(`^(#{2,3})\s+(.+?)\s*$`),
		imagePattern:    regexp.MustCompile(`!\[([^\]]*)\]\(([^)\s]*)[^)]*\)`),
		linkPattern:     regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`),
		listItemPattern: regexp.MustCompile(`^[-*]\s+(.+?)\s*$`),
		// "(3 minute video)" suffix on Learn More entries
		durationPattern: regexp.MustCompile(`\(([\d]+ ?(?:min(?:ute)?|hr|hour)[a-z]*\.? ?(?:video)?)\)\s*$`),
		italicPattern:   regexp.MustCompile(`^\*([^*].*)\*$|^_([^_].*)_$`),
	}
}

// ParseArticle parses one raw sub-document into an Article. The parser is
// tolerant: missing optional parts leave zero values, only a missing title is
// a hard error. Line numbers in the result refer to the sub-document.
func (p *Parser) ParseArticle(content string) (*models.Article, error) {
	meta, clean := metadata.Extract(content)
	if strings.TrimSpace(clean) == "" {
		return nil, ErrEmptyContent
	}

	art := &models.Article{
		Metadata: meta,
		Body:     clean,
	}

	lines := strings.Split(clean, "\n")

	// The byline and date belong to the title block, which ends at the
	// Summary line or the first section heading. Body prose that happens to
	// start with "By" must not claim them.
	inBody := false

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if art.Title == "" {
			if m := p.titlePattern.FindStringSubmatch(trimmed); m != nil {
				art.Title = m[1]

				continue
			}
		}

		if art.SourceURL == "" {
			if m := p.sourcePattern.FindStringSubmatch(trimmed); m != nil {
				art.SourceURL = m[1]

				continue
			}
		}

		if len(art.Authors) == 0 && !inBody {
			if m := p.bylinePattern.FindStringSubmatch(trimmed); m != nil {
				art.Authors = p.parseAuthors(m[1])

				continue
			}
		}

		if art.DateRaw == "" && !inBody {
			if m := p.datePattern.FindStringSubmatch(trimmed); m != nil {
				art.DateRaw = m[1]
				if t, err := time.Parse("January 2, 2006", m[1]); err == nil {
					art.PublishedAt = t
				}

				continue
			}
		}

		if art.Summary == "" {
			if m := p.summaryPattern.FindStringSubmatch(trimmed); m != nil {
				art.Summary = m[1]
				inBody = true

				continue
			}
		}

		// Tags lines may repeat in concatenated exports; last one wins,
		// matching the "trailing tags line" convention.
		if m := p.tagsPattern.FindStringSubmatch(trimmed); m != nil {
			art.Tags = p.parseTags(m[1])

			continue
		}

		if m := p.headingPattern.FindStringSubmatch(trimmed); m != nil {
			inBody = true

			if !isListLabel(m[2]) {
				art.Sections = append(art.Sections, models.Section{
					Title: m[2],
					Level: len(m[1]),
					Line:  i + 1,
				})
			}

			continue
		}

		for _, m := range p.imagePattern.FindAllStringSubmatch(line, -1) {
			art.Images = append(art.Images, models.ImageRef{
				Alt:     m[1],
				URL:     m[2],
				Caption: p.captionAfter(lines, i),
				Line:    i + 1,
			})
		}
	}

	if art.Title == "" {
		return nil, ErrMissingTitle
	}

	art.TOC = p.parseTOC(lines)
	art.RelatedTopics = p.parseLinkList(lines, labelRelatedTopics)
	art.RelatedArticles = p.parseLinkList(lines, labelRelatedArticles)
	art.LearnMore = p.parseLearnMore(lines)
	art.Slug = SlugFromURL(art.SourceURL)

	words := textutil.CountWords(clean)
	art.Stats = models.ArticleStats{
		Words:          words,
		ReadingMinutes: textutil.ReadingMinutes(words),
		ImageCount:     len(art.Images),
		SectionCount:   len(art.Sections),
	}

	return art, nil
}

// parseAuthors splits a byline into author names. Linked names keep only the
// link text.
func (p *Parser) parseAuthors(byline string) []string {
	byline = p.linkPattern.ReplaceAllString(byline, "$1")
	byline = strings.ReplaceAll(byline, " and ", ",")
	byline = strings.ReplaceAll(byline, " & ", ",")

	var authors []string

	for _, part := range strings.Split(byline, ",") {
		name := textutil.NormalizeWhitespace(part)
		if name != "" {
			authors = append(authors, name)
		}
	}

	return authors
}

// parseTags splits the tags line. Tag entries may be plain or markdown links.
func (p *Parser) parseTags(raw string) []string {
	raw = p.linkPattern.ReplaceAllString(raw, "$1")

	seen := make(map[string]bool)

	var tags []string

	for _, part := range strings.Split(raw, ",") {
		tag := textutil.NormalizeWhitespace(part)
		if tag == "" || seen[strings.ToLower(tag)] {
			continue
		}

		seen[strings.ToLower(tag)] = true
		tags = append(tags, tag)
	}

	return tags
}

// parseTOC extracts the "In This Article" list.
func (p *Parser) parseTOC(lines []string) []models.TOCEntry {
	var toc []models.TOCEntry

	inTOC := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if !inTOC {
			if isLabelLine(trimmed, labelInThisArticle) {
				inTOC = true
			}

			continue
		}

		m := p.listItemPattern.FindStringSubmatch(trimmed)
		if m == nil {
			if trimmed != "" {
				break
			}

			continue
		}

		entry := models.TOCEntry{Title: m[1]}
		if lm := p.linkPattern.FindStringSubmatch(m[1]); lm != nil {
			entry.Title = lm[1]
			entry.Anchor = lm[2]
		}

		toc = append(toc, entry)
	}

	return toc
}

// parseLinkList extracts one of the trailing link lists ("Related Topics",
// "Related Articles").
func (p *Parser) parseLinkList(lines []string, label string) []models.RelatedLink {
	var links []models.RelatedLink

	inList := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if !inList {
			if isLabelLine(trimmed, label) {
				inList = true
			}

			continue
		}

		m := p.listItemPattern.FindStringSubmatch(trimmed)
		if m == nil {
			if trimmed != "" {
				break
			}

			continue
		}

		link := models.RelatedLink{Title: m[1]}
		if lm := p.linkPattern.FindStringSubmatch(m[1]); lm != nil {
			link.Title = lm[1]
			link.URL = lm[2]
		}

		links = append(links, link)
	}

	return links
}

// parseLearnMore extracts the "Learn More" video cards. The duration suffix
// like "(3 minute video)" sits outside the link text, so it is split off the
// raw item before the link itself is resolved.
func (p *Parser) parseLearnMore(lines []string) []models.VideoCard {
	var cards []models.VideoCard

	inList := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if !inList {
			if isLabelLine(trimmed, labelLearnMore) {
				inList = true
			}

			continue
		}

		m := p.listItemPattern.FindStringSubmatch(trimmed)
		if m == nil {
			if trimmed != "" {
				break
			}

			continue
		}

		item := m[1]
		card := models.VideoCard{Title: item}

		if dm := p.durationPattern.FindStringSubmatch(item); dm != nil {
			card.Duration = dm[1]
			item = strings.TrimSpace(p.durationPattern.ReplaceAllString(item, ""))
			card.Title = item
		}

		if lm := p.linkPattern.FindStringSubmatch(item); lm != nil {
			card.Title = lm[1]
			card.URL = lm[2]
		}

		cards = append(cards, card)
	}

	return cards
}

// captionAfter returns the caption line following an image, if any. Captions
// are the next non-blank line when it is italic text.
func (p *Parser) captionAfter(lines []string, imageIdx int) string {
	for i := imageIdx + 1; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue
		}

		if m := p.italicPattern.FindStringSubmatch(trimmed); m != nil {
			if m[1] != "" {
				return m[1]
			}

			return m[2]
		}

		return ""
	}

	return ""
}

// SlugFromURL derives the article slug from the last path segment of its
// canonical URL.
func SlugFromURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	path := strings.Trim(u.Path, "/")
	if path == "" {
		return ""
	}

	parts := strings.Split(path, "/")

	return parts[len(parts)-1]
}

// isLabelLine reports whether a line introduces a labeled trailing list, in
// plain, heading, bold, or colon-suffixed form.
func isLabelLine(line, label string) bool {
	line = strings.TrimLeft(line, "# ")
	line = strings.Trim(line, "*_")
	line = strings.TrimSuffix(strings.TrimSpace(line), ":")

	return strings.EqualFold(line, label)
}

// isListLabel reports whether a heading title is one of the trailing list
// labels rather than a body section.
func isListLabel(title string) bool {
	for _, label := range []string{labelRelatedTopics, labelLearnMore, labelRelatedArticles, labelInThisArticle} {
		if isLabelLine(title, label) {
			return true
		}
	}

	return false
}

// FormatByline renders an author list back into byline form.
func FormatByline(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("by %s", authors[0])
	default:
		return fmt.Sprintf("by %s and %s", strings.Join(authors[:len(authors)-1], ", "), authors[len(authors)-1])
	}
}
