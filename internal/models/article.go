// Package models defines data structures for the knowledge-base corpus tools.
package models

import (
	"net/url"
	"strings"
	"time"

	"nngkb/pkg/metadata"
)

// Article represents a single knowledge-base entry parsed from markdown.
type Article struct {
	Metadata        *metadata.Metadata `json:"metadata,omitempty"`
	Path            string             `json:"path"`
	Ordinal         int                `json:"ordinal"`
	Slug            string             `json:"slug"`
	Title           string             `json:"title"`
	SourceURL       string             `json:"sourceUrl"`
	Authors         []string           `json:"authors"`
	PublishedAt     time.Time          `json:"publishedAt"`
	DateRaw         string             `json:"dateRaw"`
	Summary         string             `json:"summary"`
	Body            string             `json:"body"`
	TOC             []TOCEntry         `json:"toc,omitempty"`
	Sections        []Section          `json:"sections,omitempty"`
	Images          []ImageRef         `json:"images,omitempty"`
	Tags            []string           `json:"tags,omitempty"`
	RelatedTopics   []RelatedLink      `json:"relatedTopics,omitempty"`
	LearnMore       []VideoCard        `json:"learnMore,omitempty"`
	RelatedArticles []RelatedLink      `json:"relatedArticles,omitempty"`
	Stats           ArticleStats       `json:"stats"`
}

// TOCEntry is one item from the "In This Article" list.
type TOCEntry struct {
	Title  string `json:"title"`
	Anchor string `json:"anchor,omitempty"`
}

// Section is a body section introduced by an H2 or H3 heading.
type Section struct {
	Title string `json:"title"`
	Level int    `json:"level"`
	Line  int    `json:"line"`
}

// ImageRef is an embedded image with its markdown alt text and the caption
// line that follows it, if any.
type ImageRef struct {
	URL     string `json:"url"`
	Alt     string `json:"alt"`
	Caption string `json:"caption,omitempty"`
	Line    int    `json:"line"`
}

// VideoCard is one entry from the "Learn More" video list.
type VideoCard struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Duration string `json:"duration,omitempty"`
}

// RelatedLink is a human-curated reference to another article or topic.
type RelatedLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ArticleStats holds per-article statistics computed at parse time.
type ArticleStats struct {
	Words          int `json:"words"`
	ReadingMinutes int `json:"readingMinutes"`
	ImageCount     int `json:"imageCount"`
	SectionCount   int `json:"sectionCount"`
}

// IsInternal reports whether a related link points inside the NN/g site,
// which makes it a candidate for resolution within the corpus.
func (l RelatedLink) IsInternal() bool {
	u, err := url.Parse(l.URL)
	if err != nil {
		return false
	}

	if u.Host == "" {
		// Relative links stay inside the corpus by definition.
		return !strings.HasPrefix(l.URL, "#")
	}

	return u.Host == "www.nngroup.com" || u.Host == "nngroup.com"
}

// HasAuthor reports whether the article lists the given author.
func (a *Article) HasAuthor(name string) bool {
	for _, author := range a.Authors {
		if strings.EqualFold(author, name) {
			return true
		}
	}

	return false
}
