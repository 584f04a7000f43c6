// Package index builds the machine-readable corpus index: parsed articles,
// the tag inventory, and the resolved link graph.
package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"nngkb/internal/config"
	"nngkb/internal/linkgraph"
	"nngkb/internal/models"
)

// Index errors.
var (
	ErrNoArticles      = errors.New("no articles to index")
	ErrUnknownFormat   = errors.New("unknown index format")
	ErrMissingOutputTo = errors.New("output path is required")
)

// TagEntry is one tag with the slugs of articles carrying it.
type TagEntry struct {
	Tag      string   `json:"tag"`
	Count    int      `json:"count"`
	Articles []string `json:"articles"`
}

// Summary holds corpus-wide aggregate statistics.
type Summary struct {
	Articles       int `json:"articles"`
	Files          int `json:"files"`
	Words          int `json:"words"`
	Images         int `json:"images"`
	Tags           int `json:"tags"`
	Authors        int `json:"authors"`
	GraphEdges     int `json:"graphEdges"`
	UnresolvedRefs int `json:"unresolvedRefs"`
}

// Index is the export root.
type Index struct {
	GeneratedAt time.Time         `json:"generatedAt"`
	Summary     Summary           `json:"summary"`
	Articles    []*models.Article `json:"articles"`
	Tags        []TagEntry        `json:"tags"`
	Graph       *linkgraph.Graph  `json:"graph"`
}

// Build assembles the index from parsed articles.
func Build(articles []*models.Article, fileCount int) (*Index, error) {
	if len(articles) == 0 {
		return nil, ErrNoArticles
	}

	graph, err := linkgraph.Build(articles)
	if err != nil {
		return nil, fmt.Errorf("failed to build link graph: %w", err)
	}

	idx := &Index{
		GeneratedAt: time.Now().UTC(),
		Articles:    articles,
		Tags:        buildTagInventory(articles),
		Graph:       graph,
	}

	authors := make(map[string]bool)
	words := 0
	images := 0

	for _, art := range articles {
		words += art.Stats.Words
		images += art.Stats.ImageCount

		for _, a := range art.Authors {
			authors[strings.ToLower(a)] = true
		}
	}

	idx.Summary = Summary{
		Articles:       len(articles),
		Files:          fileCount,
		Words:          words,
		Images:         images,
		Tags:           len(idx.Tags),
		Authors:        len(authors),
		GraphEdges:     len(graph.Edges),
		UnresolvedRefs: len(graph.Unresolved),
	}

	return idx, nil
}

// buildTagInventory aggregates tags across articles, sorted by descending
// count then tag name.
func buildTagInventory(articles []*models.Article) []TagEntry {
	byTag := make(map[string]*TagEntry)

	for _, art := range articles {
		for _, tag := range art.Tags {
			key := strings.ToLower(tag)

			entry, ok := byTag[key]
			if !ok {
				entry = &TagEntry{Tag: tag}
				byTag[key] = entry
			}

			entry.Count++
			entry.Articles = append(entry.Articles, art.Slug)
		}
	}

	entries := make([]TagEntry, 0, len(byTag))
	for _, entry := range byTag {
		entries = append(entries, *entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}

		return entries[i].Tag < entries[j].Tag
	})

	return entries
}

// Write serializes the index to the configured output path. The "json"
// format writes one document; "jsonl" writes the summary followed by one
// article per line.
func Write(idx *Index, out config.OutputConfig) error {
	if out.Path == "" {
		return ErrMissingOutputTo
	}

	switch out.Format {
	case "json":
		return writeJSON(idx, out)
	case "jsonl":
		return writeJSONL(idx, out.Path)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, out.Format)
	}
}

func writeJSON(idx *Index, out config.OutputConfig) error {
	var (
		data []byte
		err  error
	)

	if out.PrettyPrint {
		data, err = json.MarshalIndent(idx, "", "  ")
	} else {
		data, err = json.Marshal(idx)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}

	if err := os.WriteFile(out.Path, data, 0644); err != nil {
		return fmt.Errorf("failed to write index file: %w", err)
	}

	return nil
}

func writeJSONL(idx *Index, path string) error {
	var sb strings.Builder

	head, err := json.Marshal(idx.Summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	sb.Write(head)
	sb.WriteByte('\n')

	for _, art := range idx.Articles {
		line, err := json.Marshal(art)
		if err != nil {
			return fmt.Errorf("failed to marshal article %s: %w", art.Slug, err)
		}

		sb.Write(line)
		sb.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write index file: %w", err)
	}

	return nil
}
