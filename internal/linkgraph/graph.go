// Package linkgraph builds the human-curated related-article graph across
// parsed corpus articles.
package linkgraph

import (
	"errors"
	"sort"

	"nngkb/internal/article"
	"nngkb/internal/models"
)

// ErrNoArticles is returned when the graph is built from an empty corpus.
var ErrNoArticles = errors.New("no articles to build graph from")

// Edge is one resolved related-article reference.
type Edge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Title string `json:"title"`
}

// Unresolved is a related reference that does not point at a corpus article.
type Unresolved struct {
	From  string `json:"from"`
	Title string `json:"title"`
	URL   string `json:"url"`
	// External marks references outside the NN/g site; the rest are
	// internal references missing from the corpus.
	External bool `json:"external"`
}

// Node is one corpus article in the graph.
type Node struct {
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Path      string `json:"path"`
	InDegree  int    `json:"inDegree"`
	OutDegree int    `json:"outDegree"`
}

// Graph is the resolved link graph of the corpus.
type Graph struct {
	Nodes      []Node       `json:"nodes"`
	Edges      []Edge       `json:"edges"`
	Unresolved []Unresolved `json:"unresolved"`
}

// Build resolves every RelatedArticles reference against the corpus by slug.
// References to articles absent from the corpus, and external references,
// land in Unresolved.
func Build(articles []*models.Article) (*Graph, error) {
	if len(articles) == 0 {
		return nil, ErrNoArticles
	}

	nodesBySlug := make(map[string]*Node, len(articles))

	var order []string

	for _, art := range articles {
		if art.Slug == "" {
			continue
		}

		if _, exists := nodesBySlug[art.Slug]; exists {
			continue
		}

		nodesBySlug[art.Slug] = &Node{
			Slug:  art.Slug,
			Title: art.Title,
			Path:  art.Path,
		}
		order = append(order, art.Slug)
	}

	graph := &Graph{}

	for _, art := range articles {
		if art.Slug == "" {
			continue
		}

		for _, ref := range art.RelatedArticles {
			targetSlug := article.SlugFromURL(ref.URL)

			target, found := nodesBySlug[targetSlug]
			if !found || !ref.IsInternal() {
				graph.Unresolved = append(graph.Unresolved, Unresolved{
					From:     art.Slug,
					Title:    ref.Title,
					URL:      ref.URL,
					External: !ref.IsInternal(),
				})

				continue
			}

			graph.Edges = append(graph.Edges, Edge{
				From:  art.Slug,
				To:    target.Slug,
				Title: ref.Title,
			})

			nodesBySlug[art.Slug].OutDegree++
			target.InDegree++
		}
	}

	for _, slug := range order {
		graph.Nodes = append(graph.Nodes, *nodesBySlug[slug])
	}

	return graph, nil
}

// TopReferenced returns up to n nodes ordered by in-degree, ties broken by
// slug for determinism.
func (g *Graph) TopReferenced(n int) []Node {
	nodes := make([]Node, len(g.Nodes))
	copy(nodes, g.Nodes)

	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].InDegree != nodes[j].InDegree {
			return nodes[i].InDegree > nodes[j].InDegree
		}

		return nodes[i].Slug < nodes[j].Slug
	})

	if n > len(nodes) {
		n = len(nodes)
	}

	return nodes[:n]
}

// Orphans returns slugs of articles no other article links to.
func (g *Graph) Orphans() []string {
	var orphans []string

	for _, node := range g.Nodes {
		if node.InDegree == 0 {
			orphans = append(orphans, node.Slug)
		}
	}

	return orphans
}
