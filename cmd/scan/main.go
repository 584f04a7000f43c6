// Package main provides the corpus statistics scanner.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"

	"nngkb/internal/article"
	"nngkb/internal/config"
	"nngkb/internal/corpus"
	"nngkb/internal/index"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	root := flag.String("root", "", "Corpus root (default: from config)")
	topTags := flag.Int("top-tags", 10, "Number of top tags to print")
	flag.Parse()

	cfg := config.DefaultConfig()

	if *configFile != "" {
		loaded, err := config.LoadConfig(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ Failed to load config: %v\n", err)
			os.Exit(1)
		}

		cfg = loaded
	}

	if *root != "" {
		cfg.Corpus.Root = *root
	}

	scanner := corpus.NewScannerWithSeparator(cfg.Corpus.Root, cfg.Corpus.Separator)

	paths, err := scanner.ListFiles()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	var bar *progressbar.ProgressBar
	if cfg.Corpus.Logging.ShowProgress {
		bar = progressbar.Default(int64(len(paths)), "scanning")
	}

	result, err := scanner.Load(article.NewParser(), func(string) {
		if bar != nil {
			_ = bar.Add(1)
		}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	idx, err := index.Build(result.Articles, result.Files)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\n----------------------------------------------------------------")
	fmt.Printf("📊 Corpus: %s\n", cfg.Corpus.Root)
	fmt.Printf("  Files:          %d\n", idx.Summary.Files)
	fmt.Printf("  Articles:       %d\n", idx.Summary.Articles)
	fmt.Printf("  Words:          %d\n", idx.Summary.Words)
	fmt.Printf("  Images:         %d\n", idx.Summary.Images)
	fmt.Printf("  Distinct tags:  %d\n", idx.Summary.Tags)
	fmt.Printf("  Authors:        %d\n", idx.Summary.Authors)
	fmt.Printf("  Related edges:  %d (%d unresolved)\n", idx.Summary.GraphEdges, idx.Summary.UnresolvedRefs)

	if len(result.Failures) > 0 {
		fmt.Printf("⚠️  Parse failures: %d\n", len(result.Failures))

		for _, failure := range result.Failures {
			fmt.Printf("  - %s [segment %d]: %v\n", failure.Path, failure.Ordinal, failure.Err)
		}
	}

	if *topTags > 0 && len(idx.Tags) > 0 {
		fmt.Println("\n🏷️  Top tags:")

		n := *topTags
		if n > len(idx.Tags) {
			n = len(idx.Tags)
		}

		for _, entry := range idx.Tags[:n] {
			fmt.Printf("  %3d  %s\n", entry.Count, entry.Tag)
		}
	}

	if len(idx.Graph.Nodes) > 0 {
		fmt.Println("\n🔗 Most referenced:")

		for _, node := range idx.Graph.TopReferenced(3) {
			fmt.Printf("  %3d  %s\n", node.InDegree, node.Slug)
		}

		if orphans := idx.Graph.Orphans(); len(orphans) > 0 {
			fmt.Printf("\n🏝️  Articles nothing links to: %d\n", len(orphans))
		}
	}
}
