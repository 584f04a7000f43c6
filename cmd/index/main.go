// Package main provides the index builder that exports the machine-readable
// corpus index.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"nngkb/internal/article"
	"nngkb/internal/config"
	"nngkb/internal/corpus"
	"nngkb/internal/index"
	"nngkb/internal/logger"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	root := flag.String("root", "", "Corpus root (default: from config)")
	output := flag.String("output", "", "Output path (default: from config)")
	format := flag.String("format", "", "Output format: json or jsonl (default: from config)")
	flag.Parse()

	log := logger.NewLogger("info")

	cfg := config.DefaultConfig()

	if *configFile != "" {
		loaded, err := config.LoadConfig(*configFile)
		if err != nil {
			log.Error(fmt.Sprintf("❌ Failed to load config: %v", err))
			os.Exit(1)
		}

		cfg = loaded
	}

	if *root != "" {
		cfg.Corpus.Root = *root
	}

	if *output != "" {
		cfg.Corpus.Output.Path = *output
	}

	if *format != "" {
		cfg.Corpus.Output.Format = *format
	}

	log.Info("🚀 Building corpus index")
	log.Info(fmt.Sprintf("📍 Corpus: %s", cfg.Corpus.Root))

	startTime := time.Now()

	scanner := corpus.NewScannerWithSeparator(cfg.Corpus.Root, cfg.Corpus.Separator)

	result, err := scanner.Load(article.NewParser(), nil)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Corpus load failed: %v", err))
		os.Exit(1)
	}

	for _, failure := range result.Failures {
		log.Warn(fmt.Sprintf("⚠️  Skipped %s [segment %d]: %v", failure.Path, failure.Ordinal, failure.Err))
	}

	idx, err := index.Build(result.Articles, result.Files)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Index build failed: %v", err))
		os.Exit(1)
	}

	if err := index.Write(idx, cfg.Corpus.Output); err != nil {
		log.Error(fmt.Sprintf("❌ Index write failed: %v", err))
		os.Exit(1)
	}

	log.Info("✨ Index complete")
	fmt.Println("\n------------------------------------------------")
	fmt.Printf("📄 Written: %s (%s)\n", cfg.Corpus.Output.Path, cfg.Corpus.Output.Format)
	fmt.Printf("Articles: %d | Tags: %d | Edges: %d\n",
		idx.Summary.Articles, idx.Summary.Tags, idx.Summary.GraphEdges)
	fmt.Printf("Total Duration: %v\n", time.Since(startTime))
	fmt.Println("------------------------------------------------")
}
