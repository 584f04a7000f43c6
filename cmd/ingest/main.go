// Package main provides the ingest tool that fetches an NN/g article page
// and exports it into the corpus markdown convention.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"nngkb/internal/config"
	"nngkb/internal/ingest"
	"nngkb/internal/logger"
)

func main() {
	articleURL := flag.String("url", "", "Article page URL to ingest")
	configFile := flag.String("config", "", "Path to YAML configuration file")
	outDir := flag.String("out", "", "Corpus directory to export into (default: corpus root)")
	flag.Parse()

	log := logger.NewLogger("info")

	if *articleURL == "" {
		log.Error("Please provide an article URL with -url flag")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := config.DefaultConfig()

	if *configFile != "" {
		loaded, err := config.LoadConfig(*configFile)
		if err != nil {
			log.Error(fmt.Sprintf("❌ Failed to load config: %v", err))
			os.Exit(1)
		}

		cfg = loaded
	}

	root := cfg.Corpus.Root
	if *outDir != "" {
		root = *outDir
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info("🚀 Starting ingest")
	log.Info(fmt.Sprintf("📍 Source: %s", *articleURL))
	log.Info(fmt.Sprintf("🎯 Corpus: %s", root))

	startTime := time.Now()

	fetcher := ingest.NewFetcher(&cfg.Ingest)

	html, err := fetcher.Fetch(ctx, *articleURL)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Fetch failed: %v", err))
		os.Exit(1)
	}

	log.Info(fmt.Sprintf("✅ Fetched %d bytes in %v", len(html), time.Since(startTime)))

	extractor := ingest.NewExtractor()

	art, err := extractor.Extract(html, *articleURL)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Extraction failed: %v", err))
		os.Exit(1)
	}

	log.Info(fmt.Sprintf("ℹ️  Title: %s", art.Title))
	log.Info(fmt.Sprintf("ℹ️  Authors: %d, images: %d, tags: %d", len(art.Authors), len(art.Images), len(art.Tags)))

	path, err := ingest.Export(art, root)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Export failed: %v", err))
		os.Exit(1)
	}

	log.Info("✨ Ingest complete")
	fmt.Println("\n------------------------------------------------")
	fmt.Printf("📄 Written: %s\n", path)
	fmt.Printf("Total Duration: %v\n", time.Since(startTime))
	fmt.Println("------------------------------------------------")
}
