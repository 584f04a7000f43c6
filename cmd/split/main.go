// Package main provides the splitter that explodes multi-article corpus
// files into one file per article.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"nngkb/internal/article"
	"nngkb/internal/config"
	"nngkb/internal/corpus"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	root := flag.String("root", "", "Corpus root (default: from config)")
	write := flag.Bool("write", false, "Write split files (default: dry-run)")
	keep := flag.Bool("keep", false, "Keep the original multi-article file after splitting")
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
	parser := article.NewParser()

	paths, err := scanner.ListFiles()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	if !*write {
		fmt.Println("👀 Dry-run mode (no changes will be written)")
	}

	splitFiles := 0
	created := 0

	for _, path := range paths {
		outPaths, err := splitFile(scanner, parser, path, *write, *keep)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			os.Exit(1)
		}

		if outPaths == nil {
			continue
		}

		splitFiles++

		fmt.Printf("📄 %s: %d articles\n", path, len(outPaths))

		for _, outPath := range outPaths {
			fmt.Printf("  → %s\n", outPath)

			created++
		}
	}

	fmt.Println("----------------------------------------------------------------")
	fmt.Printf("📈 %d multi-article files, %d article files", splitFiles, created)

	if !*write {
		fmt.Print(" (dry-run)")
	}

	fmt.Println()

	if splitFiles > 0 && !*write {
		fmt.Println("💡 Run with -write to apply changes.")
	}
}

// splitFile explodes one multi-article file into per-article files and
// returns the output paths, or nil when the file holds a single article.
// After a write the original file is removed unless keep is set or one of
// the segments claimed the original path as its own.
func splitFile(scanner *corpus.Scanner, parser *article.Parser, path string, write, keep bool) ([]string, error) {
	file, err := scanner.ReadFile(path)
	if err != nil {
		return nil, err
	}

	segments := scanner.Split(file.Content)
	if len(segments) < 2 {
		return nil, nil
	}

	outPaths := segmentPaths(parser, path, segments)

	keepOriginal := keep

	for _, outPath := range outPaths {
		if outPath == path {
			keepOriginal = true
		}
	}

	if write {
		for i, seg := range segments {
			if err := os.WriteFile(outPaths[i], []byte(strings.TrimSpace(seg.Content)+"\n"), 0644); err != nil {
				return nil, fmt.Errorf("failed to write %s: %w", outPaths[i], err)
			}
		}

		if !keepOriginal {
			if err := os.Remove(path); err != nil {
				return outPaths, fmt.Errorf("failed to remove original %s: %w", path, err)
			}
		}
	}

	return outPaths, nil
}

// segmentPaths names each split file after its article slug, falling back to
// an ordinal suffix. A slug that repeats an earlier segment's path falls
// back too, so no segment overwrites another.
func segmentPaths(parser *article.Parser, origPath string, segments []corpus.Segment) []string {
	dir := filepath.Dir(origPath)
	base := strings.TrimSuffix(filepath.Base(origPath), filepath.Ext(origPath))

	taken := make(map[string]bool, len(segments))
	paths := make([]string, len(segments))

	for i, seg := range segments {
		outPath := ""

		if art, err := parser.ParseArticle(seg.Content); err == nil && art.Slug != "" {
			outPath = filepath.Join(dir, art.Slug+".md")
		}

		if outPath == "" || taken[outPath] {
			outPath = filepath.Join(dir, fmt.Sprintf("%s-%02d.md", base, i+1))
		}

		taken[outPath] = true
		paths[i] = outPath
	}

	return paths
}
