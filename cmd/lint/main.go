// Package main provides the corpus lint command-line tool.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"nngkb/internal/config"
	"nngkb/internal/corpus"
	"nngkb/internal/lint"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	targetPath := flag.String("path", "", "File or directory to lint (default: corpus root from config)")
	strict := flag.Bool("strict", false, "Treat warnings as errors")
	quiet := flag.Bool("quiet", false, "Only print the summary")
	flag.Parse()

	cfg := loadConfig(*configFile)
	if *strict {
		cfg.Features.StrictLint = true
	}

	root := cfg.Corpus.Root
	if *targetPath != "" {
		root = *targetPath
	}

	scanner := corpus.NewScannerWithSeparator(root, cfg.Corpus.Separator)

	linter, err := lint.NewLinter(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to create linter: %v\n", err)
		os.Exit(1)
	}

	paths, err := collectPaths(scanner, root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	var (
		totalErrors   int
		totalWarnings int
		totalArticles int
		invalidFiles  int
	)

	errColor := color.New(color.FgRed)
	warnColor := color.New(color.FgYellow)
	okColor := color.New(color.FgGreen)

	for _, path := range paths {
		file, err := scanner.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)

			invalidFiles++

			continue
		}

		result := linter.LintFile(path, file.Content)
		lint.SortIssues(result.Issues)

		totalErrors += result.Stats.ErrorCount
		totalWarnings += result.Stats.WarningCount
		totalArticles += result.Stats.Articles

		if !result.IsValid {
			invalidFiles++
		}

		if *quiet {
			continue
		}

		for _, issue := range result.Issues {
			c := warnColor
			if issue.Severity == lint.SeverityError {
				c = errColor
			}

			c.Printf("%s:%d: %s: %s", issue.Path, issue.Line, issue.Severity, issue.Message)

			if issue.Value != "" {
				c.Printf(" (%q)", issue.Value)
			}

			fmt.Println()
		}
	}

	fmt.Println("----------------------------------------------------------------")
	fmt.Printf("📈 Linted %d files, %d articles\n", len(paths), totalArticles)

	if totalErrors == 0 && totalWarnings == 0 {
		okColor.Println("✅ Corpus is clean")
	} else {
		fmt.Printf("  Errors:   %d\n", totalErrors)
		fmt.Printf("  Warnings: %d\n", totalWarnings)
	}

	if invalidFiles > 0 {
		os.Exit(1)
	}
}

// loadConfig loads the YAML config or falls back to defaults.
func loadConfig(path string) *config.Config {
	if path == "" {
		if _, err := os.Stat("configs/corpus.yaml"); err == nil {
			path = "configs/corpus.yaml"
		}
	}

	if path == "" {
		return config.DefaultConfig()
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  Failed to load config: %v (using defaults)\n", err)

		return config.DefaultConfig()
	}

	return cfg
}

// collectPaths lists corpus files, or returns the single target if it is a
// file.
func collectPaths(scanner *corpus.Scanner, root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot access %s: %w", root, err)
	}

	if !info.IsDir() {
		return []string{root}, nil
	}

	return scanner.ListFiles()
}
