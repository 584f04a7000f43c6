// Package main provides the corpus markdown formatter command-line tool.
package main

import (
	"flag"
	"fmt"
	"os"

	"nngkb/internal/config"
	"nngkb/internal/corpus"
	"nngkb/internal/formatter"
	"nngkb/internal/lint"
	"nngkb/pkg/metadata"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	targetPath := flag.String("path", "", "File or directory to format (default: corpus root)")
	write := flag.Bool("write", false, "Write changes to file (default: false, dry-run)")
	flag.Parse()

	cfg := config.DefaultConfig()

	if *configFile != "" {
		loaded, err := config.LoadConfig(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "⚠️  Failed to load config: %v (proceeding with defaults)\n", err)
		} else {
			cfg = loaded
		}
	}

	if !cfg.Features.EnableFormatter {
		fmt.Println("⚠️  Note: 'enable_formatter' is set to false in config.")
		fmt.Println("   (Running anyway because you explicitly invoked the formatter command)")
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

	fmt.Printf("📂 Scanning path: %s\n", root)

	if *write {
		fmt.Println("✍️  Write mode ENABLED (files will be modified)")
	} else {
		fmt.Println("👀 Dry-run mode (no changes will be written)")
	}

	fmt.Println()

	count := 0
	changed := 0
	errors := 0

	for _, path := range paths {
		count++

		wasChanged, err := processFile(path, *write, cfg, linter)
		if err != nil {
			fmt.Printf("❌ Failed to process %s: %v\n", path, err)

			errors++

			continue
		}

		if wasChanged {
			changed++

			if *write {
				fmt.Printf("✅ Formatted & Signed: %s\n", path)
			} else {
				fmt.Printf("📝 Would format & sign: %s\n", path)
			}
		}
	}

	fmt.Println("\n----------------------------------------------------------------")
	fmt.Printf("📈 Summary:\n")
	fmt.Printf("  Scanned: %d files\n", count)
	fmt.Printf("  Changed: %d files\n", changed)
	fmt.Printf("  Errors:  %d\n", errors)

	if changed > 0 && !*write {
		fmt.Println("\n💡 Run with -write to apply changes.")
		os.Exit(1)
	}
}

func processFile(path string, write bool, cfg *config.Config, linter *lint.Linter) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	original := string(content)

	// Format (this also strips existing metadata)
	formatted, err := formatter.FormatMarkdown(original)
	if err != nil {
		return false, err
	}

	// Lint the formatted content to record its status in the metadata block
	if cfg.Features.SignAfterFormat {
		result := linter.LintFile(path, formatted)
		formatted = metadata.Sign(formatted, result.IsValid)
	}

	if formatted == original {
		return false, nil
	}

	if write {
		if err := os.WriteFile(path, []byte(formatted), 0644); err != nil {
			return true, err
		}
	}

	return true, nil
}

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
