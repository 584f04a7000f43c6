// Package main provides the signer tool that stamps corpus files with an
// integrity metadata block, and verifies existing stamps.
package main

import (
	"flag"
	"fmt"
	"os"

	"nngkb/internal/config"
	"nngkb/internal/lint"
	"nngkb/pkg/metadata"
)

func main() {
	inputPath := flag.String("input", "", "Path to input file (e.g., article.md)")
	configFile := flag.String("config", "", "Path to YAML configuration file")
	verify := flag.Bool("verify", false, "Verify the existing metadata block instead of signing")
	flag.Parse()

	if *inputPath == "" {
		fmt.Println("Usage: sign -input <path> [-verify]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	contentBytes, err := os.ReadFile(*inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Error reading file: %v\n", err)
		os.Exit(1)
	}

	content := string(contentBytes)
	fmt.Printf("📂 Reading: %s (%d bytes)\n", *inputPath, len(content))

	if *verify {
		ok, err := metadata.Verify(content)
		if !ok {
			fmt.Fprintf(os.Stderr, "❌ Verification failed: %v\n", err)
			os.Exit(1)
		}

		meta, _ := metadata.Extract(content)
		fmt.Printf("✅ Hash OK (linted: %v, last modified: %s)\n", meta.Linted, meta.LastModify.Format("2006-01-02"))

		return
	}

	cfg := config.DefaultConfig()

	if *configFile != "" {
		loaded, loadErr := config.LoadConfig(*configFile)
		if loadErr != nil {
			fmt.Printf("⚠️  Warning: could not load config: %v. Using defaults.\n", loadErr)
		} else {
			cfg = loaded
		}
	}

	linter, err := lint.NewLinter(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Error creating linter: %v\n", err)
		os.Exit(1)
	}

	result := linter.LintFile(*inputPath, content)
	fmt.Printf("🧹 Lint: %s\n", result)

	signed := metadata.Sign(content, result.IsValid)

	if err := os.WriteFile(*inputPath, []byte(signed), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Signed: %s (linted: %v)\n", *inputPath, result.IsValid)
}
