// Package main generates markdown documentation for the svnws test
// suite from test function names and their doc comments.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

func main() {
	var (
		rootDir    string
		outputFile string
	)

	flag.StringVar(&rootDir, "root", ".", "module root to scan for test files")
	flag.StringVar(&outputFile, "out", "docs/TESTS.md", "output markdown file")
	flag.Parse()

	if err := run(rootDir, outputFile); err != nil {
		fmt.Fprintf(os.Stderr, "testdoc: %v\n", err)
		os.Exit(1)
	}
}

func run(rootDir, outputFile string) error {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return fmt.Errorf("resolve root directory: %w", err)
	}

	packages, err := ParseTestFiles(absRoot)
	if err != nil {
		return fmt.Errorf("parse test files: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	if err := RenderMarkdown(f, packages); err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}

	fmt.Printf("Generated %s with %d packages\n", outputFile, len(packages))
	return nil
}
