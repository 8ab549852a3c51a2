// Package main provides the formatter command-line tool that renders canonical properties as a markdown table.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"propertyiq/internal/formatter"
	"propertyiq/internal/models"
)

func main() {
	inputPath := flag.String("input", "", "Path to canonical properties JSON (output of normalizer or search -format json)")
	outputPath := flag.String("output", "", "Write the table to this file instead of stdout")
	flag.Parse()

	if *inputPath == "" {
		fmt.Println("Usage: formatter -input <properties.json> [-output <table.md>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	content, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("Error reading file: %v\n", err)
	}

	var props []models.Property
	if err := json.Unmarshal(content, &props); err != nil {
		log.Fatalf("Error parsing properties: %v\n", err)
	}

	table := formatter.RenderTable(props)

	if *outputPath == "" {
		fmt.Print(table)

		return
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(*outputPath), 0755); mkdirErr != nil {
		log.Fatalf("Error creating directory: %v\n", mkdirErr)
	}

	if err := os.WriteFile(*outputPath, []byte(table), 0644); err != nil {
		log.Fatalf("Error writing file: %v\n", err)
	}

	fmt.Printf("✅ Rendered %d properties to: %s\n", len(props), *outputPath)
}
