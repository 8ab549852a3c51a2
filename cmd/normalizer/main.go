// Package main provides the normalizer command-line tool for converting recorded provider responses.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"propertyiq/internal/attom"
	"propertyiq/internal/config"
	"propertyiq/internal/logger"
	"propertyiq/internal/models"
	"propertyiq/internal/normalizer"
)

func main() {
	inputPath := flag.String("input", "", "Path to a provider response (e.g., data/78701.json)")
	outputPath := flag.String("output", "", "Path to output JSON file")
	configPath := flag.String("config", "", "Path to YAML config (defaults to built-in tables)")
	city := flag.String("city", "", "City to assume for records without a locality")
	state := flag.String("state", "", "State to assume for records without one")
	keepInvalid := flag.Bool("keep-invalid", false, "Keep records that fail validation (e.g., no street address)")
	flag.Parse()

	if *inputPath == "" || *outputPath == "" {
		fmt.Println("Usage: normalizer -input <response.json> -output <properties.json>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := config.Default()

	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Error loading config: %v\n", err)
		}

		cfg = loaded
	}

	content, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("Error reading file: %v\n", err)
	}

	fmt.Printf("📂 Reading: %s (%d bytes)\n", *inputPath, len(content))

	records, err := attom.DecodeRecords(content)
	if err != nil {
		log.Fatalf("Error decoding provider response: %v\n", err)
	}

	fmt.Printf("🔍 Decoded %d raw records\n", len(records))

	lg := logger.NewLoggerWithWriter(cfg.Logging.Level, os.Stderr)
	n := normalizer.New(cfg, lg)
	v := normalizer.NewValidator(cfg.Valuation.InsuranceMin, cfg.Valuation.InsuranceMax)
	hints := normalizer.Hints{City: *city, State: *state}

	var output []models.Property

	if *keepInvalid {
		output = make([]models.Property, 0, len(records))
		for _, record := range records {
			output = append(output, n.NormalizeWithHints(record, hints).Property)
		}
	} else {
		batch := normalizer.NewProcessor(n, v, lg).Process(records, hints)
		output = batch.Properties

		if batch.Dropped > 0 {
			fmt.Printf("⚠️  Dropped %d records that failed validation\n", batch.Dropped)
		}
	}

	fmt.Printf("📊 Normalized %d properties\n", len(output))

	// Ensure directory exists
	if mkdirErr := os.MkdirAll(filepath.Dir(*outputPath), 0755); mkdirErr != nil {
		log.Fatalf("Error creating directory: %v\n", mkdirErr)
	}

	jsonData, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		log.Fatalf("Error marshaling JSON: %v\n", err)
	}

	if err := os.WriteFile(*outputPath, jsonData, 0644); err != nil {
		log.Fatalf("Error writing file: %v\n", err)
	}

	fmt.Printf("✅ Saved to: %s\n", *outputPath)
}
