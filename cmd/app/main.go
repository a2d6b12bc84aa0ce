package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/shopspring/decimal"

	"MaturityPlanner/internal/di"
	"MaturityPlanner/pkg/config"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	// Load config
	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	// TVL figures go out as JSON numbers for chart clients. Set before anything
	// encodes, so cached sessions and API responses share one format.
	decimal.MarshalJSONWithoutQuotes = true

	// Wire DI: Initialize all dependencies
	app, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	// Run application (blocks until signal)
	err = app.Run(context.Background())
	cleanup()
	if err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
