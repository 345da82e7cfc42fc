package main

import (
	"fmt"
	"log"
	"os"

	"github.com/nutriscanner/backend/config"
	httpDelivery "github.com/nutriscanner/backend/internal/delivery/http"
	"github.com/nutriscanner/backend/internal/infrastructure/cache"
	"github.com/nutriscanner/backend/internal/infrastructure/openfoodfacts"
	"github.com/nutriscanner/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Nutri-scanner Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Open Food Facts: %s (as %q)", cfg.OFF.BaseURL, cfg.OFF.UserAgent)
	log.Printf("Cache TTLs: product=%s search=%s", cfg.Cache.ProductTTL, cfg.Cache.SearchTTL)

	// Initialize infrastructure dependencies
	productCache := cache.NewMemoryCache()
	searchCache := cache.NewMemoryCache()

	offClient := openfoodfacts.NewClient(cfg.OFF.BaseURL, cfg.OFF.UserAgent, openfoodfacts.Options{
		Timeout:     cfg.OFF.Timeout,
		Retries:     cfg.OFF.Retries,
		BackoffBase: cfg.OFF.BackoffBase,
		RatePerSec:  cfg.OFF.RatePerSec,
		RateBurst:   cfg.OFF.RateBurst,
		BatchSize:   cfg.Search.MaxRawResults,
		SortBy:      cfg.Search.SortBy,
		Country:     cfg.Search.Country,
	})

	// Initialize usecase layer
	productService := usecase.NewProductService(
		productCache,
		searchCache,
		offClient,
		usecase.ProductServiceConfig{
			ProductTTL:          cfg.Cache.ProductTTL,
			SearchTTL:           cfg.Cache.SearchTTL,
			PageSize:            cfg.Search.PageSize,
			Country:             cfg.Search.Country,
			Language:            cfg.Search.Language,
			SearchFailurePolicy: cfg.OFF.SearchFailurePolicy,
		},
	)

	log.Printf("Search: page_size=%d raw_cap=%d country=%s",
		cfg.Search.PageSize, cfg.Search.MaxRawResults, cfg.Search.Country)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(productService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
