package main

import (
	"fmt"
	"log"
	"os"

	"github.com/shelfscore/backend/config"
	httpDelivery "github.com/shelfscore/backend/internal/delivery/http"
	"github.com/shelfscore/backend/internal/infrastructure/cache"
	"github.com/shelfscore/backend/internal/infrastructure/openfoodfacts"
	"github.com/shelfscore/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting ShelfScore Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cache Type: %s", cfg.Cache.Type)
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	// Initialize infrastructure dependencies
	memoryCache := cache.NewMemoryCache()

	offClient := openfoodfacts.NewClient(cfg.OFF.BaseURL, cfg.OFF.UserAgent)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		offClient.SetDebug(true)
		log.Printf("Open Food Facts client debug mode enabled")
	}
	log.Printf("Open Food Facts API configured: %s", cfg.OFF.BaseURL)

	// Initialize usecase layer
	coeffs := usecase.CoefficientSetByName(cfg.Scoring.Variant)
	log.Printf("Scoring variant: %s (scale=%.2f)", coeffs.Name, coeffs.Scale)

	productService := usecase.NewProductService(
		memoryCache,
		offClient,
		usecase.ProductServiceConfig{
			CacheTTL:     cfg.Cache.TTL,
			Coefficients: coeffs,
		},
	)

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
