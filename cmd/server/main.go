package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ssenti/levit-3/config"
	httpDelivery "github.com/ssenti/levit-3/internal/delivery/http"
	"github.com/ssenti/levit-3/internal/infrastructure/cache"
	"github.com/ssenti/levit-3/internal/infrastructure/gemini"
	"github.com/ssenti/levit-3/internal/infrastructure/perplexity"
	"github.com/ssenti/levit-3/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Levit Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Initialize infrastructure dependencies
	memoryCache := cache.NewMemoryCache()
	log.Printf("Product cache TTL: %s", cfg.Cache.TTL)

	searchClient := perplexity.NewClient(
		cfg.Perplexity.APIKey,
		cfg.Perplexity.BaseURL,
		cfg.Perplexity.Model,
		cfg.Perplexity.RequestsPerMinute,
	)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		searchClient.SetDebug(true)
		log.Printf("Perplexity client debug mode enabled")
	}

	adviceClient, err := gemini.NewClient(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}

	log.Printf("Models: search=%s, advice=%s", cfg.Perplexity.Model, cfg.Gemini.Model)

	// Initialize usecase layer
	recommendService := usecase.NewRecommendService(
		memoryCache,
		searchClient,
		searchClient,
		adviceClient,
		usecase.RecommendServiceConfig{
			CacheTTL: cfg.Cache.TTL,
		},
	)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(recommendService)

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
