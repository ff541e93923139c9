package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/shelfmetrics/backend/config"
	httpDelivery "github.com/shelfmetrics/backend/internal/delivery/http"
	"github.com/shelfmetrics/backend/internal/domain"
	"github.com/shelfmetrics/backend/internal/infrastructure/catalog"
	"github.com/shelfmetrics/backend/internal/infrastructure/search"
	"github.com/shelfmetrics/backend/internal/infrastructure/store"
	"github.com/shelfmetrics/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting ShelfMetrics Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Store driver: %s", cfg.Database.Driver)

	// Initialize the product store
	var repo domain.ProductRepository
	switch cfg.Database.Driver {
	case "postgres":
		pgStore, err := store.OpenPostgres(context.Background(), cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to open product store: %v", err)
		}
		defer pgStore.Close()
		repo = pgStore
		log.Printf("Postgres store connected")
	default:
		repo = store.NewMemoryStore()
		log.Printf("In-memory store active (rows are lost on restart)")
	}

	// Catalog source
	catalogSource := catalog.NewCSVSource(cfg.Catalog.Path)
	log.Printf("Catalog source: %s", cfg.Catalog.Path)

	// Optional search index
	var index domain.SearchIndex
	if cfg.Search.Enabled {
		index = search.NewMeiliIndexer(cfg.Search.URL, cfg.Search.APIKey, cfg.Search.Index)
		log.Printf("Search indexing enabled: %s (index: %s)", cfg.Search.URL, cfg.Search.Index)
	} else {
		log.Printf("Search indexing disabled")
	}

	// Initialize usecase layer
	pricingService := usecase.NewPricingService()
	pipelineService := usecase.NewPipelineService(
		catalogSource,
		repo,
		index,
		pricingService,
		usecase.PipelineConfig{BatchSize: 100},
	)
	analyticsService := usecase.NewAnalyticsService(repo)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(pricingService, pipelineService, analyticsService, repo)

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
