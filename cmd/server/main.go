package main

import (
	"fmt"
	"log"
	"os"
	"regexp"

	"github.com/smartaisle/backend/config"
	httpDelivery "github.com/smartaisle/backend/internal/delivery/http"
	"github.com/smartaisle/backend/internal/domain"
	"github.com/smartaisle/backend/internal/infrastructure/cache"
	"github.com/smartaisle/backend/internal/infrastructure/openai"
	"github.com/smartaisle/backend/internal/infrastructure/openfoodfacts"
	"github.com/smartaisle/backend/internal/infrastructure/usda"
	"github.com/smartaisle/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting SmartAisle Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	// Infrastructure dependencies
	memoryCache := cache.NewMemoryCache()
	offClient := openfoodfacts.NewClient(cfg.OFF.BaseURL)
	log.Printf("Open Food Facts API: %s", cfg.OFF.BaseURL)

	quota := usecase.NewQuotaState()

	// Classification strategy: nutrient-backed when the USDA API is
	// enabled, keyword tables otherwise.
	var classifier usecase.IngredientClassifier
	if cfg.USDA.Enabled {
		usdaClient := usda.NewClient(cfg.USDA.APIKey, cfg.USDA.BaseURL)
		classifier = usecase.NewNutrientClassifier(usdaClient, quota)
		log.Printf("USDA API configured: %s", cfg.USDA.BaseURL)
	} else {
		classifier = usecase.WrapKeywordClassifier(usecase.NewClassifier())
		log.Printf("USDA lookups disabled, using keyword classification")
	}

	// Description generation: generative when enabled, curated
	// fallbacks otherwise.
	var generator domain.DescriptionGenerator
	if cfg.OpenAI.Enabled {
		generator = openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
		log.Printf("Description generation enabled (model: %s)", cfg.OpenAI.Model)
	} else {
		log.Printf("Description generation disabled, using curated fallbacks")
	}
	describer := usecase.NewDescriber(generator, quota)

	weights := usecase.DefaultWeights
	if cfg.Analysis.StrictWeights {
		weights = usecase.StrictWeights
		log.Printf("Strict scoring enabled: unknown ingredients count against products")
	}
	scorer := usecase.NewScorer(weights)

	barcodePattern := regexp.MustCompile(cfg.Barcode.ValidationPattern)

	productService := usecase.NewProductService(
		offClient,
		memoryCache,
		classifier,
		describer,
		scorer,
		quota,
		usecase.AnalysisOptions{
			MaxIngredients: cfg.Analysis.MaxIngredients,
			BatchSize:      cfg.Analysis.BatchSize,
			BatchDelay:     cfg.Analysis.BatchDelay,
			DemoProducts:   cfg.Analysis.DemoProducts,
			CacheTTL:       cfg.Cache.TTL,
			BarcodePattern: barcodePattern,
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
