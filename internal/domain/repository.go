package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Clear()
}

// ProductSource defines the interface for the upstream product database
type ProductSource interface {
	FetchProduct(ctx context.Context, barcode string) (*RawProduct, error)
	SearchProducts(ctx context.Context, query string, limit int) ([]RawProduct, error)
}

// NutrientClient defines the interface for the remote nutrient database
type NutrientClient interface {
	SearchFoods(ctx context.Context, query string, pageSize int) ([]USDAFood, error)
	GetFoodDetails(ctx context.Context, fdcID int) (*USDAFood, error)
}

// DescriptionGenerator defines the interface for the generative-text
// collaborator. Implementations must return an error wrapping
// ErrQuotaExceeded when the upstream failure is quota-class.
type DescriptionGenerator interface {
	GenerateDescription(ctx context.Context, ingredientName string, quality Quality) (string, error)
}
