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
}

// FoodFactsClient defines the interface for fetching product data from
// Open Food Facts by barcode.
type FoodFactsClient interface {
	GetProduct(ctx context.Context, barcode string) (*Product, error)
}
