package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/shelfscore/backend/internal/domain"
)

// ProductServiceConfig holds configuration for the product service
type ProductServiceConfig struct {
	CacheTTL     time.Duration
	Coefficients CoefficientSet
}

// ProductService resolves a barcode to a scored product. Flow: check
// cache -> fetch from Open Food Facts -> score -> cache the inputs ->
// return. Cached entries hold only the scoring inputs; the score is
// recomputed on every hit so it always reflects the current coefficient
// set.
type ProductService struct {
	cache     domain.CacheRepository
	offClient domain.FoodFactsClient
	scoring   *ScoringService
	cacheTTL  time.Duration
}

// NewProductService creates a new product service with dependencies
func NewProductService(
	cache domain.CacheRepository,
	offClient domain.FoodFactsClient,
	config ProductServiceConfig,
) *ProductService {
	coeffs := config.Coefficients
	if coeffs.Name == "" {
		coeffs = StrictCoefficients()
	}

	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 720 * time.Hour // Default 30 days
	}

	return &ProductService{
		cache:     cache,
		offClient: offClient,
		scoring:   NewScoringService(coeffs),
		cacheTTL:  cacheTTL,
	}
}

// ScanProduct looks up and scores the product behind a barcode.
func (s *ProductService) ScanProduct(ctx context.Context, barcode string) (*domain.ScoredProduct, error) {
	if !isValidBarcode(barcode) {
		return nil, domain.ErrInvalidBarcode
	}

	cacheKey := productCacheKey(barcode)

	// Try cache first
	cached, err := s.getFromCache(ctx, cacheKey)
	if err == nil && cached != nil {
		cached.Source = "Cache"
		return s.scored(cached), nil
	}

	// Cache miss - fetch from Open Food Facts
	product, err := s.offClient.GetProduct(ctx, barcode)
	if err != nil {
		return nil, err
	}

	if err := s.setInCache(ctx, cacheKey, product); err != nil {
		// A failed cache write must not fail the scan
		log.Printf("[SCAN] cache write failed for %s: %v", barcode, err)
	}

	return s.scored(product), nil
}

// scored attaches a freshly computed health score to the product.
func (s *ProductService) scored(product *domain.Product) *domain.ScoredProduct {
	return &domain.ScoredProduct{
		Product: product,
		HealthScore: s.scoring.Score(
			product.Nutrition,
			product.NovaGroup,
			product.Additives,
			product.NutriScoreGrade,
		),
	}
}

// isValidBarcode accepts EAN-8 through GTIN-14: 8 to 14 digits.
func isValidBarcode(barcode string) bool {
	if len(barcode) < 8 || len(barcode) > 14 {
		return false
	}
	for _, c := range barcode {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// productCacheKey builds the cache key for a barcode.
// Format: "product:{barcode}"
func productCacheKey(barcode string) string {
	return fmt.Sprintf("product:%s", barcode)
}

// getFromCache retrieves product scan inputs from cache
func (s *ProductService) getFromCache(ctx context.Context, key string) (*domain.Product, error) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if product, ok := value.(*domain.Product); ok {
		return product, nil
	}

	// The memory cache round-trips values through JSON, so stored
	// products come back as generic maps. Decode through JSON again
	// rather than walking the map by hand.
	jsonData, err := json.Marshal(value)
	if err != nil {
		return nil, domain.ErrCacheMiss
	}
	var product domain.Product
	if err := json.Unmarshal(jsonData, &product); err != nil {
		return nil, domain.ErrCacheMiss
	}
	return &product, nil
}

// setInCache stores product scan inputs in cache
func (s *ProductService) setInCache(ctx context.Context, key string, product *domain.Product) error {
	product.CachedAt = time.Now()
	return s.cache.Set(ctx, key, product, s.cacheTTL)
}
