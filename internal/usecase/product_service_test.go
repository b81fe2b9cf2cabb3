package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shelfscore/backend/internal/domain"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	data      map[string]interface{}
	getError  error
	setError  error
	getCalled bool
	setCalled bool
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string]interface{}),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) (interface{}, error) {
	m.getCalled = true
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.setCalled = true
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

// MockFoodFactsClient is a mock implementation of domain.FoodFactsClient
type MockFoodFactsClient struct {
	product     *domain.Product
	err         error
	calls       int
	lastBarcode string
}

func (m *MockFoodFactsClient) GetProduct(ctx context.Context, barcode string) (*domain.Product, error) {
	m.calls++
	m.lastBarcode = barcode
	if m.err != nil {
		return nil, m.err
	}
	return m.product, nil
}

func testProduct() *domain.Product {
	return &domain.Product{
		Barcode: "3017620422003",
		Name:    "Hazelnut spread",
		Nutrition: domain.NutritionFacts{
			Calories:     539,
			Fat:          30.9,
			SaturatedFat: 10.6,
			Sugars:       56.3,
			Salt:         0.107,
			Proteins:     6.3,
		},
		NovaGroup: 4,
		Additives: []string{"E322i"},
		Source:    "OpenFoodFacts",
	}
}

func TestNewProductService(t *testing.T) {
	cache := NewMockCacheRepository()
	client := &MockFoodFactsClient{}

	t.Run("creates service with default values", func(t *testing.T) {
		svc := NewProductService(cache, client, ProductServiceConfig{})
		if svc == nil {
			t.Fatal("expected service to be created")
		}
		if svc.cacheTTL != 720*time.Hour {
			t.Errorf("cacheTTL = %v, want 720h", svc.cacheTTL)
		}
		if svc.scoring.Coefficients().Name != "strict" {
			t.Errorf("coefficients = %s, want strict", svc.scoring.Coefficients().Name)
		}
	})

	t.Run("creates service with custom values", func(t *testing.T) {
		svc := NewProductService(cache, client, ProductServiceConfig{
			CacheTTL:     24 * time.Hour,
			Coefficients: Moderate2023Coefficients(),
		})
		if svc.cacheTTL != 24*time.Hour {
			t.Errorf("cacheTTL = %v, want 24h", svc.cacheTTL)
		}
		if svc.scoring.Coefficients().Name != "moderate2023" {
			t.Errorf("coefficients = %s, want moderate2023", svc.scoring.Coefficients().Name)
		}
	})
}

func TestScanProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects malformed barcodes", func(t *testing.T) {
		svc := NewProductService(NewMockCacheRepository(), &MockFoodFactsClient{}, ProductServiceConfig{})

		for _, barcode := range []string{"", "1234567", "123456789012345", "30176abc2003", "3017620 22003"} {
			_, err := svc.ScanProduct(ctx, barcode)
			if !errors.Is(err, domain.ErrInvalidBarcode) {
				t.Errorf("barcode %q: error = %v, want ErrInvalidBarcode", barcode, err)
			}
		}
	})

	t.Run("fetches and scores on cache miss", func(t *testing.T) {
		cache := NewMockCacheRepository()
		client := &MockFoodFactsClient{product: testProduct()}
		svc := NewProductService(cache, client, ProductServiceConfig{})

		result, err := svc.ScanProduct(ctx, "3017620422003")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Product.Source != "OpenFoodFacts" {
			t.Errorf("Source = %v, want OpenFoodFacts", result.Product.Source)
		}
		if result.HealthScore == nil {
			t.Fatal("expected a health score")
		}
		if result.HealthScore.Grade == "" {
			t.Error("expected a letter grade")
		}
		if !cache.setCalled {
			t.Error("expected cache.Set to be called")
		}
		if client.lastBarcode != "3017620422003" {
			t.Errorf("client barcode = %s, want 3017620422003", client.lastBarcode)
		}
	})

	t.Run("serves cached inputs and rescores them", func(t *testing.T) {
		cache := NewMockCacheRepository()
		cache.data["product:3017620422003"] = testProduct()

		client := &MockFoodFactsClient{err: errors.New("must not be called")}
		svc := NewProductService(cache, client, ProductServiceConfig{})

		result, err := svc.ScanProduct(ctx, "3017620422003")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Product.Source != "Cache" {
			t.Errorf("Source = %v, want Cache", result.Product.Source)
		}
		if client.calls != 0 {
			t.Errorf("client calls = %d, want 0 on cache hit", client.calls)
		}

		// The cached record holds only inputs; the score must equal a
		// fresh computation with the current coefficient set.
		fresh := NewScoringService(StrictCoefficients()).Score(
			result.Product.Nutrition,
			result.Product.NovaGroup,
			result.Product.Additives,
			result.Product.NutriScoreGrade,
		)
		if result.HealthScore.Score != fresh.Score {
			t.Errorf("cached score = %d, fresh score = %d, want equal", result.HealthScore.Score, fresh.Score)
		}
	})

	t.Run("decodes cached JSON maps back into products", func(t *testing.T) {
		cache := NewMockCacheRepository()
		cache.data["product:3017620422003"] = map[string]interface{}{
			"barcode":   "3017620422003",
			"name":      "Hazelnut spread",
			"novaGroup": float64(4),
			"additives": []interface{}{"E322i"},
			"nutrition": map[string]interface{}{
				"calories": float64(539),
				"sugars":   float64(56.3),
			},
		}

		svc := NewProductService(cache, &MockFoodFactsClient{}, ProductServiceConfig{})

		result, err := svc.ScanProduct(ctx, "3017620422003")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Product.Name != "Hazelnut spread" {
			t.Errorf("Name = %v, want Hazelnut spread", result.Product.Name)
		}
		if result.Product.NovaGroup != 4 {
			t.Errorf("NovaGroup = %d, want 4", result.Product.NovaGroup)
		}
		if result.Product.Nutrition.Sugars != 56.3 {
			t.Errorf("Sugars = %v, want 56.3", result.Product.Nutrition.Sugars)
		}
	})

	t.Run("propagates not found", func(t *testing.T) {
		cache := NewMockCacheRepository()
		client := &MockFoodFactsClient{err: domain.ErrProductNotFound}
		svc := NewProductService(cache, client, ProductServiceConfig{})

		_, err := svc.ScanProduct(ctx, "00000000000")
		if !errors.Is(err, domain.ErrProductNotFound) {
			t.Errorf("error = %v, want ErrProductNotFound", err)
		}
	})

	t.Run("propagates upstream failure", func(t *testing.T) {
		cache := NewMockCacheRepository()
		client := &MockFoodFactsClient{err: domain.ErrOFFAPIFailure}
		svc := NewProductService(cache, client, ProductServiceConfig{})

		_, err := svc.ScanProduct(ctx, "3017620422003")
		if !errors.Is(err, domain.ErrOFFAPIFailure) {
			t.Errorf("error = %v, want ErrOFFAPIFailure", err)
		}
	})

	t.Run("continues even if caching fails", func(t *testing.T) {
		cache := NewMockCacheRepository()
		cache.setError = errors.New("cache write failed")

		client := &MockFoodFactsClient{product: testProduct()}
		svc := NewProductService(cache, client, ProductServiceConfig{})

		result, err := svc.ScanProduct(ctx, "3017620422003")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result == nil {
			t.Error("expected result even when cache write fails")
		}
	})
}

func TestIsValidBarcode(t *testing.T) {
	valid := []string{"12345678", "3017620422003", "12345678901234"}
	for _, barcode := range valid {
		if !isValidBarcode(barcode) {
			t.Errorf("isValidBarcode(%q) = false, want true", barcode)
		}
	}

	invalid := []string{"", "1234567", "123456789012345", "3017-620422", "abc45678"}
	for _, barcode := range invalid {
		if isValidBarcode(barcode) {
			t.Errorf("isValidBarcode(%q) = true, want false", barcode)
		}
	}
}
