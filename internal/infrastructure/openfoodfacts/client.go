package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/shelfscore/backend/internal/domain"
	"golang.org/x/time/rate"
)

// requestedFields limits the OFF response to the fields the scoring
// pipeline consumes.
const requestedFields = "code,product_name,product_name_en,generic_name,brands,image_front_url,nutriments,nova_group,additives_tags,nutriscore_grade"

// Client handles communication with the Open Food Facts API
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new Open Food Facts API client. Open Food Facts
// asks for 100 product requests per minute and a descriptive User-Agent.
func NewClient(baseURL, userAgent string) *Client {
	// 100/min ≈ 1.67 requests/sec, with a small burst for cache-cold spikes
	limiter := rate.NewLimiter(rate.Limit(1.67), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     baseURL,
		userAgent:   userAgent,
		rateLimiter: limiter,
	}
}

// SetDebug toggles verbose request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// offResponse is the envelope of the v2 product endpoint.
// Status 0 means the barcode is unknown.
type offResponse struct {
	Code          string      `json:"code"`
	Status        int         `json:"status"`
	StatusVerbose string      `json:"status_verbose"`
	Product       *rawProduct `json:"product"`
}

// GetProduct fetches a product record by barcode and maps it into the
// domain model.
func (c *Client) GetProduct(ctx context.Context, barcode string) (*domain.Product, error) {
	if c.debug {
		log.Printf("[OFF] GetProduct called with barcode: %s", barcode)
	}

	reqURL := fmt.Sprintf("%s/api/v2/product/%s?fields=%s", c.baseURL, barcode, requestedFields)

	// Retry up to 3 times for transient failures
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		// Wait for rate limiter
		if err := c.rateLimiter.Wait(ctx); err != nil {
			log.Printf("[OFF] Rate limiter error: %v", err)
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			log.Printf("[OFF] Request error (attempt %d): %v", attempt, err)
			lastErr = err
			time.Sleep(exponentialBackoff(attempt))
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, domain.ErrProductNotFound
		case resp.StatusCode == http.StatusTooManyRequests:
			return nil, domain.ErrRateLimited
		case resp.StatusCode != http.StatusOK:
			log.Printf("[OFF] API error (attempt %d) - Status: %d, Body: %s", attempt, resp.StatusCode, string(body))
			lastErr = fmt.Errorf("%w: status %d", domain.ErrOFFAPIFailure, resp.StatusCode)
			time.Sleep(exponentialBackoff(attempt))
			continue
		}

		var offResp offResponse
		if err := json.Unmarshal(body, &offResp); err != nil {
			log.Printf("[OFF] JSON decode error: %v", err)
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}

		if offResp.Status == 0 || offResp.Product == nil {
			if c.debug {
				log.Printf("[OFF] Product not found: %s (%s)", barcode, offResp.StatusVerbose)
			}
			return nil, domain.ErrProductNotFound
		}

		if c.debug {
			log.Printf("[OFF] Found product %q for barcode %s", offResp.Product.ProductName, barcode)
		}
		return MapToProduct(barcode, offResp.Product), nil
	}

	log.Printf("[OFF] All retries failed for barcode: %s", barcode)
	return nil, lastErr
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOFFAPIFailure, err)
	}

	return resp, nil
}

// exponentialBackoff returns the wait before retry attempt n:
// 500ms, 1s, 2s, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500<<(attempt-1)) * time.Millisecond
}
