package domain

import "errors"

var (
	// ErrProductNotFound is returned when a barcode is not known to Open Food Facts
	ErrProductNotFound = errors.New("product not found in Open Food Facts")

	// ErrInvalidBarcode is returned when the supplied barcode is malformed
	ErrInvalidBarcode = errors.New("invalid barcode")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrOFFAPIFailure is returned when an Open Food Facts API request fails
	ErrOFFAPIFailure = errors.New("Open Food Facts API request failed")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)
