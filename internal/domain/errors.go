package domain

import "errors"

var (
	// ErrProductNotFound is returned when Open Food Facts has no record for a barcode
	ErrProductNotFound = errors.New("product not found in Open Food Facts")

	// ErrUpstreamTimeout is returned when the upstream read timeout is exceeded after all retries
	ErrUpstreamTimeout = errors.New("Open Food Facts request timed out")

	// ErrUpstreamFailure is returned when an Open Food Facts request fails for any non-timeout reason
	ErrUpstreamFailure = errors.New("Open Food Facts request failed")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
