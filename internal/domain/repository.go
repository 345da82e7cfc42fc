package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Clear()
}

// ProductClient defines the interface for the Open Food Facts API
type ProductClient interface {
	GetProduct(ctx context.Context, barcode string) (*Product, error)
	Search(ctx context.Context, criteria *FilterCriteria) (*SearchResponse, error)
}
