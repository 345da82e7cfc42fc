package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/nutriscanner/backend/internal/domain"
)

// ProductServiceConfig holds configuration for the product service
type ProductServiceConfig struct {
	ProductTTL time.Duration
	SearchTTL  time.Duration
	PageSize   int
	Country    string
	Language   string
	// SearchFailurePolicy: "error" surfaces search timeouts, "empty" turns
	// them into an empty first page.
	SearchFailurePolicy string
}

// ProductService serves normalized product views with read-through caching.
// Two independent caches: one keyed by barcode, one by serialized criteria.
type ProductService struct {
	productCache  domain.CacheRepository
	searchCache   domain.CacheRepository
	client        domain.ProductClient
	productTTL    time.Duration
	searchTTL     time.Duration
	pageSize      int
	country       string
	language      string
	emptyOnSearch bool
}

// NewProductService creates a new product service with dependencies
func NewProductService(
	productCache domain.CacheRepository,
	searchCache domain.CacheRepository,
	client domain.ProductClient,
	config ProductServiceConfig,
) *ProductService {
	if config.ProductTTL == 0 {
		config.ProductTTL = 60 * time.Minute
	}
	if config.SearchTTL == 0 {
		config.SearchTTL = 10 * time.Minute
	}
	if config.PageSize < 1 {
		config.PageSize = 7
	}
	if config.Country == "" {
		config.Country = "montenegro"
	}
	if config.Language == "" {
		config.Language = "en"
	}

	return &ProductService{
		productCache:  productCache,
		searchCache:   searchCache,
		client:        client,
		productTTL:    config.ProductTTL,
		searchTTL:     config.SearchTTL,
		pageSize:      config.PageSize,
		country:       config.Country,
		language:      config.Language,
		emptyOnSearch: config.SearchFailurePolicy == "empty",
	}
}

// LookupBarcode returns the normalized view of a single product.
// Flow: check cache -> fetch from OFF -> cache raw record -> build view.
func (s *ProductService) LookupBarcode(ctx context.Context, barcode string) (*domain.ProductView, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, fmt.Errorf("%w: empty barcode", domain.ErrInvalidRequest)
	}

	cacheKey := "product:" + barcode
	if cached, err := s.productCache.Get(ctx, cacheKey); err == nil {
		if product, ok := cached.(*domain.Product); ok {
			view := BuildProductView(product, s.country, s.language)
			return &view, nil
		}
	}

	product, err := s.client.GetProduct(ctx, barcode)
	if err != nil {
		return nil, err
	}

	if err := s.productCache.Set(ctx, cacheKey, product, s.productTTL); err != nil {
		log.Printf("failed to cache product %s: %v", barcode, err)
	}

	view := BuildProductView(product, s.country, s.language)
	return &view, nil
}

// SearchProducts fetches one raw batch (cached per criteria), then filters
// and paginates in memory so every page sees the same stable page count.
func (s *ProductService) SearchProducts(ctx context.Context, criteria *domain.FilterCriteria) (*domain.ResultPage, error) {
	if criteria == nil {
		return nil, domain.ErrInvalidRequest
	}

	raw, err := s.rawSearch(ctx, criteria)
	if err != nil {
		if s.emptyOnSearch && errors.Is(err, domain.ErrUpstreamTimeout) {
			log.Printf("search timed out, returning empty page: %v", err)
			empty := Paginate(nil, 1, s.pageSize)
			return &empty, nil
		}
		return nil, err
	}

	filtered := FilterProducts(raw, criteria, s.country)

	views := make([]domain.ProductView, 0, len(filtered))
	for i := range filtered {
		views = append(views, BuildProductView(&filtered[i], s.country, s.language))
	}

	page := Paginate(views, criteria.Page, s.pageSize)
	return &page, nil
}

// ClearCaches drops both caches.
func (s *ProductService) ClearCaches() {
	s.productCache.Clear()
	s.searchCache.Clear()
}

// rawSearch returns the unfiltered batch for the criteria, from cache when possible.
func (s *ProductService) rawSearch(ctx context.Context, criteria *domain.FilterCriteria) ([]domain.Product, error) {
	cacheKey := searchCacheKey(criteria)
	if cached, err := s.searchCache.Get(ctx, cacheKey); err == nil {
		if products, ok := cached.([]domain.Product); ok {
			return products, nil
		}
	}

	resp, err := s.client.Search(ctx, criteria)
	if err != nil {
		return nil, err
	}

	if err := s.searchCache.Set(ctx, cacheKey, resp.Products, s.searchTTL); err != nil {
		log.Printf("failed to cache search results: %v", err)
	}

	return resp.Products, nil
}

// searchCacheKey serializes the criteria that shape the raw fetch. The page
// number is excluded: every page is served from the same batch.
func searchCacheKey(c *domain.FilterCriteria) string {
	grades := make([]string, 0, len(c.Grades))
	for _, g := range c.Grades {
		grades = append(grades, strings.ToLower(strings.TrimSpace(g)))
	}
	sort.Strings(grades)

	parts := []string{
		"search",
		strings.ToLower(strings.TrimSpace(c.Query)),
		strings.ToLower(strings.TrimSpace(c.Category)),
		formatBound(c.MaxSugars),
		formatBound(c.MaxFat),
		formatBound(c.MaxEnergyKcal),
		formatBound(c.MaxCarbs),
		formatBound(c.MaxProteins),
		strconv.FormatBool(c.Vegan),
		strconv.FormatBool(c.LactoseFree),
		strconv.FormatBool(c.GlutenFree),
		strconv.FormatBool(c.AvailableOnly),
		strings.Join(grades, ","),
	}
	return strings.Join(parts, "|")
}

func formatBound(f *float64) string {
	if f == nil {
		return "-"
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
