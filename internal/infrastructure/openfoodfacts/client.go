package openfoodfacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nutriscanner/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Client handles communication with the Open Food Facts API
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	retries     int
	backoffBase time.Duration
	rateLimiter *rate.Limiter
	batchSize   int
	sortBy      string
	country     string
}

// Options tunes the client. Zero values fall back to sensible defaults.
type Options struct {
	Timeout     time.Duration
	Retries     int
	BackoffBase time.Duration
	RatePerSec  float64
	RateBurst   int
	// BatchSize is the raw page_size requested from the search endpoint.
	// Search always fetches one batch; pagination happens in memory.
	BatchSize int
	SortBy    string
	// Country is the tag value used for the regional availability filter.
	Country string
}

// NewClient creates a new Open Food Facts API client
func NewClient(baseURL, userAgent string, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 8 * time.Second
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = 500 * time.Millisecond
	}
	if opts.RatePerSec <= 0 {
		// OFF asks anonymous clients to stay well under 10 searches/minute
		opts.RatePerSec = 0.5
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = 5
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	if opts.SortBy == "" {
		opts.SortBy = "unique_scans_n"
	}
	if opts.Country == "" {
		opts.Country = "montenegro"
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		baseURL:     strings.TrimRight(baseURL, "/"),
		userAgent:   userAgent,
		retries:     opts.Retries,
		backoffBase: opts.BackoffBase,
		rateLimiter: rate.NewLimiter(rate.Limit(opts.RatePerSec), opts.RateBurst),
		batchSize:   opts.BatchSize,
		sortBy:      opts.SortBy,
		country:     opts.Country,
	}
}

// GetProduct fetches a single product record by barcode.
func (c *Client) GetProduct(ctx context.Context, barcode string) (*domain.Product, error) {
	reqURL := fmt.Sprintf("%s/api/v0/product/%s.json", c.baseURL, url.PathEscape(barcode))

	body, err := c.fetch(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var wrapped domain.ProductResponse
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("%w: decoding product response: %v", domain.ErrUpstreamFailure, err)
	}

	if wrapped.Status != 1 || wrapped.Product == nil {
		return nil, domain.ErrProductNotFound
	}

	return wrapped.Product, nil
}

// Search runs a single search request and returns the raw, unfiltered batch
// in upstream order. Numeric nutrient bounds are applied by the caller, not
// pushed upstream, so that the strict absence-fails policy holds.
func (c *Client) Search(ctx context.Context, criteria *domain.FilterCriteria) (*domain.SearchResponse, error) {
	reqURL := fmt.Sprintf("%s/cgi/search.pl?%s", c.baseURL, c.searchParams(criteria).Encode())

	body, err := c.fetch(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var searchResp domain.SearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("%w: decoding search response: %v", domain.ErrUpstreamFailure, err)
	}

	return &searchResp, nil
}

// searchParams builds the cgi/search.pl query for the given criteria.
func (c *Client) searchParams(criteria *domain.FilterCriteria) url.Values {
	params := url.Values{}
	params.Set("action", "process")
	params.Set("json", "1")
	params.Set("sort_by", c.sortBy)
	params.Set("page", "1")
	params.Set("page_size", strconv.Itoa(c.batchSize))

	if q := strings.TrimSpace(criteria.Query); q != "" {
		params.Set("search_terms", q)
		params.Set("search_simple", "1")
	}

	tagIndex := 0
	if cat := strings.TrimSpace(criteria.Category); cat != "" {
		addTagFilter(params, &tagIndex, "categories", cat)
	}
	if criteria.Vegan {
		addTagFilter(params, &tagIndex, "labels", "en:vegan")
	}
	if criteria.GlutenFree {
		addTagFilter(params, &tagIndex, "labels", "en:gluten-free")
	}
	if criteria.LactoseFree {
		addTagFilter(params, &tagIndex, "labels", "en:no-lactose")
	}
	if criteria.AvailableOnly {
		addTagFilter(params, &tagIndex, "countries", "en:"+c.country)
	}

	if len(criteria.Grades) > 0 {
		grades := make([]string, 0, len(criteria.Grades))
		for _, g := range criteria.Grades {
			grades = append(grades, strings.ToLower(strings.TrimSpace(g)))
		}
		params.Set("nutrition_grades", strings.Join(grades, ","))
	}

	return params
}

// addTagFilter appends one tagtype/tag_contains/tag triple to the query.
func addTagFilter(params url.Values, index *int, tagtype, tag string) {
	i := strconv.Itoa(*index)
	params.Set("tagtype_"+i, tagtype)
	params.Set("tag_contains_"+i, "contains")
	params.Set("tag_"+i, tag)
	*index++
}

// fetch executes a GET with retry-on-timeout and maps every failure to one of
// the domain error kinds. Transport errors never escape untyped.
func (c *Client) fetch(ctx context.Context, reqURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(c.retryBackoff(attempt - 1)):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamTimeout, ctx.Err())
			}
		}

		// Wait for rate limiter
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrUpstreamFailure, err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			if isTimeout(err) {
				log.Printf("[OFF] read timeout (attempt %d/%d): %v", attempt+1, c.retries+1, err)
				lastErr = err
				continue
			}
			return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			if isTimeout(readErr) {
				log.Printf("[OFF] read timeout (attempt %d/%d): %v", attempt+1, c.retries+1, readErr)
				lastErr = readErr
				continue
			}
			return nil, fmt.Errorf("%w: reading response: %v", domain.ErrUpstreamFailure, readErr)
		}

		if resp.StatusCode == http.StatusNotFound {
			return nil, domain.ErrProductNotFound
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: status %d", domain.ErrUpstreamFailure, resp.StatusCode)
		}

		return body, nil
	}

	return nil, fmt.Errorf("%w: after %d attempts: %v", domain.ErrUpstreamTimeout, c.retries+1, lastErr)
}

// doRequest executes an HTTP GET request with the identifying client header
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	return c.httpClient.Do(req)
}

// retryBackoff returns the wait before the next attempt: base * 2^attempt.
func (c *Client) retryBackoff(attempt int) time.Duration {
	return c.backoffBase * (1 << attempt)
}

// isTimeout reports whether err is a read/deadline timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
