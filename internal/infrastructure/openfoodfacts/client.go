package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/smartaisle/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Client handles communication with the Open Food Facts API
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
}

// productResponse is the envelope around a single product lookup
type productResponse struct {
	Code          string             `json:"code"`
	Status        int                `json:"status"`
	StatusVerbose string             `json:"status_verbose"`
	Product       *domain.RawProduct `json:"product"`
}

// searchResponse is the envelope around a free-text search
type searchResponse struct {
	Products []domain.RawProduct `json:"products"`
	Count    int                 `json:"count"`
}

// NewClient creates a new Open Food Facts API client
func NewClient(baseURL string) *Client {
	// OFF asks clients to stay under 100 req/min for product reads
	limiter := rate.NewLimiter(rate.Limit(1.5), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     baseURL,
		rateLimiter: limiter,
	}
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "SmartAisle/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOFFAPIFailure, err)
	}

	return resp, nil
}

// FetchProduct retrieves the raw upstream record for a barcode.
// Returns domain.ErrProductNotFound when the database has no record.
func (c *Client) FetchProduct(ctx context.Context, barcode string) (*domain.RawProduct, error) {
	reqURL := fmt.Sprintf("%s/api/v0/product/%s.json", c.baseURL, barcode)

	// Retry up to 3 times for transient failures
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			log.Printf("[OFF] Request error (attempt %d): %v", attempt, err)
			lastErr = err
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, domain.ErrProductNotFound
		}
		if resp.StatusCode != http.StatusOK {
			log.Printf("[OFF] API error (attempt %d) - Status: %d", attempt, resp.StatusCode)
			lastErr = fmt.Errorf("%w: status %d", domain.ErrOFFAPIFailure, resp.StatusCode)
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		var parsed productResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			log.Printf("[OFF] JSON decode error: %v", err)
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}

		if parsed.Status == 0 || parsed.Product == nil {
			log.Printf("[OFF] No product found for barcode %q", barcode)
			return nil, domain.ErrProductNotFound
		}

		if parsed.Product.Code == "" {
			parsed.Product.Code = barcode
		}
		return parsed.Product, nil
	}

	log.Printf("[OFF] All retries failed for barcode %q", barcode)
	return nil, lastErr
}

// SearchProducts searches the database by free-text query
func (c *Client) SearchProducts(ctx context.Context, query string, limit int) ([]domain.RawProduct, error) {
	if limit <= 0 {
		limit = 5
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	params := url.Values{}
	params.Add("search_terms", query)
	params.Add("search_simple", "1")
	params.Add("action", "process")
	params.Add("json", "1")
	params.Add("page_size", fmt.Sprintf("%d", limit))

	reqURL := fmt.Sprintf("%s/cgi/search.pl?%s", c.baseURL, params.Encode())

	resp, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrOFFAPIFailure, resp.StatusCode, string(body))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	log.Printf("[OFF] Found %d products for query %q", len(parsed.Products), query)
	return parsed.Products, nil
}
