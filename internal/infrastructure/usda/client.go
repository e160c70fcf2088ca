package usda

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/smartaisle/backend/internal/domain"
	"golang.org/x/time/rate"
)

// nutrientNumbers are the legacy nutrient numbers requested on detail
// lookups: macros, sugar, fiber, sodium, fats, and the vitamins/minerals
// the quality evaluation counts as benefits.
const nutrientNumbers = "203,204,205,208,269,291,301,303,304,305,306,307,318,401,605,606"

// Client handles communication with the USDA FoodData Central API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
}

// NewClient creates a new USDA API client
func NewClient(apiKey, baseURL string) *Client {
	// USDA allows 1000 requests per hour, so ~0.278 requests/sec
	limiter := rate.NewLimiter(rate.Limit(0.278), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		rateLimiter: limiter,
	}
}

// quotaKeywords in an error body mark the key as out of quota rather
// than a transient upstream failure.
var quotaKeywords = []string{"quota", "rate limit", "over_rate_limit"}

// statusError maps a non-200 response to a domain error. Quota
// exhaustion gets its own class so callers can stop retrying for the
// rest of the session.
func statusError(status int, body []byte) error {
	if status == http.StatusTooManyRequests || isQuotaBody(body) {
		return fmt.Errorf("%w: status %d, body: %s", domain.ErrQuotaExceeded, status, string(body))
	}
	return fmt.Errorf("%w: status %d, body: %s", domain.ErrUSDAAPIFailure, status, string(body))
}

func isQuotaBody(body []byte) bool {
	message := strings.ToLower(string(body))
	for _, keyword := range quotaKeywords {
		if strings.Contains(message, keyword) {
			return true
		}
	}
	return false
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
		return nil, fmt.Errorf("%w: %v", domain.ErrUSDAAPIFailure, err)
	}

	return resp, nil
}

// SearchFoods searches for foods matching an ingredient name and returns
// the ranked candidate matches.
func (c *Client) SearchFoods(ctx context.Context, query string, pageSize int) ([]domain.USDAFood, error) {
	if pageSize <= 0 {
		pageSize = 5
	}

	endpoint := fmt.Sprintf("%s/v1/foods/search", c.baseURL)
	params := url.Values{}
	params.Add("query", query)
	params.Add("api_key", c.apiKey)
	params.Add("dataType", "Foundation,SR Legacy,Survey (FNDDS)")
	params.Add("pageSize", fmt.Sprintf("%d", pageSize))

	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	resp, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, statusError(resp.StatusCode, body)
	}

	var searchResp domain.USDASearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	log.Printf("[USDA] Found %d foods for query %q", len(searchResp.Foods), query)
	return searchResp.Foods, nil
}

// GetFoodDetails retrieves the detailed nutrient breakdown for an FDC ID
func (c *Client) GetFoodDetails(ctx context.Context, fdcID int) (*domain.USDAFood, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/food/%d", c.baseURL, fdcID)
	params := url.Values{}
	params.Add("api_key", c.apiKey)
	params.Add("nutrients", nutrientNumbers)

	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	resp, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, statusError(resp.StatusCode, body)
	}

	var food domain.USDAFood
	if err := json.NewDecoder(resp.Body).Decode(&food); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &food, nil
}
