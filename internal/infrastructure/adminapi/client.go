package adminapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/petfit/backend/internal/domain"
	"github.com/petfit/backend/internal/logging"
)

const (
	harmfulIngredientsPath = "/v1/config/harmful-ingredients"
	allergenKeywordsPath   = "/v1/config/allergen-keywords"

	maxAttempts = 3
)

// harmfulIngredientsResponse is the admin service payload for the harmful list
type harmfulIngredientsResponse struct {
	Items []struct {
		Name     string `json:"name"`
		IsActive *bool  `json:"is_active,omitempty"`
	} `json:"items"`
}

// allergenKeywordsResponse is the admin service payload for the keyword table
type allergenKeywordsResponse struct {
	Items []struct {
		AllergenCode string `json:"allergen_code"`
		Keyword      string `json:"keyword"`
		IsActive     *bool  `json:"is_active,omitempty"`
	} `json:"items"`
}

// Client reads the config tables from the admin service over HTTP
type Client struct {
	httpClient  *http.Client
	baseURL     string
	token       string
	rateLimiter *rate.Limiter
	backoff     func(attempt int) time.Duration
	logger      zerolog.Logger
}

// NewClient creates an admin API client limited to requestsPerSecond
func NewClient(baseURL, token string, requestsPerSecond float64) *Client {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 5
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:     strings.TrimRight(baseURL, "/"),
		token:       token,
		rateLimiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 5),
		backoff:     exponentialBackoff,
		logger:      logging.Component("adminapi"),
	}
}

// exponentialBackoff returns 500ms, 1s, 2s, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500<<uint(attempt-1)) * time.Millisecond
}

// HarmfulIngredients fetches the active harmful ingredient names
func (c *Client) HarmfulIngredients(ctx context.Context) ([]string, error) {
	var resp harmfulIngredientsResponse
	if err := c.getJSON(ctx, harmfulIngredientsPath, &resp); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.IsActive != nil && !*item.IsActive {
			continue
		}
		if name := strings.TrimSpace(item.Name); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// AllergenKeywords fetches the active keywords grouped by allergen code
func (c *Client) AllergenKeywords(ctx context.Context) (map[string][]string, error) {
	var resp allergenKeywordsResponse
	if err := c.getJSON(ctx, allergenKeywordsPath, &resp); err != nil {
		return nil, err
	}

	keywords := make(map[string][]string)
	for _, item := range resp.Items {
		if item.IsActive != nil && !*item.IsActive {
			continue
		}
		code := strings.ToUpper(strings.TrimSpace(item.AllergenCode))
		kw := strings.TrimSpace(item.Keyword)
		if code == "" || kw == "" {
			continue
		}
		keywords[code] = append(keywords[code], kw)
	}
	return keywords, nil
}

// getJSON performs a rate-limited GET with retries on transport errors and non-404 failures
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	reqURL := c.baseURL + path

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
		}

		body, status, err := c.doRequest(ctx, reqURL)
		switch {
		case err != nil:
			lastErr = err
		case status == http.StatusNotFound:
			return fmt.Errorf("%w: %s", domain.ErrConfigNotFound, path)
		case status != http.StatusOK:
			lastErr = fmt.Errorf("%w: status %d", domain.ErrConfigSourceFailure, status)
		default:
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("%w: decode %s: %v", domain.ErrConfigSourceFailure, path, err)
			}
			return nil
		}

		c.logger.Warn().
			Err(lastErr).
			Str("path", path).
			Int("attempt", attempt).
			Msg("admin api request failed")

		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", domain.ErrConfigSourceFailure, ctx.Err())
		case <-time.After(c.backoff(attempt)):
		}
	}

	return lastErr
}

// doRequest executes a GET and returns the body and status code
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "PetFit/1.0")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrConfigSourceFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: read body: %v", domain.ErrConfigSourceFailure, err)
	}
	return body, resp.StatusCode, nil
}
