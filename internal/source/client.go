package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/brocketdesign/chatlamix-uncensored-sub004/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Chatmix/1.0"
	searchPath     = "/api/characters/search"
)

// FetchError is a failed page fetch: network failure or a non-2xx response.
// Retryable decides whether the scheduler re-attempts the page.
type FetchError struct {
	StatusCode int // 0 for transport errors
	URL        string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch failed with status %d (URL: %s)", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("fetch failed: %v (URL: %s)", e.Err, e.URL)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Retryable reports whether retrying the same page can succeed. Client
// errors (4xx) will not get better; transport errors and 5xx may.
func (e *FetchError) Retryable() bool {
	if e.StatusCode >= 400 && e.StatusCode < 500 {
		return false
	}
	return true
}

// Client fetches one page of character results at a time from the search
// endpoint. It holds no cache; windowing is the feed's job.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a character search client.
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// FetchPage requests one page of characters. It never mutates cursor state;
// the caller applies the result via FetchCursor.Advance or Fail on the
// event loop.
func (c *Client) FetchPage(ctx context.Context, req PageRequest) ([]*domain.CharacterEntry, error) {
	q := make(url.Values)
	q.Set("query", req.Query)
	q.Set("page", strconv.Itoa(req.Page))
	q.Set("limit", strconv.Itoa(req.Limit))
	q.Set("nsfw", string(req.NsfwMode))

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, searchPath, q.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("search request", "page", req.Page, "limit", req.Limit, "nsfw", req.NsfwMode)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("search request failed", "error", err, "page", req.Page)
		return nil, &FetchError{URL: reqURL, Err: errors.Join(domain.ErrServerOffline, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("search request error", "status", resp.StatusCode, "body", strings.TrimSpace(string(body)))
		return nil, &FetchError{StatusCode: resp.StatusCode, URL: reqURL}
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Error("search response parse error", "error", err)
		return nil, &FetchError{URL: reqURL, Err: fmt.Errorf("decode search response: %w", err)}
	}

	entries := mapCharacters(payload.Characters)
	c.logger.Debug("search response", "page", req.Page, "raw", len(payload.Characters), "mapped", len(entries))
	return entries, nil
}
