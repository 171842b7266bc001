// Package catalog is a thin HTTP client for the PokeAPI creature catalog.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/dtroode/pokedex-client/internal/logger"
	"github.com/dtroode/pokedex-client/internal/model"
)

const (
	// RequestIDHeader carries the per-request correlation id.
	RequestIDHeader = "X-Request-ID"

	maxBodySize      = 8 << 20
	maxErrorBodySize = 512
)

var _ model.CatalogClient = (*Client)(nil)

// Config configures the catalog client.
type Config struct {
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
	// Transport overrides http.DefaultTransport. Requests are logged either way.
	Transport http.RoundTripper
}

// Client calls the remote catalog. It keeps no state between calls apart from
// the rate limiter and never retries.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	limiter    *rate.Limiter
	logger     *logger.Logger
}

// NewClient creates a new catalog client.
func NewClient(cfg Config, logger *logger.Logger) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("catalog base url must be absolute, got %q", cfg.BaseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	next := cfg.Transport
	if next == nil {
		next = http.DefaultTransport
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: newLoggingTransport(next, logger),
		},
		baseURL: base,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}, nil
}

// ListPage fetches limit summaries starting at offset.
func (c *Client) ListPage(ctx context.Context, offset, limit int) (model.Page, error) {
	if offset < 0 {
		return model.Page{}, model.NewValidationError("offset", "non_negative", "offset must not be negative")
	}
	if limit <= 0 {
		return model.Page{}, model.NewValidationError("limit", "positive", "limit must be positive")
	}

	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))

	body, err := c.get(ctx, &url.URL{Path: "pokemon", RawQuery: q.Encode()})
	if err != nil {
		return model.Page{}, err
	}

	var page model.Page
	if err := json.Unmarshal(body, &page); err != nil {
		return model.Page{}, &model.NetworkError{Err: fmt.Errorf("failed to decode page: %w", err)}
	}
	if page.Results == nil {
		page.Results = []model.Summary{}
	}

	return page, nil
}

// GetDetail fetches the full description of one entry by numeric id or name.
func (c *Client) GetDetail(ctx context.Context, idOrName string) (model.Detail, error) {
	idOrName = strings.TrimSpace(idOrName)
	if idOrName == "" {
		return model.Detail{}, model.NewValidationError("idOrName", "required", "id or name is required")
	}

	body, err := c.get(ctx, &url.URL{
		Path:    "pokemon/" + idOrName,
		RawPath: "pokemon/" + url.PathEscape(idOrName),
	})
	if err != nil {
		var remoteErr *model.RemoteError
		if errors.As(err, &remoteErr) && remoteErr.Status == http.StatusNotFound {
			return model.Detail{}, fmt.Errorf("pokemon %q: %w", idOrName, model.ErrNotFound)
		}
		return model.Detail{}, err
	}

	detail, err := decodeDetail(body)
	if err != nil {
		return model.Detail{}, &model.NetworkError{Err: err}
	}

	return detail, nil
}

// get resolves ref against the base URL and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, ref *url.URL) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &model.NetworkError{Err: fmt.Errorf("rate limiter: %w", err)}
	}

	u := c.baseURL.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &model.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return nil, &model.RemoteError{Status: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, &model.NetworkError{Err: fmt.Errorf("failed to read response body: %w", err)}
	}
	if len(body) > maxBodySize {
		return nil, &model.NetworkError{Err: fmt.Errorf("response body exceeds %d bytes", maxBodySize)}
	}

	return body, nil
}
