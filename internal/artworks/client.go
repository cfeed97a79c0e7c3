// Package artworks wraps the Art Institute of Chicago public artworks API.
package artworks

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

	"dataloaders/pkg/platform/sentinel"
	"dataloaders/pkg/requestcontext"
)

// DefaultBaseURL is the public AIC artworks endpoint.
const DefaultBaseURL = "https://api.artic.edu/api/v1/artworks"

// DefaultLimit is the page size used when a caller does not choose one.
const DefaultLimit = 25

const maxBodyBytes = 8 << 20

// Cache stores decoded API responses. Implementations are best effort:
// errors are logged and the API is queried as if the entry were missing.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}

// ListParams selects a page of artworks. Zero values use the API default
// page and DefaultLimit.
type ListParams struct {
	Page  int
	Limit int
}

// Client calls the artworks API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      Cache
	logger     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func WithCache(cache Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New builds a client for baseURL, defaulting to DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// List returns a page of artworks with ImageURL filled in for every artwork
// that has an image.
func (c *Client) List(ctx context.Context, params ListParams) (*Paginated[[]Artwork], error) {
	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	limit := params.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	query.Set("limit", strconv.Itoa(limit))

	var page Paginated[[]Artwork]
	if err := c.get(ctx, "/", query, &page); err != nil {
		return nil, err
	}
	for i := range page.Data {
		art := &page.Data[i]
		if art.ImageID != nil && *art.ImageID != "" {
			u := ImageURL(page.Config.IIIFURL, *art.ImageID)
			art.ImageURL = &u
		} else {
			art.ImageURL = nil
		}
	}
	return &page, nil
}

// Get returns a single artwork.
func (c *Client) Get(ctx context.Context, id int) (*Response[Artwork], error) {
	if id <= 0 {
		return nil, fmt.Errorf("artwork %d: %w", id, sentinel.ErrNotFound)
	}
	var resp Response[Artwork]
	if err := c.get(ctx, "/"+strconv.Itoa(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Search runs a full-text search over artworks.
func (c *Client) Search(ctx context.Context, q string) (*Paginated[[]SearchResult], error) {
	query := url.Values{}
	query.Set("q", q)

	var results Paginated[[]SearchResult]
	if err := c.get(ctx, "/search", query, &results); err != nil {
		return nil, err
	}
	return &results, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dst any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	key := cacheKey(path, query)

	if c.cache != nil {
		hit, err := c.cache.Get(ctx, key, dst)
		if err != nil {
			c.logger.WarnContext(ctx, "artworks cache read failed",
				"request_id", requestcontext.RequestID(ctx),
				"key", key,
				"error", err,
			)
		} else if hit {
			return nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build artworks request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("artworks request %s: %w: %w", path, sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read artworks response: %w: %w", sentinel.ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("artworks %s: %w", path, sentinel.ErrNotFound)
	case resp.StatusCode >= http.StatusInternalServerError, resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("artworks %s: status %d: %w", path, resp.StatusCode, sentinel.ErrUnavailable)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("artworks %s: status %d: %w", path, resp.StatusCode, sentinel.ErrBadData)
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode artworks response: %w: %w", sentinel.ErrBadData, err)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, dst); err != nil {
			c.logger.WarnContext(ctx, "artworks cache write failed",
				"request_id", requestcontext.RequestID(ctx),
				"key", key,
				"error", err,
			)
		}
	}
	return nil
}

func cacheKey(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}

// IsNotFound reports whether err means the artwork does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, sentinel.ErrNotFound)
}
