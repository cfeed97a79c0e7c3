// Package github is the live source for profile lookups: a client for a
// GitHub-compatible users API (GET /users/{login}).
package github

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

	"dataloaders/internal/profile/models"
)

// DefaultBaseURL is the public GitHub REST API.
const DefaultBaseURL = "https://api.github.com"

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 1 << 20

// User is the subset of the users API payload the demo uses.
type User struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	Followers int    `json:"followers"`
}

// Client queries the users API. It does not retry; callers bound each call
// with a context deadline.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithToken sends a bearer token, which raises the upstream rate limit.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
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
	return c
}

// User fetches a single user by login.
func (c *Client) User(ctx context.Context, login string) (*User, error) {
	if login == "" {
		return nil, newClientError(ErrorBadData, login, "login is required", nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users/"+url.PathEscape(login), nil)
	if err != nil {
		return nil, fmt.Errorf("build users request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, newClientError(ErrorTimeout, login, "request did not complete", err)
		}
		return nil, newClientError(ErrorOutage, login, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, newClientError(ErrorOutage, login, "read response body", err)
	}
	return parseUserResponse(login, resp.StatusCode, body)
}

// Profile fetches login and maps it to a Profile. Users without a display
// name are shown by login.
func (c *Client) Profile(ctx context.Context, login string) (models.Profile, error) {
	user, err := c.User(ctx, login)
	if err != nil {
		return models.Profile{}, err
	}
	name := user.Name
	if name == "" {
		name = user.Login
	}
	return models.Profile{Name: name, ImageURL: user.AvatarURL}, nil
}

// FollowerCount fetches login and returns its follower count formatted for
// display.
func (c *Client) FollowerCount(ctx context.Context, login string) (string, error) {
	user, err := c.User(ctx, login)
	if err != nil {
		return "", err
	}
	return FormatCount(user.Followers), nil
}

func parseUserResponse(login string, status int, body []byte) (*User, error) {
	switch {
	case status == http.StatusOK:
	case status == http.StatusNotFound:
		return nil, newClientError(ErrorNotFound, login, "user not found", nil)
	case status == http.StatusUnauthorized:
		return nil, newClientError(ErrorAuthentication, login, "token rejected", nil)
	case status == http.StatusForbidden || status == http.StatusTooManyRequests:
		return nil, newClientError(ErrorRateLimited, login, fmt.Sprintf("status %d", status), nil)
	case status >= http.StatusInternalServerError:
		return nil, newClientError(ErrorOutage, login, fmt.Sprintf("status %d", status), nil)
	default:
		return nil, newClientError(ErrorBadData, login, fmt.Sprintf("unexpected status %d", status), nil)
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, newClientError(ErrorBadData, login, "decode user", err)
	}
	if user.Login == "" {
		return nil, newClientError(ErrorBadData, login, "payload has no login", nil)
	}
	return &user, nil
}

// FormatCount renders a count the way profile pages do: 950, 5.7k, 100k,
// 1.2M. Values are truncated, never rounded up, so 999999 is 999.9k.
func FormatCount(n int) string {
	switch {
	case n < 0:
		return "0"
	case n < 1_000:
		return strconv.Itoa(n)
	case n < 1_000_000:
		return compact(n, 1_000) + "k"
	default:
		return compact(n, 1_000_000) + "M"
	}
}

func compact(n, unit int) string {
	tenths := n * 10 / unit
	if tenths%10 == 0 {
		return strconv.Itoa(tenths / 10)
	}
	return strconv.Itoa(tenths/10) + "." + strconv.Itoa(tenths%10)
}
