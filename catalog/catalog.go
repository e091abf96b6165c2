package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const DefaultBaseURL = "https://api.themoviedb.org/3"

// Result carries the upstream response as-is. The API relays both the
// status code and the body verbatim, with no translation.
type Result struct {
	Status int
	Body   []byte
}

// CatalogService is the upstream movie/TV metadata provider surface.
type CatalogService interface {
	LatestMovies(ctx context.Context) (Result, error)
	LatestSeries(ctx context.Context) (Result, error)
	Search(ctx context.Context, query string) (Result, error)
}

// TMDBClient calls the external catalog with a statically configured
// bearer token. No retries and no caching; the transport timeout is the
// only failure handling.
type TMDBClient struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewTMDBClient(baseURL, token string) *TMDBClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &TMDBClient{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *TMDBClient) LatestMovies(ctx context.Context) (Result, error) {
	return c.get(ctx, "/movie/popular", nil)
}

func (c *TMDBClient) LatestSeries(ctx context.Context) (Result, error) {
	return c.get(ctx, "/tv/popular", nil)
}

func (c *TMDBClient) Search(ctx context.Context, query string) (Result, error) {
	return c.get(ctx, "/search/multi", url.Values{"query": []string{query}})
}

func (c *TMDBClient) get(ctx context.Context, path string, query url.Values) (Result, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, err
	}
	return Result{Status: resp.StatusCode, Body: body}, nil
}
