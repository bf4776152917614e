// Package client is the Go consumer for the gamelog API: a thin HTTP client
// plus a throttled, last-request-wins loading layer for UI-style consumers.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gamelog/models"
)

// Client calls the gamelog server API.
type Client struct {
	baseURL string
	httpc   *http.Client

	// Optional bearer token for authenticated endpoints.
	token string
}

// New creates a client for the given server base URL (e.g.
// "http://localhost:5000"). httpc may be nil for a default client.
func New(baseURL string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpc: httpc}
}

// SetToken sets the bearer token sent with subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) get(ctx context.Context, path string, query url.Values, v any) (int, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		// Drain so the connection can be reused; the status carries enough.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 2048))
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return resp.StatusCode, fmt.Errorf("decode %s response: %w", path, err)
	}
	return resp.StatusCode, nil
}

// FetchCover resolves the card image for a title. A 404 from the server is a
// confirmed miss and returns a "none" image with no error.
func (c *Client) FetchCover(ctx context.Context, title string) (models.CatalogImage, error) {
	var img models.CatalogImage
	status, err := c.get(ctx, "/api/cover", url.Values{"title": {title}}, &img)
	if err != nil {
		return models.CatalogImage{}, err
	}
	if status == http.StatusNotFound {
		return models.CatalogImage{Source: models.ImageSourceNone}, nil
	}
	if status >= 300 {
		return models.CatalogImage{}, fmt.Errorf("cover lookup failed: status %d", status)
	}
	if img.Source == "" {
		img.Source = models.ImageSourceCover
	}
	return img, nil
}

// FetchDetails resolves catalog details for a title. Returns nil with no
// error on a confirmed catalog miss.
func (c *Client) FetchDetails(ctx context.Context, title string) (*models.GameDetails, error) {
	var details models.GameDetails
	status, err := c.get(ctx, "/api/details", url.Values{"title": {title}}, &details)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status >= 300 {
		return nil, fmt.Errorf("details lookup failed: status %d", status)
	}
	return &details, nil
}

// FetchGenres returns the server's genre histogram.
func (c *Client) FetchGenres(ctx context.Context) (models.GenreHistogram, error) {
	var hist models.GenreHistogram
	status, err := c.get(ctx, "/api/genres", nil, &hist)
	if err != nil {
		return nil, err
	}
	if status >= 300 {
		return nil, fmt.Errorf("genres lookup failed: status %d", status)
	}
	return hist, nil
}

// ListContent returns the visible content collection, optionally narrowed to
// an exact title match.
func (c *Client) ListContent(ctx context.Context, title string) ([]models.ContentRecord, error) {
	query := url.Values{}
	if title != "" {
		query.Set("title", title)
	}
	var records []models.ContentRecord
	status, err := c.get(ctx, "/api/content", query, &records)
	if err != nil {
		return nil, err
	}
	if status >= 300 {
		return nil, fmt.Errorf("content list failed: status %d", status)
	}
	return records, nil
}
