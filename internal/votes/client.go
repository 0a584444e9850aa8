// Package votes provides a client for the third-party like/dislike API.
//
// The upstream service (Return YouTube Dislike) exposes a single lookup per
// video id and requires no authentication. Lookups are best-effort: callers
// are expected to treat a failed lookup as "no vote data" rather than
// aborting their pipeline.
package votes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://returnyoutubedislikeapi.com"

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL sets a custom base URL (useful for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// Record holds the vote counts for one video.
type Record struct {
	ID        string    `json:"id"`
	Likes     int64     `json:"likes"`
	Dislikes  int64     `json:"dislikes"`
	Rating    float64   `json:"rating"`
	ViewCount int64     `json:"view_count"`
	Deleted   bool      `json:"deleted"`
	CreatedAt time.Time `json:"created_at"`
}

// Client fetches like/dislike counts for single videos.
type Client struct {
	baseURL    string
	httpClient HTTPClient
}

// NewClient creates a new votes API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchVotes retrieves the vote record for one video id.
func (c *Client) FetchVotes(ctx context.Context, videoID string) (*Record, error) {
	reqURL := fmt.Sprintf("%s/votes?videoId=%s", c.baseURL, url.QueryEscape(videoID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read votes response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("votes API returned HTTP %d for %s", resp.StatusCode, videoID)
	}

	var response voteResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse votes response: %w", err)
	}

	createdAt, _ := time.Parse(time.RFC3339, response.DateCreated)
	return &Record{
		ID:        response.ID,
		Likes:     response.Likes,
		Dislikes:  response.Dislikes,
		Rating:    response.Rating,
		ViewCount: response.ViewCount,
		Deleted:   response.Deleted,
		CreatedAt: createdAt,
	}, nil
}

// API response type (private - implementation detail)

type voteResponse struct {
	ID          string  `json:"id"`
	DateCreated string  `json:"dateCreated"`
	Likes       int64   `json:"likes"`
	Dislikes    int64   `json:"dislikes"`
	Rating      float64 `json:"rating"`
	ViewCount   int64   `json:"viewCount"`
	Deleted     bool    `json:"deleted"`
}
