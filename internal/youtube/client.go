package youtube

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

	"github.com/rs/zerolog/log"

	"github.com/rajibul-dev/find-youtube-gems/internal/keypool"
)

const (
	defaultBaseURL  = "https://www.googleapis.com"
	defaultCooldown = 500 * time.Millisecond

	// maxPageSize is the YouTube Data API limit for maxResults and for
	// the number of ids per videos.list call.
	maxPageSize = 50
)

// ErrRetriesExhausted is returned when every attempt of a request failed.
var ErrRetriesExhausted = errors.New("YouTube API request failed after all retries")

// quotaReasons are the API error reasons that indicate the current key is
// spent or not enabled for the API. Only these trigger a key rotation.
var quotaReasons = map[string]bool{
	"quotaExceeded":       true,
	"dailyLimitExceeded":  true,
	"accessNotConfigured": true,
	"serviceDisabled":     true,
}

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

// WithCooldown sets the wait between retry attempts.
func WithCooldown(d time.Duration) ClientOption {
	return func(c *Client) {
		c.cooldown = d
	}
}

// Client is a YouTube Data API client backed by a rotating key pool.
type Client struct {
	keys       *keypool.Pool
	baseURL    string
	cooldown   time.Duration
	httpClient HTTPClient
}

// NewClient creates a new YouTube API client over the given key pool.
func NewClient(keys *keypool.Pool, opts ...ClientOption) *Client {
	c := &Client{
		keys:       keys,
		baseURL:    defaultBaseURL,
		cooldown:   defaultCooldown,
		httpClient: &http.Client{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SearchVideos retrieves up to totalCap search results for query, fetching
// pageSize items per page and following continuation tokens. Results keep
// arrival order and contain each video id exactly once.
func (c *Client) SearchVideos(ctx context.Context, query string, totalCap, pageSize int) ([]SearchResult, error) {
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if totalCap < 1 {
		totalCap = pageSize
	}

	results := make([]SearchResult, 0, totalCap)
	pages := (totalCap + pageSize - 1) / pageSize
	pageToken := ""

	for page := 0; page < pages; page++ {
		searchURL := fmt.Sprintf("%s/youtube/v3/search?part=snippet&type=video&maxResults=%d&q=%s",
			c.baseURL, pageSize, url.QueryEscape(query))
		if pageToken != "" {
			searchURL += "&pageToken=" + url.QueryEscape(pageToken)
		}

		var resp searchResponse
		if err := c.requestJSON(ctx, searchURL, &resp); err != nil {
			return nil, err
		}

		for _, item := range resp.Items {
			if item.ID.VideoID == "" {
				continue
			}
			publishedAt, _ := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
			results = append(results, SearchResult{
				ID:           item.ID.VideoID,
				Title:        item.Snippet.Title,
				Description:  item.Snippet.Description,
				ChannelTitle: item.Snippet.ChannelTitle,
				Thumbnail:    item.Snippet.Thumbnails.Default.URL,
				PublishedAt:  publishedAt,
			})
		}

		// Re-dedup after every page so a later page repeating ids can
		// never reintroduce one already seen.
		results = dedupByID(results)

		if resp.NextPageToken == "" || len(resp.Items) == 0 {
			break
		}
		pageToken = resp.NextPageToken
	}

	if len(results) > totalCap {
		results = results[:totalCap]
	}
	return results, nil
}

// FetchDetails resolves canonical metadata for the given video ids in
// batches of at most 50. Ids missing from a batch response are simply
// absent from the returned map.
func (c *Client) FetchDetails(ctx context.Context, ids []string) (map[string]VideoDetails, error) {
	details := make(map[string]VideoDetails, len(ids))

	for start := 0; start < len(ids); start += maxPageSize {
		end := min(start+maxPageSize, len(ids))
		batch := ids[start:end]

		videosURL := fmt.Sprintf("%s/youtube/v3/videos?part=contentDetails,snippet,statistics&id=%s",
			c.baseURL, strings.Join(batch, ","))

		var resp videosResponse
		if err := c.requestJSON(ctx, videosURL, &resp); err != nil {
			return nil, err
		}

		for _, item := range resp.Items {
			viewCount, _ := strconv.ParseInt(item.Statistics.ViewCount, 10, 64)
			publishedAt, _ := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
			details[item.ID] = VideoDetails{
				ID:          item.ID,
				Duration:    item.ContentDetails.Duration,
				ViewCount:   viewCount,
				PublishedAt: publishedAt,
			}
		}
	}

	return details, nil
}

// requestJSON performs a GET with the current API key attached, decoding
// the body into out on success. A quota or permission error rotates the
// key pool and retries after a cooldown; any other failure retries on the
// same key. Attempts are bounded by the pool size (at least one).
func (c *Client) requestJSON(ctx context.Context, rawURL string, out any) error {
	attempts := c.keys.Size()
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		key, err := c.keys.Current()
		if err != nil {
			return err
		}

		body, status, err := c.get(ctx, rawURL+"&key="+url.QueryEscape(key))
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Msg("YouTube API request failed")
			if err := c.wait(ctx); err != nil {
				return err
			}
			continue
		}

		if reason := errorReason(body); quotaReasons[reason] {
			log.Warn().Str("reason", reason).Int("attempt", attempt).Msg("API key rejected, rotating")
			c.keys.Rotate()
			if err := c.wait(ctx); err != nil {
				return err
			}
			continue
		}

		if status != http.StatusOK {
			log.Warn().Int("status", status).Int("attempt", attempt).Msg("YouTube API returned non-OK status")
			if err := c.wait(ctx); err != nil {
				return err
			}
			continue
		}

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to parse YouTube API response: %w", err)
		}
		return nil
	}

	return fmt.Errorf("%w (%d attempts)", ErrRetriesExhausted, attempts)
}

// get performs the raw HTTP call and returns body and status.
func (c *Client) get(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response: %w", err)
	}

	return body, resp.StatusCode, nil
}

// wait sleeps for the retry cooldown, honoring context cancellation.
func (c *Client) wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.cooldown):
		return nil
	}
}

// dedupByID keeps the first occurrence of every id, preserving order.
func dedupByID(items []SearchResult) []SearchResult {
	seen := make(map[string]struct{}, len(items))
	out := make([]SearchResult, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}

// errorReason extracts error.errors[0].reason from an API error body,
// returning "" when the body is not an error payload.
func errorReason(body []byte) string {
	var resp apiErrorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return ""
	}
	if len(resp.Error.Errors) == 0 {
		return ""
	}
	return resp.Error.Errors[0].Reason
}

// API response types (private - implementation detail)

type searchResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			ChannelTitle string `json:"channelTitle"`
			PublishedAt  string `json:"publishedAt"`
			Thumbnails   struct {
				Default struct {
					URL string `json:"url"`
				} `json:"default"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

type videosResponse struct {
	Items []struct {
		ID         string `json:"id"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
		} `json:"statistics"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
		Snippet struct {
			PublishedAt string `json:"publishedAt"`
		} `json:"snippet"`
	} `json:"items"`
}

type apiErrorResponse struct {
	Error struct {
		Errors []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}
