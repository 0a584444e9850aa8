// Package youtube provides a key-pool client for the YouTube Data API v3.
//
// This package enables ytgems to:
// - Search videos for a query, paginating with continuation tokens
// - Deduplicate results by video id as pages accumulate
// - Resolve canonical metadata (duration, views, publish date) in batches
// - Survive quota exhaustion by rotating through a pool of API keys
package youtube

import "time"

// SearchResult is one deduplicated item from a video search.
type SearchResult struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ChannelTitle string    `json:"channel_title"`
	Thumbnail    string    `json:"thumbnail"`
	PublishedAt  time.Time `json:"published_at"`
}

// VideoDetails carries the canonical metadata for a single video.
type VideoDetails struct {
	ID          string    `json:"id"`
	Duration    string    `json:"duration"` // ISO-8601, e.g. "PT4M13S"
	ViewCount   int64     `json:"view_count"`
	PublishedAt time.Time `json:"published_at"`
}
