// Package ranker runs the gem-finding pipeline: search results, canonical
// details, and vote counts are merged into scored records, filtered for
// minimum engagement, and sorted best-first.
//
// This package enables ytgems to:
// - Merge three API sources into one normalized video record
// - Tolerate per-video vote lookup failures without losing the batch
// - Rank deterministically (stable sort, ties keep arrival order)
package ranker

import "time"

// RankedVideo is the normalized, scored record handed to the renderer.
// It is immutable after construction.
type RankedVideo struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	ChannelTitle string    `json:"channel_title"`
	Thumbnail    string    `json:"thumbnail,omitempty"`
	URL          string    `json:"url"`
	PublishedAt  time.Time `json:"published_at"`
	ViewCount    int64     `json:"view_count"`
	Likes        int64     `json:"likes"`
	Dislikes     int64     `json:"dislikes"`
	LikePercent  *float64  `json:"like_percent,omitempty"` // nil when the video has no votes
	Score        float64   `json:"score"`
	Duration     string    `json:"duration,omitempty"` // formatted, e.g. "4:13"
}

// Options configures one ranking run.
type Options struct {
	// TotalVideos caps how many search results feed the pipeline.
	TotalVideos int

	// PageSize is the search page size, at most 50.
	PageSize int

	// MinLikes drops videos with fewer likes from the output.
	MinLikes int64

	// FullConfidenceLikes is passed through to the scoring engine.
	FullConfidenceLikes int64

	// Concurrency bounds how many vote lookups run at once.
	Concurrency int

	// VotesPerSecond rate-limits the vote fan-out.
	VotesPerSecond float64
}
