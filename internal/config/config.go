// Package config holds the startup configuration for ytgems.
//
// Everything here is resolved once at process start (environment variables,
// optionally seeded from a .env file by the CLI) and treated as constant for
// the lifetime of the run.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Defaults for the ranking pipeline tunables.
const (
	DefaultTotalVideos         = 100
	DefaultPageSize            = 50
	DefaultMinLikes            = 20
	DefaultFullConfidenceLikes = 500

	defaultAPIURL      = "https://www.googleapis.com"
	defaultVotesAPIURL = "https://returnyoutubedislikeapi.com"
)

// Config is the resolved startup configuration.
type Config struct {
	// APIKeys is the ordered pool of YouTube Data API keys.
	APIKeys []string

	// APIBaseURL is the YouTube Data API base URL (overridable for testing).
	APIBaseURL string

	// VotesBaseURL is the like/dislike API base URL (overridable for testing).
	VotesBaseURL string

	// TotalVideos caps how many search results are fetched per query.
	TotalVideos int

	// PageSize is the per-page result count, at most 50 (API limit).
	PageSize int

	// MinLikes is the filter floor: videos with fewer likes are dropped.
	MinLikes int64

	// FullConfidenceLikes is the like count at which the ratio term is
	// trusted at full strength.
	FullConfidenceLikes int64
}

// FromEnv builds a Config from YTGEMS_* environment variables, falling back
// to defaults for anything unset.
func FromEnv() Config {
	cfg := Config{
		APIKeys:             splitKeys(os.Getenv("YTGEMS_API_KEYS")),
		APIBaseURL:          envOr("YTGEMS_API_URL", defaultAPIURL),
		VotesBaseURL:        envOr("YTGEMS_VOTES_API_URL", defaultVotesAPIURL),
		TotalVideos:         envIntOr("YTGEMS_TOTAL_VIDEOS", DefaultTotalVideos),
		PageSize:            envIntOr("YTGEMS_PAGE_SIZE", DefaultPageSize),
		MinLikes:            int64(envIntOr("YTGEMS_MIN_LIKES", DefaultMinLikes)),
		FullConfidenceLikes: int64(envIntOr("YTGEMS_FULL_CONFIDENCE_LIKES", DefaultFullConfidenceLikes)),
	}
	return cfg.normalized()
}

// normalized clamps values into the ranges the APIs and the scorer accept.
func (c Config) normalized() Config {
	if c.PageSize < 1 || c.PageSize > 50 {
		c.PageSize = DefaultPageSize
	}
	if c.TotalVideos < 1 {
		c.TotalVideos = DefaultTotalVideos
	}
	if c.MinLikes < 0 {
		c.MinLikes = 0
	}
	if c.FullConfidenceLikes < 1 {
		c.FullConfidenceLikes = DefaultFullConfidenceLikes
	}
	return c
}

// splitKeys parses a comma-separated key list, dropping empty entries.
func splitKeys(raw string) []string {
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envIntOr(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
