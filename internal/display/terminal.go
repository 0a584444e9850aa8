// Package display provides terminal output formatting for ytgems.
package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/rajibul-dev/find-youtube-gems/internal/ranker"
)

const separator = " • "

// TerminalFormatter formats ranked videos for terminal display.
type TerminalFormatter struct{}

// NewTerminalFormatter creates a new terminal formatter.
func NewTerminalFormatter() *TerminalFormatter {
	return &TerminalFormatter{}
}

// FormatVideo formats a single ranked video for display.
func (f *TerminalFormatter) FormatVideo(rank int, video ranker.RankedVideo) string {
	var lines []string

	// Header: N. Title (duration)
	header := fmt.Sprintf("%d. %s", rank, video.Title)
	if video.Duration != "" {
		header += fmt.Sprintf(" (%s)", video.Duration)
	}
	lines = append(lines, header)

	// Channel and timestamp
	meta := fmt.Sprintf("   by %s%s%s", video.ChannelTitle, separator, f.FormatTimestamp(video.PublishedAt))
	lines = append(lines, meta)

	// Score and engagement stats
	lines = append(lines, "   "+f.formatEngagement(video))

	// URL
	if video.URL != "" {
		lines = append(lines, "   "+video.URL)
	}

	return strings.Join(lines, "\n") + "\n"
}

// formatEngagement formats the score line: score, like ratio, votes, views.
func (f *TerminalFormatter) formatEngagement(video ranker.RankedVideo) string {
	parts := []string{fmt.Sprintf("score %.4f", video.Score)}

	if video.LikePercent != nil {
		parts = append(parts, fmt.Sprintf("%.1f%% liked", *video.LikePercent))
	}
	if video.Likes > 0 || video.Dislikes > 0 {
		parts = append(parts, fmt.Sprintf("%d likes / %d dislikes", video.Likes, video.Dislikes))
	}
	if video.ViewCount > 0 {
		parts = append(parts, fmt.Sprintf("%d views", video.ViewCount))
	}

	return strings.Join(parts, separator)
}

// FormatRanking formats the full ranked list for display.
func (f *TerminalFormatter) FormatRanking(videos []ranker.RankedVideo) string {
	if len(videos) == 0 {
		return "No gems found.\n"
	}

	var formatted []string
	for i, video := range videos {
		formatted = append(formatted, f.FormatVideo(i+1, video))
	}

	return strings.Join(formatted, "\n")
}

// FormatTimestamp formats a timestamp as relative time.
func (f *TerminalFormatter) FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "unknown date"
	}

	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return pluralize(int(diff.Minutes()), "minute")
	case diff < 24*time.Hour:
		return pluralize(int(diff.Hours()), "hour")
	case diff < 7*24*time.Hour:
		return pluralize(int(diff.Hours()/24), "day")
	default:
		return t.Format("Jan 2, 2006")
	}
}

// pluralize returns "N unit ago" or "N units ago" based on count.
func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
