package ranker

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/rajibul-dev/find-youtube-gems/internal/config"
	"github.com/rajibul-dev/find-youtube-gems/internal/scoring"
	"github.com/rajibul-dev/find-youtube-gems/internal/votes"
	"github.com/rajibul-dev/find-youtube-gems/internal/youtube"
)

const (
	defaultConcurrency    = 8
	defaultVotesPerSecond = 20
)

// SearchClient is the slice of the YouTube client the ranker needs.
type SearchClient interface {
	SearchVideos(ctx context.Context, query string, totalCap, pageSize int) ([]youtube.SearchResult, error)
	FetchDetails(ctx context.Context, ids []string) (map[string]youtube.VideoDetails, error)
}

// VoteClient looks up vote counts for a single video.
type VoteClient interface {
	FetchVotes(ctx context.Context, videoID string) (*votes.Record, error)
}

// Ranker orchestrates one search-and-rank run per call.
type Ranker struct {
	search SearchClient
	votes  VoteClient
	opts   Options
	engine scoring.Engine
}

// New creates a Ranker. Zero option fields fall back to the configured
// defaults.
func New(search SearchClient, voteClient VoteClient, opts Options) *Ranker {
	if opts.TotalVideos < 1 {
		opts.TotalVideos = config.DefaultTotalVideos
	}
	if opts.PageSize < 1 || opts.PageSize > 50 {
		opts.PageSize = config.DefaultPageSize
	}
	if opts.MinLikes < 0 {
		opts.MinLikes = 0
	}
	if opts.FullConfidenceLikes < 1 {
		opts.FullConfidenceLikes = config.DefaultFullConfidenceLikes
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = defaultConcurrency
	}
	if opts.VotesPerSecond <= 0 {
		opts.VotesPerSecond = defaultVotesPerSecond
	}

	return &Ranker{
		search: search,
		votes:  voteClient,
		opts:   opts,
		engine: scoring.Engine{FullConfidenceLikes: opts.FullConfidenceLikes},
	}
}

// Rank fetches, scores, filters, and sorts videos for the query. A search
// or detail failure aborts the run; vote lookup failures degrade single
// videos to zero votes.
func (r *Ranker) Rank(ctx context.Context, query string) ([]RankedVideo, error) {
	items, err := r.search.SearchVideos(ctx, query, r.opts.TotalVideos, r.opts.PageSize)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	if len(items) == 0 {
		return []RankedVideo{}, nil
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	details, err := r.search.FetchDetails(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("detail lookup failed: %w", err)
	}

	voteMap := r.fetchVotes(ctx, ids)

	ranked := r.build(items, details, voteMap)
	log.Debug().
		Str("query", query).
		Int("fetched", len(items)).
		Int("ranked", len(ranked)).
		Msg("ranking complete")
	return ranked, nil
}

// fetchVotes fans out vote lookups across ids with bounded concurrency and
// a client-side rate limit. A failed lookup leaves its id out of the map;
// it never fails the batch.
func (r *Ranker) fetchVotes(ctx context.Context, ids []string) map[string]*votes.Record {
	records := make([]*votes.Record, len(ids))
	limiter := rate.NewLimiter(rate.Limit(r.opts.VotesPerSecond), r.opts.Concurrency)

	var g errgroup.Group
	g.SetLimit(r.opts.Concurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if err := limiter.Wait(ctx); err != nil {
				return nil
			}
			record, err := r.votes.FetchVotes(ctx, id)
			if err != nil {
				log.Warn().Err(err).Str("video_id", id).Msg("vote lookup failed, assuming no votes")
				return nil
			}
			records[i] = record
			return nil
		})
	}
	_ = g.Wait() // goroutines never return errors

	voteMap := make(map[string]*votes.Record, len(ids))
	for i, record := range records {
		if record != nil {
			voteMap[ids[i]] = record
		}
	}
	return voteMap
}

// build merges the three sources into RankedVideos, applies the MinLikes
// filter, and sorts by descending score. The sort is stable so equal
// scores keep arrival order.
func (r *Ranker) build(items []youtube.SearchResult, details map[string]youtube.VideoDetails, voteMap map[string]*votes.Record) []RankedVideo {
	ranked := make([]RankedVideo, 0, len(items))

	for _, item := range items {
		var likes, dislikes int64
		record := voteMap[item.ID]
		if record != nil {
			likes = record.Likes
			dislikes = record.Dislikes
		}

		if likes < r.opts.MinLikes {
			continue
		}

		publishedAt := item.PublishedAt
		var viewCount int64
		var duration string
		if detail, ok := details[item.ID]; ok {
			viewCount = detail.ViewCount
			duration = youtube.FormatISODuration(detail.Duration)
			if !detail.PublishedAt.IsZero() {
				publishedAt = detail.PublishedAt
			}
		} else if record != nil {
			viewCount = record.ViewCount
		}

		var likePercent *float64
		if total := likes + dislikes; total > 0 {
			p := float64(likes) / float64(total) * 100
			likePercent = &p
		}

		ranked = append(ranked, RankedVideo{
			ID:           item.ID,
			Title:        item.Title,
			ChannelTitle: item.ChannelTitle,
			Thumbnail:    item.Thumbnail,
			URL:          fmt.Sprintf("https://www.youtube.com/watch?v=%s", item.ID),
			PublishedAt:  publishedAt,
			ViewCount:    viewCount,
			Likes:        likes,
			Dislikes:     dislikes,
			LikePercent:  likePercent,
			Score:        r.engine.Score(likes, dislikes, viewCount),
			Duration:     duration,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
