package ranker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rajibul-dev/find-youtube-gems/internal/votes"
	"github.com/rajibul-dev/find-youtube-gems/internal/youtube"
)

type fakeSearch struct {
	results   []youtube.SearchResult
	details   map[string]youtube.VideoDetails
	searchErr error
	detailErr error

	detailCalls int
}

func (f *fakeSearch) SearchVideos(ctx context.Context, query string, totalCap, pageSize int) ([]youtube.SearchResult, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.results, nil
}

func (f *fakeSearch) FetchDetails(ctx context.Context, ids []string) (map[string]youtube.VideoDetails, error) {
	f.detailCalls++
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	if f.details == nil {
		return map[string]youtube.VideoDetails{}, nil
	}
	return f.details, nil
}

type fakeVotes struct {
	mu          sync.Mutex
	records     map[string]*votes.Record
	failIDs     map[string]bool
	inFlight    int
	maxInFlight int
}

func (f *fakeVotes) FetchVotes(ctx context.Context, videoID string) (*votes.Record, error) {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()

	time.Sleep(time.Millisecond)

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()

	if f.failIDs[videoID] {
		return nil, errors.New("votes API unreachable")
	}
	if record, ok := f.records[videoID]; ok {
		return record, nil
	}
	return nil, fmt.Errorf("no vote data for %s", videoID)
}

func searchResult(id string) youtube.SearchResult {
	return youtube.SearchResult{
		ID:           id,
		Title:        "Video " + id,
		ChannelTitle: "Channel " + id,
		PublishedAt:  time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

func voteRecord(id string, likes, dislikes, views int64) *votes.Record {
	return &votes.Record{ID: id, Likes: likes, Dislikes: dislikes, ViewCount: views}
}

func TestRank_EndToEndScenario(t *testing.T) {
	search := &fakeSearch{
		results: []youtube.SearchResult{searchResult("A"), searchResult("B")},
		details: map[string]youtube.VideoDetails{
			"A": {ID: "A", Duration: "PT4M13S", ViewCount: 1000},
			"B": {ID: "B", Duration: "PT2M", ViewCount: 100},
		},
	}
	voteClient := &fakeVotes{records: map[string]*votes.Record{
		"A": voteRecord("A", 30, 10, 1000),
		"B": voteRecord("B", 5, 1, 100),
	}}

	r := New(search, voteClient, Options{MinLikes: 20, FullConfidenceLikes: 500, VotesPerSecond: 1000})
	ranked, err := r.Rank(context.Background(), "test")

	if err != nil {
		t.Fatalf("pipeline should succeed, got: %v", err)
	}
	if len(ranked) != 1 {
		t.Fatalf("B has 5 likes and must be filtered (min 20), expected only A, got %d videos", len(ranked))
	}

	a := ranked[0]
	if a.ID != "A" {
		t.Fatalf("expected video A, got %s", a.ID)
	}
	// 0.7*(30/40) + 0.2*(30/500) + 0.1*(log10(1001)/6), no small-sample penalty.
	if diff := a.Score - 0.587007; diff < -1e-6 || diff > 1e-6 {
		t.Errorf("score mismatch: got %v, want 0.587007", a.Score)
	}
	if a.Likes != 30 || a.Dislikes != 10 {
		t.Errorf("vote counts should carry through, got %d/%d", a.Likes, a.Dislikes)
	}
	if a.ViewCount != 1000 {
		t.Errorf("canonical view count should come from details, got %d", a.ViewCount)
	}
	if a.Duration != "4:13" {
		t.Errorf("duration should be formatted, got %q", a.Duration)
	}
	if a.LikePercent == nil || *a.LikePercent != 75 {
		t.Errorf("like percentage should be 75, got %v", a.LikePercent)
	}
	if a.URL != "https://www.youtube.com/watch?v=A" {
		t.Errorf("watch URL mismatch: %s", a.URL)
	}
}

func TestRank_SortsByScoreDescending(t *testing.T) {
	search := &fakeSearch{
		results: []youtube.SearchResult{searchResult("meh"), searchResult("gem"), searchResult("ok")},
	}
	voteClient := &fakeVotes{records: map[string]*votes.Record{
		"meh": voteRecord("meh", 50, 200, 1000),
		"gem": voteRecord("gem", 900, 10, 500_000),
		"ok":  voteRecord("ok", 100, 50, 10_000),
	}}

	r := New(search, voteClient, Options{MinLikes: 1, VotesPerSecond: 1000})
	ranked, err := r.Rank(context.Background(), "test")

	if err != nil {
		t.Fatalf("pipeline should succeed, got: %v", err)
	}
	if len(ranked) != 3 {
		t.Fatalf("expected 3 videos, got %d", len(ranked))
	}
	if ranked[0].ID != "gem" || ranked[1].ID != "ok" || ranked[2].ID != "meh" {
		t.Errorf("videos should rank best-first, got %s, %s, %s", ranked[0].ID, ranked[1].ID, ranked[2].ID)
	}
}

func TestRank_EqualScoresKeepArrivalOrder(t *testing.T) {
	search := &fakeSearch{
		results: []youtube.SearchResult{searchResult("first"), searchResult("second"), searchResult("third")},
	}
	// Identical counts produce identical scores.
	voteClient := &fakeVotes{records: map[string]*votes.Record{
		"first":  voteRecord("first", 100, 10, 5000),
		"second": voteRecord("second", 100, 10, 5000),
		"third":  voteRecord("third", 100, 10, 5000),
	}}

	r := New(search, voteClient, Options{MinLikes: 1, VotesPerSecond: 1000})
	ranked, err := r.Rank(context.Background(), "test")

	if err != nil {
		t.Fatalf("pipeline should succeed, got: %v", err)
	}
	for i, want := range []string{"first", "second", "third"} {
		if ranked[i].ID != want {
			t.Errorf("tied scores must keep arrival order: position %d should be %s, got %s", i, want, ranked[i].ID)
		}
	}
}

func TestRank_VoteFailureDegradesToZeroVotes(t *testing.T) {
	search := &fakeSearch{
		results: []youtube.SearchResult{searchResult("good"), searchResult("broken"), searchResult("fine")},
	}
	voteClient := &fakeVotes{
		records: map[string]*votes.Record{
			"good": voteRecord("good", 300, 20, 9000),
			"fine": voteRecord("fine", 150, 10, 4000),
		},
		failIDs: map[string]bool{"broken": true},
	}

	r := New(search, voteClient, Options{MinLikes: 0, VotesPerSecond: 1000})
	ranked, err := r.Rank(context.Background(), "test")

	if err != nil {
		t.Fatalf("one bad vote lookup must never cancel the batch, got: %v", err)
	}
	if len(ranked) != 3 {
		t.Fatalf("all 3 videos should survive, got %d", len(ranked))
	}

	var broken *RankedVideo
	for i := range ranked {
		if ranked[i].ID == "broken" {
			broken = &ranked[i]
		}
	}
	if broken == nil {
		t.Fatal("the video with the failed lookup should still appear")
	}
	if broken.Likes != 0 || broken.Dislikes != 0 {
		t.Errorf("failed lookup should default to zero votes, got %d/%d", broken.Likes, broken.Dislikes)
	}
	if broken.LikePercent != nil {
		t.Errorf("like percentage should be nil without votes, got %v", *broken.LikePercent)
	}
	if ranked[0].ID == "broken" {
		t.Error("zero-vote videos should rank below videos with real engagement")
	}
}

func TestRank_SearchFailureAborts(t *testing.T) {
	search := &fakeSearch{searchErr: errors.New("quota exhausted on every key")}
	voteClient := &fakeVotes{}

	r := New(search, voteClient, Options{})
	_, err := r.Rank(context.Background(), "test")

	if err == nil {
		t.Fatal("a failed search must abort the whole pipeline")
	}
}

func TestRank_DetailFailureAborts(t *testing.T) {
	search := &fakeSearch{
		results:   []youtube.SearchResult{searchResult("A")},
		detailErr: errors.New("batch request failed"),
	}
	voteClient := &fakeVotes{}

	r := New(search, voteClient, Options{})
	_, err := r.Rank(context.Background(), "test")

	if err == nil {
		t.Fatal("a failed detail batch must abort the pipeline")
	}
}

func TestRank_EmptySearchSkipsDownstreamCalls(t *testing.T) {
	search := &fakeSearch{}
	voteClient := &fakeVotes{}

	r := New(search, voteClient, Options{})
	ranked, err := r.Rank(context.Background(), "no hits")

	if err != nil {
		t.Fatalf("empty search should not be an error, got: %v", err)
	}
	if ranked == nil || len(ranked) != 0 {
		t.Errorf("expected empty (non-nil) result, got %v", ranked)
	}
	if search.detailCalls != 0 {
		t.Error("no details should be fetched for an empty result set")
	}
}

func TestRank_FallsBackToVoteViewCount(t *testing.T) {
	search := &fakeSearch{
		results: []youtube.SearchResult{searchResult("A")},
		// no detail entry for A
	}
	voteClient := &fakeVotes{records: map[string]*votes.Record{
		"A": voteRecord("A", 50, 5, 7777),
	}}

	r := New(search, voteClient, Options{MinLikes: 1, VotesPerSecond: 1000})
	ranked, err := r.Rank(context.Background(), "test")

	if err != nil {
		t.Fatalf("pipeline should succeed, got: %v", err)
	}
	if len(ranked) != 1 {
		t.Fatalf("expected 1 video, got %d", len(ranked))
	}
	if ranked[0].ViewCount != 7777 {
		t.Errorf("view count should fall back to the votes API, got %d", ranked[0].ViewCount)
	}
	if ranked[0].Duration != "" {
		t.Errorf("duration should be empty without details, got %q", ranked[0].Duration)
	}
}

func TestRank_VoteFanOutRespectsConcurrencyLimit(t *testing.T) {
	var results []youtube.SearchResult
	records := map[string]*votes.Record{}
	for i := 0; i < 12; i++ {
		id := fmt.Sprintf("vid-%d", i)
		results = append(results, searchResult(id))
		records[id] = voteRecord(id, 100, 5, 1000)
	}

	search := &fakeSearch{results: results}
	voteClient := &fakeVotes{records: records}

	r := New(search, voteClient, Options{MinLikes: 1, Concurrency: 2, VotesPerSecond: 10_000})
	if _, err := r.Rank(context.Background(), "test"); err != nil {
		t.Fatalf("pipeline should succeed, got: %v", err)
	}

	if voteClient.maxInFlight > 2 {
		t.Errorf("vote fan-out should never exceed the concurrency limit of 2, saw %d in flight", voteClient.maxInFlight)
	}
}
