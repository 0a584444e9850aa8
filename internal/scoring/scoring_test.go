package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

var engine = Engine{FullConfidenceLikes: 500}

func TestScore_NoVotesUsesNeutralRatio(t *testing.T) {
	// ratio=0.5, confidence=0, viewBonus=log10(1001)/6, likes<10 halves it
	got := engine.Score(0, 0, 1000)
	want := (0.5*0.7 + 0.1*0.500072) * 0.5

	assert.InDelta(t, want, got, 1e-6)
}

func TestScore_NoVotesIsNeutralForAnyViewCount(t *testing.T) {
	for _, views := range []int64{0, 1, 999, 1_000_000, 50_000_000} {
		got := engine.Score(0, 0, views)
		assert.GreaterOrEqual(t, got, 0.5*0.7*0.5, "views=%d", views)
		assert.LessOrEqual(t, got, 0.5*(0.7*0.5+0.1), "views=%d", views)
	}
}

func TestScore_KnownValue(t *testing.T) {
	// 30 likes / 10 dislikes / 1000 views:
	// 0.7*(30/40) + 0.2*(30/500) + 0.1*(log10(1001)/6), no small-sample penalty.
	got := engine.Score(30, 10, 1000)

	assert.InDelta(t, 0.587007, got, 1e-6)
}

func TestScore_SmallSamplePenaltyHalves(t *testing.T) {
	few := engine.Score(9, 0, 1000)
	enough := engine.Score(10, 0, 1000)

	assert.Less(t, few, enough, "a 9-like video must score below a 10-like one")
	// Exactly half of its own raw score, not of the 10-like score.
	raw := 1.0*0.7 + (9.0/500.0)*0.2 + 0.500072*0.1
	assert.InDelta(t, raw/2, few, 1e-5)
}

func TestScore_CeilingIsExactlyOne(t *testing.T) {
	// All three terms saturated: perfect ratio, full confidence, 10^6-1 views.
	got := engine.Score(500, 0, 999_999)

	assert.Equal(t, 1.0, got)
}

func TestScore_StaysInUnitInterval(t *testing.T) {
	cases := []struct{ likes, dislikes, views int64 }{
		{0, 0, 0},
		{1, 0, 0},
		{0, 1_000_000, 0},
		{1_000_000, 0, 1_000_000_000},
		{500, 500, 12345},
	}
	for _, c := range cases {
		got := engine.Score(c.likes, c.dislikes, c.views)
		assert.GreaterOrEqual(t, got, 0.0, "likes=%d dislikes=%d", c.likes, c.dislikes)
		assert.LessOrEqual(t, got, 1.0, "likes=%d dislikes=%d", c.likes, c.dislikes)
	}
}

func TestScore_MonotonicInLikesBelowFullConfidence(t *testing.T) {
	prev := -1.0
	for likes := int64(10); likes < 500; likes += 7 {
		got := engine.Score(likes, 50, 10_000)
		assert.GreaterOrEqual(t, got, prev, "score must not drop as likes grow (likes=%d)", likes)
		prev = got
	}
}

func TestScore_RoundsToSixDigits(t *testing.T) {
	got := engine.Score(3, 7, 123)

	assert.Equal(t, got, math.Round(got*1e6)/1e6, "rounding must be idempotent")
}
