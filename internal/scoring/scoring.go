// Package scoring computes the composite quality score used to rank videos.
//
// The score blends three signals: the like/dislike approval ratio (the
// dominant term), a confidence factor that discounts the ratio when the
// sample is small, and a logarithmic view-count bonus. Videos with fewer
// than ten likes have their score halved outright — a 1-like/0-dislike
// video carries a perfect ratio but says nothing.
package scoring

import "math"

const (
	ratioWeight      = 0.7
	confidenceWeight = 0.2
	viewWeight       = 0.1

	// viewSaturationExp caps the view bonus: log10(views+1)/6 reaches 1.0
	// at a million views.
	viewSaturationExp = 6

	// smallSampleLikes is the like count below which the penalty applies.
	smallSampleLikes   = 10
	smallSamplePenalty = 0.5

	neutralRatio = 0.5
)

// Engine scores videos. FullConfidenceLikes is the like count at which the
// approval ratio is trusted at full strength.
type Engine struct {
	FullConfidenceLikes int64
}

// Score maps raw counts to a deterministic quality score in [0, 1],
// rounded to six decimal digits.
func (e Engine) Score(likes, dislikes, views int64) float64 {
	ratio := neutralRatio
	if total := likes + dislikes; total > 0 {
		ratio = float64(likes) / float64(total)
	}

	confidence := math.Min(1, float64(likes)/float64(e.FullConfidenceLikes))
	viewBonus := math.Min(1, math.Log10(float64(views)+1)/viewSaturationExp)

	score := ratio*ratioWeight + confidence*confidenceWeight + viewBonus*viewWeight
	if likes < smallSampleLikes {
		score *= smallSamplePenalty
	}

	return math.Round(score*1e6) / 1e6
}
