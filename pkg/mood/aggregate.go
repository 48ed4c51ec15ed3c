// Package mood turns a day's check-ins into a single emotional score,
// band, state and color.
package mood

import (
	"errors"

	"github.com/unowned-ai/moodlog/pkg/checkins"
)

var ErrNoEntries = errors.New("no check-ins to aggregate")

// Aggregate is the scored summary of one day's check-ins.
type Aggregate struct {
	EmotionalState State  `json:"emotional_state"`
	Band           Band   `json:"band"`
	EmotionalScore int    `json:"emotional_score"`
	ColorCode      string `json:"color_code"`
	TotalEntries   int    `json:"total_entries"`
}

// Compute scores a day's check-ins.
//
// The score is the mean of valence*intensity over all entries, scaled to
// -100..100 and rounded half away from zero. Only the multiset of
// (feelings, intensity) pairs matters, so entry order is irrelevant.
func Compute(entries []checkins.CheckIn) (Aggregate, error) {
	if len(entries) == 0 {
		return Aggregate{}, ErrNoEntries
	}

	var sum int64
	for _, e := range entries {
		sum += Valence(e.Feelings) * int64(clampIntensity(e.EmotionIntensity))
	}

	score := clampScore(int(divRound(sum, int64(len(entries))*1000)))
	info := lookup(score)

	return Aggregate{
		EmotionalState: info.state,
		Band:           info.band,
		EmotionalScore: score,
		ColorCode:      info.color,
		TotalEntries:   len(entries),
	}, nil
}

func clampIntensity(i int) int {
	if i < 0 {
		return 0
	}
	if i > 100 {
		return 100
	}
	return i
}

// divRound divides num by a positive den, rounding half away from zero.
func divRound(num, den int64) int64 {
	q, r := num/den, num%den
	if r < 0 {
		r = -r
	}
	if 2*r >= den {
		if num < 0 {
			q--
		} else {
			q++
		}
	}
	return q
}
