package mood

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_CoversEveryScoreExactlyOnce(t *testing.T) {
	counts := map[Band]int{}
	for score := MinScore; score <= MaxScore; score++ {
		matched := 0
		for i, info := range bands {
			upper := MaxScore + 1
			if i+1 < len(bands) {
				upper = bands[i+1].lower
			}
			if score >= info.lower && score < upper {
				matched++
			}
		}
		assert.Equal(t, 1, matched, "score %d", score)

		b := Classify(score)
		counts[b]++
		assert.NotEmpty(t, b.Color(), "score %d", score)
	}

	assert.Equal(t, 40, counts[BandVeryNegative])
	assert.Equal(t, 40, counts[BandNegative])
	assert.Equal(t, 40, counts[BandNeutral])
	assert.Equal(t, 40, counts[BandPositive])
	assert.Equal(t, 41, counts[BandVeryPositive])
}

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		score int
		band  Band
		state State
		color string
	}{
		{-100, BandVeryNegative, StateNegative, "red"},
		{-61, BandVeryNegative, StateNegative, "red"},
		{-60, BandNegative, StateNegative, "orange"},
		{-21, BandNegative, StateNegative, "orange"},
		{-20, BandNeutral, StateNeutral, "yellow"},
		{0, BandNeutral, StateNeutral, "yellow"},
		{19, BandNeutral, StateNeutral, "yellow"},
		{20, BandPositive, StatePositive, "light-green"},
		{59, BandPositive, StatePositive, "light-green"},
		{60, BandVeryPositive, StatePositive, "green"},
		{100, BandVeryPositive, StatePositive, "green"},
		{-250, BandVeryNegative, StateNegative, "red"},
		{250, BandVeryPositive, StatePositive, "green"},
	}
	for _, tt := range tests {
		b := Classify(tt.score)
		assert.Equal(t, tt.band, b, "score %d", tt.score)
		assert.Equal(t, tt.state, b.State(), "score %d", tt.score)
		assert.Equal(t, tt.color, b.Color(), "score %d", tt.score)
	}
}

func TestValence(t *testing.T) {
	assert.Equal(t, int64(1000), Valence("Happy"))
	assert.Equal(t, int64(1000), Valence("  hAPPY "))
	assert.Equal(t, int64(-1000), Valence("Angry"))
	assert.Equal(t, int64(0), Valence("Bewildered"))
	assert.True(t, KnownFeeling("tired"))
	assert.False(t, KnownFeeling("Bewildered"))
}
