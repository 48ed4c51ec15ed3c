package mood

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unowned-ai/moodlog/pkg/checkins"
)

func entry(feelings string, intensity int) checkins.CheckIn {
	return checkins.CheckIn{Feelings: feelings, EmotionIntensity: intensity}
}

func TestCompute_Empty(t *testing.T) {
	_, err := Compute(nil)
	require.ErrorIs(t, err, ErrNoEntries)
}

func TestCompute_ExampleDay(t *testing.T) {
	day := []checkins.CheckIn{
		entry("Happy", 80),
		entry("Happy", 60),
		entry("Neutral", 40),
	}

	agg, err := Compute(day)
	require.NoError(t, err)
	assert.Equal(t, Aggregate{
		EmotionalState: StatePositive,
		Band:           BandPositive,
		EmotionalScore: 47,
		ColorCode:      "light-green",
		TotalEntries:   3,
	}, agg)

	later, err := Compute(append(day, entry("Angry", 90)))
	require.NoError(t, err)
	assert.Equal(t, 4, later.TotalEntries)
	assert.Equal(t, 13, later.EmotionalScore) // 12.5 rounds away from zero
	assert.Less(t, later.EmotionalScore, agg.EmotionalScore)
	assert.Equal(t, StateNeutral, later.EmotionalState)
}

func TestCompute_SingleZeroIntensityIsNeutral(t *testing.T) {
	for _, feelings := range []string{"Happy", "Angry", "Neutral", "Bewildered"} {
		agg, err := Compute([]checkins.CheckIn{entry(feelings, 0)})
		require.NoError(t, err, feelings)
		assert.Equal(t, 0, agg.EmotionalScore, feelings)
		assert.Equal(t, BandNeutral, agg.Band, feelings)
		assert.Equal(t, StateNeutral, agg.EmotionalState, feelings)
		assert.Equal(t, 1, agg.TotalEntries, feelings)
	}
}

func TestCompute_Extremes(t *testing.T) {
	agg, err := Compute([]checkins.CheckIn{entry("Loved", 100), entry("happy", 100)})
	require.NoError(t, err)
	assert.Equal(t, 100, agg.EmotionalScore)
	assert.Equal(t, BandVeryPositive, agg.Band)
	assert.Equal(t, "green", agg.ColorCode)

	agg, err = Compute([]checkins.CheckIn{entry(" ANGRY ", 100)})
	require.NoError(t, err)
	assert.Equal(t, -100, agg.EmotionalScore)
	assert.Equal(t, BandVeryNegative, agg.Band)
	assert.Equal(t, StateNegative, agg.EmotionalState)
	assert.Equal(t, "red", agg.ColorCode)
}

func TestCompute_IntensityIsClamped(t *testing.T) {
	agg, err := Compute([]checkins.CheckIn{entry("Sad", 250)})
	require.NoError(t, err)
	assert.Equal(t, -90, agg.EmotionalScore)

	agg, err = Compute([]checkins.CheckIn{entry("Sad", -30)})
	require.NoError(t, err)
	assert.Equal(t, 0, agg.EmotionalScore)
}

func TestCompute_NegativeRounding(t *testing.T) {
	// (-600*50 + 0) / 2000 = -15 exactly; (-700*25) / 1000 = -17.5 -> -18.
	agg, err := Compute([]checkins.CheckIn{entry("Annoyed", 50), entry("Neutral", 90)})
	require.NoError(t, err)
	assert.Equal(t, -15, agg.EmotionalScore)

	agg, err = Compute([]checkins.CheckIn{entry("Anxious", 25)})
	require.NoError(t, err)
	assert.Equal(t, -18, agg.EmotionalScore)
	assert.Equal(t, BandNeutral, agg.Band)
}

func TestCompute_OrderIndependent(t *testing.T) {
	feelings := []string{"Happy", "Annoyed", "Angry", "Tired", "Neutral", "Loved", "Calm", "Sad", "unknown"}
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		n := 1 + rng.Intn(12)
		entries := make([]checkins.CheckIn, n)
		for i := range entries {
			entries[i] = entry(feelings[rng.Intn(len(feelings))], rng.Intn(101))
		}

		want, err := Compute(entries)
		require.NoError(t, err)

		for perm := 0; perm < 10; perm++ {
			shuffled := append([]checkins.CheckIn(nil), entries...)
			rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

			got, err := Compute(shuffled)
			require.NoError(t, err)
			require.Equal(t, want, got)
		}
	}
}

func TestDivRound(t *testing.T) {
	tests := []struct {
		num, den, want int64
	}{
		{0, 1000, 0},
		{500, 1000, 1},
		{499, 1000, 0},
		{-500, 1000, -1},
		{-499, 1000, 0},
		{12500, 1000, 13},
		{-12500, 1000, -13},
		{140000, 3000, 47},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, divRound(tt.num, tt.den), "%d/%d", tt.num, tt.den)
	}
}
