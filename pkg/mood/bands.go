package mood

// State is the coarse emotional state of a day.
type State string

const (
	StatePositive State = "Positive"
	StateNeutral  State = "Neutral"
	StateNegative State = "Negative"
)

// Band is one of five contiguous ranges partitioning -100..100.
type Band string

const (
	BandVeryNegative Band = "VeryNegative"
	BandNegative     Band = "Negative"
	BandNeutral      Band = "Neutral"
	BandPositive     Band = "Positive"
	BandVeryPositive Band = "VeryPositive"
)

const (
	MinScore = -100
	MaxScore = 100
)

type bandInfo struct {
	lower int // inclusive
	band  Band
	state State
	color string
}

// bands is ordered by lower bound. Each band covers [lower, next.lower); the
// last one is closed at MaxScore.
var bands = []bandInfo{
	{MinScore, BandVeryNegative, StateNegative, "red"},
	{-60, BandNegative, StateNegative, "orange"},
	{-20, BandNeutral, StateNeutral, "yellow"},
	{20, BandPositive, StatePositive, "light-green"},
	{60, BandVeryPositive, StatePositive, "green"},
}

// Classify maps a score to its band. Scores outside -100..100 are clamped first.
func Classify(score int) Band {
	return lookup(clampScore(score)).band
}

// State returns the emotional state the band belongs to.
func (b Band) State() State {
	for _, info := range bands {
		if info.band == b {
			return info.state
		}
	}
	return StateNeutral
}

// Color returns the display color code of the band.
func (b Band) Color() string {
	for _, info := range bands {
		if info.band == b {
			return info.color
		}
	}
	return "yellow"
}

func lookup(score int) bandInfo {
	for i := len(bands) - 1; i >= 0; i-- {
		if score >= bands[i].lower {
			return bands[i]
		}
	}
	return bands[0]
}

func clampScore(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
