package mood

import "strings"

// valence is the signed weight of a feeling label in thousandths, so that
// aggregation stays in integer arithmetic.
var valence = map[string]int64{
	"loved":    1000,
	"happy":    1000,
	"excited":  900,
	"grateful": 900,
	"calm":     400,
	"neutral":  0,
	"tired":    -400,
	"annoyed":  -600,
	"anxious":  -700,
	"sad":      -900,
	"angry":    -1000,
}

// Valence returns the weight of a feeling label in thousandths.
// Labels are matched case-insensitively; unknown labels weigh 0.
func Valence(feelings string) int64 {
	return valence[strings.ToLower(strings.TrimSpace(feelings))]
}

// KnownFeeling reports whether the label is part of the scored vocabulary.
func KnownFeeling(feelings string) bool {
	_, ok := valence[strings.ToLower(strings.TrimSpace(feelings))]
	return ok
}
