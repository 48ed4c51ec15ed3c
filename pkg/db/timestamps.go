package db

import (
	"math"
	"time"
)

// Timestamps are stored as REAL unix seconds with microsecond precision,
// which is what a float64 can hold exactly for present-day dates.

// UnixSeconds converts t into the REAL column representation.
func UnixSeconds(t time.Time) float64 {
	return float64(t.UnixMicro()) / 1e6
}

// TimeFromUnix converts a REAL column value back into a UTC time.Time.
func TimeFromUnix(secs float64) time.Time {
	whole := math.Floor(secs)
	micros := math.Round((secs - whole) * 1e6)
	return time.Unix(int64(whole), int64(micros)*int64(time.Microsecond)).UTC()
}
