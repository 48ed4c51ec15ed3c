package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimestampRoundTrip(t *testing.T) {
	cases := []time.Time{
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 23, 59, 59, 999000000, time.UTC),
		time.Date(2031, 12, 31, 12, 30, 15, 123456000, time.UTC),
		time.Unix(0, 0).UTC(),
	}

	for _, want := range cases {
		got := TimeFromUnix(UnixSeconds(want))
		assert.True(t, got.Equal(want), "round trip of %s gave %s",
			want.Format(time.RFC3339Nano), got.Format(time.RFC3339Nano))
	}
}

func TestTimeFromUnix_DropsSubMicrosecond(t *testing.T) {
	in := time.Date(2024, 3, 1, 10, 0, 0, 123456789, time.UTC)
	got := TimeFromUnix(UnixSeconds(in))
	want := in.Truncate(time.Microsecond)
	assert.True(t, got.Equal(want), "expected %s, got %s",
		want.Format(time.RFC3339Nano), got.Format(time.RFC3339Nano))
}
