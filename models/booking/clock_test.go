package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndTime(t *testing.T) {
	cases := []struct {
		start    string
		duration int
		end      string
		nextDay  bool
	}{
		{"14:00", 60, "15:00", false},
		{"09:00", 60, "10:00", false},
		{"23:30", 90, "01:00", true},
		{"23:30", 30, "00:00", true},
		{"08:15", 480, "16:15", false},
	}
	for _, tc := range cases {
		end, nextDay, err := EndTime(tc.start, tc.duration)
		require.NoError(t, err)
		assert.Equal(t, tc.end, end, tc.start)
		assert.Equal(t, tc.nextDay, nextDay, tc.start)
	}
}

func TestEndTime_InvalidStart(t *testing.T) {
	for _, s := range []string{"", "9am", "25:00", "12:60"} {
		_, _, err := EndTime(s, 30)
		assert.Error(t, err, s)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-10", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.March, d.Month())

	_, err = ParseDate("10/03/2025", time.UTC)
	assert.Error(t, err)
}

func TestNormalizeClock(t *testing.T) {
	for in, want := range map[string]string{"09:00": "09:00", "9:00": "09:00", "0:05": "00:05", "23:59": "23:59"} {
		got, err := NormalizeClock(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, bad := range []string{"24:00", "9:5", "09:60", "nine", ""} {
		_, err := NormalizeClock(bad)
		assert.Error(t, err, bad)
	}
}
