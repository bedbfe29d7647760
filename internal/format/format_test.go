package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatSeconds(t *testing.T) {

	var TestCases = []struct {
		seconds  float64
		expected string
	}{
		{0, "0h 0m"},
		{5400, "1h 30m"},
		{3599, "0h 59m"},
		{3600, "1h 0m"},
		{27000, "7h 30m"},
		{59.9, "0h 0m"},
		{90061, "25h 1m"},
	}

	for _, tc := range TestCases {
		assert.Equal(t, tc.expected, FormatSeconds(tc.seconds), "%v seconds", tc.seconds)
	}
}

func TestFormatDurationNegative(t *testing.T) {
	assert.Equal(t, "0h 0m", FormatDuration(-time.Hour))
}

func TestFixed2(t *testing.T) {
	assert.Equal(t, "72.00", Fixed2(72))
	assert.Equal(t, "0.98", Fixed2(0.979))
	assert.Equal(t, "1.75", Fixed2(1.754))
}

func TestBPM(t *testing.T) {
	assert.Equal(t, "72.00 bpm", BPM(72))
	assert.Equal(t, "0.00 bpm", BPM(0))
}
