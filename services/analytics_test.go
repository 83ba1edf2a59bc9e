package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundRating(t *testing.T) {
	cases := []struct {
		avg  float64
		want float64
	}{
		{0, 0},
		{4.44, 4.4},
		{4.5, 4.5}, // ratings [4,5]
		{4.666666, 4.7},
		{3.333333, 3.3},
		{5, 5},
	}

	for _, tc := range cases {
		assert.InDelta(t, tc.want, RoundRating(tc.avg), 1e-9, "avg=%v", tc.avg)
	}
}

func TestCompletionPercent(t *testing.T) {
	assert.Equal(t, 0, CompletionPercent(0, 0), "zero total yields zero, not NaN")
	assert.Equal(t, 0, CompletionPercent(0, 5))
	assert.Equal(t, 100, CompletionPercent(5, 5))
	assert.Equal(t, 67, CompletionPercent(2, 3))
	assert.Equal(t, 33, CompletionPercent(1, 3))
	assert.Equal(t, 50, CompletionPercent(1, 2))
}
