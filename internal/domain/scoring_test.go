package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- UserShare ---

func TestUserShare_NoCompetition(t *testing.T) {
	assert.Equal(t, 1.0, UserShare(0, 1000))
}

func TestUserShare_Basic(t *testing.T) {
	// 1000 / (76 + 1000)
	assert.InDelta(t, 0.9294, UserShare(76, 1000), 0.0001)
}

func TestUserShare_Bounds(t *testing.T) {
	for _, depth := range []float64{0, 0.01, 1, 76, 1e3, 1e6, 1e12} {
		for _, capital := range []float64{0.01, 1, 100, 1e6} {
			share := UserShare(depth, capital)
			assert.Greater(t, share, 0.0, "depth=%v capital=%v", depth, capital)
			assert.LessOrEqual(t, share, 1.0, "depth=%v capital=%v", depth, capital)
		}
	}
}

func TestUserShare_InvalidCapital(t *testing.T) {
	assert.Equal(t, 0.0, UserShare(100, 0))
	assert.Equal(t, 0.0, UserShare(100, -5))
}

// --- OutcomeRewardPool ---

func TestOutcomeRewardPool(t *testing.T) {
	assert.InDelta(t, 510.0, OutcomeRewardPool(1000, 0.51), 1e-9)
	assert.Equal(t, 0.0, OutcomeRewardPool(0, 0.51))
	assert.Equal(t, 0.0, OutcomeRewardPool(1000, 0))
}

// --- BandWindow ---

func TestBandWindow_ClampsLowerBound(t *testing.T) {
	lo, hi := BandWindow(0.005, 0.01)
	assert.Equal(t, 0.0, lo)
	assert.InDelta(t, 0.015, hi, 1e-12)
}

func TestBandWindow_UpperNotClamped(t *testing.T) {
	lo, hi := BandWindow(0.995, 0.01)
	assert.InDelta(t, 0.985, lo, 1e-12)
	assert.Greater(t, hi, 1.0)
}
