package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance_Symmetric(t *testing.T) {
	pairs := [][4]float64{
		{28.0, 77.0, 28.01, 77.0},
		{-33.87, 151.21, 51.51, -0.13},
		{0, 0, 0, 180},
	}

	for _, p := range pairs {
		assert.InDelta(t, Distance(p[0], p[1], p[2], p[3]), Distance(p[2], p[3], p[0], p[1]), 1e-9)
	}
}

func TestDistance_ZeroForCoincidentPoints(t *testing.T) {
	assert.Equal(t, 0.0, Distance(28.0, 77.0, 28.0, 77.0))
	assert.Equal(t, 0.0, Distance(-45.5, 170.2, -45.5, 170.2))
}

func TestDistance_KnownValue(t *testing.T) {
	// 0.01 degrees of latitude is about 1.11 km.
	d := Distance(28.0, 77.0, 28.01, 77.0)
	assert.InDelta(t, 1.11, d, 0.01)
}

func TestDistance_LongRange(t *testing.T) {
	// Delhi to Mumbai, roughly 1150 km.
	d := Distance(28.61, 77.21, 19.08, 72.88)
	assert.InDelta(t, 1150, d, 20)
}
