package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBounds(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		lo, hi float64
	}{
		{"single point uses pct margin", []float64{200}, 199, 201},
		{"flat small values use min margin", []float64{1, 1, 1}, 0.99, 1.01},
		{"range", []float64{100, 110, 105}, 99.45, 110.55},
		{"zero", []float64{0}, -0.01, 0.01},
		{"negative max uses min margin", []float64{-5, -3}, -5.01, -2.99},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi, ok := Bounds(tt.values)
			assert.True(t, ok)
			assert.InDelta(t, tt.lo, lo, 1e-9)
			assert.InDelta(t, tt.hi, hi, 1e-9)
		})
	}
}

func TestBoundsEmpty(t *testing.T) {
	_, _, ok := Bounds(nil)
	assert.False(t, ok)
}
