package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantile_LinearInterpolation(t *testing.T) {
	t.Parallel()

	xs := []float64{4, 1, 3, 2}

	assert.InDelta(t, 1.0, quantile(xs, 0.0), 1e-15)
	assert.InDelta(t, 4.0, quantile(xs, 1.0), 1e-15)
	assert.InDelta(t, 2.5, quantile(xs, 0.5), 1e-15)
	// h = 0.25*3 = 0.75, between 1 and 2.
	assert.InDelta(t, 1.75, quantile(xs, 0.25), 1e-15)
	// h = 0.05*3 = 0.15.
	assert.InDelta(t, 1.15, quantile(xs, 0.05), 1e-12)

	// Input must not be reordered.
	assert.Equal(t, []float64{4, 1, 3, 2}, xs)
}

func TestQuantile_Degenerate(t *testing.T) {
	t.Parallel()

	assert.True(t, math.IsNaN(quantile(nil, 0.5)))
	assert.InDelta(t, 7.0, quantile([]float64{7}, 0.5), 1e-15)
	assert.InDelta(t, 1.0, quantile([]float64{1, 2}, -0.5), 1e-15)
	assert.InDelta(t, 2.0, quantile([]float64{1, 2}, 1.5), 1e-15)
}

func TestVarFromPnL(t *testing.T) {
	t.Parallel()

	pnl := []float64{-10, -5, 0, 5, 10}

	out := varFromPnL(pnl, []float64{0.95, 0.99})
	// p = 0.05: h = 0.05*4 = 0.2 -> -10 + 0.2*5 = -9.
	assert.InDelta(t, 9.0, out[0.95], 1e-12)
	// p = 0.01: h = 0.04 -> -10 + 0.04*5 = -9.8.
	assert.InDelta(t, 9.8, out[0.99], 1e-12)
	assert.GreaterOrEqual(t, out[0.99], out[0.95])

	// Profitable tails clamp to zero rather than reporting a gain.
	gains := []float64{1, 2, 3, 4, 5}
	out = varFromPnL(gains, []float64{0.95})
	assert.Zero(t, out[0.95])
}
