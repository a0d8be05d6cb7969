package risk

import (
	"math"
	"sort"
)

// quantile returns the p-quantile (p in [0,1]) of xs using linear
// interpolation between order statistics: h = p*(n-1), interpolating between
// floor(h) and ceil(h). This matches numpy's default and is shared by the
// historical and Monte Carlo VaR engines so the two stay comparable.
func quantile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}

	h := p * float64(len(sorted)-1)
	lo := int(math.Floor(h))
	frac := h - float64(lo)
	if lo+1 >= len(sorted) {
		return sorted[lo]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// varFromPnL converts a P&L distribution into per-confidence-level VaR:
//
//	VaR_c = max(0, -Q_{1-c}(pnl))
//
// reported as a non-negative loss magnitude.
func varFromPnL(pnl []float64, levels []float64) map[float64]float64 {
	out := make(map[float64]float64, len(levels))
	for _, c := range levels {
		q := quantile(pnl, 1.0-c)
		out[c] = math.Max(0.0, -q)
	}
	return out
}
