package risk

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/meenmo/firisk/config"
	"github.com/meenmo/firisk/marketdata"
)

// MonteCarloOptions tunes a Monte Carlo VaR run. Zero values fall back to
// the active config.
type MonteCarloOptions struct {
	// Lookback is the number of observations used for covariance
	// estimation (default 252).
	Lookback int
	// Paths is the number of simulated shock vectors (default 5000).
	Paths int
	// Seed makes the draw sequence reproducible. The same seed and
	// inputs yield a bit-identical P&L distribution regardless of
	// worker count.
	Seed int64
	// ConfidenceLevels are the levels to report (default 0.95, 0.99).
	ConfidenceLevels []float64
	// Workers bounds the revaluation pool.
	Workers int
}

// MonteCarloVaRResult extends VaRResult with simulation metadata.
type MonteCarloVaRResult struct {
	VaRResult
	Paths int
	Seed  int64
}

// MonteCarloVaR estimates a tenor-change covariance from history, draws
// correlated normal shocks and revalues the base snapshot under each draw.
//
// Shock vectors are drawn sequentially from the seeded source before any
// revaluation starts, then revalued in parallel with order preserved; that
// keeps the P&L distribution deterministic for a given seed.
func MonteCarloVaR(ctx context.Context, pricer Pricer, hist marketdata.History, settlement time.Time, opts MonteCarloOptions) (MonteCarloVaRResult, error) {
	cfg := config.GetConfig()
	lookback := opts.Lookback
	if lookback <= 0 {
		lookback = cfg.VaRLookback
	}
	paths := opts.Paths
	if paths <= 0 {
		paths = cfg.MonteCarloPaths
	}
	levels := opts.ConfidenceLevels
	if len(levels) == 0 {
		levels = cfg.ConfidenceLevels
	}

	// Covariance needs at least two diffs: one observation pair gives a
	// single change vector, whose sample covariance is undefined.
	window := hist.Window(lookback)
	if window.Len() < 3 {
		return MonteCarloVaRResult{}, fmt.Errorf("MonteCarloVaR: %w: %d observations in window", ErrInsufficientData, window.Len())
	}

	base, err := window.Latest()
	if err != nil {
		return MonteCarloVaRResult{}, fmt.Errorf("MonteCarloVaR: %w", err)
	}
	pipe, err := NewPipeline(pricer, base, settlement)
	if err != nil {
		return MonteCarloVaRResult{}, fmt.Errorf("MonteCarloVaR: %w", err)
	}

	diffs := window.Diffs()
	n := base.Len()
	factor, err := covarianceFactor(diffs, n)
	if err != nil {
		return MonteCarloVaRResult{}, fmt.Errorf("MonteCarloVaR: %w", err)
	}

	// Draw all shocks up front from one seeded source: determinism does
	// not depend on worker scheduling.
	rng := rand.New(rand.NewSource(opts.Seed))
	z := make([]float64, n)
	shocked := make([]marketdata.Snapshot, paths)
	for i := 0; i < paths; i++ {
		for j := range z {
			z[j] = rng.NormFloat64()
		}
		// deltas = B*z; B is lower triangular for the Cholesky path and
		// dense for the eigen-repaired one.
		deltas := make([]float64, n)
		for r := 0; r < n; r++ {
			var v float64
			for c := 0; c < n; c++ {
				v += factor.At(r, c) * z[c]
			}
			deltas[r] = v
		}
		snap, err := base.Apply(deltas)
		if err != nil {
			return MonteCarloVaRResult{}, fmt.Errorf("MonteCarloVaR: %w", err)
		}
		shocked[i] = snap
	}

	var nonConverged atomicCounter
	pvs, err := runIndexed(ctx, paths, opts.Workers, func(i int) (float64, error) {
		pv, diag, err := pipe.Reval(shocked[i])
		if err != nil {
			return 0, err
		}
		if !diag.Converged {
			nonConverged.inc()
		}
		return pv, nil
	})
	if err != nil {
		return MonteCarloVaRResult{}, fmt.Errorf("MonteCarloVaR: %w", err)
	}

	pnl := make([]float64, len(pvs))
	for i, pv := range pvs {
		pnl[i] = pv - pipe.BasePV()
	}

	return MonteCarloVaRResult{
		VaRResult: VaRResult{
			BasePV:       pipe.BasePV(),
			Lookback:     len(diffs),
			PnL:          pnl,
			VaR:          varFromPnL(pnl, levels),
			NonConverged: nonConverged.value(),
		},
		Paths: paths,
		Seed:  opts.Seed,
	}, nil
}

// covarianceFactor estimates the covariance of daily tenor changes and
// returns a matrix B with B*B^T = Sigma.
//
// The Cholesky factor is used when Sigma is positive definite.
// Near-duplicate histories can make Sigma indefinite; in that case negative
// eigenvalues are clipped to zero and B = Q*sqrt(max(L,0)) is used instead
// of failing the run. Fewer than two change vectors leave the sample
// covariance undefined: that is ErrInsufficientData, never a zero factor.
func covarianceFactor(diffs [][]float64, n int) (*mat.Dense, error) {
	if len(diffs) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 tenor-change observations for covariance, got %d", ErrInsufficientData, len(diffs))
	}

	obs := mat.NewDense(len(diffs), n, nil)
	for i, row := range diffs {
		obs.SetRow(i, row)
	}

	cov := mat.NewSymDense(n, nil)
	stat.CovarianceMatrix(cov, obs, nil)

	var chol mat.Cholesky
	if chol.Factorize(cov) {
		var l mat.TriDense
		chol.LTo(&l)
		out := mat.NewDense(n, n, nil)
		out.Copy(&l)
		return out, nil
	}

	var eig mat.EigenSym
	if !eig.Factorize(cov, true) {
		return nil, fmt.Errorf("covarianceFactor: eigendecomposition of the sample covariance failed")
	}
	vals := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	out := mat.NewDense(n, n, nil)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			v := vals[c]
			if v < 0 {
				v = 0
			}
			out.Set(r, c, vecs.At(r, c)*math.Sqrt(v))
		}
	}
	return out, nil
}
