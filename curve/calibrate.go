package curve

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/optimize"

	"github.com/meenmo/firisk/config"
)

// FitDiagnostics describes the quality of a calibration.
//
// Non-convergence is recorded here rather than returned as an error: risk
// engines run the calibrator thousands of times and must be able to flag or
// discard a bad draw without aborting the batch.
type FitDiagnostics struct {
	RMSE        float64
	MaxAbsError float64
	NPoints     int
	Cost        float64
	Converged   bool
	Message     string
}

// CalibrateOptions tunes a single calibration run.
// The zero value takes every setting from the active config.
type CalibrateOptions struct {
	// InitialGuess seeds the optimizer. Risk engines warm-start from the
	// base curve's parameters here so that bumped fits stay in the same
	// local optimum as the base fit.
	InitialGuess *Parameters

	// LowerBounds/UpperBounds override the configured parameter bounds.
	LowerBounds *[6]float64
	UpperBounds *[6]float64

	// MaxEvaluations overrides the configured objective evaluation cap.
	MaxEvaluations int
}

// Calibrate fits NSS parameters to an observed yield snapshot by bounded
// nonlinear least squares, minimizing the sum of squared yield errors over
// the snapshot's tenors.
//
// Bounds are enforced by projecting the parameter vector inside the
// objective, so tau1 and tau2 stay strictly positive. If the optimizer stops
// without converging the best-found parameters are still returned, with
// Converged=false in the diagnostics.
//
// Errors are reserved for invalid input: mismatched slice lengths, malformed
// tenors, non-finite yields, or fewer than four observations.
func Calibrate(tenors []string, yields []float64, opts CalibrateOptions) (Curve, error) {
	if len(tenors) != len(yields) {
		return Curve{}, fmt.Errorf("Calibrate: %d tenors but %d yields", len(tenors), len(yields))
	}
	if len(tenors) < 4 {
		return Curve{}, fmt.Errorf("Calibrate: need at least 4 points to fit 6 parameters, got %d", len(tenors))
	}

	type point struct {
		years float64
		yield float64
	}
	pts := make([]point, len(tenors))
	for i, tn := range tenors {
		t, err := TenorYears(tn)
		if err != nil {
			return Curve{}, fmt.Errorf("Calibrate: %w", err)
		}
		if math.IsNaN(yields[i]) || math.IsInf(yields[i], 0) {
			return Curve{}, fmt.Errorf("Calibrate: non-finite yield at tenor %s", tn)
		}
		pts[i] = point{years: t, yield: yields[i]}
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].years < pts[j].years })

	cfg := config.GetConfig()
	lower := cfg.LowerBounds
	upper := cfg.UpperBounds
	if opts.LowerBounds != nil {
		lower = *opts.LowerBounds
	}
	if opts.UpperBounds != nil {
		upper = *opts.UpperBounds
	}
	maxEval := cfg.MaxEvaluations
	if opts.MaxEvaluations > 0 {
		maxEval = opts.MaxEvaluations
	}

	x0 := initialGuess(pts[len(pts)-1].yield, opts.InitialGuess)
	clampVector(x0[:], lower, upper)

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			var v [6]float64
			copy(v[:], x)
			clampVector(v[:], lower, upper)
			p := Parameters{v[0], v[1], v[2], v[3], v[4], v[5]}

			var sse float64
			for _, pt := range pts {
				r := p.Yield(pt.years) - pt.yield
				sse += r * r
			}
			return sse
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: maxEval,
		Converger: &optimize.FunctionConverge{
			Absolute:   cfg.ConvergenceTolerance,
			Iterations: 100,
		},
	}

	best := x0
	converged := false
	message := ""

	result, err := optimize.Minimize(problem, x0[:], settings, &optimize.NelderMead{})
	if err != nil && result == nil {
		// Optimizer refused to run; keep the seed as the best-found point.
		message = err.Error()
	} else {
		copy(best[:], result.X)
		message = result.Status.String()
		switch result.Status {
		case optimize.Success, optimize.FunctionConvergence, optimize.GradientThreshold, optimize.StepConvergence:
			converged = err == nil
		}
	}
	clampVector(best[:], lower, upper)

	params := Parameters{best[0], best[1], best[2], best[3], best[4], best[5]}

	var sse, maxAbs float64
	for _, pt := range pts {
		r := params.Yield(pt.years) - pt.yield
		sse += r * r
		if a := math.Abs(r); a > maxAbs {
			maxAbs = a
		}
	}
	rmse := math.Sqrt(sse / float64(len(pts)))

	return Curve{
		params: params,
		diag: FitDiagnostics{
			RMSE:        rmse,
			MaxAbsError: maxAbs,
			NPoints:     len(pts),
			Cost:        sse,
			Converged:   converged,
			Message:     message,
		},
	}, nil
}

// initialGuess anchors beta0 at the long end of the observed curve, matching
// the usual NSS seeding heuristic.
func initialGuess(longestYield float64, warm *Parameters) [6]float64 {
	if warm != nil {
		return warm.Array()
	}
	return [6]float64{longestYield, -0.02, 0.02, 0.01, 1.0, 3.0}
}

func clampVector(x []float64, lower, upper [6]float64) {
	for i := range x {
		if x[i] < lower[i] {
			x[i] = lower[i]
		}
		if x[i] > upper[i] {
			x[i] = upper[i]
		}
	}
}
