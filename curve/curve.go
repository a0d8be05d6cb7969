package curve

import (
	"fmt"
	"math"
)

// Curve is an immutable calibrated NSS yield curve.
//
// A Curve never changes after construction: revaluing a perturbed snapshot
// produces a new Curve, not an in-place update. All methods are safe for
// concurrent use.
//
// Discounting is continuous compounding: DF(t) = exp(-y(t) * t).
type Curve struct {
	params Parameters
	diag   FitDiagnostics
}

// New wraps raw parameters into a Curve with empty diagnostics.
// Calibrate is the usual constructor; New exists for tests and for replaying
// stored parameter sets.
func New(p Parameters) Curve {
	return Curve{params: p}
}

// Params returns the curve's NSS parameters.
func (c Curve) Params() Parameters {
	return c.params
}

// Diagnostics returns the fit diagnostics recorded at calibration time.
func (c Curve) Diagnostics() FitDiagnostics {
	return c.diag
}

// YieldAt returns the model yield at maturity t in years.
func (c Curve) YieldAt(t float64) float64 {
	return c.params.Yield(t)
}

// DiscountFactor returns exp(-y(t)*t) for maturity t in years.
// Non-positive maturities discount to exactly 1.
func (c Curve) DiscountFactor(t float64) float64 {
	if t <= 0 {
		return 1.0
	}
	return math.Exp(-c.YieldAt(t) * t)
}

// ForwardRate returns the continuously compounded forward rate between two
// maturities implied by the curve's discount factors:
//
//	f(t1,t2) = (ln DF(t1) - ln DF(t2)) / (t2 - t1)
func (c Curve) ForwardRate(t1, t2 float64) (float64, error) {
	if t1 <= 0 || t2 <= t1 {
		return 0, fmt.Errorf("ForwardRate: require 0 < t1 < t2, got t1=%g t2=%g", t1, t2)
	}
	df1 := c.DiscountFactor(t1)
	df2 := c.DiscountFactor(t2)
	return (math.Log(df1) - math.Log(df2)) / (t2 - t1), nil
}

// YieldsForTenors returns model yields for the given tenor labels,
// preserving input order.
func (c Curve) YieldsForTenors(tenors []string) ([]float64, error) {
	out := make([]float64, len(tenors))
	for i, tn := range tenors {
		t, err := TenorYears(tn)
		if err != nil {
			return nil, err
		}
		out[i] = c.YieldAt(t)
	}
	return out, nil
}

// DiscountFactorsForTenors returns discount factors for the given tenor
// labels, preserving input order.
func (c Curve) DiscountFactorsForTenors(tenors []string) ([]float64, error) {
	out := make([]float64, len(tenors))
	for i, tn := range tenors {
		t, err := TenorYears(tn)
		if err != nil {
			return nil, err
		}
		out[i] = c.DiscountFactor(t)
	}
	return out, nil
}
