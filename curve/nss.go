package curve

import (
	"fmt"
	"math"
)

// Parameters are the six Nelson-Siegel-Svensson parameters.
//
// Model (decimal yields, maturity t in years):
//
//	y(t) = beta0 + beta1*L1(t,tau1) + beta2*S1(t,tau1) + beta3*S2(t,tau2)
//
// with L1(t,tau) = (1 - e^{-t/tau}) / (t/tau), S1 = L1 - e^{-t/tau} and
// S2 the same slope/curvature loading evaluated at tau2.
//
// Calibration bounds keep tau1 and tau2 strictly positive.
type Parameters struct {
	Beta0 float64
	Beta1 float64
	Beta2 float64
	Beta3 float64
	Tau1  float64
	Tau2  float64
}

// Array returns the parameters as a length-6 vector in calibration order.
func (p Parameters) Array() [6]float64 {
	return [6]float64{p.Beta0, p.Beta1, p.Beta2, p.Beta3, p.Tau1, p.Tau2}
}

// ParametersFromSlice builds Parameters from an optimizer vector.
func ParametersFromSlice(x []float64) (Parameters, error) {
	if len(x) != 6 {
		return Parameters{}, fmt.Errorf("ParametersFromSlice: expected length-6 vector, got %d", len(x))
	}
	return Parameters{
		Beta0: x[0],
		Beta1: x[1],
		Beta2: x[2],
		Beta3: x[3],
		Tau1:  x[4],
		Tau2:  x[5],
	}, nil
}

// loadingFactor computes (1 - e^{-x}) / x with a series expansion for small x.
//
// For |x| < 1e-8:
//
//	(1 - e^{-x}) / x ~ 1 - x/2 + x^2/6 - x^3/24
//
// which carries the analytic limit of 1 at x -> 0 without dividing by a
// near-zero denominator.
func loadingFactor(x float64) float64 {
	if math.Abs(x) < 1e-8 {
		return 1.0 - x/2.0 + x*x/6.0 - x*x*x/24.0
	}
	return (1.0 - math.Exp(-x)) / x
}

// Yield evaluates the NSS model yield at maturity t in years.
//
// Pure function; safe for concurrent use.
func (p Parameters) Yield(t float64) float64 {
	x1 := t / p.Tau1
	x2 := t / p.Tau2

	l1 := loadingFactor(x1)
	s1 := l1 - math.Exp(-x1)
	s2 := loadingFactor(x2) - math.Exp(-x2)

	return p.Beta0 + p.Beta1*l1 + p.Beta2*s1 + p.Beta3*s2
}
