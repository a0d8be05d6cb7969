package config

// Config holds calibration and risk engine parameters.
// These were previously scattered as magic numbers across the engines.
type Config struct {
	// ConvergenceTolerance is the objective tolerance used by the
	// least-squares calibrator's convergence check.
	ConvergenceTolerance float64

	// MaxEvaluations caps the number of objective evaluations per
	// calibration. Calibrations that hit this cap are returned with
	// Converged=false rather than failing.
	MaxEvaluations int

	// LowerBounds and UpperBounds constrain the six NSS parameters
	// (beta0, beta1, beta2, beta3, tau1, tau2). The tau bounds must stay
	// strictly positive.
	LowerBounds [6]float64
	UpperBounds [6]float64

	// Tenors is the canonical tenor universe, ordered by maturity.
	Tenors []string

	// KeyRateBumpBP is the per-tenor bump size for key-rate DV01, in
	// basis points.
	KeyRateBumpBP float64

	// StressShockBP is the shock magnitude for stress scenarios, in
	// basis points.
	StressShockBP float64

	// VaRLookback is the number of historical observations used for
	// historical replay and covariance estimation.
	VaRLookback int

	// MonteCarloPaths is the number of simulated shock vectors per
	// Monte Carlo VaR run.
	MonteCarloPaths int

	// ConfidenceLevels are the VaR confidence levels to report.
	ConfidenceLevels []float64

	// Workers bounds the revaluation worker pool. Zero means one worker
	// per logical CPU.
	Workers int
}

// DefaultConfig provides production-ready default values.
var DefaultConfig = Config{
	ConvergenceTolerance: 1e-12,
	MaxEvaluations:       5000,
	LowerBounds:          [6]float64{-0.05, -0.50, -0.50, -0.50, 1e-3, 1e-3},
	UpperBounds:          [6]float64{0.20, 0.50, 0.50, 0.50, 20.0, 20.0},
	Tenors:               []string{"3M", "6M", "1Y", "2Y", "3Y", "5Y", "7Y", "10Y"},
	KeyRateBumpBP:        1.0,
	StressShockBP:        25.0,
	VaRLookback:          252,
	MonteCarloPaths:      5000,
	ConfidenceLevels:     []float64{0.95, 0.99},
	Workers:              0,
}

// cfg is the active configuration. Defaults to DefaultConfig.
var cfg = DefaultConfig

// SetConfig replaces the active configuration.
func SetConfig(c Config) {
	cfg = c
}

// GetConfig returns the active configuration.
func GetConfig() Config {
	return cfg
}
