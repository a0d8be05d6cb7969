package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/meenmo/firisk/curve"
)

type fitInput struct {
	TaskID string       `json:"task_id,omitempty"`
	Quotes []quoteJSON  `json:"quotes"`
	Guess  *paramsJSON  `json:"initial_guess,omitempty"`
}

type quoteJSON struct {
	Tenor string  `json:"tenor"`
	Yield float64 `json:"yield"`
}

type paramsJSON struct {
	Beta0 float64 `json:"beta0"`
	Beta1 float64 `json:"beta1"`
	Beta2 float64 `json:"beta2"`
	Beta3 float64 `json:"beta3"`
	Tau1  float64 `json:"tau1"`
	Tau2  float64 `json:"tau2"`
}

type fitOutput struct {
	TaskID      string     `json:"task_id,omitempty"`
	Params      paramsJSON `json:"params"`
	RMSE        float64    `json:"rmse"`
	MaxAbsError float64    `json:"max_abs_error"`
	NPoints     int        `json:"n_points"`
	Converged   bool       `json:"converged"`
	Message     string     `json:"message"`
	Error       string     `json:"error,omitempty"`
}

func main() {
	inputPath := flag.String("input", "", "JSON input path (reads stdin if omitted)")
	help := flag.Bool("h", false, "Show help")
	flag.BoolVar(help, "help", false, "Show help")
	flag.Parse()

	if *help {
		fmt.Fprintln(os.Stderr, "Usage: nssfit -input <path>")
		fmt.Fprintln(os.Stderr, "Fit NSS parameters to a yield snapshot by bounded least squares.")
		return
	}

	raw, err := readInput(strings.TrimSpace(*inputPath))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	var in fitInput
	if err := json.Unmarshal(raw, &in); err != nil {
		fmt.Fprintf(os.Stderr, "nssfit: parse input: %v\n", err)
		os.Exit(2)
	}

	tenors := make([]string, len(in.Quotes))
	yields := make([]float64, len(in.Quotes))
	for i, q := range in.Quotes {
		tenors[i] = q.Tenor
		yields[i] = q.Yield
	}

	var opts curve.CalibrateOptions
	if in.Guess != nil {
		opts.InitialGuess = &curve.Parameters{
			Beta0: in.Guess.Beta0,
			Beta1: in.Guess.Beta1,
			Beta2: in.Guess.Beta2,
			Beta3: in.Guess.Beta3,
			Tau1:  in.Guess.Tau1,
			Tau2:  in.Guess.Tau2,
		}
	}

	out := fitOutput{TaskID: in.TaskID}
	c, err := curve.Calibrate(tenors, yields, opts)
	if err != nil {
		out.Error = err.Error()
		emit(out)
		os.Exit(1)
	}

	p := c.Params()
	d := c.Diagnostics()
	out.Params = paramsJSON{p.Beta0, p.Beta1, p.Beta2, p.Beta3, p.Tau1, p.Tau2}
	out.RMSE = d.RMSE
	out.MaxAbsError = d.MaxAbsError
	out.NPoints = d.NPoints
	out.Converged = d.Converged
	out.Message = d.Message
	emit(out)
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		if stat, err := os.Stdin.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
			return nil, fmt.Errorf("nssfit: no input (use -input or pipe JSON to stdin)")
		}
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func emit(out fitOutput) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(out)
}
