package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/meenmo/firisk/bond"
	"github.com/meenmo/firisk/calendar"
	"github.com/meenmo/firisk/marketdata"
	"github.com/meenmo/firisk/risk"
	"github.com/meenmo/firisk/utils"
)

type report struct {
	Settlement string             `json:"settlement"`
	BasePV     float64            `json:"base_pv"`
	KeyRate    map[string]float64 `json:"keyrate_dv01"`
	Stress     map[string]float64 `json:"stress_pnl"`
	HistVaR    map[string]float64 `json:"historical_var"`
	MCVaR      map[string]float64 `json:"montecarlo_var"`
}

func main() {
	historyPath := flag.String("history", "", "yield history CSV path")
	settlementStr := flag.String("settlement", "", "settlement date YYYY-MM-DD (default: latest history date + 2 business days)")
	maturityStr := flag.String("maturity", "", "bond maturity date YYYY-MM-DD")
	couponRate := flag.Float64("coupon", 0.03, "annual coupon rate (decimal)")
	notional := flag.Float64("notional", 100, "bond notional")
	frequency := flag.Int("frequency", 2, "coupons per year")
	lookback := flag.Int("lookback", 0, "VaR lookback observations (default from config)")
	paths := flag.Int("paths", 0, "Monte Carlo paths (default from config)")
	seed := flag.Int64("seed", 42, "Monte Carlo seed")
	workers := flag.Int("workers", 0, "revaluation workers (default: NumCPU)")
	flag.Parse()

	if *historyPath == "" || *maturityStr == "" {
		fmt.Fprintln(os.Stderr, "Usage: riskreport -history <csv> -maturity <date> [flags]")
		fmt.Fprintln(os.Stderr, "Full-revaluation key-rate, stress and VaR report for a fixed-coupon bond.")
		os.Exit(2)
	}

	hist, err := marketdata.LoadCSV(*historyPath, marketdata.LoadOptions{})
	if err != nil {
		fatal(err)
	}
	base, err := hist.Latest()
	if err != nil {
		fatal(err)
	}

	// Default settlement is T+2 off the latest history date.
	var cal calendar.Calendar
	settlement := cal.AddBusinessDays(base.Date(), 2)
	if *settlementStr != "" {
		settlement, err = utils.ParseDate(*settlementStr)
		if err != nil {
			fatal(err)
		}
	}
	maturity, err := utils.ParseDate(*maturityStr)
	if err != nil {
		fatal(err)
	}

	b, err := bond.NewFixedCouponBond(maturity, *couponRate, *notional, *frequency)
	if err != nil {
		fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	kr, err := risk.KeyRate(ctx, b, base, settlement, risk.KeyRateOptions{Workers: *workers})
	if err != nil {
		fatal(err)
	}
	st, err := risk.Stress(ctx, b, base, settlement, risk.StressOptions{Workers: *workers})
	if err != nil {
		fatal(err)
	}
	hv, err := risk.HistoricalVaR(ctx, b, hist, settlement, risk.VaROptions{Lookback: *lookback, Workers: *workers})
	if err != nil {
		fatal(err)
	}
	mc, err := risk.MonteCarloVaR(ctx, b, hist, settlement, risk.MonteCarloOptions{
		Lookback: *lookback,
		Paths:    *paths,
		Seed:     *seed,
		Workers:  *workers,
	})
	if err != nil {
		fatal(err)
	}

	out := report{
		Settlement: utils.FormatDate(settlement),
		BasePV:     kr.BasePV,
		KeyRate:    kr.DV01,
		Stress:     make(map[string]float64, len(st.Scenarios)),
		HistVaR:    make(map[string]float64, len(hv.VaR)),
		MCVaR:      make(map[string]float64, len(mc.VaR)),
	}
	for name, sc := range st.Scenarios {
		out.Stress[string(name)] = sc.PnL
	}
	for cl, v := range hv.VaR {
		out.HistVaR[fmt.Sprintf("%.2f", cl)] = v
	}
	for cl, v := range mc.VaR {
		out.MCVaR[fmt.Sprintf("%.2f", cl)] = v
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "riskreport:", err)
	os.Exit(1)
}
