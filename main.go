package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/meenmo/firisk/bond"
	"github.com/meenmo/firisk/marketdata"
	"github.com/meenmo/firisk/risk"
)

func main() {
	// Synthetic daily history: a gently rising curve over 60 business days.
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	var snaps []marketdata.Snapshot
	for i := 0; i < 60; i++ {
		drift := float64(i) * 0.00002
		s, err := marketdata.NewSnapshot(start.AddDate(0, 0, i), map[string]float64{
			"3M":  0.0421 + drift,
			"6M":  0.0428 + drift,
			"1Y":  0.0435 + drift,
			"2Y":  0.0441 + drift,
			"3Y":  0.0446 + drift,
			"5Y":  0.0452 + drift,
			"7Y":  0.0457 + drift,
			"10Y": 0.0463 + drift,
		})
		if err != nil {
			log.Fatal(err)
		}
		snaps = append(snaps, s)
	}
	hist, err := marketdata.NewHistory(snaps)
	if err != nil {
		log.Fatal(err)
	}
	base, _ := hist.Latest()
	settlement := base.Date()

	b, err := bond.NewFixedCouponBond(settlement.AddDate(5, 0, 0), 0.045, 100, 2)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	kr, err := risk.KeyRate(ctx, b, base, settlement, risk.KeyRateOptions{})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Base PV: %.4f\n", kr.BasePV)
	for _, tn := range kr.Tenors {
		fmt.Printf("KRDV01 %-4s %+.6f\n", tn, kr.DV01[tn])
	}

	st, err := risk.Stress(ctx, b, base, settlement, risk.StressOptions{})
	if err != nil {
		log.Fatal(err)
	}
	for _, sc := range risk.DefaultScenarios {
		fmt.Printf("Stress %-10s P&L %+.4f\n", sc, st.Scenarios[sc].PnL)
	}

	hv, err := risk.HistoricalVaR(ctx, b, hist, settlement, risk.VaROptions{Lookback: 50})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Historical VaR 95%%: %.4f  99%%: %.4f\n", hv.VaR[0.95], hv.VaR[0.99])

	mc, err := risk.MonteCarloVaR(ctx, b, hist, settlement, risk.MonteCarloOptions{
		Lookback: 50,
		Paths:    2000,
		Seed:     42,
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("MonteCarlo VaR 95%%: %.4f  99%%: %.4f  (paths=%d, non-converged=%d)\n",
		mc.VaR[0.95], mc.VaR[0.99], mc.Paths, mc.NonConverged)
}
