package bond

import (
	"fmt"
	"time"

	"github.com/meenmo/firisk/curve"
	"github.com/meenmo/firisk/utils"
)

// FixedCouponBond is a fixed-coupon bullet bond.
//
// Deliberately limited: no embedded options, no inflation linking, no
// amortization. Timing is ACT/365F from settlement; discounting comes from
// the curve's continuous-comp discount factors.
type FixedCouponBond struct {
	MaturityDate time.Time
	// CouponRate is the annual coupon in decimal form (0.05 = 5%).
	CouponRate float64
	Notional   float64
	// Frequency is coupons per year (1, 2, 4 or 12).
	Frequency int
}

// NewFixedCouponBond validates the bond terms.
func NewFixedCouponBond(maturity time.Time, couponRate, notional float64, frequency int) (FixedCouponBond, error) {
	if maturity.IsZero() {
		return FixedCouponBond{}, fmt.Errorf("NewFixedCouponBond: MaturityDate is required")
	}
	if notional <= 0 {
		return FixedCouponBond{}, fmt.Errorf("NewFixedCouponBond: Notional must be positive, got %g", notional)
	}
	if _, err := monthsPerPeriod(frequency); err != nil {
		return FixedCouponBond{}, fmt.Errorf("NewFixedCouponBond: %w", err)
	}
	return FixedCouponBond{
		MaturityDate: maturity,
		CouponRate:   couponRate,
		Notional:     notional,
		Frequency:    frequency,
	}, nil
}

// Cashflows returns the remaining cashflows after the settlement date.
// Principal is repaid in full at maturity.
func (b FixedCouponBond) Cashflows(settlement time.Time) []Cashflow {
	schedule, err := CouponSchedule(settlement, b.MaturityDate, b.Frequency)
	if err != nil {
		return nil
	}

	cpn := b.Notional * b.CouponRate / float64(b.Frequency)
	cfs := make([]Cashflow, 0, len(schedule))
	for _, d := range schedule {
		cf := Cashflow{Date: d, Coupon: cpn}
		if d.Equal(b.MaturityDate) {
			cf.Principal = b.Notional
		}
		cfs = append(cfs, cf)
	}
	return cfs
}

// Price discounts the remaining cashflows off the curve:
//
//	PV = sum CF_i * DF(t_i), t_i = ACT/365F year fraction to the cashflow.
//
// Pure function of the curve and settlement date; a matured bond prices to 0.
func (b FixedCouponBond) Price(c curve.Curve, settlement time.Time) float64 {
	var pv float64
	for _, cf := range b.Cashflows(settlement) {
		t := utils.YearFraction(settlement, cf.Date, "ACT/365F")
		if t <= 0 {
			continue
		}
		pv += cf.Amount() * c.DiscountFactor(t)
	}
	return pv
}
