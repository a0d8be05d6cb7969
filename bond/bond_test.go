package bond

import (
	"math"
	"testing"
	"time"

	"github.com/meenmo/firisk/curve"
	"github.com/meenmo/firisk/utils"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func flatCurve(yield float64) curve.Curve {
	return curve.New(curve.Parameters{Beta0: yield, Tau1: 1.0, Tau2: 3.0})
}

func TestCouponSchedule_Semiannual(t *testing.T) {
	t.Parallel()

	settlement := date(2025, 6, 2)
	maturity := date(2030, 6, 2)
	dates, err := CouponSchedule(settlement, maturity, 2)
	if err != nil {
		t.Fatalf("CouponSchedule error: %v", err)
	}
	if len(dates) != 10 {
		t.Fatalf("semiannual 5y schedule has %d dates, want 10", len(dates))
	}
	if !dates[len(dates)-1].Equal(maturity) {
		t.Fatalf("last date = %v, want maturity %v", dates[len(dates)-1], maturity)
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			t.Fatalf("schedule not ascending: %v", dates)
		}
	}
	if !dates[0].After(settlement) {
		t.Fatalf("first date %v not after settlement %v", dates[0], settlement)
	}
}

func TestCouponSchedule_Errors(t *testing.T) {
	t.Parallel()

	if _, err := CouponSchedule(date(2025, 6, 2), date(2025, 6, 2), 2); err == nil {
		t.Fatalf("expected error for maturity == settlement")
	}
	if _, err := CouponSchedule(date(2025, 6, 2), date(2030, 6, 2), 5); err == nil {
		t.Fatalf("expected error for frequency 5")
	}
	if _, err := CouponSchedule(date(2025, 6, 2), date(2030, 6, 2), 0); err == nil {
		t.Fatalf("expected error for frequency 0")
	}
}

func TestCashflows_CouponAndPrincipal(t *testing.T) {
	t.Parallel()

	b, err := NewFixedCouponBond(date(2027, 6, 2), 0.05, 100, 2)
	if err != nil {
		t.Fatalf("NewFixedCouponBond error: %v", err)
	}
	cfs := b.Cashflows(date(2025, 6, 2))
	if len(cfs) != 4 {
		t.Fatalf("semiannual 2y bond has %d cashflows, want 4", len(cfs))
	}
	for i, cf := range cfs {
		if math.Abs(cf.Coupon-2.5) > 1e-12 {
			t.Fatalf("coupon %d = %v, want 2.5", i, cf.Coupon)
		}
	}
	last := cfs[len(cfs)-1]
	if last.Principal != 100 {
		t.Fatalf("principal at maturity = %v, want 100", last.Principal)
	}
	if math.Abs(last.Amount()-102.5) > 1e-12 {
		t.Fatalf("final amount = %v, want 102.5", last.Amount())
	}
	for _, cf := range cfs[:len(cfs)-1] {
		if cf.Principal != 0 {
			t.Fatalf("interim principal = %v, want 0", cf.Principal)
		}
	}
}

func TestPrice_ZeroCouponMatchesDiscountFactor(t *testing.T) {
	t.Parallel()

	settlement := date(2025, 6, 2)
	maturity := date(2030, 6, 2)
	b, err := NewFixedCouponBond(maturity, 0.0, 100, 1)
	if err != nil {
		t.Fatalf("NewFixedCouponBond error: %v", err)
	}

	c := flatCurve(0.04)
	pv := b.Price(c, settlement)

	tm := utils.YearFraction(settlement, maturity, "ACT/365F")
	want := 100 * math.Exp(-0.04*tm)
	if math.Abs(pv-want) > 1e-9 {
		t.Fatalf("zero coupon PV = %v, want %v", pv, want)
	}
}

func TestPrice_Monotonicity(t *testing.T) {
	t.Parallel()

	settlement := date(2025, 6, 2)
	b, err := NewFixedCouponBond(date(2030, 6, 2), 0.05, 100, 2)
	if err != nil {
		t.Fatalf("NewFixedCouponBond error: %v", err)
	}

	low := b.Price(flatCurve(0.02), settlement)
	high := b.Price(flatCurve(0.06), settlement)
	if low <= high {
		t.Fatalf("price should fall as yields rise: PV(2%%)=%v PV(6%%)=%v", low, high)
	}

	// Coupons well above the discount rate put the bond above par.
	rich := b.Price(flatCurve(0.01), settlement)
	if rich <= 100 {
		t.Fatalf("5%% coupon at 1%% yields priced %v, want above par", rich)
	}
}

func TestPrice_MaturedBondIsZero(t *testing.T) {
	t.Parallel()

	b, err := NewFixedCouponBond(date(2020, 6, 2), 0.05, 100, 2)
	if err != nil {
		t.Fatalf("NewFixedCouponBond error: %v", err)
	}
	if pv := b.Price(flatCurve(0.04), date(2025, 6, 2)); pv != 0 {
		t.Fatalf("matured bond PV = %v, want 0", pv)
	}
}

func TestNewFixedCouponBond_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewFixedCouponBond(time.Time{}, 0.05, 100, 2); err == nil {
		t.Fatalf("expected error for zero maturity")
	}
	if _, err := NewFixedCouponBond(date(2030, 6, 2), 0.05, 0, 2); err == nil {
		t.Fatalf("expected error for zero notional")
	}
	if _, err := NewFixedCouponBond(date(2030, 6, 2), 0.05, 100, 7); err == nil {
		t.Fatalf("expected error for frequency 7")
	}
}
