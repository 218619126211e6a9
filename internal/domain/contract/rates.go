package contract

import (
	"fmt"

	"github.com/leecohen23/Phone-compamy-software/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Rates holds every fee, rate and threshold the policies charge with.
// Monetary values are in dollars; per-minute rates are dollars per minute.
type Rates struct {
	MTMFee  decimal.Decimal // monthly fee for month-to-month lines
	MTMRate decimal.Decimal // per-minute rate for month-to-month lines

	TermFee          decimal.Decimal // monthly fee for term lines
	TermDeposit      decimal.Decimal // charged in the first month, refundable
	TermRate         decimal.Decimal // per-minute rate past the free allowance
	TermFreeMinutes  int             // free minutes per month
	TermRefundMonths int             // months a term line must run to get the deposit back

	PrepaidRate         decimal.Decimal // per-minute rate for prepaid lines
	PrepaidTopUp        decimal.Decimal // forced recharge amount
	PrepaidLowThreshold decimal.Decimal // balance above this forces a recharge
	// PrepaidBillTopUp also charges the forced recharge on the bill instead
	// of only crediting the balance.
	PrepaidBillTopUp bool
}

// DefaultRates returns the standard rate table
func DefaultRates() Rates {
	return Rates{
		MTMFee:  decimal.NewFromInt(50),
		MTMRate: decimal.RequireFromString("0.05"),

		TermFee:          decimal.NewFromInt(20),
		TermDeposit:      decimal.NewFromInt(300),
		TermRate:         decimal.RequireFromString("0.1"),
		TermFreeMinutes:  100,
		TermRefundMonths: 6,

		PrepaidRate:         decimal.RequireFromString("0.025"),
		PrepaidTopUp:        decimal.NewFromInt(25),
		PrepaidLowThreshold: decimal.NewFromInt(-10),
	}
}

// Validate checks the rate table for values no policy can charge with
func (r Rates) Validate() error {
	amounts := []struct {
		name  string
		value decimal.Decimal
	}{
		{"mtm_fee", r.MTMFee},
		{"mtm_rate", r.MTMRate},
		{"term_fee", r.TermFee},
		{"term_deposit", r.TermDeposit},
		{"term_rate", r.TermRate},
		{"prepaid_rate", r.PrepaidRate},
		{"prepaid_top_up", r.PrepaidTopUp},
	}
	for _, a := range amounts {
		if a.value.IsNegative() {
			return fmt.Errorf("%w: rates.%s cannot be negative", shared.ErrInvalidInput, a.name)
		}
	}
	if r.TermFreeMinutes < 0 {
		return fmt.Errorf("%w: rates.term_free_minutes cannot be negative", shared.ErrInvalidInput)
	}
	if r.TermRefundMonths < 0 {
		return fmt.Errorf("%w: rates.term_refund_months cannot be negative", shared.ErrInvalidInput)
	}
	return nil
}
