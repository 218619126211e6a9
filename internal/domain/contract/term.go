package contract

import (
	"time"

	"github.com/leecohen23/Phone-compamy-software/internal/domain/billing"
	"github.com/leecohen23/Phone-compamy-software/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Term is a fixed-term contract. The first month carries a deposit on top
// of the monthly fee, each month includes a free-minute allowance, and the
// deposit is returned on cancellation once the minimum term has run.
type Term struct {
	base
	rates         Rates
	end           time.Time
	monthsElapsed int
}

// NewTerm creates a term contract running from start to end
func NewTerm(start, end time.Time, rates Rates) (*Term, error) {
	b, err := newBase(start)
	if err != nil {
		return nil, err
	}
	if end.IsZero() || end.Before(start) {
		return nil, shared.NewDomainError("INVALID_END", "Term end date must be set and not before the start date")
	}
	return &Term{base: b, rates: rates, end: end}, nil
}

// Kind returns KindTerm
func (c *Term) Kind() Kind {
	return KindTerm
}

// End returns the contractual end date. It does not stop billing.
func (c *Term) End() time.Time {
	return c.end
}

// MonthsElapsed returns how many months have been opened on this contract
func (c *Term) MonthsElapsed() int {
	return c.monthsElapsed
}

// NewMonth binds bill, charges the deposit in the start month and the
// monthly fee every month
func (c *Term) NewMonth(period billing.Period, bill Ledger) error {
	if err := c.bind(bill); err != nil {
		return err
	}
	bill.SetRates(KindTerm.Label(), c.rates.TermRate)
	if c.isFirstMonth(period) {
		bill.AddFixedCost(c.rates.TermDeposit)
	}
	bill.AddFixedCost(c.rates.TermFee)
	c.monthsElapsed++
	return nil
}

// BillCall draws the call from the month's remaining free minutes first and
// bills whatever exceeds them. The allowance is tracked on the bill, so it
// spans every call in the month.
func (c *Term) BillCall(call *billing.Call) error {
	bill, err := c.current()
	if err != nil {
		return err
	}
	if call == nil {
		return shared.ErrInvalidInput
	}

	minutes := call.Minutes()
	remaining := max(c.rates.TermFreeMinutes-bill.FreeMinutes(), 0)
	free := min(minutes, remaining)

	if free > 0 {
		bill.AddFreeMinutes(free)
	}
	if billed := minutes - free; billed > 0 {
		bill.AddBilledMinutes(billed)
	}
	return nil
}

// Cancel deactivates the contract. After the minimum term the deposit is
// refunded against the current bill, which can leave the customer owed money.
func (c *Term) Cancel() (decimal.Decimal, error) {
	bill, err := c.current()
	if err != nil {
		return decimal.Zero, err
	}
	c.deactivate()

	cost := bill.Cost()
	if c.monthsElapsed >= c.rates.TermRefundMonths {
		return c.rates.TermDeposit.Sub(cost), nil
	}
	return cost, nil
}

var _ Policy = (*Term)(nil)
