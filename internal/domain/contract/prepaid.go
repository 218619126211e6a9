package contract

import (
	"time"

	"github.com/leecohen23/Phone-compamy-software/internal/domain/billing"
	"github.com/leecohen23/Phone-compamy-software/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Prepaid bills against a running balance of purchased credit.
//
// The balance is debt-positive: buying credit makes it more negative, usage
// makes it less negative. Each month the previous month's spending is folded
// in and the balance is stamped onto the new bill as its fixed cost. When
// credit runs low the line is recharged with a fixed top-up.
type Prepaid struct {
	base
	rates   Rates
	balance decimal.Decimal
	// stamped is the part of the current bill's fixed cost that is the
	// carried balance, not spending.
	stamped decimal.Decimal
}

// NewPrepaid creates a prepaid contract with topUp dollars of initial credit
func NewPrepaid(start time.Time, topUp decimal.Decimal, rates Rates) (*Prepaid, error) {
	b, err := newBase(start)
	if err != nil {
		return nil, err
	}
	if topUp.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TOP_UP", "Prepaid top-up cannot be negative")
	}
	return &Prepaid{
		base:    b,
		rates:   rates,
		balance: topUp.Neg(),
		stamped: decimal.Zero,
	}, nil
}

// Kind returns KindPrepaid
func (c *Prepaid) Kind() Kind {
	return KindPrepaid
}

// Balance returns the running balance. Negative means credit remains.
func (c *Prepaid) Balance() decimal.Decimal {
	return c.balance
}

// NewMonth folds the previous month's spending into the balance, stamps the
// balance onto bill, and recharges the line if credit has run low
func (c *Prepaid) NewMonth(period billing.Period, bill Ledger) error {
	previous := c.bill
	if err := c.bind(bill); err != nil {
		return err
	}
	bill.SetRates(KindPrepaid.Label(), c.rates.PrepaidRate)

	if previous != nil {
		spent := previous.Cost().Sub(c.stamped)
		c.balance = c.balance.Add(spent)
	}

	bill.AddFixedCost(c.balance)
	c.stamped = c.balance

	if c.balance.GreaterThan(c.rates.PrepaidLowThreshold) {
		c.balance = c.balance.Sub(c.rates.PrepaidTopUp)
		if c.rates.PrepaidBillTopUp {
			bill.AddFixedCost(c.rates.PrepaidTopUp)
			c.stamped = c.stamped.Add(c.rates.PrepaidTopUp)
		}
	}
	return nil
}

// Cancel deactivates the contract. Nothing is owed while the remaining
// credit covers the current bill; otherwise the current bill is owed.
func (c *Prepaid) Cancel() (decimal.Decimal, error) {
	bill, err := c.current()
	if err != nil {
		return decimal.Zero, err
	}
	c.deactivate()

	cost := bill.Cost()
	if cost.Add(c.balance).IsNegative() {
		return decimal.Zero, nil
	}
	return cost, nil
}

var _ Policy = (*Prepaid)(nil)
