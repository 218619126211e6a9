package contract

import (
	"time"

	"github.com/leecohen23/Phone-compamy-software/internal/domain/billing"
)

// MonthToMonth charges a flat monthly fee and a flat rate for every minute.
// It carries no deposit and cancelling it costs only the current bill.
type MonthToMonth struct {
	base
	rates Rates
}

// NewMonthToMonth creates a month-to-month contract starting at start
func NewMonthToMonth(start time.Time, rates Rates) (*MonthToMonth, error) {
	b, err := newBase(start)
	if err != nil {
		return nil, err
	}
	return &MonthToMonth{base: b, rates: rates}, nil
}

// Kind returns KindMonthToMonth
func (c *MonthToMonth) Kind() Kind {
	return KindMonthToMonth
}

// NewMonth binds bill and charges the monthly fee
func (c *MonthToMonth) NewMonth(period billing.Period, bill Ledger) error {
	if err := c.bind(bill); err != nil {
		return err
	}
	bill.SetRates(KindMonthToMonth.Label(), c.rates.MTMRate)
	bill.AddFixedCost(c.rates.MTMFee)
	return nil
}

var _ Policy = (*MonthToMonth)(nil)
