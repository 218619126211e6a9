package billing

import (
	"github.com/leecohen23/Phone-compamy-software/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Bill accumulates one line's charges for one billing period.
// A new Bill is created every month; the contract holding it only
// borrows it until the next month rebinds a fresh one.
type Bill struct {
	period        Period
	label         string
	rate          decimal.Decimal
	fixedCost     decimal.Decimal
	freeMinutes   int
	billedMinutes int
}

// NewBill creates an empty bill for the given period
func NewBill(period Period) *Bill {
	return &Bill{
		period:    period,
		rate:      decimal.Zero,
		fixedCost: decimal.Zero,
	}
}

// Period returns the billing period of this bill
func (b *Bill) Period() Period {
	return b.period
}

// SetRates records which contract type and per-minute rate apply this month
func (b *Bill) SetRates(label string, perMinute decimal.Decimal) {
	b.label = label
	b.rate = perMinute
}

// AddFixedCost adds to the month's fixed charges. Negative amounts are allowed.
func (b *Bill) AddFixedCost(amount decimal.Decimal) {
	b.fixedCost = b.fixedCost.Add(amount)
}

// AddFreeMinutes records minutes that carry no per-minute charge
func (b *Bill) AddFreeMinutes(minutes int) {
	b.freeMinutes += minutes
}

// AddBilledMinutes records minutes charged at the per-minute rate
func (b *Bill) AddBilledMinutes(minutes int) {
	b.billedMinutes += minutes
}

// FreeMinutes returns the free minutes used so far this month
func (b *Bill) FreeMinutes() int {
	return b.freeMinutes
}

// BilledMinutes returns the billed minutes so far this month
func (b *Bill) BilledMinutes() int {
	return b.billedMinutes
}

// FixedCost returns the accumulated fixed charges
func (b *Bill) FixedCost() decimal.Decimal {
	return b.fixedCost
}

// Rate returns the per-minute rate
func (b *Bill) Rate() decimal.Decimal {
	return b.rate
}

// Label returns the contract label recorded by SetRates
func (b *Bill) Label() string {
	return b.label
}

// UsageCost returns billed minutes multiplied by the rate
func (b *Bill) UsageCost() decimal.Decimal {
	return b.rate.Mul(decimal.NewFromInt(int64(b.billedMinutes)))
}

// Cost returns the fixed cost plus the usage cost
func (b *Bill) Cost() decimal.Decimal {
	return b.fixedCost.Add(b.UsageCost())
}

// Summary is a read-only view of a bill
type Summary struct {
	Label         string            `json:"label"`
	Rate          decimal.Decimal   `json:"rate"`
	FixedCost     valueobject.Money `json:"fixed_cost"`
	FreeMinutes   int               `json:"free_minutes"`
	BilledMinutes int               `json:"billed_minutes"`
	UsageCost     valueobject.Money `json:"usage_cost"`
	Total         valueobject.Money `json:"total"`
}

// Summary returns a snapshot of the bill
func (b *Bill) Summary() Summary {
	return Summary{
		Label:         b.label,
		Rate:          b.rate,
		FixedCost:     valueobject.NewMoney(b.fixedCost),
		FreeMinutes:   b.freeMinutes,
		BilledMinutes: b.billedMinutes,
		UsageCost:     valueobject.NewMoney(b.UsageCost()),
		Total:         valueobject.NewMoney(b.Cost()),
	}
}
