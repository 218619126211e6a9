package contract

import (
	"time"

	"github.com/leecohen23/Phone-compamy-software/internal/domain/billing"
	"github.com/leecohen23/Phone-compamy-software/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Ledger is the per-month bill a policy charges
type Ledger interface {
	SetRates(label string, perMinute decimal.Decimal)
	AddFixedCost(amount decimal.Decimal)
	AddFreeMinutes(minutes int)
	AddBilledMinutes(minutes int)
	// FreeMinutes returns the free minutes used so far this month
	FreeMinutes() int
	// Cost returns the fixed cost plus billed minutes at the rate
	Cost() decimal.Decimal
}

// Policy is the contract a phone line is billed under
type Policy interface {
	// Kind identifies the policy
	Kind() Kind
	// Start returns the contract start date, or the zero time once cancelled
	Start() time.Time
	// IsActive reports whether the contract has not been cancelled
	IsActive() bool
	// NewMonth binds bill as the ledger for period and applies the
	// policy's fixed cost and rate to it.
	NewMonth(period billing.Period, bill Ledger) error
	// BillCall charges call to the current bill
	BillCall(call *billing.Call) error
	// Cancel deactivates the contract and returns the amount owed.
	// A negative amount is a refund to the customer.
	Cancel() (decimal.Decimal, error)
}

// Terms are the construction inputs for any policy
type Terms struct {
	Start time.Time       // contract start date
	End   time.Time       // contractual end date, term contracts only
	TopUp decimal.Decimal // initial credit purchased, prepaid contracts only
}

var (
	// ErrNoBillingPeriod is returned when a call is billed or the contract
	// cancelled before any month was opened
	ErrNoBillingPeriod = shared.NewDomainError("NO_BILLING_PERIOD", "No billing month has been opened for this contract")
	// ErrContractInactive is returned for any operation on a cancelled contract
	ErrContractInactive = shared.NewDomainError("CONTRACT_INACTIVE", "Contract has been cancelled")
)

// base holds the state and default behavior shared by every policy.
// It does not implement NewMonth, so it can never be used as a Policy on its own.
type base struct {
	start time.Time
	bill  Ledger
}

func newBase(start time.Time) (base, error) {
	if start.IsZero() {
		return base{}, shared.NewDomainError("INVALID_START", "Contract start date must be set")
	}
	return base{start: start}, nil
}

// Start returns the contract start date
func (b *base) Start() time.Time {
	return b.start
}

// IsActive reports whether the contract has not been cancelled
func (b *base) IsActive() bool {
	return !b.start.IsZero()
}

// BillCall records the whole call as billed minutes
func (b *base) BillCall(call *billing.Call) error {
	bill, err := b.current()
	if err != nil {
		return err
	}
	if call == nil {
		return shared.ErrInvalidInput
	}
	bill.AddBilledMinutes(call.Minutes())
	return nil
}

// Cancel deactivates the contract and returns the current bill's cost
func (b *base) Cancel() (decimal.Decimal, error) {
	bill, err := b.current()
	if err != nil {
		return decimal.Zero, err
	}
	b.deactivate()
	return bill.Cost(), nil
}

// bind makes bill the current ledger
func (b *base) bind(bill Ledger) error {
	if !b.IsActive() {
		return ErrContractInactive
	}
	if bill == nil {
		return shared.ErrInvalidInput
	}
	b.bill = bill
	return nil
}

// current returns the bound ledger or the sequencing error
func (b *base) current() (Ledger, error) {
	if !b.IsActive() {
		return nil, ErrContractInactive
	}
	if b.bill == nil {
		return nil, ErrNoBillingPeriod
	}
	return b.bill, nil
}

func (b *base) deactivate() {
	b.start = time.Time{}
}

// isFirstMonth reports whether period is the month the contract started in
func (b *base) isFirstMonth(period billing.Period) bool {
	return billing.PeriodOf(b.start) == period
}

var _ Ledger = (*billing.Bill)(nil)
