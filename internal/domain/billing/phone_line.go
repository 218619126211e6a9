package billing

import (
	"github.com/google/uuid"
	"github.com/leecohen23/Phone-compamy-software/internal/domain/shared"
)

// Customer owns one or more phone lines
type Customer struct {
	ID    string
	Lines []string // phone numbers
}

// PhoneLine is a number held by a customer.
// The line keeps every bill it has been issued, keyed by period.
type PhoneLine struct {
	shared.BaseEntity
	CustomerID string
	Number     string
	bills      map[Period]*Bill
	current    Period
}

// NewPhoneLine creates a phone line for a customer
func NewPhoneLine(customerID, number string) (*PhoneLine, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Phone number cannot be empty")
	}
	return &PhoneLine{
		BaseEntity: shared.NewBaseEntity(),
		CustomerID: customerID,
		Number:     number,
		bills:      make(map[Period]*Bill),
	}, nil
}

// OpenBill creates and stores a fresh bill for the period
func (l *PhoneLine) OpenBill(period Period) *Bill {
	bill := NewBill(period)
	l.bills[period] = bill
	l.current = period
	return bill
}

// CurrentBill returns the most recently opened bill, or nil
func (l *PhoneLine) CurrentBill() *Bill {
	if l.current.IsZero() {
		return nil
	}
	return l.bills[l.current]
}

// Bill returns the bill for a period, or nil if none was issued
func (l *PhoneLine) Bill(period Period) *Bill {
	return l.bills[period]
}

// lineNamespace scopes statement IDs derived from line numbers
var lineNamespace = uuid.MustParse("6f1d3c52-0b7e-4f0a-9a55-5d1c2f4e8a10")

// StatementID returns a deterministic ID for this line's statement in a period,
// so closing the same month twice overwrites rather than duplicates.
func (l *PhoneLine) StatementID(period Period) uuid.UUID {
	return uuid.NewSHA1(lineNamespace, []byte(l.Number+"/"+period.String()))
}
