package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/leecohen23/Phone-compamy-software/internal/domain/shared/valueobject"
)

// StatementKind distinguishes a regular month close from a cancellation
type StatementKind string

const (
	StatementMonthly    StatementKind = "MONTHLY"
	StatementSettlement StatementKind = "SETTLEMENT"
)

// Statement is the closed-out record of one line's bill for one period
type Statement struct {
	ID         uuid.UUID
	LineNumber string
	Period     Period
	Contract   string
	Kind       StatementKind
	Summary    Summary
	// AmountDue is the bill total for monthly statements and the
	// settlement amount for cancellations.
	AmountDue valueobject.Money
	ClosedAt  time.Time
}

// StatementRepository stores closed statements
type StatementRepository interface {
	// Save inserts or replaces a statement by ID
	Save(ctx context.Context, statement *Statement) error
	// FindByLine returns all statements of a line ordered by period
	FindByLine(ctx context.Context, lineNumber string) ([]*Statement, error)
	// FindByPeriod returns all statements for a period ordered by line number
	FindByPeriod(ctx context.Context, period Period) ([]*Statement, error)
}
