package contract

import (
	"github.com/leecohen23/Phone-compamy-software/internal/domain/shared"
	"github.com/leecohen23/Phone-compamy-software/internal/domain/shared/valueobject"
)

// Aggregate type for contract events
const AggregateTypePhoneLine = "PhoneLine"

// Event type constants
const (
	EventTypeMonthOpened       = "contract.month_opened"
	EventTypeContractCancelled = "contract.cancelled"
)

// MonthOpenedEvent is raised when a line's contract is advanced to a new month
type MonthOpenedEvent struct {
	shared.BaseDomainEvent
	LineNumber string            `json:"line_number"`
	Period     string            `json:"period"`
	Contract   Kind              `json:"contract"`
	FixedCost  valueobject.Money `json:"fixed_cost"`
}

// NewMonthOpenedEvent creates a new MonthOpenedEvent
func NewMonthOpenedEvent(lineNumber, period string, kind Kind, fixedCost valueobject.Money) *MonthOpenedEvent {
	return &MonthOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMonthOpened, AggregateTypePhoneLine, lineNumber),
		LineNumber:      lineNumber,
		Period:          period,
		Contract:        kind,
		FixedCost:       fixedCost,
	}
}

// ContractCancelledEvent is raised when a line's contract is cancelled
type ContractCancelledEvent struct {
	shared.BaseDomainEvent
	LineNumber string            `json:"line_number"`
	Period     string            `json:"period"`
	Contract   Kind              `json:"contract"`
	Settlement valueobject.Money `json:"settlement"`
}

// NewContractCancelledEvent creates a new ContractCancelledEvent
func NewContractCancelledEvent(lineNumber, period string, kind Kind, settlement valueobject.Money) *ContractCancelledEvent {
	return &ContractCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContractCancelled, AggregateTypePhoneLine, lineNumber),
		LineNumber:      lineNumber,
		Period:          period,
		Contract:        kind,
		Settlement:      settlement,
	}
}
