package event

import (
	"context"
	"sync"

	"github.com/leecohen23/Phone-compamy-software/internal/domain/contract"
	"github.com/leecohen23/Phone-compamy-software/internal/domain/shared"
	"go.uber.org/zap"
)

// AuditHandler logs contract lifecycle events and keeps them for the run summary
type AuditHandler struct {
	logger *zap.Logger

	mu     sync.Mutex
	events []shared.DomainEvent
}

// NewAuditHandler creates an audit handler
func NewAuditHandler(logger *zap.Logger) *AuditHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditHandler{logger: logger}
}

// EventTypes returns the contract event types
func (h *AuditHandler) EventTypes() []string {
	return []string{contract.EventTypeMonthOpened, contract.EventTypeContractCancelled}
}

// Handle records the event
func (h *AuditHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *contract.MonthOpenedEvent:
		h.logger.Debug("month opened",
			zap.String("line", e.LineNumber),
			zap.String("period", e.Period),
			zap.String("contract", e.Contract.String()),
			zap.String("fixed_cost", e.FixedCost.StringFixed(2)),
		)
	case *contract.ContractCancelledEvent:
		h.logger.Info("contract cancelled",
			zap.String("line", e.LineNumber),
			zap.String("period", e.Period),
			zap.String("contract", e.Contract.String()),
			zap.String("settlement", e.Settlement.StringFixed(2)),
		)
	default:
		h.logger.Debug("event received", zap.String("event_type", event.EventType()))
	}

	h.mu.Lock()
	h.events = append(h.events, event)
	h.mu.Unlock()
	return nil
}

// Events returns a copy of the recorded events
func (h *AuditHandler) Events() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.events...)
}

// Cancellations returns the recorded cancellation events
func (h *AuditHandler) Cancellations() []*contract.ContractCancelledEvent {
	h.mu.Lock()
	defer h.mu.Unlock()

	var result []*contract.ContractCancelledEvent
	for _, event := range h.events {
		if e, ok := event.(*contract.ContractCancelledEvent); ok {
			result = append(result, e)
		}
	}
	return result
}

var _ shared.EventHandler = (*AuditHandler)(nil)
