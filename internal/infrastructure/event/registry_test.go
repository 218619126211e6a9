package event

import (
	"testing"

	"github.com/leecohen23/Phone-compamy-software/internal/domain/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerRegistry_Register_SpecificTypes(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newTestHandler(contract.EventTypeMonthOpened, contract.EventTypeContractCancelled)

	registry.Register(handler, contract.EventTypeMonthOpened, contract.EventTypeContractCancelled)

	handlers := registry.GetHandlers(contract.EventTypeMonthOpened)
	require.Len(t, handlers, 1)
	assert.Same(t, handler, handlers[0])

	handlers = registry.GetHandlers(contract.EventTypeContractCancelled)
	require.Len(t, handlers, 1)
	assert.Same(t, handler, handlers[0])

	assert.Empty(t, registry.GetHandlers("contract.recontracted"))
}

func TestHandlerRegistry_Register_MixedTypes(t *testing.T) {
	registry := NewHandlerRegistry()
	specific := newTestHandler(contract.EventTypeMonthOpened)
	wildcard := newTestHandler()

	registry.Register(specific, contract.EventTypeMonthOpened)
	registry.Register(wildcard)

	handlers := registry.GetHandlers(contract.EventTypeMonthOpened)
	require.Len(t, handlers, 2)
	assert.Same(t, specific, handlers[0], "typed handlers come first")
	assert.Same(t, wildcard, handlers[1])

	handlers = registry.GetHandlers(contract.EventTypeContractCancelled)
	require.Len(t, handlers, 1)
	assert.Same(t, wildcard, handlers[0])
}
