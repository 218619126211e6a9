package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	log := zap.NewExample()
	assert.Same(t, log, FromContext(WithContext(context.Background(), log)))
}

func TestWithLineNumberAndPeriod(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	ctx, log := WithLineNumber(context.Background(), zap.New(core), "867-5309")
	ctx, log = WithPeriod(ctx, log, "2019-01")
	log.Info("call billed")

	assert.Equal(t, "867-5309", GetLineNumber(ctx))
	assert.Equal(t, "2019-01", GetPeriod(ctx))
	assert.Same(t, log, FromContext(ctx))

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "867-5309", fields["line_number"])
		assert.Equal(t, "2019-01", fields["period"])
	}
}

func TestGetters_Empty(t *testing.T) {
	assert.Empty(t, GetLineNumber(context.Background()))
	assert.Empty(t, GetPeriod(context.Background()))
}
