package main

import (
	"context"
	"errors"

	billingapp "github.com/leecohen23/Phone-compamy-software/internal/application/billing"
	"github.com/leecohen23/Phone-compamy-software/internal/domain/billing"
	"github.com/leecohen23/Phone-compamy-software/internal/infrastructure/cache"
	"github.com/leecohen23/Phone-compamy-software/internal/infrastructure/config"
	"github.com/leecohen23/Phone-compamy-software/internal/infrastructure/event"
	"github.com/leecohen23/Phone-compamy-software/internal/infrastructure/persistence"
	"github.com/leecohen23/Phone-compamy-software/internal/infrastructure/strategy"
	"go.uber.org/zap"
)

// app is the wired billing service and the resources it holds
type app struct {
	service *billingapp.Service
	audit   *event.AuditHandler
	closers []func() error
}

func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	registry, err := strategy.NewRegistryWithDefaults(cfg.Rates)
	if err != nil {
		return nil, err
	}

	var statements billing.StatementRepository
	if cfg.Store.Driver == config.StoreMemory {
		statements = persistence.NewMemoryStatementRepository()
	} else {
		db, err := persistence.NewDatabase(cfg.Store, cfg.Database, cfg.Log, log)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		statements = persistence.NewStatementRepository(db.DB)
		log.Info("statement store opened", zap.String("driver", db.Driver))
	}

	dedupe, err := cache.NewIdempotencyStore(ctx, cfg.Dedupe, cfg.Redis, log)
	if err != nil {
		return nil, err
	}
	if dedupe != nil {
		a.closers = append(a.closers, dedupe.Close)
	}

	bus := event.NewInMemoryEventBus(log)
	a.audit = event.NewAuditHandler(log)
	bus.Subscribe(a.audit)

	a.service = billingapp.NewService(registry, statements, bus, dedupe, log,
		billingapp.ServiceConfig{DedupeTTL: cfg.Dedupe.TTL})
	return a, nil
}

// Close releases resources in reverse order of acquisition
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
