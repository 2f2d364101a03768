package main

import (
	"context"

	"go.uber.org/zap"
)

// overdueChecker periodically looks up loans past their return window
// and publishes them onto the overdue queue for downstream handling.
// It ships disabled and only runs when enabled from the configuration.
type overdueChecker struct {
	logger *zap.Logger
	config *OverdueCheckConfig
	clock  TickerClocker
	loans  LoanServiceProvider
	queue  Queuer
}

func NewOverdueChecker(logger *zap.Logger, config *OverdueCheckConfig, clock TickerClocker, loans LoanServiceProvider, queue Queuer) *overdueChecker {
	return &overdueChecker{
		logger: logger,
		config: config,
		clock:  clock,
		loans:  loans,
		queue:  queue,
	}
}

// Run drives the periodic check until the context is done.
func (oc *overdueChecker) Run(ctx context.Context) error {
	if !oc.config.Enable {
		oc.logger.Info("overdue checker: disabled by configuration: exit")
		return nil
	}

	ticker := oc.clock.NewTicker(oc.config.Interval)
	defer ticker.Stop()

	oc.logger.Info("overdue checker: started", zap.Duration("interval", oc.config.Interval))
	for {
		select {
		case <-ctx.Done():
			oc.logger.Info("overdue checker: context is done: exit", zap.String("reason", ctx.Err().Error()))
			return nil
		case <-ticker.C:
			oc.check(ctx)
		}
	}
}

func (oc *overdueChecker) check(ctx context.Context) {
	loans, err := oc.loans.GetAllLateLoans(ctx)
	if err != nil {
		oc.logger.Error("overdue checker: failed to fetch late loans", zap.Error(err))
		return
	}
	for _, loan := range loans {
		if err = oc.queue.Push(ctx, OverdueQueue, loan); err != nil {
			oc.logger.Error("overdue checker: failed to publish late loan", zap.Int64("loan.id", loan.ID), zap.Error(err))
		}
	}
	oc.logger.Info("overdue checker: completed round", zap.Int("late.loans", len(loans)))
}
