package worker

import (
	"context"
	"sync"
	"time"

	"github.com/currencydesk/currency-orders/internal/observability"
	"github.com/currencydesk/currency-orders/internal/service"
	"go.uber.org/zap"
)

// RatesWorker periodically refreshes exchange rates from the quote provider.
// A failed run is logged and retried at the next tick.
type RatesWorker struct {
	svc        *service.RateService
	interval   time.Duration
	runOnStart bool
	stopCh     chan struct{}
	stopOnce   sync.Once
}

// NewRatesWorker constructs a worker with a default hourly interval.
func NewRatesWorker(svc *service.RateService) *RatesWorker {
	return &RatesWorker{
		svc:      svc,
		interval: time.Hour,
		stopCh:   make(chan struct{}),
	}
}

// WithInterval updates the refresh interval.
func (w *RatesWorker) WithInterval(interval time.Duration) *RatesWorker {
	if interval > 0 {
		w.interval = interval
	}
	return w
}

// WithRunOnStart makes the worker refresh immediately before the first tick.
func (w *RatesWorker) WithRunOnStart(run bool) *RatesWorker {
	w.runOnStart = run
	return w
}

// Start blocks and refreshes rates at the configured interval.
func (w *RatesWorker) Start(ctx context.Context) {
	zap.L().Info("rates worker starting", zap.Duration("interval", w.interval))
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	if w.runOnStart {
		w.runOnce(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("rates worker context canceled")
			return
		case <-w.stopCh:
			zap.L().Info("rates worker stop signal received")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

// Stop stops the running worker loop.
func (w *RatesWorker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
}

// Run starts the worker in a goroutine and returns a stop function.
func (w *RatesWorker) Run(ctx context.Context) func() {
	go w.Start(ctx)
	return w.Stop
}

func (w *RatesWorker) runOnce(ctx context.Context) {
	result, err := w.svc.Refresh(ctx)
	if err != nil {
		observability.IncrementRefreshRun("failed")
		zap.L().Error("rate refresh failed", zap.Error(err))
		return
	}
	observability.IncrementRefreshRun("success")
	zap.L().Info("rate refresh complete", zap.Int("updated", result.UpdatedCount), zap.Int("errors", len(result.Errs)))
}
