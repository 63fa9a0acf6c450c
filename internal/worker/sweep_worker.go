package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hbrp/insurance-bot/internal/service"
)

// SweepWorker drives the periodic overdue-invoice scan. It runs until
// its context is cancelled or Stop is called; a failing iteration is
// logged and the next tick proceeds normally.
type SweepWorker struct {
	invoices *service.InvoiceService
	interval time.Duration
	logger   *zap.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewSweepWorker constructs the worker.
func NewSweepWorker(invoices *service.InvoiceService, interval time.Duration, logger *zap.Logger) *SweepWorker {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &SweepWorker{
		invoices: invoices,
		interval: interval,
		logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the sweep loop in its own goroutine.
func (w *SweepWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

// Stop signals the loop to exit and waits for it to finish.
func (w *SweepWorker) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	<-w.doneCh
}

func (w *SweepWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("sweep worker started", zap.Duration("interval", w.interval))
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("sweep worker stopped", zap.String("reason", "context cancelled"))
			return
		case <-w.stopCh:
			w.logger.Info("sweep worker stopped", zap.String("reason", "stop requested"))
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *SweepWorker) sweep(ctx context.Context) {
	result, err := w.invoices.Sweep(ctx)
	if err != nil {
		w.logger.Error("sweep iteration failed", zap.Error(err))
		return
	}
	w.logger.Info("sweep completed",
		zap.Int("scanned", result.Scanned),
		zap.Int("escalated", result.Escalated),
		zap.Int("failures", result.Failures))
}
