package worker_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hbrp/insurance-bot/internal/clock"
	"github.com/hbrp/insurance-bot/internal/observability"
	"github.com/hbrp/insurance-bot/internal/repository"
	"github.com/hbrp/insurance-bot/internal/service"
	"github.com/hbrp/insurance-bot/internal/store"
	"github.com/hbrp/insurance-bot/internal/worker"
)

func newInvoiceService(t *testing.T, metrics *observability.Metrics) *service.InvoiceService {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "state.json"), zap.NewNop())
	require.NoError(t, err)

	clk := &clock.Fixed{Current: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	return service.NewInvoiceService(service.InvoiceDependencies{
		InvoiceRepo:  repository.NewInvoiceRepository(st),
		CustomerRepo: repository.NewCustomerRepository(st),
		Audit:        service.NewAuditService(repository.NewAuditRepository(st), clk),
		Clock:        clk,
		Logger:       zap.NewNop(),
		Metrics:      metrics,
	})
}

func TestSweepWorker_RunsPeriodically(t *testing.T) {
	metrics := observability.NewMetrics()
	invoices := newInvoiceService(t, metrics)

	w := worker.NewSweepWorker(invoices, 10*time.Millisecond, zap.NewNop())
	w.Start(context.Background())

	require.Eventually(t, func() bool {
		runs, _ := metrics.SweepStats()
		return runs >= 2
	}, time.Second, 5*time.Millisecond)

	w.Stop()
}

func TestSweepWorker_StopIsIdempotent(t *testing.T) {
	invoices := newInvoiceService(t, observability.NewMetrics())

	w := worker.NewSweepWorker(invoices, time.Hour, zap.NewNop())
	w.Start(context.Background())

	done := make(chan struct{})
	go func() {
		w.Stop()
		w.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestSweepWorker_StopsOnContextCancel(t *testing.T) {
	metrics := observability.NewMetrics()
	invoices := newInvoiceService(t, metrics)

	ctx, cancel := context.WithCancel(context.Background())
	w := worker.NewSweepWorker(invoices, 5*time.Millisecond, zap.NewNop())
	w.Start(ctx)

	require.Eventually(t, func() bool {
		runs, _ := metrics.SweepStats()
		return runs >= 1
	}, time.Second, time.Millisecond)

	cancel()
	// The loop exits on its own; Stop only waits for it here.
	w.Stop()

	runsAfter, _ := metrics.SweepStats()
	time.Sleep(20 * time.Millisecond)
	runsLater, _ := metrics.SweepStats()
	assert.Equal(t, runsAfter, runsLater)
}
