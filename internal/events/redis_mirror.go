package events

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/hbrp/insurance-bot/internal/persistence"
)

// RedisMirror republishes every dispatched event on a Redis channel so
// external consumers (dashboards, the second bot variant) can follow
// along. Mirroring is best-effort and never blocks the originating
// mutation.
type RedisMirror struct {
	redis   *persistence.Redis
	channel string
	logger  *zap.Logger
}

// NewRedisMirror creates the mirror.
func NewRedisMirror(redis *persistence.Redis, channel string, logger *zap.Logger) *RedisMirror {
	return &RedisMirror{redis: redis, channel: channel, logger: logger}
}

// RegisterAll subscribes the mirror to every event type.
func (m *RedisMirror) RegisterAll(dispatcher Dispatcher) {
	if m.redis == nil || m.redis.Client == nil {
		return
	}
	for _, eventType := range []EventType{
		EventCustomerCreated,
		EventInvoiceIssued,
		EventInvoicePaid,
		EventInvoiceReminder,
		EventTicketOpened,
		EventTicketClaimed,
		EventTicketClosed,
	} {
		dispatcher.Subscribe(eventType, m.handle)
	}
}

func (m *RedisMirror) handle(ctx context.Context, event Event) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := m.redis.Client.Publish(ctx, m.channel, raw).Err(); err != nil {
		m.logger.Debug("redis event mirror publish failed", zap.Error(err))
	}
	return nil
}
