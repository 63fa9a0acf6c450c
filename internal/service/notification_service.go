package service

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/hbrp/insurance-bot/internal/events"
	"github.com/hbrp/insurance-bot/internal/notify"
	"github.com/hbrp/insurance-bot/internal/observability"
	"github.com/hbrp/insurance-bot/internal/repository"
)

// NotificationService turns domain events into notifications. It only
// assembles structured data; the sinks own all platform formatting.
type NotificationService struct {
	dispatcher events.Dispatcher
	settings   repository.SettingsRepository
	sinks      []notify.Sink
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, settings repository.SettingsRepository, logger *zap.Logger, metrics *observability.Metrics, sinks ...notify.Sink) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		settings:   settings,
		sinks:      sinks,
		logger:     logger,
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to all notifying event types.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventCustomerCreated,
		events.EventInvoiceIssued,
		events.EventInvoicePaid,
		events.EventInvoiceReminder,
		events.EventTicketOpened,
		events.EventTicketClaimed,
		events.EventTicketClosed,
	} {
		n.dispatcher.Subscribe(eventType, n.handle)
	}
}

func (n *NotificationService) handle(ctx context.Context, event events.Event) error {
	msg := notify.Message{
		Kind:   string(event.Type),
		Fields: fieldsFor(event),
	}
	dest := n.destinationFor(ctx, event)

	for _, sink := range n.sinks {
		if err := sink.Notify(ctx, dest, msg); err != nil {
			n.logger.Warn("notification delivery failed",
				zap.String("event_type", string(event.Type)),
				zap.Error(err))
			continue
		}
		n.metrics.RecordNotification(msg.Kind)
	}
	return nil
}

func (n *NotificationService) destinationFor(ctx context.Context, event events.Event) notify.Destination {
	if event.GuildID == "" {
		return notify.Destination{}
	}
	settings, err := n.settings.Get(ctx, event.GuildID)
	if err != nil {
		return notify.Destination{}
	}
	return notify.Destination{ChannelID: settings.LogChannelID}
}

func fieldsFor(event events.Event) []notify.Field {
	switch payload := event.Payload.(type) {
	case events.CustomerCreatedPayload:
		return []notify.Field{
			{Name: "customer_id", Value: payload.CustomerID},
			{Name: "customer_name", Value: payload.Name},
			{Name: "total_monthly", Value: payload.TotalMonthly.StringFixed(2)},
		}
	case events.InvoiceIssuedPayload:
		return []notify.Field{
			{Name: "invoice_id", Value: payload.InvoiceID},
			{Name: "customer_name", Value: payload.CustomerName},
			{Name: "amount", Value: payload.Amount.StringFixed(2)},
			{Name: "due_date", Value: payload.DueDate.Format("2006-01-02")},
		}
	case events.InvoicePaidPayload:
		return []notify.Field{
			{Name: "invoice_id", Value: payload.InvoiceID},
			{Name: "customer_name", Value: payload.CustomerName},
			{Name: "amount", Value: payload.Amount.StringFixed(2)},
		}
	case events.InvoiceReminderPayload:
		return []notify.Field{
			{Name: "invoice_id", Value: payload.InvoiceID},
			{Name: "customer_name", Value: payload.CustomerName},
			{Name: "stage", Value: strconv.Itoa(payload.Stage)},
			{Name: "amount", Value: payload.Amount.StringFixed(2)},
			{Name: "original_amount", Value: payload.OriginalAmount.StringFixed(2)},
		}
	case events.TicketOpenedPayload:
		return []notify.Field{
			{Name: "ticket_id", Value: payload.TicketID},
			{Name: "kind", Value: string(payload.Kind)},
			{Name: "channel_id", Value: payload.ChannelID},
			{Name: "customer_id", Value: payload.CustomerID},
		}
	case events.TicketClaimedPayload:
		return []notify.Field{
			{Name: "ticket_id", Value: payload.TicketID},
			{Name: "claimed_by", Value: payload.ClaimedBy},
		}
	case events.TicketClosedPayload:
		return []notify.Field{
			{Name: "ticket_id", Value: payload.TicketID},
			{Name: "closed_by", Value: payload.ClosedBy},
		}
	default:
		return nil
	}
}
