package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hbrp/insurance-bot/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCustomerCreated EventType = "customer_created"
	EventInvoiceIssued   EventType = "invoice_issued"
	EventInvoicePaid     EventType = "invoice_paid"
	EventInvoiceReminder EventType = "invoice_reminder"
	EventTicketOpened    EventType = "ticket_opened"
	EventTicketClaimed   EventType = "ticket_claimed"
	EventTicketClosed    EventType = "ticket_closed"
)

// Event represents a domain event emitted by services. ActorID carries
// the Discord user id of the initiator, or domain.SystemActor for
// automated actions.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	GuildID   string      `json:"guild_id,omitempty"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// CustomerCreatedPayload payload.
type CustomerCreatedPayload struct {
	CustomerID   string          `json:"customer_id"`
	Name         string          `json:"name"`
	TotalMonthly decimal.Decimal `json:"total_monthly_price"`
}

// InvoiceIssuedPayload payload.
type InvoiceIssuedPayload struct {
	InvoiceID    string          `json:"invoice_id"`
	CustomerID   string          `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	Amount       decimal.Decimal `json:"amount"`
	DueDate      time.Time       `json:"due_date"`
}

// InvoicePaidPayload payload.
type InvoicePaidPayload struct {
	InvoiceID    string          `json:"invoice_id"`
	CustomerID   string          `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	Amount       decimal.Decimal `json:"amount"`
}

// InvoiceReminderPayload payload for an escalation transition.
type InvoiceReminderPayload struct {
	InvoiceID      string          `json:"invoice_id"`
	CustomerID     string          `json:"customer_id"`
	CustomerName   string          `json:"customer_name"`
	Stage          int             `json:"stage"`
	Amount         decimal.Decimal `json:"amount"`
	OriginalAmount decimal.Decimal `json:"original_amount"`
	DaysOverdue    int             `json:"days_overdue"`
}

// TicketOpenedPayload payload.
type TicketOpenedPayload struct {
	TicketID   string            `json:"ticket_id"`
	Kind       domain.TicketKind `json:"kind"`
	ChannelID  string            `json:"channel_id"`
	CustomerID string            `json:"customer_id,omitempty"`
	Reason     string            `json:"reason,omitempty"`
}

// TicketClaimedPayload payload.
type TicketClaimedPayload struct {
	TicketID  string `json:"ticket_id"`
	ChannelID string `json:"channel_id"`
	ClaimedBy string `json:"claimed_by"`
}

// TicketClosedPayload payload.
type TicketClosedPayload struct {
	TicketID  string `json:"ticket_id"`
	ChannelID string `json:"channel_id"`
	ClosedBy  string `json:"closed_by"`
}
