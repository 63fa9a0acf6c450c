package domain

import "time"

// TicketKind distinguishes general support tickets from staff-initiated
// customer contact tickets.
type TicketKind string

const (
	TicketKindSupport TicketKind = "SUPPORT"
	TicketKindContact TicketKind = "CUSTOMER_CONTACT"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen    TicketStatus = "OPEN"
	TicketStatusClaimed TicketStatus = "CLAIMED"
	TicketStatusClosed  TicketStatus = "CLOSED"
)

// Ticket is the aggregate for a support or customer-contact conversation.
type Ticket struct {
	ID         string       `json:"id"`
	Kind       TicketKind   `json:"kind"`
	GuildID    string       `json:"guild_id"`
	ChannelID  string       `json:"channel_id"`
	CustomerID string       `json:"customer_id,omitempty"`
	Reason     string       `json:"reason,omitempty"`
	Status     TicketStatus `json:"status"`
	OpenedBy   string       `json:"opened_by"`
	ClaimedBy  string       `json:"claimed_by,omitempty"`
	ClosedBy   string       `json:"closed_by,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	ClosedAt   *time.Time   `json:"closed_at,omitempty"`
}
