package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/hbrp/insurance-bot/internal/clock"
	"github.com/hbrp/insurance-bot/internal/domain"
	"github.com/hbrp/insurance-bot/internal/events"
	"github.com/hbrp/insurance-bot/internal/repository"
	apperrors "github.com/hbrp/insurance-bot/pkg/util"
)

// TicketService coordinates support and customer-contact tickets.
type TicketService struct {
	tickets    repository.TicketRepository
	customers  repository.CustomerRepository
	audit      *AuditService
	clock      clock.Clock
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	CustomerRepo repository.CustomerRepository
	Audit        *AuditService
	Clock        clock.Clock
	Dispatcher   events.Dispatcher
}

// TicketOpenInput describes a new ticket. CustomerID and Reason are
// required for customer-contact tickets and ignored for support tickets.
type TicketOpenInput struct {
	Kind       domain.TicketKind
	GuildID    string
	ChannelID  string
	CustomerID string
	Reason     string
	OpenedBy   string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		customers:  deps.CustomerRepo,
		audit:      deps.Audit,
		clock:      deps.Clock,
		dispatcher: deps.Dispatcher,
	}
}

// Open records a new ticket for an already-created channel.
func (s *TicketService) Open(ctx context.Context, input TicketOpenInput) (*domain.Ticket, error) {
	if input.Kind == domain.TicketKindContact {
		if strings.TrimSpace(input.Reason) == "" {
			return nil, apperrors.NewValidationError("contact reason required", nil)
		}
		if _, err := s.customers.GetByID(ctx, input.CustomerID); err != nil {
			return nil, err
		}
	}

	ticket := domain.Ticket{
		ID:         generateTicketKey(),
		Kind:       input.Kind,
		GuildID:    input.GuildID,
		ChannelID:  input.ChannelID,
		CustomerID: input.CustomerID,
		Reason:     strings.TrimSpace(input.Reason),
		Status:     domain.TicketStatusOpen,
		OpenedBy:   input.OpenedBy,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	if err := s.audit.Append(ctx, domain.ActionTicketOpened, input.OpenedBy, map[string]any{
		"ticket_id":   ticket.ID,
		"kind":        string(ticket.Kind),
		"channel_id":  ticket.ChannelID,
		"customer_id": ticket.CustomerID,
	}); err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:    events.EventTicketOpened,
		GuildID: input.GuildID,
		ActorID: input.OpenedBy,
		Payload: events.TicketOpenedPayload{
			TicketID:   ticket.ID,
			Kind:       ticket.Kind,
			ChannelID:  ticket.ChannelID,
			CustomerID: ticket.CustomerID,
			Reason:     ticket.Reason,
		},
	})
	return &ticket, nil
}

// Claim assigns an open support ticket to a staff member. Contact
// tickets are staff-initiated and close directly, so they cannot be
// claimed.
func (s *TicketService) Claim(ctx context.Context, channelID, staffID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if ticket.Kind == domain.TicketKindContact {
		return nil, apperrors.NewConflict("contact tickets cannot be claimed",
			map[string]any{"ticket_id": ticket.ID})
	}
	if ticket.Status != domain.TicketStatusOpen {
		return nil, apperrors.NewConflict("ticket cannot be claimed in current status",
			map[string]any{"status": string(ticket.Status)})
	}
	ticket.Status = domain.TicketStatusClaimed
	ticket.ClaimedBy = staffID
	if err := s.tickets.Update(ctx, *ticket); err != nil {
		return nil, err
	}
	if err := s.audit.Append(ctx, domain.ActionTicketClaimed, staffID, map[string]any{
		"ticket_id":  ticket.ID,
		"channel_id": ticket.ChannelID,
	}); err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:    events.EventTicketClaimed,
		GuildID: ticket.GuildID,
		ActorID: staffID,
		Payload: events.TicketClaimedPayload{
			TicketID:  ticket.ID,
			ChannelID: ticket.ChannelID,
			ClaimedBy: staffID,
		},
	})
	return ticket, nil
}

// Close marks a ticket closed. Closing an already-closed ticket is a
// conflict.
func (s *TicketService) Close(ctx context.Context, channelID, closedBy string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if ticket.Status == domain.TicketStatusClosed {
		return nil, apperrors.NewConflict("ticket already closed", map[string]any{"ticket_id": ticket.ID})
	}
	now := s.clock.Now()
	ticket.Status = domain.TicketStatusClosed
	ticket.ClosedBy = closedBy
	ticket.ClosedAt = &now
	if err := s.tickets.Update(ctx, *ticket); err != nil {
		return nil, err
	}
	if err := s.audit.Append(ctx, domain.ActionTicketClosed, closedBy, map[string]any{
		"ticket_id":   ticket.ID,
		"channel_id":  ticket.ChannelID,
		"customer_id": ticket.CustomerID,
	}); err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:    events.EventTicketClosed,
		GuildID: ticket.GuildID,
		ActorID: closedBy,
		Payload: events.TicketClosedPayload{
			TicketID:  ticket.ID,
			ChannelID: ticket.ChannelID,
			ClosedBy:  closedBy,
		},
	})
	return ticket, nil
}

// GetByChannel returns the ticket tied to a channel.
func (s *TicketService) GetByChannel(ctx context.Context, channelID string) (*domain.Ticket, error) {
	return s.tickets.GetByChannel(ctx, channelID)
}

// ListOpen returns a guild's open and claimed tickets.
func (s *TicketService) ListOpen(ctx context.Context, guildID string) ([]domain.Ticket, error) {
	return s.tickets.ListOpen(ctx, guildID)
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.clock.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func generateTicketKey() string {
	return "TCK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
