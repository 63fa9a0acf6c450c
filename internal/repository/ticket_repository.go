package repository

import (
	"context"
	"sort"

	"github.com/hbrp/insurance-bot/internal/domain"
	"github.com/hbrp/insurance-bot/internal/store"
	apperrors "github.com/hbrp/insurance-bot/pkg/util"
)

// TicketRepository stores support and customer-contact tickets.
type TicketRepository interface {
	Create(ctx context.Context, ticket domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByChannel(ctx context.Context, channelID string) (*domain.Ticket, error)
	Update(ctx context.Context, ticket domain.Ticket) error
	ListOpen(ctx context.Context, guildID string) ([]domain.Ticket, error)
}

type ticketRepository struct {
	store *store.Store
}

// NewTicketRepository builds a snapshot-backed repository.
func NewTicketRepository(s *store.Store) TicketRepository {
	return &ticketRepository{store: s}
}

func (r *ticketRepository) Create(ctx context.Context, ticket domain.Ticket) error {
	return r.store.Update(func(state *store.State) error {
		if _, ok := state.Tickets[ticket.ID]; ok {
			return apperrors.NewConflict("ticket id already exists", map[string]any{"ticket_id": ticket.ID})
		}
		state.Tickets[ticket.ID] = ticket
		return nil
	})
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	var found *domain.Ticket
	r.store.View(func(state *store.State) {
		if ticket, ok := state.Tickets[id]; ok {
			found = &ticket
		}
	})
	if found == nil {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	return found, nil
}

func (r *ticketRepository) GetByChannel(ctx context.Context, channelID string) (*domain.Ticket, error) {
	var found *domain.Ticket
	r.store.View(func(state *store.State) {
		for _, ticket := range state.Tickets {
			if ticket.ChannelID == channelID {
				t := ticket
				found = &t
				return
			}
		}
	})
	if found == nil {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"channel_id": channelID})
	}
	return found, nil
}

func (r *ticketRepository) Update(ctx context.Context, ticket domain.Ticket) error {
	return r.store.Update(func(state *store.State) error {
		if _, ok := state.Tickets[ticket.ID]; !ok {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticket.ID})
		}
		state.Tickets[ticket.ID] = ticket
		return nil
	})
}

func (r *ticketRepository) ListOpen(ctx context.Context, guildID string) ([]domain.Ticket, error) {
	var result []domain.Ticket
	r.store.View(func(state *store.State) {
		for _, ticket := range state.Tickets {
			if ticket.GuildID == guildID && ticket.Status != domain.TicketStatusClosed {
				result = append(result, ticket)
			}
		}
	})
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}
