package repository

import (
	"context"
	"sort"

	"github.com/hbrp/insurance-bot/internal/domain"
	"github.com/hbrp/insurance-bot/internal/store"
	apperrors "github.com/hbrp/insurance-bot/pkg/util"
)

// CustomerRepository stores customer files.
type CustomerRepository interface {
	Create(ctx context.Context, customer domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	FindByDiscordUser(ctx context.Context, discordUserID string) (*domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
	Exists(ctx context.Context, id string) bool
}

type customerRepository struct {
	store *store.Store
}

// NewCustomerRepository builds a snapshot-backed repository.
func NewCustomerRepository(s *store.Store) CustomerRepository {
	return &customerRepository{store: s}
}

func (r *customerRepository) Create(ctx context.Context, customer domain.Customer) error {
	return r.store.Update(func(state *store.State) error {
		if _, ok := state.Customers[customer.ID]; ok {
			return apperrors.NewConflict("customer id already exists", map[string]any{"customer_id": customer.ID})
		}
		state.Customers[customer.ID] = customer
		return nil
	})
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	var found *domain.Customer
	r.store.View(func(state *store.State) {
		if customer, ok := state.Customers[id]; ok {
			found = &customer
		}
	})
	if found == nil {
		return nil, apperrors.NewNotFound("customer", map[string]any{"customer_id": id})
	}
	return found, nil
}

func (r *customerRepository) FindByDiscordUser(ctx context.Context, discordUserID string) (*domain.Customer, error) {
	var found *domain.Customer
	r.store.View(func(state *store.State) {
		for _, customer := range state.Customers {
			if customer.DiscordUserID == discordUserID {
				c := customer
				found = &c
				return
			}
		}
	})
	if found == nil {
		return nil, apperrors.NewNotFound("customer", map[string]any{"discord_user_id": discordUserID})
	}
	return found, nil
}

func (r *customerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	var result []domain.Customer
	r.store.View(func(state *store.State) {
		result = make([]domain.Customer, 0, len(state.Customers))
		for _, customer := range state.Customers {
			result = append(result, customer)
		}
	})
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *customerRepository) Exists(ctx context.Context, id string) bool {
	exists := false
	r.store.View(func(state *store.State) {
		_, exists = state.Customers[id]
	})
	return exists
}
