package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hbrp/insurance-bot/internal/clock"
	"github.com/hbrp/insurance-bot/internal/domain"
	"github.com/hbrp/insurance-bot/internal/events"
	"github.com/hbrp/insurance-bot/internal/idgen"
	"github.com/hbrp/insurance-bot/internal/repository"
	apperrors "github.com/hbrp/insurance-bot/pkg/util"
)

// CustomerService manages insured-member files. Files are immutable
// after creation; there is no update operation.
type CustomerService struct {
	customers  repository.CustomerRepository
	audit      *AuditService
	ids        *idgen.Generator
	clock      clock.Clock
	dispatcher events.Dispatcher
}

// CustomerDependencies bundles collaborators for the customer service.
type CustomerDependencies struct {
	CustomerRepo repository.CustomerRepository
	Audit        *AuditService
	IDs          *idgen.Generator
	Clock        clock.Clock
	Dispatcher   events.Dispatcher
}

// CustomerCreateInput describes a new customer file.
type CustomerCreateInput struct {
	Name          string
	DiscordUserID string
	HBPayID       string
	EconomyID     string
	Products      []domain.InsuranceProduct
	Actor         string
	GuildID       string
}

// NewCustomerService constructs the service.
func NewCustomerService(deps CustomerDependencies) *CustomerService {
	return &CustomerService{
		customers:  deps.CustomerRepo,
		audit:      deps.Audit,
		ids:        deps.IDs,
		clock:      deps.Clock,
		dispatcher: deps.Dispatcher,
	}
}

// Create issues a new customer id, fixes the total monthly price from
// the given products and persists the file.
func (s *CustomerService) Create(ctx context.Context, input CustomerCreateInput) (*domain.Customer, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	if len(input.Products) == 0 {
		return nil, apperrors.NewValidationError("at least one insurance product required", nil)
	}
	for _, product := range input.Products {
		if strings.TrimSpace(product.Name) == "" {
			return nil, apperrors.NewValidationError("product name required", nil)
		}
		if product.MonthlyPrice.LessThanOrEqual(decimal.Zero) {
			return nil, apperrors.NewValidationError("product price must be positive",
				map[string]any{"product": product.Name})
		}
	}

	now := s.clock.Now()
	id, err := s.ids.CustomerID(now, func(candidate string) bool {
		return s.customers.Exists(ctx, candidate)
	})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	customer := domain.Customer{
		ID:            id,
		Name:          strings.TrimSpace(input.Name),
		DiscordUserID: input.DiscordUserID,
		HBPayID:       input.HBPayID,
		EconomyID:     input.EconomyID,
		Products:      input.Products,
		TotalMonthly:  domain.TotalOf(input.Products),
		CreatedBy:     input.Actor,
		CreatedAt:     now,
	}

	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}
	if err := s.audit.Append(ctx, domain.ActionCustomerCreated, input.Actor, map[string]any{
		"customer_id": customer.ID,
		"name":        customer.Name,
		"total":       customer.TotalMonthly.String(),
	}); err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:    events.EventCustomerCreated,
		GuildID: input.GuildID,
		ActorID: input.Actor,
		Payload: events.CustomerCreatedPayload{
			CustomerID:   customer.ID,
			Name:         customer.Name,
			TotalMonthly: customer.TotalMonthly,
		},
	})
	return &customer, nil
}

// Get returns a customer file by id.
func (s *CustomerService) Get(ctx context.Context, id string) (*domain.Customer, error) {
	return s.customers.GetByID(ctx, id)
}

// FindByDiscordUser returns the file owned by a Discord member.
func (s *CustomerService) FindByDiscordUser(ctx context.Context, discordUserID string) (*domain.Customer, error) {
	return s.customers.FindByDiscordUser(ctx, discordUserID)
}

// List returns all customer files ordered by id.
func (s *CustomerService) List(ctx context.Context) ([]domain.Customer, error) {
	return s.customers.List(ctx)
}

func (s *CustomerService) publish(ctx context.Context, event events.Event) {
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
