package repository

import (
	"context"
	"sort"

	"github.com/hbrp/insurance-bot/internal/domain"
	"github.com/hbrp/insurance-bot/internal/store"
	apperrors "github.com/hbrp/insurance-bot/pkg/util"
)

// InvoiceRepository stores invoices. Invoices are historical records and
// are never deleted.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice domain.Invoice) error
	GetByID(ctx context.Context, id string) (*domain.Invoice, error)
	Update(ctx context.Context, invoice domain.Invoice) error
	List(ctx context.Context) ([]domain.Invoice, error)
	ListUnpaid(ctx context.Context) ([]domain.Invoice, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Invoice, error)
	Exists(ctx context.Context, id string) bool
}

type invoiceRepository struct {
	store *store.Store
}

// NewInvoiceRepository builds a snapshot-backed repository.
func NewInvoiceRepository(s *store.Store) InvoiceRepository {
	return &invoiceRepository{store: s}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice domain.Invoice) error {
	return r.store.Update(func(state *store.State) error {
		if _, ok := state.Invoices[invoice.ID]; ok {
			return apperrors.NewConflict("invoice id already exists", map[string]any{"invoice_id": invoice.ID})
		}
		state.Invoices[invoice.ID] = invoice
		return nil
	})
}

func (r *invoiceRepository) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	var found *domain.Invoice
	r.store.View(func(state *store.State) {
		if invoice, ok := state.Invoices[id]; ok {
			found = &invoice
		}
	})
	if found == nil {
		return nil, apperrors.NewNotFound("invoice", map[string]any{"invoice_id": id})
	}
	return found, nil
}

func (r *invoiceRepository) Update(ctx context.Context, invoice domain.Invoice) error {
	return r.store.Update(func(state *store.State) error {
		if _, ok := state.Invoices[invoice.ID]; !ok {
			return apperrors.NewNotFound("invoice", map[string]any{"invoice_id": invoice.ID})
		}
		state.Invoices[invoice.ID] = invoice
		return nil
	})
}

func (r *invoiceRepository) List(ctx context.Context) ([]domain.Invoice, error) {
	var result []domain.Invoice
	r.store.View(func(state *store.State) {
		result = make([]domain.Invoice, 0, len(state.Invoices))
		for _, invoice := range state.Invoices {
			result = append(result, invoice)
		}
	})
	sortInvoices(result)
	return result, nil
}

func (r *invoiceRepository) ListUnpaid(ctx context.Context) ([]domain.Invoice, error) {
	var result []domain.Invoice
	r.store.View(func(state *store.State) {
		for _, invoice := range state.Invoices {
			if !invoice.Paid {
				result = append(result, invoice)
			}
		}
	})
	sortInvoices(result)
	return result, nil
}

func (r *invoiceRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Invoice, error) {
	var result []domain.Invoice
	r.store.View(func(state *store.State) {
		for _, invoice := range state.Invoices {
			if invoice.CustomerID == customerID {
				result = append(result, invoice)
			}
		}
	})
	sortInvoices(result)
	return result, nil
}

func (r *invoiceRepository) Exists(ctx context.Context, id string) bool {
	exists := false
	r.store.View(func(state *store.State) {
		_, exists = state.Invoices[id]
	})
	return exists
}

func sortInvoices(invoices []domain.Invoice) {
	sort.Slice(invoices, func(i, j int) bool {
		if invoices[i].CreatedAt.Equal(invoices[j].CreatedAt) {
			return invoices[i].ID < invoices[j].ID
		}
		return invoices[i].CreatedAt.Before(invoices[j].CreatedAt)
	})
}
