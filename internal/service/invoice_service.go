package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hbrp/insurance-bot/internal/clock"
	"github.com/hbrp/insurance-bot/internal/domain"
	"github.com/hbrp/insurance-bot/internal/events"
	"github.com/hbrp/insurance-bot/internal/idgen"
	"github.com/hbrp/insurance-bot/internal/observability"
	"github.com/hbrp/insurance-bot/internal/repository"
	apperrors "github.com/hbrp/insurance-bot/pkg/util"
)

// Surcharge percentages per reminder stage, applied to the original
// amount (not cumulative).
var stageSurchargePercent = map[int]int64{
	1: 0,
	2: 5,
	3: 10,
}

// InvoiceService implements the invoice lifecycle: issuance, payment
// and the periodic overdue escalation sweep.
type InvoiceService struct {
	invoices   repository.InvoiceRepository
	customers  repository.CustomerRepository
	audit      *AuditService
	ids        *idgen.Generator
	clock      clock.Clock
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	grace      time.Duration
}

// InvoiceDependencies bundles collaborators for the invoice service.
type InvoiceDependencies struct {
	InvoiceRepo  repository.InvoiceRepository
	CustomerRepo repository.CustomerRepository
	Audit        *AuditService
	IDs          *idgen.Generator
	Clock        clock.Clock
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	Metrics      *observability.Metrics
	GracePeriod  time.Duration
}

// IssueInput describes a new invoice. When Amount is zero the customer's
// total monthly price at issuance time is billed.
type IssueInput struct {
	CustomerID string
	Amount     decimal.Decimal
	Actor      string
	GuildID    string
}

// SweepResult summarizes one sweep run.
type SweepResult struct {
	Scanned   int
	Escalated int
	Failures  int
}

// NewInvoiceService constructs the service.
func NewInvoiceService(deps InvoiceDependencies) *InvoiceService {
	grace := deps.GracePeriod
	if grace <= 0 {
		grace = 3 * 24 * time.Hour
	}
	return &InvoiceService{
		invoices:   deps.InvoiceRepo,
		customers:  deps.CustomerRepo,
		audit:      deps.Audit,
		ids:        deps.IDs,
		clock:      deps.Clock,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
		grace:      grace,
	}
}

// Issue creates an invoice in state OPEN with the due date one grace
// period ahead. It fails with NOT_FOUND when the customer is unknown and
// leaves no trace in that case.
func (s *InvoiceService) Issue(ctx context.Context, input IssueInput) (*domain.Invoice, error) {
	customer, err := s.customers.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}

	amount := input.Amount
	if amount.IsZero() {
		amount = customer.TotalMonthly
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.NewValidationError("invoice amount must be positive", nil)
	}

	now := s.clock.Now()
	id, err := s.ids.InvoiceID(now, func(candidate string) bool {
		return s.invoices.Exists(ctx, candidate)
	})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	invoice := domain.Invoice{
		ID:             id,
		CustomerID:     customer.ID,
		OriginalAmount: amount,
		Amount:         amount,
		Paid:           false,
		DueDate:        now.Add(s.grace),
		ReminderCount:  0,
		CreatedBy:      input.Actor,
		CreatedAt:      now,
	}

	if err := s.invoices.Create(ctx, invoice); err != nil {
		return nil, err
	}
	if err := s.audit.Append(ctx, domain.ActionInvoiceIssued, input.Actor, map[string]any{
		"invoice_id":  invoice.ID,
		"customer_id": customer.ID,
		"amount":      invoice.Amount.String(),
	}); err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:    events.EventInvoiceIssued,
		GuildID: input.GuildID,
		ActorID: input.Actor,
		Payload: events.InvoiceIssuedPayload{
			InvoiceID:    invoice.ID,
			CustomerID:   customer.ID,
			CustomerName: customer.Name,
			Amount:       invoice.Amount,
			DueDate:      invoice.DueDate,
		},
	})
	return &invoice, nil
}

// Pay settles an invoice. Paying an already-settled invoice is a no-op
// that reports ALREADY_PAID; the stored payer and timestamp keep their
// first values.
func (s *InvoiceService) Pay(ctx context.Context, invoiceID, payer, guildID string) (*domain.Invoice, error) {
	invoice, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Paid {
		return nil, apperrors.NewAlreadyPaid(invoice.ID)
	}

	now := s.clock.Now()
	invoice.Paid = true
	invoice.PaidBy = payer
	invoice.PaidAt = &now
	if err := s.invoices.Update(ctx, *invoice); err != nil {
		return nil, err
	}
	if err := s.audit.Append(ctx, domain.ActionInvoicePaid, payer, map[string]any{
		"invoice_id":  invoice.ID,
		"customer_id": invoice.CustomerID,
		"amount":      invoice.Amount.String(),
	}); err != nil {
		return nil, err
	}

	customerName := invoice.CustomerID
	if customer, err := s.customers.GetByID(ctx, invoice.CustomerID); err == nil {
		customerName = customer.Name
	}
	s.publish(ctx, events.Event{
		Type:    events.EventInvoicePaid,
		GuildID: guildID,
		ActorID: payer,
		Payload: events.InvoicePaidPayload{
			InvoiceID:    invoice.ID,
			CustomerID:   invoice.CustomerID,
			CustomerName: customerName,
			Amount:       invoice.Amount,
		},
	})
	return invoice, nil
}

// Sweep scans all unpaid invoices once and applies at most one
// escalation step per invoice. Escalation happens only on the exact
// expected day for the invoice's reminder counter; any other
// combination leaves the invoice untouched. A failure on one invoice
// does not stop the rest of the scan.
func (s *InvoiceService) Sweep(ctx context.Context) (SweepResult, error) {
	unpaid, err := s.invoices.ListUnpaid(ctx)
	if err != nil {
		return SweepResult{}, err
	}

	now := s.clock.Now()
	result := SweepResult{Scanned: len(unpaid)}
	for _, invoice := range unpaid {
		escalated, err := s.sweepOne(ctx, invoice, now)
		if err != nil {
			result.Failures++
			s.logger.Error("sweep failed for invoice",
				zap.String("invoice_id", invoice.ID),
				zap.Error(err))
			continue
		}
		if escalated {
			result.Escalated++
		}
	}
	s.metrics.RecordSweep(result.Failures)
	return result, nil
}

func (s *InvoiceService) sweepOne(ctx context.Context, invoice domain.Invoice, now time.Time) (bool, error) {
	if now.Before(invoice.DueDate) {
		return false, nil
	}
	daysOverdue := int(now.Sub(invoice.DueDate) / (24 * time.Hour))

	// One transition per sweep, keyed on (days_overdue, reminder_count).
	// A missed day therefore freezes the invoice at its current stage.
	if daysOverdue != invoice.ReminderCount || daysOverdue > 2 {
		return false, nil
	}

	stage := invoice.ReminderCount + 1
	invoice.ReminderCount = stage
	if pct := stageSurchargePercent[stage]; pct > 0 {
		invoice.Amount = surcharged(invoice.OriginalAmount, pct)
	}

	if err := s.invoices.Update(ctx, invoice); err != nil {
		return false, err
	}
	if err := s.audit.Append(ctx, domain.ReminderAction(stage), domain.SystemActor, map[string]any{
		"invoice_id":   invoice.ID,
		"customer_id":  invoice.CustomerID,
		"stage":        stage,
		"amount":       invoice.Amount.String(),
		"days_overdue": daysOverdue,
	}); err != nil {
		return false, err
	}

	customerName := invoice.CustomerID
	if customer, err := s.customers.GetByID(ctx, invoice.CustomerID); err == nil {
		customerName = customer.Name
	}
	s.publish(ctx, events.Event{
		Type:    events.EventInvoiceReminder,
		ActorID: domain.SystemActor,
		Payload: events.InvoiceReminderPayload{
			InvoiceID:      invoice.ID,
			CustomerID:     invoice.CustomerID,
			CustomerName:   customerName,
			Stage:          stage,
			Amount:         invoice.Amount,
			OriginalAmount: invoice.OriginalAmount,
			DaysOverdue:    daysOverdue,
		},
	})
	s.metrics.RecordEscalation(stage)
	return true, nil
}

// Get returns an invoice by id.
func (s *InvoiceService) Get(ctx context.Context, id string) (*domain.Invoice, error) {
	return s.invoices.GetByID(ctx, id)
}

// List returns all invoices ordered by creation time.
func (s *InvoiceService) List(ctx context.Context) ([]domain.Invoice, error) {
	return s.invoices.List(ctx)
}

// ListByCustomer returns a customer's invoices ordered by creation time.
func (s *InvoiceService) ListByCustomer(ctx context.Context, customerID string) ([]domain.Invoice, error) {
	return s.invoices.ListByCustomer(ctx, customerID)
}

func (s *InvoiceService) publish(ctx context.Context, event events.Event) {
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

func surcharged(original decimal.Decimal, percent int64) decimal.Decimal {
	factor := decimal.NewFromInt(100 + percent).Div(decimal.NewFromInt(100))
	return original.Mul(factor).Round(2)
}
