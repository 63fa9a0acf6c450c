package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hbrp/insurance-bot/internal/clock"
	"github.com/hbrp/insurance-bot/internal/domain"
	"github.com/hbrp/insurance-bot/internal/idgen"
	"github.com/hbrp/insurance-bot/internal/repository"
	"github.com/hbrp/insurance-bot/internal/service"
	"github.com/hbrp/insurance-bot/internal/store"
	apperrors "github.com/hbrp/insurance-bot/pkg/util"
)

// fixture wires the services against a real snapshot store in a temp
// directory, with a controllable clock.
type fixture struct {
	clock     *clock.Fixed
	store     *store.Store
	customers *service.CustomerService
	invoices  *service.InvoiceService
	tickets   *service.TicketService
	settings  *service.SettingsService
	audit     *service.AuditService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "state.json"), zap.NewNop())
	require.NoError(t, err)

	clk := &clock.Fixed{Current: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	ids := idgen.New()
	customerRepo := repository.NewCustomerRepository(st)
	invoiceRepo := repository.NewInvoiceRepository(st)
	auditService := service.NewAuditService(repository.NewAuditRepository(st), clk)

	return &fixture{
		tickets: service.NewTicketService(service.TicketDependencies{
			TicketRepo:   repository.NewTicketRepository(st),
			CustomerRepo: customerRepo,
			Audit:        auditService,
			Clock:        clk,
		}),
		settings: service.NewSettingsService(repository.NewSettingsRepository(st), auditService),
		clock: clk,
		store: st,
		customers: service.NewCustomerService(service.CustomerDependencies{
			CustomerRepo: customerRepo,
			Audit:        auditService,
			IDs:          ids,
			Clock:        clk,
		}),
		invoices: service.NewInvoiceService(service.InvoiceDependencies{
			InvoiceRepo:  invoiceRepo,
			CustomerRepo: customerRepo,
			Audit:        auditService,
			IDs:          ids,
			Clock:        clk,
			Logger:       zap.NewNop(),
			GracePeriod:  3 * 24 * time.Hour,
		}),
		audit: auditService,
	}
}

func (f *fixture) createCustomer(t *testing.T) *domain.Customer {
	t.Helper()
	customer, err := f.customers.Create(context.Background(), service.CustomerCreateInput{
		Name:          "Max Mustermann",
		DiscordUserID: "1001",
		Products: []domain.InsuranceProduct{
			{Name: "KFZ-Versicherung", MonthlyPrice: decimal.RequireFromString("120.00")},
			{Name: "Hausrat", MonthlyPrice: decimal.RequireFromString("80.00")},
		},
		Actor: "99",
	})
	require.NoError(t, err)
	return customer
}

func (f *fixture) issueInvoice(t *testing.T, customerID string) *domain.Invoice {
	t.Helper()
	invoice, err := f.invoices.Issue(context.Background(), service.IssueInput{
		CustomerID: customerID,
		Actor:      "99",
	})
	require.NoError(t, err)
	return invoice
}

func TestIssue_DefaultsToMonthlyTotal(t *testing.T) {
	f := newFixture(t)
	customer := f.createCustomer(t)

	invoice := f.issueInvoice(t, customer.ID)

	assert.Equal(t, "200", invoice.Amount.String())
	assert.True(t, invoice.Amount.Equal(invoice.OriginalAmount))
	assert.Equal(t, f.clock.Current.Add(3*24*time.Hour), invoice.DueDate)
	assert.Equal(t, domain.StageOpen, invoice.Stage())
}

func TestIssue_UnknownCustomerLeavesNoTrace(t *testing.T) {
	f := newFixture(t)

	_, err := f.invoices.Issue(context.Background(), service.IssueInput{
		CustomerID: "VN-26999999",
		Actor:      "99",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))

	invoices, err := f.invoices.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, invoices)

	entries, err := f.audit.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestIssue_RejectsNonPositiveAmount(t *testing.T) {
	f := newFixture(t)
	customer := f.createCustomer(t)

	_, err := f.invoices.Issue(context.Background(), service.IssueInput{
		CustomerID: customer.ID,
		Amount:     decimal.RequireFromString("-5"),
		Actor:      "99",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestPay_MarksPaidOnce(t *testing.T) {
	f := newFixture(t)
	customer := f.createCustomer(t)
	invoice := f.issueInvoice(t, customer.ID)

	paid, err := f.invoices.Pay(context.Background(), invoice.ID, "55", "guild-1")
	require.NoError(t, err)
	assert.True(t, paid.Paid)
	assert.Equal(t, "55", paid.PaidBy)
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, domain.StagePaid, paid.Stage())

	// Paying again is rejected and leaves the first payment untouched.
	f.clock.Advance(time.Hour)
	_, err = f.invoices.Pay(context.Background(), invoice.ID, "77", "guild-1")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "ALREADY_PAID"))

	reloaded, err := f.invoices.Get(context.Background(), invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, "55", reloaded.PaidBy)
	assert.Equal(t, *paid.PaidAt, *reloaded.PaidAt)
}

func TestSweep_EscalatesThroughAllStages(t *testing.T) {
	f := newFixture(t)
	customer := f.createCustomer(t)
	invoice := f.issueInvoice(t, customer.ID)
	ctx := context.Background()

	// Not yet due: nothing happens.
	result, err := f.invoices.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, service.SweepResult{Scanned: 1}, result)

	// Due date reached (0 days overdue): first reminder, no surcharge.
	f.clock.Advance(3 * 24 * time.Hour)
	result, err = f.invoices.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Escalated)

	current, err := f.invoices.Get(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, current.ReminderCount)
	assert.Equal(t, "200", current.Amount.String())
	assert.Equal(t, domain.StageOverdueR1, current.Stage())

	// One day later: second reminder, 5% on the original amount.
	f.clock.Advance(24 * time.Hour)
	_, err = f.invoices.Sweep(ctx)
	require.NoError(t, err)

	current, err = f.invoices.Get(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, current.ReminderCount)
	assert.Equal(t, "210", current.Amount.String())

	// Another day: third reminder, 10% on the original, not cumulative.
	f.clock.Advance(24 * time.Hour)
	_, err = f.invoices.Sweep(ctx)
	require.NoError(t, err)

	current, err = f.invoices.Get(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, current.ReminderCount)
	assert.Equal(t, "220", current.Amount.String())
	assert.Equal(t, "200", current.OriginalAmount.String())
	assert.Equal(t, domain.StageOverdueR3, current.Stage())

	// Beyond the third reminder nothing changes anymore.
	f.clock.Advance(24 * time.Hour)
	result, err = f.invoices.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Escalated)

	current, err = f.invoices.Get(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, current.ReminderCount)
	assert.Equal(t, "220", current.Amount.String())
}

func TestSweep_SameDayRunsEscalateOnce(t *testing.T) {
	f := newFixture(t)
	customer := f.createCustomer(t)
	f.issueInvoice(t, customer.ID)
	ctx := context.Background()

	f.clock.Advance(3 * 24 * time.Hour)
	result, err := f.invoices.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Escalated)

	// A second run on the same day finds counter and day out of step.
	result, err = f.invoices.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Escalated)
}

func TestSweep_MissedDayFreezesStage(t *testing.T) {
	f := newFixture(t)
	customer := f.createCustomer(t)
	invoice := f.issueInvoice(t, customer.ID)
	ctx := context.Background()

	f.clock.Advance(3 * 24 * time.Hour)
	_, err := f.invoices.Sweep(ctx)
	require.NoError(t, err)

	// The day-1 sweep never ran; on day 2 the counter no longer lines
	// up and the invoice stays at the first reminder.
	f.clock.Advance(2 * 24 * time.Hour)
	result, err := f.invoices.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Escalated)

	current, err := f.invoices.Get(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, current.ReminderCount)
	assert.Equal(t, "200", current.Amount.String())
}

func TestSweep_IgnoresPaidInvoices(t *testing.T) {
	f := newFixture(t)
	customer := f.createCustomer(t)
	invoice := f.issueInvoice(t, customer.ID)
	ctx := context.Background()

	_, err := f.invoices.Pay(ctx, invoice.ID, "55", "")
	require.NoError(t, err)

	f.clock.Advance(3 * 24 * time.Hour)
	result, err := f.invoices.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, service.SweepResult{}, result)

	current, err := f.invoices.Get(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, current.ReminderCount)
}

func TestSweep_WritesSystemAuditEntries(t *testing.T) {
	f := newFixture(t)
	customer := f.createCustomer(t)
	f.issueInvoice(t, customer.ID)
	ctx := context.Background()

	f.clock.Advance(3 * 24 * time.Hour)
	_, err := f.invoices.Sweep(ctx)
	require.NoError(t, err)
	f.clock.Advance(24 * time.Hour)
	_, err = f.invoices.Sweep(ctx)
	require.NoError(t, err)

	entries, err := f.audit.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.ActionReminder2, entries[0].Action)
	assert.Equal(t, domain.ActionReminder1, entries[1].Action)
	assert.Equal(t, domain.SystemActor, entries[0].ActorID)
}
