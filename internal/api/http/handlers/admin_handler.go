package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/hbrp/insurance-bot/internal/api/dto"
	"github.com/hbrp/insurance-bot/internal/domain"
	"github.com/hbrp/insurance-bot/internal/service"
	apperrors "github.com/hbrp/insurance-bot/pkg/util"
)

// AdminHandler serves the read-only admin endpoints.
type AdminHandler struct {
	auth      *service.AuthService
	customers *service.CustomerService
	invoices  *service.InvoiceService
	audit     *service.AuditService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(auth *service.AuthService, customers *service.CustomerService, invoices *service.InvoiceService, audit *service.AuditService) *AdminHandler {
	return &AdminHandler{auth: auth, customers: customers, invoices: invoices, audit: audit}
}

// Login POST /auth/login.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}
	token, expiresAt, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{Token: token, ExpiresAt: expiresAt}})
}

// ListCustomers GET /api/customers.
func (h *AdminHandler) ListCustomers(c *fiber.Ctx) error {
	customers, err := h.customers.List(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.CustomerSummary, 0, len(customers))
	for i := range customers {
		items = append(items, customerSummary(&customers[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetCustomer GET /api/customers/:id.
func (h *AdminHandler) GetCustomer(c *fiber.Ctx) error {
	customer, err := h.customers.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	invoices, err := h.invoices.ListByCustomer(c.Context(), customer.ID)
	if err != nil {
		return err
	}
	invoiceItems := make([]dto.InvoiceSummary, 0, len(invoices))
	for i := range invoices {
		invoiceItems = append(invoiceItems, invoiceSummary(&invoices[i]))
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"customer": customerSummary(customer),
		"invoices": invoiceItems,
	}})
}

// ListInvoices GET /api/invoices.
func (h *AdminHandler) ListInvoices(c *fiber.Ctx) error {
	invoices, err := h.invoices.List(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.InvoiceSummary, 0, len(invoices))
	for i := range invoices {
		items = append(items, invoiceSummary(&invoices[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListLogs GET /api/logs?limit=.
func (h *AdminHandler) ListLogs(c *fiber.Ctx) error {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return apperrors.NewValidationError("limit must be a positive integer", nil)
		}
		limit = parsed
	}
	entries, err := h.audit.Recent(c.Context(), limit)
	if err != nil {
		return err
	}
	items := make([]dto.AuditEntrySummary, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.AuditEntrySummary{
			Timestamp: entry.Timestamp,
			Action:    string(entry.Action),
			ActorID:   entry.ActorID,
			Details:   entry.Details,
		})
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"data": items})
}

func customerSummary(customer *domain.Customer) dto.CustomerSummary {
	products := make([]dto.ProductSummary, 0, len(customer.Products))
	for _, product := range customer.Products {
		products = append(products, dto.ProductSummary{
			Name:         product.Name,
			MonthlyPrice: product.MonthlyPrice.StringFixed(2),
		})
	}
	return dto.CustomerSummary{
		ID:            customer.ID,
		Name:          customer.Name,
		DiscordUserID: customer.DiscordUserID,
		HBPayID:       customer.HBPayID,
		EconomyID:     customer.EconomyID,
		Products:      products,
		TotalMonthly:  customer.TotalMonthly.StringFixed(2),
		CreatedAt:     customer.CreatedAt,
	}
}

func invoiceSummary(invoice *domain.Invoice) dto.InvoiceSummary {
	return dto.InvoiceSummary{
		ID:             invoice.ID,
		CustomerID:     invoice.CustomerID,
		OriginalAmount: invoice.OriginalAmount.StringFixed(2),
		Amount:         invoice.Amount.StringFixed(2),
		Stage:          string(invoice.Stage()),
		Paid:           invoice.Paid,
		DueDate:        invoice.DueDate,
		ReminderCount:  invoice.ReminderCount,
		CreatedAt:      invoice.CreatedAt,
		PaidAt:         invoice.PaidAt,
	}
}
