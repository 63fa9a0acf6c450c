package dto

import "time"

// LoginRequest carries admin credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse returns the issued token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ProductSummary is one insured product with its monthly premium.
type ProductSummary struct {
	Name         string `json:"name"`
	MonthlyPrice string `json:"monthly_price"`
}

// CustomerSummary is the read model for a customer file.
type CustomerSummary struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	DiscordUserID string           `json:"discord_user_id"`
	HBPayID       string           `json:"hbpay_id"`
	EconomyID     string           `json:"economy_id"`
	Products      []ProductSummary `json:"products"`
	TotalMonthly  string           `json:"total_monthly_price"`
	CreatedAt     time.Time        `json:"created_at"`
}

// InvoiceSummary is the read model for an invoice.
type InvoiceSummary struct {
	ID             string     `json:"id"`
	CustomerID     string     `json:"customer_id"`
	OriginalAmount string     `json:"original_amount"`
	Amount         string     `json:"amount"`
	Stage          string     `json:"stage"`
	Paid           bool       `json:"paid"`
	DueDate        time.Time  `json:"due_date"`
	ReminderCount  int        `json:"reminder_count"`
	CreatedAt      time.Time  `json:"created_at"`
	PaidAt         *time.Time `json:"paid_at,omitempty"`
}

// AuditEntrySummary is the read model for one audit log entry.
type AuditEntrySummary struct {
	Timestamp time.Time      `json:"timestamp"`
	Action    string         `json:"action"`
	ActorID   string         `json:"actor_id"`
	Details   map[string]any `json:"details"`
}
