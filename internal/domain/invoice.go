package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStage enumerates escalation stages of an invoice.
type InvoiceStage string

const (
	StageOpen      InvoiceStage = "OPEN"
	StageOverdueR1 InvoiceStage = "OVERDUE_R1"
	StageOverdueR2 InvoiceStage = "OVERDUE_R2"
	StageOverdueR3 InvoiceStage = "OVERDUE_R3"
	StagePaid      InvoiceStage = "PAID"
)

// Invoice is a premium demand issued against a customer file.
// Amount never drops below OriginalAmount; the reminder counter only
// moves forward. Invoices are never deleted.
type Invoice struct {
	ID             string          `json:"id"`
	CustomerID     string          `json:"customer_id"`
	OriginalAmount decimal.Decimal `json:"original_amount"`
	Amount         decimal.Decimal `json:"amount"`
	Paid           bool            `json:"paid"`
	DueDate        time.Time       `json:"due_date"`
	ReminderCount  int             `json:"reminder_count"`
	CreatedBy      string          `json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
	PaidBy         string          `json:"paid_by,omitempty"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
}

// Stage derives the escalation stage from the paid flag and reminder counter.
func (i Invoice) Stage() InvoiceStage {
	if i.Paid {
		return StagePaid
	}
	switch i.ReminderCount {
	case 1:
		return StageOverdueR1
	case 2:
		return StageOverdueR2
	case 3:
		return StageOverdueR3
	default:
		return StageOpen
	}
}
