package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InsuranceProduct is a named policy with a fixed monthly premium.
type InsuranceProduct struct {
	Name         string          `json:"name"`
	MonthlyPrice decimal.Decimal `json:"monthly_price"`
}

// Customer is an insured member's file. Fields are fixed at creation;
// the total monthly price is the product sum at that time and is not
// recomputed if product pricing changes later.
type Customer struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	DiscordUserID string             `json:"discord_user_id"`
	HBPayID       string             `json:"hbpay_id"`
	EconomyID     string             `json:"economy_id"`
	Products      []InsuranceProduct `json:"products"`
	TotalMonthly  decimal.Decimal    `json:"total_monthly_price"`
	CreatedBy     string             `json:"created_by"`
	CreatedAt     time.Time          `json:"created_at"`
}

// TotalOf sums the monthly prices of the given products.
func TotalOf(products []InsuranceProduct) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.MonthlyPrice)
	}
	return total
}
