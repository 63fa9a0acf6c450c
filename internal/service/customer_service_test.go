package service_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hbrp/insurance-bot/internal/domain"
	"github.com/hbrp/insurance-bot/internal/service"
	apperrors "github.com/hbrp/insurance-bot/pkg/util"
)

func TestCustomerCreate_FixesTotalMonthly(t *testing.T) {
	f := newFixture(t)

	customer := f.createCustomer(t)

	assert.Regexp(t, `^VN-26\d{6}$`, customer.ID)
	assert.Equal(t, "200", customer.TotalMonthly.String())
	assert.Equal(t, f.clock.Current, customer.CreatedAt)
	assert.Equal(t, "99", customer.CreatedBy)
}

func TestCustomerCreate_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input service.CustomerCreateInput
	}{
		{
			name:  "missing name",
			input: service.CustomerCreateInput{Products: []domain.InsuranceProduct{{Name: "KFZ", MonthlyPrice: decimal.NewFromInt(10)}}},
		},
		{
			name:  "no products",
			input: service.CustomerCreateInput{Name: "Max"},
		},
		{
			name: "zero price",
			input: service.CustomerCreateInput{
				Name:     "Max",
				Products: []domain.InsuranceProduct{{Name: "KFZ", MonthlyPrice: decimal.Zero}},
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.customers.Create(ctx, tc.input)
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
		})
	}
}

func TestCustomerCreate_WritesAuditEntry(t *testing.T) {
	f := newFixture(t)
	customer := f.createCustomer(t)

	entries, err := f.audit.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ActionCustomerCreated, entries[0].Action)
	assert.Equal(t, "99", entries[0].ActorID)
	assert.Equal(t, customer.ID, entries[0].Details["customer_id"])
}

func TestFindByDiscordUser(t *testing.T) {
	f := newFixture(t)
	customer := f.createCustomer(t)
	ctx := context.Background()

	found, err := f.customers.FindByDiscordUser(ctx, customer.DiscordUserID)
	require.NoError(t, err)
	assert.Equal(t, customer.ID, found.ID)

	_, err = f.customers.FindByDiscordUser(ctx, "does-not-exist")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}
