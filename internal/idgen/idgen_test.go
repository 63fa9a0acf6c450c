package idgen_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hbrp/insurance-bot/internal/idgen"
)

var (
	customerIDPattern = regexp.MustCompile(`^VN-26\d{6}$`)
	invoiceIDPattern  = regexp.MustCompile(`^RG-2603-[A-Z0-9]{4}$`)
)

func testTime() time.Time {
	return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
}

func TestCustomerID_Format(t *testing.T) {
	g := idgen.New()

	for i := 0; i < 50; i++ {
		id, err := g.CustomerID(testTime(), nil)
		require.NoError(t, err)
		assert.Regexp(t, customerIDPattern, id)
	}
}

func TestInvoiceID_Format(t *testing.T) {
	g := idgen.New()

	for i := 0; i < 50; i++ {
		id, err := g.InvoiceID(testTime(), nil)
		require.NoError(t, err)
		assert.Regexp(t, invoiceIDPattern, id)
	}
}

func TestCustomerID_RetriesOnCollision(t *testing.T) {
	g := idgen.New()

	rejected := 0
	id, err := g.CustomerID(testTime(), func(candidate string) bool {
		// Reject the first three candidates as already taken.
		if rejected < 3 {
			rejected++
			return true
		}
		return false
	})
	require.NoError(t, err)
	assert.Equal(t, 3, rejected)
	assert.Regexp(t, customerIDPattern, id)
}

func TestCustomerID_FailsWhenExhausted(t *testing.T) {
	g := idgen.New()

	_, err := g.CustomerID(testTime(), func(string) bool { return true })
	assert.Error(t, err)
}

func TestInvoiceID_FailsWhenExhausted(t *testing.T) {
	g := idgen.New()

	_, err := g.InvoiceID(testTime(), func(string) bool { return true })
	assert.Error(t, err)
}
