package store_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hbrp/insurance-bot/internal/domain"
	"github.com/hbrp/insurance-bot/internal/store"
	apperrors "github.com/hbrp/insurance-bot/pkg/util"
)

func tempStorePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "state.json")
}

func TestOpen_MissingFileStartsEmpty(t *testing.T) {
	st, err := store.Open(tempStorePath(t), zap.NewNop())
	require.NoError(t, err)

	st.View(func(state *store.State) {
		assert.Empty(t, state.Customers)
		assert.Empty(t, state.Invoices)
		assert.Empty(t, state.Logs)
	})
}

func TestOpen_CorruptFileFails(t *testing.T) {
	path := tempStorePath(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := store.Open(path, zap.NewNop())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "CORRUPT_DATA"))
}

func TestUpdate_PersistsAndReloads(t *testing.T) {
	path := tempStorePath(t)
	st, err := store.Open(path, zap.NewNop())
	require.NoError(t, err)

	customer := domain.Customer{
		ID:            "VN-26123456",
		Name:          "Max Mustermann",
		DiscordUserID: "1001",
		TotalMonthly:  decimal.RequireFromString("149.99"),
		CreatedAt:     time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, st.Update(func(state *store.State) error {
		state.Customers[customer.ID] = customer
		return nil
	}))

	reopened, err := store.Open(path, zap.NewNop())
	require.NoError(t, err)
	reopened.View(func(state *store.State) {
		loaded, ok := state.Customers[customer.ID]
		require.True(t, ok)
		assert.Equal(t, customer.Name, loaded.Name)
		assert.True(t, customer.TotalMonthly.Equal(loaded.TotalMonthly))
	})
}

func TestUpdate_ErrorLeavesFileUntouched(t *testing.T) {
	path := tempStorePath(t)
	st, err := store.Open(path, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, st.Update(func(state *store.State) error {
		state.Customers["VN-26000001"] = domain.Customer{ID: "VN-26000001", Name: "Erste"}
		return nil
	}))

	failErr := apperrors.NewValidationError("boom", nil)
	err = st.Update(func(state *store.State) error {
		return failErr
	})
	require.ErrorIs(t, err, failErr)

	reopened, err := store.Open(path, zap.NewNop())
	require.NoError(t, err)
	reopened.View(func(state *store.State) {
		assert.Len(t, state.Customers, 1)
	})
}

func TestOpen_NormalizesOlderSnapshots(t *testing.T) {
	path := tempStorePath(t)
	// Snapshot from a deployment that only knew customers, invoices and logs.
	require.NoError(t, os.WriteFile(path, []byte(`{"customers":{},"invoices":{},"logs":[]}`), 0o644))

	st, err := store.Open(path, zap.NewNop())
	require.NoError(t, err)
	st.View(func(state *store.State) {
		assert.NotNil(t, state.Tickets)
		assert.NotNil(t, state.Settings)
	})
}

func TestUpdate_AuditLogIsAppendOnly(t *testing.T) {
	path := tempStorePath(t)
	st, err := store.Open(path, zap.NewNop())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, st.Update(func(state *store.State) error {
			state.Logs = append(state.Logs, domain.AuditEntry{
				Timestamp: time.Date(2026, 2, 1, 10, i, 0, 0, time.UTC),
				Action:    domain.ActionCustomerCreated,
				ActorID:   "42",
				Details:   map[string]any{"n": i},
			})
			return nil
		}))
	}

	reopened, err := store.Open(path, zap.NewNop())
	require.NoError(t, err)
	reopened.View(func(state *store.State) {
		require.Len(t, state.Logs, 3)
		for i, entry := range state.Logs {
			assert.Equal(t, i, int(entry.Details["n"].(float64)))
		}
	})
}
