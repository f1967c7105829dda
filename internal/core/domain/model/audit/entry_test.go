package audit_test

import (
	"testing"
	"time"

	"bakery/internal/core/domain/model/audit"
	"bakery/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	userID := kernel.NewUUID()
	recordID := kernel.NewUUID()

	t.Run("should record the change", func(t *testing.T) {
		e, err := audit.NewEntry(&userID, audit.ActionDispatchOrder, "orders", &recordID,
			audit.Values{"status": "CREATED"}, audit.Values{"status": "DISPATCHED"},
			audit.Client{IPAddress: "10.0.0.1"}, time.Now())

		require.NoError(t, err)
		require.NoError(t, e.ID().Validate())
		assert.Equal(t, "DISPATCHED", e.NewValues()["status"])
		assert.Equal(t, "10.0.0.1", e.Client().IPAddress)
	})

	t.Run("should require an action", func(t *testing.T) {
		_, err := audit.NewEntry(&userID, " ", "orders", nil, nil, nil, audit.Client{}, time.Now())

		require.ErrorIs(t, err, audit.ErrActionIsRequired)
	})

	t.Run("should reject zero ids", func(t *testing.T) {
		zero := kernel.UUID{}
		_, err := audit.NewEntry(&zero, audit.ActionCreateOrder, "orders", nil, nil, nil, audit.Client{}, time.Now())

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})
}

func TestClientContext(t *testing.T) {
	ctx := audit.WithClient(t.Context(), audit.Client{IPAddress: "192.0.2.4", UserAgent: "curl/8"})

	assert.Equal(t, "curl/8", audit.ClientFrom(ctx).UserAgent)
	assert.Empty(t, audit.ClientFrom(t.Context()).IPAddress)
}
