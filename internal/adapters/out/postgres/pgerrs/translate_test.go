package pgerrs_test

import (
	"errors"
	"fmt"
	"testing"

	"bakery/internal/adapters/out/postgres/pgerrs"
	"bakery/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTranslate(t *testing.T) {
	t.Run("pg unique violation becomes already processed", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: pgerrs.UniqueViolation, ConstraintName: "idx_verifications_delivery_id"}
		err := pgerrs.Translate(fmt.Errorf("insert: %w", pgErr), "verifications", "delivery_id=1")

		require.ErrorIs(t, err, errs.ErrAlreadyProcessed)
		require.ErrorIs(t, err, errs.ErrInvalidPayload)
	})

	t.Run("gorm duplicated key becomes already processed", func(t *testing.T) {
		err := pgerrs.Translate(gorm.ErrDuplicatedKey, "routes", "route_number=4")
		require.ErrorIs(t, err, errs.ErrAlreadyProcessed)
	})

	t.Run("other pg errors pass through", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "40001"}
		err := pgerrs.Translate(pgErr, "orders", "id=1")
		assert.Same(t, pgErr, err)
	})

	t.Run("nil stays nil", func(t *testing.T) {
		require.NoError(t, pgerrs.Translate(nil, "orders", "id=1"))
	})
}

func TestNotFound(t *testing.T) {
	require.ErrorIs(t, pgerrs.NotFound(gorm.ErrRecordNotFound, "order", "1"), errs.ErrObjectNotFound)

	other := errors.New("timeout")
	assert.Equal(t, other, pgerrs.NotFound(other, "order", "1"))
}
