package product_test

import (
	"testing"

	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/product"
	"bakery/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	t.Run("should normalise code and round price", func(t *testing.T) {
		p, err := product.NewProduct(kernel.NewUUID(), " brd-01 ", "White bread", "", decimal.RequireFromString("12.505"))

		require.NoError(t, err)
		assert.Equal(t, "BRD-01", p.Code())
		assert.Equal(t, "12.51", p.UnitPrice().StringFixed(2))
		assert.True(t, p.IsActive())
	})

	t.Run("should reject negative prices", func(t *testing.T) {
		_, err := product.NewProduct(kernel.NewUUID(), "BRD-01", "White bread", "", decimal.NewFromInt(-1))

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should require code and name", func(t *testing.T) {
		_, err := product.NewProduct(kernel.NewUUID(), "", "", "", decimal.Zero)

		require.ErrorIs(t, err, product.ErrCodeIsRequired)
		require.ErrorIs(t, err, product.ErrNameIsRequired)
	})
}

func TestProduct_LineTotal(t *testing.T) {
	p, err := product.NewProduct(kernel.NewUUID(), "BUN", "Bun", "", decimal.RequireFromString("2.25"))
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("22.50").Equal(p.LineTotal(10)))
}
