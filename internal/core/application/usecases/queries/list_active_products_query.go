package queries

import (
	"context"
	"errors"

	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/pkg/errs"
	"bakery/internal/pkg/guard"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrListActiveProductsQueryIsNotConstructed = errors.New(
	"ListActiveProductsQuery must be created via NewListActiveProductsQuery constructor",
)

// ListActiveProductsQuery lists the catalogue offered on the order form.
type ListActiveProductsQuery struct {
	guard guard.ConstructorGuard
}

func NewListActiveProductsQuery() ListActiveProductsQuery {
	return ListActiveProductsQuery{guard: guard.NewConstructorGuard()}
}

func (q ListActiveProductsQuery) Validate() error {
	return q.guard.Validate(ErrListActiveProductsQueryIsNotConstructed)
}

type ProductView struct {
	ID          kernel.UUID
	Code        string
	Name        string
	Description string
	UnitPrice   decimal.Decimal
}

type ListActiveProductsQueryHandler struct {
	db *gorm.DB
}

func NewListActiveProductsQueryHandler(db *gorm.DB) ListActiveProductsQueryHandler {
	return ListActiveProductsQueryHandler{db: db}
}

// Handle returns active products sorted by name.
func (h ListActiveProductsQueryHandler) Handle(
	ctx context.Context,
	query ListActiveProductsQuery,
) ([]ProductView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	products, err := h.list(ctx)
	if err != nil {
		return nil, errs.Classify(backend, err)
	}
	return products, nil
}

func (h ListActiveProductsQueryHandler) list(ctx context.Context) ([]ProductView, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, product_code, product_name, description, unit_price
		FROM products
		WHERE is_active
		ORDER BY product_name, product_code
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]ProductView, 0)
	for rows.Next() {
		var (
			p  ProductView
			id uuid.UUID
		)
		if err = rows.Scan(&id, &p.Code, &p.Name, &p.Description, &p.UnitPrice); err != nil {
			return nil, err
		}
		if p.ID, err = idFrom(id); err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}
