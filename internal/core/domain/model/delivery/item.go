package delivery

import (
	"errors"
	"fmt"

	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/pkg/errs"
)

// Item records what was actually sent for one ordered product.
type Item struct {
	id                kernel.UUID
	productID         kernel.UUID
	orderedQuantity   int
	deliveredQuantity int
}

// NewItem creates a delivery line. Both quantities must be non-negative;
// a difference between them is recorded as variance, not rejected.
func NewItem(id, productID kernel.UUID, ordered, delivered int) (Item, error) {
	if err := errors.Join(id.Validate(), productID.Validate()); err != nil {
		return Item{}, err
	}
	if ordered < 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("ordered quantity", fmt.Errorf("%d is negative", ordered))
	}
	if delivered < 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("delivered quantity", fmt.Errorf("%d is negative", delivered))
	}
	return Item{id: id, productID: productID, orderedQuantity: ordered, deliveredQuantity: delivered}, nil
}

func (i Item) ID() kernel.UUID {
	return i.id
}

func (i Item) ProductID() kernel.UUID {
	return i.productID
}

func (i Item) OrderedQuantity() int {
	return i.orderedQuantity
}

func (i Item) DeliveredQuantity() int {
	return i.deliveredQuantity
}

// Variance is delivered minus ordered. Negative means short delivery.
func (i Item) Variance() int {
	return i.deliveredQuantity - i.orderedQuantity
}
