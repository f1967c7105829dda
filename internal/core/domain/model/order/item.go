package order

import (
	"errors"
	"fmt"

	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/pkg/errs"
)

// Item is one ordered product line.
type Item struct {
	id        kernel.UUID
	productID kernel.UUID
	quantity  int
}

// NewItem creates an order line. Quantity must be positive.
func NewItem(id, productID kernel.UUID, quantity int) (Item, error) {
	if err := errors.Join(id.Validate(), productID.Validate()); err != nil {
		return Item{}, err
	}
	if quantity <= 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause(
			"ordered quantity",
			fmt.Errorf("%d is not greater than 0", quantity),
		)
	}
	return Item{id: id, productID: productID, quantity: quantity}, nil
}

func (i Item) ID() kernel.UUID {
	return i.id
}

func (i Item) ProductID() kernel.UUID {
	return i.productID
}

func (i Item) Quantity() int {
	return i.quantity
}
