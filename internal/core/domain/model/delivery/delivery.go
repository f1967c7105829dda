package delivery

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/pkg/errs"
	"bakery/internal/pkg/guard"
)

var (
	ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewDispatchedDelivery or RestoreDelivery")
	ErrItemsAreRequired         = errs.NewValueIsRequiredError("delivery items")
)

// Delivery is the factory's shipment against exactly one order. It is created
// when the order is dispatched and follows the order through acknowledgement
// and verification.
type Delivery struct {
	id           kernel.UUID
	orderID      kernel.UUID
	dispatchedBy kernel.UUID
	dispatchDate kernel.Date
	dispatchedAt time.Time
	status       Status
	notes        string
	items        []Item

	guard guard.ConstructorGuard
}

// NewDispatchedDelivery creates a delivery in Dispatched status. dispatchedAt
// is interpreted in its own location to derive the dispatch date.
func NewDispatchedDelivery(
	id, orderID, dispatchedBy kernel.UUID,
	dispatchedAt time.Time,
	items []Item,
	notes string,
) (*Delivery, error) {
	return RestoreDelivery(id, orderID, dispatchedBy, kernel.DateOf(dispatchedAt), dispatchedAt, Dispatched, notes, items)
}

func RestoreDelivery(
	id, orderID, dispatchedBy kernel.UUID,
	dispatchDate kernel.Date,
	dispatchedAt time.Time,
	status Status,
	notes string,
	items []Item,
) (*Delivery, error) {
	d := &Delivery{
		dispatchedAt: dispatchedAt,
		notes:        strings.TrimSpace(notes),
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		dispatchedBy.Validate(),
		dispatchDate.Validate(),
		status.Validate(),
		d.setItems(items),
	); err != nil {
		return nil, err
	}

	d.id = id
	d.orderID = orderID
	d.dispatchedBy = dispatchedBy
	d.dispatchDate = dispatchDate
	d.status = status
	return d, nil
}

func (d *Delivery) Validate() error {
	if d == nil {
		return ErrDeliveryIsNotConstructed
	}
	return d.guard.Validate(ErrDeliveryIsNotConstructed)
}

func (d *Delivery) ID() kernel.UUID {
	return d.id
}

func (d *Delivery) OrderID() kernel.UUID {
	return d.orderID
}

func (d *Delivery) DispatchedBy() kernel.UUID {
	return d.dispatchedBy
}

func (d *Delivery) DispatchDate() kernel.Date {
	return d.dispatchDate
}

func (d *Delivery) DispatchedAt() time.Time {
	return d.dispatchedAt
}

func (d *Delivery) Status() Status {
	return d.status
}

func (d *Delivery) Notes() string {
	return d.notes
}

func (d *Delivery) Items() []Item {
	items := make([]Item, len(d.items))
	copy(items, d.items)
	return items
}

// Variances returns the variance of every line keyed by product.
func (d *Delivery) Variances() map[kernel.UUID]int {
	out := make(map[kernel.UUID]int, len(d.items))
	for _, item := range d.items {
		out[item.productID] = item.Variance()
	}
	return out
}

// HasVariance reports whether any line was delivered short or over.
func (d *Delivery) HasVariance() bool {
	for _, item := range d.items {
		if item.Variance() != 0 {
			return true
		}
	}
	return false
}

func (d *Delivery) Acknowledge() error {
	next, err := d.status.Acknowledge()
	if err != nil {
		return err
	}
	d.status = next
	return nil
}

func (d *Delivery) Verify(flagged bool) error {
	next, err := d.status.Verify(flagged)
	if err != nil {
		return err
	}
	d.status = next
	return nil
}

func (d *Delivery) setItems(items []Item) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}

	seen := make(map[kernel.UUID]struct{}, len(items))
	for _, item := range items {
		if err := item.id.Validate(); err != nil {
			return err
		}
		if _, dup := seen[item.productID]; dup {
			return errs.NewValueIsInvalidErrorWithCause(
				"delivery items",
				fmt.Errorf("product %s appears more than once", item.productID),
			)
		}
		seen[item.productID] = struct{}{}
	}

	d.items = make([]Item, len(items))
	copy(d.items, items)
	return nil
}
