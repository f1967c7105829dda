package order

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
	// ErrOrderIsNotConstructed is returned when an Order was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrOrderIsLocked is the cause attached to edits rejected on a locked order.
	ErrOrderIsLocked = errors.New("order is locked")

	ErrNumberIsRequired = errs.NewValueIsRequiredError("order number")
	ErrItemsAreRequired = errs.NewValueIsRequiredError("order items")
)

// itemsEdit names the item replacement in transition errors.
type itemsEdit struct{}

func (itemsEdit) String() string { return "EDIT ITEMS" }

// Order is the aggregate root of the distribution workflow. It belongs to one
// route and one salesman and owns its item lines.
//
// Order follows these invariants:
//   - Must have a valid identifier, number, route, salesman and order date
//   - Holds at least one item and at most one item per product
//   - Status only moves forward along the lifecycle (see Status)
//   - Once Invoiced or Flagged the order is locked and items cannot change
//
// Child records (delivery, acknowledgement, verification, invoice) live in
// their own packages and reference the order by id.
type Order struct {
	id         kernel.UUID
	number     string
	routeID    kernel.UUID
	salesmanID kernel.UUID
	orderDate  kernel.Date
	status     Status
	isLocked   bool
	items      []Item
	createdAt  time.Time

	guard guard.ConstructorGuard
}

// NewOrder creates an order in Created status with the given lines.
//
// Example:
//
//	item, _ := order.NewItem(kernel.NewUUID(), breadID, 10)
//	o, err := order.NewOrder(id, order.NewNumber(today, 3, id), routeID, salesmanID, today, []order.Item{item}, now)
func NewOrder(
	id kernel.UUID,
	number string,
	routeID, salesmanID kernel.UUID,
	orderDate kernel.Date,
	items []Item,
	createdAt time.Time,
) (*Order, error) {
	return RestoreOrder(id, number, routeID, salesmanID, orderDate, Created, false, items, createdAt)
}

// RestoreOrder reconstructs an Order from persistence.
//
// Business Rules:
//   - all NewOrder rules apply
//   - status must be valid
//   - terminal orders are always reported as locked
func RestoreOrder(
	id kernel.UUID,
	number string,
	routeID, salesmanID kernel.UUID,
	orderDate kernel.Date,
	status Status,
	isLocked bool,
	items []Item,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		isLocked:  isLocked || status.IsTerminal(),
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		routeID.Validate(),
		salesmanID.Validate(),
		orderDate.Validate(),
		status.Validate(),
		o.setItems(items),
	); err != nil {
		return nil, err
	}

	o.routeID = routeID
	o.salesmanID = salesmanID
	o.orderDate = orderDate
	o.status = status
	return o, nil
}

// NewNumber builds the human readable order number ORD-YYYYMMDD-R<route>-<8 hex>.
// The suffix comes from the order id so numbers are unique per order.
func NewNumber(date kernel.Date, routeNumber int, id kernel.UUID) string {
	raw := id.Bytes()
	return fmt.Sprintf("ORD-%s-R%d-%X", date.Compact(), routeNumber, raw[:4])
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by their identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) Number() string {
	return o.number
}

func (o *Order) RouteID() kernel.UUID {
	return o.routeID
}

func (o *Order) SalesmanID() kernel.UUID {
	return o.salesmanID
}

func (o *Order) OrderDate() kernel.Date {
	return o.orderDate
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) IsLocked() bool {
	return o.isLocked
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

// Item returns the line for productID.
func (o *Order) Item(productID kernel.UUID) (Item, bool) {
	for _, item := range o.items {
		if item.productID.IsEqual(productID) {
			return item, true
		}
	}
	return Item{}, false
}

// TotalQuantity sums the ordered quantity over all lines.
func (o *Order) TotalQuantity() int {
	total := 0
	for _, item := range o.items {
		total += item.quantity
	}
	return total
}

// IsOwnedBy reports whether userID is the salesman who placed the order.
func (o *Order) IsOwnedBy(userID kernel.UUID) bool {
	return o.salesmanID.IsEqual(userID)
}

// Dispatch moves the order to Dispatched.
func (o *Order) Dispatch() error {
	return o.apply(o.status.Dispatch)
}

// Acknowledge moves the order to Acknowledged.
func (o *Order) Acknowledge() error {
	return o.apply(o.status.Acknowledge)
}

// Verify moves the order to Verified, or to Flagged when flagged is set.
func (o *Order) Verify(flagged bool) error {
	return o.apply(func() (Status, error) { return o.status.Verify(flagged) })
}

// Invoice moves the order to Invoiced and locks it.
func (o *Order) Invoice() error {
	return o.apply(o.status.Invoice)
}

// CheckItemsEditable reports whether the order lines may still change. Only
// unlocked orders in Created status accept edits; anything else is an
// InvalidStateTransitionError.
func (o *Order) CheckItemsEditable() error {
	return CheckItemsEditable(o.status, o.isLocked)
}

// CheckItemsEditable applies the item edit rule to a bare status and lock flag,
// as read from storage.
func CheckItemsEditable(status Status, locked bool) error {
	switch {
	case locked:
		return errs.NewInvalidStateTransitionErrorWithCause(status, itemsEdit{}, ErrOrderIsLocked)
	case status != Created:
		return errs.NewInvalidStateTransitionError(status, itemsEdit{})
	}
	return nil
}

// ReplaceItems swaps the order lines after CheckItemsEditable passes.
func (o *Order) ReplaceItems(items []Item) error {
	if err := o.CheckItemsEditable(); err != nil {
		return err
	}
	return o.setItems(items)
}

func (o *Order) apply(transition func() (Status, error)) error {
	next, err := transition()
	if err != nil {
		return err
	}

	o.status = next
	if next.IsTerminal() {
		o.isLocked = true
	}
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(number string) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return ErrNumberIsRequired
	}
	o.number = number
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}

	seen := make(map[kernel.UUID]struct{}, len(items))
	for _, item := range items {
		if item.quantity <= 0 {
			return errs.NewValueIsInvalidErrorWithCause("order items", errors.New("item was not created via NewItem"))
		}
		if _, dup := seen[item.productID]; dup {
			return errs.NewValueIsInvalidErrorWithCause(
				"order items",
				fmt.Errorf("product %s appears more than once", item.productID),
			)
		}
		seen[item.productID] = struct{}{}
	}

	o.items = make([]Item, len(items))
	copy(o.items, items)
	return nil
}
