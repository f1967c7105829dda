// Package ports defines the contracts between the bakery workflow core and its
// infrastructure: repositories, the unit of work, the identity provider and
// invoice file storage.
package ports

import (
	"context"

	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order with its items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order with its items.
	// Returns an ObjectNotFoundError when the order does not exist.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ReplaceItems overwrites the stored item lines with the aggregate's lines.
	// The write only happens while the stored order is still CREATED and unlocked;
	// otherwise an InvalidStateTransitionError is returned.
	ReplaceItems(ctx context.Context, aggregate *order.Order) error

	// CompareAndSetStatus moves the order from one status to another in a single
	// statement guarded by the expected current status. locked is stored with the
	// new status. When no row matches, an InvalidStateTransitionError is returned
	// so a concurrent writer can never be overwritten.
	CompareAndSetStatus(ctx context.Context, id kernel.UUID, from, to order.Status, locked bool) error

	// CountPendingAcknowledgements counts the salesman's orders whose delivery
	// is DISPATCHED and not yet acknowledged.
	CountPendingAcknowledgements(ctx context.Context, salesmanID kernel.UUID) (int, error)
}
