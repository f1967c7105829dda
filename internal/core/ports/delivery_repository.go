package ports

import (
	"context"

	"bakery/internal/core/domain/model/delivery"
	"bakery/internal/core/domain/model/kernel"
)

// DeliveryRepository persists deliveries and the one-per-delivery records that
// follow them. Uniqueness of the delivery per order, and of the acknowledgement
// and verification per delivery, is enforced by the store and reported as an
// AlreadyProcessedError.
type DeliveryRepository interface {
	// Add persists a delivery with its items.
	Add(ctx context.Context, aggregate *delivery.Delivery) error

	// GetByOrder returns the order's delivery or an ObjectNotFoundError.
	GetByOrder(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error)

	// ExistsForOrder reports whether the order already has a delivery.
	ExistsForOrder(ctx context.Context, orderID kernel.UUID) (bool, error)

	// CompareAndSetStatus works like OrderRepository.CompareAndSetStatus.
	CompareAndSetStatus(ctx context.Context, id kernel.UUID, from, to delivery.Status) error

	AddAcknowledgement(ctx context.Context, ack *delivery.Acknowledgement) error
	HasAcknowledgement(ctx context.Context, deliveryID kernel.UUID) (bool, error)

	AddVerification(ctx context.Context, verification *delivery.Verification) error
	HasVerification(ctx context.Context, deliveryID kernel.UUID) (bool, error)
}
