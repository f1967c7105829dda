package delivery

import (
	"errors"
	"strings"
	"time"

	"bakery/internal/core/domain/model/kernel"
)

// Acknowledgement is the salesman's receipt of a delivery. There is at most
// one per delivery; the store enforces it with a unique key on delivery_id.
type Acknowledgement struct {
	id             kernel.UUID
	deliveryID     kernel.UUID
	orderID        kernel.UUID
	acknowledgedBy kernel.UUID
	acknowledgedAt time.Time
	notes          string
}

func NewAcknowledgement(
	id, deliveryID, orderID, acknowledgedBy kernel.UUID,
	acknowledgedAt time.Time,
	notes string,
) (*Acknowledgement, error) {
	if err := errors.Join(
		id.Validate(),
		deliveryID.Validate(),
		orderID.Validate(),
		acknowledgedBy.Validate(),
	); err != nil {
		return nil, err
	}

	return &Acknowledgement{
		id:             id,
		deliveryID:     deliveryID,
		orderID:        orderID,
		acknowledgedBy: acknowledgedBy,
		acknowledgedAt: acknowledgedAt,
		notes:          strings.TrimSpace(notes),
	}, nil
}

func (a *Acknowledgement) ID() kernel.UUID {
	return a.id
}

func (a *Acknowledgement) DeliveryID() kernel.UUID {
	return a.deliveryID
}

func (a *Acknowledgement) OrderID() kernel.UUID {
	return a.orderID
}

func (a *Acknowledgement) AcknowledgedBy() kernel.UUID {
	return a.acknowledgedBy
}

func (a *Acknowledgement) AcknowledgedAt() time.Time {
	return a.acknowledgedAt
}

func (a *Acknowledgement) Notes() string {
	return a.notes
}
