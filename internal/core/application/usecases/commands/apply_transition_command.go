package commands

import (
	"errors"

	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/order"
	"bakery/internal/core/domain/model/staff"
	"bakery/internal/pkg/guard"
)

var ErrApplyTransitionCommandIsNotConstructed = errors.New(
	"ApplyTransitionCommand must be created via NewApplyTransitionCommand constructor",
)

// Payload is the data a transition needs to write its child record. The set is
// closed: DispatchPayload, AcknowledgePayload, VerifyPayload, InvoicePayload.
//
// Payloads are checked by the handler after role, ownership and status so
// that a malformed request from the wrong role is still reported as Forbidden.
type Payload interface {
	isTransitionPayload()
}

// DispatchLine is the delivered quantity of one ordered product.
type DispatchLine struct {
	ProductID         kernel.UUID
	DeliveredQuantity int
}

// DispatchPayload must name exactly the order's products.
type DispatchPayload struct {
	Lines []DispatchLine
	Notes string
}

type AcknowledgePayload struct {
	Notes string
}

// VerifyPayload sends the order to FLAGGED when Flagged is set; FlagReason is
// then required.
type VerifyPayload struct {
	Flagged    bool
	FlagReason string
	Notes      string
}

type InvoicePayload struct {
	InvoiceNumber string
	FileName      string
	ContentType   string
	Content       []byte
	Notes         string
}

func (DispatchPayload) isTransitionPayload()    {}
func (AcknowledgePayload) isTransitionPayload() {}
func (VerifyPayload) isTransitionPayload()      {}
func (InvoicePayload) isTransitionPayload()     {}

// ApplyTransitionCommand asks to move one order to target on behalf of actor.
//
// Example:
//
//	cmd, err := NewApplyTransitionCommand(accountant, orderID, order.Verified, VerifyPayload{Notes: "ok"})
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
type ApplyTransitionCommand struct { //nolint:recvcheck //using for validation
	actor   *staff.User
	orderID kernel.UUID
	target  order.Status
	payload Payload

	guard guard.ConstructorGuard
}

// NewApplyTransitionCommand validates the identifiers and the target status.
// The payload is stored as given.
func NewApplyTransitionCommand(
	actor *staff.User,
	orderID kernel.UUID,
	target order.Status,
	payload Payload,
) (ApplyTransitionCommand, error) {
	if err := errors.Join(
		validateActor(actor),
		orderID.Validate(),
		target.Validate(),
	); err != nil {
		return ApplyTransitionCommand{}, err
	}

	return ApplyTransitionCommand{
		actor:   actor,
		orderID: orderID,
		target:  target,
		payload: payload,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ApplyTransitionCommand) Validate() error {
	return c.guard.Validate(ErrApplyTransitionCommandIsNotConstructed)
}

func (c ApplyTransitionCommand) Actor() *staff.User {
	return c.actor
}

func (c ApplyTransitionCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ApplyTransitionCommand) Target() order.Status {
	return c.target
}

func (c ApplyTransitionCommand) Payload() Payload {
	return c.payload
}
