package commands

import (
	"errors"
	"fmt"

	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/staff"
	"bakery/internal/pkg/errs"
	"bakery/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrLinesAreRequired = errs.NewValueIsRequiredError("order lines")
)

// OrderLine is one requested product and quantity.
type OrderLine struct {
	ProductID kernel.UUID
	Quantity  int
}

func validateLines(lines []OrderLine) error {
	if len(lines) == 0 {
		return ErrLinesAreRequired
	}

	seen := make(map[kernel.UUID]struct{}, len(lines))
	for _, line := range lines {
		if err := line.ProductID.Validate(); err != nil {
			return err
		}
		if line.Quantity <= 0 {
			return errs.NewValueIsInvalidErrorWithCause(
				"ordered quantity",
				fmt.Errorf("%d is not greater than 0 for product %s", line.Quantity, line.ProductID),
			)
		}
		if _, dup := seen[line.ProductID]; dup {
			return errs.NewValueIsInvalidErrorWithCause(
				"order lines",
				fmt.Errorf("product %s appears more than once", line.ProductID),
			)
		}
		seen[line.ProductID] = struct{}{}
	}
	return nil
}

// CreateOrderCommand represents a salesman placing an order for their route.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(salesman, []OrderLine{
//	    {ProductID: breadID, Quantity: 10},
//	    {ProductID: bunID, Quantity: 5},
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	o, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	actor *staff.User
	lines []OrderLine

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the actor and the shape of the lines:
// at least one, positive quantities, one line per product.
func NewCreateOrderCommand(actor *staff.User, lines []OrderLine) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setActor(actor),
		cmd.setLines(lines),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) Actor() *staff.User {
	return c.actor
}

func (c CreateOrderCommand) Lines() []OrderLine {
	lines := make([]OrderLine, len(c.lines))
	copy(lines, c.lines)
	return lines
}

func (c *CreateOrderCommand) setActor(actor *staff.User) error {
	if err := validateActor(actor); err != nil {
		return err
	}
	c.actor = actor
	return nil
}

func (c *CreateOrderCommand) setLines(lines []OrderLine) error {
	if err := validateLines(lines); err != nil {
		return err
	}
	c.lines = make([]OrderLine, len(lines))
	copy(c.lines, lines)
	return nil
}
