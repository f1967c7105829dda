package commands

import (
	"errors"

	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/staff"
	"bakery/internal/pkg/guard"
)

var ErrChangeOrderItemsCommandIsNotConstructed = errors.New(
	"ChangeOrderItemsCommand must be created via NewChangeOrderItemsCommand constructor",
)

// ChangeOrderItemsCommand replaces the lines of an order that has not been
// dispatched yet.
type ChangeOrderItemsCommand struct { //nolint:recvcheck //using for validation
	actor   *staff.User
	orderID kernel.UUID
	lines   []OrderLine

	guard guard.ConstructorGuard
}

func NewChangeOrderItemsCommand(actor *staff.User, orderID kernel.UUID, lines []OrderLine) (ChangeOrderItemsCommand, error) {
	if err := errors.Join(
		validateActor(actor),
		orderID.Validate(),
		validateLines(lines),
	); err != nil {
		return ChangeOrderItemsCommand{}, err
	}

	copied := make([]OrderLine, len(lines))
	copy(copied, lines)
	return ChangeOrderItemsCommand{
		actor:   actor,
		orderID: orderID,
		lines:   copied,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ChangeOrderItemsCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderItemsCommandIsNotConstructed)
}

func (c ChangeOrderItemsCommand) Actor() *staff.User {
	return c.actor
}

func (c ChangeOrderItemsCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ChangeOrderItemsCommand) Lines() []OrderLine {
	lines := make([]OrderLine, len(c.lines))
	copy(lines, c.lines)
	return lines
}
