package commands

import (
	"errors"

	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/staff"
	"bakery/internal/pkg/guard"
)

var ErrDeactivateUserCommandIsNotConstructed = errors.New(
	"DeactivateUserCommand must be created via NewDeactivateUserCommand constructor",
)

type DeactivateUserCommand struct { //nolint:recvcheck //using for validation
	actor  *staff.User
	userID kernel.UUID

	guard guard.ConstructorGuard
}

func NewDeactivateUserCommand(actor *staff.User, userID kernel.UUID) (DeactivateUserCommand, error) {
	if err := errors.Join(validateActor(actor), userID.Validate()); err != nil {
		return DeactivateUserCommand{}, err
	}
	return DeactivateUserCommand{actor: actor, userID: userID, guard: guard.NewConstructorGuard()}, nil
}

func (c DeactivateUserCommand) Validate() error {
	return c.guard.Validate(ErrDeactivateUserCommandIsNotConstructed)
}

func (c DeactivateUserCommand) Actor() *staff.User {
	return c.actor
}

func (c DeactivateUserCommand) UserID() kernel.UUID {
	return c.userID
}
