package commands

import (
	"errors"

	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/staff"
	"bakery/internal/pkg/guard"
)

var ErrUpdateUserCommandIsNotConstructed = errors.New(
	"UpdateUserCommand must be created via NewUpdateUserCommand constructor",
)

// UpdateUserCommand changes the name, role or route of a staff profile. The
// email belongs to the identity provider and is not editable here.
type UpdateUserCommand struct { //nolint:recvcheck //using for validation
	actor    *staff.User
	userID   kernel.UUID
	fullName string
	role     staff.Role
	routeID  *kernel.UUID

	guard guard.ConstructorGuard
}

func NewUpdateUserCommand(
	actor *staff.User,
	userID kernel.UUID,
	fullName string,
	role staff.Role,
	routeID *kernel.UUID,
) (UpdateUserCommand, error) {
	if err := errors.Join(validateActor(actor), userID.Validate()); err != nil {
		return UpdateUserCommand{}, err
	}

	return UpdateUserCommand{
		actor:    actor,
		userID:   userID,
		fullName: fullName,
		role:     role,
		routeID:  routeID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateUserCommand) Validate() error {
	return c.guard.Validate(ErrUpdateUserCommandIsNotConstructed)
}

func (c UpdateUserCommand) Actor() *staff.User {
	return c.actor
}

func (c UpdateUserCommand) UserID() kernel.UUID {
	return c.userID
}

func (c UpdateUserCommand) FullName() string {
	return c.fullName
}

func (c UpdateUserCommand) Role() staff.Role {
	return c.role
}

func (c UpdateUserCommand) RouteID() *kernel.UUID {
	return c.routeID
}
