package commands

import (
	"errors"

	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/staff"
	"bakery/internal/pkg/guard"
)

var ErrCreateUserCommandIsNotConstructed = errors.New(
	"CreateUserCommand must be created via NewCreateUserCommand constructor",
)

// CreateUserCommand links an identity provider account (same id) to a staff
// profile with a role and, for salesmen, a route.
type CreateUserCommand struct { //nolint:recvcheck //using for validation
	actor    *staff.User
	userID   kernel.UUID
	fullName string
	email    string
	role     staff.Role
	routeID  *kernel.UUID

	guard guard.ConstructorGuard
}

func NewCreateUserCommand(
	actor *staff.User,
	userID kernel.UUID,
	fullName, email string,
	role staff.Role,
	routeID *kernel.UUID,
) (CreateUserCommand, error) {
	if err := errors.Join(validateActor(actor), userID.Validate()); err != nil {
		return CreateUserCommand{}, err
	}

	return CreateUserCommand{
		actor:    actor,
		userID:   userID,
		fullName: fullName,
		email:    email,
		role:     role,
		routeID:  routeID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c CreateUserCommand) Validate() error {
	return c.guard.Validate(ErrCreateUserCommandIsNotConstructed)
}

func (c CreateUserCommand) Actor() *staff.User {
	return c.actor
}

func (c CreateUserCommand) UserID() kernel.UUID {
	return c.userID
}

func (c CreateUserCommand) FullName() string {
	return c.fullName
}

func (c CreateUserCommand) Email() string {
	return c.email
}

func (c CreateUserCommand) Role() staff.Role {
	return c.role
}

func (c CreateUserCommand) RouteID() *kernel.UUID {
	return c.routeID
}
