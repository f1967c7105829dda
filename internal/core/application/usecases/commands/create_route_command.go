package commands

import (
	"errors"

	"bakery/internal/core/domain/model/staff"
	"bakery/internal/pkg/guard"
)

var ErrCreateRouteCommandIsNotConstructed = errors.New(
	"CreateRouteCommand must be created via NewCreateRouteCommand constructor",
)

// CreateRouteCommand registers a new delivery territory.
type CreateRouteCommand struct { //nolint:recvcheck //using for validation
	actor       *staff.User
	number      int
	name        string
	description string

	guard guard.ConstructorGuard
}

func NewCreateRouteCommand(actor *staff.User, number int, name, description string) (CreateRouteCommand, error) {
	if err := validateActor(actor); err != nil {
		return CreateRouteCommand{}, err
	}

	return CreateRouteCommand{
		actor:       actor,
		number:      number,
		name:        name,
		description: description,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c CreateRouteCommand) Validate() error {
	return c.guard.Validate(ErrCreateRouteCommandIsNotConstructed)
}

func (c CreateRouteCommand) Actor() *staff.User {
	return c.actor
}

func (c CreateRouteCommand) Number() int {
	return c.number
}

func (c CreateRouteCommand) Name() string {
	return c.name
}

func (c CreateRouteCommand) Description() string {
	return c.description
}
