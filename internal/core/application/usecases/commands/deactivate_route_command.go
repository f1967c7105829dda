package commands

import (
	"errors"

	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/staff"
	"bakery/internal/pkg/guard"
)

var ErrDeactivateRouteCommandIsNotConstructed = errors.New(
	"DeactivateRouteCommand must be created via NewDeactivateRouteCommand constructor",
)

type DeactivateRouteCommand struct { //nolint:recvcheck //using for validation
	actor   *staff.User
	routeID kernel.UUID

	guard guard.ConstructorGuard
}

func NewDeactivateRouteCommand(actor *staff.User, routeID kernel.UUID) (DeactivateRouteCommand, error) {
	if err := errors.Join(validateActor(actor), routeID.Validate()); err != nil {
		return DeactivateRouteCommand{}, err
	}
	return DeactivateRouteCommand{actor: actor, routeID: routeID, guard: guard.NewConstructorGuard()}, nil
}

func (c DeactivateRouteCommand) Validate() error {
	return c.guard.Validate(ErrDeactivateRouteCommandIsNotConstructed)
}

func (c DeactivateRouteCommand) Actor() *staff.User {
	return c.actor
}

func (c DeactivateRouteCommand) RouteID() kernel.UUID {
	return c.routeID
}
