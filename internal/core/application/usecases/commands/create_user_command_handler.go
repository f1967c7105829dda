package commands

import (
	"context"
	"fmt"

	"bakery/internal/core/domain/model/audit"
	"bakery/internal/core/domain/model/staff"
	"bakery/internal/core/ports"
	"bakery/internal/pkg/errs"
)

// CreateUserCommandHandler creates an active staff profile. A salesman's route
// must be active and must not already be served by another active salesman.
type CreateUserCommandHandler struct {
	uowFactory AdminUoWFactory
	clock      ports.Clock
}

func NewCreateUserCommandHandler(uowFactory AdminUoWFactory, clock ports.Clock) CreateUserCommandHandler {
	return CreateUserCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h *CreateUserCommandHandler) Handle(ctx context.Context, cmd CreateUserCommand) (*staff.User, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	u, err := h.handle(ctx, cmd)
	return u, errs.Classify(backend, err)
}

func (h *CreateUserCommandHandler) handle(ctx context.Context, cmd CreateUserCommand) (*staff.User, error) {
	if err := requireRole(cmd.Actor(), staff.Admin, audit.ActionCreateUser); err != nil {
		return nil, err
	}

	u, err := staff.NewUser(cmd.UserID(), cmd.FullName(), cmd.Email(), cmd.Role(), cmd.RouteID())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = checkRouteAssignable(ctx, uow, u); err != nil {
		return nil, err
	}

	if err = uow.UserRepository().Add(ctx, u); err != nil {
		return nil, err
	}

	if err = recordAudit(ctx, uow.AuditLogRepository(), cmd.Actor(), audit.ActionCreateUser, "users", u.ID(),
		nil, userValues(u), h.clock.Now()); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return u, nil
}

// checkRouteAssignable verifies that u's route, if any, is active and not held
// by a different active salesman.
func checkRouteAssignable(ctx context.Context, uow AdminUoW, u *staff.User) error {
	routeID := u.AssignedRoute()
	if routeID == nil || !u.IsActive() {
		return nil
	}

	r, err := uow.RouteRepository().Get(ctx, *routeID)
	if err != nil {
		return asPayloadError(err, "assigned route does not exist")
	}
	if !r.IsActive() {
		return errs.NewInvalidPayloadError(fmt.Sprintf("route %d is inactive", r.Number()))
	}

	holder, err := uow.UserRepository().FindActiveSalesman(ctx, r.ID())
	if err != nil {
		return err
	}
	if holder != nil && !holder.IsEqual(u) {
		return errs.NewInvalidPayloadError(
			fmt.Sprintf("route %d is already assigned to %s", r.Number(), holder.FullName()),
		)
	}
	return nil
}

func userValues(u *staff.User) audit.Values {
	values := audit.Values{
		"full_name": u.FullName(),
		"email":     u.Email(),
		"role":      u.Role().String(),
		"is_active": u.IsActive(),
	}
	if routeID := u.AssignedRoute(); routeID != nil {
		values["assigned_route_id"] = routeID.String()
	}
	return values
}
