package commands

import (
	"context"
	"fmt"

	"bakery/internal/core/domain/model/audit"
	"bakery/internal/core/domain/model/staff"
	"bakery/internal/core/ports"
	"bakery/internal/pkg/errs"
)

// DeactivateRouteCommandHandler retires a route. A route still served by an
// active salesman cannot be retired; reassign the salesman first.
type DeactivateRouteCommandHandler struct {
	uowFactory AdminUoWFactory
	clock      ports.Clock
}

func NewDeactivateRouteCommandHandler(uowFactory AdminUoWFactory, clock ports.Clock) DeactivateRouteCommandHandler {
	return DeactivateRouteCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h *DeactivateRouteCommandHandler) Handle(ctx context.Context, cmd DeactivateRouteCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return errs.Classify(backend, h.handle(ctx, cmd))
}

func (h *DeactivateRouteCommandHandler) handle(ctx context.Context, cmd DeactivateRouteCommand) error {
	if err := requireRole(cmd.Actor(), staff.Admin, audit.ActionDeactivateRoute); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	routes := uow.RouteRepository()
	r, err := routes.Get(ctx, cmd.RouteID())
	if err != nil {
		return err
	}

	salesman, err := uow.UserRepository().FindActiveSalesman(ctx, r.ID())
	if err != nil {
		return err
	}
	if salesman != nil {
		return errs.NewInvalidPayloadError(
			fmt.Sprintf("route %d is still assigned to %s", r.Number(), salesman.FullName()),
		)
	}

	before := routeValues(r)
	r.Deactivate()
	if err = routes.Update(ctx, r); err != nil {
		return err
	}

	if err = recordAudit(ctx, uow.AuditLogRepository(), cmd.Actor(), audit.ActionDeactivateRoute, "routes", r.ID(),
		before, routeValues(r), h.clock.Now()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
