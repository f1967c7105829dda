package commands

import (
	"context"

	"bakery/internal/core/domain/model/audit"
	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/route"
	"bakery/internal/core/domain/model/staff"
	"bakery/internal/core/ports"
	"bakery/internal/pkg/errs"
)

// CreateRouteCommandHandler creates an active route. A taken route number is
// an AlreadyProcessedError raised by the store.
type CreateRouteCommandHandler struct {
	uowFactory AdminUoWFactory
	clock      ports.Clock
}

func NewCreateRouteCommandHandler(uowFactory AdminUoWFactory, clock ports.Clock) CreateRouteCommandHandler {
	return CreateRouteCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h *CreateRouteCommandHandler) Handle(ctx context.Context, cmd CreateRouteCommand) (*route.Route, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	r, err := h.handle(ctx, cmd)
	return r, errs.Classify(backend, err)
}

func (h *CreateRouteCommandHandler) handle(ctx context.Context, cmd CreateRouteCommand) (*route.Route, error) {
	if err := requireRole(cmd.Actor(), staff.Admin, audit.ActionCreateRoute); err != nil {
		return nil, err
	}

	r, err := route.NewRoute(kernel.NewUUID(), cmd.Number(), cmd.Name(), cmd.Description())
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

	if err = uow.RouteRepository().Add(ctx, r); err != nil {
		return nil, err
	}

	if err = recordAudit(ctx, uow.AuditLogRepository(), cmd.Actor(), audit.ActionCreateRoute, "routes", r.ID(),
		nil, routeValues(r), h.clock.Now()); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func routeValues(r *route.Route) audit.Values {
	return audit.Values{
		"route_number": r.Number(),
		"route_name":   r.Name(),
		"description":  r.Description(),
		"is_active":    r.IsActive(),
	}
}
