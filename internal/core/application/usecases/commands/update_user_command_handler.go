package commands

import (
	"context"

	"bakery/internal/core/domain/model/audit"
	"bakery/internal/core/domain/model/staff"
	"bakery/internal/core/ports"
	"bakery/internal/pkg/errs"
)

type UpdateUserCommandHandler struct {
	uowFactory AdminUoWFactory
	clock      ports.Clock
}

func NewUpdateUserCommandHandler(uowFactory AdminUoWFactory, clock ports.Clock) UpdateUserCommandHandler {
	return UpdateUserCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h *UpdateUserCommandHandler) Handle(ctx context.Context, cmd UpdateUserCommand) (*staff.User, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	u, err := h.handle(ctx, cmd)
	return u, errs.Classify(backend, err)
}

func (h *UpdateUserCommandHandler) handle(ctx context.Context, cmd UpdateUserCommand) (*staff.User, error) {
	if err := requireRole(cmd.Actor(), staff.Admin, audit.ActionUpdateUser); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	users := uow.UserRepository()
	u, err := users.Get(ctx, cmd.UserID())
	if err != nil {
		return nil, err
	}

	before := userValues(u)
	if err = u.Update(cmd.FullName(), cmd.Role(), cmd.RouteID()); err != nil {
		return nil, err
	}

	if err = checkRouteAssignable(ctx, uow, u); err != nil {
		return nil, err
	}

	if err = users.Update(ctx, u); err != nil {
		return nil, err
	}

	if err = recordAudit(ctx, uow.AuditLogRepository(), cmd.Actor(), audit.ActionUpdateUser, "users", u.ID(),
		before, userValues(u), h.clock.Now()); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return u, nil
}
