package commands

import (
	"context"

	"bakery/internal/core/domain/model/audit"
	"bakery/internal/core/domain/model/staff"
	"bakery/internal/core/ports"
	"bakery/internal/pkg/errs"
)

// DeactivateUserCommandHandler disables a staff profile. Admins cannot
// deactivate themselves.
type DeactivateUserCommandHandler struct {
	uowFactory AdminUoWFactory
	clock      ports.Clock
}

func NewDeactivateUserCommandHandler(uowFactory AdminUoWFactory, clock ports.Clock) DeactivateUserCommandHandler {
	return DeactivateUserCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h *DeactivateUserCommandHandler) Handle(ctx context.Context, cmd DeactivateUserCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return errs.Classify(backend, h.handle(ctx, cmd))
}

func (h *DeactivateUserCommandHandler) handle(ctx context.Context, cmd DeactivateUserCommand) error {
	if err := requireRole(cmd.Actor(), staff.Admin, audit.ActionDeactivateUser); err != nil {
		return err
	}
	if cmd.Actor().ID().IsEqual(cmd.UserID()) {
		return errs.NewInvalidPayloadError("cannot deactivate own account")
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	users := uow.UserRepository()
	u, err := users.Get(ctx, cmd.UserID())
	if err != nil {
		return err
	}

	before := userValues(u)
	u.Deactivate()
	if err = users.Update(ctx, u); err != nil {
		return err
	}

	if err = recordAudit(ctx, uow.AuditLogRepository(), cmd.Actor(), audit.ActionDeactivateUser, "users", u.ID(),
		before, userValues(u), h.clock.Now()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
