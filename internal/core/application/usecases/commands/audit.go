package commands

import (
	"context"
	"time"

	"bakery/internal/core/domain/model/audit"
	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/staff"
	"bakery/internal/core/ports"
	"bakery/internal/pkg/errs"
)

// backend names the store every repository error is attributed to.
const backend = "postgres"

// recordAudit appends one audit row through repo, inside the caller's transaction.
func recordAudit(
	ctx context.Context,
	repo ports.AuditLogRepository,
	actor *staff.User,
	action, table string,
	recordID kernel.UUID,
	oldValues, newValues audit.Values,
	at time.Time,
) error {
	userID := actor.ID()
	entry, err := audit.NewEntry(&userID, action, table, &recordID, oldValues, newValues, audit.ClientFrom(ctx), at)
	if err != nil {
		return err
	}
	return repo.Append(ctx, entry)
}

// requireRole fails with a ForbiddenError unless actor is active and holds role.
func requireRole(actor *staff.User, role staff.Role, action string) error {
	if actor == nil || !actor.HasRole(role) {
		return errs.NewForbiddenError(action, "requires an active "+role.String())
	}
	return nil
}

func validateActor(actor *staff.User) error {
	if actor == nil {
		return errs.NewValueIsRequiredError("actor")
	}
	return actor.Validate()
}
