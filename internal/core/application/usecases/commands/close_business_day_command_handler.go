package commands

import (
	"context"
	"fmt"
	"time"

	"bakery/internal/core/domain/model/audit"
	"bakery/internal/core/domain/model/businessday"
	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/staff"
	"bakery/internal/core/ports"
	"bakery/internal/pkg/errs"
)

// CloseBusinessDayCommandHandler writes the append-only closing snapshot for a
// date. Totals are computed from stored data at closing time; nothing is
// locked. Closing a date twice is an AlreadyProcessedError and closing a date
// that has not started yet is an InvalidPayloadError.
type CloseBusinessDayCommandHandler struct {
	uowFactory BusinessDayUoWFactory
	clock      ports.Clock
	location   *time.Location
}

func NewCloseBusinessDayCommandHandler(
	uowFactory BusinessDayUoWFactory,
	clock ports.Clock,
	location *time.Location,
) CloseBusinessDayCommandHandler {
	return CloseBusinessDayCommandHandler{uowFactory: uowFactory, clock: clock, location: location}
}

func (h *CloseBusinessDayCommandHandler) Handle(
	ctx context.Context,
	cmd CloseBusinessDayCommand,
) (*businessday.BusinessDay, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	day, err := h.handle(ctx, cmd)
	return day, errs.Classify(backend, err)
}

func (h *CloseBusinessDayCommandHandler) handle(
	ctx context.Context,
	cmd CloseBusinessDayCommand,
) (*businessday.BusinessDay, error) {
	if err := requireRole(cmd.Actor(), staff.Admin, audit.ActionCloseBusinessDay); err != nil {
		return nil, err
	}

	now := h.clock.Now().In(h.location)
	if cmd.Date().Time(h.location).After(now) {
		return nil, errs.NewInvalidPayloadError(fmt.Sprintf("business date %s has not started", cmd.Date()))
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	days := uow.BusinessDayRepository()
	totals, err := days.ComputeTotals(ctx, cmd.Date(), h.location)
	if err != nil {
		return nil, err
	}

	day, err := businessday.NewBusinessDay(kernel.NewUUID(), cmd.Date(), totals, cmd.Actor().ID(), now, cmd.Notes())
	if err != nil {
		return nil, err
	}

	if err = days.Add(ctx, day); err != nil {
		return nil, err
	}

	if err = recordAudit(ctx, uow.AuditLogRepository(), cmd.Actor(), audit.ActionCloseBusinessDay, "business_days",
		day.ID(), nil, audit.Values{
			"business_date":      day.Date().String(),
			"total_orders":       totals.Orders,
			"total_deliveries":   totals.Deliveries,
			"total_acknowledged": totals.Acknowledged,
			"total_verified":     totals.Verified,
			"total_invoiced":     totals.Invoiced,
		}, now); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return day, nil
}
