package commands

import (
	"context"

	"bakery/internal/core/domain/model/audit"
	"bakery/internal/core/domain/model/order"
	"bakery/internal/core/domain/services"
	"bakery/internal/core/ports"
	"bakery/internal/pkg/errs"
)

// ChangeOrderItemsCommandHandler lets the owning salesman rewrite an order's
// lines while it is CREATED and unlocked. Locked or dispatched orders are
// rejected with an InvalidStateTransitionError before the lines are looked at.
type ChangeOrderItemsCommandHandler struct {
	uowFactory OrderUoWFactory
	lifecycle  services.OrderLifecycle
	clock      ports.Clock
}

func NewChangeOrderItemsCommandHandler(uowFactory OrderUoWFactory, clock ports.Clock) ChangeOrderItemsCommandHandler {
	return ChangeOrderItemsCommandHandler{
		uowFactory: uowFactory,
		lifecycle:  services.NewOrderLifecycle(),
		clock:      clock,
	}
}

func (h *ChangeOrderItemsCommandHandler) Handle(ctx context.Context, cmd ChangeOrderItemsCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	o, err := h.handle(ctx, cmd)
	return o, errs.Classify(backend, err)
}

func (h *ChangeOrderItemsCommandHandler) handle(ctx context.Context, cmd ChangeOrderItemsCommand) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders := uow.OrderRepository()
	o, err := orders.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = h.lifecycle.AuthorizeItemsEdit(cmd.Actor(), o); err != nil {
		return nil, err
	}
	if err = o.CheckItemsEditable(); err != nil {
		return nil, err
	}

	before := orderValues(o)

	items, err := buildItems(ctx, uow.ProductRepository(), cmd.Lines())
	if err != nil {
		return nil, err
	}
	if err = o.ReplaceItems(items); err != nil {
		return nil, err
	}

	if err = orders.ReplaceItems(ctx, o); err != nil {
		return nil, err
	}

	if err = recordAudit(ctx, uow.AuditLogRepository(), cmd.Actor(), audit.ActionUpdateOrderItems, "orders", o.ID(),
		before, orderValues(o), h.clock.Now()); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return o, nil
}
