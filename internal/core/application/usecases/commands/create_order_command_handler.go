package commands

import (
	"context"
	"fmt"
	"time"

	"bakery/internal/core/domain/model/audit"
	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/order"
	"bakery/internal/core/domain/services"
	"bakery/internal/core/ports"
	"bakery/internal/pkg/errs"
)

// CreateOrderCommandHandler places a new order in CREATED status.
//
// Preconditions, in order:
//   - the actor is an active salesman (Forbidden)
//   - the salesman has an active route (InvalidPayload)
//   - the salesman has no delivery waiting for acknowledgement (Forbidden)
//   - every line names an active product (InvalidPayload)
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, ports.SystemClock{}, time.UTC)
//	o, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrForbidden) {
//	    // acknowledge pending deliveries first
//	}
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	lifecycle  services.OrderLifecycle
	clock      ports.Clock
	location   *time.Location
}

// NewCreateOrderCommandHandler creates the handler. location decides the
// business date stamped on new orders.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	clock ports.Clock,
	location *time.Location,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		lifecycle:  services.NewOrderLifecycle(),
		clock:      clock,
		location:   location,
	}
}

// Handle persists the order and its audit entry in one transaction.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	o, err := h.handle(ctx, cmd)
	return o, errs.Classify(backend, err)
}

func (h *CreateOrderCommandHandler) handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	actor := cmd.Actor()
	if err := h.lifecycle.AuthorizeCreate(actor); err != nil {
		return nil, err
	}

	routeID := actor.AssignedRoute()
	if routeID == nil {
		return nil, errs.NewInvalidPayloadError("salesman has no assigned route")
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	pending, err := uow.OrderRepository().CountPendingAcknowledgements(ctx, actor.ID())
	if err != nil {
		return nil, err
	}
	if pending > 0 {
		return nil, errs.NewForbiddenError(
			audit.ActionCreateOrder,
			fmt.Sprintf("%d dispatched deliveries are waiting for acknowledgement", pending),
		)
	}

	r, err := uow.RouteRepository().Get(ctx, *routeID)
	if err != nil {
		return nil, asPayloadError(err, "assigned route does not exist")
	}
	if !r.IsActive() {
		return nil, errs.NewInvalidPayloadError(fmt.Sprintf("route %d is inactive", r.Number()))
	}

	items, err := buildItems(ctx, uow.ProductRepository(), cmd.Lines())
	if err != nil {
		return nil, err
	}

	now := h.clock.Now().In(h.location)
	today := kernel.DateOf(now)
	id := kernel.NewUUID()
	o, err := order.NewOrder(id, order.NewNumber(today, r.Number(), id), r.ID(), actor.ID(), today, items, now)
	if err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}

	if err = recordAudit(ctx, uow.AuditLogRepository(), actor, audit.ActionCreateOrder, "orders", o.ID(),
		nil, orderValues(o), now); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}

// buildItems resolves every line against the catalogue. Unknown or inactive
// products are an InvalidPayloadError.
func buildItems(ctx context.Context, products ports.ProductRepository, lines []OrderLine) ([]order.Item, error) {
	ids := make([]kernel.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}

	found, err := products.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(lines))
	for _, line := range lines {
		p, ok := found[line.ProductID]
		if !ok {
			return nil, errs.NewInvalidPayloadError(fmt.Sprintf("product %s does not exist", line.ProductID))
		}
		if !p.IsActive() {
			return nil, errs.NewInvalidPayloadError(fmt.Sprintf("product %s is inactive", p.Code()))
		}

		item, err := order.NewItem(kernel.NewUUID(), p.ID(), line.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func orderValues(o *order.Order) audit.Values {
	lines := make([]audit.Values, 0, len(o.Items()))
	for _, item := range o.Items() {
		lines = append(lines, audit.Values{
			"product_id":       item.ProductID().String(),
			"ordered_quantity": item.Quantity(),
		})
	}
	return audit.Values{
		"order_number": o.Number(),
		"route_id":     o.RouteID().String(),
		"salesman_id":  o.SalesmanID().String(),
		"order_date":   o.OrderDate().String(),
		"status":       o.Status().String(),
		"items":        lines,
	}
}

// asPayloadError turns a missing reference into an InvalidPayloadError and
// leaves every other error untouched.
func asPayloadError(err error, reason string) error {
	if errs.IsNotFound(err) {
		return errs.NewInvalidPayloadErrorWithCause(reason, err)
	}
	return err
}

