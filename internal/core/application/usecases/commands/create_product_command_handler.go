package commands

import (
	"context"

	"bakery/internal/core/domain/model/audit"
	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/product"
	"bakery/internal/core/domain/model/staff"
	"bakery/internal/core/ports"
	"bakery/internal/pkg/errs"
)

// CreateProductCommandHandler adds an active product. Product codes are unique.
type CreateProductCommandHandler struct {
	uowFactory AdminUoWFactory
	clock      ports.Clock
}

func NewCreateProductCommandHandler(uowFactory AdminUoWFactory, clock ports.Clock) CreateProductCommandHandler {
	return CreateProductCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h *CreateProductCommandHandler) Handle(ctx context.Context, cmd CreateProductCommand) (*product.Product, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	p, err := h.handle(ctx, cmd)
	return p, errs.Classify(backend, err)
}

func (h *CreateProductCommandHandler) handle(ctx context.Context, cmd CreateProductCommand) (*product.Product, error) {
	if err := requireRole(cmd.Actor(), staff.Admin, audit.ActionCreateProduct); err != nil {
		return nil, err
	}

	p, err := product.NewProduct(kernel.NewUUID(), cmd.Code(), cmd.Name(), cmd.Description(), cmd.UnitPrice())
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

	if err = uow.ProductRepository().Add(ctx, p); err != nil {
		return nil, err
	}

	if err = recordAudit(ctx, uow.AuditLogRepository(), cmd.Actor(), audit.ActionCreateProduct, "products", p.ID(),
		nil, audit.Values{
			"product_code": p.Code(),
			"product_name": p.Name(),
			"unit_price":   p.UnitPrice().StringFixed(2),
		}, h.clock.Now()); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return p, nil
}
