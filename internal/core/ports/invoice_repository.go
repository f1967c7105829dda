package ports

import (
	"context"

	"bakery/internal/core/domain/model/invoice"
	"bakery/internal/core/domain/model/kernel"
)

// InvoiceRepository persists invoices, at most one per order.
type InvoiceRepository interface {
	Add(ctx context.Context, inv *invoice.Invoice) error
	ExistsForOrder(ctx context.Context, orderID kernel.UUID) (bool, error)
}
