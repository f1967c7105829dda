package ports

import (
	"context"
)

// UnitOfWorkFactory hands out a fresh UnitOfWork per command; instances are
// never shared between requests.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is the transaction boundary of one workflow step. Repositories
// obtained after Begin read and write through that transaction, so a child
// record insert and the order status update commit or fail together.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit fails when Begin was not called or the database rejects the
	// commit; the transaction is gone either way.
	Commit(ctx context.Context) error

	// Rollback after Commit changes nothing and only reports the finished
	// transaction, so handlers defer it unconditionally.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	DeliveryRepository() DeliveryRepository
	InvoiceRepository() InvoiceRepository
	UserRepository() UserRepository
	RouteRepository() RouteRepository
	ProductRepository() ProductRepository
	BusinessDayRepository() BusinessDayRepository
	AuditLogRepository() AuditLogRepository
}
