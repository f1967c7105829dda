// Package commands contains business operations that modify system state.
// Every command follows the same pattern: a validated command value, a
// transaction opened through a unit of work, repository writes, an audit
// entry in the same transaction, and a commit.
package commands

import (
	"context"

	"bakery/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler depends only on the repositories it writes to.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	DeliveryRepoFactory interface {
		DeliveryRepository() ports.DeliveryRepository
	}

	InvoiceRepoFactory interface {
		InvoiceRepository() ports.InvoiceRepository
	}

	UserRepoFactory interface {
		UserRepository() ports.UserRepository
	}

	RouteRepoFactory interface {
		RouteRepository() ports.RouteRepository
	}

	ProductRepoFactory interface {
		ProductRepository() ports.ProductRepository
	}

	BusinessDayRepoFactory interface {
		BusinessDayRepository() ports.BusinessDayRepository
	}

	AuditLogRepoFactory interface {
		AuditLogRepository() ports.AuditLogRepository
	}

	// OrderUoW serves order placement and item edits.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		RouteRepoFactory
		ProductRepoFactory
		AuditLogRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// TransitionUoW serves the transition executor: the order status and the
	// child record of every transition are written in one transaction.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   _ = uow.DeliveryRepository().AddVerification(ctx, verification)
	//   _ = uow.OrderRepository().CompareAndSetStatus(ctx, id, order.Acknowledged, order.Verified, false)
	//
	//   err = uow.Commit(ctx)
	TransitionUoW interface {
		TxManager
		OrderRepoFactory
		DeliveryRepoFactory
		InvoiceRepoFactory
		AuditLogRepoFactory
	}

	TransitionUoWFactory interface {
		Create() TransitionUoW
	}

	// AdminUoW serves route, user and product administration.
	AdminUoW interface {
		TxManager
		RouteRepoFactory
		UserRepoFactory
		ProductRepoFactory
		AuditLogRepoFactory
	}

	AdminUoWFactory interface {
		Create() AdminUoW
	}

	// BusinessDayUoW serves the daily closing.
	BusinessDayUoW interface {
		TxManager
		BusinessDayRepoFactory
		AuditLogRepoFactory
	}

	BusinessDayUoWFactory interface {
		Create() BusinessDayUoW
	}
)

// Function adapters let a single ports.UnitOfWorkFactory serve every handler:
//
//	orders := commands.OrderUoWFactoryFunc(func() commands.OrderUoW { return factory.Create() })
type (
	OrderUoWFactoryFunc       func() OrderUoW
	TransitionUoWFactoryFunc  func() TransitionUoW
	AdminUoWFactoryFunc       func() AdminUoW
	BusinessDayUoWFactoryFunc func() BusinessDayUoW
)

func (f OrderUoWFactoryFunc) Create() OrderUoW {
	return f()
}

func (f TransitionUoWFactoryFunc) Create() TransitionUoW {
	return f()
}

func (f AdminUoWFactoryFunc) Create() AdminUoW {
	return f()
}

func (f BusinessDayUoWFactoryFunc) Create() BusinessDayUoW {
	return f()
}
