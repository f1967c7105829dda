package queries

import (
	"errors"
	"time"

	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/order"
	"bakery/internal/core/domain/model/staff"
	"bakery/internal/pkg/guard"
)

var ErrGetWorkQueueQueryIsNotConstructed = errors.New(
	"GetWorkQueueQuery must be created via NewGetWorkQueueQuery constructor",
)

// GetWorkQueueQuery lists the orders waiting for actor's next action:
//
//	Factory     CREATED orders, oldest first
//	Salesman    own DISPATCHED orders (acknowledge) and VERIFIED orders (invoice)
//	Accountant  ACKNOWLEDGED deliveries without a verification
//	Admin       every order of date
type GetWorkQueueQuery struct {
	actor *staff.User
	date  kernel.Date

	guard guard.ConstructorGuard
}

func NewGetWorkQueueQuery(actor *staff.User, date kernel.Date) (GetWorkQueueQuery, error) {
	if err := errors.Join(validateActor(actor), date.Validate()); err != nil {
		return GetWorkQueueQuery{}, err
	}
	return GetWorkQueueQuery{actor: actor, date: date, guard: guard.NewConstructorGuard()}, nil
}

func (q GetWorkQueueQuery) Validate() error {
	return q.guard.Validate(ErrGetWorkQueueQueryIsNotConstructed)
}

func (q GetWorkQueueQuery) Actor() *staff.User {
	return q.actor
}

func (q GetWorkQueueQuery) Date() kernel.Date {
	return q.date
}

// WorkItem is one order in a queue. DeliveryID is nil until the order is
// dispatched.
type WorkItem struct {
	OrderID       kernel.UUID
	OrderNumber   string
	OrderDate     kernel.Date
	Status        order.Status
	IsLocked      bool
	RouteNumber   int
	RouteName     string
	SalesmanName  string
	TotalQuantity int
	DeliveryID    *kernel.UUID
	CreatedAt     time.Time
}
