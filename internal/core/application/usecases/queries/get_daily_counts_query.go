package queries

import (
	"errors"

	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/staff"
	"bakery/internal/pkg/guard"
)

var ErrGetDailyCountsQueryIsNotConstructed = errors.New(
	"GetDailyCountsQuery must be created via NewGetDailyCountsQuery constructor",
)

// GetDailyCountsQuery asks for the dashboard numbers of actor's role on date.
//
// Example:
//
//	query, err := NewGetDailyCountsQuery(actor, kernel.Today(loc))
//	if err != nil {
//	    return err
//	}
//	counts, err := handler.Handle(ctx, query)
type GetDailyCountsQuery struct {
	actor *staff.User
	date  kernel.Date

	guard guard.ConstructorGuard
}

func NewGetDailyCountsQuery(actor *staff.User, date kernel.Date) (GetDailyCountsQuery, error) {
	if err := errors.Join(validateActor(actor), date.Validate()); err != nil {
		return GetDailyCountsQuery{}, err
	}
	return GetDailyCountsQuery{actor: actor, date: date, guard: guard.NewConstructorGuard()}, nil
}

func (q GetDailyCountsQuery) Validate() error {
	return q.guard.Validate(ErrGetDailyCountsQueryIsNotConstructed)
}

func (q GetDailyCountsQuery) Actor() *staff.User {
	return q.actor
}

func (q GetDailyCountsQuery) Date() kernel.Date {
	return q.date
}

// DailyCounts is the dashboard read model. Which fields are filled depends on
// the role:
//
//	Salesman    Counts of the salesman's own orders, PendingAcknowledgements
//	Factory     Counts of the date's orders, PendingDispatch, DispatchedToday
//	Accountant  PendingVerification, VerifiedToday, Counts.Verified/Flagged of the date
//	Admin       Routes
type DailyCounts struct {
	Role staff.Role
	Date kernel.Date

	Counts StatusCounts

	PendingAcknowledgements int
	PendingDispatch         int
	DispatchedToday         int
	PendingVerification     int
	VerifiedToday           int

	Routes []RouteCounts
}

// RouteCounts is one active route on the admin dashboard. Counts are
// cumulative: an invoiced order also counts as dispatched, acknowledged and
// verified, and a flagged order as dispatched and acknowledged.
type RouteCounts struct {
	RouteID     kernel.UUID
	RouteNumber int
	RouteName   string
	Salesman    *SalesmanRef
	Counts      StatusCounts
}
