package queries_test

import (
	"context"
	"testing"
	"time"

	"bakery/internal/core/application/usecases/queries"
	"bakery/internal/core/domain/model/delivery"
	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/order"
	"bakery/internal/core/domain/model/staff"

	"github.com/stretchr/testify/suite"
)

type GetDailyCountsQueryHandlerTestSuite struct {
	databaseSuite
	handler queries.GetDailyCountsQueryHandler
}

func (suite *GetDailyCountsQueryHandlerTestSuite) SetupSuite() {
	suite.databaseSuite.SetupSuite()
	suite.handler = queries.NewGetDailyCountsQueryHandler(suite.db, time.UTC)
}

func (suite *GetDailyCountsQueryHandlerTestSuite) TestHandle_NoOrders_ReturnsZeros() {
	spare := suite.addRoute(9, "Spare", true)
	actors := []*staff.User{
		suite.addUser("Ana", staff.Salesman, spare, true),
		suite.addUser("Cy", staff.Factory, nil, true),
		suite.addUser("Di", staff.Accountant, nil, true),
	}

	for _, actor := range actors {
		counts := suite.handle(actor)

		suite.Equal(actor.Role(), counts.Role)
		suite.Zero(counts.Counts.Total())
		suite.Zero(counts.PendingAcknowledgements)
		suite.Zero(counts.PendingDispatch)
		suite.Zero(counts.DispatchedToday)
		suite.Zero(counts.PendingVerification)
		suite.Zero(counts.VerifiedToday)
	}

	counts := suite.handle(suite.addUser("Ed", staff.Admin, nil, true))
	suite.Require().Len(counts.Routes, 1)
	suite.Zero(counts.Routes[0].Counts.Total())
}

func (suite *GetDailyCountsQueryHandlerTestSuite) TestHandle_Salesman_OnlyOwnOrders() {
	harbour := suite.addRoute(3, "Harbour", true)
	hills := suite.addRoute(4, "Hills", true)
	ana := suite.addUser("Ana", staff.Salesman, harbour, true)
	bo := suite.addUser("Bo", staff.Salesman, hills, true)

	suite.addOrder(ana, harbour, today, order.Created, at(today, 7), 10)
	dispatched := suite.addOrder(ana, harbour, yesterday, order.Dispatched, at(yesterday, 7), 4)
	suite.addDelivery(dispatched, delivery.Dispatched, at(yesterday, 9))
	suite.addOrder(ana, harbour, yesterday, order.Invoiced, at(yesterday, 6), 2)
	suite.addOrder(bo, hills, today, order.Created, at(today, 7), 1)

	counts := suite.handle(ana)

	suite.Equal(queries.StatusCounts{Created: 1}, counts.Counts, "only today's orders")
	suite.Equal(1, counts.PendingAcknowledgements, "yesterday's dispatch still awaits acknowledgement")
	suite.Nil(counts.Routes)
}

func (suite *GetDailyCountsQueryHandlerTestSuite) TestHandle_Salesman_CountsTheRequestedDate() {
	harbour := suite.addRoute(3, "Harbour", true)
	ana := suite.addUser("Ana", staff.Salesman, harbour, true)

	suite.addOrder(ana, harbour, today, order.Created, at(today, 7), 10)
	suite.addOrder(ana, harbour, yesterday, order.Invoiced, at(yesterday, 6), 2)

	counts := suite.handleOn(ana, yesterday)

	suite.Equal(queries.StatusCounts{Invoiced: 1}, counts.Counts)
	suite.Zero(counts.PendingAcknowledgements)
}

func (suite *GetDailyCountsQueryHandlerTestSuite) TestHandle_Factory_DateScopedGlobalView() {
	harbour := suite.addRoute(3, "Harbour", true)
	hills := suite.addRoute(4, "Hills", true)
	ana := suite.addUser("Ana", staff.Salesman, harbour, true)
	bo := suite.addUser("Bo", staff.Salesman, hills, true)
	factory := suite.addUser("Cy", staff.Factory, nil, true)

	suite.addOrder(ana, harbour, today, order.Created, at(today, 7), 10)
	shipped := suite.addOrder(bo, hills, today, order.Dispatched, at(today, 6), 3)
	suite.addDelivery(shipped, delivery.Dispatched, at(today, 8))
	suite.addOrder(bo, hills, yesterday, order.Created, at(yesterday, 7), 5)

	counts := suite.handle(factory)

	suite.Equal(queries.StatusCounts{Created: 1, Dispatched: 1}, counts.Counts)
	suite.Equal(2, counts.PendingDispatch, "created orders of every date")
	suite.Equal(1, counts.DispatchedToday)
}

func (suite *GetDailyCountsQueryHandlerTestSuite) TestHandle_Accountant_PendingAndTodaysVerifications() {
	harbour := suite.addRoute(3, "Harbour", true)
	ana := suite.addUser("Ana", staff.Salesman, harbour, true)
	accountant := suite.addUser("Di", staff.Accountant, nil, true)

	waiting := suite.addOrder(ana, harbour, today, order.Acknowledged, at(today, 5), 1)
	suite.addDelivery(waiting, delivery.Acknowledged, at(today, 6))

	verified := suite.addOrder(ana, harbour, today, order.Verified, at(today, 5), 1)
	suite.addVerification(suite.addDelivery(verified, delivery.Verified, at(today, 6)), at(today, 10), false)

	flagged := suite.addOrder(ana, harbour, today, order.Flagged, at(today, 5), 1)
	suite.addVerification(suite.addDelivery(flagged, delivery.Flagged, at(today, 6)), at(today, 11), true)

	old := suite.addOrder(ana, harbour, yesterday, order.Verified, at(yesterday, 5), 1)
	suite.addVerification(suite.addDelivery(old, delivery.Verified, at(yesterday, 6)), at(yesterday, 10), false)

	counts := suite.handle(accountant)

	suite.Equal(1, counts.PendingVerification)
	suite.Equal(2, counts.VerifiedToday)
	suite.Equal(1, counts.Counts.Verified)
	suite.Equal(1, counts.Counts.Flagged)
}

func (suite *GetDailyCountsQueryHandlerTestSuite) TestHandle_Admin_PerActiveRouteCumulative() {
	harbour := suite.addRoute(3, "Harbour", true)
	hills := suite.addRoute(4, "Hills", true)
	suite.addRoute(5, "Closed", false)
	ana := suite.addUser("Ana", staff.Salesman, harbour, true)
	suite.addUser("Former", staff.Salesman, hills, false)
	admin := suite.addUser("Ed", staff.Admin, nil, true)

	suite.addOrder(ana, harbour, today, order.Created, at(today, 5), 1)
	suite.addOrder(ana, harbour, today, order.Acknowledged, at(today, 5), 1)
	suite.addOrder(ana, harbour, today, order.Invoiced, at(today, 5), 1)
	suite.addOrder(ana, harbour, today, order.Flagged, at(today, 5), 1)
	suite.addOrder(ana, harbour, yesterday, order.Invoiced, at(yesterday, 5), 1)

	counts := suite.handle(admin)

	suite.Require().Len(counts.Routes, 2)

	first := counts.Routes[0]
	suite.Equal(3, first.RouteNumber)
	suite.Equal("Harbour", first.RouteName)
	suite.Require().NotNil(first.Salesman)
	suite.Equal("Ana", first.Salesman.FullName)
	suite.Equal(queries.StatusCounts{
		Created:      4,
		Dispatched:   3,
		Acknowledged: 3,
		Verified:     1,
		Invoiced:     1,
		Flagged:      1,
	}, first.Counts, "flagged orders stay in the dispatched and acknowledged columns")

	second := counts.Routes[1]
	suite.Equal(4, second.RouteNumber)
	suite.Nil(second.Salesman, "inactive salesmen do not hold routes")
	suite.Zero(second.Counts.Total())
}

func (suite *GetDailyCountsQueryHandlerTestSuite) TestHandle_InvalidQuery_ReturnsError() {
	_, err := suite.handler.Handle(context.Background(), queries.GetDailyCountsQuery{})
	suite.Require().ErrorIs(err, queries.ErrGetDailyCountsQueryIsNotConstructed)
}

func (suite *GetDailyCountsQueryHandlerTestSuite) handle(actor *staff.User) queries.DailyCounts {
	return suite.handleOn(actor, today)
}

func (suite *GetDailyCountsQueryHandlerTestSuite) handleOn(actor *staff.User, date kernel.Date) queries.DailyCounts {
	query, err := queries.NewGetDailyCountsQuery(actor, date)
	suite.Require().NoError(err)

	counts, err := suite.handler.Handle(context.Background(), query)
	suite.Require().NoError(err)
	return counts
}

func TestGetDailyCountsQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetDailyCountsQueryHandlerTestSuite))
}
