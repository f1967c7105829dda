package queries_test

import (
	"context"
	"time"

	"bakery/internal/adapters/out/postgres"
	"bakery/internal/adapters/out/postgres/businessdayrepo"
	"bakery/internal/adapters/out/postgres/deliveryrepo"
	"bakery/internal/adapters/out/postgres/orderrepo"
	"bakery/internal/adapters/out/postgres/pgtest"
	"bakery/internal/adapters/out/postgres/productrepo"
	"bakery/internal/adapters/out/postgres/routerepo"
	"bakery/internal/adapters/out/postgres/userrepo"
	"bakery/internal/core/domain/model/businessday"
	"bakery/internal/core/domain/model/delivery"
	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/order"
	"bakery/internal/core/domain/model/product"
	"bakery/internal/core/domain/model/route"
	"bakery/internal/core/domain/model/staff"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

var (
	today     = kernel.NewDate(2025, time.March, 14)
	yesterday = kernel.NewDate(2025, time.March, 13)
)

// databaseSuite starts one PostgreSQL per suite and empties it before every
// test. Query suites embed it and seed rows through the repositories.
type databaseSuite struct {
	suite.Suite
	database *pgtest.Database
	db       *gorm.DB
}

func (s *databaseSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	s.Require().NoError(err)
	s.database = database
	s.db = database.DB
	s.Require().NoError(postgres.Migrate(s.db))
}

func (s *databaseSuite) SetupTest() {
	s.Require().NoError(postgres.TruncateAll(s.db))
}

func (s *databaseSuite) TearDownSuite() {
	if s.database != nil {
		s.Require().NoError(s.database.Stop(context.Background()))
	}
}

func (s *databaseSuite) addRoute(number int, name string, active bool) *route.Route {
	r, err := route.RestoreRoute(kernel.NewUUID(), number, name, "", active)
	s.Require().NoError(err)
	s.Require().NoError(routerepo.NewGormRouteRepository(s.db).Add(context.Background(), r))
	return r
}

func (s *databaseSuite) addUser(name string, role staff.Role, r *route.Route, active bool) *staff.User {
	var routeID *kernel.UUID
	if r != nil {
		id := r.ID()
		routeID = &id
	}

	u, err := staff.RestoreUser(kernel.NewUUID(), name, kernel.NewUUID().String()+"@bakery.test", role, routeID, active)
	s.Require().NoError(err)
	s.Require().NoError(userrepo.NewGormUserRepository(s.db).Add(context.Background(), u))
	return u
}

func (s *databaseSuite) addProduct(code, name, price string, active bool) *product.Product {
	p, err := product.RestoreProduct(kernel.NewUUID(), code, name, "", decimal.RequireFromString(price), active)
	s.Require().NoError(err)
	s.Require().NoError(productrepo.NewGormProductRepository(s.db).Add(context.Background(), p))
	return p
}

// addOrder stores an order for salesman on r in status, one line per quantity.
func (s *databaseSuite) addOrder(
	salesman *staff.User,
	r *route.Route,
	date kernel.Date,
	status order.Status,
	createdAt time.Time,
	quantities ...int,
) *order.Order {
	items := make([]order.Item, 0, len(quantities))
	for _, q := range quantities {
		item, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), q)
		s.Require().NoError(err)
		items = append(items, item)
	}

	id := kernel.NewUUID()
	o, err := order.RestoreOrder(id, order.NewNumber(date, r.Number(), id), r.ID(), salesman.ID(), date,
		status, false, items, createdAt)
	s.Require().NoError(err)
	s.Require().NoError(orderrepo.NewGormOrderRepository(s.db).Add(context.Background(), o))
	return o
}

func (s *databaseSuite) addDelivery(o *order.Order, status delivery.Status, dispatchedAt time.Time) *delivery.Delivery {
	items := make([]delivery.Item, 0, len(o.Items()))
	for _, ordered := range o.Items() {
		item, err := delivery.NewItem(kernel.NewUUID(), ordered.ProductID(), ordered.Quantity(), ordered.Quantity())
		s.Require().NoError(err)
		items = append(items, item)
	}

	d, err := delivery.RestoreDelivery(kernel.NewUUID(), o.ID(), kernel.NewUUID(), kernel.DateOf(dispatchedAt),
		dispatchedAt, status, "", items)
	s.Require().NoError(err)
	s.Require().NoError(deliveryrepo.NewGormDeliveryRepository(s.db).Add(context.Background(), d))
	return d
}

func (s *databaseSuite) addVerification(d *delivery.Delivery, verifiedAt time.Time, flagged bool) {
	reason := ""
	if flagged {
		reason = "crates missing"
	}

	v, err := delivery.NewVerification(kernel.NewUUID(), d.ID(), d.OrderID(), kernel.NewUUID(), verifiedAt,
		flagged, reason, "")
	s.Require().NoError(err)
	s.Require().NoError(deliveryrepo.NewGormDeliveryRepository(s.db).AddVerification(context.Background(), v))
}

func (s *databaseSuite) addBusinessDay(date kernel.Date, closedBy *staff.User, totals businessday.Totals) {
	day, err := businessday.NewBusinessDay(kernel.NewUUID(), date, totals, closedBy.ID(), date.Time(time.UTC).Add(18*time.Hour), "")
	s.Require().NoError(err)
	s.Require().NoError(businessdayrepo.NewGormBusinessDayRepository(s.db).Add(context.Background(), day))
}

func at(date kernel.Date, hour int) time.Time {
	return date.Time(time.UTC).Add(time.Duration(hour) * time.Hour)
}
