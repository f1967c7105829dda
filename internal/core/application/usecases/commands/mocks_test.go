package commands_test

import (
	"context"
	"testing"
	"time"

	"bakery/internal/core/application/usecases/commands"
	"bakery/internal/core/domain/model/audit"
	"bakery/internal/core/domain/model/businessday"
	"bakery/internal/core/domain/model/delivery"
	"bakery/internal/core/domain/model/invoice"
	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/order"
	"bakery/internal/core/domain/model/product"
	"bakery/internal/core/domain/model/route"
	"bakery/internal/core/domain/model/staff"
	"bakery/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) ReplaceItems(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) CompareAndSetStatus(
	ctx context.Context,
	id kernel.UUID,
	from, to order.Status,
	locked bool,
) error {
	return m.Called(ctx, id, from, to, locked).Error(0)
}

func (m *MockOrderRepository) CountPendingAcknowledgements(ctx context.Context, salesmanID kernel.UUID) (int, error) {
	args := m.Called(ctx, salesmanID)
	return args.Int(0), args.Error(1)
}

type MockDeliveryRepository struct{ mock.Mock }

func (m *MockDeliveryRepository) Add(ctx context.Context, d *delivery.Delivery) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDeliveryRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, orderID)
	d, _ := args.Get(0).(*delivery.Delivery)
	return d, args.Error(1)
}

func (m *MockDeliveryRepository) ExistsForOrder(ctx context.Context, orderID kernel.UUID) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDeliveryRepository) CompareAndSetStatus(
	ctx context.Context,
	id kernel.UUID,
	from, to delivery.Status,
) error {
	return m.Called(ctx, id, from, to).Error(0)
}

func (m *MockDeliveryRepository) AddAcknowledgement(ctx context.Context, ack *delivery.Acknowledgement) error {
	return m.Called(ctx, ack).Error(0)
}

func (m *MockDeliveryRepository) HasAcknowledgement(ctx context.Context, deliveryID kernel.UUID) (bool, error) {
	args := m.Called(ctx, deliveryID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDeliveryRepository) AddVerification(ctx context.Context, v *delivery.Verification) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockDeliveryRepository) HasVerification(ctx context.Context, deliveryID kernel.UUID) (bool, error) {
	args := m.Called(ctx, deliveryID)
	return args.Bool(0), args.Error(1)
}

type MockInvoiceRepository struct{ mock.Mock }

func (m *MockInvoiceRepository) Add(ctx context.Context, inv *invoice.Invoice) error {
	return m.Called(ctx, inv).Error(0)
}

func (m *MockInvoiceRepository) ExistsForOrder(ctx context.Context, orderID kernel.UUID) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Add(ctx context.Context, u *staff.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, u *staff.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) Get(ctx context.Context, id kernel.UUID) (*staff.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*staff.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) FindActiveSalesman(ctx context.Context, routeID kernel.UUID) (*staff.User, error) {
	args := m.Called(ctx, routeID)
	u, _ := args.Get(0).(*staff.User)
	return u, args.Error(1)
}

type MockRouteRepository struct{ mock.Mock }

func (m *MockRouteRepository) Add(ctx context.Context, r *route.Route) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRouteRepository) Update(ctx context.Context, r *route.Route) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRouteRepository) Get(ctx context.Context, id kernel.UUID) (*route.Route, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*route.Route)
	return r, args.Error(1)
}

type MockProductRepository struct{ mock.Mock }

func (m *MockProductRepository) Add(ctx context.Context, p *product.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductRepository) Get(ctx context.Context, id kernel.UUID) (*product.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*product.Product)
	return p, args.Error(1)
}

func (m *MockProductRepository) GetMany(
	ctx context.Context,
	ids []kernel.UUID,
) (map[kernel.UUID]*product.Product, error) {
	args := m.Called(ctx, ids)
	found, _ := args.Get(0).(map[kernel.UUID]*product.Product)
	return found, args.Error(1)
}

type MockBusinessDayRepository struct{ mock.Mock }

func (m *MockBusinessDayRepository) Add(ctx context.Context, day *businessday.BusinessDay) error {
	return m.Called(ctx, day).Error(0)
}

func (m *MockBusinessDayRepository) ComputeTotals(
	ctx context.Context,
	date kernel.Date,
	loc *time.Location,
) (businessday.Totals, error) {
	args := m.Called(ctx, date, loc)
	totals, _ := args.Get(0).(businessday.Totals)
	return totals, args.Error(1)
}

type MockAuditLogRepository struct{ mock.Mock }

func (m *MockAuditLogRepository) Append(ctx context.Context, entry *audit.Entry) error {
	return m.Called(ctx, entry).Error(0)
}

type MockFileStorage struct{ mock.Mock }

func (m *MockFileStorage) Upload(ctx context.Context, path string, content []byte, contentType string) (string, error) {
	args := m.Called(ctx, path, content, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockFileStorage) Delete(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}

// MockUoW satisfies every unit of work interface of the package. Repositories
// are plain fields so tests only set expectations on what they exercise.
type MockUoW struct {
	mock.Mock

	orders     *MockOrderRepository
	deliveries *MockDeliveryRepository
	invoices   *MockInvoiceRepository
	users      *MockUserRepository
	routes     *MockRouteRepository
	products   *MockProductRepository
	days       *MockBusinessDayRepository
	auditLog   *MockAuditLogRepository
}

// newMockUoW expects Begin and tolerates the deferred Rollback. Commit must be
// expected by the test.
func newMockUoW() *MockUoW {
	uow := &MockUoW{
		orders:     new(MockOrderRepository),
		deliveries: new(MockDeliveryRepository),
		invoices:   new(MockInvoiceRepository),
		users:      new(MockUserRepository),
		routes:     new(MockRouteRepository),
		products:   new(MockProductRepository),
		days:       new(MockBusinessDayRepository),
		auditLog:   new(MockAuditLogRepository),
	}
	uow.On("Begin", mock.Anything).Return(nil).Once()
	uow.On("Rollback", mock.Anything).Return(nil).Maybe()
	return uow
}

func (m *MockUoW) expectCommit() {
	m.On("Commit", mock.Anything).Return(nil).Once()
}

func (m *MockUoW) expectAudit(action string) {
	m.auditLog.On("Append", mock.Anything, mock.MatchedBy(func(e *audit.Entry) bool {
		return e.Action() == action
	})).Return(nil).Once()
}

func (m *MockUoW) assertExpectations(t *testing.T) {
	t.Helper()
	m.AssertExpectations(t)
	m.orders.AssertExpectations(t)
	m.deliveries.AssertExpectations(t)
	m.invoices.AssertExpectations(t)
	m.users.AssertExpectations(t)
	m.routes.AssertExpectations(t)
	m.products.AssertExpectations(t)
	m.days.AssertExpectations(t)
	m.auditLog.AssertExpectations(t)
}

func (m *MockUoW) Begin(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository             { return m.orders }
func (m *MockUoW) DeliveryRepository() ports.DeliveryRepository       { return m.deliveries }
func (m *MockUoW) InvoiceRepository() ports.InvoiceRepository         { return m.invoices }
func (m *MockUoW) UserRepository() ports.UserRepository               { return m.users }
func (m *MockUoW) RouteRepository() ports.RouteRepository             { return m.routes }
func (m *MockUoW) ProductRepository() ports.ProductRepository         { return m.products }
func (m *MockUoW) BusinessDayRepository() ports.BusinessDayRepository { return m.days }
func (m *MockUoW) AuditLogRepository() ports.AuditLogRepository       { return m.auditLog }

type orderUoWFactory struct{ uow *MockUoW }

func (f orderUoWFactory) Create() commands.OrderUoW { return f.uow }

type transitionUoWFactory struct{ uow *MockUoW }

func (f transitionUoWFactory) Create() commands.TransitionUoW { return f.uow }

type adminUoWFactory struct{ uow *MockUoW }

func (f adminUoWFactory) Create() commands.AdminUoW { return f.uow }

type businessDayUoWFactory struct{ uow *MockUoW }

func (f businessDayUoWFactory) Create() commands.BusinessDayUoW { return f.uow }

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var testNow = time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)

func newUser(t *testing.T, role staff.Role, routeID *kernel.UUID) *staff.User {
	t.Helper()
	u, err := staff.NewUser(kernel.NewUUID(), role.String()+" User", role.String()+"@bakery.test", role, routeID)
	require.NoError(t, err)
	return u
}

func newSalesman(t *testing.T) (*staff.User, *route.Route) {
	t.Helper()
	r, err := route.NewRoute(kernel.NewUUID(), 3, "Harbour", "")
	require.NoError(t, err)
	routeID := r.ID()
	return newUser(t, staff.Salesman, &routeID), r
}

func newProduct(t *testing.T, code string) *product.Product {
	t.Helper()
	p, err := product.NewProduct(kernel.NewUUID(), code, code+" loaf", "", decimal.RequireFromString("2.50"))
	require.NoError(t, err)
	return p
}

// newOrderIn builds an order owned by salesman in the given status with one
// line of quantity per product.
func newOrderIn(
	t *testing.T,
	salesman *staff.User,
	status order.Status,
	quantity int,
	products ...*product.Product,
) *order.Order {
	t.Helper()
	items := make([]order.Item, 0, len(products))
	for _, p := range products {
		item, err := order.NewItem(kernel.NewUUID(), p.ID(), quantity)
		require.NoError(t, err)
		items = append(items, item)
	}

	id := kernel.NewUUID()
	today := kernel.DateOf(testNow)
	o, err := order.RestoreOrder(id, order.NewNumber(today, 3, id), *salesman.AssignedRoute(), salesman.ID(),
		today, status, false, items, testNow)
	require.NoError(t, err)
	return o
}

func newDeliveryFor(t *testing.T, o *order.Order, status delivery.Status, delivered int) *delivery.Delivery {
	t.Helper()
	items := make([]delivery.Item, 0, len(o.Items()))
	for _, ordered := range o.Items() {
		item, err := delivery.NewItem(kernel.NewUUID(), ordered.ProductID(), ordered.Quantity(), delivered)
		require.NoError(t, err)
		items = append(items, item)
	}

	d, err := delivery.RestoreDelivery(kernel.NewUUID(), o.ID(), kernel.NewUUID(), kernel.DateOf(testNow), testNow,
		status, "", items)
	require.NoError(t, err)
	return d
}
