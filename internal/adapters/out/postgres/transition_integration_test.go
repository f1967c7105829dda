package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"bakery/internal/adapters/out/postgres"
	"bakery/internal/adapters/out/postgres/pgtest"
	"bakery/internal/core/application/usecases/commands"
	"bakery/internal/core/domain/model/delivery"
	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/order"
	"bakery/internal/core/domain/model/product"
	"bakery/internal/core/domain/model/route"
	"bakery/internal/core/domain/model/staff"
	"bakery/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// memoryStorage keeps uploaded invoice files in memory.
type memoryStorage struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (s *memoryStorage) Upload(_ context.Context, path string, content []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = content
	return "https://files.bakery.test/" + path, nil
}

func (s *memoryStorage) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
	return nil
}

// TransitionIntegrationTestSuite drives the order workflow end to end through
// the command handlers on a real PostgreSQL.
type TransitionIntegrationTestSuite struct {
	suite.Suite
	database *pgtest.Database
	storage  *memoryStorage

	createOrder commands.CreateOrderCommandHandler
	transition  commands.ApplyTransitionCommandHandler
	closeDay    commands.CloseBusinessDayCommandHandler

	salesman   *staff.User
	other      *staff.User
	factory    *staff.User
	accountant *staff.User
	admin      *staff.User
	bread      *product.Product
	rolls      *product.Product
}

func (suite *TransitionIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
	suite.Require().NoError(postgres.Migrate(database.DB))

	uows := postgres.NewGormUnitOfWorkFactory(database.DB)
	clock := fixedClock{now: time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)}

	suite.createOrder = commands.NewCreateOrderCommandHandler(
		commands.OrderUoWFactoryFunc(func() commands.OrderUoW { return uows.Create() }), clock, time.UTC)
	suite.closeDay = commands.NewCloseBusinessDayCommandHandler(
		commands.BusinessDayUoWFactoryFunc(func() commands.BusinessDayUoW { return uows.Create() }), clock, time.UTC)

	suite.storage = &memoryStorage{files: map[string][]byte{}}
	suite.transition = commands.NewApplyTransitionCommandHandler(
		commands.TransitionUoWFactoryFunc(func() commands.TransitionUoW { return uows.Create() }), suite.storage, clock, time.UTC)
}

func (suite *TransitionIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(postgres.TruncateAll(suite.database.DB))
	suite.storage.files = map[string][]byte{}
	suite.seed()
}

func (suite *TransitionIntegrationTestSuite) TearDownSuite() {
	if suite.database != nil {
		suite.Require().NoError(suite.database.Stop(context.Background()))
	}
}

func (suite *TransitionIntegrationTestSuite) TestWorkflow_FromCreationToInvoice() {
	ctx := context.Background()

	o := suite.placeOrder()
	suite.Equal(order.Created, o.Status())
	suite.Len(o.Items(), 2)

	result := suite.dispatch(o, 9, 5)
	suite.Equal(order.Dispatched, result.Order.Status())
	suite.Equal(map[kernel.UUID]int{suite.bread.ID(): -1, suite.rolls.ID(): 0}, result.Delivery.Variances())

	_, err := suite.apply(suite.other, o, order.Acknowledged, commands.AcknowledgePayload{})
	suite.Require().ErrorIs(err, errs.ErrForbidden)
	suite.Equal(order.Dispatched, suite.reload(o).Status())

	result, err = suite.apply(suite.salesman, o, order.Acknowledged, commands.AcknowledgePayload{Notes: "all good"})
	suite.Require().NoError(err)
	suite.Equal(order.Acknowledged, result.Order.Status())
	suite.Equal(delivery.Acknowledged, result.Delivery.Status())

	result, err = suite.apply(suite.accountant, o, order.Verified, commands.VerifyPayload{})
	suite.Require().NoError(err)
	suite.Equal(order.Verified, result.Order.Status())

	result, err = suite.apply(suite.salesman, o, order.Invoiced, commands.InvoicePayload{
		InvoiceNumber: "INV-77",
		FileName:      "invoice.pdf",
		ContentType:   "application/pdf",
		Content:       []byte("%PDF-1.4"),
	})
	suite.Require().NoError(err)
	suite.Equal("https://files.bakery.test/invoices/"+o.Number()+"/INV-77.pdf", result.InvoiceURL)

	stored := suite.reload(o)
	suite.Equal(order.Invoiced, stored.Status())
	suite.True(stored.IsLocked())
	suite.Len(suite.storage.files, 1)

	var entries int64
	suite.Require().NoError(suite.database.DB.WithContext(ctx).Table("audit_logs").Count(&entries).Error)
	suite.Equal(int64(5), entries, "create, dispatch, acknowledge, verify, invoice")
}

func (suite *TransitionIntegrationTestSuite) TestVerify_WithoutAcknowledgement() {
	o := suite.placeOrder()
	suite.dispatch(o, 10, 5)

	_, err := suite.apply(suite.accountant, o, order.Verified, commands.VerifyPayload{})
	suite.Require().ErrorIs(err, errs.ErrInvalidStateTransition)
	suite.Equal(order.Dispatched, suite.reload(o).Status())
}

func (suite *TransitionIntegrationTestSuite) TestDispatch_Replay_IsAlreadyProcessed() {
	o := suite.placeOrder()
	suite.dispatch(o, 10, 5)

	_, err := suite.apply(suite.factory, o, order.Dispatched, commands.DispatchPayload{Lines: suite.lines(10, 5)})
	suite.Require().ErrorIs(err, errs.ErrAlreadyProcessed)
}

func (suite *TransitionIntegrationTestSuite) TestConcurrentVerification_ExactlyOneWins() {
	ctx := context.Background()
	o := suite.placeOrder()
	suite.dispatch(o, 10, 5)
	_, err := suite.apply(suite.salesman, o, order.Acknowledged, commands.AcknowledgePayload{})
	suite.Require().NoError(err)

	second, err := staff.NewUser(kernel.NewUUID(), "Second Accountant", "acc2@bakery.test", staff.Accountant, nil)
	suite.Require().NoError(err)

	verify, err := commands.NewApplyTransitionCommand(suite.accountant, o.ID(), order.Verified,
		commands.VerifyPayload{Notes: "clean"})
	suite.Require().NoError(err)
	flag, err := commands.NewApplyTransitionCommand(second, o.ID(), order.Flagged,
		commands.VerifyPayload{Flagged: true, FlagReason: "short delivery"})
	suite.Require().NoError(err)
	attempts := []commands.ApplyTransitionCommand{verify, flag}

	results := make([]error, len(attempts))
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i, cmd := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, results[i] = suite.transition.Handle(ctx, cmd)
		}()
	}
	close(start)
	wg.Wait()

	var winners, duplicates int
	for _, err := range results {
		switch {
		case err == nil:
			winners++
		case errs.IsExpected(err):
			suite.Require().ErrorIs(err, errs.ErrInvalidPayload)
			duplicates++
		default:
			suite.Failf("unexpected error", "%v", err)
		}
	}
	suite.Equal(1, winners)
	suite.Equal(1, duplicates)

	var rows []struct {
		IsFlagged bool
	}
	suite.Require().NoError(suite.database.DB.WithContext(ctx).Table("verifications").Find(&rows).Error)
	suite.Require().Len(rows, 1)

	stored := suite.reload(o)
	suite.Equal(rows[0].IsFlagged, stored.Status() == order.Flagged)
}

func (suite *TransitionIntegrationTestSuite) TestCloseBusinessDay_SnapshotsTheDay() {
	o := suite.placeOrder()
	suite.dispatch(o, 10, 5)
	suite.placeOrderFor(suite.other)

	cmd, err := commands.NewCloseBusinessDayCommand(suite.admin, kernel.NewDate(2025, time.March, 14), "")
	suite.Require().NoError(err)

	closed, err := suite.closeDay.Handle(context.Background(), cmd)
	suite.Require().NoError(err)
	suite.Equal(2, closed.Totals().Orders)
	suite.Equal(1, closed.Totals().Deliveries)

	_, err = suite.closeDay.Handle(context.Background(), cmd)
	suite.Require().ErrorIs(err, errs.ErrAlreadyProcessed)
}

func (suite *TransitionIntegrationTestSuite) seed() {
	ctx := context.Background()
	uow := postgres.NewGormUnitOfWorkFactory(suite.database.DB).Create()
	suite.Require().NoError(uow.Begin(ctx))

	harbour, err := route.NewRoute(kernel.NewUUID(), 3, "Harbour", "")
	suite.Require().NoError(err)
	hills, err := route.NewRoute(kernel.NewUUID(), 4, "Hills", "")
	suite.Require().NoError(err)
	suite.Require().NoError(uow.RouteRepository().Add(ctx, harbour))
	suite.Require().NoError(uow.RouteRepository().Add(ctx, hills))

	harbourID, hillsID := harbour.ID(), hills.ID()
	suite.salesman = suite.addUser(uow.UserRepository().Add, "Ana Costa", "ana@bakery.test", staff.Salesman, &harbourID)
	suite.other = suite.addUser(uow.UserRepository().Add, "Bo Reyes", "bo@bakery.test", staff.Salesman, &hillsID)
	suite.factory = suite.addUser(uow.UserRepository().Add, "Cy Park", "cy@bakery.test", staff.Factory, nil)
	suite.accountant = suite.addUser(uow.UserRepository().Add, "Di Ivers", "di@bakery.test", staff.Accountant, nil)
	suite.admin = suite.addUser(uow.UserRepository().Add, "Ed Moss", "ed@bakery.test", staff.Admin, nil)

	suite.bread, err = product.NewProduct(kernel.NewUUID(), "WHT", "White loaf", "", decimal.RequireFromString("2.50"))
	suite.Require().NoError(err)
	suite.rolls, err = product.NewProduct(kernel.NewUUID(), "ROL", "Rolls", "", decimal.RequireFromString("0.60"))
	suite.Require().NoError(err)
	suite.Require().NoError(uow.ProductRepository().Add(ctx, suite.bread))
	suite.Require().NoError(uow.ProductRepository().Add(ctx, suite.rolls))

	suite.Require().NoError(uow.Commit(ctx))
}

func (suite *TransitionIntegrationTestSuite) addUser(
	add func(context.Context, *staff.User) error,
	name, email string,
	role staff.Role,
	routeID *kernel.UUID,
) *staff.User {
	u, err := staff.NewUser(kernel.NewUUID(), name, email, role, routeID)
	suite.Require().NoError(err)
	suite.Require().NoError(add(context.Background(), u))
	return u
}

func (suite *TransitionIntegrationTestSuite) placeOrder() *order.Order {
	return suite.placeOrderFor(suite.salesman)
}

func (suite *TransitionIntegrationTestSuite) placeOrderFor(salesman *staff.User) *order.Order {
	cmd, err := commands.NewCreateOrderCommand(salesman, []commands.OrderLine{
		{ProductID: suite.bread.ID(), Quantity: 10},
		{ProductID: suite.rolls.ID(), Quantity: 5},
	})
	suite.Require().NoError(err)

	o, err := suite.createOrder.Handle(context.Background(), cmd)
	suite.Require().NoError(err)
	return o
}

func (suite *TransitionIntegrationTestSuite) lines(bread, rolls int) []commands.DispatchLine {
	return []commands.DispatchLine{
		{ProductID: suite.bread.ID(), DeliveredQuantity: bread},
		{ProductID: suite.rolls.ID(), DeliveredQuantity: rolls},
	}
}

func (suite *TransitionIntegrationTestSuite) dispatch(o *order.Order, bread, rolls int) commands.TransitionResult {
	result, err := suite.apply(suite.factory, o, order.Dispatched, commands.DispatchPayload{Lines: suite.lines(bread, rolls)})
	suite.Require().NoError(err)
	return result
}

func (suite *TransitionIntegrationTestSuite) apply(
	actor *staff.User,
	o *order.Order,
	target order.Status,
	payload commands.Payload,
) (commands.TransitionResult, error) {
	cmd, err := commands.NewApplyTransitionCommand(actor, o.ID(), target, payload)
	suite.Require().NoError(err)
	return suite.transition.Handle(context.Background(), cmd)
}

func (suite *TransitionIntegrationTestSuite) reload(o *order.Order) *order.Order {
	uow := postgres.NewGormUnitOfWorkFactory(suite.database.DB).Create()
	stored, err := uow.OrderRepository().Get(context.Background(), o.ID())
	suite.Require().NoError(err)
	return stored
}

func TestTransitionIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(TransitionIntegrationTestSuite))
}
