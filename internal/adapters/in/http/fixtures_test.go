package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	bakeryhttp "bakery/internal/adapters/in/http"
	"bakery/internal/core/application/access"
	"bakery/internal/core/application/usecases/commands"
	"bakery/internal/core/application/usecases/queries"
	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/order"
	"bakery/internal/core/domain/model/staff"
	"bakery/internal/core/ports"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type MockIdentityProvider struct{ mock.Mock }

func (m *MockIdentityProvider) CurrentUser(ctx context.Context, token string) (*ports.Identity, error) {
	args := m.Called(ctx, token)
	identity, _ := args.Get(0).(*ports.Identity)
	return identity, args.Error(1)
}

func (m *MockIdentityProvider) SignOut(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockIdentityProvider) Subscribe(ctx context.Context, handler func(ports.SessionEvent)) (func(), error) {
	args := m.Called(ctx, handler)
	cancel, _ := args.Get(0).(func())
	return cancel, args.Error(1)
}

type MockUserReader struct{ mock.Mock }

func (m *MockUserReader) Get(ctx context.Context, id kernel.UUID) (*staff.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*staff.User)
	return user, args.Error(1)
}

type MockCreateOrderHandler struct{ mock.Mock }

func (m *MockCreateOrderHandler) Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockTransitionHandler struct{ mock.Mock }

func (m *MockTransitionHandler) Handle(
	ctx context.Context,
	cmd commands.ApplyTransitionCommand,
) (commands.TransitionResult, error) {
	args := m.Called(ctx, cmd)
	result, _ := args.Get(0).(commands.TransitionResult)
	return result, args.Error(1)
}

type MockDailyCountsHandler struct{ mock.Mock }

func (m *MockDailyCountsHandler) Handle(
	ctx context.Context,
	query queries.GetDailyCountsQuery,
) (queries.DailyCounts, error) {
	args := m.Called(ctx, query)
	counts, _ := args.Get(0).(queries.DailyCounts)
	return counts, args.Error(1)
}

type MockBusinessDayListHandler struct{ mock.Mock }

func (m *MockBusinessDayListHandler) Handle(
	ctx context.Context,
	query queries.ListBusinessDaysQuery,
) ([]queries.BusinessDayView, error) {
	args := m.Called(ctx, query)
	views, _ := args.Get(0).([]queries.BusinessDayView)
	return views, args.Error(1)
}

type testServer struct {
	echo     *echo.Echo
	identity *MockIdentityProvider
	users    *MockUserReader
	logs     *test.Hook

	createOrder  *MockCreateOrderHandler
	transition   *MockTransitionHandler
	dailyCounts  *MockDailyCountsHandler
	businessDays *MockBusinessDayListHandler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	ts := &testServer{
		echo:         echo.New(),
		identity:     &MockIdentityProvider{},
		users:        &MockUserReader{},
		logs:         hook,
		createOrder:  &MockCreateOrderHandler{},
		transition:   &MockTransitionHandler{},
		dailyCounts:  &MockDailyCountsHandler{},
		businessDays: &MockBusinessDayListHandler{},
	}

	server := bakeryhttp.NewServer(
		bakeryhttp.Handlers{
			CreateOrder:  ts.createOrder,
			Transition:   ts.transition,
			DailyCounts:  ts.dailyCounts,
			BusinessDays: ts.businessDays,
		},
		access.NewGuard(ts.identity, ts.users),
		ts.identity,
		bakeryhttp.NewMetrics(),
		fixedClock{now: now},
		time.UTC,
		logger,
	)
	server.Register(ts.echo)
	return ts
}

// signIn registers a staff profile behind a fresh token.
func (ts *testServer) signIn(t *testing.T, role staff.Role) (*staff.User, string) {
	t.Helper()

	var routeID *kernel.UUID
	if role == staff.Salesman {
		id := kernel.NewUUID()
		routeID = &id
	}
	user, err := staff.NewUser(kernel.NewUUID(), "Staff "+role.String(), strings.ToLower(role.String())+"@bakery.test", role, routeID)
	require.NoError(t, err)

	token := "token-" + user.ID().String()
	ts.identity.On("CurrentUser", mock.Anything, token).Return(&ports.Identity{ID: user.ID(), Email: user.Email()}, nil)
	ts.users.On("Get", mock.Anything, user.ID()).Return(user, nil)
	return user, token
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.echo.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(t *testing.T, method, target, token string, body any) *http.Request {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("User-Agent", "bakery-test")
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) bakeryhttp.Error {
	t.Helper()
	var body bakeryhttp.Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func newCreatedOrder(t *testing.T, salesman *staff.User, productID kernel.UUID, quantity int) *order.Order {
	t.Helper()

	item, err := order.NewItem(kernel.NewUUID(), productID, quantity)
	require.NoError(t, err)

	id := kernel.NewUUID()
	date := kernel.DateOf(now)
	o, err := order.NewOrder(id, order.NewNumber(date, 3, id), *salesman.AssignedRoute(), salesman.ID(), date,
		[]order.Item{item}, now)
	require.NoError(t, err)
	return o
}

func multipartInvoice(t *testing.T, target, token string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("invoice_number", "INV-77"))
	require.NoError(t, writer.WriteField("notes", "paid in cash"))
	part, err := writer.CreateFormFile("file", "INV-77.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	return req
}
