package http

import (
	"context"
	"net/http"
	"time"

	"bakery/internal/core/application/access"
	"bakery/internal/core/application/usecases/commands"
	"bakery/internal/core/application/usecases/queries"
	"bakery/internal/core/domain/model/businessday"
	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/order"
	"bakery/internal/core/domain/model/product"
	"bakery/internal/core/domain/model/route"
	"bakery/internal/core/domain/model/staff"
	"bakery/internal/core/ports"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type (
	CreateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
	}
	ChangeOrderItemsHandler interface {
		Handle(ctx context.Context, cmd commands.ChangeOrderItemsCommand) (*order.Order, error)
	}
	TransitionHandler interface {
		Handle(ctx context.Context, cmd commands.ApplyTransitionCommand) (commands.TransitionResult, error)
	}
	CreateRouteHandler interface {
		Handle(ctx context.Context, cmd commands.CreateRouteCommand) (*route.Route, error)
	}
	DeactivateRouteHandler interface {
		Handle(ctx context.Context, cmd commands.DeactivateRouteCommand) error
	}
	CreateUserHandler interface {
		Handle(ctx context.Context, cmd commands.CreateUserCommand) (*staff.User, error)
	}
	UpdateUserHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateUserCommand) (*staff.User, error)
	}
	DeactivateUserHandler interface {
		Handle(ctx context.Context, cmd commands.DeactivateUserCommand) error
	}
	CreateProductHandler interface {
		Handle(ctx context.Context, cmd commands.CreateProductCommand) (*product.Product, error)
	}
	CloseBusinessDayHandler interface {
		Handle(ctx context.Context, cmd commands.CloseBusinessDayCommand) (*businessday.BusinessDay, error)
	}

	DailyCountsHandler interface {
		Handle(ctx context.Context, query queries.GetDailyCountsQuery) (queries.DailyCounts, error)
	}
	WorkQueueHandler interface {
		Handle(ctx context.Context, query queries.GetWorkQueueQuery) ([]queries.WorkItem, error)
	}
	ProductListHandler interface {
		Handle(ctx context.Context, query queries.ListActiveProductsQuery) ([]queries.ProductView, error)
	}
	RouteListHandler interface {
		Handle(ctx context.Context, query queries.ListRoutesQuery) ([]queries.RouteView, error)
	}
	BusinessDayListHandler interface {
		Handle(ctx context.Context, query queries.ListBusinessDaysQuery) ([]queries.BusinessDayView, error)
	}
)

// Authorizer resolves the caller's session to a staff profile.
type Authorizer interface {
	AuthorizeAny(ctx context.Context, session access.Session, roles ...staff.Role) (*staff.User, error)
}

// Handlers groups the use cases served over HTTP.
type Handlers struct {
	CreateOrder      CreateOrderHandler
	ChangeOrderItems ChangeOrderItemsHandler
	Transition       TransitionHandler
	CreateRoute      CreateRouteHandler
	DeactivateRoute  DeactivateRouteHandler
	CreateUser       CreateUserHandler
	UpdateUser       UpdateUserHandler
	DeactivateUser   DeactivateUserHandler
	CreateProduct    CreateProductHandler
	CloseBusinessDay CloseBusinessDayHandler

	DailyCounts  DailyCountsHandler
	WorkQueue    WorkQueueHandler
	Products     ProductListHandler
	Routes       RouteListHandler
	BusinessDays BusinessDayListHandler
}

// Server exposes the bakery workflow over HTTP. Every view passes through the
// access guard first; expected failures are rendered as JSON errors and
// backend failures are logged with the caller's context.
type Server struct {
	handlers Handlers
	guard    Authorizer
	identity ports.IdentityProvider
	metrics  *Metrics
	clock    ports.Clock
	location *time.Location
	log      logrus.FieldLogger
}

func NewServer(
	handlers Handlers,
	guard Authorizer,
	identity ports.IdentityProvider,
	metrics *Metrics,
	clock ports.Clock,
	location *time.Location,
	log logrus.FieldLogger,
) *Server {
	return &Server{
		handlers: handlers,
		guard:    guard,
		identity: identity,
		metrics:  metrics,
		clock:    clock,
		location: location,
		log:      log.WithField("component", "http"),
	}
}

// Register mounts every route on e.
func (s *Server) Register(e *echo.Echo) {
	e.Validator = NewValidator()
	e.HTTPErrorHandler = s.handleError

	e.Use(s.metrics.Middleware())
	e.Use(auditClient)

	e.GET("/health", func(ctx echo.Context) error {
		return ctx.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))

	e.GET(access.LoginPath, s.Login)
	e.POST("/auth/logout", s.Logout)
	e.GET("/auth/events", s.SessionEvents, s.requireRole())

	e.GET("/dashboard", s.GetDashboard, s.requireRole())
	e.GET("/queue", s.GetWorkQueue, s.requireRole())
	e.GET("/products", s.ListProducts, s.requireRole())

	e.POST("/orders", s.CreateOrder, s.requireRole(staff.Salesman))
	e.PUT("/orders/:id/items", s.ChangeOrderItems, s.requireRole(staff.Salesman))
	e.POST("/orders/:id/transitions", s.ApplyTransition, s.requireRole())
	e.POST("/orders/:id/invoice", s.UploadInvoice, s.requireRole())

	admin := e.Group("/admin", s.requireRole(staff.Admin))
	admin.GET("/routes", s.ListRoutes)
	admin.POST("/routes", s.CreateRoute)
	admin.POST("/routes/:id/deactivate", s.DeactivateRoute)
	admin.POST("/users", s.CreateUser)
	admin.PUT("/users/:id", s.UpdateUser)
	admin.POST("/users/:id/deactivate", s.DeactivateUser)
	admin.POST("/products", s.CreateProduct)
	admin.GET("/business-days", s.ListBusinessDays)
	admin.POST("/business-days", s.CloseBusinessDay)
	admin.GET("/business-days/export", s.ExportBusinessDays)
}

// today is the current business date.
func (s *Server) today() kernel.Date {
	return kernel.DateOf(s.clock.Now().In(s.location))
}

// dateParam reads a YYYY-MM-DD query parameter, falling back to fallback.
func (s *Server) dateParam(ctx echo.Context, name string, fallback kernel.Date) (kernel.Date, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}
	return kernel.ParseDate(raw)
}

func idParam(ctx echo.Context) (kernel.UUID, error) {
	return parseID("id", ctx.Param("id"))
}
