package http

import (
	"net/http"
	"strconv"

	"bakery/internal/core/application/usecases/commands"
	"bakery/internal/core/application/usecases/queries"
	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/staff"
	"bakery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type CreateRouteRequest struct {
	Number      int    `json:"route_number" validate:"gt=0"`
	Name        string `json:"name"         validate:"required,max=120"`
	Description string `json:"description"  validate:"max=500"`
}

type CreateUserRequest struct {
	ID       string  `json:"id"        validate:"required,uuid"`
	FullName string  `json:"full_name" validate:"required,max=200"`
	Email    string  `json:"email"     validate:"required,email"`
	Role     string  `json:"role"      validate:"required"`
	RouteID  *string `json:"route_id"  validate:"omitempty,uuid"`
}

type UpdateUserRequest struct {
	FullName string  `json:"full_name" validate:"required,max=200"`
	Role     string  `json:"role"      validate:"required"`
	RouteID  *string `json:"route_id"  validate:"omitempty,uuid"`
}

type CreateProductRequest struct {
	Code        string          `json:"product_code" validate:"required,max=50"`
	Name        string          `json:"name"         validate:"required,max=200"`
	Description string          `json:"description"  validate:"max=500"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type CloseBusinessDayRequest struct {
	Date  string `json:"date"  validate:"omitempty,datetime=2006-01-02"`
	Notes string `json:"notes" validate:"max=2000"`
}

// ListRoutes handles GET /admin/routes?include_inactive=true.
func (s *Server) ListRoutes(ctx echo.Context) error {
	includeInactive := false
	if raw := ctx.QueryParam("include_inactive"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return errs.NewValueIsInvalidErrorWithCause("include_inactive", err)
		}
		includeInactive = parsed
	}

	views, err := s.handlers.Routes.Handle(ctx.Request().Context(), queries.NewListRoutesQuery(includeInactive))
	if err != nil {
		return err
	}

	response := make([]Route, 0, len(views))
	for _, v := range views {
		response = append(response, newRouteView(v))
	}
	return ctx.JSON(http.StatusOK, response)
}

// CreateRoute handles POST /admin/routes.
func (s *Server) CreateRoute(ctx echo.Context) error {
	var req CreateRouteRequest
	if err := s.bind(ctx, &req); err != nil {
		return err
	}

	cmd, err := commands.NewCreateRouteCommand(currentUser(ctx), req.Number, req.Name, req.Description)
	if err != nil {
		return err
	}

	r, err := s.handlers.CreateRoute.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, newRoute(r))
}

// DeactivateRoute handles POST /admin/routes/:id/deactivate.
func (s *Server) DeactivateRoute(ctx echo.Context) error {
	routeID, err := idParam(ctx)
	if err != nil {
		return err
	}

	cmd, err := commands.NewDeactivateRouteCommand(currentUser(ctx), routeID)
	if err != nil {
		return err
	}

	if err = s.handlers.DeactivateRoute.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// CreateUser handles POST /admin/users. The id is the one the identity
// provider assigned to the person.
func (s *Server) CreateUser(ctx echo.Context) error {
	var req CreateUserRequest
	if err := s.bind(ctx, &req); err != nil {
		return err
	}

	userID, err := parseID("id", req.ID)
	if err != nil {
		return err
	}
	role, err := staff.ParseRole(req.Role)
	if err != nil {
		return err
	}
	routeID, err := parseOptionalID("route_id", req.RouteID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCreateUserCommand(currentUser(ctx), userID, req.FullName, req.Email, role, routeID)
	if err != nil {
		return err
	}

	u, err := s.handlers.CreateUser.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, newUser(u))
}

// UpdateUser handles PUT /admin/users/:id.
func (s *Server) UpdateUser(ctx echo.Context) error {
	userID, err := idParam(ctx)
	if err != nil {
		return err
	}

	var req UpdateUserRequest
	if err = s.bind(ctx, &req); err != nil {
		return err
	}

	role, err := staff.ParseRole(req.Role)
	if err != nil {
		return err
	}
	routeID, err := parseOptionalID("route_id", req.RouteID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateUserCommand(currentUser(ctx), userID, req.FullName, role, routeID)
	if err != nil {
		return err
	}

	u, err := s.handlers.UpdateUser.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newUser(u))
}

// DeactivateUser handles POST /admin/users/:id/deactivate.
func (s *Server) DeactivateUser(ctx echo.Context) error {
	userID, err := idParam(ctx)
	if err != nil {
		return err
	}

	cmd, err := commands.NewDeactivateUserCommand(currentUser(ctx), userID)
	if err != nil {
		return err
	}

	if err = s.handlers.DeactivateUser.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// CreateProduct handles POST /admin/products.
func (s *Server) CreateProduct(ctx echo.Context) error {
	var req CreateProductRequest
	if err := s.bind(ctx, &req); err != nil {
		return err
	}

	cmd, err := commands.NewCreateProductCommand(currentUser(ctx), req.Code, req.Name, req.Description, req.UnitPrice)
	if err != nil {
		return err
	}

	p, err := s.handlers.CreateProduct.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, newProduct(p))
}

// CloseBusinessDay handles POST /admin/business-days. The date defaults to
// today.
func (s *Server) CloseBusinessDay(ctx echo.Context) error {
	var req CloseBusinessDayRequest
	if err := s.bind(ctx, &req); err != nil {
		return err
	}

	date := s.today()
	if req.Date != "" {
		parsed, err := kernel.ParseDate(req.Date)
		if err != nil {
			return err
		}
		date = parsed
	}

	actor := currentUser(ctx)
	cmd, err := commands.NewCloseBusinessDayCommand(actor, date, req.Notes)
	if err != nil {
		return err
	}

	day, err := s.handlers.CloseBusinessDay.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, newBusinessDay(day, actor))
}

// ListBusinessDays handles GET /admin/business-days?from=&to=. The range
// defaults to the last 30 days.
func (s *Server) ListBusinessDays(ctx echo.Context) error {
	views, err := s.businessDays(ctx)
	if err != nil {
		return err
	}

	response := make([]BusinessDay, 0, len(views))
	for _, v := range views {
		response = append(response, newBusinessDayView(v))
	}
	return ctx.JSON(http.StatusOK, response)
}

func (s *Server) businessDays(ctx echo.Context) ([]queries.BusinessDayView, error) {
	today := s.today()
	to, err := s.dateParam(ctx, "to", today)
	if err != nil {
		return nil, err
	}

	monthAgo := kernel.DateOf(today.Time(s.location).AddDate(0, 0, -30))
	from, err := s.dateParam(ctx, "from", monthAgo)
	if err != nil {
		return nil, err
	}

	query, err := queries.NewListBusinessDaysQuery(from, to)
	if err != nil {
		return nil, err
	}
	return s.handlers.BusinessDays.Handle(ctx.Request().Context(), query)
}
