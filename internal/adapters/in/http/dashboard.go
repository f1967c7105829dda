package http

import (
	"net/http"

	"bakery/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

// GetDashboard handles GET /dashboard?date=YYYY-MM-DD for the caller's role.
func (s *Server) GetDashboard(ctx echo.Context) error {
	date, err := s.dateParam(ctx, "date", s.today())
	if err != nil {
		return err
	}

	query, err := queries.NewGetDailyCountsQuery(currentUser(ctx), date)
	if err != nil {
		return err
	}

	counts, err := s.handlers.DailyCounts.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newDashboard(counts))
}

// GetWorkQueue handles GET /queue?date=YYYY-MM-DD: the orders waiting on the
// caller's role.
func (s *Server) GetWorkQueue(ctx echo.Context) error {
	date, err := s.dateParam(ctx, "date", s.today())
	if err != nil {
		return err
	}

	query, err := queries.NewGetWorkQueueQuery(currentUser(ctx), date)
	if err != nil {
		return err
	}

	items, err := s.handlers.WorkQueue.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]WorkItem, 0, len(items))
	for _, item := range items {
		response = append(response, newWorkItem(item))
	}
	return ctx.JSON(http.StatusOK, response)
}

// ListProducts handles GET /products.
func (s *Server) ListProducts(ctx echo.Context) error {
	views, err := s.handlers.Products.Handle(ctx.Request().Context(), queries.NewListActiveProductsQuery())
	if err != nil {
		return err
	}

	response := make([]Product, 0, len(views))
	for _, v := range views {
		response = append(response, newProductView(v))
	}
	return ctx.JSON(http.StatusOK, response)
}
