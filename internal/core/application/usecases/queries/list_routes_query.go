package queries

import (
	"context"
	"errors"

	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/staff"
	"bakery/internal/pkg/errs"
	"bakery/internal/pkg/guard"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrListRoutesQueryIsNotConstructed = errors.New(
	"ListRoutesQuery must be created via NewListRoutesQuery constructor",
)

// ListRoutesQuery lists routes with the salesman currently holding each one.
type ListRoutesQuery struct {
	includeInactive bool

	guard guard.ConstructorGuard
}

func NewListRoutesQuery(includeInactive bool) ListRoutesQuery {
	return ListRoutesQuery{includeInactive: includeInactive, guard: guard.NewConstructorGuard()}
}

func (q ListRoutesQuery) Validate() error {
	return q.guard.Validate(ErrListRoutesQueryIsNotConstructed)
}

func (q ListRoutesQuery) IncludeInactive() bool {
	return q.includeInactive
}

// RouteView is a route and its salesman. Salesman is nil when no active
// salesman is assigned.
type RouteView struct {
	ID          kernel.UUID
	Number      int
	Name        string
	Description string
	IsActive    bool
	Salesman    *SalesmanRef
}

type ListRoutesQueryHandler struct {
	db *gorm.DB
}

func NewListRoutesQueryHandler(db *gorm.DB) ListRoutesQueryHandler {
	return ListRoutesQueryHandler{db: db}
}

// Handle returns routes ordered by route number.
func (h ListRoutesQueryHandler) Handle(ctx context.Context, query ListRoutesQuery) ([]RouteView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	routes, err := h.list(ctx, query.IncludeInactive())
	if err != nil {
		return nil, errs.Classify(backend, err)
	}
	return routes, nil
}

func (h ListRoutesQueryHandler) list(ctx context.Context, includeInactive bool) ([]RouteView, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT r.id, r.route_number, r.route_name, r.description, r.is_active, s.id, s.full_name
		FROM routes r
		LEFT JOIN LATERAL (
			SELECT u.id, u.full_name
			FROM users u
			WHERE u.assigned_route_id = r.id AND u.role = @salesman AND u.is_active
			ORDER BY u.full_name
			LIMIT 1
		) s ON true
		WHERE r.is_active OR @includeInactive
		ORDER BY r.route_number
	`, map[string]any{
		"salesman":        staff.Salesman.String(),
		"includeInactive": includeInactive,
	}).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routes := make([]RouteView, 0)
	for rows.Next() {
		var (
			r            RouteView
			id           uuid.UUID
			salesmanID   uuid.NullUUID
			salesmanName *string
		)
		if err = rows.Scan(&id, &r.Number, &r.Name, &r.Description, &r.IsActive, &salesmanID, &salesmanName); err != nil {
			return nil, err
		}

		if r.ID, err = idFrom(id); err != nil {
			return nil, err
		}
		if salesmanID.Valid && salesmanName != nil {
			sid, idErr := idFrom(salesmanID.UUID)
			if idErr != nil {
				return nil, idErr
			}
			r.Salesman = &SalesmanRef{ID: sid, FullName: *salesmanName}
		}
		routes = append(routes, r)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return routes, nil
}
