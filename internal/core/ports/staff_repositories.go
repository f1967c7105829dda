package ports

import (
	"context"

	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/product"
	"bakery/internal/core/domain/model/route"
	"bakery/internal/core/domain/model/staff"
)

// UserRepository persists staff profiles.
type UserRepository interface {
	Add(ctx context.Context, user *staff.User) error
	Update(ctx context.Context, user *staff.User) error

	// Get returns the profile or an ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*staff.User, error)

	// FindActiveSalesman returns the active salesman holding routeID, or nil
	// when the route is unassigned. A route never has more than one.
	FindActiveSalesman(ctx context.Context, routeID kernel.UUID) (*staff.User, error)
}

// RouteRepository persists routes. Route numbers are unique.
type RouteRepository interface {
	Add(ctx context.Context, r *route.Route) error
	Update(ctx context.Context, r *route.Route) error
	Get(ctx context.Context, id kernel.UUID) (*route.Route, error)
}

// ProductRepository persists the catalogue. Product codes are unique.
type ProductRepository interface {
	Add(ctx context.Context, p *product.Product) error
	Get(ctx context.Context, id kernel.UUID) (*product.Product, error)

	// GetMany returns the products for ids keyed by id. Missing ids are absent
	// from the map, not an error.
	GetMany(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]*product.Product, error)
}
