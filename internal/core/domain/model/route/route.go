// Package route models delivery territories. A route is served by at most one
// active salesman at a time; the link lives on the salesman's profile.
package route

import (
	"errors"
	"fmt"
	"strings"

	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/pkg/errs"
	"bakery/internal/pkg/guard"
)

var (
	ErrRouteIsNotConstructed = errors.New("Route must be created via NewRoute or RestoreRoute constructor")
	ErrNameIsRequired        = errs.NewValueIsRequiredError("route name")
)

// Route is a fixed delivery territory identified by a positive number.
type Route struct {
	id          kernel.UUID
	number      int
	name        string
	description string
	isActive    bool

	guard guard.ConstructorGuard
}

// NewRoute creates an active route.
func NewRoute(id kernel.UUID, number int, name, description string) (*Route, error) {
	return RestoreRoute(id, number, name, description, true)
}

// RestoreRoute rebuilds a route from storage.
func RestoreRoute(id kernel.UUID, number int, name, description string, isActive bool) (*Route, error) {
	r := &Route{
		description: strings.TrimSpace(description),
		isActive:    isActive,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setNumber(number),
		r.setName(name),
	); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Route) Validate() error {
	if r == nil {
		return ErrRouteIsNotConstructed
	}
	return r.guard.Validate(ErrRouteIsNotConstructed)
}

func (r *Route) ID() kernel.UUID {
	return r.id
}

func (r *Route) Number() int {
	return r.number
}

func (r *Route) Name() string {
	return r.name
}

func (r *Route) Description() string {
	return r.description
}

func (r *Route) IsActive() bool {
	return r.isActive
}

// Label is the human readable form used in reports, e.g. "Route 3 - North".
func (r *Route) Label() string {
	return fmt.Sprintf("Route %d - %s", r.number, r.name)
}

// Deactivate retires the route. Existing orders keep referencing it.
func (r *Route) Deactivate() {
	r.isActive = false
}

func (r *Route) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Route) setNumber(number int) error {
	if number <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("route number", fmt.Errorf("%d is not greater than 0", number))
	}
	r.number = number
	return nil
}

func (r *Route) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	r.name = name
	return nil
}
