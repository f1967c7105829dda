package staff

import (
	"errors"
	"fmt"
	"strings"

	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/pkg/errs"
	"bakery/internal/pkg/guard"

	"github.com/go-playground/validator/v10"
)

var emailRule = validator.New()

var (
	ErrUserIsNotConstructed  = errors.New("User must be created via NewUser or RestoreUser constructor")
	ErrFullNameIsRequired    = errs.NewValueIsRequiredError("full name")
	ErrEmailIsRequired       = errs.NewValueIsRequiredError("email")
	ErrSalesmanRouteRequired = errs.NewValueIsRequiredError("assigned route")
	ErrRouteNotAllowed       = errs.NewValueIsInvalidErrorWithCause(
		"assigned route",
		errors.New("only salesmen can be assigned to a route"),
	)
)

// User is a staff profile. The identity itself lives at the identity provider;
// a User links that identity (same id) to a role and, for salesmen, a route.
//
// Invariants enforced by NewUser and Update:
//   - full name and email are present
//   - role is one of Admin, Salesman, Factory, Accountant
//   - a Salesman holds exactly one route, other roles hold none
//
// RestoreUser tolerates a Salesman without a route because such rows exist in
// stored data. Operations that need the route check AssignedRoute explicitly.
type User struct {
	id       kernel.UUID
	fullName string
	email    string
	role     Role
	routeID  *kernel.UUID
	isActive bool

	guard guard.ConstructorGuard
}

// NewUser creates an active staff profile.
func NewUser(id kernel.UUID, fullName, email string, role Role, routeID *kernel.UUID) (*User, error) {
	u := &User{
		isActive: true,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		u.setID(id),
		u.setFullName(fullName),
		u.setEmail(email),
		u.setRole(role, routeID, true),
	); err != nil {
		return nil, err
	}

	return u, nil
}

// RestoreUser rebuilds a User from storage.
func RestoreUser(
	id kernel.UUID,
	fullName, email string,
	role Role,
	routeID *kernel.UUID,
	isActive bool,
) (*User, error) {
	u := &User{
		isActive: isActive,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		u.setID(id),
		u.setFullName(fullName),
		u.setEmail(email),
		u.setRole(role, routeID, false),
	); err != nil {
		return nil, err
	}

	return u, nil
}

func (u *User) Validate() error {
	if u == nil {
		return ErrUserIsNotConstructed
	}
	return u.guard.Validate(ErrUserIsNotConstructed)
}

func (u *User) ID() kernel.UUID {
	return u.id
}

func (u *User) FullName() string {
	return u.fullName
}

func (u *User) Email() string {
	return u.email
}

func (u *User) Role() Role {
	return u.role
}

func (u *User) IsActive() bool {
	return u.isActive
}

func (u *User) IsEqual(other *User) bool {
	return other != nil && u.id.IsEqual(other.id)
}

// AssignedRoute returns the salesman's route, or nil.
func (u *User) AssignedRoute() *kernel.UUID {
	if u.routeID == nil {
		return nil
	}
	id := *u.routeID
	return &id
}

// HasRole reports whether the user is active and holds role.
func (u *User) HasRole(role Role) bool {
	return u.isActive && u.role == role
}

// Update replaces the editable profile fields. The same route rules as
// NewUser apply.
func (u *User) Update(fullName string, role Role, routeID *kernel.UUID) error {
	next := *u
	if err := errors.Join(
		next.setFullName(fullName),
		next.setRole(role, routeID, true),
	); err != nil {
		return err
	}

	*u = next
	return nil
}

// Deactivate disables the profile. Inactive users fail every access check.
func (u *User) Deactivate() {
	u.isActive = false
}

func (u *User) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	u.id = id
	return nil
}

func (u *User) setFullName(fullName string) error {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return ErrFullNameIsRequired
	}
	u.fullName = fullName
	return nil
}

func (u *User) setEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmailIsRequired
	}
	if err := emailRule.Var(email, "email"); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("email", fmt.Errorf("%q: %w", email, err))
	}
	u.email = strings.ToLower(email)
	return nil
}

func (u *User) setRole(role Role, routeID *kernel.UUID, strict bool) error {
	if err := role.Validate(); err != nil {
		return err
	}

	if routeID != nil {
		if err := routeID.Validate(); err != nil {
			return err
		}
	}

	switch {
	case role.RequiresRoute() && routeID == nil && strict:
		return ErrSalesmanRouteRequired
	case !role.RequiresRoute() && routeID != nil:
		return ErrRouteNotAllowed
	}

	u.role = role
	if routeID == nil {
		u.routeID = nil
	} else {
		id := *routeID
		u.routeID = &id
	}
	return nil
}
