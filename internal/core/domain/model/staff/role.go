package staff

import (
	"fmt"
	"strings"

	"bakery/internal/pkg/errs"
)

// Role is the closed set of staff roles. Every permission decision in the
// system is made against a Role value, never against a raw string.
type Role int

const (
	// UnknownRole is the zero value and never authorizes anything.
	UnknownRole Role = iota
	Admin
	Salesman
	Factory
	Accountant
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		UnknownRole: "Unknown",
		Admin:       "Admin",
		Salesman:    "Salesman",
		Factory:     "Factory",
		Accountant:  "Accountant",
	}
}

// Roles lists every valid role in display order.
func Roles() []Role {
	return []Role{Admin, Salesman, Factory, Accountant}
}

// ParseRole accepts the stored role names case-insensitively.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles() {
		if strings.EqualFold(strings.TrimSpace(s), r.String()) {
			return r, nil
		}
	}
	return UnknownRole, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", s))
}

func (r Role) String() string {
	if str, ok := getRoleStrings()[r]; ok {
		return str
	}
	return "Unknown"
}

// Validate rejects UnknownRole and out of range values.
func (r Role) Validate() error {
	if r < Admin || r > Accountant {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// RequiresRoute reports whether users with this role must hold a route.
func (r Role) RequiresRoute() bool {
	return r == Salesman
}
