// Package access gates every role-specific view. A caller without an active
// session, without an active profile, or with a different role is sent back
// to the login page rather than shown a forbidden page.
package access

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/staff"
	"bakery/internal/core/ports"
	"bakery/internal/pkg/errs"
)

// LoginPath is where rejected callers are redirected.
const LoginPath = "/auth/login"

// ErrRedirect matches every RedirectError.
var ErrRedirect = errors.New("redirect")

// RedirectError tells the transport to send the caller to Location.
type RedirectError struct {
	Location string
	Reason   string
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("redirect to %s: %s", e.Location, e.Reason)
}

func (e *RedirectError) Unwrap() error {
	return ErrRedirect
}

func redirectToLogin(reason string) *RedirectError {
	return &RedirectError{Location: LoginPath, Reason: reason}
}

// Session carries the caller's session token explicitly; nothing is read
// from ambient state.
type Session struct {
	Token string
}

// UserReader loads staff profiles.
type UserReader interface {
	Get(ctx context.Context, id kernel.UUID) (*staff.User, error)
}

// Guard resolves a session to an authorized staff profile.
type Guard struct {
	identity ports.IdentityProvider
	users    UserReader
}

func NewGuard(identity ports.IdentityProvider, users UserReader) *Guard {
	return &Guard{identity: identity, users: users}
}

// Authorize returns the caller's profile when it is active and holds
// requiredRole. Every other outcome except a backend failure is a
// RedirectError to LoginPath.
func (g *Guard) Authorize(ctx context.Context, session Session, requiredRole staff.Role) (*staff.User, error) {
	return g.AuthorizeAny(ctx, session, requiredRole)
}

// AuthorizeAny is Authorize for views shared by several roles. With no roles
// any active profile passes.
func (g *Guard) AuthorizeAny(ctx context.Context, session Session, roles ...staff.Role) (*staff.User, error) {
	token := strings.TrimSpace(session.Token)
	if token == "" {
		return nil, redirectToLogin("no active session")
	}

	identity, err := g.identity.CurrentUser(ctx, token)
	if err != nil {
		return nil, errs.Classify("identity provider", err)
	}
	if identity == nil {
		return nil, redirectToLogin("session expired or signed out")
	}

	user, err := g.users.Get(ctx, identity.ID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, redirectToLogin("no staff profile for identity")
	}
	if err != nil {
		return nil, errs.Classify("postgres", err)
	}

	if !user.IsActive() {
		return nil, redirectToLogin("staff profile is inactive")
	}

	if len(roles) == 0 {
		return user, nil
	}
	for _, role := range roles {
		if user.Role() == role {
			return user, nil
		}
	}
	return nil, redirectToLogin(fmt.Sprintf("role %s may not open this view", user.Role()))
}
