package ports

import (
	"context"
	"time"

	"bakery/internal/core/domain/model/kernel"
)

// Identity is what the identity provider knows about a signed-in caller.
type Identity struct {
	ID    kernel.UUID
	Email string
}

// SessionEventKind tells subscribers what happened to a session.
type SessionEventKind string

const (
	SessionSignedIn  SessionEventKind = "SIGNED_IN"
	SessionSignedOut SessionEventKind = "SIGNED_OUT"
)

// SessionEvent is delivered to IdentityProvider subscribers.
type SessionEvent struct {
	Kind   SessionEventKind
	UserID kernel.UUID
	At     time.Time
}

// IdentityProvider resolves session tokens issued by the external identity
// service.
type IdentityProvider interface {
	// CurrentUser returns the identity behind token, or nil when the token is
	// missing, expired or revoked. A provider outage is a BackendUnavailableError.
	CurrentUser(ctx context.Context, token string) (*Identity, error)

	// SignOut revokes token and notifies subscribers.
	SignOut(ctx context.Context, token string) error

	// Subscribe calls handler for every session event until ctx is done or the
	// returned cancel function is called.
	Subscribe(ctx context.Context, handler func(SessionEvent)) (cancel func(), err error)
}
