// Package session implements the identity provider port with signed session
// tokens. Tokens are HS256 JWTs whose subject is the user id; sign-out
// revokes the token id in a RevocationStore until the token would expire.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/ports"
	"bakery/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const backend = "session store"

// Claims are the fields carried by a session token.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// RevocationStore remembers signed-out tokens and fans session events out to
// every process.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	Publish(ctx context.Context, event ports.SessionEvent) error
	Subscribe(ctx context.Context) (<-chan ports.SessionEvent, func(), error)
}

// Provider is the ports.IdentityProvider backed by JWTs and a RevocationStore.
type Provider struct {
	secret []byte
	issuer string
	store  RevocationStore
	clock  ports.Clock
	log    logrus.FieldLogger
}

func NewProvider(
	secret, issuer string,
	store RevocationStore,
	clock ports.Clock,
	log logrus.FieldLogger,
) (*Provider, error) {
	if len(secret) < 32 {
		return nil, errs.NewValueIsOutOfRangeError("session secret length", len(secret), 32, "unbounded")
	}
	return &Provider{
		secret: []byte(secret),
		issuer: issuer,
		store:  store,
		clock:  clock,
		log:    log.WithField("component", "session"),
	}, nil
}

// Issue signs a token for identity valid for ttl and publishes a sign-in
// event.
func (p *Provider) Issue(ctx context.Context, identity ports.Identity, ttl time.Duration) (string, error) {
	now := p.clock.Now()
	claims := Claims{
		Email: identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   identity.ID.String(),
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	if err = p.store.Publish(ctx, ports.SessionEvent{Kind: ports.SessionSignedIn, UserID: identity.ID, At: now}); err != nil {
		p.log.WithError(err).Warn("publish sign-in event")
	}
	return signed, nil
}

// CurrentUser returns nil for tokens that do not parse, are expired or were
// revoked.
func (p *Provider) CurrentUser(ctx context.Context, token string) (*ports.Identity, error) {
	claims, err := p.parse(token)
	if err != nil {
		p.log.WithError(err).Debug("session token rejected")
		return nil, nil //nolint:nilnil // no active session
	}

	revoked, err := p.store.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, errs.NewBackendUnavailableError(backend, err)
	}
	if revoked {
		return nil, nil //nolint:nilnil // signed out
	}

	id, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		p.log.WithError(err).Debug("session subject is not a user id")
		return nil, nil //nolint:nilnil // no usable session
	}
	return &ports.Identity{ID: id, Email: claims.Email}, nil
}

// SignOut revokes token. Signing out an invalid or expired token is a no-op.
func (p *Provider) SignOut(ctx context.Context, token string) error {
	claims, err := p.parse(token)
	if err != nil {
		return nil
	}

	if err = p.store.Revoke(ctx, claims.ID, claims.ExpiresAt.UTC()); err != nil {
		return errs.NewBackendUnavailableError(backend, err)
	}

	userID, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return nil
	}
	event := ports.SessionEvent{Kind: ports.SessionSignedOut, UserID: userID, At: p.clock.Now()}
	if err = p.store.Publish(ctx, event); err != nil {
		p.log.WithError(err).WithField("user_id", userID.String()).Warn("publish sign-out event")
	}
	return nil
}

// Subscribe delivers session events to handler on its own goroutine.
func (p *Provider) Subscribe(ctx context.Context, handler func(ports.SessionEvent)) (func(), error) {
	events, closeFn, err := p.store.Subscribe(ctx)
	if err != nil {
		return nil, errs.NewBackendUnavailableError(backend, err)
	}

	go func() {
		for event := range events {
			handler(event)
		}
	}()
	return closeFn, nil
}

func (p *Provider) parse(token string) (*Claims, error) {
	if token == "" {
		return nil, errors.New("empty token")
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return p.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(p.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.clock.Now),
	)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
