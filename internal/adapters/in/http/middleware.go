package http

import (
	"net/http"
	"strings"

	"bakery/internal/core/application/access"
	"bakery/internal/core/domain/model/audit"
	"bakery/internal/core/domain/model/staff"

	"github.com/labstack/echo/v4"
	"github.com/rs/cors"
)

const (
	// SessionCookie carries the session token for browser callers.
	SessionCookie = "bakery_session"

	userKey = "bakery.user"
)

// sessionFrom reads the session token from the Authorization header or,
// failing that, from the session cookie.
func sessionFrom(ctx echo.Context) access.Session {
	header := ctx.Request().Header.Get(echo.HeaderAuthorization)
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return access.Session{Token: strings.TrimSpace(token)}
	}

	cookie, err := ctx.Cookie(SessionCookie)
	if err != nil {
		return access.Session{}
	}
	return access.Session{Token: cookie.Value}
}

// requireRole runs the access guard before the handler. With no roles any
// active staff profile is accepted.
func (s *Server) requireRole(roles ...staff.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			user, err := s.guard.AuthorizeAny(ctx.Request().Context(), sessionFrom(ctx), roles...)
			if err != nil {
				return err
			}
			ctx.Set(userKey, user)
			return next(ctx)
		}
	}
}

// currentUser is the profile stored by requireRole, or nil.
func currentUser(ctx echo.Context) *staff.User {
	user, _ := ctx.Get(userKey).(*staff.User)
	return user
}

// auditClient records where the request came from so audit entries written
// while serving it carry the client's address and user agent.
func auditClient(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		req := ctx.Request()
		client := audit.Client{IPAddress: ctx.RealIP(), UserAgent: req.UserAgent()}
		ctx.SetRequest(req.WithContext(audit.WithClient(req.Context(), client)))
		return next(ctx)
	}
}

// CORS lets pages served from origins call the API with the session cookie.
func CORS(origins []string) echo.MiddlewareFunc {
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions,
		},
		AllowedHeaders:   []string{echo.HeaderAuthorization, echo.HeaderContentType},
		AllowCredentials: true,
		MaxAge:           300,
	})
	return echo.WrapMiddleware(c.Handler)
}
