package http

import (
	"errors"
	"net/http"

	"bakery/internal/core/application/access"
	"bakery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Error is the body of every failed request.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	codeForbidden              = "forbidden"
	codeAlreadyProcessed       = "already_processed"
	codeInvalidStateTransition = "invalid_state_transition"
	codeInvalidPayload         = "invalid_payload"
	codeNotFound               = "not_found"
	codeBackendUnavailable     = "backend_unavailable"
	codeLoginRequired          = "login_required"
	codeInternal               = "internal"
)

// classify maps err to a status code and an error code. AlreadyProcessed is
// checked before InvalidPayload because it matches both.
func classify(err error) (int, string) {
	var httpErr *echo.HTTPError

	switch {
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden, codeForbidden
	case errors.Is(err, errs.ErrAlreadyProcessed):
		return http.StatusConflict, codeAlreadyProcessed
	case errors.Is(err, errs.ErrInvalidStateTransition):
		return http.StatusConflict, codeInvalidStateTransition
	case errors.Is(err, errs.ErrInvalidPayload),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusUnprocessableEntity, codeInvalidPayload
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, errs.ErrBackendUnavailable):
		return http.StatusServiceUnavailable, codeBackendUnavailable
	case errors.As(err, &httpErr):
		return httpErr.Code, http.StatusText(httpErr.Code)
	default:
		return http.StatusInternalServerError, codeInternal
	}
}

func statusOf(err error) int {
	if errors.Is(err, access.ErrRedirect) {
		return http.StatusSeeOther
	}
	status, _ := classify(err)
	return status
}

// handleError is the echo error handler. Redirects from the access guard send
// the caller to the login page.
func (s *Server) handleError(err error, ctx echo.Context) {
	if ctx.Response().Committed {
		return
	}

	var redirect *access.RedirectError
	if errors.As(err, &redirect) {
		s.log.WithField("path", ctx.Path()).Debugf("redirecting: %s", redirect.Reason)
		if rErr := ctx.Redirect(http.StatusSeeOther, redirect.Location); rErr != nil {
			s.log.WithError(rErr).Error("failed to write redirect")
		}
		return
	}

	status, code := classify(err)
	entry := s.log.WithFields(logrus.Fields{
		"method": ctx.Request().Method,
		"path":   ctx.Path(),
		"status": status,
	})
	if actor := currentUser(ctx); actor != nil {
		entry = entry.WithField("actor_id", actor.ID().String())
	}
	if id := ctx.Param("id"); id != "" {
		entry = entry.WithField("record_id", id)
	}

	message := err.Error()
	switch {
	case status >= http.StatusInternalServerError:
		entry.WithError(err).Error("request failed")
		if status == http.StatusInternalServerError {
			message = http.StatusText(status)
		}
	default:
		entry.WithError(err).Debug("request rejected")
	}

	if wErr := ctx.JSON(status, Error{Code: code, Message: message}); wErr != nil {
		s.log.WithError(wErr).Error("failed to write error response")
	}
}

// Login is where the access guard sends callers without a usable session.
// Signing in happens at the identity provider.
func (s *Server) Login(ctx echo.Context) error {
	return ctx.JSON(http.StatusUnauthorized, Error{
		Code:    codeLoginRequired,
		Message: "sign in at the identity provider and retry with the issued session token",
	})
}
