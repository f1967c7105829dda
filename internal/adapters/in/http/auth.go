package http

import (
	"context"
	"net/http"
	"time"

	"bakery/internal/core/ports"
	"bakery/internal/pkg/errs"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const eventWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// SessionEvent is pushed to the caller's open pages.
type SessionEvent struct {
	Kind string    `json:"kind"`
	At   time.Time `json:"at"`
}

// Logout handles POST /auth/logout. It revokes the caller's token and clears
// the session cookie. A request without a session succeeds as well.
func (s *Server) Logout(ctx echo.Context) error {
	session := sessionFrom(ctx)
	if session.Token != "" {
		if err := s.identity.SignOut(ctx.Request().Context(), session.Token); err != nil {
			return errs.Classify("identity provider", err)
		}
	}

	ctx.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return ctx.NoContent(http.StatusNoContent)
}

// SessionEvents handles GET /auth/events. The connection is upgraded to a
// websocket that receives the caller's session events; after a sign-out the
// socket is closed so the page can return to the login view.
func (s *Server) SessionEvents(ctx echo.Context) error {
	user := currentUser(ctx)
	log := s.log.WithField("actor_id", user.ID().String())

	conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		// the upgrader has already answered the request
		log.WithError(err).Debug("websocket upgrade failed")
		return nil
	}
	defer conn.Close()

	streamCtx, cancel := context.WithCancel(ctx.Request().Context())
	defer cancel()

	events := make(chan ports.SessionEvent, 8)
	stop, err := s.identity.Subscribe(streamCtx, func(event ports.SessionEvent) {
		if !event.UserID.IsEqual(user.ID()) {
			return
		}
		select {
		case events <- event:
		case <-streamCtx.Done():
		}
	})
	if err != nil {
		log.WithError(err).Error("session events subscription failed")
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "session events unavailable"))
		return nil
	}
	defer stop()

	// Reading is only needed to notice the client going away.
	go func() {
		defer cancel()
		for {
			if _, _, readErr := conn.NextReader(); readErr != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-streamCtx.Done():
			return nil
		case event := <-events:
			_ = conn.SetWriteDeadline(time.Now().Add(eventWriteTimeout))
			if err = conn.WriteJSON(SessionEvent{Kind: string(event.Kind), At: event.At}); err != nil {
				log.WithError(err).Debug("session event not delivered")
				return nil
			}
			if event.Kind == ports.SessionSignedOut {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "signed out"))
				return nil
			}
		}
	}
}
