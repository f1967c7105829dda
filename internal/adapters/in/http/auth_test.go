package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	bakeryhttp "bakery/internal/adapters/in/http"
	"bakery/internal/core/application/access"
	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/staff"
	"bakery/internal/core/ports"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestServer_SessionEvents(t *testing.T) {
	ts := newTestServer(t)
	user, token := ts.signIn(t, staff.Accountant)

	subscribed := make(chan func(ports.SessionEvent), 1)
	var stopped atomic.Bool
	ts.identity.On("Subscribe", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			subscribed <- args.Get(1).(func(ports.SessionEvent))
		}).
		Return(func() { stopped.Store(true) }, nil).
		Once()

	server := httptest.NewServer(ts.echo)
	defer server.Close()

	header := http.Header{}
	header.Set(echo.HeaderAuthorization, "Bearer "+token)
	conn, resp, err := websocket.DefaultDialer.Dial(
		"ws"+strings.TrimPrefix(server.URL, "http")+"/auth/events", header)
	require.NoError(t, err)
	defer conn.Close()
	defer resp.Body.Close()

	var publish func(ports.SessionEvent)
	select {
	case publish = <-subscribed:
	case <-time.After(5 * time.Second):
		t.Fatal("no subscription")
	}

	// another user's sign-out is not forwarded
	publish(ports.SessionEvent{Kind: ports.SessionSignedOut, UserID: kernel.NewUUID(), At: now})
	publish(ports.SessionEvent{Kind: ports.SessionSignedOut, UserID: user.ID(), At: now})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var event bakeryhttp.SessionEvent
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "SIGNED_OUT", event.Kind)
	assert.True(t, event.At.Equal(now))

	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "socket closed after sign-out: %v", err)
	assert.Eventually(t, stopped.Load, 5*time.Second, 10*time.Millisecond, "subscription released")
	ts.identity.AssertExpectations(t)
}

func TestServer_SessionEvents_RedirectsWithoutSession(t *testing.T) {
	ts := newTestServer(t)

	server := httptest.NewServer(ts.echo)
	defer server.Close()

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/auth/events", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, access.LoginPath, resp.Header.Get("Location"))
	ts.identity.AssertNotCalled(t, "Subscribe", mock.Anything, mock.Anything)
}
