package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"wishboard/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startHub(t *testing.T) (*Hub, *utils.EventBus, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	bus := utils.NewEventBus()
	hub := NewHub(zap.NewNop(), bus)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	engine := gin.New()
	RegisterRoutes(engine, hub)
	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	return hub, bus, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHub_BroadcastsToEveryClient(t *testing.T) {
	hub, bus, url := startHub(t)

	a := dial(t, url)
	b := dial(t, url)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, 2*time.Second, 10*time.Millisecond)

	bus.Publish("plans_changed", map[string]string{"type": "DELETE", "table": "plans"})

	for _, conn := range []*websocket.Conn{a, b} {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)

		var event utils.Event
		require.NoError(t, json.Unmarshal(msg, &event))
		assert.Equal(t, "plans_changed", event.Event)
	}
}

func TestHub_UnregistersOnDisconnect(t *testing.T) {
	hub, _, url := startHub(t)

	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_ClosesConnectionsAfterStop(t *testing.T) {
	gin.SetMode(gin.TestMode)

	hub := NewHub(zap.NewNop(), utils.NewEventBus())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	engine := gin.New()
	RegisterRoutes(engine, hub)
	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	conn := dial(t, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws")
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)

	var netErr net.Error
	assert.False(t, errors.As(err, &netErr) && netErr.Timeout(), "connection was left open: %v", err)
	assert.Zero(t, hub.ClientCount())
}
