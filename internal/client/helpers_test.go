package client

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"wishboard/internal/app/board"
	"wishboard/internal/app/plan"
	"wishboard/internal/config"
	"wishboard/internal/db"
	"wishboard/internal/gateways/websocket"
	"wishboard/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testBoard = "nuestro-tablero"

type testServer struct {
	api   *Client
	wsURL string
	hub   *websocket.Hub
}

// newTestServer runs the plan API with an in-memory database and the
// websocket change feed.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(gdb, zap.NewNop()))

	bus := utils.NewEventBus()
	plans := plan.NewService(plan.NewRepository(gdb), nil, plan.NewBusNotifier(bus), zap.NewNop())
	boards := board.NewService(config.Board{Title: "Nuestros planes", Slug: testBoard, BGOverlay: 0.86}, plans)

	hub := websocket.NewHub(zap.NewNop(), bus)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	engine := gin.New()
	api := engine.Group("/api")
	plan.RegisterRoutes(api, plan.NewHandler(plans))
	board.RegisterRoutes(api, board.NewHandler(boards))
	websocket.RegisterRoutes(engine, hub)

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	return &testServer{
		api:   New(srv.URL),
		wsURL: "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws",
		hub:   hub,
	}
}

type listResult struct {
	plans []*plan.Plan
	err   error
}

// gatedLister holds every List call until the test releases it through
// the gate of that call.
type gatedLister struct {
	mu    sync.Mutex
	calls int
	gates []chan listResult
}

func newGatedLister(n int) *gatedLister {
	l := &gatedLister{gates: make([]chan listResult, n)}
	for i := range l.gates {
		l.gates[i] = make(chan listResult, 1)
	}
	return l
}

func (l *gatedLister) List(ctx context.Context, slug string) ([]*plan.Plan, error) {
	l.mu.Lock()
	i := l.calls
	l.calls++
	l.mu.Unlock()

	select {
	case r := <-l.gates[i]:
		return r.plans, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *gatedLister) Calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

type fakePrompter struct {
	mu       sync.Mutex
	alerts   []string
	confirm  bool
	confirms int
}

func (p *fakePrompter) Alert(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.alerts = append(p.alerts, msg)
}

func (p *fakePrompter) Confirm(string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.confirms++
	return p.confirm
}

func titled(title string) Values {
	v := DefaultValues()
	v.Title = title
	return v
}
