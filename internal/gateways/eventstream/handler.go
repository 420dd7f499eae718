package eventstream

import (
	"io"
	"net/http"
	"time"

	"wishboard/internal/utils"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const keepAlive = 25 * time.Second

// Handler streams every event of the bus to the client as server-sent
// events, for consumers that cannot hold a websocket.
type Handler struct {
	eventBus *utils.EventBus
	logger   *zap.SugaredLogger
}

func NewHandler(eventBus *utils.EventBus, logger *zap.Logger) *Handler {
	return &Handler{eventBus: eventBus, logger: logger.Sugar()}
}

// @Summary Change stream
// @Description Server-sent events, one "plans_changed" event per committed write on any board
// @Tags Plan
// @Produce text/event-stream
// @Success 200
// @Router /api/changes [get]
func (h *Handler) Stream(c *gin.Context) {
	events, cancel := h.eventBus.SubscribeCh()
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	c.Render(-1, sse.Event{Event: "ready", Data: gin.H{"timestamp": time.Now().UTC().Unix()}})
	c.Writer.Flush()

	h.logger.Debugw("Event stream opened", "client_ip", c.ClientIP())

	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.Render(-1, sse.Event{Event: event.Event, Data: event.Data})
			return true
		case <-ticker.C:
			c.Render(-1, sse.Event{Event: "ping", Data: time.Now().UTC().Unix()})
			return true
		}
	})

	h.logger.Debugw("Event stream closed", "client_ip", c.ClientIP())
}

func RegisterRoutes(rg gin.IRoutes, handler *Handler) {
	rg.GET("/changes", handler.Stream)
}
