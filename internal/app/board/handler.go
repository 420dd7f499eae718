package board

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler interface {
	GetSettings(c *gin.Context)
	GetSummary(c *gin.Context)
}

type handler struct {
	service Service
}

func NewHandler(service Service) Handler {
	return &handler{service: service}
}

// @Summary Board settings
// @Description Title, partition slug and background of the board served by this deployment
// @Tags Board
// @Produce json
// @Success 200 {object} Settings
// @Router /api/board [get]
func (h *handler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Settings())
}

// @Summary Board summary
// @Description Plan counts per status for a board
// @Tags Board
// @Produce json
// @Param slug path string true "Board slug"
// @Success 200 {object} Summary
// @Failure 500 {object} ErrorResponse
// @Router /api/boards/{slug} [get]
func (h *handler) GetSummary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to summarize board"})
		return
	}
	c.JSON(http.StatusOK, summary)
}
