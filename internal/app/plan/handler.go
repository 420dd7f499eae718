package plan

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler interface {
	ListPlans(c *gin.Context)
	CreatePlan(c *gin.Context)
	GetPlan(c *gin.Context)
	UpdatePlan(c *gin.Context)
	UpdatePlanStatus(c *gin.Context)
	DeletePlan(c *gin.Context)
}

type handler struct {
	service Service
}

func NewHandler(service Service) Handler {
	return &handler{service: service}
}

// @Summary List plans of a board
// @Description Plans of the board, newest first, optionally filtered by text and status. Counts cover the whole board.
// @Tags Plan
// @Produce json
// @Param slug path string true "Board slug"
// @Param q query string false "Case-insensitive text filter"
// @Param status query string false "all, wishlist, planned or done"
// @Success 200 {object} ListResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/boards/{slug}/plans [get]
func (h *handler) ListPlans(c *gin.Context) {
	status, err := ParseStatusFilter(c.DefaultQuery("status", string(FilterAll)))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	plans, err := h.service.List(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, err, "failed to fetch plans")
		return
	}

	view := Derive(plans, c.Query("q"), status)
	c.JSON(http.StatusOK, ListResponse{Plans: view.Plans, Counts: view.Counts})
}

// @Summary Create a plan
// @Tags Plan
// @Accept json
// @Produce json
// @Param slug path string true "Board slug"
// @Param plan body Fields true "Plan fields"
// @Success 201 {object} Plan
// @Failure 400 {object} ErrorResponse
// @Router /api/boards/{slug}/plans [post]
func (h *handler) CreatePlan(c *gin.Context) {
	var req Fields
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	plan, err := h.service.Create(c.Request.Context(), c.Param("slug"), req)
	if err != nil {
		writeError(c, err, err.Error())
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// @Summary Get a plan
// @Tags Plan
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} Plan
// @Failure 404 {object} ErrorResponse
// @Router /api/plans/{id} [get]
func (h *handler) GetPlan(c *gin.Context) {
	plan, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to fetch plan")
		return
	}
	c.JSON(http.StatusOK, plan)
}

// @Summary Overwrite a plan
// @Tags Plan
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param plan body Fields true "Plan fields"
// @Success 200 {object} Plan
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/plans/{id} [put]
func (h *handler) UpdatePlan(c *gin.Context) {
	var req Fields
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	plan, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err, "failed to update plan")
		return
	}
	c.JSON(http.StatusOK, plan)
}

// @Summary Change the status of a plan
// @Tags Plan
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param status body StatusRequest true "New status"
// @Success 200 {object} Plan
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/plans/{id}/status [patch]
func (h *handler) UpdatePlanStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	plan, err := h.service.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err, "failed to change plan status")
		return
	}
	c.JSON(http.StatusOK, plan)
}

// @Summary Delete a plan
// @Tags Plan
// @Param id path string true "Plan ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /api/plans/{id} [delete]
func (h *handler) DeletePlan(c *gin.Context) {
	if err := h.service.Remove(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err, "failed to delete plan")
		return
	}
	c.Status(http.StatusNoContent)
}

func writeError(c *gin.Context, err error, internalMsg string) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrEmptyTitle),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidPriority),
		errors.Is(err, ErrInvalidCost),
		errors.Is(err, ErrInvalidBoard):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: internalMsg})
	}
}
