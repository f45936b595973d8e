package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ghilbi/citcs-schedule-api/internal/service"
	appErrors "github.com/Ghilbi/citcs-schedule-api/pkg/errors"
	"github.com/Ghilbi/citcs-schedule-api/pkg/response"
)

// ScheduleEntryHandler handles manual placement endpoints.
type ScheduleEntryHandler struct {
	service *service.ScheduleEntryService
}

// NewScheduleEntryHandler constructs a schedule entry handler.
func NewScheduleEntryHandler(svc *service.ScheduleEntryService) *ScheduleEntryHandler {
	return &ScheduleEntryHandler{service: svc}
}

// List godoc
// @Summary List schedule entries
// @Tags Schedules
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedules [get]
func (h *ScheduleEntryHandler) List(c *gin.Context) {
	entries, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Get godoc
// @Summary Get schedule entry by id
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule entry ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id} [get]
func (h *ScheduleEntryHandler) Get(c *gin.Context) {
	entry, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Create godoc
// @Summary Create a manual placement
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body service.ScheduleEntryRequest true "Schedule entry payload"
// @Success 201 {object} response.Envelope
// @Router /schedules [post]
func (h *ScheduleEntryHandler) Create(c *gin.Context) {
	var req service.ScheduleEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// Update godoc
// @Summary Update a placement
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "Schedule entry ID"
// @Param payload body service.ScheduleEntryRequest true "Schedule entry payload"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id} [put]
func (h *ScheduleEntryHandler) Update(c *gin.Context) {
	var req service.ScheduleEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Delete godoc
// @Summary Delete a placement
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule entry ID"
// @Success 204
// @Router /schedules/{id} [delete]
func (h *ScheduleEntryHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
