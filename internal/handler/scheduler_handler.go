package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ghilbi/citcs-schedule-api/internal/dto"
	"github.com/Ghilbi/citcs-schedule-api/internal/service"
	appErrors "github.com/Ghilbi/citcs-schedule-api/pkg/errors"
	"github.com/Ghilbi/citcs-schedule-api/pkg/response"
)

// SchedulerHandler exposes the auto-scheduler.
type SchedulerHandler struct {
	scheduler  *service.AutoSchedulerService
	validation *service.ValidationService
}

// NewSchedulerHandler constructs a scheduler handler.
func NewSchedulerHandler(scheduler *service.AutoSchedulerService, validation *service.ValidationService) *SchedulerHandler {
	return &SchedulerHandler{scheduler: scheduler, validation: validation}
}

// Run godoc
// @Summary Auto-schedule a section's pending offerings
// @Description Places every pending offering of the section into the selected room group. Partial success is normal; unplaceable offerings are listed in the response.
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param payload body dto.AutoScheduleRequest true "Scheduler run payload"
// @Success 200 {object} response.Envelope
// @Router /scheduler/run [post]
func (h *SchedulerHandler) Run(c *gin.Context) {
	var req dto.AutoScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.scheduler.Run(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.validation != nil {
		h.validation.Invalidate(c.Request.Context())
	}
	response.JSON(c, http.StatusOK, result, nil)
}
