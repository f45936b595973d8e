package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ghilbi/citcs-schedule-api/internal/service"
	appErrors "github.com/Ghilbi/citcs-schedule-api/pkg/errors"
	"github.com/Ghilbi/citcs-schedule-api/pkg/response"
)

// CourseOfferingHandler handles section assignment endpoints.
type CourseOfferingHandler struct {
	service *service.CourseOfferingService
}

// NewCourseOfferingHandler constructs an offering handler.
func NewCourseOfferingHandler(svc *service.CourseOfferingService) *CourseOfferingHandler {
	return &CourseOfferingHandler{service: svc}
}

// List godoc
// @Summary List course offerings
// @Tags Offerings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /course-offerings [get]
func (h *CourseOfferingHandler) List(c *gin.Context) {
	offerings, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, offerings, nil)
}

// Get godoc
// @Summary Get offering by id
// @Tags Offerings
// @Produce json
// @Param id path string true "Offering ID"
// @Success 200 {object} response.Envelope
// @Router /course-offerings/{id} [get]
func (h *CourseOfferingHandler) Get(c *gin.Context) {
	offering, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, offering, nil)
}

// Create godoc
// @Summary Assign a course to a section
// @Description A Lec/Lab course yields its Lec and Lab offerings together.
// @Tags Offerings
// @Accept json
// @Produce json
// @Param payload body service.CreateOfferingRequest true "Offering payload"
// @Success 201 {object} response.Envelope
// @Router /course-offerings [post]
func (h *CourseOfferingHandler) Create(c *gin.Context) {
	var req service.CreateOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	offerings, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, offerings)
}

// Update godoc
// @Summary Move an offering to another section
// @Tags Offerings
// @Accept json
// @Produce json
// @Param id path string true "Offering ID"
// @Param payload body service.UpdateOfferingRequest true "Offering payload"
// @Success 200 {object} response.Envelope
// @Router /course-offerings/{id} [put]
func (h *CourseOfferingHandler) Update(c *gin.Context) {
	var req service.UpdateOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	offering, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, offering, nil)
}

// Delete godoc
// @Summary Delete offering and cascade its schedule entries
// @Tags Offerings
// @Produce json
// @Param id path string true "Offering ID"
// @Success 204
// @Router /course-offerings/{id} [delete]
func (h *CourseOfferingHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
