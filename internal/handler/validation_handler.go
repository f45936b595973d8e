package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ghilbi/citcs-schedule-api/internal/dto"
	"github.com/Ghilbi/citcs-schedule-api/internal/service"
	appErrors "github.com/Ghilbi/citcs-schedule-api/pkg/errors"
	"github.com/Ghilbi/citcs-schedule-api/pkg/response"
)

// ValidationHandler exposes the conflict validator.
type ValidationHandler struct {
	service *service.ValidationService
}

// NewValidationHandler constructs a validation handler.
func NewValidationHandler(svc *service.ValidationService) *ValidationHandler {
	return &ValidationHandler{service: svc}
}

// Report godoc
// @Summary Run the conflict validator against one view scope
// @Tags Validation
// @Produce json
// @Param view query string false "room-group-a, room-group-b or section-view"
// @Param trimester query string true "Trimester"
// @Param yearLevel query string false "Year level"
// @Param section query string false "Section"
// @Param force query bool false "Bypass the report cache"
// @Success 200 {object} response.Envelope
// @Router /validation [get]
func (h *ValidationHandler) Report(c *gin.Context) {
	var query dto.ValidationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	report, err := h.service.Run(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}
