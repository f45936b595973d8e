package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ghilbi/citcs-schedule-api/internal/models"
	"github.com/Ghilbi/citcs-schedule-api/internal/service"
)

type courseListerMock struct {
	items []models.Course
}

func (m courseListerMock) ListAll(ctx context.Context) ([]models.Course, error) {
	return m.items, nil
}

type offeringListerMock struct {
	items []models.CourseOffering
}

func (m offeringListerMock) ListAll(ctx context.Context) ([]models.CourseOffering, error) {
	return m.items, nil
}

type entryListerMock struct {
	items []models.ScheduleEntry
}

func (m entryListerMock) ListAll(ctx context.Context) ([]models.ScheduleEntry, error) {
	return m.items, nil
}

type roomListerMock struct {
	items []models.Room
}

func (m roomListerMock) ListAll(ctx context.Context) ([]models.Room, error) {
	return m.items, nil
}

func newValidationHandlerFixture() *ValidationHandler {
	courses := []models.Course{
		{ID: "c1", Subject: "Programming 1", UnitCategory: models.UnitCategoryLecLab, Trimester: "1st Trimester", YearLevel: "1st yr"},
	}
	entries := []models.ScheduleEntry{
		{ID: "e1", DayType: models.DayTypeMWF, TimeSlot: models.TimeSlots[0], Col: 0, CourseID: "c1", UnitType: models.UnitTypeLec, Section: "1A"},
	}
	contexts := service.NewScheduleContextBuilder(courseListerMock{items: courses}, offeringListerMock{}, entryListerMock{items: entries}, zap.NewNop())
	svc := service.NewValidationService(contexts, roomListerMock{}, service.NewConflictValidator(zap.NewNop()), nil, time.Minute, nil, zap.NewNop())
	return NewValidationHandler(svc)
}

func TestValidationHandlerReport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newValidationHandlerFixture()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/validation?trimester=1st+Trimester&yearLevel=1st+yr", nil)
	c.Request = req

	handler.Report(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data models.ConflictReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, models.ViewSectionView, envelope.Data.View)
	assert.NotEmpty(t, envelope.Data.Messages)
}

func TestValidationHandlerReportMissingTrimester(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newValidationHandlerFixture()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/validation", nil)
	c.Request = req

	handler.Report(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidationHandlerReportBadQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newValidationHandlerFixture()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/validation?trimester=1st+Trimester&force=notabool", nil)
	c.Request = req

	handler.Report(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
