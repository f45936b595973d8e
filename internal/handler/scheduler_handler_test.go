package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ghilbi/citcs-schedule-api/internal/dto"
	"github.com/Ghilbi/citcs-schedule-api/internal/models"
	"github.com/Ghilbi/citcs-schedule-api/internal/service"
	"github.com/Ghilbi/citcs-schedule-api/pkg/config"
)

type entryWriterMock struct {
	created []models.ScheduleEntry
}

func (m *entryWriterMock) BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, entries []models.ScheduleEntry) error {
	m.created = append(m.created, entries...)
	return nil
}

type txProviderMock struct {
	db *sqlx.DB
}

func (m txProviderMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return m.db.BeginTxx(ctx, opts)
}

func newSchedulerHandlerFixture(t *testing.T) (*SchedulerHandler, sqlmock.Sqlmock) {
	t.Helper()
	courses := []models.Course{
		{ID: "c1", Subject: "Calculus", UnitCategory: models.UnitCategoryPureLec, Trimester: "1st Trimester", YearLevel: "1st yr"},
	}
	offerings := []models.CourseOffering{
		{ID: "o1", CourseID: "c1", Section: "1A", Type: models.UnitTypePureLec, Trimester: "1st Trimester"},
	}
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	contexts := service.NewScheduleContextBuilder(courseListerMock{items: courses}, offeringListerMock{items: offerings}, entryListerMock{}, zap.NewNop())
	svc := service.NewAutoSchedulerService(
		contexts,
		courseListerMock{items: courses},
		offeringListerMock{items: offerings},
		roomListerMock{},
		&entryWriterMock{},
		txProviderMock{db: sqlx.NewDb(db, "sqlmock")},
		nil,
		nil,
		zap.NewNop(),
		config.SchedulerConfig{Seed: 42},
	)
	return NewSchedulerHandler(svc, nil), mock
}

func TestSchedulerHandlerRun(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, mock := newSchedulerHandlerFixture(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.AutoScheduleRequest{
		Section: "1A", Trimester: "1st Trimester", YearLevel: "1st yr", RoomGroup: "A",
	})
	req, _ := http.NewRequest(http.MethodPost, "/scheduler/run", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Run(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data dto.AutoScheduleResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 1, envelope.Data.ScheduledCount)
	assert.Len(t, envelope.Data.Entries, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchedulerHandlerRunInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newSchedulerHandlerFixture(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/scheduler/run", bytes.NewReader([]byte(`invalid`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Run(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSchedulerHandlerRunPreconditionFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newSchedulerHandlerFixture(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.AutoScheduleRequest{
		Section: "9Z", Trimester: "1st Trimester", RoomGroup: "A",
	})
	req, _ := http.NewRequest(http.MethodPost, "/scheduler/run", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Run(c)
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
}
