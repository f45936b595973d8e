package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ghilbi/citcs-schedule-api/internal/models"
)

func newMockRepo(t *testing.T) (*ScheduleEntryRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewScheduleEntryRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestScheduleEntryRepositoryBulkCreateWithTxCommitsAllRows(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO schedule_entries").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO schedule_entries").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := repo.BeginTxx(context.Background(), nil)
	require.NoError(t, err)

	entries := []models.ScheduleEntry{
		{DayType: models.DayTypeMWF, TimeSlot: models.TimeSlots[0], Col: 0, CourseID: "c1", UnitType: models.UnitTypeLec, Section: "1A"},
		{DayType: models.DayTypeMWF, TimeSlot: models.TimeSlots[0], Col: 1, CourseID: "c1", UnitType: models.UnitTypeLec, Section: "1A"},
	}
	require.NoError(t, repo.BulkCreateWithTx(context.Background(), tx, entries))
	require.NoError(t, tx.Commit())

	// ids and timestamps are assigned during insert
	for _, entry := range entries {
		assert.NotEmpty(t, entry.ID)
		assert.False(t, entry.CreatedAt.IsZero())
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleEntryRepositoryBulkCreateWithTxRequiresTx(t *testing.T) {
	repo, _ := newMockRepo(t)

	err := repo.BulkCreateWithTx(context.Background(), nil, nil)
	require.Error(t, err)
}

func TestScheduleEntryRepositoryDeleteByOffering(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM schedule_entries WHERE course_id").
		WithArgs("c1", models.UnitTypeLab, "1A").
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.DeleteByOffering(context.Background(), "c1", models.UnitTypeLab, "1A"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleEntryRepositoryListAll(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"id", "day_type", "time_slot", "col", "room_id", "course_id", "unit_type", "section", "section2", "color", "created_at", "updated_at"}).
		AddRow("e1", "MWF", models.TimeSlots[0], 0, nil, "c1", "Lec", "1A", nil, "#4C6EF5", time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM schedule_entries").WillReturnRows(rows)

	entries, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "e1", entries[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
