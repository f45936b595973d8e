package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ghilbi/citcs-schedule-api/internal/models"
	appErrors "github.com/Ghilbi/citcs-schedule-api/pkg/errors"
)

type entryRepoStub struct {
	items []models.ScheduleEntry
}

func (s *entryRepoStub) ListAll(ctx context.Context) ([]models.ScheduleEntry, error) {
	return s.items, nil
}

func (s *entryRepoStub) FindByID(ctx context.Context, id string) (*models.ScheduleEntry, error) {
	for _, item := range s.items {
		if item.ID == id {
			entry := item
			return &entry, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *entryRepoStub) Create(ctx context.Context, entry *models.ScheduleEntry) error {
	entry.ID = fmt.Sprintf("entry-%d", len(s.items)+1)
	s.items = append(s.items, *entry)
	return nil
}

func (s *entryRepoStub) Update(ctx context.Context, entry *models.ScheduleEntry) error {
	for idx := range s.items {
		if s.items[idx].ID == entry.ID {
			s.items[idx] = *entry
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *entryRepoStub) Delete(ctx context.Context, id string) error {
	for idx := range s.items {
		if s.items[idx].ID == id {
			s.items = append(s.items[:idx], s.items[idx+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func newEntryFixture(repo *entryRepoStub, courses []models.Course, invalidator *invalidatorStub) *ScheduleEntryService {
	return NewScheduleEntryService(repo, &courseRepoStub{items: courses}, invalidator, nil, zap.NewNop())
}

func TestScheduleEntryServiceCreate(t *testing.T) {
	repo := &entryRepoStub{}
	invalidator := &invalidatorStub{}
	courses := []models.Course{{ID: "c1", Subject: "Calculus", Trimester: "1st Trimester"}}
	svc := newEntryFixture(repo, courses, invalidator)

	entry, err := svc.Create(context.Background(), ScheduleEntryRequest{
		DayType:  "MWF",
		TimeSlot: models.TimeSlots[0],
		Col:      0,
		CourseID: "c1",
		UnitType: "PureLec",
		Section:  "1A",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, entry.ID)
	assert.NotEmpty(t, entry.Color, "color is derived when omitted")
	assert.Equal(t, 1, invalidator.calls)
}

func TestScheduleEntryServiceCreateRejectsUnknownSlot(t *testing.T) {
	courses := []models.Course{{ID: "c1", Subject: "Calculus"}}
	svc := newEntryFixture(&entryRepoStub{}, courses, &invalidatorStub{})

	_, err := svc.Create(context.Background(), ScheduleEntryRequest{
		DayType:  "MWF",
		TimeSlot: "25:00 - 26:00",
		CourseID: "c1",
		UnitType: "PureLec",
		Section:  "1A",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestScheduleEntryServiceCreateRejectsUnknownCourse(t *testing.T) {
	svc := newEntryFixture(&entryRepoStub{}, nil, &invalidatorStub{})

	_, err := svc.Create(context.Background(), ScheduleEntryRequest{
		DayType:  "TTHS",
		TimeSlot: models.TimeSlots[3],
		CourseID: "missing",
		UnitType: "Lec",
		Section:  "1A",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestScheduleEntryServiceUpdateKeepsIdentity(t *testing.T) {
	repo := &entryRepoStub{items: []models.ScheduleEntry{
		{ID: "e1", DayType: models.DayTypeMWF, TimeSlot: models.TimeSlots[0], Col: 0, CourseID: "c1", UnitType: models.UnitTypePureLec, Section: "1A"},
	}}
	courses := []models.Course{{ID: "c1", Subject: "Calculus"}}
	svc := newEntryFixture(repo, courses, &invalidatorStub{})

	entry, err := svc.Update(context.Background(), "e1", ScheduleEntryRequest{
		DayType:  "TTHS",
		TimeSlot: models.TimeSlots[5],
		Col:      3,
		CourseID: "c1",
		UnitType: "PureLec",
		Section:  "1A",
	})
	require.NoError(t, err)

	assert.Equal(t, "e1", entry.ID)
	assert.Equal(t, models.DayTypeTTHS, entry.DayType)
	assert.Equal(t, 3, repo.items[0].Col)
}

func TestScheduleEntryServiceDelete(t *testing.T) {
	repo := &entryRepoStub{items: []models.ScheduleEntry{
		{ID: "e1", DayType: models.DayTypeMWF, TimeSlot: models.TimeSlots[0], Col: 0, CourseID: "c1", UnitType: models.UnitTypePureLec, Section: "1A"},
	}}
	invalidator := &invalidatorStub{}
	svc := newEntryFixture(repo, nil, invalidator)

	require.NoError(t, svc.Delete(context.Background(), "e1"))
	assert.Empty(t, repo.items)
	assert.Equal(t, 1, invalidator.calls)

	err := svc.Delete(context.Background(), "e1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
