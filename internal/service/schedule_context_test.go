package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ghilbi/citcs-schedule-api/internal/models"
)

type courseListerStub struct {
	items []models.Course
}

func (s courseListerStub) ListAll(ctx context.Context) ([]models.Course, error) {
	return s.items, nil
}

type offeringListerStub struct {
	items []models.CourseOffering
}

func (s offeringListerStub) ListAll(ctx context.Context) ([]models.CourseOffering, error) {
	return s.items, nil
}

type entryListerStub struct {
	items []models.ScheduleEntry
}

func (s entryListerStub) ListAll(ctx context.Context) ([]models.ScheduleEntry, error) {
	return s.items, nil
}

func strPtr(v string) *string {
	return &v
}

func TestScheduleContextBuildScopesByTrimesterAndYearLevel(t *testing.T) {
	courses := courseListerStub{items: []models.Course{
		{ID: "c1", Subject: "Data Structures", Trimester: "1st Trimester", YearLevel: "1st yr"},
		{ID: "c2", Subject: "Networking", Trimester: "1st Trimester", YearLevel: "2nd yr"},
		{ID: "c3", Subject: "Calculus", Trimester: "2nd Trimester", YearLevel: "1st yr"},
	}}
	entries := entryListerStub{items: []models.ScheduleEntry{
		{ID: "e1", DayType: models.DayTypeMWF, TimeSlot: models.TimeSlots[0], Col: 0, CourseID: "c1", UnitType: models.UnitTypeLec, Section: "1A"},
		{ID: "e2", DayType: models.DayTypeMWF, TimeSlot: models.TimeSlots[0], Col: 1, CourseID: "c1", UnitType: models.UnitTypeLec, Section: "1A"},
		{ID: "e3", DayType: models.DayTypeMWF, TimeSlot: models.TimeSlots[1], Col: 0, CourseID: "c2", UnitType: models.UnitTypeLec, Section: "2A"},
		{ID: "e4", DayType: models.DayTypeMWF, TimeSlot: models.TimeSlots[2], Col: 0, CourseID: "c3", UnitType: models.UnitTypeLec, Section: "1A"},
	}}
	builder := NewScheduleContextBuilder(courses, offeringListerStub{}, entries, zap.NewNop())

	sctx, err := builder.Build(context.Background(), Scope{Trimester: "1st Trimester", YearLevel: "1st yr"})
	require.NoError(t, err)

	require.Len(t, sctx.SectionEntries, 1)
	require.Len(t, sctx.RoomEntries, 1)
	assert.Equal(t, "e1", sctx.SectionEntries[0].ID)
	assert.Equal(t, "e2", sctx.RoomEntries[0].ID)
}

func TestScheduleContextBuildRequiresTrimester(t *testing.T) {
	builder := NewScheduleContextBuilder(courseListerStub{}, offeringListerStub{}, entryListerStub{}, zap.NewNop())

	_, err := builder.Build(context.Background(), Scope{})
	require.Error(t, err)
}

func TestScheduleContextBuildSkipsOrphanedEntries(t *testing.T) {
	entries := entryListerStub{items: []models.ScheduleEntry{
		{ID: "e1", DayType: models.DayTypeMWF, TimeSlot: models.TimeSlots[0], Col: 0, CourseID: "gone", UnitType: models.UnitTypeLec, Section: "1A"},
	}}
	builder := NewScheduleContextBuilder(courseListerStub{}, offeringListerStub{}, entries, zap.NewNop())

	sctx, err := builder.Build(context.Background(), Scope{Trimester: "1st Trimester"})
	require.NoError(t, err)
	assert.Empty(t, sctx.SectionEntries)
	assert.Empty(t, sctx.RoomEntries)
}

func TestScheduleContextBuildIncludesInternationalViaOfferings(t *testing.T) {
	courses := courseListerStub{items: []models.Course{
		// course record belongs to another year level, so only the
		// offering linkage can pull the entry into scope
		{ID: "c1", Subject: "Global Studies", Trimester: "1st Trimester", YearLevel: "3rd yr"},
	}}
	offerings := offeringListerStub{items: []models.CourseOffering{
		{ID: "o1", CourseID: "c1", Section: "INTERNATIONAL A", Type: models.UnitTypeLec, Trimester: "1st Trimester"},
	}}
	entries := entryListerStub{items: []models.ScheduleEntry{
		{ID: "e1", DayType: models.DayTypeMWF, TimeSlot: models.TimeSlots[0], Col: 0, CourseID: "c1", UnitType: models.UnitTypeLec, Section: "INTERNATIONAL A"},
		{ID: "e2", DayType: models.DayTypeMWF, TimeSlot: models.TimeSlots[1], Col: 0, CourseID: "c1", UnitType: models.UnitTypeLab, Section: "INTERNATIONAL A"},
	}}
	builder := NewScheduleContextBuilder(courses, offerings, entries, zap.NewNop())

	sctx, err := builder.Build(context.Background(), Scope{Trimester: "1st Trimester", YearLevel: "1st yr"})
	require.NoError(t, err)

	// only the entry with a matching (course, type, trimester, section)
	// offering is in scope
	require.Len(t, sctx.SectionEntries, 1)
	assert.Equal(t, "e1", sctx.SectionEntries[0].ID)
}

func TestScheduleContextOccupancyHelpers(t *testing.T) {
	courses := courseListerStub{items: []models.Course{
		{ID: "c1", Subject: "Data Structures", Trimester: "1st Trimester", YearLevel: "1st yr"},
	}}
	entries := entryListerStub{items: []models.ScheduleEntry{
		{ID: "e1", DayType: models.DayTypeMWF, TimeSlot: models.TimeSlots[0], Col: 0, CourseID: "c1", UnitType: models.UnitTypeLec, Section: "1A", Section2: strPtr("1B")},
		{ID: "e2", DayType: models.DayTypeMWF, TimeSlot: models.TimeSlots[3], Col: 0, CourseID: "c1", UnitType: models.UnitTypeLab, Section: "1A"},
		{ID: "e3", DayType: models.DayTypeMWF, TimeSlot: models.TimeSlots[0], Col: 5, CourseID: "c1", UnitType: models.UnitTypeLec, Section: "1A"},
	}}
	builder := NewScheduleContextBuilder(courses, offeringListerStub{}, entries, zap.NewNop())

	sctx, err := builder.Build(context.Background(), Scope{Trimester: "1st Trimester"})
	require.NoError(t, err)

	assert.True(t, sctx.SectionOccupied("1A", models.DayTypeMWF, 0))
	assert.True(t, sctx.SectionOccupied("1B", models.DayTypeMWF, 0), "section2 counts as occupancy")
	assert.False(t, sctx.SectionOccupied("1A", models.DayTypeTTHS, 0))
	assert.Equal(t, []int{0, 3}, sctx.SectionSlots("1A", models.DayTypeMWF))
	assert.Equal(t, 2, sctx.SectionDayCount("1A", models.DayTypeMWF))
	assert.True(t, sctx.ColumnOccupied(5, models.DayTypeMWF, 0))
	assert.False(t, sctx.ColumnOccupied(5, models.DayTypeMWF, 1))
	assert.Equal(t, 1, sctx.ColumnUsage(5))

	sctx.Append(
		models.ScheduleEntry{DayType: models.DayTypeTTHS, TimeSlot: models.TimeSlots[2], Col: 0, CourseID: "c1", UnitType: models.UnitTypeLec, Section: "1A"},
		models.ScheduleEntry{DayType: models.DayTypeTTHS, TimeSlot: models.TimeSlots[2], Col: 5, CourseID: "c1", UnitType: models.UnitTypeLec, Section: "1A"},
	)
	assert.True(t, sctx.SectionOccupied("1A", models.DayTypeTTHS, 2))
	assert.Equal(t, 2, sctx.ColumnUsage(5))
}
