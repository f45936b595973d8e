package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ghilbi/citcs-schedule-api/internal/models"
)

func buildTestContext(t *testing.T, courses []models.Course, offerings []models.CourseOffering, entries []models.ScheduleEntry, scope Scope) *ScheduleContext {
	t.Helper()
	builder := NewScheduleContextBuilder(courseListerStub{items: courses}, offeringListerStub{items: offerings}, entryListerStub{items: entries}, zap.NewNop())
	sctx, err := builder.Build(context.Background(), scope)
	require.NoError(t, err)
	return sctx
}

func TestValidateReportsMissingComplementWithRecommendation(t *testing.T) {
	courses := []models.Course{
		{ID: "c1", Subject: "Programming 1", UnitCategory: models.UnitCategoryLecLab, Trimester: "1st Trimester", YearLevel: "1st yr"},
	}
	entries := []models.ScheduleEntry{
		{ID: "e1", DayType: models.DayTypeMWF, TimeSlot: models.TimeSlots[0], Col: 0, CourseID: "c1", UnitType: models.UnitTypeLec, Section: "1A"},
	}
	sctx := buildTestContext(t, courses, nil, entries, Scope{Trimester: "1st Trimester", YearLevel: "1st yr"})
	validator := NewConflictValidator(zap.NewNop())

	messages := validator.Validate(sctx, BuildRoomTopology(nil), models.ViewSectionView)

	var found bool
	for _, msg := range messages {
		if msg == "[Section View] [1st Trimester] [1st yr] Programming 1 (1A): Lab portion missing for MWF — recommended slot: "+models.TimeSlots[1] {
			found = true
		}
	}
	assert.True(t, found, "expected missing-Lab message, got %v", messages)
}

func TestValidateRecommendationNeverWraps(t *testing.T) {
	courses := []models.Course{
		{ID: "c1", Subject: "Programming 1", UnitCategory: models.UnitCategoryLecLab, Trimester: "1st Trimester", YearLevel: "1st yr"},
	}
	last := len(models.TimeSlots) - 1
	entries := []models.ScheduleEntry{
		{ID: "e1", DayType: models.DayTypeMWF, TimeSlot: models.TimeSlots[last], Col: 0, CourseID: "c1", UnitType: models.UnitTypeLec, Section: "1A"},
	}
	sctx := buildTestContext(t, courses, nil, entries, Scope{Trimester: "1st Trimester", YearLevel: "1st yr"})
	validator := NewConflictValidator(zap.NewNop())

	messages := validator.Validate(sctx, BuildRoomTopology(nil), models.ViewSectionView)

	require.NotEmpty(t, messages)
	assert.Contains(t, messages[0], "recommended slot: None available")
}

func TestValidateReportsDuplicatePlacements(t *testing.T) {
	courses := []models.Course{
		{ID: "c1", Subject: "Calculus", UnitCategory: models.UnitCategoryPureLec, Trimester: "1st Trimester", YearLevel: "1st yr"},
	}
	entries := []models.ScheduleEntry{
		{ID: "e1", DayType: models.DayTypeMWF, TimeSlot: models.TimeSlots[2], Col: 0, CourseID: "c1", UnitType: models.UnitTypePureLec, Section: "1A"},
		{ID: "e2", DayType: models.DayTypeMWF, TimeSlot: models.TimeSlots[2], Col: 0, CourseID: "c1", UnitType: models.UnitTypePureLec, Section: "1A"},
	}
	sctx := buildTestContext(t, courses, nil, entries, Scope{Trimester: "1st Trimester", YearLevel: "1st yr"})
	validator := NewConflictValidator(zap.NewNop())

	messages := validator.Validate(sctx, BuildRoomTopology(nil), models.ViewSectionView)

	var found bool
	for _, msg := range messages {
		if msg == "[Section View] [1st Trimester] [1st yr] Duplicate schedule: Calculus PureLec for 1A at MWF "+models.TimeSlots[2]+" (2 occurrences)" {
			found = true
		}
	}
	assert.True(t, found, "expected duplicate message, got %v", messages)
}

func TestValidateEntryRepeatingItsOwnSectionIsNotADuplicate(t *testing.T) {
	courses := []models.Course{
		{ID: "c1", Subject: "Calculus", UnitCategory: models.UnitCategoryPureLec, Trimester: "1st Trimester", YearLevel: "1st yr"},
	}
	// a malformed entry naming the same section twice is still one placement
	entries := []models.ScheduleEntry{
		{ID: "e1", DayType: models.DayTypeMWF, TimeSlot: models.TimeSlots[2], Col: 0, CourseID: "c1", UnitType: models.UnitTypePureLec, Section: "1A", Section2: strPtr("1A")},
		{ID: "e2", DayType: models.DayTypeMWF, TimeSlot: models.TimeSlots[2], Col: 1, CourseID: "c1", UnitType: models.UnitTypePureLec, Section: "1A", Section2: strPtr("1A")},
	}
	sctx := buildTestContext(t, courses, nil, entries, Scope{Trimester: "1st Trimester", YearLevel: "1st yr"})
	validator := NewConflictValidator(zap.NewNop())

	messages := validator.Validate(sctx, BuildRoomTopology(nil), models.ViewSectionView)
	for _, msg := range messages {
		assert.NotContains(t, msg, "Duplicate schedule")
	}
}

func TestValidateReportsMissingRoomAssignmentOnlyInSectionView(t *testing.T) {
	courses := []models.Course{
		{ID: "c1", Subject: "Calculus", UnitCategory: models.UnitCategoryPureLec, Trimester: "1st Trimester", YearLevel: "1st yr"},
	}
	entries := []models.ScheduleEntry{
		{ID: "e1", DayType: models.DayTypeMWF, TimeSlot: models.TimeSlots[2], Col: 0, CourseID: "c1", UnitType: models.UnitTypePureLec, Section: "1A"},
	}
	sctx := buildTestContext(t, courses, nil, entries, Scope{Trimester: "1st Trimester", YearLevel: "1st yr"})
	validator := NewConflictValidator(zap.NewNop())
	topo := BuildRoomTopology(nil)

	sectionMessages := validator.Validate(sctx, topo, models.ViewSectionView)
	assert.Contains(t, sectionMessages, "[Section View] [1st Trimester] [1st yr] Missing room assignment: Calculus PureLec for 1A at MWF "+models.TimeSlots[2])

	roomMessages := validator.Validate(sctx, topo, models.ViewRoomGroupA)
	for _, msg := range roomMessages {
		assert.NotContains(t, msg, "Missing room assignment")
	}
}

func TestValidateRoomCounterpartSuppressesMissingAssignment(t *testing.T) {
	courses := []models.Course{
		{ID: "c1", Subject: "Calculus", UnitCategory: models.UnitCategoryPureLec, Trimester: "1st Trimester", YearLevel: "1st yr"},
	}
	entries := []models.ScheduleEntry{
		{ID: "e1", DayType: models.DayTypeMWF, TimeSlot: models.TimeSlots[2], Col: 0, CourseID: "c1", UnitType: models.UnitTypePureLec, Section: "1A"},
		{ID: "e2", DayType: models.DayTypeMWF, TimeSlot: models.TimeSlots[2], Col: 1, CourseID: "c1", UnitType: models.UnitTypePureLec, Section: "1A"},
	}
	sctx := buildTestContext(t, courses, nil, entries, Scope{Trimester: "1st Trimester", YearLevel: "1st yr"})
	validator := NewConflictValidator(zap.NewNop())

	messages := validator.Validate(sctx, BuildRoomTopology(nil), models.ViewSectionView)
	for _, msg := range messages {
		assert.NotContains(t, msg, "Missing room assignment")
	}
}

func TestValidateReportsSectionDoubleBooking(t *testing.T) {
	courses := []models.Course{
		{ID: "c1", Subject: "Calculus", UnitCategory: models.UnitCategoryPureLec, Trimester: "1st Trimester", YearLevel: "1st yr"},
		{ID: "c2", Subject: "Physics", UnitCategory: models.UnitCategoryPureLec, Trimester: "1st Trimester", YearLevel: "1st yr"},
	}
	entries := []models.ScheduleEntry{
		{ID: "e1", DayType: models.DayTypeMWF, TimeSlot: models.TimeSlots[4], Col: 0, CourseID: "c1", UnitType: models.UnitTypePureLec, Section: "1A"},
		{ID: "e2", DayType: models.DayTypeMWF, TimeSlot: models.TimeSlots[4], Col: 0, CourseID: "c2", UnitType: models.UnitTypePureLec, Section: "1A"},
	}
	sctx := buildTestContext(t, courses, nil, entries, Scope{Trimester: "1st Trimester", YearLevel: "1st yr"})
	validator := NewConflictValidator(zap.NewNop())

	messages := validator.Validate(sctx, BuildRoomTopology(nil), models.ViewSectionView)

	var found bool
	for _, msg := range messages {
		if msg == "[Section View] [1st Trimester] [1st yr] Section 1A double-booked at MWF "+models.TimeSlots[4]+": Calculus PureLec, Physics PureLec" {
			found = true
		}
	}
	assert.True(t, found, "expected double-booking message, got %v", messages)
}

func TestValidateRoomViewsScopeByColumnGroup(t *testing.T) {
	courses := []models.Course{
		{ID: "c1", Subject: "Programming 1", UnitCategory: models.UnitCategoryLecLab, Trimester: "1st Trimester", YearLevel: "1st yr"},
	}
	// Lec sits in a Group A column, its Lab complement in Group B: each
	// room view sees only half the pair and reports the other as missing
	entries := []models.ScheduleEntry{
		{ID: "e1", DayType: models.DayTypeMWF, TimeSlot: models.TimeSlots[0], Col: 1, CourseID: "c1", UnitType: models.UnitTypeLec, Section: "1A"},
		{ID: "e2", DayType: models.DayTypeMWF, TimeSlot: models.TimeSlots[1], Col: 2, CourseID: "c1", UnitType: models.UnitTypeLab, Section: "1A"},
	}
	sctx := buildTestContext(t, courses, nil, entries, Scope{Trimester: "1st Trimester", YearLevel: "1st yr"})
	validator := NewConflictValidator(zap.NewNop())
	topo := BuildRoomTopology(nil)

	messagesA := validator.Validate(sctx, topo, models.ViewRoomGroupA)
	require.Len(t, messagesA, 1)
	assert.Contains(t, messagesA[0], "[Room View Group A]")
	assert.Contains(t, messagesA[0], "Lab portion missing")

	messagesB := validator.Validate(sctx, topo, models.ViewRoomGroupB)
	require.Len(t, messagesB, 1)
	assert.Contains(t, messagesB[0], "Lec portion missing")
}

func TestValidateSameScopeYieldsIdenticalMessagesAcrossRuns(t *testing.T) {
	courses := []models.Course{
		{ID: "c1", Subject: "Programming 1", UnitCategory: models.UnitCategoryLecLab, Trimester: "1st Trimester", YearLevel: "1st yr"},
		{ID: "c2", Subject: "Calculus", UnitCategory: models.UnitCategoryPureLec, Trimester: "1st Trimester", YearLevel: "1st yr"},
	}
	// one missing Lab complement, one duplicate placement, one missing room
	entries := []models.ScheduleEntry{
		{ID: "e1", DayType: models.DayTypeMWF, TimeSlot: models.TimeSlots[0], Col: 0, CourseID: "c1", UnitType: models.UnitTypeLec, Section: "1A"},
		{ID: "e2", DayType: models.DayTypeTTHS, TimeSlot: models.TimeSlots[3], Col: 0, CourseID: "c2", UnitType: models.UnitTypePureLec, Section: "1A"},
		{ID: "e3", DayType: models.DayTypeTTHS, TimeSlot: models.TimeSlots[3], Col: 0, CourseID: "c2", UnitType: models.UnitTypePureLec, Section: "1A"},
	}
	validator := NewConflictValidator(zap.NewNop())
	topo := BuildRoomTopology(nil)

	run := func() []string {
		sctx := buildTestContext(t, courses, nil, entries, Scope{Trimester: "1st Trimester", YearLevel: "1st yr"})
		return validator.Validate(sctx, topo, models.ViewSectionView)
	}

	first := run()
	require.NotEmpty(t, first)
	assert.Equal(t, first, run())
}

func TestValidateCleanContextProducesNoMessages(t *testing.T) {
	courses := []models.Course{
		{ID: "c1", Subject: "Programming 1", UnitCategory: models.UnitCategoryLecLab, Trimester: "1st Trimester", YearLevel: "1st yr"},
	}
	entries := []models.ScheduleEntry{
		{ID: "e1", DayType: models.DayTypeMWF, TimeSlot: models.TimeSlots[0], Col: 0, CourseID: "c1", UnitType: models.UnitTypeLec, Section: "1A"},
		{ID: "e2", DayType: models.DayTypeMWF, TimeSlot: models.TimeSlots[1], Col: 0, CourseID: "c1", UnitType: models.UnitTypeLab, Section: "1A"},
		{ID: "e3", DayType: models.DayTypeMWF, TimeSlot: models.TimeSlots[0], Col: 1, CourseID: "c1", UnitType: models.UnitTypeLec, Section: "1A"},
		{ID: "e4", DayType: models.DayTypeMWF, TimeSlot: models.TimeSlots[1], Col: 3, CourseID: "c1", UnitType: models.UnitTypeLab, Section: "1A"},
	}
	sctx := buildTestContext(t, courses, nil, entries, Scope{Trimester: "1st Trimester", YearLevel: "1st yr"})
	validator := NewConflictValidator(zap.NewNop())

	messages := validator.Validate(sctx, BuildRoomTopology(nil), models.ViewSectionView)
	assert.Empty(t, messages)
}
