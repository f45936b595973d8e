package service

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/Ghilbi/citcs-schedule-api/internal/models"
	appErrors "github.com/Ghilbi/citcs-schedule-api/pkg/errors"
)

type contextCourseLister interface {
	ListAll(ctx context.Context) ([]models.Course, error)
}

type contextOfferingLister interface {
	ListAll(ctx context.Context) ([]models.CourseOffering, error)
}

type contextEntryLister interface {
	ListAll(ctx context.Context) ([]models.ScheduleEntry, error)
}

// Scope pins a context build to one trimester and either a year level or a
// specific section. It is always passed explicitly; nothing reads ambient
// view state.
type Scope struct {
	Trimester string
	YearLevel string
	Section   string
}

// ScheduleContext is the derived, never-persisted working set for one
// scope: section-level entries (col=0), room-level entries (col>0), and
// the lookups needed to label and cross-check them.
type ScheduleContext struct {
	Scope          Scope
	SectionEntries []models.ScheduleEntry
	RoomEntries    []models.ScheduleEntry
	Courses        map[string]models.Course
	Offerings      []models.CourseOffering
}

// ScheduleContextBuilder filters the full collections down to a scope.
type ScheduleContextBuilder struct {
	courses   contextCourseLister
	offerings contextOfferingLister
	entries   contextEntryLister
	logger    *zap.Logger
}

// NewScheduleContextBuilder wires the builder's store access.
func NewScheduleContextBuilder(courses contextCourseLister, offerings contextOfferingLister, entries contextEntryLister, logger *zap.Logger) *ScheduleContextBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleContextBuilder{courses: courses, offerings: offerings, entries: entries, logger: logger}
}

// Build loads the full collections and filters entries into the scope.
// Entries whose course no longer exists are invisible, not errors.
func (b *ScheduleContextBuilder) Build(ctx context.Context, scope Scope) (*ScheduleContext, error) {
	if scope.Trimester == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "trimester is required")
	}

	courses, err := b.courses.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	offerings, err := b.offerings.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course offerings")
	}
	entries, err := b.entries.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entries")
	}

	courseMap := make(map[string]models.Course, len(courses))
	for _, course := range courses {
		courseMap[course.ID] = course
	}

	sctx := &ScheduleContext{
		Scope:     scope,
		Courses:   courseMap,
		Offerings: offerings,
	}

	for _, entry := range entries {
		if !b.inScope(entry, scope, courseMap, offerings) {
			continue
		}
		if entry.Col == 0 {
			sctx.SectionEntries = append(sctx.SectionEntries, entry)
		} else {
			sctx.RoomEntries = append(sctx.RoomEntries, entry)
		}
	}

	sortEntries(sctx.SectionEntries)
	sortEntries(sctx.RoomEntries)

	return sctx, nil
}

func (b *ScheduleContextBuilder) inScope(entry models.ScheduleEntry, scope Scope, courses map[string]models.Course, offerings []models.CourseOffering) bool {
	course, ok := courses[entry.CourseID]
	if !ok {
		// orphaned reference, excluded silently
		return false
	}

	if course.Trimester == scope.Trimester {
		if scope.YearLevel == "" || course.YearLevel == scope.YearLevel {
			return true
		}
	}

	// International sections are not tied to a single year-level course
	// record; the linkage is validated via the offering table instead.
	for _, section := range entry.Sections() {
		if !strings.HasPrefix(section, models.InternationalPrefix) {
			continue
		}
		if offeringExists(offerings, entry.CourseID, entry.UnitType, scope.Trimester, section) {
			return true
		}
	}

	return false
}

func offeringExists(offerings []models.CourseOffering, courseID string, unitType models.UnitType, trimester, section string) bool {
	for _, offering := range offerings {
		if offering.CourseID == courseID && offering.Type == unitType && offering.Trimester == trimester && offering.Section == section {
			return true
		}
	}
	return false
}

func sortEntries(entries []models.ScheduleEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].DayType != entries[j].DayType {
			return entries[i].DayType < entries[j].DayType
		}
		si, sj := models.SlotIndex(entries[i].TimeSlot), models.SlotIndex(entries[j].TimeSlot)
		if si != sj {
			return si < sj
		}
		if entries[i].Col != entries[j].Col {
			return entries[i].Col < entries[j].Col
		}
		return entries[i].CourseID < entries[j].CourseID
	})
}

// SectionOccupied reports whether a section already has a class at the
// given day pattern and slot index.
func (c *ScheduleContext) SectionOccupied(section string, day models.DayType, slot int) bool {
	for _, entry := range c.SectionEntries {
		if entry.DayType != day || models.SlotIndex(entry.TimeSlot) != slot {
			continue
		}
		for _, s := range entry.Sections() {
			if s == section {
				return true
			}
		}
	}
	return false
}

// SectionSlots returns the sorted occupied slot indexes for a section on
// one day pattern.
func (c *ScheduleContext) SectionSlots(section string, day models.DayType) []int {
	var slots []int
	for _, entry := range c.SectionEntries {
		if entry.DayType != day {
			continue
		}
		for _, s := range entry.Sections() {
			if s == section {
				if idx := models.SlotIndex(entry.TimeSlot); idx >= 0 {
					slots = append(slots, idx)
				}
				break
			}
		}
	}
	sort.Ints(slots)
	return slots
}

// SectionDayCount counts a section's classes on one day pattern.
func (c *ScheduleContext) SectionDayCount(section string, day models.DayType) int {
	return len(c.SectionSlots(section, day))
}

// ColumnOccupied reports whether a room column is taken at the given day
// pattern and slot index. Room occupancy is trimester-wide, not limited to
// the scoped section.
func (c *ScheduleContext) ColumnOccupied(col int, day models.DayType, slot int) bool {
	for _, entry := range c.RoomEntries {
		if entry.Col == col && entry.DayType == day && models.SlotIndex(entry.TimeSlot) == slot {
			return true
		}
	}
	return false
}

// ColumnUsage counts how many sessions a room column already hosts.
func (c *ScheduleContext) ColumnUsage(col int) int {
	count := 0
	for _, entry := range c.RoomEntries {
		if entry.Col == col {
			count++
		}
	}
	return count
}

// Append folds freshly committed entries into the working context so later
// placements in the same run see them as occupied.
func (c *ScheduleContext) Append(entries ...models.ScheduleEntry) {
	for _, entry := range entries {
		if entry.Col == 0 {
			c.SectionEntries = append(c.SectionEntries, entry)
		} else {
			c.RoomEntries = append(c.RoomEntries, entry)
		}
	}
}
