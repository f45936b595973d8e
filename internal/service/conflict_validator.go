package service

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/Ghilbi/citcs-schedule-api/internal/models"
)

// ConflictValidator scans one view of a schedule context for missing
// Lec/Lab complements, duplicate placements, missing room assignments and
// section double-bookings. It is read-only: safe to re-run after any
// mutation and idempotent on an unchanged context.
type ConflictValidator struct {
	logger *zap.Logger
}

// NewConflictValidator constructs a validator.
func NewConflictValidator(logger *zap.Logger) *ConflictValidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConflictValidator{logger: logger}
}

func viewLabel(view models.ValidationView) string {
	switch view {
	case models.ViewRoomGroupA:
		return "Room View Group A"
	case models.ViewRoomGroupB:
		return "Room View Group B"
	default:
		return "Section View"
	}
}

// Validate returns the ordered conflict messages for one view scope.
func (v *ConflictValidator) Validate(sctx *ScheduleContext, topo *RoomTopology, view models.ValidationView) []string {
	scoped := v.scopeEntries(sctx, topo, view)

	tag := fmt.Sprintf("[%s] [%s]", viewLabel(view), sctx.Scope.Trimester)
	if sctx.Scope.YearLevel != "" {
		tag += fmt.Sprintf(" [%s]", sctx.Scope.YearLevel)
	}

	messages := make([]string, 0)
	messages = append(messages, v.missingComplements(sctx, scoped, tag)...)
	messages = append(messages, v.duplicatePlacements(sctx, scoped, tag)...)
	if view == models.ViewSectionView {
		messages = append(messages, v.missingRoomAssignments(sctx, tag)...)
		messages = append(messages, v.duplicateSectionTimes(sctx, scoped, tag)...)
	}

	return messages
}

// scopeEntries picks the entries belonging to the active view: the two
// room-view groups split the room-level entries by column suffix, the
// section view covers all section-level entries.
func (v *ConflictValidator) scopeEntries(sctx *ScheduleContext, topo *RoomTopology, view models.ValidationView) []models.ScheduleEntry {
	switch view {
	case models.ViewRoomGroupA, models.ViewRoomGroupB:
		group := "A"
		if view == models.ViewRoomGroupB {
			group = "B"
		}
		var scoped []models.ScheduleEntry
		for _, entry := range sctx.RoomEntries {
			if ColumnGroup(topo.ColumnLabel(entry.Col)) == group {
				scoped = append(scoped, entry)
			}
		}
		return scoped
	default:
		return sctx.SectionEntries
	}
}

func (v *ConflictValidator) subject(sctx *ScheduleContext, courseID string) string {
	if course, ok := sctx.Courses[courseID]; ok {
		return course.Subject
	}
	return courseID
}

// missingComplements reports Lec entries without their Lab (and vice
// versa) in the same scope, with a recommended later slot for the missing
// half. The slot search is strictly forward, never wrapping.
func (v *ConflictValidator) missingComplements(sctx *ScheduleContext, scoped []models.ScheduleEntry, tag string) []string {
	var messages []string
	for _, entry := range scoped {
		complement := entry.ComplementOf()
		if complement == "" {
			continue
		}
		for _, section := range entry.Sections() {
			if hasComplement(scoped, entry, complement, section) {
				continue
			}
			recommended := v.recommendSlot(scoped, section, entry.DayType, models.SlotIndex(entry.TimeSlot))
			messages = append(messages, fmt.Sprintf(
				"%s %s (%s): %s portion missing for %s — recommended slot: %s",
				tag, v.subject(sctx, entry.CourseID), section, complement, entry.DayType, recommended,
			))
		}
	}
	return messages
}

func hasComplement(scoped []models.ScheduleEntry, entry models.ScheduleEntry, complement models.UnitType, section string) bool {
	for _, other := range scoped {
		if other.ID == entry.ID || other.DayType != entry.DayType || other.CourseID != entry.CourseID || other.UnitType != complement {
			continue
		}
		for _, s := range other.Sections() {
			if s == section {
				return true
			}
		}
	}
	return false
}

// recommendSlot finds the first later slot index at which the section has
// no class in this scope.
func (v *ConflictValidator) recommendSlot(scoped []models.ScheduleEntry, section string, day models.DayType, from int) string {
	for idx := from + 1; idx < len(models.TimeSlots); idx++ {
		if !sectionOccupiedIn(scoped, section, day, idx) {
			return models.TimeSlots[idx]
		}
	}
	return "None available"
}

func sectionOccupiedIn(entries []models.ScheduleEntry, section string, day models.DayType, slot int) bool {
	for _, entry := range entries {
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

// duplicatePlacements reports keys occupied by more than one entry.
func (v *ConflictValidator) duplicatePlacements(sctx *ScheduleContext, scoped []models.ScheduleEntry, tag string) []string {
	type dupKey struct {
		Day      models.DayType
		Time     string
		CourseID string
		Section  string
		UnitType models.UnitType
	}
	counts := make(map[dupKey]int)
	for _, entry := range scoped {
		for _, section := range entry.Sections() {
			key := dupKey{entry.DayType, entry.TimeSlot, entry.CourseID, section, entry.UnitType}
			counts[key]++
		}
	}

	keys := make([]dupKey, 0, len(counts))
	for key, count := range counts {
		if count > 1 {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Day != keys[j].Day {
			return keys[i].Day < keys[j].Day
		}
		si, sj := models.SlotIndex(keys[i].Time), models.SlotIndex(keys[j].Time)
		if si != sj {
			return si < sj
		}
		if keys[i].Section != keys[j].Section {
			return keys[i].Section < keys[j].Section
		}
		return keys[i].CourseID < keys[j].CourseID
	})

	var messages []string
	for _, key := range keys {
		messages = append(messages, fmt.Sprintf(
			"%s Duplicate schedule: %s %s for %s at %s %s (%d occurrences)",
			tag, v.subject(sctx, key.CourseID), key.UnitType, key.Section, key.Day, key.Time, counts[key],
		))
	}
	return messages
}

// missingRoomAssignments reports section-level entries with no room-level
// counterpart for the same course, type, sections, day and time.
func (v *ConflictValidator) missingRoomAssignments(sctx *ScheduleContext, tag string) []string {
	var messages []string
	for _, entry := range sctx.SectionEntries {
		if hasRoomCounterpart(sctx.RoomEntries, entry) {
			continue
		}
		messages = append(messages, fmt.Sprintf(
			"%s Missing room assignment: %s %s for %s at %s %s",
			tag, v.subject(sctx, entry.CourseID), entry.UnitType, entry.Section, entry.DayType, entry.TimeSlot,
		))
	}
	return messages
}

func hasRoomCounterpart(roomEntries []models.ScheduleEntry, entry models.ScheduleEntry) bool {
	for _, other := range roomEntries {
		if other.CourseID == entry.CourseID &&
			other.UnitType == entry.UnitType &&
			other.DayType == entry.DayType &&
			other.TimeSlot == entry.TimeSlot &&
			other.Section == entry.Section &&
			section2Value(other.Section2) == section2Value(entry.Section2) {
			return true
		}
	}
	return false
}

func section2Value(section2 *string) string {
	if section2 == nil {
		return ""
	}
	return *section2
}

// duplicateSectionTimes reports a section attending more than one distinct
// class in the same slot.
func (v *ConflictValidator) duplicateSectionTimes(sctx *ScheduleContext, scoped []models.ScheduleEntry, tag string) []string {
	type slotKey struct {
		Day     models.DayType
		Time    string
		Section string
	}
	groups := make(map[slotKey][]models.ScheduleEntry)
	for _, entry := range scoped {
		for _, section := range entry.Sections() {
			key := slotKey{entry.DayType, entry.TimeSlot, section}
			groups[key] = append(groups[key], entry)
		}
	}

	keys := make([]slotKey, 0, len(groups))
	for key, entries := range groups {
		if len(entries) > 1 {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Day != keys[j].Day {
			return keys[i].Day < keys[j].Day
		}
		si, sj := models.SlotIndex(keys[i].Time), models.SlotIndex(keys[j].Time)
		if si != sj {
			return si < sj
		}
		return keys[i].Section < keys[j].Section
	})

	var messages []string
	for _, key := range keys {
		subjects := make([]string, 0, len(groups[key]))
		seen := make(map[string]bool)
		for _, entry := range groups[key] {
			label := fmt.Sprintf("%s %s", v.subject(sctx, entry.CourseID), entry.UnitType)
			if !seen[label] {
				seen[label] = true
				subjects = append(subjects, label)
			}
		}
		if len(subjects) < 2 {
			// same schedule twice is a duplicate-placement conflict, not a
			// section double-booking
			continue
		}
		messages = append(messages, fmt.Sprintf(
			"%s Section %s double-booked at %s %s: %s",
			tag, key.Section, key.Day, key.Time, strings.Join(subjects, ", "),
		))
	}
	return messages
}
