package models

import "time"

// DayType is one of the two day patterns a session can occupy.
type DayType string

const (
	DayTypeMWF  DayType = "MWF"
	DayTypeTTHS DayType = "TTHS"
)

// DayTypes lists the patterns in display order.
var DayTypes = []DayType{DayTypeMWF, DayTypeTTHS}

// UnitType is the session role an entry represents.
type UnitType string

const (
	UnitTypeLec     UnitType = "Lec"
	UnitTypeLab     UnitType = "Lab"
	UnitTypePureLec UnitType = "PureLec"
)

// TimeSlots is the fixed ordered list of slot labels shared by both day
// patterns. ScheduleEntry.TimeSlot always holds one of these labels; slot
// index is positional within this list.
var TimeSlots = []string{
	"7:30 - 8:50",
	"8:50 - 10:10",
	"10:10 - 11:30",
	"11:30 - 12:50",
	"12:50 - 2:10",
	"2:10 - 3:30",
	"3:30 - 4:50",
	"4:50 - 6:10",
	"6:10 - 7:30",
}

// SlotIndex returns the position of a slot label, or -1 when unknown.
func SlotIndex(label string) int {
	for i, slot := range TimeSlots {
		if slot == label {
			return i
		}
	}
	return -1
}

// ScheduleEntry places a session on the (day pattern, time slot) grid.
// Col 0 is the section-view record (room not yet assigned); Col > 0 is the
// room-view record occupying that room column. A committed placement with a
// room produces one of each.
type ScheduleEntry struct {
	ID        string    `db:"id" json:"id"`
	DayType   DayType   `db:"day_type" json:"day_type"`
	TimeSlot  string    `db:"time_slot" json:"time_slot"`
	Col       int       `db:"col" json:"col"`
	RoomID    *string   `db:"room_id" json:"room_id,omitempty"`
	CourseID  string    `db:"course_id" json:"course_id"`
	UnitType  UnitType  `db:"unit_type" json:"unit_type"`
	Section   string    `db:"section" json:"section"`
	Section2  *string   `db:"section2" json:"section2,omitempty"`
	Color     string    `db:"color" json:"color"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Sections returns the distinct non-empty sections attached to the
// entry. A second section equal to the first names one section, not two.
func (e ScheduleEntry) Sections() []string {
	sections := []string{e.Section}
	if e.Section2 != nil && *e.Section2 != "" && *e.Section2 != e.Section {
		sections = append(sections, *e.Section2)
	}
	return sections
}

// ComplementOf returns the unit type that completes a Lec/Lab pair, or ""
// when the entry has no complement.
func (e ScheduleEntry) ComplementOf() UnitType {
	switch e.UnitType {
	case UnitTypeLec:
		return UnitTypeLab
	case UnitTypeLab:
		return UnitTypeLec
	default:
		return ""
	}
}
