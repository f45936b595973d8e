package dto

import "github.com/Ghilbi/citcs-schedule-api/internal/models"

// AutoScheduleRequest asks the scheduler to place every pending offering of
// a section into the selected room group.
type AutoScheduleRequest struct {
	Section   string `json:"section" validate:"required"`
	Trimester string `json:"trimester" validate:"required"`
	YearLevel string `json:"yearLevel"`
	RoomGroup string `json:"roomGroup" validate:"required,oneof=A B"`
	Seed      *int64 `json:"seed"`
}

// UnscheduledItem names an offering the scheduler could not place.
type UnscheduledItem struct {
	Subject  string          `json:"subject"`
	UnitType models.UnitType `json:"unitType"`
	Reason   string          `json:"reason,omitempty"`
}

// AutoScheduleResponse summarises a scheduler run. Partial success is the
// normal outcome, not a failure state.
type AutoScheduleResponse struct {
	ScheduledCount   int                    `json:"scheduledCount"`
	UnscheduledCount int                    `json:"unscheduledCount"`
	Unscheduled      []UnscheduledItem      `json:"unscheduled"`
	Entries          []models.ScheduleEntry `json:"entries"`
	Summary          string                 `json:"summary"`
}

// ValidationQuery selects the scope a conflict scan runs against.
type ValidationQuery struct {
	View      models.ValidationView `form:"view" json:"view"`
	Trimester string                `form:"trimester" json:"trimester"`
	YearLevel string                `form:"yearLevel" json:"yearLevel"`
	Section   string                `form:"section" json:"section"`
	Force     bool                  `form:"force" json:"force"`
}
