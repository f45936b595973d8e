package models

import "time"

// ValidationView selects which grid the validator inspects.
type ValidationView string

const (
	ViewRoomGroupA  ValidationView = "room-group-a"
	ViewRoomGroupB  ValidationView = "room-group-b"
	ViewSectionView ValidationView = "section-view"
)

// ConflictReport is the validator output for one scope: an ordered list of
// human-readable conflict messages. Conflicts are informational; they never
// block further scheduling.
type ConflictReport struct {
	View        ValidationView `json:"view"`
	Trimester   string         `json:"trimester"`
	YearLevel   string         `json:"year_level,omitempty"`
	Section     string         `json:"section,omitempty"`
	Messages    []string       `json:"messages"`
	GeneratedAt time.Time      `json:"generated_at"`
}
