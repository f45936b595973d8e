package models

import "time"

// CourseOffering assigns a course to a section for a trimester. A Lec/Lab
// course carries two offerings per section, one Lec and one Lab, sharing
// course_id+section+trimester. At most one offering exists per
// (course_id, section, trimester, type).
type CourseOffering struct {
	ID        string    `db:"id" json:"id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	Section   string    `db:"section" json:"section"`
	Type      UnitType  `db:"type" json:"type"`
	Units     int       `db:"units" json:"units"`
	Trimester string    `db:"trimester" json:"trimester"`
	Degree    string    `db:"degree" json:"degree"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// InternationalPrefix marks sections that are not bound to a single
// year-level course record; their scope linkage goes through the
// offering table instead.
const InternationalPrefix = "INTERNATIONAL "
