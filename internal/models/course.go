package models

import "time"

// UnitCategory classifies how a course's units are delivered.
type UnitCategory string

const (
	UnitCategoryPureLec UnitCategory = "PureLec"
	UnitCategoryLecLab  UnitCategory = "Lec/Lab"
)

// Course is a catalog entry. Identity is immutable once offerings or
// schedule entries reference it.
type Course struct {
	ID           string       `db:"id" json:"id"`
	Subject      string       `db:"subject" json:"subject"`
	UnitCategory UnitCategory `db:"unit_category" json:"unit_category"`
	Units        int          `db:"units" json:"units"`
	YearLevel    string       `db:"year_level" json:"year_level"`
	Degree       string       `db:"degree" json:"degree"`
	Trimester    string       `db:"trimester" json:"trimester"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}
