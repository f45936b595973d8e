package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Ghilbi/citcs-schedule-api/internal/models"
)

// CourseOfferingRepository provides persistence for course offerings.
type CourseOfferingRepository struct {
	db *sqlx.DB
}

// NewCourseOfferingRepository creates a new course offering repository.
func NewCourseOfferingRepository(db *sqlx.DB) *CourseOfferingRepository {
	return &CourseOfferingRepository{db: db}
}

// ListAll returns every offering ordered by section then course.
func (r *CourseOfferingRepository) ListAll(ctx context.Context) ([]models.CourseOffering, error) {
	const query = `SELECT id, course_id, section, type, units, trimester, degree, created_at, updated_at FROM course_offerings ORDER BY section ASC, course_id ASC, type ASC`
	var offerings []models.CourseOffering
	if err := r.db.SelectContext(ctx, &offerings, query); err != nil {
		return nil, fmt.Errorf("list course offerings: %w", err)
	}
	return offerings, nil
}

// FindByID loads an offering by id.
func (r *CourseOfferingRepository) FindByID(ctx context.Context, id string) (*models.CourseOffering, error) {
	const query = `SELECT id, course_id, section, type, units, trimester, degree, created_at, updated_at FROM course_offerings WHERE id = $1`
	var offering models.CourseOffering
	if err := r.db.GetContext(ctx, &offering, query, id); err != nil {
		return nil, err
	}
	return &offering, nil
}

// Exists reports whether an offering already occupies the
// (course, section, trimester, type) key, excluding the given id.
func (r *CourseOfferingRepository) Exists(ctx context.Context, courseID, section, trimester string, unitType models.UnitType, excludeID string) (bool, error) {
	query := `SELECT 1 FROM course_offerings WHERE course_id = $1 AND section = $2 AND trimester = $3 AND type = $4`
	args := []interface{}{courseID, section, trimester, unitType}
	if excludeID != "" {
		query += ` AND id <> $5`
		args = append(args, excludeID)
	}
	query += ` LIMIT 1`

	var one int
	err := r.db.GetContext(ctx, &one, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check offering existence: %w", err)
	}
	return true, nil
}

// Create stores a new offering record.
func (r *CourseOfferingRepository) Create(ctx context.Context, offering *models.CourseOffering) error {
	if offering.ID == "" {
		offering.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if offering.CreatedAt.IsZero() {
		offering.CreatedAt = now
	}
	offering.UpdatedAt = now

	const query = `INSERT INTO course_offerings (id, course_id, section, type, units, trimester, degree, created_at, updated_at) VALUES (:id, :course_id, :section, :type, :units, :trimester, :degree, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, offering); err != nil {
		return fmt.Errorf("create course offering: %w", err)
	}
	return nil
}

// Update modifies an offering record.
func (r *CourseOfferingRepository) Update(ctx context.Context, offering *models.CourseOffering) error {
	offering.UpdatedAt = time.Now().UTC()
	const query = `UPDATE course_offerings SET course_id = :course_id, section = :section, type = :type, units = :units, trimester = :trimester, degree = :degree, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, offering); err != nil {
		return fmt.Errorf("update course offering: %w", err)
	}
	return nil
}

// Delete removes an offering by id.
func (r *CourseOfferingRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM course_offerings WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete course offering: %w", err)
	}
	return nil
}

// DeleteByCourse removes all offerings of a course (cascade path).
func (r *CourseOfferingRepository) DeleteByCourse(ctx context.Context, courseID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM course_offerings WHERE course_id = $1`, courseID); err != nil {
		return fmt.Errorf("delete offerings by course: %w", err)
	}
	return nil
}
