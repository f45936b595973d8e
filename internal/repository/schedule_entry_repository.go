package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Ghilbi/citcs-schedule-api/internal/models"
)

// ScheduleEntryRepository provides persistence for schedule entries.
type ScheduleEntryRepository struct {
	db *sqlx.DB
}

// NewScheduleEntryRepository creates a new schedule entry repository.
func NewScheduleEntryRepository(db *sqlx.DB) *ScheduleEntryRepository {
	return &ScheduleEntryRepository{db: db}
}

const scheduleEntryColumns = `id, day_type, time_slot, col, room_id, course_id, unit_type, section, section2, color, created_at, updated_at`

// ListAll returns every schedule entry. Scope filtering is done in-process
// by the context builder.
func (r *ScheduleEntryRepository) ListAll(ctx context.Context) ([]models.ScheduleEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM schedule_entries ORDER BY day_type ASC, time_slot ASC, col ASC`, scheduleEntryColumns)
	var entries []models.ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list schedule entries: %w", err)
	}
	return entries, nil
}

// FindByID loads a schedule entry by id.
func (r *ScheduleEntryRepository) FindByID(ctx context.Context, id string) (*models.ScheduleEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM schedule_entries WHERE id = $1`, scheduleEntryColumns)
	var entry models.ScheduleEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Create stores a single schedule entry.
func (r *ScheduleEntryRepository) Create(ctx context.Context, entry *models.ScheduleEntry) error {
	prepareScheduleEntry(entry)
	if _, err := r.db.NamedExecContext(ctx, insertScheduleEntryQuery, entry); err != nil {
		return fmt.Errorf("create schedule entry: %w", err)
	}
	return nil
}

// BulkCreateWithTx inserts entries using an existing transaction. The
// auto-scheduler uses this so a Lec+Lab pair commits all four rows or none.
func (r *ScheduleEntryRepository) BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, entries []models.ScheduleEntry) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	return bulkInsertScheduleEntries(ctx, tx, entries)
}

// BulkCreate inserts many entries within its own transaction.
func (r *ScheduleEntryRepository) BulkCreate(ctx context.Context, entries []models.ScheduleEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk create schedule entries: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = bulkInsertScheduleEntries(ctx, tx, entries); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk create schedule entries: %w", err)
	}
	return nil
}

const insertScheduleEntryQuery = `INSERT INTO schedule_entries (id, day_type, time_slot, col, room_id, course_id, unit_type, section, section2, color, created_at, updated_at) VALUES (:id, :day_type, :time_slot, :col, :room_id, :course_id, :unit_type, :section, :section2, :color, :created_at, :updated_at)`

func bulkInsertScheduleEntries(ctx context.Context, exec sqlx.ExtContext, entries []models.ScheduleEntry) error {
	for i := range entries {
		payload := entries[i]
		prepareScheduleEntry(&payload)
		if _, err := sqlx.NamedExecContext(ctx, exec, insertScheduleEntryQuery, &payload); err != nil {
			return fmt.Errorf("bulk insert schedule entry: %w", err)
		}
		entries[i] = payload
	}
	return nil
}

func prepareScheduleEntry(entry *models.ScheduleEntry) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now
}

// Update modifies a schedule entry.
func (r *ScheduleEntryRepository) Update(ctx context.Context, entry *models.ScheduleEntry) error {
	entry.UpdatedAt = time.Now().UTC()
	const query = `UPDATE schedule_entries SET day_type = :day_type, time_slot = :time_slot, col = :col, room_id = :room_id, course_id = :course_id, unit_type = :unit_type, section = :section, section2 = :section2, color = :color, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("update schedule entry: %w", err)
	}
	return nil
}

// Delete removes a schedule entry by id.
func (r *ScheduleEntryRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedule_entries WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete schedule entry: %w", err)
	}
	return nil
}

// DeleteByCourse removes all entries of a course (cascade path when a
// course or its offerings are deleted).
func (r *ScheduleEntryRepository) DeleteByCourse(ctx context.Context, courseID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedule_entries WHERE course_id = $1`, courseID); err != nil {
		return fmt.Errorf("delete schedule entries by course: %w", err)
	}
	return nil
}

// DeleteByOffering removes the entries backing one offering: every row for
// the (course, unit type, section) triple, section-level and room-level.
func (r *ScheduleEntryRepository) DeleteByOffering(ctx context.Context, courseID string, unitType models.UnitType, section string) error {
	const query = `DELETE FROM schedule_entries WHERE course_id = $1 AND unit_type = $2 AND (section = $3 OR section2 = $3)`
	if _, err := r.db.ExecContext(ctx, query, courseID, unitType, section); err != nil {
		return fmt.Errorf("delete schedule entries by offering: %w", err)
	}
	return nil
}

// BeginTxx exposes transaction creation for commit sequences.
func (r *ScheduleEntryRepository) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, opts)
}
