package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Ghilbi/citcs-schedule-api/internal/models"
	appErrors "github.com/Ghilbi/citcs-schedule-api/pkg/errors"
)

type scheduleEntryRepository interface {
	ListAll(ctx context.Context) ([]models.ScheduleEntry, error)
	FindByID(ctx context.Context, id string) (*models.ScheduleEntry, error)
	Create(ctx context.Context, entry *models.ScheduleEntry) error
	Update(ctx context.Context, entry *models.ScheduleEntry) error
	Delete(ctx context.Context, id string) error
}

type entryCourseFinder interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// ScheduleEntryRequest captures fields for manual placements. The same
// shape serves create and update.
type ScheduleEntryRequest struct {
	DayType  string  `json:"day_type" validate:"required,oneof=MWF TTHS"`
	TimeSlot string  `json:"time_slot" validate:"required"`
	Col      int     `json:"col" validate:"min=0"`
	RoomID   *string `json:"room_id"`
	CourseID string  `json:"course_id" validate:"required"`
	UnitType string  `json:"unit_type" validate:"required,oneof=Lec Lab PureLec"`
	Section  string  `json:"section" validate:"required"`
	Section2 *string `json:"section2"`
	Color    string  `json:"color"`
}

// ScheduleEntryService handles manual schedule placements. Creation is
// permissive: conflicting placements are stored and surfaced by the
// validator rather than rejected here, matching how operators fix
// schedules incrementally.
type ScheduleEntryService struct {
	repo       scheduleEntryRepository
	courses    entryCourseFinder
	validation validationInvalidator
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewScheduleEntryService creates a new schedule entry service.
func NewScheduleEntryService(repo scheduleEntryRepository, courses entryCourseFinder, validation validationInvalidator, validate *validator.Validate, logger *zap.Logger) *ScheduleEntryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleEntryService{repo: repo, courses: courses, validation: validation, validator: validate, logger: logger}
}

// List returns all schedule entries.
func (s *ScheduleEntryService) List(ctx context.Context) ([]models.ScheduleEntry, error) {
	entries, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule entries")
	}
	return entries, nil
}

// Get returns a schedule entry by identifier.
func (s *ScheduleEntryService) Get(ctx context.Context, id string) (*models.ScheduleEntry, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entry")
	}
	return entry, nil
}

func (s *ScheduleEntryService) fromRequest(ctx context.Context, req ScheduleEntryRequest) (*models.ScheduleEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule entry payload")
	}
	if models.SlotIndex(req.TimeSlot) < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown time slot")
	}

	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	color := req.Color
	if color == "" {
		color = colorFor(course.ID)
	}

	return &models.ScheduleEntry{
		DayType:  models.DayType(req.DayType),
		TimeSlot: req.TimeSlot,
		Col:      req.Col,
		RoomID:   req.RoomID,
		CourseID: course.ID,
		UnitType: models.UnitType(req.UnitType),
		Section:  req.Section,
		Section2: req.Section2,
		Color:    color,
	}, nil
}

// Create stores a manual placement.
func (s *ScheduleEntryService) Create(ctx context.Context, req ScheduleEntryRequest) (*models.ScheduleEntry, error) {
	entry, err := s.fromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule entry")
	}
	s.invalidate(ctx)
	return entry, nil
}

// Update replaces a placement's fields.
func (s *ScheduleEntryService) Update(ctx context.Context, id string, req ScheduleEntryRequest) (*models.ScheduleEntry, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entry")
	}

	entry, err := s.fromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	entry.ID = existing.ID
	entry.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update schedule entry")
	}
	s.invalidate(ctx)
	return entry, nil
}

// Delete removes a placement.
func (s *ScheduleEntryService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entry")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule entry")
	}
	s.invalidate(ctx)
	return nil
}

func (s *ScheduleEntryService) invalidate(ctx context.Context) {
	if s.validation != nil {
		s.validation.Invalidate(ctx)
	}
}
