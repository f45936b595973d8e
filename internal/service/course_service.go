package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Ghilbi/citcs-schedule-api/internal/models"
	appErrors "github.com/Ghilbi/citcs-schedule-api/pkg/errors"
)

type courseRepository interface {
	ListAll(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

type courseOfferingCascader interface {
	DeleteByCourse(ctx context.Context, courseID string) error
}

type courseEntryCascader interface {
	DeleteByCourse(ctx context.Context, courseID string) error
}

type validationInvalidator interface {
	Invalidate(ctx context.Context)
}

// CreateCourseRequest captures fields for creating courses.
type CreateCourseRequest struct {
	Subject      string `json:"subject" validate:"required"`
	UnitCategory string `json:"unit_category" validate:"required,oneof=PureLec Lec/Lab"`
	Units        int    `json:"units" validate:"required,min=1"`
	YearLevel    string `json:"year_level" validate:"required"`
	Degree       string `json:"degree" validate:"required"`
	Trimester    string `json:"trimester" validate:"required"`
}

// UpdateCourseRequest modifies course fields.
type UpdateCourseRequest struct {
	Subject      string `json:"subject" validate:"required"`
	UnitCategory string `json:"unit_category" validate:"required,oneof=PureLec Lec/Lab"`
	Units        int    `json:"units" validate:"required,min=1"`
	YearLevel    string `json:"year_level" validate:"required"`
	Degree       string `json:"degree" validate:"required"`
	Trimester    string `json:"trimester" validate:"required"`
}

// CourseService handles course catalog workflows.
type CourseService struct {
	repo       courseRepository
	offerings  courseOfferingCascader
	entries    courseEntryCascader
	validation validationInvalidator
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewCourseService creates a new course service.
func NewCourseService(repo courseRepository, offerings courseOfferingCascader, entries courseEntryCascader, validation validationInvalidator, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, offerings: offerings, entries: entries, validation: validation, validator: validate, logger: logger}
}

// List returns all courses.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	courses, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// Get returns a course by identifier.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create adds a catalog course.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	course := &models.Course{
		Subject:      strings.TrimSpace(req.Subject),
		UnitCategory: models.UnitCategory(req.UnitCategory),
		Units:        req.Units,
		YearLevel:    req.YearLevel,
		Degree:       req.Degree,
		Trimester:    req.Trimester,
	}

	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	s.invalidate(ctx)
	return course, nil
}

// Update modifies an existing course.
func (s *CourseService) Update(ctx context.Context, id string, req UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	course.Subject = strings.TrimSpace(req.Subject)
	course.UnitCategory = models.UnitCategory(req.UnitCategory)
	course.Units = req.Units
	course.YearLevel = req.YearLevel
	course.Degree = req.Degree
	course.Trimester = req.Trimester

	if err := s.repo.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	s.invalidate(ctx)
	return course, nil
}

// Delete removes a course and cascades to its offerings and schedule
// entries.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	if err := s.entries.DeleteByCourse(ctx, course.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course schedule entries")
	}
	if err := s.offerings.DeleteByCourse(ctx, course.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course offerings")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	s.invalidate(ctx)
	return nil
}

func (s *CourseService) invalidate(ctx context.Context) {
	if s.validation != nil {
		s.validation.Invalidate(ctx)
	}
}
