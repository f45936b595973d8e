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

type courseOfferingRepository interface {
	ListAll(ctx context.Context) ([]models.CourseOffering, error)
	FindByID(ctx context.Context, id string) (*models.CourseOffering, error)
	Exists(ctx context.Context, courseID, section, trimester string, unitType models.UnitType, excludeID string) (bool, error)
	Create(ctx context.Context, offering *models.CourseOffering) error
	Update(ctx context.Context, offering *models.CourseOffering) error
	Delete(ctx context.Context, id string) error
}

type offeringCourseFinder interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type offeringEntryCascader interface {
	DeleteByOffering(ctx context.Context, courseID string, unitType models.UnitType, section string) error
}

// CreateOfferingRequest assigns a course to a section. Offering types,
// units, trimester and degree derive from the course record.
type CreateOfferingRequest struct {
	CourseID string `json:"course_id" validate:"required"`
	Section  string `json:"section" validate:"required"`
}

// UpdateOfferingRequest moves an offering to another section.
type UpdateOfferingRequest struct {
	Section string `json:"section" validate:"required"`
}

// CourseOfferingService handles section assignment workflows. A Lec/Lab
// course always produces its Lec and Lab offerings together so the
// scheduler can pair them.
type CourseOfferingService struct {
	repo       courseOfferingRepository
	courses    offeringCourseFinder
	entries    offeringEntryCascader
	validation validationInvalidator
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewCourseOfferingService creates a new offering service.
func NewCourseOfferingService(repo courseOfferingRepository, courses offeringCourseFinder, entries offeringEntryCascader, validation validationInvalidator, validate *validator.Validate, logger *zap.Logger) *CourseOfferingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseOfferingService{repo: repo, courses: courses, entries: entries, validation: validation, validator: validate, logger: logger}
}

// List returns all course offerings.
func (s *CourseOfferingService) List(ctx context.Context) ([]models.CourseOffering, error) {
	offerings, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list course offerings")
	}
	return offerings, nil
}

// Get returns an offering by identifier.
func (s *CourseOfferingService) Get(ctx context.Context, id string) (*models.CourseOffering, error) {
	offering, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course offering not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course offering")
	}
	return offering, nil
}

func offeringTypesFor(course *models.Course) []models.UnitType {
	if course.UnitCategory == models.UnitCategoryLecLab {
		return []models.UnitType{models.UnitTypeLec, models.UnitTypeLab}
	}
	return []models.UnitType{models.UnitTypePureLec}
}

// Create assigns a course to a section. A PureLec course yields one
// offering; a Lec/Lab course yields the Lec and Lab pair. Duplicate
// (course, section, trimester, type) assignments are rejected before
// anything is written.
func (s *CourseOfferingService) Create(ctx context.Context, req CreateOfferingRequest) ([]models.CourseOffering, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid offering payload")
	}

	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	section := strings.TrimSpace(req.Section)
	types := offeringTypesFor(course)
	for _, unitType := range types {
		exists, err := s.repo.Exists(ctx, course.ID, section, course.Trimester, unitType, "")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check offering uniqueness")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "offering already exists for this course, section and type")
		}
	}

	created := make([]models.CourseOffering, 0, len(types))
	for _, unitType := range types {
		offering := models.CourseOffering{
			CourseID:  course.ID,
			Section:   section,
			Type:      unitType,
			Units:     course.Units,
			Trimester: course.Trimester,
			Degree:    course.Degree,
		}
		if err := s.repo.Create(ctx, &offering); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course offering")
		}
		created = append(created, offering)
	}

	s.invalidate(ctx)
	return created, nil
}

// Update moves an offering to another section, re-checking uniqueness.
func (s *CourseOfferingService) Update(ctx context.Context, id string, req UpdateOfferingRequest) (*models.CourseOffering, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid offering payload")
	}

	offering, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course offering not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course offering")
	}

	section := strings.TrimSpace(req.Section)
	exists, err := s.repo.Exists(ctx, offering.CourseID, section, offering.Trimester, offering.Type, offering.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check offering uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "offering already exists for this course, section and type")
	}

	offering.Section = section

	if err := s.repo.Update(ctx, offering); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course offering")
	}
	s.invalidate(ctx)
	return offering, nil
}

// Delete removes an offering and cascades to its schedule entries.
func (s *CourseOfferingService) Delete(ctx context.Context, id string) error {
	offering, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "course offering not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course offering")
	}

	if err := s.entries.DeleteByOffering(ctx, offering.CourseID, offering.Type, offering.Section); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete offering schedule entries")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course offering")
	}
	s.invalidate(ctx)
	return nil
}

func (s *CourseOfferingService) invalidate(ctx context.Context) {
	if s.validation != nil {
		s.validation.Invalidate(ctx)
	}
}
