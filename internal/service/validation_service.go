package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Ghilbi/citcs-schedule-api/internal/dto"
	"github.com/Ghilbi/citcs-schedule-api/internal/models"
	appErrors "github.com/Ghilbi/citcs-schedule-api/pkg/errors"
)

type validationRoomLister interface {
	ListAll(ctx context.Context) ([]models.Room, error)
}

type validationCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

const validationCachePrefix = "validation:"

// ValidationService runs conflict scans against a scope. Reports are
// cached briefly so rapid repeated triggers coalesce into one scan;
// force bypasses the cache for user-initiated saves and deletes that need
// immediate feedback.
type ValidationService struct {
	contexts  *ScheduleContextBuilder
	rooms     validationRoomLister
	validator *ConflictValidator
	cache     validationCache
	cacheTTL  time.Duration
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewValidationService wires validator dependencies.
func NewValidationService(contexts *ScheduleContextBuilder, rooms validationRoomLister, validator *ConflictValidator, cache validationCache, cacheTTL time.Duration, metrics *MetricsService, logger *zap.Logger) *ValidationService {
	if validator == nil {
		validator = NewConflictValidator(logger)
	}
	if cacheTTL <= 0 {
		cacheTTL = 300 * time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ValidationService{
		contexts:  contexts,
		rooms:     rooms,
		validator: validator,
		cache:     cache,
		cacheTTL:  cacheTTL,
		metrics:   metrics,
		logger:    logger,
	}
}

// Run produces the conflict report for the requested view scope.
func (s *ValidationService) Run(ctx context.Context, query dto.ValidationQuery) (*models.ConflictReport, error) {
	if query.Trimester == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "trimester is required")
	}
	view := query.View
	switch view {
	case models.ViewRoomGroupA, models.ViewRoomGroupB, models.ViewSectionView:
	case "":
		view = models.ViewSectionView
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "view must be room-group-a, room-group-b or section-view")
	}

	key := fmt.Sprintf("%s%s:%s:%s:%s", validationCachePrefix, view, query.Trimester, query.YearLevel, query.Section)
	if s.cache != nil && !query.Force {
		var cached models.ConflictReport
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.metrics.RecordCacheOperation(true)
			return &cached, nil
		}
		s.metrics.RecordCacheOperation(false)
	}

	sctx, err := s.contexts.Build(ctx, Scope{Trimester: query.Trimester, YearLevel: query.YearLevel, Section: query.Section})
	if err != nil {
		return nil, err
	}
	rooms, err := s.rooms.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	topo := BuildRoomTopology(rooms)

	messages := s.validator.Validate(sctx, topo, view)
	report := &models.ConflictReport{
		View:        view,
		Trimester:   query.Trimester,
		YearLevel:   query.YearLevel,
		Section:     query.Section,
		Messages:    messages,
		GeneratedAt: time.Now().UTC(),
	}

	if s.metrics != nil {
		s.metrics.ObserveValidation(string(view), len(messages))
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, report, s.cacheTTL); err != nil {
			s.logger.Warn("validation report cache write failed", zap.Error(err))
		}
	}

	return report, nil
}

// Invalidate drops every cached report. Called after any mutation of
// schedules, courses, offerings or rooms.
func (s *ValidationService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, validationCachePrefix+"*"); err != nil {
		s.logger.Warn("validation cache invalidation failed", zap.Error(err))
	}
}
