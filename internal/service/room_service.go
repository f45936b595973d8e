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

type roomRepository interface {
	ListAll(ctx context.Context) ([]models.Room, error)
	FindByID(ctx context.Context, id string) (*models.Room, error)
	Create(ctx context.Context, room *models.Room) error
	Update(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, id string) error
}

// CreateRoomRequest captures fields for adding rooms.
type CreateRoomRequest struct {
	Name     string `json:"name" validate:"required"`
	RoomType string `json:"room_type"`
}

// UpdateRoomRequest modifies room fields.
type UpdateRoomRequest struct {
	Name     string `json:"name" validate:"required"`
	RoomType string `json:"room_type"`
}

// RoomService handles the room collection backing the room topology.
type RoomService struct {
	repo       roomRepository
	validation validationInvalidator
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewRoomService creates a new room service.
func NewRoomService(repo roomRepository, validation validationInvalidator, validate *validator.Validate, logger *zap.Logger) *RoomService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoomService{repo: repo, validation: validation, validator: validate, logger: logger}
}

// List returns all rooms in insertion order.
func (s *RoomService) List(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	return rooms, nil
}

// Get returns a room by identifier.
func (s *RoomService) Get(ctx context.Context, id string) (*models.Room, error) {
	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}
	return room, nil
}

// Columns returns the current room-column topology, ordered.
func (s *RoomService) Columns(ctx context.Context) ([]string, error) {
	rooms, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	return BuildRoomTopology(rooms).Columns(), nil
}

// Create adds a room. Names are unique; the room type is stored as
// normalized.
func (s *RoomService) Create(ctx context.Context, req CreateRoomRequest) (*models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}

	name := strings.TrimSpace(req.Name)
	if err := s.checkNameUnique(ctx, name, ""); err != nil {
		return nil, err
	}

	room := &models.Room{
		Name:     name,
		RoomType: string(NormalizeRoomType(req.RoomType)),
	}

	if err := s.repo.Create(ctx, room); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create room")
	}
	s.invalidate(ctx)
	return room, nil
}

// Update modifies an existing room.
func (s *RoomService) Update(ctx context.Context, id string, req UpdateRoomRequest) (*models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}

	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}

	name := strings.TrimSpace(req.Name)
	if err := s.checkNameUnique(ctx, name, room.ID); err != nil {
		return nil, err
	}

	room.Name = name
	room.RoomType = string(NormalizeRoomType(req.RoomType))

	if err := s.repo.Update(ctx, room); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update room")
	}
	s.invalidate(ctx)
	return room, nil
}

// Delete removes a room. Existing schedule entries keep their column
// references; the validator reports any that become unassignable.
func (s *RoomService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete room")
	}
	s.invalidate(ctx)
	return nil
}

func (s *RoomService) checkNameUnique(ctx context.Context, name, excludeID string) error {
	rooms, err := s.repo.ListAll(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check room name")
	}
	for _, existing := range rooms {
		if existing.ID != excludeID && strings.EqualFold(strings.TrimSpace(existing.Name), name) {
			return appErrors.Clone(appErrors.ErrConflict, "room name already exists")
		}
	}
	return nil
}

func (s *RoomService) invalidate(ctx context.Context) {
	if s.validation != nil {
		s.validation.Invalidate(ctx)
	}
}
