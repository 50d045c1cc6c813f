package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	roomserrors "github.com/ksquareincmx/conference-server-sub000/internal/rooms/errors"
	"github.com/ksquareincmx/conference-server-sub000/internal/rooms/repository"
	"github.com/ksquareincmx/conference-server-sub000/internal/rooms/validator"
	"github.com/ksquareincmx/conference-server-sub000/pkg/config"
	apperrors "github.com/ksquareincmx/conference-server-sub000/pkg/errors"
	"github.com/ksquareincmx/conference-server-sub000/pkg/model"
	"github.com/ksquareincmx/conference-server-sub000/pkg/sanitizer"
)

type RoomService interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id string) (*model.Room, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Room, int64, error)
	Update(ctx context.Context, id string, updates *model.RoomUpdate) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

type roomService struct {
	repo      repository.RoomRepository
	validator *validator.RoomValidator
	cfg       *config.Config
}

func NewRoomService(
	repo repository.RoomRepository,
	validator *validator.RoomValidator,
	cfg *config.Config,
) RoomService {
	return &roomService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *roomService) Create(ctx context.Context, room *model.Room) error {
	s.sanitize(room)

	if err := s.validator.Validate(room); err != nil {
		s.cfg.Log.Warn("Room validation failed",
			"name", room.Name,
			"color", room.Color,
			"error", err,
		)
		return apperrors.Validation("Room validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Create(ctx, room); err != nil {
		if errors.Is(err, roomserrors.ErrDuplicateNameColor) {
			return apperrors.Conflict(fmt.Sprintf(
				"Room with name %q and color %q already exists", room.Name, room.Color,
			))
		}
		s.cfg.Log.Error("Failed to create room",
			"name", room.Name,
			"color", room.Color,
			"error", err,
		)
		return apperrors.Internal("Failed to create room", err)
	}

	s.cfg.Log.Info("Room created successfully",
		"id", room.ID,
		"name", room.Name,
		"color", room.Color,
	)

	return nil
}

func (s *roomService) GetByID(ctx context.Context, id string) (*model.Room, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Room", id)
		}
		if errors.Is(err, roomserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid room ID format")
		}
		s.cfg.Log.Error("Failed to get room by ID", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve room", err)
	}

	return room, nil
}

func (s *roomService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Room, int64, error) {
	var count int64
	var rooms []*model.Room
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count rooms", "error", errCount)
			errCount = apperrors.Internal("Failed to count rooms", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		rooms, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list rooms",
				"limit", limit,
				"offset", offset,
				"error", errFind,
			)
			errFind = apperrors.Internal("Failed to retrieve rooms", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return rooms, count, nil
}

func (s *roomService) Update(ctx context.Context, id string, updates *model.RoomUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Room ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Room", id)
		}
		if errors.Is(err, roomserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid room ID format")
		}
		return apperrors.Internal("Failed to check room existence", err)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Room update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{
			"error": err.Error(),
		})
	}

	merged := s.mergeRoomUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validator.Validate(merged); err != nil {
		return apperrors.Validation("Room validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	// The (name, color) uniqueness check and the write are not atomic here;
	// the unique index is the backstop for concurrent updates.
	if duplicate, err := s.repo.FindByNameAndColor(ctx, merged.Name, merged.Color); err == nil && duplicate.ID != id {
		return apperrors.Conflict(fmt.Sprintf(
			"Room with name %q and color %q already exists", merged.Name, merged.Color,
		))
	} else if err != nil && !errors.Is(err, roomserrors.ErrNotFound) {
		return apperrors.Internal("Failed to check for duplicate room", err)
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, roomserrors.ErrDuplicateNameColor) {
			return apperrors.Conflict(fmt.Sprintf(
				"Room with name %q and color %q already exists", merged.Name, merged.Color,
			))
		}
		s.cfg.Log.Error("Failed to update room", "id", id, "error", err)
		return apperrors.Internal("Failed to update room", err)
	}

	s.cfg.Log.Info("Room updated successfully", "id", id, "name", merged.Name)

	return nil
}

func (s *roomService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Room ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Room", id)
		}
		if errors.Is(err, roomserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid room ID format")
		}
		s.cfg.Log.Error("Failed to delete room", "id", id, "error", err)
		return apperrors.Internal("Failed to delete room", err)
	}

	s.cfg.Log.Info("Room deleted successfully", "id", id)

	return nil
}

// Exists reports whether the room is present, distinguishing absence from
// lookup failure.
func (s *roomService) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) || errors.Is(err, roomserrors.ErrInvalidID) {
			return false, nil
		}
		return false, apperrors.Internal("Failed to check room existence", err)
	}
	return true, nil
}

func (s *roomService) sanitize(room *model.Room) {
	room.Name = sanitizer.SanitizeText(room.Name)
	room.Color = sanitizer.SanitizeText(room.Color)
}

func (s *roomService) mergeRoomUpdates(existing *model.Room, updates *model.RoomUpdate) *model.Room {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Color != "" {
		merged.Color = updates.Color
	}

	return &merged
}
