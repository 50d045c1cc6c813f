package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	roomserrors "github.com/ksquareincmx/conference-server-sub000/internal/rooms/errors"
	"github.com/ksquareincmx/conference-server-sub000/internal/rooms/validator"
	"github.com/ksquareincmx/conference-server-sub000/pkg/config"
	mongotx "github.com/ksquareincmx/conference-server-sub000/pkg/db/mongo"
	apperrors "github.com/ksquareincmx/conference-server-sub000/pkg/errors"
	"github.com/ksquareincmx/conference-server-sub000/pkg/logger"
	"github.com/ksquareincmx/conference-server-sub000/pkg/model"
)

type mockRoomRepository struct {
	createFunc             func(ctx context.Context, room *model.Room) error
	findByIDFunc           func(ctx context.Context, id string) (*model.Room, error)
	findAllFunc            func(ctx context.Context, limit int, offset int64) ([]*model.Room, error)
	findByNameAndColorFunc func(ctx context.Context, name, color string) (*model.Room, error)
	updateFunc             func(ctx context.Context, id string, room *model.Room) (*mongo.UpdateResult, error)
	deleteFunc             func(ctx context.Context, id string) error
	countFunc              func(ctx context.Context) (int64, error)
}

func (m *mockRoomRepository) Create(ctx context.Context, room *model.Room) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, room)
	}
	room.ID = "64adf0a6b1c2d3e4f5a6b7c8"
	return nil
}

func (m *mockRoomRepository) FindByID(ctx context.Context, id string) (*model.Room, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.Room{ID: id, Name: "Conference A", Color: "blue"}, nil
}

func (m *mockRoomRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Room, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return []*model.Room{}, nil
}

func (m *mockRoomRepository) FindByNameAndColor(ctx context.Context, name, color string) (*model.Room, error) {
	if m.findByNameAndColorFunc != nil {
		return m.findByNameAndColorFunc(ctx, name, color)
	}
	return nil, roomserrors.ErrNotFound
}

func (m *mockRoomRepository) Update(ctx context.Context, id string, room *model.Room) (*mongo.UpdateResult, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, room)
	}
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func (m *mockRoomRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockRoomRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockRoomRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

func newTestService(repo *mockRoomRepository) RoomService {
	cfg := &config.Config{
		ReadTimeout: 5 * time.Second,
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
	}
	return NewRoomService(repo, validator.NewRoomValidator(), cfg)
}

func TestCreate(t *testing.T) {
	t.Run("success trims and collapses whitespace", func(t *testing.T) {
		svc := newTestService(&mockRoomRepository{})

		room := &model.Room{Name: "  Conference   A ", Color: "blue"}
		if err := svc.Create(context.Background(), room); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if room.Name != "Conference A" {
			t.Errorf("expected sanitized name, got %q", room.Name)
		}
		if room.ID == "" {
			t.Error("expected generated room id")
		}
	})

	t.Run("duplicate name and color", func(t *testing.T) {
		repo := &mockRoomRepository{
			createFunc: func(ctx context.Context, room *model.Room) error {
				return roomserrors.ErrDuplicateNameColor
			},
		}
		svc := newTestService(repo)

		err := svc.Create(context.Background(), &model.Room{Name: "Conference A", Color: "blue"})
		if err == nil {
			t.Fatal("expected conflict error")
		}
		if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
			t.Errorf("expected conflict code, got %s", apperrors.AsAppError(err).Code)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		svc := newTestService(&mockRoomRepository{})

		err := svc.Create(context.Background(), &model.Room{Color: "blue"})
		if err == nil {
			t.Fatal("expected validation error")
		}
		if apperrors.AsAppError(err).Code != apperrors.CodeValidation {
			t.Errorf("expected validation code, got %s", apperrors.AsAppError(err).Code)
		}
	})
}

func TestGetAll(t *testing.T) {
	repo := &mockRoomRepository{
		findAllFunc: func(ctx context.Context, limit int, offset int64) ([]*model.Room, error) {
			return []*model.Room{
				{ID: "64adf0a6b1c2d3e4f5a6b7c8", Name: "Conference A", Color: "blue"},
				{ID: "64adf0a6b1c2d3e4f5a6b7c9", Name: "Conference B", Color: "red"},
			}, nil
		},
		countFunc: func(ctx context.Context) (int64, error) {
			return 7, nil
		},
	}
	svc := newTestService(repo)

	rooms, total, err := svc.GetAll(context.Background(), 2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rooms) != 2 {
		t.Errorf("expected 2 rooms, got %d", len(rooms))
	}
	if total != 7 {
		t.Errorf("expected total 7, got %d", total)
	}
}

func TestUpdate_DuplicatePair(t *testing.T) {
	repo := &mockRoomRepository{
		findByNameAndColorFunc: func(ctx context.Context, name, color string) (*model.Room, error) {
			return &model.Room{ID: "64adf0a6b1c2d3e4f5a6b7ff", Name: name, Color: color}, nil
		},
	}
	svc := newTestService(repo)

	err := svc.Update(context.Background(), "64adf0a6b1c2d3e4f5a6b7c8", &model.RoomUpdate{Name: "Conference B"})
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Errorf("expected conflict code, got %s", apperrors.AsAppError(err).Code)
	}
}

func TestExists(t *testing.T) {
	tests := []struct {
		name    string
		repoErr error
		want    bool
		wantErr bool
	}{
		{"present", nil, true, false},
		{"absent", roomserrors.ErrNotFound, false, false},
		{"malformed id", roomserrors.ErrInvalidID, false, false},
		{"lookup failure", errors.New("connection reset"), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRoomRepository{
				findByIDFunc: func(ctx context.Context, id string) (*model.Room, error) {
					if tt.repoErr != nil {
						return nil, tt.repoErr
					}
					return &model.Room{ID: id, Name: "Conference A", Color: "blue"}, nil
				},
			}
			svc := newTestService(repo)

			got, err := svc.Exists(context.Background(), "64adf0a6b1c2d3e4f5a6b7c8")
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
