package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ksquareincmx/conference-server-sub000/pkg/config"
	"github.com/ksquareincmx/conference-server-sub000/pkg/model"
)

// RoomLockRepository provides per-room advisory locks for booking writes.
type RoomLockRepository interface {
	Create(ctx context.Context, lock *model.RoomLock) (*model.RoomLock, error)
	Delete(ctx context.Context, lockID string) error
}

type mongoRoomLockRepository struct {
	collection *mongo.Collection
}

func NewRoomLockRepository(cfg *config.Config) RoomLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoomLockRepository{
		collection: db.Collection("Room_locks"),
	}
}

// Returns duplicate key error if the lock is already held.
func (r *mongoRoomLockRepository) Create(ctx context.Context, lock *model.RoomLock) (*model.RoomLock, error) {
	lock.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		return nil, err
	}

	return lock, nil
}

func (r *mongoRoomLockRepository) Delete(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}
