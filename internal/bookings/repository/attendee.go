package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ksquareincmx/conference-server-sub000/pkg/config"
	"github.com/ksquareincmx/conference-server-sub000/pkg/model"
)

const (
	AttendeeCollectionName        = "Attendees"
	BookingAttendeeCollectionName = "Booking_attendees"
)

// AttendeeRepository manages attendee identities and their booking links.
// Identities are keyed by normalized email and created on first sight.
type AttendeeRepository interface {
	FindOrCreate(ctx context.Context, email string) (*model.Attendee, error)
	Link(ctx context.Context, bookingID, email string) error
	Unlink(ctx context.Context, bookingID, email string) error
	UnlinkAll(ctx context.Context, bookingID string) error
	ListEmails(ctx context.Context, bookingID string) ([]string, error)
}

type mongoAttendeeRepository struct {
	cfg       *config.Config
	attendees *mongo.Collection
	links     *mongo.Collection
}

func NewMongoAttendeeRepository(cfg *config.Config) AttendeeRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAttendeeRepository{
		cfg:       cfg,
		attendees: db.Collection(AttendeeCollectionName),
		links:     db.Collection(BookingAttendeeCollectionName),
	}
}

func (r *mongoAttendeeRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoAttendeeRepository) FindOrCreate(ctx context.Context, email string) (*model.Attendee, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	var attendee model.Attendee
	err := r.attendees.FindOne(ctx, bson.M{"email": email}).Decode(&attendee)
	if err == nil {
		return &attendee, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to look up attendee: %w", err)
	}

	attendee = model.Attendee{
		Email:     email,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	result, err := r.attendees.InsertOne(ctx, attendee)
	if err != nil {
		// Lost a concurrent insert race on the unique email index.
		if mongo.IsDuplicateKeyError(err) {
			var existing model.Attendee
			if findErr := r.attendees.FindOne(ctx, bson.M{"email": email}).Decode(&existing); findErr == nil {
				return &existing, nil
			}
		}
		return nil, fmt.Errorf("failed to create attendee: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		attendee.ID = oid.Hex()
	}
	return &attendee, nil
}

func (r *mongoAttendeeRepository) Link(ctx context.Context, bookingID, email string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	link := model.BookingAttendee{
		BookingID: bookingID,
		Email:     email,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	_, err := r.links.InsertOne(ctx, link)
	if err != nil {
		// Already linked; the unique (booking_id, email) index makes linking
		// idempotent.
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("failed to link attendee %s to booking %s: %w", email, bookingID, err)
	}

	return nil
}

func (r *mongoAttendeeRepository) Unlink(ctx context.Context, bookingID, email string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.links.DeleteOne(ctx, bson.M{"booking_id": bookingID, "email": email})
	if err != nil {
		return fmt.Errorf("failed to unlink attendee %s from booking %s: %w", email, bookingID, err)
	}
	return nil
}

func (r *mongoAttendeeRepository) UnlinkAll(ctx context.Context, bookingID string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.links.DeleteMany(ctx, bson.M{"booking_id": bookingID})
	if err != nil {
		return fmt.Errorf("failed to unlink attendees from booking %s: %w", bookingID, err)
	}
	return nil
}

func (r *mongoAttendeeRepository) ListEmails(ctx context.Context, bookingID string) ([]string, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "email", Value: 1}})
	cursor, err := r.links.Find(ctx, bson.M{"booking_id": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendees for booking %s: %w", bookingID, err)
	}
	defer cursor.Close(ctx)

	var links []model.BookingAttendee
	if err = cursor.All(ctx, &links); err != nil {
		return nil, fmt.Errorf("failed to decode attendee links: %w", err)
	}

	emails := make([]string, 0, len(links))
	for _, link := range links {
		emails = append(emails, link.Email)
	}
	return emails, nil
}
