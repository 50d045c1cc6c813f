package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "github.com/ksquareincmx/conference-server-sub000/internal/bookings/errors"
	"github.com/ksquareincmx/conference-server-sub000/internal/bookings/repository"
	"github.com/ksquareincmx/conference-server-sub000/internal/bookings/validator"
	"github.com/ksquareincmx/conference-server-sub000/pkg/calendar"
	"github.com/ksquareincmx/conference-server-sub000/pkg/config"
	apperrors "github.com/ksquareincmx/conference-server-sub000/pkg/errors"
	"github.com/ksquareincmx/conference-server-sub000/pkg/events"
	"github.com/ksquareincmx/conference-server-sub000/pkg/model"
	"github.com/ksquareincmx/conference-server-sub000/pkg/officehours"
	"github.com/ksquareincmx/conference-server-sub000/pkg/sanitizer"
	"github.com/ksquareincmx/conference-server-sub000/pkg/timerange"
)

// RoomDirectory is the room lookup the booking flow depends on. Satisfied by
// the rooms service.
type RoomDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type BookingService interface {
	Create(ctx context.Context, input *model.BookingInput, organizerID, organizerEmail string) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	Update(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error)
	Delete(ctx context.Context, id string) error
	AvailableHours(ctx context.Context, roomID, date string) ([]officehours.Interval, error)
}

type bookingService struct {
	repo         repository.BookingRepository
	lockRepo     repository.RoomLockRepository
	attendeeRepo repository.AttendeeRepository
	validator    *validator.BookingValidator
	rooms        RoomDirectory
	calendar     calendar.Service
	publisher    events.Publisher
	rules        officehours.Rules
	cfg          *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.RoomLockRepository,
	attendeeRepo repository.AttendeeRepository,
	validator *validator.BookingValidator,
	rooms RoomDirectory,
	calendarSvc calendar.Service,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:         repo,
		lockRepo:     lockRepo,
		attendeeRepo: attendeeRepo,
		validator:    validator,
		rooms:        rooms,
		calendar:     calendarSvc,
		publisher:    publisher,
		rules:        officehours.NewRules(cfg.Location, cfg.OfficeStart, cfg.OfficeEnd),
		cfg:          cfg,
	}
}

// Create runs the full booking pipeline: input checks, range normalization,
// scheduling-window rules, room existence, then under a per-room advisory
// lock the overlap check, the calendar mirror insert and the persistence
// write. No booking is stored unless its calendar event exists.
func (s *bookingService) Create(ctx context.Context, input *model.BookingInput, organizerID, organizerEmail string) (*model.Booking, error) {
	if err := s.validator.ValidateInput(input); err != nil {
		return nil, err
	}

	rg, err := timerange.Normalize(input.Start, input.End, s.cfg.Location)
	if err != nil {
		return nil, apperrors.InvalidInput("Bad Request: Invalid date in request.")
	}

	if err := s.validateSchedulingWindow(rg); err != nil {
		return nil, err
	}

	if err := s.requireRoom(ctx, input.RoomID); err != nil {
		return nil, err
	}

	booking := &model.Booking{
		Description: sanitizer.SanitizeText(input.Description),
		Start:       rg.Start,
		End:         rg.End,
		RoomID:      input.RoomID,
		OrganizerID: organizerID,
		Attendees:   s.attendeeSet(input.Attendees, organizerEmail),
	}

	if err := s.validate(booking); err != nil {
		return nil, err
	}

	lockID, err := s.acquireRoomLock(ctx, booking.RoomID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseRoomLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release room lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	if err := s.verifyNoOverlap(ctx, booking, ""); err != nil {
		return nil, err
	}

	// Mirror first. The calendar write gates persistence so the two stores
	// never diverge in the dangerous direction (booking without event).
	eventID, err := s.calendar.InsertEvent(ctx, s.eventInput(booking))
	if err != nil {
		s.cfg.Log.Error("Calendar mirror insert failed", "room_id", booking.RoomID, "error", err)
		return nil, apperrors.Unavailable("Calendar service")
	}
	booking.ExternalEventID = eventID

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoOverlap(sessCtx, booking, ""); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		// Compensate the mirror so the provider does not keep an orphan event.
		if delErr := s.calendar.DeleteEvent(ctx, eventID); delErr != nil {
			s.cfg.Log.Error("Failed to roll back calendar event", "event_id", eventID, "error", delErr)
		}
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return nil, err
	}

	s.reconcileAttendees(ctx, booking.ID, booking.Attendees)
	s.publish(ctx, events.TypeBookingCreated, booking)

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"room_id", booking.RoomID,
		"event_id", booking.ExternalEventID,
		"start", booking.Start,
	)
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// Update re-runs the full validation pipeline against the merged booking.
// Rescheduling a booking into the past is rejected the same way creation is.
func (s *bookingService) Update(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to check booking existence", err)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Booking update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged, err := s.mergeBookingUpdates(existing, updates)
	if err != nil {
		return nil, err
	}

	rg := timerange.Range{Start: merged.Start, End: merged.End}
	if err := s.validateSchedulingWindow(rg); err != nil {
		return nil, err
	}

	if merged.RoomID != existing.RoomID {
		if err := s.requireRoom(ctx, merged.RoomID); err != nil {
			return nil, err
		}
	}

	if err := s.validate(merged); err != nil {
		return nil, err
	}

	lockID, err := s.acquireRoomLock(ctx, merged.RoomID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseRoomLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release room lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	if err := s.verifyNoOverlap(ctx, merged, id); err != nil {
		return nil, err
	}

	if err := s.calendar.UpdateEvent(ctx, merged.ExternalEventID, s.eventInput(merged)); err != nil {
		s.cfg.Log.Error("Calendar mirror update failed",
			"id", id,
			"event_id", merged.ExternalEventID,
			"error", err,
		)
		return nil, apperrors.Unavailable("Calendar service")
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoOverlap(sessCtx, merged, id); err != nil {
			return err
		}
		if _, err := s.repo.Update(sessCtx, id, merged); err != nil {
			return apperrors.Internal("Failed to update booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update booking", "id", id, "error", err)
		return nil, err
	}

	if updates.Attendees != nil {
		s.reconcileAttendees(ctx, id, merged.Attendees)
	}
	s.publish(ctx, events.TypeBookingUpdated, merged)

	s.cfg.Log.Info("Booking updated successfully", "id", id)
	return merged, nil
}

// Delete cancels a booking. Meetings that already ended stay on record; the
// mirror event delete is best effort once the local row is gone.
func (s *bookingService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid booking ID format")
		}
		return apperrors.Internal("Failed to check booking existence", err)
	}

	if booking.End.Before(time.Now()) {
		return apperrors.Conflict("Cannot cancel a meeting that has already ended.")
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Delete(sessCtx, id); err != nil {
			if errors.Is(err, bookingserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Booking", id)
			}
			return apperrors.Internal("Failed to delete booking", err)
		}
		if err := s.attendeeRepo.UnlinkAll(sessCtx, id); err != nil {
			return apperrors.Internal("Failed to unlink booking attendees", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if booking.ExternalEventID != "" {
		if err := s.calendar.DeleteEvent(ctx, booking.ExternalEventID); err != nil {
			s.cfg.Log.Warn("Failed to delete mirrored calendar event",
				"id", id,
				"event_id", booking.ExternalEventID,
				"error", err,
			)
		}
	}

	s.publish(ctx, events.TypeBookingCancelled, booking)

	s.cfg.Log.Info("Booking deleted successfully", "id", id)
	return nil
}

// AvailableHours returns the free intervals of a room's office-hours window
// for one calendar day, as wall-clock "HH:MM" pairs in the business timezone.
func (s *bookingService) AvailableHours(ctx context.Context, roomID, date string) ([]officehours.Interval, error) {
	if roomID == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	day, err := time.ParseInLocation("2006-01-02", date, s.cfg.Location)
	if err != nil {
		return nil, apperrors.InvalidInput("Bad Request: Invalid date in request.")
	}

	exists, err := s.rooms.Exists(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NotFoundWithID("Room", roomID)
	}

	dayStart := day
	dayEnd := day.AddDate(0, 0, 1)

	bookings, err := s.repo.FindForRoomBetween(ctx, roomID, dayStart.UTC(), dayEnd.UTC())
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings for availability",
			"room_id", roomID,
			"date", date,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to compute available hours", err)
	}

	occupied := make([]officehours.Interval, 0, len(bookings))
	for _, b := range bookings {
		occupied = append(occupied, officehours.Interval{
			Start: timerange.ClockTime(b.Start, s.cfg.Location),
			End:   timerange.ClockTime(b.End, s.cfg.Location),
		})
	}

	return s.rules.FreeSlots(occupied), nil
}

// --- Helpers ---

func (s *bookingService) validateSchedulingWindow(rg timerange.Range) error {
	if err := s.rules.Validate(rg, time.Now()); err != nil {
		return apperrors.InvalidInput(err.Error())
	}
	return nil
}

func (s *bookingService) requireRoom(ctx context.Context, roomID string) error {
	exists, err := s.rooms.Exists(ctx, roomID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.InvalidInput(fmt.Sprintf("%s: %s", bookingserrors.ErrRoomNotFound.Error(), roomID))
	}
	return nil
}

// attendeeSet normalizes the requested attendee emails and guarantees the
// organizer is among them. The union is idempotent.
func (s *bookingService) attendeeSet(requested []string, organizerEmail string) []string {
	all := make([]string, 0, len(requested)+1)
	if organizerEmail != "" {
		all = append(all, organizerEmail)
	}
	all = append(all, requested...)
	return sanitizer.SanitizeEmails(all)
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// verifyNoOverlap is the authoritative conflict check. The repository filter
// preselects candidates; the in-memory half-open comparison decides.
func (s *bookingService) verifyNoOverlap(ctx context.Context, booking *model.Booking, excludeID string) error {
	candidate := timerange.Range{Start: booking.Start, End: booking.End}

	existing, err := s.repo.FindOverlapping(ctx, booking.RoomID, booking.Start, booking.End, excludeID)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	for _, b := range existing {
		if candidate.Overlaps(timerange.Range{Start: b.Start, End: b.End}) {
			return apperrors.Conflict("Slot is already booked for this room.").WithDetails(map[string]any{
				"conflicting_booking_id": b.ID,
				"start":                  b.Start.Format(time.RFC3339),
				"end":                    b.End.Format(time.RFC3339),
			})
		}
	}
	return nil
}

func (s *bookingService) mergeBookingUpdates(existing *model.Booking, updates *model.BookingUpdate) (*model.Booking, error) {
	merged := *existing

	if updates.Description != "" {
		merged.Description = sanitizer.SanitizeText(updates.Description)
	}
	if updates.RoomID != "" {
		merged.RoomID = updates.RoomID
	}
	if updates.Attendees != nil {
		merged.Attendees = s.attendeeSet(*updates.Attendees, s.organizerEmailOf(existing))
	}

	if updates.Start != "" || updates.End != "" {
		rawStart := updates.Start
		if rawStart == "" {
			rawStart = existing.Start.Format(time.RFC3339)
		}
		rawEnd := updates.End
		if rawEnd == "" {
			rawEnd = existing.End.Format(time.RFC3339)
		}
		rg, err := timerange.Normalize(rawStart, rawEnd, s.cfg.Location)
		if err != nil {
			return nil, apperrors.InvalidInput("Bad Request: Invalid date in request.")
		}
		merged.Start = rg.Start
		merged.End = rg.End
	}

	return &merged, nil
}

// organizerEmailOf returns the organizer's address if it is already among the
// stored attendees. Bookings always carry the organizer there, so the first
// stored attendee set is the source of truth.
func (s *bookingService) organizerEmailOf(booking *model.Booking) string {
	if len(booking.Attendees) > 0 {
		return booking.Attendees[0]
	}
	return ""
}

func (s *bookingService) eventInput(booking *model.Booking) calendar.EventInput {
	return calendar.EventInput{
		Summary:   booking.Description,
		Start:     booking.Start,
		End:       booking.End,
		Location:  booking.RoomID,
		Attendees: booking.Attendees,
	}
}

// acquireRoomLock serializes booking writes for one room. Returns the lock
// ID, or a conflict error when another request holds the lock.
func (s *bookingService) acquireRoomLock(ctx context.Context, roomID string) (string, error) {
	lockID := fmt.Sprintf("room_lock_%s", roomID)

	lock := &model.RoomLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.RoomLockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This room is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire room lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releaseRoomLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}

// publish never fails the request; event delivery is best effort.
func (s *bookingService) publish(ctx context.Context, eventType string, booking *model.Booking) {
	event := events.Event{
		Type:       eventType,
		BookingID:  booking.ID,
		RoomID:     booking.RoomID,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}
