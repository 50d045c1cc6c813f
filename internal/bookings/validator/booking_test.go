package validator

import (
	"strings"
	"testing"
	"time"

	apperrors "github.com/ksquareincmx/conference-server-sub000/pkg/errors"
	"github.com/ksquareincmx/conference-server-sub000/pkg/logger"
	"github.com/ksquareincmx/conference-server-sub000/pkg/model"
)

func newTestValidator() *BookingValidator {
	return NewBookingValidator(logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	}))
}

func validInput() *model.BookingInput {
	return &model.BookingInput{
		Description: "Sprint planning",
		Start:       "2030-04-15T10:00",
		End:         "2030-04-15T11:00",
		RoomID:      "64adf0a6b1c2d3e4f5a6b7c8",
	}
}

func TestValidateInput_MissingFieldOrder(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name    string
		mutate  func(*model.BookingInput)
		message string
	}{
		{"missing description", func(in *model.BookingInput) { in.Description = "  " }, "Bad Request: No description in request."},
		{"missing start", func(in *model.BookingInput) { in.Start = "" }, "Bad Request: No start date in request."},
		{"missing end", func(in *model.BookingInput) { in.End = "" }, "Bad Request: No end date in request."},
		{"missing room", func(in *model.BookingInput) { in.RoomID = "" }, "Bad Request: No room in request."},
		{"description wins over start", func(in *model.BookingInput) {
			in.Description = ""
			in.Start = ""
		}, "Bad Request: No description in request."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)

			err := v.ValidateInput(input)
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			appErr := apperrors.AsAppError(err)
			if appErr.Code != apperrors.CodeInvalidInput {
				t.Errorf("expected code %s, got %s", apperrors.CodeInvalidInput, appErr.Code)
			}
			if appErr.Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, appErr.Message)
			}
		})
	}
}

func TestValidateInput_Valid(t *testing.T) {
	v := newTestValidator()
	if err := v.ValidateInput(validInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	v := newTestValidator()
	start := time.Date(2030, 4, 15, 16, 0, 0, 0, time.UTC)

	base := func() *model.Booking {
		return &model.Booking{
			Description: "Sprint planning",
			Start:       start,
			End:         start.Add(time.Hour),
			RoomID:      "64adf0a6b1c2d3e4f5a6b7c8",
			OrganizerID: "user-1",
			Attendees:   []string{"organizer@example.com"},
		}
	}

	t.Run("valid booking", func(t *testing.T) {
		if err := v.Validate(base()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("end equal to start", func(t *testing.T) {
		b := base()
		b.End = b.Start

		err := v.Validate(b)
		if err == nil {
			t.Fatal("expected error for zero-length booking")
		}
		if !strings.Contains(err.Error(), "End") {
			t.Errorf("expected End field in error, got %q", err.Error())
		}
	})

	t.Run("malformed room id", func(t *testing.T) {
		b := base()
		b.RoomID = "not-an-object-id"

		err := v.Validate(b)
		if err == nil {
			t.Fatal("expected error for malformed room id")
		}
		if !strings.Contains(err.Error(), "ObjectID") {
			t.Errorf("expected ObjectID message, got %q", err.Error())
		}
	})

	t.Run("invalid attendee email", func(t *testing.T) {
		b := base()
		b.Attendees = []string{"not-an-email"}

		err := v.Validate(b)
		if err == nil {
			t.Fatal("expected error for invalid attendee email")
		}
		if !strings.Contains(err.Error(), "email") {
			t.Errorf("expected email message, got %q", err.Error())
		}
	})
}

func TestValidateUpdate(t *testing.T) {
	v := newTestValidator()

	t.Run("empty update is valid", func(t *testing.T) {
		if err := v.ValidateUpdate(&model.BookingUpdate{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("malformed room id", func(t *testing.T) {
		err := v.ValidateUpdate(&model.BookingUpdate{RoomID: "nope"})
		if err == nil {
			t.Fatal("expected error for malformed room id")
		}
	})

	t.Run("oversized description", func(t *testing.T) {
		err := v.ValidateUpdate(&model.BookingUpdate{Description: strings.Repeat("x", 201)})
		if err == nil {
			t.Fatal("expected error for oversized description")
		}
	})
}
