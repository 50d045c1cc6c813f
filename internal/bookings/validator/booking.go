package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/ksquareincmx/conference-server-sub000/pkg/errors"
	"github.com/ksquareincmx/conference-server-sub000/pkg/logger"
	"github.com/ksquareincmx/conference-server-sub000/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	return &BookingValidator{
		validate: validator.New(),
		logger:   log,
	}
}

// ValidateInput checks the raw create payload for missing fields. Each absent
// field has a fixed client-facing message; the first missing field wins in
// the order description, start, end, room.
func (v *BookingValidator) ValidateInput(input *model.BookingInput) error {
	if strings.TrimSpace(input.Description) == "" {
		return apperrors.InvalidInput("Bad Request: No description in request.")
	}
	if strings.TrimSpace(input.Start) == "" {
		return apperrors.InvalidInput("Bad Request: No start date in request.")
	}
	if strings.TrimSpace(input.End) == "" {
		return apperrors.InvalidInput("Bad Request: No end date in request.")
	}
	if strings.TrimSpace(input.RoomID) == "" {
		return apperrors.InvalidInput("Bad Request: No room in request.")
	}
	return nil
}

func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if !booking.End.After(booking.Start) {
		return ValidationErrors{
			ValidationError{
				Field:   "End",
				Message: "end must be after start",
			},
		}
	}

	return nil
}

func (v *BookingValidator) ValidateUpdate(update *model.BookingUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
