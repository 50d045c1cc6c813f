// Package calendar mirrors bookings into an external calendar provider.
// Every booking that exists in the database has a matching calendar event;
// the event id is stored on the booking for later updates and deletes.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ksquareincmx/conference-server-sub000/pkg/client"
	"github.com/ksquareincmx/conference-server-sub000/pkg/logger"
)

// ErrUnavailable marks a provider failure. Callers treat it as fail-closed:
// no booking is persisted without its mirror event.
var ErrUnavailable = errors.New("calendar service unavailable")

// EventInput carries the booking fields mirrored into a calendar event.
type EventInput struct {
	Summary   string    `json:"summary"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Location  string    `json:"location"`
	Attendees []string  `json:"attendees"`
}

// Service is the calendar mirror contract used by the booking service.
type Service interface {
	InsertEvent(ctx context.Context, input EventInput) (string, error)
	UpdateEvent(ctx context.Context, eventID string, input EventInput) error
	DeleteEvent(ctx context.Context, eventID string) error
}

// Client talks to the calendar provider over its REST API.
type Client struct {
	http       *client.HttpClient
	calendarID string
	log        *logger.Logger
}

func NewClient(baseURL, calendarID string, log *logger.Logger) *Client {
	return &Client{
		http:       client.NewHttpClient(baseURL),
		calendarID: calendarID,
		log:        log,
	}
}

type eventResponse struct {
	ID string `json:"id"`
}

// InsertEvent creates the mirror event and returns the provider event id.
func (c *Client) InsertEvent(ctx context.Context, input EventInput) (string, error) {
	path := fmt.Sprintf("/calendars/%s/events", c.calendarID)

	resp, err := c.http.POST(ctx, path, input, map[string]string{
		"Idempotency-Key": uuid.NewString(),
	})
	if err != nil {
		c.log.Error("calendar insert failed", "error", err)
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg := client.GetErrorMessage(resp)
		c.log.Error("calendar insert rejected", "status", resp.StatusCode, "message", msg)
		return "", fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, msg)
	}

	var event eventResponse
	if err := resp.DecodeJSON(&event); err != nil {
		return "", fmt.Errorf("%w: decoding event: %v", ErrUnavailable, err)
	}
	if event.ID == "" {
		return "", fmt.Errorf("%w: provider returned no event id", ErrUnavailable)
	}

	return event.ID, nil
}

// UpdateEvent replaces the mirrored fields of an existing event.
func (c *Client) UpdateEvent(ctx context.Context, eventID string, input EventInput) error {
	path := fmt.Sprintf("/calendars/%s/events/%s", c.calendarID, eventID)

	resp, err := c.http.PATCH(ctx, path, input, map[string]string{
		"Idempotency-Key": uuid.NewString(),
	})
	if err != nil {
		c.log.Error("calendar update failed", "event_id", eventID, "error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		msg := client.GetErrorMessage(resp)
		c.log.Error("calendar update rejected", "event_id", eventID, "status", resp.StatusCode, "message", msg)
		return fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, msg)
	}

	return nil
}

// DeleteEvent removes the mirror event. A 404 is treated as success so that
// retried deletes stay idempotent.
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	path := fmt.Sprintf("/calendars/%s/events/%s", c.calendarID, eventID)

	resp, err := c.http.DELETE(ctx, path)
	if err != nil {
		c.log.Error("calendar delete failed", "event_id", eventID, "error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	default:
		msg := client.GetErrorMessage(resp)
		c.log.Error("calendar delete rejected", "event_id", eventID, "status", resp.StatusCode, "message", msg)
		return fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, msg)
	}
}
