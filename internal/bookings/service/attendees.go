package service

import (
	"context"
)

// SyncResult records the outcome of one attendee reconciliation step.
type SyncResult struct {
	Email  string `json:"email"`
	Action string `json:"action"`
	Error  string `json:"error,omitempty"`
}

const (
	ActionLinked    = "linked"
	ActionUnlinked  = "unlinked"
	ActionUnchanged = "unchanged"
	ActionFailed    = "failed"
)

// reconcileAttendees brings the stored booking-attendee links in line with
// the desired set: missing links are created (creating attendee identities on
// first sight), stale links removed, existing ones left alone. Failures are
// per item and never fail the booking write that triggered the sync.
func (s *bookingService) reconcileAttendees(ctx context.Context, bookingID string, desired []string) []SyncResult {
	current, err := s.attendeeRepo.ListEmails(ctx, bookingID)
	if err != nil {
		s.cfg.Log.Warn("Failed to list booking attendees for sync",
			"booking_id", bookingID,
			"error", err,
		)
		current = nil
	}

	currentSet := make(map[string]bool, len(current))
	for _, email := range current {
		currentSet[email] = true
	}
	desiredSet := make(map[string]bool, len(desired))
	for _, email := range desired {
		desiredSet[email] = true
	}

	results := make([]SyncResult, 0, len(desired)+len(current))

	for _, email := range desired {
		if currentSet[email] {
			results = append(results, SyncResult{Email: email, Action: ActionUnchanged})
			continue
		}

		if _, err := s.attendeeRepo.FindOrCreate(ctx, email); err != nil {
			s.cfg.Log.Warn("Failed to resolve attendee identity",
				"booking_id", bookingID,
				"email", email,
				"error", err,
			)
			results = append(results, SyncResult{Email: email, Action: ActionFailed, Error: err.Error()})
			continue
		}

		if err := s.attendeeRepo.Link(ctx, bookingID, email); err != nil {
			s.cfg.Log.Warn("Failed to link attendee",
				"booking_id", bookingID,
				"email", email,
				"error", err,
			)
			results = append(results, SyncResult{Email: email, Action: ActionFailed, Error: err.Error()})
			continue
		}

		results = append(results, SyncResult{Email: email, Action: ActionLinked})
	}

	for _, email := range current {
		if desiredSet[email] {
			continue
		}

		if err := s.attendeeRepo.Unlink(ctx, bookingID, email); err != nil {
			s.cfg.Log.Warn("Failed to unlink attendee",
				"booking_id", bookingID,
				"email", email,
				"error", err,
			)
			results = append(results, SyncResult{Email: email, Action: ActionFailed, Error: err.Error()})
			continue
		}

		results = append(results, SyncResult{Email: email, Action: ActionUnlinked})
	}

	return results
}
