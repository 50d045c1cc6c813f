package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ksquareincmx/conference-server-sub000/pkg/model"
)

func actionsByEmail(results []SyncResult) map[string]string {
	out := make(map[string]string, len(results))
	for _, r := range results {
		out[r.Email] = r.Action
	}
	return out
}

func TestReconcileAttendees_AddRemoveUnchanged(t *testing.T) {
	f := newFixture(t)

	f.attendeeRepo.listEmailsFunc = func(ctx context.Context, bookingID string) ([]string, error) {
		return []string{"keep@example.com", "stale@example.com"}, nil
	}

	svc := f.service.(*bookingService)
	results := svc.reconcileAttendees(context.Background(), "booking-1", []string{"keep@example.com", "new@example.com"})

	actions := actionsByEmail(results)
	if actions["keep@example.com"] != ActionUnchanged {
		t.Errorf("expected keep@example.com unchanged, got %s", actions["keep@example.com"])
	}
	if actions["new@example.com"] != ActionLinked {
		t.Errorf("expected new@example.com linked, got %s", actions["new@example.com"])
	}
	if actions["stale@example.com"] != ActionUnlinked {
		t.Errorf("expected stale@example.com unlinked, got %s", actions["stale@example.com"])
	}

	if len(f.attendeeRepo.linked) != 1 || f.attendeeRepo.linked[0] != "new@example.com" {
		t.Errorf("expected exactly new@example.com to be linked, got %v", f.attendeeRepo.linked)
	}
	if len(f.attendeeRepo.unlinked) != 1 || f.attendeeRepo.unlinked[0] != "stale@example.com" {
		t.Errorf("expected exactly stale@example.com to be unlinked, got %v", f.attendeeRepo.unlinked)
	}
}

func TestReconcileAttendees_IdentityFailureIsPerItem(t *testing.T) {
	f := newFixture(t)

	f.attendeeRepo.findOrCreateFunc = func(ctx context.Context, email string) (*model.Attendee, error) {
		if email == "broken@example.com" {
			return nil, errors.New("write failed")
		}
		return &model.Attendee{ID: "att-1", Email: email}, nil
	}

	svc := f.service.(*bookingService)
	results := svc.reconcileAttendees(context.Background(), "booking-1", []string{"broken@example.com", "fine@example.com"})

	actions := actionsByEmail(results)
	if actions["broken@example.com"] != ActionFailed {
		t.Errorf("expected broken@example.com to fail, got %s", actions["broken@example.com"])
	}
	if actions["fine@example.com"] != ActionLinked {
		t.Errorf("one failing attendee must not block the rest, got %s", actions["fine@example.com"])
	}
}

func TestReconcileAttendees_ListFailureStillLinksDesired(t *testing.T) {
	f := newFixture(t)

	f.attendeeRepo.listEmailsFunc = func(ctx context.Context, bookingID string) ([]string, error) {
		return nil, errors.New("read failed")
	}

	svc := f.service.(*bookingService)
	results := svc.reconcileAttendees(context.Background(), "booking-1", []string{"a@example.com"})

	if len(results) != 1 || results[0].Action != ActionLinked {
		t.Fatalf("expected desired attendee to be linked despite list failure, got %v", results)
	}
}
