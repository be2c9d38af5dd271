package session

import (
	"errors"
	"testing"
	"time"

	"github.com/BTreeMap/CareRoute/internal/models"
)

// fakeClock is a controllable time source for expiry tests.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time        { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestStore(clock *fakeClock) *Store {
	return NewStore(WithTimeout(30*time.Minute), WithClock(clock.Now))
}

func TestGetOrCreateCreatesOnce(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	s := newTestStore(clock)

	first, created, err := s.GetOrCreate("user1", "whatsapp")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if !created {
		t.Error("first GetOrCreate should report created")
	}
	if first.SessionID == "" {
		t.Error("session id should not be empty")
	}
	if first.Channel != "whatsapp" {
		t.Errorf("channel = %s, want whatsapp", first.Channel)
	}

	second, created, err := s.GetOrCreate("user1", "whatsapp")
	if err != nil {
		t.Fatalf("second GetOrCreate failed: %v", err)
	}
	if created {
		t.Error("second GetOrCreate should reuse the session")
	}
	if second.SessionID != first.SessionID {
		t.Errorf("session id changed: %s vs %s", second.SessionID, first.SessionID)
	}
}

func TestGetOrCreateEmptyUserID(t *testing.T) {
	s := NewStore()
	_, _, err := s.GetOrCreate("", "whatsapp")
	if !errors.Is(err, models.ErrEmptySessionID) {
		t.Errorf("expected ErrEmptySessionID, got %v", err)
	}
}

func TestSessionExpiresAfterTimeout(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	s := newTestStore(clock)

	first, _, _ := s.GetOrCreate("user1", "whatsapp")

	// Just under the timeout: still alive.
	clock.Advance(29 * time.Minute)
	if _, err := s.Get("user1"); err != nil {
		t.Fatalf("session should still be alive: %v", err)
	}

	// Get touched the session, so expiry counts from now.
	clock.Advance(31 * time.Minute)
	if _, err := s.Get("user1"); !errors.Is(err, models.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}

	replacement, created, err := s.GetOrCreate("user1", "whatsapp")
	if err != nil {
		t.Fatalf("GetOrCreate after expiry failed: %v", err)
	}
	if !created {
		t.Error("expired session should be replaced with a new one")
	}
	if replacement.SessionID == first.SessionID {
		t.Error("replacement session should have a fresh id")
	}
}

func TestUpdateMutatesUnderLock(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	s := newTestStore(clock)
	s.GetOrCreate("user1", "telegram")

	updated, err := s.Update("user1", func(sess *models.UserSession) {
		sess.CurrentPage = "mainMenu"
		sess.RecordFlow("diabetesPlans")
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.CurrentPage != "mainMenu" {
		t.Errorf("current page = %s, want mainMenu", updated.CurrentPage)
	}
	if len(updated.FlowHistory) != 1 || updated.FlowHistory[0] != "diabetesPlans" {
		t.Errorf("flow history = %v", updated.FlowHistory)
	}
}

func TestUpdateMissingSession(t *testing.T) {
	s := NewStore()
	_, err := s.Update("ghost", func(*models.UserSession) {})
	if !errors.Is(err, models.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestMeasurementSlotOverwrites(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	s := newTestStore(clock)
	s.GetOrCreate("user1", "whatsapp")

	s.SetMeasurement("user1", models.MeasurementInProgress{Type: "weight", StartedAt: clock.Now()})
	got, err := s.SetMeasurement("user1", models.MeasurementInProgress{Type: "glucose_fasting", StartedAt: clock.Now()})
	if err != nil {
		t.Fatalf("SetMeasurement failed: %v", err)
	}
	if got.Measurement == nil || got.Measurement.Type != "glucose_fasting" {
		t.Errorf("measurement slot = %+v, want glucose_fasting", got.Measurement)
	}

	got, err = s.ClearMeasurement("user1")
	if err != nil {
		t.Fatalf("ClearMeasurement failed: %v", err)
	}
	if got.Measurement != nil {
		t.Errorf("measurement slot should be cleared, got %+v", got.Measurement)
	}
}

func TestAppointmentSlotRoundTrip(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	s := newTestStore(clock)
	s.GetOrCreate("user1", "whatsapp")

	got, err := s.SetAppointment("user1", models.AppointmentInProgress{Action: "schedule", SpecialtyID: "nutrition"})
	if err != nil {
		t.Fatalf("SetAppointment failed: %v", err)
	}
	if got.Appointment == nil || got.Appointment.SpecialtyID != "nutrition" {
		t.Errorf("appointment slot = %+v", got.Appointment)
	}
	got, _ = s.ClearAppointment("user1")
	if got.Appointment != nil {
		t.Errorf("appointment slot should be cleared, got %+v", got.Appointment)
	}
}

func TestEndIsIdempotent(t *testing.T) {
	s := NewStore()
	s.GetOrCreate("user1", "whatsapp")
	s.End("user1")
	s.End("user1")
	if _, err := s.Get("user1"); !errors.Is(err, models.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after End, got %v", err)
	}
}

func TestSweepExpired(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	s := newTestStore(clock)
	s.GetOrCreate("user1", "whatsapp")
	s.GetOrCreate("user2", "telegram")

	clock.Advance(10 * time.Minute)
	s.GetOrCreate("user3", "whatsapp")

	clock.Advance(25 * time.Minute)
	removed := s.SweepExpired()
	if removed != 2 {
		t.Errorf("sweep removed %d sessions, want 2", removed)
	}
	if s.ActiveCount() != 1 {
		t.Errorf("active count = %d, want 1", s.ActiveCount())
	}
	if _, err := s.Get("user3"); err != nil {
		t.Errorf("user3 session should survive the sweep: %v", err)
	}
}
