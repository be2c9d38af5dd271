// Package session provides in-memory conversation session storage.
//
// Each user id maps to at most one active session. Sessions expire after a
// period of inactivity; expired sessions are discarded on access and by a
// periodic background sweep.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BTreeMap/CareRoute/internal/models"
)

// DefaultTimeout is the inactivity window after which a session expires.
const DefaultTimeout = 30 * time.Minute

// DefaultSweepInterval is how often the background sweep runs.
const DefaultSweepInterval = 5 * time.Minute

// Opts holds configuration for the session store.
type Opts struct {
	Timeout       time.Duration
	SweepInterval time.Duration
	Clock         func() time.Time
}

// Option configures the session store.
type Option func(*Opts)

// WithTimeout overrides the session inactivity timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Opts) { o.Timeout = d }
}

// WithSweepInterval overrides the background sweep interval.
func WithSweepInterval(d time.Duration) Option {
	return func(o *Opts) { o.SweepInterval = d }
}

// WithClock overrides the time source. Used by tests.
func WithClock(clock func() time.Time) Option {
	return func(o *Opts) { o.Clock = clock }
}

// Store is the in-memory session store. All access goes through its methods;
// callers never hold session pointers across calls.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*models.UserSession

	timeout       time.Duration
	sweepInterval time.Duration
	clock         func() time.Time
}

// NewStore creates a session store with the given options.
func NewStore(opts ...Option) *Store {
	cfg := Opts{
		Timeout:       DefaultTimeout,
		SweepInterval: DefaultSweepInterval,
		Clock:         time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("Session store created", "timeout", cfg.Timeout, "sweepInterval", cfg.SweepInterval)
	return &Store{
		sessions:      make(map[string]*models.UserSession),
		timeout:       cfg.Timeout,
		sweepInterval: cfg.SweepInterval,
		clock:         cfg.Clock,
	}
}

// GetOrCreate returns the active session for the user, creating a fresh one
// when none exists or the previous one expired. The boolean reports whether
// the session was newly created.
func (s *Store) GetOrCreate(userID, channel string) (models.UserSession, bool, error) {
	if userID == "" {
		return models.UserSession{}, false, fmt.Errorf("get or create session: %w", models.ErrEmptySessionID)
	}
	now := s.clock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[userID]; ok {
		if !sess.IsExpired(now, s.timeout) {
			sess.Touch(now)
			return *sess, false, nil
		}
		slog.Debug("Session expired, replacing", "userID", userID, "sessionID", sess.SessionID)
		delete(s.sessions, userID)
	}

	sess := &models.UserSession{
		SessionID:    uuid.NewString(),
		Channel:      channel,
		CreatedAt:    now,
		LastActivity: now,
	}
	s.sessions[userID] = sess
	slog.Debug("Session created", "userID", userID, "sessionID", sess.SessionID, "channel", channel)
	return *sess, true, nil
}

// Get returns a copy of the user's active session. Expired sessions are
// removed and reported as not found.
func (s *Store) Get(userID string) (models.UserSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return models.UserSession{}, fmt.Errorf("get session for %s: %w", userID, models.ErrSessionNotFound)
	}
	if sess.IsExpired(s.clock(), s.timeout) {
		delete(s.sessions, userID)
		return models.UserSession{}, fmt.Errorf("get session for %s: %w", userID, models.ErrSessionNotFound)
	}
	return *sess, nil
}

// Update applies fn to the user's session under the store lock and touches
// the activity timestamp. Returns the updated copy.
func (s *Store) Update(userID string, fn func(*models.UserSession)) (models.UserSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok || sess.IsExpired(s.clock(), s.timeout) {
		if ok {
			delete(s.sessions, userID)
		}
		return models.UserSession{}, fmt.Errorf("update session for %s: %w", userID, models.ErrSessionNotFound)
	}
	fn(sess)
	sess.Touch(s.clock())
	return *sess, nil
}

// End removes the user's session. Ending a missing session is not an error.
func (s *Store) End(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[userID]; ok {
		slog.Debug("Session ended", "userID", userID, "sessionID", sess.SessionID)
		delete(s.sessions, userID)
	}
}

// SetMeasurement records the in-flight measurement slot. A previous slot is
// overwritten; there is never more than one measurement in progress.
func (s *Store) SetMeasurement(userID string, m models.MeasurementInProgress) (models.UserSession, error) {
	return s.Update(userID, func(sess *models.UserSession) {
		sess.Measurement = &m
	})
}

// ClearMeasurement drops the in-flight measurement slot.
func (s *Store) ClearMeasurement(userID string) (models.UserSession, error) {
	return s.Update(userID, func(sess *models.UserSession) {
		sess.Measurement = nil
	})
}

// SetAppointment records the in-flight appointment slot, overwriting any
// previous one.
func (s *Store) SetAppointment(userID string, a models.AppointmentInProgress) (models.UserSession, error) {
	return s.Update(userID, func(sess *models.UserSession) {
		sess.Appointment = &a
	})
}

// ClearAppointment drops the in-flight appointment slot.
func (s *Store) ClearAppointment(userID string) (models.UserSession, error) {
	return s.Update(userID, func(sess *models.UserSession) {
		sess.Appointment = nil
	})
}

// ActiveCount returns the number of unexpired sessions.
func (s *Store) ActiveCount() int {
	now := s.clock()
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, sess := range s.sessions {
		if !sess.IsExpired(now, s.timeout) {
			count++
		}
	}
	return count
}

// SweepExpired removes all expired sessions and returns how many were
// dropped.
func (s *Store) SweepExpired() int {
	now := s.clock()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for userID, sess := range s.sessions {
		if sess.IsExpired(now, s.timeout) {
			delete(s.sessions, userID)
			removed++
		}
	}
	if removed > 0 {
		slog.Debug("Session sweep removed expired sessions", "removed", removed, "remaining", len(s.sessions))
	}
	return removed
}

// Run sweeps expired sessions periodically until the context is canceled.
func (s *Store) Run(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()
	slog.Debug("Session sweeper started", "interval", s.sweepInterval)
	for {
		select {
		case <-ctx.Done():
			slog.Debug("Session sweeper stopped")
			return
		case <-ticker.C:
			s.SweepExpired()
		}
	}
}
