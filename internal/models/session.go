package models

import "time"

// Limits for bounded session history slices.
const (
	// MaxFlowHistory bounds the number of visited flows kept per session.
	MaxFlowHistory = 20
	// MaxErrorHistory bounds the number of error notes kept per session.
	MaxErrorHistory = 20
)

// MeasurementInProgress is the at-most-one in-flight measurement slot of a
// session. Setting it overwrites any previous value (last writer wins).
type MeasurementInProgress struct {
	Type      string    `json:"type"` // e.g. "weight", "glucose_fasting"
	Value     string    `json:"value,omitempty"`
	StartedAt time.Time `json:"started_at"`
}

// AppointmentInProgress is the at-most-one in-flight appointment slot of a
// session.
type AppointmentInProgress struct {
	Action      string    `json:"action"` // "schedule", "reschedule", "cancel"
	SpecialtyID string    `json:"specialty_id,omitempty"`
	StartedAt   time.Time `json:"started_at"`
}

// UserSession tracks per-user conversation state. There is exactly one
// active session per user id; expired sessions are discarded on access.
// Sessions are mutated only through the session store.
type UserSession struct {
	SessionID string         `json:"session_id"`
	Channel   string         `json:"channel,omitempty"` // "whatsapp", "telegram"
	Patient   PatientContext `json:"patient"`

	CurrentFlow string `json:"current_flow,omitempty"`
	CurrentPage string `json:"current_page,omitempty"`

	Measurement *MeasurementInProgress `json:"measurement,omitempty"`
	Appointment *AppointmentInProgress `json:"appointment,omitempty"`

	FlowHistory  []string `json:"flow_history,omitempty"`
	ErrorHistory []string `json:"error_history,omitempty"`

	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}

// Touch updates the last-activity timestamp.
func (s *UserSession) Touch(now time.Time) {
	s.LastActivity = now
}

// IsExpired reports whether the session has been inactive longer than the
// given timeout.
func (s *UserSession) IsExpired(now time.Time, timeout time.Duration) bool {
	return now.Sub(s.LastActivity) > timeout
}

// RecordFlow appends a flow to the bounded visit history.
func (s *UserSession) RecordFlow(flow string) {
	if flow == "" {
		return
	}
	s.FlowHistory = append(s.FlowHistory, flow)
	if len(s.FlowHistory) > MaxFlowHistory {
		s.FlowHistory = s.FlowHistory[len(s.FlowHistory)-MaxFlowHistory:]
	}
}

// RecordError appends an error note to the bounded error history.
func (s *UserSession) RecordError(note string) {
	if note == "" {
		return
	}
	s.ErrorHistory = append(s.ErrorHistory, note)
	if len(s.ErrorHistory) > MaxErrorHistory {
		s.ErrorHistory = s.ErrorHistory[len(s.ErrorHistory)-MaxErrorHistory:]
	}
}
