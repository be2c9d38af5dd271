// Package models defines the core data structures for CareRoute.
//
// It includes the channel-agnostic routing result, classification types, and
// patient plan types shared across modules.
package models

import (
	"errors"
	"strings"
)

// Specialty identifies a specialist handling capability.
type Specialty string

const (
	// SpecialtyDiabetes routes to the diabetes specialist dispatcher.
	SpecialtyDiabetes Specialty = "diabetes"
	// SpecialtyObesity routes to the obesity specialist dispatcher.
	SpecialtyObesity Specialty = "obesity"
	// SpecialtyGeneral routes to the general support dispatcher.
	SpecialtyGeneral Specialty = "general"
	// SpecialtyEmergency short-circuits specialist dispatch entirely.
	SpecialtyEmergency Specialty = "emergency"
)

// IsValidSpecialty checks if the given specialty is supported.
func IsValidSpecialty(s Specialty) bool {
	switch s {
	case SpecialtyDiabetes, SpecialtyObesity, SpecialtyGeneral, SpecialtyEmergency:
		return true
	default:
		return false
	}
}

// Urgency grades how quickly a request needs attention.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// IsValidUrgency checks if the given urgency level is supported.
func IsValidUrgency(u Urgency) bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return true
	default:
		return false
	}
}

// PlanType is the patient's subscription plan.
type PlanType string

const (
	PlanPro   PlanType = "PRO"
	PlanPlus  PlanType = "PLUS"
	PlanBasic PlanType = "BASIC"
	PlanClub  PlanType = "CLUB"
)

// IsRecognizedPlan reports whether the plan is one of the known plan types.
func IsRecognizedPlan(p PlanType) bool {
	switch p {
	case PlanPro, PlanPlus, PlanBasic, PlanClub:
		return true
	default:
		return false
	}
}

// PlanStatus is the current billing status of a patient's plan.
type PlanStatus string

const (
	PlanStatusActive    PlanStatus = "ACTIVE"
	PlanStatusSuspended PlanStatus = "SUSPENDED"
	PlanStatusCanceled  PlanStatus = "CANCELED"
)

// PatientContext carries the plan information needed for routing decisions.
// An empty Plan means the user has not been identified yet.
type PatientContext struct {
	PatientID   string     `json:"patient_id,omitempty"`
	NameDisplay string     `json:"name_display,omitempty"`
	Plan        PlanType   `json:"plan,omitempty"`
	PlanStatus  PlanStatus `json:"plan_status,omitempty"`
	PhoneNumber string     `json:"phone_number,omitempty"`
}

// IsKnown reports whether the patient has been identified with a plan.
func (pc PatientContext) IsKnown() bool {
	return pc.Plan != ""
}

// ClassificationResult is the outcome of specialty/urgency classification,
// produced either by the external classifier or the keyword fallback.
// It is never empty: callers receive at least {general, medium, 0.6}.
type ClassificationResult struct {
	Specialty  Specialty `json:"specialty"`
	Urgency    Urgency   `json:"urgency"`
	Confidence float64   `json:"confidence"`
	Reasoning  string    `json:"reasoning,omitempty"`
	Keywords   []string  `json:"keywords,omitempty"`
}

// DefaultClassification is the guaranteed floor when no signal is available.
func DefaultClassification() ClassificationResult {
	return ClassificationResult{
		Specialty:  SpecialtyGeneral,
		Urgency:    UrgencyMedium,
		Confidence: 0.6,
		Reasoning:  "default classification",
	}
}

// Normalize clamps confidence into [0,1] and fills invalid specialty or
// urgency values with the documented defaults.
func (c ClassificationResult) Normalize() ClassificationResult {
	if !IsValidSpecialty(c.Specialty) {
		c.Specialty = SpecialtyGeneral
	}
	if !IsValidUrgency(c.Urgency) {
		c.Urgency = UrgencyMedium
	}
	if c.Confidence < 0 {
		c.Confidence = 0
	}
	if c.Confidence > 1 {
		c.Confidence = 1
	}
	return c
}

// IsEmergency reports whether this classification must trigger the
// emergency override.
func (c ClassificationResult) IsEmergency() bool {
	return c.Specialty == SpecialtyEmergency || c.Urgency == UrgencyCritical
}

// RoutingKind categorizes the routing outcome for channel adapters.
type RoutingKind string

const (
	// KindMenu means the payload is a menu page to render.
	KindMenu RoutingKind = "menu"
	// KindNavigation means the payload is a page transition (possibly with
	// fulfillment text).
	KindNavigation RoutingKind = "navigation"
	// KindSpecialistResponse means a specialist dispatcher produced the
	// payload text.
	KindSpecialistResponse RoutingKind = "specialistResponse"
	// KindEmergency means the payload carries an ordered immediate-action
	// list and must be delivered with priority.
	KindEmergency RoutingKind = "emergency"
	// KindError means routing failed and the payload is an actionable
	// escalation message.
	KindError RoutingKind = "error"
)

// RoutingType records which path produced a RoutingResult.
type RoutingType string

const (
	RoutingDeterministic RoutingType = "deterministic"
	RoutingIntelligent   RoutingType = "intelligent"
	RoutingFallback      RoutingType = "fallback"
)

// EmergencyKind is the emergency sub-type detected by the second keyword
// pass during the emergency override.
type EmergencyKind string

const (
	EmergencyHypoglycemia       EmergencyKind = "hypoglycemia"
	EmergencyHyperglycemia      EmergencyKind = "hyperglycemia"
	EmergencyCardiac            EmergencyKind = "cardiac"
	EmergencyMedicationReaction EmergencyKind = "medication_reaction"
	EmergencyUnspecified        EmergencyKind = "unspecified"
)

// MenuPayload is the renderable form of a page: prompt text plus ordered
// options. Channel adapters translate it into platform menus or buttons.
type MenuPayload struct {
	PageID  string       `json:"page_id"`
	Prompt  string       `json:"prompt"`
	Options []MenuOption `json:"options,omitempty"`
}

// MenuOption is a selectable row of a menu payload.
type MenuOption struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// EmergencyPayload carries the ordered immediate actions for an emergency
// response.
type EmergencyPayload struct {
	Kind             EmergencyKind `json:"kind"`
	Message          string        `json:"message"`
	ImmediateActions []string      `json:"immediate_actions"`
}

// RoutingResult is the only artifact exposed across the core boundary.
// Exactly one payload field is set, matching Kind.
type RoutingResult struct {
	Kind        RoutingKind `json:"kind"`
	RoutingType RoutingType `json:"routing_type"`

	Menu      *MenuPayload      `json:"menu,omitempty"`
	Text      string            `json:"text,omitempty"`
	Emergency *EmergencyPayload `json:"emergency,omitempty"`

	// Classification is attached on intelligent and fallback routes.
	Classification *ClassificationResult `json:"classification,omitempty"`
	// SupportContact flags that the message should include a
	// support-contact suggestion.
	SupportContact bool `json:"support_contact,omitempty"`
}

// Error variables for better error handling and testability
var (
	ErrEmptyInput       = errors.New("input cannot be empty")
	ErrEmptySessionID   = errors.New("session id cannot be empty")
	ErrUnknownPage      = errors.New("unknown page")
	ErrUnknownFlow      = errors.New("unknown flow")
	ErrUnknownSpecialty = errors.New("unknown specialty")
	ErrUnknownFunction  = errors.New("unknown function call")
	ErrSessionNotFound  = errors.New("session not found")
)

// NormalizeInput lower-cases and trims user input for rule matching.
func NormalizeInput(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}
