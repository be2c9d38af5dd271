// Package specialist implements the per-specialty dispatchers.
//
// Each dispatcher runs an ordered rule table against normalized input.
// Evaluation is first-match-wins, and several categories share vocabulary
// ("medición" appears in more than one branch), so rule order is part of
// the routing contract: reordering rules changes behavior.
package specialist

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/BTreeMap/CareRoute/internal/models"
)

// Action tells the coordinator what to do with a dispatcher response.
type Action string

const (
	// ActionSendMessage delivers the response text (optionally via a
	// message template).
	ActionSendMessage Action = "SEND_MESSAGE"
	// ActionCallFunction invokes a declared function call.
	ActionCallFunction Action = "CALL_FUNCTION"
	// ActionFlowRedirect navigates the session into a named flow.
	ActionFlowRedirect Action = "FLOW_REDIRECT"
	// ActionEndSession delivers the text and ends the session.
	ActionEndSession Action = "END_SESSION"
	// ActionSafetyCheck asks the safety questions before answering; the
	// session stays open for the answers.
	ActionSafetyCheck Action = "SAFETY_CHECK"
)

// Response is a dispatcher's resolution of one input.
type Response struct {
	Text            string
	Action          Action
	TemplateName    string
	FunctionName    string
	Params          map[string]string
	SafetyQuestions []string
	RedirectFlow    string
	EndSession      bool
}

// Dispatcher handles free text for one specialty.
type Dispatcher interface {
	Specialty() models.Specialty
	Handle(session models.UserSession, input string) (Response, error)
}

// rule is one entry of an ordered rule table. Either Keywords or Predicate
// drives matching; Predicate wins when set.
type rule struct {
	name      string
	keywords  []string
	predicate func(norm string) bool
	response  Response
}

func (r rule) matches(norm string) bool {
	if r.predicate != nil {
		return r.predicate(norm)
	}
	for _, kw := range r.keywords {
		if strings.Contains(norm, kw) {
			return true
		}
	}
	return false
}

// tableDispatcher runs an ordered rule table with a fixed default.
type tableDispatcher struct {
	specialty models.Specialty
	rules     []rule
	fallback  Response
}

func (d *tableDispatcher) Specialty() models.Specialty { return d.specialty }

func (d *tableDispatcher) Handle(_ models.UserSession, input string) (Response, error) {
	if strings.TrimSpace(input) == "" {
		return Response{}, fmt.Errorf("%s dispatcher: %w", d.specialty, models.ErrEmptyInput)
	}
	norm := models.NormalizeInput(input)
	for _, r := range d.rules {
		if r.matches(norm) {
			return r.response, nil
		}
	}
	return d.fallback, nil
}

// containsDigit reports whether the input carries any numeric character,
// which is treated as an attempted measurement.
func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// containsEmoji detects common emoji blocks.
func containsEmoji(s string) bool {
	for _, r := range s {
		switch {
		case r >= 0x1F600 && r <= 0x1F64F, // emoticons
			r >= 0x1F300 && r <= 0x1F5FF, // symbols and pictographs
			r >= 0x1F680 && r <= 0x1F6FF, // transport
			r >= 0x1F1E0 && r <= 0x1F1FF: // flags
			return true
		}
	}
	return false
}

// isSingleWord reports whether the input is exactly one alphabetic token.
func isSingleWord(norm string) bool {
	fields := strings.Fields(norm)
	if len(fields) != 1 {
		return false
	}
	for _, r := range fields[0] {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// helpDeskRedirect is the shared default: unrecognized input is sent to the
// help desk flow.
func helpDeskRedirect() Response {
	return Response{
		Text:         "Por favor, utiliza el siguiente menú para mejor asistencia.",
		Action:       ActionFlowRedirect,
		RedirectFlow: "helpDeskSubMenu",
		EndSession:   true,
	}
}

// Registry holds one dispatcher per routable specialty.
type Registry struct {
	dispatchers map[models.Specialty]Dispatcher
}

// NewRegistry builds the dispatcher registry and verifies that every
// routable specialty has a handler. Emergency is excluded: the emergency
// override bypasses dispatch entirely.
func NewRegistry(dispatchers ...Dispatcher) (*Registry, error) {
	r := &Registry{dispatchers: make(map[models.Specialty]Dispatcher)}
	for _, d := range dispatchers {
		if _, dup := r.dispatchers[d.Specialty()]; dup {
			return nil, fmt.Errorf("duplicate dispatcher for %s", d.Specialty())
		}
		r.dispatchers[d.Specialty()] = d
	}
	for _, required := range []models.Specialty{models.SpecialtyDiabetes, models.SpecialtyObesity, models.SpecialtyGeneral} {
		if _, ok := r.dispatchers[required]; !ok {
			return nil, fmt.Errorf("missing dispatcher for %s: %w", required, models.ErrUnknownSpecialty)
		}
	}
	return r, nil
}

// DefaultRegistry wires the three standard dispatchers.
func DefaultRegistry() (*Registry, error) {
	return NewRegistry(NewDiabetes(), NewObesity(), NewGeneral())
}

// Dispatch routes the input to the specialty's dispatcher.
func (r *Registry) Dispatch(specialty models.Specialty, session models.UserSession, input string) (Response, error) {
	d, ok := r.dispatchers[specialty]
	if !ok {
		return Response{}, fmt.Errorf("dispatch %s: %w", specialty, models.ErrUnknownSpecialty)
	}
	return d.Handle(session, input)
}
