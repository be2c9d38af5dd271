// Package router implements deterministic input matching against the page
// graph.
//
// The router is pure: it never mutates sessions and never calls external
// services. Given the user's input and the session's current page it either
// produces a transition decision or reports no match, in which case the
// coordinator falls through to classification.
package router

import (
	"strconv"
	"strings"

	"github.com/BTreeMap/CareRoute/internal/models"
	"github.com/BTreeMap/CareRoute/internal/pages"
)

// greetings restart the conversation at the plan gate. Matching is exact on
// the normalized input, never substring, so "hola doctor me duele" does not
// restart.
var greetings = map[string]bool{
	"hola":        true,
	"inicio":      true,
	"menu":        true,
	"menú":        true,
	"opciones":    true,
	"start":       true,
	"comenzar":    true,
	"hola doctor": true,
	"dr clivi":    true,
}

// medicalKeywords block the greeting restart when they appear anywhere in
// the input. A message that carries medical content is routed for
// classification even if it opens with a greeting word.
var medicalKeywords = []string{
	"glucosa", "diabetes", "peso", "dolor", "medicamento",
	"metformina", "ozempic", "insulina", "presión", "mg/dl",
	"ayuda", "problema", "síntoma", "tratamiento", "plan",
}

// Decision is the outcome of deterministic matching.
type Decision struct {
	// Matched is false when the input is unstructured free text.
	Matched bool
	// Restart means a greeting fired: re-run the plan gate and show the
	// entry menu.
	Restart bool
	// Selection is the option id that matched, when a transition fired.
	Selection string
	// Transition is the matched transition, valid only when Selection is set.
	Transition pages.Transition
}

// Router matches structured input against the loaded page graph.
type Router struct {
	graph *pages.Graph
}

// New returns a deterministic router over the given graph.
func New(graph *pages.Graph) *Router {
	return &Router{graph: graph}
}

// IsGreeting reports whether the input is a conversation-restart trigger.
// Inputs containing medical keywords are never greetings.
func IsGreeting(input string) bool {
	norm := models.NormalizeInput(input)
	if !greetings[norm] {
		return false
	}
	for _, kw := range medicalKeywords {
		if strings.Contains(norm, kw) {
			return false
		}
	}
	return true
}

// HasMedicalContent reports whether the input carries any medical keyword.
func HasMedicalContent(input string) bool {
	norm := models.NormalizeInput(input)
	for _, kw := range medicalKeywords {
		if strings.Contains(norm, kw) {
			return true
		}
	}
	return false
}

// Resolve matches the input against the current page. Matching order:
//
//  1. greeting restart
//  2. exact option id (case-insensitive)
//  3. numeric index into the option list (1-based)
//  4. exact option title (case-insensitive)
//
// An unmatched input returns Decision{Matched: false}; the caller decides
// whether to re-prompt or classify.
func (r *Router) Resolve(input, currentPage string) Decision {
	if IsGreeting(input) {
		return Decision{Matched: true, Restart: true}
	}

	page, ok := r.graph.Page(currentPage)
	if !ok || page.IsTerminal() {
		return Decision{}
	}

	norm := models.NormalizeInput(input)

	for id, tr := range page.Transitions {
		if strings.ToLower(id) == norm {
			return Decision{Matched: true, Selection: id, Transition: tr}
		}
	}

	if idx, err := strconv.Atoi(norm); err == nil {
		if idx >= 1 && idx <= len(page.Options) {
			id := page.Options[idx-1].ID
			if tr, ok := page.Transitions[id]; ok {
				return Decision{Matched: true, Selection: id, Transition: tr}
			}
		}
		return Decision{}
	}

	for _, opt := range page.Options {
		if models.NormalizeInput(opt.Title) == norm {
			if tr, ok := page.Transitions[opt.ID]; ok {
				return Decision{Matched: true, Selection: opt.ID, Transition: tr}
			}
		}
	}

	return Decision{}
}
