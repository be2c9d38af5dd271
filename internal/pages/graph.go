// Package pages defines the static page/flow graph for deterministic menu
// navigation.
//
// Pages, flows and transition tables are declared in code, loaded once, and
// validated for dangling references at load time. The graph is immutable
// after Load.
package pages

import (
	"fmt"
	"log/slog"

	"github.com/BTreeMap/CareRoute/internal/models"
)

// TargetKind discriminates what a transition points at.
type TargetKind string

const (
	// TargetPage navigates to another page.
	TargetPage TargetKind = "page"
	// TargetFlow enters a named flow at its starting page.
	TargetFlow TargetKind = "flow"
	// TargetFunction invokes a declared function call handler.
	TargetFunction TargetKind = "function"
)

// Transition maps a selection on a page to its target descriptor.
type Transition struct {
	Kind   TargetKind
	Target string
	// Function names a declared function call executed while navigating.
	// Transitions whose Kind is TargetFunction invoke Target itself.
	Function string
	// EventLog is the activity event tag recorded when the transition fires.
	EventLog string
	// Params are parameter bindings applied on transition (e.g. questionTag).
	Params map[string]string
	// Fulfillment is extra text delivered alongside the navigation.
	Fulfillment []string
}

// Option is a selectable row of a page's menu.
type Option struct {
	ID          string
	Title       string
	Description string
}

// Page is a single conversational state: a prompt plus an ordered option
// list and a transition table keyed by option id. Pages are immutable once
// the graph is loaded.
type Page struct {
	ID          string
	Prompt      string
	Options     []Option
	Transitions map[string]Transition
}

// IsTerminal reports whether the page has no outgoing transitions.
func (p *Page) IsTerminal() bool {
	return len(p.Transitions) == 0
}

// Flow is a named entry point resolving to a starting page. Flows compose
// pages but hold no state of their own.
type Flow struct {
	Name      string
	StartPage string
}

// Graph is the loaded, validated page graph.
type Graph struct {
	pages     map[string]*Page
	flows     map[string]Flow
	functions map[string]bool
}

// Load builds the full CareRoute page graph and validates every transition
// target. A dangling reference is a construction error, never a runtime one.
func Load() (*Graph, error) {
	g := &Graph{
		pages:     make(map[string]*Page),
		flows:     make(map[string]Flow),
		functions: make(map[string]bool),
	}

	for _, fn := range declaredFunctionCalls() {
		g.functions[fn] = true
	}
	for _, p := range allPages() {
		if _, exists := g.pages[p.ID]; exists {
			return nil, fmt.Errorf("duplicate page id %q", p.ID)
		}
		g.pages[p.ID] = p
	}
	for _, f := range allFlows() {
		if _, exists := g.flows[f.Name]; exists {
			return nil, fmt.Errorf("duplicate flow %q", f.Name)
		}
		g.flows[f.Name] = f
	}

	if err := g.validate(); err != nil {
		return nil, err
	}
	slog.Debug("Page graph loaded", "pages", len(g.pages), "flows", len(g.flows), "functions", len(g.functions))
	return g, nil
}

// validate checks that every flow start page and every transition target
// references an existing page, flow, or declared function call.
func (g *Graph) validate() error {
	for name, f := range g.flows {
		if _, ok := g.pages[f.StartPage]; !ok {
			return fmt.Errorf("flow %q: start page %q: %w", name, f.StartPage, models.ErrUnknownPage)
		}
	}
	for id, p := range g.pages {
		for sel, tr := range p.Transitions {
			switch tr.Kind {
			case TargetPage:
				if _, ok := g.pages[tr.Target]; !ok {
					return fmt.Errorf("page %q selection %q: target page %q: %w", id, sel, tr.Target, models.ErrUnknownPage)
				}
			case TargetFlow:
				if _, ok := g.flows[tr.Target]; !ok {
					return fmt.Errorf("page %q selection %q: target flow %q: %w", id, sel, tr.Target, models.ErrUnknownFlow)
				}
			case TargetFunction:
				if !g.functions[tr.Target] {
					return fmt.Errorf("page %q selection %q: function %q: %w", id, sel, tr.Target, models.ErrUnknownFunction)
				}
			default:
				return fmt.Errorf("page %q selection %q: invalid target kind %q", id, sel, tr.Kind)
			}
			if tr.Function != "" && !g.functions[tr.Function] {
				return fmt.Errorf("page %q selection %q: function %q: %w", id, sel, tr.Function, models.ErrUnknownFunction)
			}
		}
	}
	return nil
}

// Page returns the page with the given id.
func (g *Graph) Page(id string) (*Page, bool) {
	p, ok := g.pages[id]
	return p, ok
}

// Flow returns the flow with the given name.
func (g *Graph) Flow(name string) (Flow, bool) {
	f, ok := g.flows[name]
	return f, ok
}

// FunctionCalls returns the set of declared function call names. Handler
// registries are validated against this set at startup.
func (g *Graph) FunctionCalls() []string {
	out := make([]string, 0, len(g.functions))
	for fn := range g.functions {
		out = append(out, fn)
	}
	return out
}

// HasFunction reports whether the function call is declared in the graph.
func (g *Graph) HasFunction(name string) bool {
	return g.functions[name]
}

// MenuPayload renders a page into the channel-agnostic menu payload.
func (p *Page) MenuPayload() models.MenuPayload {
	opts := make([]models.MenuOption, 0, len(p.Options))
	for _, o := range p.Options {
		opts = append(opts, models.MenuOption{ID: o.ID, Title: o.Title, Description: o.Description})
	}
	return models.MenuPayload{PageID: p.ID, Prompt: p.Prompt, Options: opts}
}
