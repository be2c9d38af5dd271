package pages

import (
	"errors"
	"testing"

	"github.com/BTreeMap/CareRoute/internal/models"
)

func TestLoadValidatesCleanly(t *testing.T) {
	g, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if g == nil {
		t.Fatal("Load() returned nil graph")
	}
}

func TestEveryTransitionTargetResolves(t *testing.T) {
	g, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	for _, p := range allPages() {
		for sel, tr := range p.Transitions {
			switch tr.Kind {
			case TargetPage:
				if _, ok := g.Page(tr.Target); !ok {
					t.Errorf("page %s selection %s: dangling page target %s", p.ID, sel, tr.Target)
				}
			case TargetFlow:
				if _, ok := g.Flow(tr.Target); !ok {
					t.Errorf("page %s selection %s: dangling flow target %s", p.ID, sel, tr.Target)
				}
			case TargetFunction:
				if !g.HasFunction(tr.Target) {
					t.Errorf("page %s selection %s: undeclared function %s", p.ID, sel, tr.Target)
				}
			}
		}
	}
}

func TestEveryFlowStartPageExists(t *testing.T) {
	g, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	for _, f := range allFlows() {
		if _, ok := g.Page(f.StartPage); !ok {
			t.Errorf("flow %s: start page %s not found", f.Name, f.StartPage)
		}
	}
}

func TestEveryOptionHasTransition(t *testing.T) {
	for _, p := range allPages() {
		for _, opt := range p.Options {
			if _, ok := p.Transitions[opt.ID]; !ok {
				t.Errorf("page %s: option %s has no transition", p.ID, opt.ID)
			}
		}
	}
}

func TestMainMenuShape(t *testing.T) {
	g, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	p, ok := g.Page(PageMainMenu)
	if !ok {
		t.Fatal("main menu page missing")
	}
	if len(p.Options) != 8 {
		t.Errorf("main menu should have 8 options, got %d", len(p.Options))
	}
	if p.Options[0].ID != "APPOINTMENTS" {
		t.Errorf("first main menu option = %s, want APPOINTMENTS", p.Options[0].ID)
	}
	tr, ok := p.Transitions["PATIENT_COMPLAINT"]
	if !ok {
		t.Fatal("main menu missing PATIENT_COMPLAINT transition")
	}
	if tr.Kind != TargetFlow || tr.Target != FlowPresentComplaint {
		t.Errorf("PATIENT_COMPLAINT should enter %s flow, got kind=%s target=%s", FlowPresentComplaint, tr.Kind, tr.Target)
	}
	for id, tr := range p.Transitions {
		if tr.EventLog != EventClickedMainMenu {
			t.Errorf("main menu selection %s missing %s event tag", id, EventClickedMainMenu)
		}
	}
}

func TestTerminalPages(t *testing.T) {
	g, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	for _, id := range []string{PageEndSession, PageLogWeight, PageSendQuestion} {
		p, ok := g.Page(id)
		if !ok {
			t.Fatalf("page %s missing", id)
		}
		if !p.IsTerminal() {
			t.Errorf("page %s should be terminal", id)
		}
	}
	p, _ := g.Page(PageMainMenu)
	if p.IsTerminal() {
		t.Error("main menu should not be terminal")
	}
}

func TestMenuPayloadPreservesOptionOrder(t *testing.T) {
	g, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	p, _ := g.Page(PageMeasurementsMenu)
	payload := p.MenuPayload()
	if payload.PageID != PageMeasurementsMenu {
		t.Errorf("payload page id = %s, want %s", payload.PageID, PageMeasurementsMenu)
	}
	if len(payload.Options) != len(p.Options) {
		t.Fatalf("payload has %d options, page has %d", len(payload.Options), len(p.Options))
	}
	for i, opt := range p.Options {
		if payload.Options[i].ID != opt.ID {
			t.Errorf("option %d = %s, want %s", i, payload.Options[i].ID, opt.ID)
		}
	}
}

func TestValidateRejectsDanglingTarget(t *testing.T) {
	g := &Graph{
		pages: map[string]*Page{
			"a": {ID: "a", Transitions: map[string]Transition{
				"X": {Kind: TargetPage, Target: "missing"},
			}},
		},
		flows:     map[string]Flow{},
		functions: map[string]bool{},
	}
	err := g.validate()
	if err == nil {
		t.Fatal("expected validation error for dangling page target")
	}
	if !errors.Is(err, models.ErrUnknownPage) {
		t.Errorf("error should wrap ErrUnknownPage, got %v", err)
	}
}
