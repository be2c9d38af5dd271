package specialist

import (
	"errors"
	"testing"

	"github.com/BTreeMap/CareRoute/internal/models"
)

func TestRegistryCompleteness(t *testing.T) {
	r, err := DefaultRegistry()
	if err != nil {
		t.Fatalf("DefaultRegistry failed: %v", err)
	}
	for _, s := range []models.Specialty{models.SpecialtyDiabetes, models.SpecialtyObesity, models.SpecialtyGeneral} {
		if _, err := r.Dispatch(s, models.UserSession{}, "gracias"); err != nil {
			t.Errorf("Dispatch(%s) failed: %v", s, err)
		}
	}
}

func TestRegistryRejectsMissingDispatcher(t *testing.T) {
	if _, err := NewRegistry(NewDiabetes()); !errors.Is(err, models.ErrUnknownSpecialty) {
		t.Errorf("expected ErrUnknownSpecialty, got %v", err)
	}
}

func TestRegistryRejectsDuplicate(t *testing.T) {
	if _, err := NewRegistry(NewDiabetes(), NewDiabetes(), NewObesity(), NewGeneral()); err == nil {
		t.Error("expected error for duplicate dispatcher")
	}
}

func TestDispatchUnknownSpecialty(t *testing.T) {
	r, _ := DefaultRegistry()
	if _, err := r.Dispatch(models.SpecialtyEmergency, models.UserSession{}, "ayuda"); !errors.Is(err, models.ErrUnknownSpecialty) {
		t.Errorf("emergency dispatch should fail with ErrUnknownSpecialty, got %v", err)
	}
}

func TestDiabetesNumericBeforeMeasurementKeywords(t *testing.T) {
	d := NewDiabetes()
	// "95" carries a digit, so the numeric branch fires even without keywords.
	resp, err := d.Handle(models.UserSession{}, "95")
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if resp.TemplateName != "px_sends_numbers_ai_no_context" {
		t.Errorf("template = %s, want px_sends_numbers_ai_no_context", resp.TemplateName)
	}
	// "glucosa 95" also carries a digit: still the numeric branch.
	resp, _ = d.Handle(models.UserSession{}, "glucosa 95")
	if resp.TemplateName != "px_sends_numbers_ai_no_context" {
		t.Errorf("template = %s, want px_sends_numbers_ai_no_context", resp.TemplateName)
	}
}

func TestDiabetesAppointmentBeforeMeasurement(t *testing.T) {
	d := NewDiabetes()
	// "cita" precedes "medición" in the table, so booking wins even though
	// both keyword sets could be extended to overlap.
	resp, _ := d.Handle(models.UserSession{}, "quiero una cita para revisar mi medición")
	if resp.TemplateName != "booking_catcher_ai_menu" {
		t.Errorf("template = %s, want booking_catcher_ai_menu", resp.TemplateName)
	}
}

func TestDiabetesExerciseSafetyCheck(t *testing.T) {
	d := NewDiabetes()
	resp, _ := d.Handle(models.UserSession{}, "quiero empezar una rutina de ejercicio")
	if resp.Action != ActionSafetyCheck {
		t.Fatalf("action = %s, want %s", resp.Action, ActionSafetyCheck)
	}
	if len(resp.SafetyQuestions) != 2 {
		t.Errorf("diabetes exercise check should ask 2 questions, got %d", len(resp.SafetyQuestions))
	}
	if resp.EndSession {
		t.Error("safety check must keep the session open")
	}
}

func TestDiabetesComplaintEscalation(t *testing.T) {
	d := NewDiabetes()
	resp, _ := d.Handle(models.UserSession{}, "tengo una queja del servicio")
	if resp.Action != ActionCallFunction || resp.FunctionName != "QUESTION_SET_LAST_MESSAGE" {
		t.Errorf("complaint should escalate via QUESTION_SET_LAST_MESSAGE, got %+v", resp)
	}
	if resp.Params["sendToHelpdesk"] != "true" {
		t.Errorf("complaint params = %v", resp.Params)
	}
}

func TestDiabetesSingleWordRedirect(t *testing.T) {
	d := NewDiabetes()
	resp, _ := d.Handle(models.UserSession{}, "ahora")
	if resp.Action != ActionFlowRedirect || resp.RedirectFlow != "helpDeskSubMenu" {
		t.Errorf("single word should redirect to help desk, got %+v", resp)
	}
}

func TestDiabetesDefaultRedirect(t *testing.T) {
	d := NewDiabetes()
	resp, _ := d.Handle(models.UserSession{}, "xyz qwerty asdf")
	if resp.Action != ActionFlowRedirect || resp.RedirectFlow != "helpDeskSubMenu" {
		t.Errorf("unmatched input should redirect to help desk, got %+v", resp)
	}
}

func TestDiabetesEmptyInput(t *testing.T) {
	d := NewDiabetes()
	if _, err := d.Handle(models.UserSession{}, "   "); !errors.Is(err, models.ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestObesityNutritionSafetyBeforeMeasurement(t *testing.T) {
	o := NewObesity()
	// "dieta" hits the nutrition safety rule before any measurement branch.
	resp, _ := o.Handle(models.UserSession{}, "necesito una dieta para bajar de peso")
	if resp.Action != ActionSafetyCheck {
		t.Fatalf("action = %s, want %s", resp.Action, ActionSafetyCheck)
	}
	if len(resp.SafetyQuestions) != 1 {
		t.Errorf("nutrition check should ask 1 question, got %d", len(resp.SafetyQuestions))
	}
}

func TestObesityExerciseSafetyBeforeNumeric(t *testing.T) {
	o := NewObesity()
	// Exercise keywords outrank the digit check in the obesity table.
	resp, _ := o.Handle(models.UserSession{}, "rutina de gimnasio 3 veces por semana")
	if resp.Action != ActionSafetyCheck {
		t.Errorf("exercise should win over numeric branch, got %+v", resp)
	}
}

func TestObesityWeightMeasurement(t *testing.T) {
	o := NewObesity()
	resp, _ := o.Handle(models.UserSession{}, "quiero enviar mi peso")
	if resp.TemplateName != "px_sends_numbers_ai_no_context" {
		t.Errorf("template = %s, want px_sends_numbers_ai_no_context", resp.TemplateName)
	}
}

func TestObesityEscalation(t *testing.T) {
	o := NewObesity()
	resp, _ := o.Handle(models.UserSession{}, "mi grasa corporal no cambia")
	if resp.FunctionName != "QUESTION_SET_LAST_MESSAGE" || resp.Params["category"] != "OBESITY" {
		t.Errorf("obesity escalation = %+v", resp)
	}
}

func TestGeneralDispatcherAdminIntents(t *testing.T) {
	g := NewGeneral()
	resp, _ := g.Handle(models.UserSession{}, "necesito mi factura")
	if resp.TemplateName != "invoicing_ai_catcher" {
		t.Errorf("template = %s, want invoicing_ai_catcher", resp.TemplateName)
	}
	resp, _ = g.Handle(models.UserSession{}, "gracias por todo")
	if resp.Action != ActionEndSession {
		t.Errorf("gratitude action = %s, want %s", resp.Action, ActionEndSession)
	}
	resp, _ = g.Handle(models.UserSession{}, "no entiendo nada de esto")
	if resp.Action != ActionFlowRedirect {
		t.Errorf("default action = %s, want %s", resp.Action, ActionFlowRedirect)
	}
}

func TestEmojiDetection(t *testing.T) {
	d := NewDiabetes()
	resp, _ := d.Handle(models.UserSession{}, "👍")
	if resp.TemplateName != "master_general_question_ai" {
		t.Errorf("emoji input = %+v", resp)
	}
}
