package classify

import (
	"context"
	"testing"

	"github.com/BTreeMap/CareRoute/internal/models"
)

func TestFallbackEmergencyPrecedence(t *testing.T) {
	f := NewFallback()
	// Emergency and diabetes vocabulary in the same message: emergency wins.
	result, err := f.Classify(context.Background(), "tengo dolor pecho y mi glucosa está alta", models.PatientContext{})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if result.Specialty != models.SpecialtyEmergency {
		t.Errorf("specialty = %s, want emergency", result.Specialty)
	}
	if result.Urgency != models.UrgencyCritical {
		t.Errorf("urgency = %s, want critical", result.Urgency)
	}
	if result.Confidence != EmergencyConfidence {
		t.Errorf("confidence = %v, want %v", result.Confidence, EmergencyConfidence)
	}
}

func TestFallbackDiabetes(t *testing.T) {
	f := NewFallback()
	result, _ := f.Classify(context.Background(), "mi glucosa salió en 180", models.PatientContext{})
	if result.Specialty != models.SpecialtyDiabetes {
		t.Errorf("specialty = %s, want diabetes", result.Specialty)
	}
	if result.Confidence != SpecialtyConfidence {
		t.Errorf("confidence = %v, want %v", result.Confidence, SpecialtyConfidence)
	}
	if len(result.Keywords) == 0 {
		t.Error("matched keywords should be reported")
	}
}

func TestFallbackObesity(t *testing.T) {
	f := NewFallback()
	result, _ := f.Classify(context.Background(), "quiero bajar de peso con dieta", models.PatientContext{})
	if result.Specialty != models.SpecialtyObesity {
		t.Errorf("specialty = %s, want obesity", result.Specialty)
	}
}

func TestFallbackDiabetesBeforeObesity(t *testing.T) {
	f := NewFallback()
	// Both categories match; diabetes precedes obesity in the table.
	result, _ := f.Classify(context.Background(), "mi glucosa sube cuando no hago ejercicio", models.PatientContext{})
	if result.Specialty != models.SpecialtyDiabetes {
		t.Errorf("specialty = %s, want diabetes (precedence)", result.Specialty)
	}
}

func TestFallbackGeneralFloor(t *testing.T) {
	f := NewFallback()
	result, err := f.Classify(context.Background(), "¿puedo comer fruta?", models.PatientContext{})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if result.Specialty != models.SpecialtyGeneral {
		t.Errorf("specialty = %s, want general", result.Specialty)
	}
	if result.Urgency != models.UrgencyMedium {
		t.Errorf("urgency = %s, want medium", result.Urgency)
	}
	if result.Confidence != GeneralConfidence {
		t.Errorf("confidence = %v, want %v", result.Confidence, GeneralConfidence)
	}
}

func TestParseClassificationPlainJSON(t *testing.T) {
	raw := `{"specialty": "diabetes", "urgency": "high", "confidence": 0.85, "reasoning": "glucose reading", "keywords": ["glucosa"]}`
	result, err := ParseClassification(raw)
	if err != nil {
		t.Fatalf("ParseClassification failed: %v", err)
	}
	if result.Specialty != models.SpecialtyDiabetes || result.Urgency != models.UrgencyHigh {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestParseClassificationFencedJSON(t *testing.T) {
	raw := "```json\n{\"specialty\": \"emergency\", \"urgency\": \"critical\", \"confidence\": 0.95}\n```"
	result, err := ParseClassification(raw)
	if err != nil {
		t.Fatalf("ParseClassification failed: %v", err)
	}
	if result.Specialty != models.SpecialtyEmergency {
		t.Errorf("specialty = %s, want emergency", result.Specialty)
	}
}

func TestParseClassificationEmbeddedJSON(t *testing.T) {
	raw := `Claro, aquí está la clasificación: {"specialty": "obesity", "urgency": "low", "confidence": 0.7} espero que ayude.`
	result, err := ParseClassification(raw)
	if err != nil {
		t.Fatalf("ParseClassification failed: %v", err)
	}
	if result.Specialty != models.SpecialtyObesity {
		t.Errorf("specialty = %s, want obesity", result.Specialty)
	}
}

func TestParseClassificationInvalidValuesNormalized(t *testing.T) {
	raw := `{"specialty": "cardiology", "urgency": "extreme", "confidence": 1.7}`
	result, err := ParseClassification(raw)
	if err != nil {
		t.Fatalf("ParseClassification failed: %v", err)
	}
	if result.Specialty != models.SpecialtyGeneral {
		t.Errorf("invalid specialty should normalize to general, got %s", result.Specialty)
	}
	if result.Urgency != models.UrgencyMedium {
		t.Errorf("invalid urgency should normalize to medium, got %s", result.Urgency)
	}
	if result.Confidence != 1 {
		t.Errorf("confidence should clamp to 1, got %v", result.Confidence)
	}
}

func TestParseClassificationGarbage(t *testing.T) {
	if _, err := ParseClassification("lo siento, no puedo clasificar eso"); err == nil {
		t.Error("expected error for unparsable payload")
	}
}

func TestDetectEmergencyKind(t *testing.T) {
	tests := []struct {
		input string
		want  models.EmergencyKind
	}{
		{"tengo dolor en el pecho muy fuerte", models.EmergencyCardiac},
		{"creo que tengo hipoglucemia, estoy temblando", models.EmergencyHypoglycemia},
		{"mi glucosa alta no baja y tengo mucha sed", models.EmergencyHyperglycemia},
		{"tuve una reacción al medicamento", models.EmergencyMedicationReaction},
		{"me siento muy mal, es una emergencia", models.EmergencyUnspecified},
	}
	for _, tt := range tests {
		if got := DetectEmergencyKind(tt.input); got != tt.want {
			t.Errorf("DetectEmergencyKind(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestBuildEmergencyPayload(t *testing.T) {
	p := BuildEmergencyPayload("tengo dolor en el pecho muy fuerte")
	if p.Kind != models.EmergencyCardiac {
		t.Errorf("kind = %s, want cardiac", p.Kind)
	}
	if p.Message != EmergencyMessage {
		t.Errorf("message = %q", p.Message)
	}
	if len(p.ImmediateActions) == 0 {
		t.Fatal("cardiac payload should carry immediate actions")
	}
	if p.ImmediateActions[0] != "1. Llama al 911 AHORA" {
		t.Errorf("first cardiac action = %q", p.ImmediateActions[0])
	}
}

func TestEveryEmergencyKindHasActions(t *testing.T) {
	kinds := []models.EmergencyKind{
		models.EmergencyHypoglycemia,
		models.EmergencyHyperglycemia,
		models.EmergencyCardiac,
		models.EmergencyMedicationReaction,
		models.EmergencyUnspecified,
	}
	for _, k := range kinds {
		if len(immediateActions[k]) == 0 {
			t.Errorf("kind %s has no immediate actions", k)
		}
	}
}
