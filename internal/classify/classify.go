// Package classify provides specialty/urgency classification of free-text
// input.
//
// Two implementations exist: an OpenAI-backed classifier and a deterministic
// keyword fallback. The coordinator calls the external classifier with a
// timeout and falls back on any error, so callers always receive a usable
// ClassificationResult.
package classify

import (
	"context"
	"strings"

	"github.com/BTreeMap/CareRoute/internal/models"
)

// Classifier resolves free text into a specialty/urgency classification.
type Classifier interface {
	Classify(ctx context.Context, input string, patient models.PatientContext) (models.ClassificationResult, error)
}

// Fixed confidence values assigned by the keyword fallback.
const (
	EmergencyConfidence = 0.9
	SpecialtyConfidence = 0.8
	GeneralConfidence   = 0.6
)

// category pairs a specialty with its keyword set and fallback confidence.
type category struct {
	specialty  models.Specialty
	urgency    models.Urgency
	confidence float64
	keywords   []string
}

// defaultPrecedence is the documented matching order of the fallback
// classifier: emergency first, then diabetes, then obesity. General is the
// floor when nothing matches. Reordering changes routing behavior.
func defaultPrecedence() []category {
	return []category{
		{
			specialty:  models.SpecialtyEmergency,
			urgency:    models.UrgencyCritical,
			confidence: EmergencyConfidence,
			keywords: []string{
				"emergencia", "911", "dolor en el pecho", "dolor pecho",
				"no puedo respirar", "dificultad para respirar", "desmayo",
				"desmayé", "inconsciente", "convulsión", "convulsiones",
				"infarto", "derrame", "sangrado abundante",
				"hipoglucemia severa", "cetoacidosis",
			},
		},
		{
			specialty:  models.SpecialtyDiabetes,
			urgency:    models.UrgencyMedium,
			confidence: SpecialtyConfidence,
			keywords: []string{
				"glucosa", "azucar", "azúcar", "diabetes", "insulina",
				"glp", "ozempic", "saxenda", "wegovy", "endocrinologo",
				"endocrinólogo", "hemoglobina", "hba1c", "glucometro",
				"glucómetro", "tiras", "puncion", "punción", "metformina",
			},
		},
		{
			specialty:  models.SpecialtyObesity,
			urgency:    models.UrgencyMedium,
			confidence: SpecialtyConfidence,
			keywords: []string{
				"peso", "bajar", "adelgazar", "dieta", "ejercicio",
				"obesidad", "grasa", "imc", "cintura", "cadera",
				"entrenamiento", "cardio", "nutricion", "nutrición",
				"medicina deportiva",
			},
		},
	}
}

// FallbackOpts configures the keyword fallback classifier.
type FallbackOpts struct {
	Precedence []category
}

// FallbackOption configures the fallback classifier.
type FallbackOption func(*FallbackOpts)

// WithCategory appends a custom category at the end of the precedence list,
// before the general floor.
func WithCategory(specialty models.Specialty, urgency models.Urgency, confidence float64, keywords ...string) FallbackOption {
	return func(o *FallbackOpts) {
		o.Precedence = append(o.Precedence, category{
			specialty:  specialty,
			urgency:    urgency,
			confidence: confidence,
			keywords:   keywords,
		})
	}
}

// Fallback is the deterministic keyword classifier. It never errors and
// never blocks, so it serves as the guaranteed floor when the external
// classifier is unavailable.
type Fallback struct {
	precedence []category
}

// NewFallback creates the keyword fallback classifier with the documented
// default precedence.
func NewFallback(opts ...FallbackOption) *Fallback {
	cfg := FallbackOpts{Precedence: defaultPrecedence()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Fallback{precedence: cfg.Precedence}
}

// Classify matches the input against the precedence-ordered keyword sets.
// The first category with any match wins; an input with both emergency and
// diabetes vocabulary classifies as emergency.
func (f *Fallback) Classify(_ context.Context, input string, _ models.PatientContext) (models.ClassificationResult, error) {
	norm := models.NormalizeInput(input)
	for _, cat := range f.precedence {
		matched := matchKeywords(norm, cat.keywords)
		if len(matched) == 0 {
			continue
		}
		return models.ClassificationResult{
			Specialty:  cat.specialty,
			Urgency:    cat.urgency,
			Confidence: cat.confidence,
			Reasoning:  "keyword match",
			Keywords:   matched,
		}, nil
	}
	return models.DefaultClassification(), nil
}

func matchKeywords(norm string, keywords []string) []string {
	var matched []string
	for _, kw := range keywords {
		if strings.Contains(norm, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}
