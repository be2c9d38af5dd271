package classify

import (
	"strings"

	"github.com/BTreeMap/CareRoute/internal/models"
)

// emergencySubtype pairs an emergency kind with its detection keywords.
// Detection is a second, fixed keyword pass run only after the emergency
// override has fired. First match wins; unspecified is the floor.
type emergencySubtype struct {
	kind     models.EmergencyKind
	keywords []string
}

var emergencySubtypes = []emergencySubtype{
	{
		kind: models.EmergencyHypoglycemia,
		keywords: []string{
			"hipoglucemia", "glucosa baja", "azúcar baja", "azucar baja",
			"temblor", "sudor frío", "sudor frio", "mareo con hambre",
		},
	},
	{
		kind: models.EmergencyHyperglycemia,
		keywords: []string{
			"hiperglucemia", "glucosa alta", "azúcar alta", "azucar alta",
			"cetoacidosis", "mucha sed", "glucosa en 300", "glucosa en 400",
		},
	},
	{
		kind: models.EmergencyCardiac,
		keywords: []string{
			"dolor en el pecho", "dolor pecho", "pecho", "infarto",
			"palpitaciones", "no puedo respirar", "brazo izquierdo",
		},
	},
	{
		kind: models.EmergencyMedicationReaction,
		keywords: []string{
			"reacción", "reaccion", "alergia", "alérgica", "alergica",
			"efecto secundario", "me cayó mal el medicamento",
		},
	},
}

// immediateActions is the ordered action list delivered per emergency kind.
// Order matters: the first action is the one the patient must take now.
var immediateActions = map[models.EmergencyKind][]string{
	models.EmergencyHypoglycemia: {
		"1. Consume 15g de azúcar de acción rápida (jugo, miel o tabletas de glucosa)",
		"2. Espera 15 minutos y vuelve a medir tu glucosa",
		"3. Si sigues por debajo de 70 mg/dL, repite y llama al 911",
		"4. Avisa a alguien cercano que estás teniendo una hipoglucemia",
	},
	models.EmergencyHyperglycemia: {
		"1. Llama al 911 si tienes náusea, vómito o respiración agitada",
		"2. Toma agua en pequeños sorbos",
		"3. No te apliques insulina extra sin indicación médica",
		"4. Mide tu glucosa cada hora y registra los valores",
	},
	models.EmergencyCardiac: {
		"1. Llama al 911 AHORA",
		"2. Detén cualquier actividad y siéntate o recuéstate",
		"3. Si tienes aspirina y no eres alérgico, mastica una",
		"4. No conduzcas; espera a los servicios de emergencia",
	},
	models.EmergencyMedicationReaction: {
		"1. Suspende el medicamento de inmediato",
		"2. Llama al 911 si tienes hinchazón en cara o garganta, o dificultad para respirar",
		"3. Anota el nombre del medicamento y la hora de la última dosis",
		"4. Contacta a tu médico tratante",
	},
	models.EmergencyUnspecified: {
		"1. Llama al 911 si tus síntomas son graves",
		"2. Contacta a tu médico tratante de inmediato",
		"3. No estás solo: nuestro equipo médico ha sido notificado",
	},
}

// EmergencyMessage is the header line of every emergency response.
const EmergencyMessage = "🚨 EMERGENCIA MÉDICA 🚨"

// DetectEmergencyKind classifies the emergency sub-type from the input.
func DetectEmergencyKind(input string) models.EmergencyKind {
	norm := models.NormalizeInput(input)
	for _, sub := range emergencySubtypes {
		for _, kw := range sub.keywords {
			if strings.Contains(norm, kw) {
				return sub.kind
			}
		}
	}
	return models.EmergencyUnspecified
}

// BuildEmergencyPayload assembles the emergency response for the input.
func BuildEmergencyPayload(input string) models.EmergencyPayload {
	kind := DetectEmergencyKind(input)
	return models.EmergencyPayload{
		Kind:             kind,
		Message:          EmergencyMessage,
		ImmediateActions: immediateActions[kind],
	}
}
