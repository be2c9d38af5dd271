package specialist

import "github.com/BTreeMap/CareRoute/internal/models"

// NewObesity builds the obesity dispatcher. Unlike the diabetes table,
// nutrition and exercise safety checks run before the numeric measurement
// branch, and the measurement keyword set includes neck and BMI vocabulary.
func NewObesity() Dispatcher {
	return &tableDispatcher{
		specialty: models.SpecialtyObesity,
		rules: []rule{
			{
				name:     "onboarding",
				keywords: []string{"onboarding", "iniciar tratamiento", "validar datos", "comenzar", "empezar"},
				response: Response{
					Text:         "Parece que quieres iniciar con tu tratamiento. Déjame ayudarte con eso.",
					Action:       ActionCallFunction,
					FunctionName: "ONBOARDING_SEND_LINK",
					EndSession:   true,
				},
			},
			{
				name:     "appointment booking",
				keywords: []string{"cita", "agendar", "consulta", "appointment", "médico", "endocrinólogo", "nutriólogo"},
				response: Response{
					Text:         "Parece que quieres agendar una cita. Déjame ayudarte con eso.",
					Action:       ActionSendMessage,
					TemplateName: "booking_catcher_ai_menu",
					EndSession:   true,
				},
			},
			{
				name:     "appointment type",
				keywords: []string{"en línea", "presencial", "hospital", "virtual", "online", "videollamada"},
				response: Response{
					Text:         "Tu cita es en línea. Te enviaremos la liga 30 minutos antes.",
					Action:       ActionSendMessage,
					TemplateName: "px_appt_list",
					EndSession:   true,
				},
			},
			{
				name:     "appointment reschedule",
				keywords: []string{"reprogramar", "reagendar", "cambiar cita", "mover cita", "reschedule"},
				response: Response{
					Text:         "Parece que quieres reprogramar una cita. Puedo ayudarte.",
					Action:       ActionSendMessage,
					TemplateName: "reschedule_appt_ai_menu",
					EndSession:   true,
				},
			},
			{
				name:     "appointment cancel",
				keywords: []string{"cancelar cita", "cancel", "anular cita"},
				response: Response{
					Text:         "Parece que quieres cancelar una cita. Puedo ayudarte.",
					Action:       ActionSendMessage,
					TemplateName: "cancel_appt_catcher_ai",
					EndSession:   true,
				},
			},
			{
				name:     "appointment confirm",
				keywords: []string{"confirmar cita", "confirmación", "confirm"},
				response: Response{
					Text:         "Parece que quieres confirmar tu cita. Puedo ayudarte.",
					Action:       ActionCallFunction,
					FunctionName: "APPOINTMENT_CONFIRM",
					EndSession:   true,
				},
			},
			{
				name: "nutrition safety",
				keywords: []string{
					"nutrición", "dieta", "alimentación", "comida", "calorías",
					"plan alimenticio", "menú", "qué comer", "nutrition", "meal plan",
				},
				response: Response{
					Text:            "Por tu propia seguridad, antes de responderte necesitamos asegurarnos con una pregunta. Gracias.",
					Action:          ActionSafetyCheck,
					SafetyQuestions: []string{"¿Eres alérgico a algún alimento?"},
				},
			},
			{
				name:     "exercise safety",
				keywords: []string{"ejercicio", "exercise", "actividad física", "rutina", "entrenamiento", "gimnasio", "deporte"},
				response: Response{
					Text:   "Por tu propia seguridad, antes de responderte necesitamos asegurarnos con un par de preguntas. Gracias.",
					Action: ActionSafetyCheck,
					SafetyQuestions: []string{
						"¿Tienes alguna limitación física?",
						"¿Has tenido problemas cardiovasculares en el pasado?",
					},
				},
			},
			{
				name:      "numeric measurement",
				predicate: containsDigit,
				response: Response{
					Text:         "Creo que quieres enviar una medida. Déjame ayudarte con eso.",
					Action:       ActionSendMessage,
					TemplateName: "px_sends_numbers_ai_no_context",
					EndSession:   true,
				},
			},
			{
				name:     "measurement keywords",
				keywords: []string{"medición", "medir", "peso", "cintura", "cadera", "cuello", "measurement", "imc"},
				response: Response{
					Text:         "Parece que quieres enviarnos una medición. Puedo ayudarte.",
					Action:       ActionSendMessage,
					TemplateName: "px_sends_numbers_ai_no_context",
					EndSession:   true,
				},
			},
			{
				name:     "measurement how-to",
				keywords: []string{"cómo medir", "how to", "tutorial medición", "instrucciones"},
				response: Response{
					Text:         "Parece que quieres instrucciones para mediciones. Puedo ayudarte.",
					Action:       ActionSendMessage,
					TemplateName: "px_sends_numbers_ai_no_context",
					EndSession:   true,
				},
			},
			{
				name:     "labs and files",
				keywords: []string{"resultados", "laboratorio", "recetas", "prescription", "archivos", "estudios"},
				response: Response{
					Text:         "Parece que quieres ver los archivos disponibles. Puedo ayudarte.",
					Action:       ActionSendMessage,
					TemplateName: "last_ai_file_available",
					EndSession:   true,
				},
			},
			{
				name:     "videocall app",
				keywords: []string{"aplicación", "app", "videollamada", "plataforma", "software"},
				response: Response{
					Text:         "Parece que quieres actualizar tu aplicación. Puedo ayudarte.",
					Action:       ActionSendMessage,
					TemplateName: "update_videocall",
					EndSession:   true,
				},
			},
			{
				name:     "complaint",
				keywords: []string{"queja", "mal servicio", "problema", "complaint", "insatisfecho"},
				response: Response{
					Text:         "Lamentamos tu experiencia. Estamos escalando tu caso con alta prioridad. Un agente de soporte te contactará.",
					Action:       ActionCallFunction,
					FunctionName: "QUESTION_SET_LAST_MESSAGE",
					Params:       map[string]string{"category": "PAGOS", "sendToHelpdesk": "true", "isKnownQuestion": "true"},
					EndSession:   true,
				},
			},
			{
				name:     "general question",
				keywords: []string{"pregunta", "duda", "consulta", "question", "ayuda"},
				response: Response{
					Text:         "Hola, con gusto te puedo ayudar con el envío de una pregunta a nuestro equipo.",
					Action:       ActionSendMessage,
					TemplateName: "master_general_question_ai",
					EndSession:   true,
				},
			},
			{
				name:     "invoicing",
				keywords: []string{"factura", "facturación", "invoice", "billing"},
				response: Response{
					Text:         "Me parece que quieres apoyo con tus facturas. Yo te puedo ayudar.",
					Action:       ActionSendMessage,
					TemplateName: "invoicing_ai_catcher",
					EndSession:   true,
				},
			},
			{
				name:     "payments",
				keywords: []string{"pago", "payment", "cobro", "tarjeta"},
				response: Response{
					Text:         "Hola, me parece que quieres apoyo con tus pagos. Yo te puedo ayudar.",
					Action:       ActionSendMessage,
					TemplateName: "payment_ai_catcher",
					EndSession:   true,
				},
			},
			{
				name:     "shipments",
				keywords: []string{"envío", "shipment", "medicamento", "supplies", "medicación"},
				response: Response{
					Text:         "Me parece que quieres apoyo con tus envíos. Yo te puedo ayudar.",
					Action:       ActionSendMessage,
					TemplateName: "supplies_ai_catcher",
					EndSession:   true,
				},
			},
			{
				name:     "symptoms",
				keywords: []string{"me siento mal", "síntomas", "dolor", "mareo", "nausea"},
				response: Response{
					Text:         "Comprendo tu preocupación. Te voy a conectar con nuestro servicio de especialistas.",
					Action:       ActionSendMessage,
					TemplateName: "call_specialists_ai",
					EndSession:   true,
				},
			},
			{
				name:     "mental health",
				keywords: []string{"depresión", "ansiedad", "mental", "psicológico"},
				response: Response{
					Text:         "Tu bienestar mental es importante. Te conectaré con nuestro servicio de apoyo psicológico.",
					Action:       ActionSendMessage,
					TemplateName: "psycho_emergency_call_ai_requested",
					EndSession:   true,
				},
			},
			{
				name:     "gratitude",
				keywords: []string{"gracias", "thank", "agradezco"},
				response: Response{
					Text:       "Gracias a ti.",
					Action:     ActionEndSession,
					EndSession: true,
				},
			},
			{
				name:     "referral",
				keywords: []string{"referir", "recomendar", "referral", "amigo"},
				response: Response{
					Text:       "Parece que quieres referir a alguien. Es muy sencillo: compártenos su contacto por este medio.",
					Action:     ActionEndSession,
					EndSession: true,
				},
			},
			{
				name:      "emoji only",
				predicate: containsEmoji,
				response: Response{
					Text:         "Solo para estar seguro: por favor utiliza el siguiente menú. Gracias.",
					Action:       ActionSendMessage,
					TemplateName: "master_general_question_ai",
					EndSession:   true,
				},
			},
			{
				name:     "subscription cancel",
				keywords: []string{"cancelar suscripción", "cancel subscription", "dar de baja", "discontinuar"},
				response: Response{
					Text:         "Lamentamos tu experiencia. Estamos escalando tu caso con alta prioridad. Un agente de soporte te contactará.",
					Action:       ActionCallFunction,
					FunctionName: "QUESTION_SET_LAST_MESSAGE",
					Params:       map[string]string{"category": "PAGOS", "sendToHelpdesk": "true", "isKnownQuestion": "true"},
					EndSession:   true,
				},
			},
			{
				name:     "obesity escalation",
				keywords: []string{"obesidad", "peso ideal", "imc", "grasa corporal", "metabolismo"},
				response: Response{
					Text:         "Lo lamento, no entendí tu petición. Voy a escalar tu caso con un especialista. Gracias por tu paciencia.",
					Action:       ActionCallFunction,
					FunctionName: "QUESTION_SET_LAST_MESSAGE",
					Params:       map[string]string{"category": "OBESITY", "sendToHelpdesk": "true", "isKnownQuestion": "true"},
					EndSession:   true,
				},
			},
			{
				name:      "single word",
				predicate: isSingleWord,
				response:  helpDeskRedirect(),
			},
		},
		fallback: helpDeskRedirect(),
	}
}
