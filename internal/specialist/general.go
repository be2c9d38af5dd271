package specialist

import "github.com/BTreeMap/CareRoute/internal/models"

// NewGeneral builds the general-support dispatcher. It carries a much
// shorter table than the specialty dispatchers: administrative intents,
// gratitude, and the help desk default.
func NewGeneral() Dispatcher {
	return &tableDispatcher{
		specialty: models.SpecialtyGeneral,
		rules: []rule{
			{
				name:     "appointment booking",
				keywords: []string{"cita", "agendar", "consulta", "appointment"},
				response: Response{
					Text:         "Parece que quieres agendar una cita. Déjame ayudarte con eso.",
					Action:       ActionSendMessage,
					TemplateName: "booking_catcher_ai_menu",
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
				keywords: []string{"envío", "shipment", "medicamento", "supplies"},
				response: Response{
					Text:         "Me parece que quieres apoyo con tus envíos. Yo te puedo ayudar.",
					Action:       ActionSendMessage,
					TemplateName: "supplies_ai_catcher",
					EndSession:   true,
				},
			},
			{
				name:     "general question",
				keywords: []string{"pregunta", "duda", "ayuda", "question"},
				response: Response{
					Text:         "Hola, con gusto te puedo ayudar con el envío de una pregunta a nuestro equipo.",
					Action:       ActionSendMessage,
					TemplateName: "master_general_question_ai",
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
				name:      "single word",
				predicate: isSingleWord,
				response:  helpDeskRedirect(),
			},
		},
		fallback: helpDeskRedirect(),
	}
}
