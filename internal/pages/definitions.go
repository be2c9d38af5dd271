package pages

// Page, flow and function-call declarations migrated from the original
// Dialogflow CX export. Option order and transition targets follow the
// exported menus exactly; channel adapters rely on the option order when
// rendering interactive lists.

// Well-known page ids referenced across packages.
const (
	PageMainMenu            = "mainMenu"
	PageApptsMenu           = "apptsMenu"
	PageAppointmentsList    = "appointmentsList"
	PageAppointmentsView    = "appointmentsView"
	PageAppointmentSchedule = "appointmentSchedule"
	PageAppointmentConfirm  = "appointmentConfirm"
	PageAppointmentResched  = "appointmentReschedule"
	PageAppointmentCancel   = "appointmentCancel"
	PageMeasurementsMenu    = "measurementsMenu"
	PageMeasurementsReports = "measurementsReports"
	PageLogWeight           = "logWeight"
	PageGlucoseFasting      = "glucoseValueLogFasting"
	PageGlucosePostMeal     = "glucoseValueLogPostMeal"
	PageLogHip              = "logHip"
	PageLogWaist            = "logWaist"
	PageLogNeck             = "logNeck"
	PageInvoiceLabsMenu     = "invoiceLabsMenu"
	PageInvoiceUpdatedInfo  = "invoiceUpdatedInfo"
	PageLastFileAvailable   = "lastFileAvailable"
	PageMedsSuppliesStatus  = "medsSuppliesStatus"
	PageQuestionsTags       = "questionsTags"
	PageSendQuestion        = "sendQuestion"
	PageEndSession          = "endSession"
	PageHelpDeskMenu        = "helpDeskMenu"
	PageComplaintCapture    = "complaintCapture"
	PageClubMenu            = "clubMenu"
	PageClubCanceledPlan    = "clubCanceledPlan"
	PagePlanReactivation    = "planReactivation"
	PageUserProblems        = "userProblems"
	PageUnknownPlan         = "unknownPlan"
)

// Well-known flow names.
const (
	FlowDiabetesPlans      = "diabetesPlans"
	FlowClubPlan           = "clubPlan"
	FlowHelpDesk           = "helpDeskSubMenu"
	FlowPresentComplaint   = "presentComplaintTag"
	FlowNutritionQuestion  = "nutritionQuestionTag"
	FlowPsychoQuestion     = "psychoQuestionTag"
	FlowSuppliesQuestion   = "suppliesQuestionTag"
	FlowHighSpecialization = "highSpecializationQuestionTag"
)

// Declared function call names. The coordinator's handler registry is
// validated against this set at startup.
const (
	FnAppointmentListSend      = "APPOINTMENT_LIST_SEND"
	FnAppointmentScheduleNew   = "APPOINTMENT_SCHEDULE_NEW"
	FnAppointmentSendCancel    = "APPOINTMENT_SEND_CANCEL_LIST"
	FnAppointmentConfirm       = "APPOINTMENT_CONFIRM"
	FnOnboardingSendLink       = "ONBOARDING_SEND_LINK"
	FnQuestionSetLastMessage   = "QUESTION_SET_LAST_MESSAGE"
)

// Activity event tags attached to menu transitions.
const (
	EventClickedMainMenu = "CLICKED_BUTTON_MAIN_MENU"
	EventSessionStarted  = "STARTED_SESSION_DATE"
)

func declaredFunctionCalls() []string {
	return []string{
		FnAppointmentListSend,
		FnAppointmentScheduleNew,
		FnAppointmentSendCancel,
		FnAppointmentConfirm,
		FnOnboardingSendLink,
		FnQuestionSetLastMessage,
	}
}

func allFlows() []Flow {
	return []Flow{
		{Name: FlowDiabetesPlans, StartPage: PageMainMenu},
		{Name: FlowClubPlan, StartPage: PageClubMenu},
		{Name: FlowHelpDesk, StartPage: PageHelpDeskMenu},
		{Name: FlowPresentComplaint, StartPage: PageComplaintCapture},
		{Name: FlowNutritionQuestion, StartPage: PageSendQuestion},
		{Name: FlowPsychoQuestion, StartPage: PageSendQuestion},
		{Name: FlowSuppliesQuestion, StartPage: PageSendQuestion},
		{Name: FlowHighSpecialization, StartPage: PageSendQuestion},
	}
}

func allPages() []*Page {
	return []*Page{
		mainMenuPage(),
		apptsMenuPage(),
		appointmentsListPage(),
		appointmentsViewPage(),
		appointmentSchedulePage(),
		appointmentConfirmPage(),
		appointmentReschedulePage(),
		appointmentCancelPage(),
		measurementsMenuPage(),
		measurementsReportsPage(),
		textPage(PageLogWeight, "Por favor, envía tu peso actual en kilogramos. Ejemplo: 70.5"),
		textPage(PageGlucoseFasting, "Por favor, envía tu glucosa en ayunas en mg/dl. Ejemplo: 95"),
		textPage(PageGlucosePostMeal, "Por favor, envía tu glucosa post comida en mg/dl. Ejemplo: 140"),
		textPage(PageLogHip, "Por favor, envía tu medida de cadera en centímetros. Ejemplo: 95"),
		textPage(PageLogWaist, "Por favor, envía tu medida de cintura en centímetros. Ejemplo: 80"),
		textPage(PageLogNeck, "Por favor, envía tu medida de cuello en centímetros. Ejemplo: 35"),
		invoiceLabsMenuPage(),
		textPage(PageInvoiceUpdatedInfo, "Información de facturación actualizada. Por favor proporciona los datos solicitados."),
		textPage(PageLastFileAvailable, "Aquí tienes tu último archivo disponible."),
		textPage(PageMedsSuppliesStatus, "Estado de envío de medicamentos y suministros:\n- Glucómetro: En tránsito\n- Tiras reactivas: Entregado\n- Medicamentos: Programado"),
		questionsTagsPage(),
		textPage(PageSendQuestion, "Por favor, escribe tu pregunta y nuestro especialista te responderá a la brevedad."),
		textPage(PageEndSession, "Gracias por usar CareRoute. ¡Que tengas un excelente día!"),
		helpDeskMenuPage(),
		textPage(PageComplaintCapture, "Por favor describe tu queja o sugerencia. Nuestro equipo la revisará y te contactará pronto."),
		clubMenuPage(),
		clubCanceledPlanPage(),
		planReactivationPage(),
		userProblemsPage(),
		unknownPlanPage(),
	}
}

// textPage builds a terminal page with a plain prompt and no options.
func textPage(id, prompt string) *Page {
	return &Page{ID: id, Prompt: prompt}
}

func mainMenuPage() *Page {
	return &Page{
		ID:     PageMainMenu,
		Prompt: "Hola {patient_name}, por favor utiliza el menú de opciones.",
		Options: []Option{
			{ID: "APPOINTMENTS", Title: "Citas", Description: "Agenda/Re-agendamiento 🗓️"},
			{ID: "MEASUREMENTS", Title: "Mediciones", Description: "Enviar mediciones 📏"},
			{ID: "MEASUREMENTS_REPORT", Title: "Reporte mediciones", Description: "Reporte de mediciones 📈"},
			{ID: "INVOICE_LABS", Title: "Facturas y estudios", Description: "Facturación, estudios y órdenes📂"},
			{ID: "MEDS_GLP", Title: "Estatus de envíos", Description: "Meds/Glucómetro/Tiras📦"},
			{ID: "QUESTION_TYPE", Title: "Enviar pregunta", Description: "Enviar pregunta a agente/especialista ❔"},
			{ID: "NO_NEEDED_QUESTION_PATIENT", Title: "No es necesario", Description: "No requiero apoyo 👍"},
			{ID: "PATIENT_COMPLAINT", Title: "Presentar queja", Description: "Enviar queja sobre el servicio 📣"},
		},
		Transitions: map[string]Transition{
			"APPOINTMENTS":               {Kind: TargetPage, Target: PageApptsMenu, EventLog: EventClickedMainMenu},
			"MEASUREMENTS":               {Kind: TargetPage, Target: PageMeasurementsMenu, EventLog: EventClickedMainMenu},
			"MEASUREMENTS_REPORT":        {Kind: TargetPage, Target: PageMeasurementsReports, EventLog: EventClickedMainMenu},
			"INVOICE_LABS":               {Kind: TargetPage, Target: PageInvoiceLabsMenu, EventLog: EventClickedMainMenu},
			"MEDS_GLP":                   {Kind: TargetPage, Target: PageMedsSuppliesStatus, EventLog: EventClickedMainMenu},
			"QUESTION_TYPE":              {Kind: TargetPage, Target: PageQuestionsTags, EventLog: EventClickedMainMenu},
			"NO_NEEDED_QUESTION_PATIENT": {Kind: TargetPage, Target: PageEndSession, EventLog: EventClickedMainMenu},
			"PATIENT_COMPLAINT":          {Kind: TargetFlow, Target: FlowPresentComplaint, EventLog: EventClickedMainMenu},
		},
	}
}

func apptsMenuPage() *Page {
	return &Page{
		ID:     PageApptsMenu,
		Prompt: "¿Qué necesitas hacer con tus citas?",
		Options: []Option{
			{ID: "APPOINTMENTS_LIST_SEND", Title: "Ver mis citas", Description: "Lista de citas programadas"},
			{ID: "APPOINTMENT_RESCHEDULER", Title: "Re-agendar cita", Description: "Cambiar fecha u horario"},
			{ID: "SEND_QUESTION", Title: "Enviar pregunta", Description: "Pregunta sobre citas"},
		},
		Transitions: map[string]Transition{
			"APPOINTMENTS_LIST_SEND":  {Kind: TargetPage, Target: PageAppointmentsList, Function: FnAppointmentListSend},
			"APPOINTMENT_RESCHEDULER": {Kind: TargetPage, Target: PageAppointmentResched, Function: FnAppointmentSendCancel},
			"SEND_QUESTION":           {Kind: TargetPage, Target: PageQuestionsTags},
		},
	}
}

func appointmentsListPage() *Page {
	return &Page{
		ID:     PageAppointmentsList,
		Prompt: "Estas son tus opciones de citas:",
		Options: []Option{
			{ID: "VIEW_CURRENT_APPOINTMENTS", Title: "Ver citas actuales"},
			{ID: "SCHEDULE_NEW_APPOINTMENT", Title: "Agendar nueva cita"},
			{ID: "RESCHEDULE_APPOINTMENT", Title: "Re-agendar cita"},
			{ID: "CANCEL_APPOINTMENT", Title: "Cancelar cita"},
			{ID: "BACK_TO_MAIN_MENU", Title: "Menú principal"},
		},
		Transitions: map[string]Transition{
			"VIEW_CURRENT_APPOINTMENTS": {Kind: TargetPage, Target: PageAppointmentsView, Function: FnAppointmentListSend},
			"SCHEDULE_NEW_APPOINTMENT":  {Kind: TargetPage, Target: PageAppointmentSchedule, Function: FnAppointmentScheduleNew},
			"RESCHEDULE_APPOINTMENT":    {Kind: TargetPage, Target: PageAppointmentResched, Function: FnAppointmentSendCancel},
			"CANCEL_APPOINTMENT":        {Kind: TargetPage, Target: PageAppointmentCancel, Function: FnAppointmentSendCancel},
			"BACK_TO_MAIN_MENU":         {Kind: TargetPage, Target: PageMainMenu},
		},
	}
}

func appointmentsViewPage() *Page {
	return textPage(PageAppointmentsView, "Estas son tus próximas citas. Te enviaremos la liga de videollamada 30 minutos antes.")
}

func appointmentSchedulePage() *Page {
	return &Page{
		ID:     PageAppointmentSchedule,
		Prompt: "¿Con qué especialista quieres agendar?",
		Options: []Option{
			{ID: "ENDOCRINOLOGIST", Title: "Endocrinología"},
			{ID: "NUTRITIONIST", Title: "Nutrición"},
			{ID: "PSYCHOLOGIST", Title: "Psicología"},
			{ID: "GENERAL_MEDICINE", Title: "Medicina general"},
		},
		Transitions: map[string]Transition{
			"ENDOCRINOLOGIST":  {Kind: TargetPage, Target: PageAppointmentConfirm, Params: map[string]string{"specialty": "endocrinology"}},
			"NUTRITIONIST":     {Kind: TargetPage, Target: PageAppointmentConfirm, Params: map[string]string{"specialty": "nutrition"}},
			"PSYCHOLOGIST":     {Kind: TargetPage, Target: PageAppointmentConfirm, Params: map[string]string{"specialty": "psychology"}},
			"GENERAL_MEDICINE": {Kind: TargetPage, Target: PageAppointmentConfirm, Params: map[string]string{"specialty": "general_medicine"}},
		},
	}
}

func appointmentConfirmPage() *Page {
	return textPage(PageAppointmentConfirm, "Tu cita ha quedado registrada. Te enviaremos una confirmación por este medio.")
}

func appointmentReschedulePage() *Page {
	return textPage(PageAppointmentResched, "Estas son tus citas disponibles para re-agendar. Selecciona la que deseas mover.")
}

func appointmentCancelPage() *Page {
	return textPage(PageAppointmentCancel, "Estas son tus citas disponibles para cancelar. Selecciona la que deseas cancelar.")
}

func measurementsMenuPage() *Page {
	return &Page{
		ID:     PageMeasurementsMenu,
		Prompt: "¿Qué medición vas a enviar?",
		Options: []Option{
			{ID: "LOG_WEIGHT", Title: "Peso"},
			{ID: "LOG_GLUCOSE_FASTING", Title: "Glucosa en ayunas"},
			{ID: "LOG_GLUCOSE_POST_MEAL", Title: "Glucosa post comida"},
			{ID: "LOG_HIP", Title: "Medida de cadera"},
			{ID: "LOG_WAIST", Title: "Medida de cintura"},
			{ID: "LOG_NECK", Title: "Medida de cuello"},
		},
		Transitions: map[string]Transition{
			"LOG_WEIGHT":            {Kind: TargetPage, Target: PageLogWeight},
			"LOG_GLUCOSE_FASTING":   {Kind: TargetPage, Target: PageGlucoseFasting},
			"LOG_GLUCOSE_POST_MEAL": {Kind: TargetPage, Target: PageGlucosePostMeal},
			"LOG_HIP":               {Kind: TargetPage, Target: PageLogHip},
			"LOG_WAIST":             {Kind: TargetPage, Target: PageLogWaist},
			"LOG_NECK":              {Kind: TargetPage, Target: PageLogNeck},
		},
	}
}

func measurementsReportsPage() *Page {
	return &Page{
		ID:     PageMeasurementsReports,
		Prompt: "¿Qué tipo de reporte quieres tener?",
		Options: []Option{
			{ID: "FULL_REPORT", Title: "Reporte general"},
			{ID: "GLUCOSE_REPORT", Title: "Reporte Glucosas"},
		},
		Transitions: map[string]Transition{
			"FULL_REPORT": {
				Kind:        TargetPage,
				Target:      PageEndSession,
				Fulfillment: []string{"Este reporte demora un minuto en generarse. ¡Paciencia, gracias!"},
			},
			"GLUCOSE_REPORT": {
				Kind:   TargetPage,
				Target: PageEndSession,
				Fulfillment: []string{
					"Este reporte demora un minuto en generarse. ¡Paciencia, gracias! Recuerda: Las franjas moradas representan los rangos objetivo en los que debemos estar.\nSi tienes alguna pregunta ¡No dudes en escribirnos!",
				},
			},
		},
	}
}

func invoiceLabsMenuPage() *Page {
	return &Page{
		ID:     PageInvoiceLabsMenu,
		Prompt: "¿Qué necesitas?",
		Options: []Option{
			{ID: "INVOICE", Title: "Facturación", Description: "Facturas"},
			{ID: "UPLOAD_LABS", Title: "Labs/Recetas/Plan", Description: "Obtener último archivo"},
			{ID: "CALL_SUPPORT", Title: "Marcar a Clivi", Description: "Llamar equipo Clivi"},
			{ID: "PX_QUESTION_TAG", Title: "Requiero soporte", Description: "Soporte/servicio"},
		},
		Transitions: map[string]Transition{
			"INVOICE":     {Kind: TargetPage, Target: PageInvoiceUpdatedInfo},
			"UPLOAD_LABS": {Kind: TargetPage, Target: PageLastFileAvailable},
			"CALL_SUPPORT": {
				Kind:        TargetPage,
				Target:      PageEndSession,
				Fulfillment: []string{"Presiona en el número de abajo para marcarnos, por favor", "+525588409477"},
			},
			"PX_QUESTION_TAG": {Kind: TargetFlow, Target: FlowHelpDesk},
		},
	}
}

func questionsTagsPage() *Page {
	return &Page{
		ID:     PageQuestionsTags,
		Prompt: "¿Sobre qué tema tienes dudas?",
		Options: []Option{
			{ID: "DIABETES_QUESTION", Title: "Diabetes"},
			{ID: "NUTRITION_QUESTION", Title: "Nutrición"},
			{ID: "PSYCHOLOGY_QUESTION", Title: "Psicología"},
			{ID: "SUPPLIES_QUESTION", Title: "Insumos"},
			{ID: "HIGH_SPECIALIZATION_QUESTION", Title: "Alta especialidad"},
		},
		Transitions: map[string]Transition{
			"DIABETES_QUESTION":            {Kind: TargetPage, Target: PageSendQuestion, Params: map[string]string{"questionTag": "diabetes"}},
			"NUTRITION_QUESTION":           {Kind: TargetFlow, Target: FlowNutritionQuestion},
			"PSYCHOLOGY_QUESTION":          {Kind: TargetFlow, Target: FlowPsychoQuestion},
			"SUPPLIES_QUESTION":            {Kind: TargetFlow, Target: FlowSuppliesQuestion},
			"HIGH_SPECIALIZATION_QUESTION": {Kind: TargetFlow, Target: FlowHighSpecialization},
		},
	}
}

func helpDeskMenuPage() *Page {
	return &Page{
		ID:     PageHelpDeskMenu,
		Prompt: "¿En qué podemos ayudarte?",
		Options: []Option{
			{ID: "TECHNICAL_SUPPORT", Title: "Soporte técnico 🔧"},
			{ID: "BILLING_SUPPORT", Title: "Soporte de facturación 💳"},
			{ID: "APPOINTMENT_SUPPORT", Title: "Soporte de citas 📅"},
			{ID: "GENERAL_QUESTIONS", Title: "Preguntas generales ❓"},
			{ID: "BACK_TO_MENU", Title: "Volver al menú principal"},
		},
		Transitions: map[string]Transition{
			"TECHNICAL_SUPPORT":   {Kind: TargetPage, Target: PageSendQuestion, Params: map[string]string{"questionTag": "technical"}},
			"BILLING_SUPPORT":     {Kind: TargetPage, Target: PageSendQuestion, Params: map[string]string{"questionTag": "billing"}},
			"APPOINTMENT_SUPPORT": {Kind: TargetPage, Target: PageApptsMenu},
			"GENERAL_QUESTIONS":   {Kind: TargetPage, Target: PageSendQuestion, Params: map[string]string{"questionTag": "general"}},
			"BACK_TO_MENU":        {Kind: TargetPage, Target: PageMainMenu},
		},
	}
}

func clubMenuPage() *Page {
	return &Page{
		ID:     PageClubMenu,
		Prompt: "Hola {patient_name}, bienvenido al Plan Club.",
		Options: []Option{
			{ID: "CLUB_BENEFITS", Title: "Beneficios del Club"},
			{ID: "CLUB_ACTIVITIES", Title: "Actividades disponibles"},
			{ID: "CLUB_SUPPORT", Title: "Soporte especializado"},
			{ID: "MAIN_MENU", Title: "Menú principal"},
		},
		Transitions: map[string]Transition{
			"CLUB_BENEFITS":   {Kind: TargetPage, Target: PageSendQuestion, Params: map[string]string{"questionTag": "club_benefits"}},
			"CLUB_ACTIVITIES": {Kind: TargetPage, Target: PageSendQuestion, Params: map[string]string{"questionTag": "club_activities"}},
			"CLUB_SUPPORT":    {Kind: TargetFlow, Target: FlowHelpDesk},
			"MAIN_MENU":       {Kind: TargetPage, Target: PageMainMenu},
		},
	}
}

func clubCanceledPlanPage() *Page {
	return &Page{
		ID:     PageClubCanceledPlan,
		Prompt: "Tu plan Club ha sido cancelado. ¿Te gustaría reactivarlo o cambiar a otro plan?",
		Options: []Option{
			{ID: "REACTIVATE_CLUB", Title: "Reactivar Plan Club"},
			{ID: "VIEW_OTHER_PLANS", Title: "Ver otros planes"},
			{ID: "CONTACT_SUPPORT", Title: "Contactar soporte"},
		},
		Transitions: map[string]Transition{
			"REACTIVATE_CLUB":  {Kind: TargetPage, Target: PageSendQuestion, Params: map[string]string{"questionTag": "club_reactivation"}},
			"VIEW_OTHER_PLANS": {Kind: TargetPage, Target: PagePlanReactivation},
			"CONTACT_SUPPORT":  {Kind: TargetFlow, Target: FlowHelpDesk},
		},
	}
}

func planReactivationPage() *Page {
	return &Page{
		ID:     PagePlanReactivation,
		Prompt: "Tu plan ha sido cancelado. Te ayudamos a reactivarlo.",
		Options: []Option{
			{ID: "REACTIVATE_PLAN", Title: "Reactivar mi plan"},
			{ID: "CONTACT_SUPPORT", Title: "Contactar soporte"},
		},
		Transitions: map[string]Transition{
			"REACTIVATE_PLAN": {Kind: TargetPage, Target: PageSendQuestion, Params: map[string]string{"questionTag": "plan_reactivation"}},
			"CONTACT_SUPPORT": {Kind: TargetFlow, Target: FlowHelpDesk},
		},
	}
}

func userProblemsPage() *Page {
	return &Page{
		ID:     PageUserProblems,
		Prompt: "¡Bienvenido! 👋 Para ofrecerte el mejor servicio personalizado, necesitamos conocerte un poco. ¿Cuál es tu principal objetivo de salud?",
		Options: []Option{
			{ID: "DIABETES_CARE", Title: "Control de diabetes"},
			{ID: "WEIGHT_MANAGEMENT", Title: "Manejo de peso"},
			{ID: "GENERAL_WELLNESS", Title: "Bienestar general"},
			{ID: "SPECIFIC_CONDITION", Title: "Condición específica"},
		},
		Transitions: map[string]Transition{
			"DIABETES_CARE":      {Kind: TargetFunction, Target: FnOnboardingSendLink, Params: map[string]string{"goal": "diabetes"}},
			"WEIGHT_MANAGEMENT":  {Kind: TargetFunction, Target: FnOnboardingSendLink, Params: map[string]string{"goal": "obesity"}},
			"GENERAL_WELLNESS":   {Kind: TargetFunction, Target: FnOnboardingSendLink, Params: map[string]string{"goal": "general"}},
			"SPECIFIC_CONDITION": {Kind: TargetPage, Target: PageSendQuestion, Params: map[string]string{"questionTag": "onboarding"}},
		},
	}
}

func unknownPlanPage() *Page {
	return textPage(PageUnknownPlan, "Tu tipo de plan no es reconocido. Por favor contacta soporte técnico.")
}
