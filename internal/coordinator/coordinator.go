// Package coordinator arbitrates between deterministic menu navigation and
// intelligent classification-based routing.
//
// Processing order per message: validate, session lookup, deterministic
// match, classification with fallback, emergency override, specialist
// dispatch. Messages for the same user are serialized on a per-user lock so
// state-machine transitions never interleave.
package coordinator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/BTreeMap/CareRoute/internal/classify"
	"github.com/BTreeMap/CareRoute/internal/events"
	"github.com/BTreeMap/CareRoute/internal/models"
	"github.com/BTreeMap/CareRoute/internal/pages"
	"github.com/BTreeMap/CareRoute/internal/router"
	"github.com/BTreeMap/CareRoute/internal/session"
	"github.com/BTreeMap/CareRoute/internal/specialist"
)

// PatientResolver looks up the patient context for a channel user id.
type PatientResolver interface {
	Resolve(ctx context.Context, userID string) (models.PatientContext, error)
}

// PatientResolverFunc adapts a function to the PatientResolver interface.
type PatientResolverFunc func(ctx context.Context, userID string) (models.PatientContext, error)

// Resolve implements PatientResolver.
func (f PatientResolverFunc) Resolve(ctx context.Context, userID string) (models.PatientContext, error) {
	return f(ctx, userID)
}

// FunctionHandler executes a declared function call and returns the text to
// deliver to the user.
type FunctionHandler func(ctx context.Context, sess models.UserSession, params map[string]string) (string, error)

// Opts holds coordinator configuration.
type Opts struct {
	Classifier classify.Classifier
	Resolver   PatientResolver
	Recorder   *events.Recorder
	Handlers   map[string]FunctionHandler
}

// Option configures the coordinator.
type Option func(*Opts)

// WithClassifier sets the external classifier. Without one, every
// classification uses the keyword fallback.
func WithClassifier(c classify.Classifier) Option {
	return func(o *Opts) { o.Classifier = c }
}

// WithPatientResolver sets the patient context lookup.
func WithPatientResolver(r PatientResolver) Option {
	return func(o *Opts) { o.Resolver = r }
}

// WithRecorder sets the activity event recorder.
func WithRecorder(r *events.Recorder) Option {
	return func(o *Opts) { o.Recorder = r }
}

// WithFunctionHandler registers a handler for a declared function call.
func WithFunctionHandler(name string, h FunctionHandler) Option {
	return func(o *Opts) {
		if o.Handlers == nil {
			o.Handlers = make(map[string]FunctionHandler)
		}
		o.Handlers[name] = h
	}
}

// Coordinator is the hybrid routing engine.
type Coordinator struct {
	graph      *pages.Graph
	router     *router.Router
	sessions   *session.Store
	classifier classify.Classifier
	fallback   *classify.Fallback
	registry   *specialist.Registry
	resolver   PatientResolver
	recorder   *events.Recorder
	handlers   map[string]FunctionHandler
	stats      Stats

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// New builds a coordinator. The function handler registry is validated
// against the graph's declared function calls at startup: a declared call
// without a handler is a construction error.
func New(graph *pages.Graph, sessions *session.Store, registry *specialist.Registry, opts ...Option) (*Coordinator, error) {
	cfg := Opts{Handlers: defaultFunctionHandlers()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Resolver == nil {
		cfg.Resolver = PatientResolverFunc(func(context.Context, string) (models.PatientContext, error) {
			return models.PatientContext{}, nil
		})
	}
	if cfg.Recorder == nil {
		cfg.Recorder = events.NewRecorder()
	}
	for _, fn := range graph.FunctionCalls() {
		if _, ok := cfg.Handlers[fn]; !ok {
			return nil, fmt.Errorf("coordinator: no handler for %s: %w", fn, models.ErrUnknownFunction)
		}
	}
	return &Coordinator{
		graph:      graph,
		router:     router.New(graph),
		sessions:   sessions,
		classifier: cfg.Classifier,
		fallback:   classify.NewFallback(),
		registry:   registry,
		resolver:   cfg.Resolver,
		recorder:   cfg.Recorder,
		handlers:   cfg.Handlers,
		locks:      make(map[string]*sync.Mutex),
	}, nil
}

// Process routes one inbound message and returns the result to render.
// It never panics: a routing failure surfaces as a {kind: error} result.
func (c *Coordinator) Process(ctx context.Context, userID, channel, input string) (result models.RoutingResult) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Routing panic recovered", "panic", r, "userID", userID)
			c.stats.errors.Add(1)
			result = errorResult("Lo sentimos, ocurrió un error. Nuestro equipo de soporte ha sido notificado.")
		}
	}()

	if strings.TrimSpace(input) == "" {
		c.stats.errors.Add(1)
		return errorResult("No recibimos tu mensaje. Por favor intenta de nuevo.")
	}

	lock := c.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	sess, created, err := c.sessions.GetOrCreate(userID, channel)
	if err != nil {
		slog.Error("Session lookup failed", "error", err, "userID", userID)
		c.stats.errors.Add(1)
		return errorResult("No pudimos recuperar tu sesión. Por favor contacta soporte.")
	}

	if created {
		sess = c.attachPatient(ctx, userID, sess)
		c.recorder.Emit("STARTED_SESSION_DATE", userID, sess.SessionID, nil)
		if router.IsGreeting(input) {
			return c.enterGate(userID, sess)
		}
		// First contact with substantive text: seed the session at its
		// gate entry page, then route the message itself so an emergency
		// in the very first message is never swallowed by the menu.
		sess = c.seedGate(userID, sess)
	}

	decision := c.router.Resolve(input, sess.CurrentPage)
	if decision.Restart {
		sess = c.attachPatient(ctx, userID, sess)
		return c.enterGate(userID, sess)
	}
	if decision.Matched {
		return c.applyTransition(ctx, userID, sess, decision)
	}

	classification, routingType := c.classify(ctx, input, sess.Patient)
	if classification.IsEmergency() {
		return c.emergencyOverride(userID, sess, input, classification)
	}
	return c.dispatch(ctx, userID, sess, input, classification, routingType)
}

// attachPatient resolves and stores the patient context on the session.
// Resolution failure leaves the patient unknown, which the gate handles.
func (c *Coordinator) attachPatient(ctx context.Context, userID string, sess models.UserSession) models.UserSession {
	patient, err := c.resolver.Resolve(ctx, userID)
	if err != nil {
		slog.Error("Patient resolution failed", "error", err, "userID", userID)
		return sess
	}
	updated, err := c.sessions.Update(userID, func(s *models.UserSession) {
		s.Patient = patient
	})
	if err != nil {
		return sess
	}
	return updated
}

// seedGate positions the session at its plan-gate entry page without
// rendering it.
func (c *Coordinator) seedGate(userID string, sess models.UserSession) models.UserSession {
	gate := pages.ResolvePlanGate(sess.Patient)
	updated, err := c.sessions.Update(userID, func(s *models.UserSession) {
		s.CurrentFlow = gate.Flow
		s.CurrentPage = gate.Page
		if gate.Flow != "" {
			s.RecordFlow(gate.Flow)
		}
	})
	if err != nil {
		return sess
	}
	return updated
}

// enterGate runs the plan gate and renders the entry page.
func (c *Coordinator) enterGate(userID string, sess models.UserSession) models.RoutingResult {
	gate := pages.ResolvePlanGate(sess.Patient)
	sess = c.seedGate(userID, sess)
	c.stats.deterministic.Add(1)
	page, ok := c.graph.Page(gate.Page)
	if !ok {
		c.stats.errors.Add(1)
		return errorResult("No pudimos cargar el menú. Por favor contacta soporte.")
	}
	result := c.renderPage(page, sess, nil)
	result.RoutingType = models.RoutingDeterministic
	result.SupportContact = gate.SupportContact
	return result
}

// applyTransition executes a matched deterministic transition.
func (c *Coordinator) applyTransition(ctx context.Context, userID string, sess models.UserSession, d router.Decision) models.RoutingResult {
	c.stats.deterministic.Add(1)
	tr := d.Transition

	if tr.EventLog != "" {
		c.recorder.Emit(tr.EventLog, userID, sess.SessionID, map[string]string{"selection": d.Selection})
	}

	var fulfillment []string
	fulfillment = append(fulfillment, tr.Fulfillment...)

	if tr.Function != "" {
		if text, err := c.callFunction(ctx, tr.Function, sess, tr.Params); err == nil && text != "" {
			fulfillment = append(fulfillment, text)
		}
	}

	switch tr.Kind {
	case pages.TargetPage:
		return c.navigateToPage(userID, sess, tr.Target, "", fulfillment)
	case pages.TargetFlow:
		flow, ok := c.graph.Flow(tr.Target)
		if !ok {
			c.stats.errors.Add(1)
			return errorResult("No pudimos continuar. Por favor contacta soporte.")
		}
		return c.navigateToPage(userID, sess, flow.StartPage, flow.Name, fulfillment)
	case pages.TargetFunction:
		text, err := c.callFunction(ctx, tr.Target, sess, tr.Params)
		if err != nil {
			c.stats.errors.Add(1)
			return errorResult("No pudimos completar la operación. Por favor contacta soporte.")
		}
		return models.RoutingResult{
			Kind:        models.KindNavigation,
			RoutingType: models.RoutingDeterministic,
			Text:        joinTexts(append(fulfillment, text)),
		}
	default:
		c.stats.errors.Add(1)
		return errorResult("No pudimos continuar. Por favor contacta soporte.")
	}
}

// navigateToPage moves the session to the target page and renders it.
// Ending pages close the session after rendering. Entry-page targets
// re-run the plan gate: a canceled or unrecognized plan can never reach a
// menu its status forbids, no matter which transition asked for it.
func (c *Coordinator) navigateToPage(userID string, sess models.UserSession, pageID, flowName string, fulfillment []string) models.RoutingResult {
	var supportContact bool
	if pageID == pages.PageMainMenu || pageID == pages.PageClubMenu {
		gate := pages.ResolvePlanGate(sess.Patient)
		if gate.Page != pageID {
			pageID = gate.Page
			flowName = gate.Flow
			supportContact = gate.SupportContact
		}
	}
	page, ok := c.graph.Page(pageID)
	if !ok {
		c.stats.errors.Add(1)
		return errorResult("No pudimos cargar la página. Por favor contacta soporte.")
	}
	updated, err := c.sessions.Update(userID, func(s *models.UserSession) {
		s.CurrentPage = pageID
		if flowName != "" {
			s.CurrentFlow = flowName
			s.RecordFlow(flowName)
		}
	})
	if err == nil {
		sess = updated
	}
	result := c.renderPage(page, sess, fulfillment)
	result.RoutingType = models.RoutingDeterministic
	if supportContact {
		result.SupportContact = true
	}
	if pageID == pages.PageEndSession {
		c.sessions.End(userID)
	}
	return result
}

// renderPage turns a page into a menu or navigation result.
func (c *Coordinator) renderPage(page *pages.Page, sess models.UserSession, fulfillment []string) models.RoutingResult {
	prompt := personalize(page.Prompt, sess.Patient)
	if len(page.Options) > 0 {
		menu := page.MenuPayload()
		menu.Prompt = prompt
		return models.RoutingResult{
			Kind: models.KindMenu,
			Menu: &menu,
			Text: joinTexts(fulfillment),
		}
	}
	texts := append([]string{}, fulfillment...)
	texts = append(texts, prompt)
	return models.RoutingResult{
		Kind: models.KindNavigation,
		Text: joinTexts(texts),
	}
}

// classify resolves free text through the external classifier with fallback.
func (c *Coordinator) classify(ctx context.Context, input string, patient models.PatientContext) (models.ClassificationResult, models.RoutingType) {
	if c.classifier != nil {
		result, err := c.classifier.Classify(ctx, input, patient)
		if err == nil {
			c.stats.intelligent.Add(1)
			return result.Normalize(), models.RoutingIntelligent
		}
		slog.Debug("External classification failed, using fallback", "error", err)
	}
	c.stats.fallback.Add(1)
	result, _ := c.fallback.Classify(ctx, input, patient)
	return result, models.RoutingFallback
}

// emergencyOverride builds the emergency result, bypassing all dispatch.
func (c *Coordinator) emergencyOverride(userID string, sess models.UserSession, input string, classification models.ClassificationResult) models.RoutingResult {
	payload := classify.BuildEmergencyPayload(input)
	slog.Error("MEDICAL EMERGENCY detected",
		"userID", userID,
		"sessionID", sess.SessionID,
		"kind", payload.Kind,
		"specialty", classification.Specialty,
		"urgency", classification.Urgency,
	)
	c.recorder.Emit("EMERGENCY_DETECTED", userID, sess.SessionID, map[string]string{
		"kind":    string(payload.Kind),
		"urgency": string(classification.Urgency),
	})
	c.stats.emergencies.Add(1)
	return models.RoutingResult{
		Kind:           models.KindEmergency,
		RoutingType:    models.RoutingIntelligent,
		Emergency:      &payload,
		Classification: &classification,
	}
}

// dispatch hands the classified input to the specialty dispatcher and maps
// its response onto a routing result.
func (c *Coordinator) dispatch(ctx context.Context, userID string, sess models.UserSession, input string, classification models.ClassificationResult, routingType models.RoutingType) models.RoutingResult {
	resp, err := c.registry.Dispatch(classification.Specialty, sess, input)
	if err != nil {
		slog.Error("Specialist dispatch failed", "error", err, "specialty", classification.Specialty)
		c.stats.errors.Add(1)
		return errorResult("No pudimos atender tu solicitud. Por favor contacta soporte.")
	}
	c.stats.countDispatch(classification.Specialty)

	switch resp.Action {
	case specialist.ActionFlowRedirect:
		flow, ok := c.graph.Flow(resp.RedirectFlow)
		if !ok {
			c.stats.errors.Add(1)
			return errorResult("No pudimos continuar. Por favor contacta soporte.")
		}
		result := c.navigateToPage(userID, sess, flow.StartPage, flow.Name, []string{resp.Text})
		result.RoutingType = routingType
		result.Classification = &classification
		return result

	case specialist.ActionCallFunction:
		c.recorder.Emit("FUNCTION_CALLED", userID, sess.SessionID, map[string]string{"function": resp.FunctionName})
		text := resp.Text
		if fnText, err := c.callFunction(ctx, resp.FunctionName, sess, resp.Params); err == nil && fnText != "" {
			text = joinTexts([]string{resp.Text, fnText})
		}
		if resp.EndSession {
			c.sessions.End(userID)
		}
		return models.RoutingResult{
			Kind:           models.KindSpecialistResponse,
			RoutingType:    routingType,
			Text:           text,
			Classification: &classification,
		}

	case specialist.ActionSafetyCheck:
		texts := append([]string{resp.Text}, resp.SafetyQuestions...)
		return models.RoutingResult{
			Kind:           models.KindSpecialistResponse,
			RoutingType:    routingType,
			Text:           joinTexts(texts),
			Classification: &classification,
		}

	default:
		if resp.EndSession {
			c.sessions.End(userID)
		}
		return models.RoutingResult{
			Kind:           models.KindSpecialistResponse,
			RoutingType:    routingType,
			Text:           resp.Text,
			Classification: &classification,
		}
	}
}

// callFunction runs a declared function call handler.
func (c *Coordinator) callFunction(ctx context.Context, name string, sess models.UserSession, params map[string]string) (string, error) {
	h, ok := c.handlers[name]
	if !ok {
		return "", fmt.Errorf("call %s: %w", name, models.ErrUnknownFunction)
	}
	text, err := h(ctx, sess, params)
	if err != nil {
		slog.Error("Function call failed", "error", err, "function", name)
		return "", fmt.Errorf("call %s: %w", name, err)
	}
	return text, nil
}

// userLock returns the per-user serialization lock.
func (c *Coordinator) userLock(userID string) *sync.Mutex {
	c.locksMu.Lock()
	defer c.locksMu.Unlock()
	lock, ok := c.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[userID] = lock
	}
	return lock
}

func personalize(prompt string, patient models.PatientContext) string {
	name := patient.NameDisplay
	if name == "" {
		name = "paciente"
	}
	return strings.ReplaceAll(prompt, "{patient_name}", name)
}

func joinTexts(texts []string) string {
	var parts []string
	for _, t := range texts {
		if strings.TrimSpace(t) != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n\n")
}

func errorResult(text string) models.RoutingResult {
	return models.RoutingResult{
		Kind:           models.KindError,
		RoutingType:    models.RoutingFallback,
		Text:           text,
		SupportContact: true,
	}
}
