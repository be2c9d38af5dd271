package pages

import "github.com/BTreeMap/CareRoute/internal/models"

// GateDecision is the outcome of the plan gate: the flow to enter, the page
// to land on, and whether the rendered message should suggest contacting
// support.
type GateDecision struct {
	Flow           string
	Page           string
	SupportContact bool
}

// ResolvePlanGate maps a patient's plan and status to an entry point. The
// mapping is total: every plan/status combination, including unknown and
// unrecognized ones, resolves to a decision.
//
// Known plans in good standing (ACTIVE or SUSPENDED) reach their plan flow;
// suspended plans keep full menu access and are nudged about payment at the
// messaging layer, not here. Canceled plans land on reactivation pages.
func ResolvePlanGate(patient models.PatientContext) GateDecision {
	if !patient.IsKnown() {
		return GateDecision{Page: PageUserProblems}
	}
	if !models.IsRecognizedPlan(patient.Plan) {
		return GateDecision{Page: PageUnknownPlan, SupportContact: true}
	}

	if patient.Plan == models.PlanClub {
		if patient.PlanStatus == models.PlanStatusCanceled {
			return GateDecision{Page: PageClubCanceledPlan}
		}
		return GateDecision{Flow: FlowClubPlan, Page: PageClubMenu}
	}

	// PRO, PLUS, BASIC.
	if patient.PlanStatus == models.PlanStatusCanceled {
		return GateDecision{Page: PagePlanReactivation}
	}
	return GateDecision{Flow: FlowDiabetesPlans, Page: PageMainMenu}
}
