package pages

import (
	"testing"

	"github.com/BTreeMap/CareRoute/internal/models"
)

func TestResolvePlanGateCrossProduct(t *testing.T) {
	tests := []struct {
		name       string
		plan       models.PlanType
		status     models.PlanStatus
		wantFlow   string
		wantPage   string
		wantSupport bool
	}{
		{"pro active", models.PlanPro, models.PlanStatusActive, FlowDiabetesPlans, PageMainMenu, false},
		{"pro suspended", models.PlanPro, models.PlanStatusSuspended, FlowDiabetesPlans, PageMainMenu, false},
		{"pro canceled", models.PlanPro, models.PlanStatusCanceled, "", PagePlanReactivation, false},
		{"plus active", models.PlanPlus, models.PlanStatusActive, FlowDiabetesPlans, PageMainMenu, false},
		{"plus suspended", models.PlanPlus, models.PlanStatusSuspended, FlowDiabetesPlans, PageMainMenu, false},
		{"plus canceled", models.PlanPlus, models.PlanStatusCanceled, "", PagePlanReactivation, false},
		{"basic active", models.PlanBasic, models.PlanStatusActive, FlowDiabetesPlans, PageMainMenu, false},
		{"basic suspended", models.PlanBasic, models.PlanStatusSuspended, FlowDiabetesPlans, PageMainMenu, false},
		{"basic canceled", models.PlanBasic, models.PlanStatusCanceled, "", PagePlanReactivation, false},
		{"club active", models.PlanClub, models.PlanStatusActive, FlowClubPlan, PageClubMenu, false},
		{"club suspended", models.PlanClub, models.PlanStatusSuspended, FlowClubPlan, PageClubMenu, false},
		{"club canceled", models.PlanClub, models.PlanStatusCanceled, "", PageClubCanceledPlan, false},
		{"unrecognized plan", models.PlanType("ZERO"), models.PlanStatusActive, "", PageUnknownPlan, true},
		{"unrecognized canceled", models.PlanType("ZERO"), models.PlanStatusCanceled, "", PageUnknownPlan, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolvePlanGate(models.PatientContext{
				PatientID:  "px-1",
				Plan:       tt.plan,
				PlanStatus: tt.status,
			})
			if got.Flow != tt.wantFlow {
				t.Errorf("flow = %q, want %q", got.Flow, tt.wantFlow)
			}
			if got.Page != tt.wantPage {
				t.Errorf("page = %q, want %q", got.Page, tt.wantPage)
			}
			if got.SupportContact != tt.wantSupport {
				t.Errorf("support contact = %v, want %v", got.SupportContact, tt.wantSupport)
			}
		})
	}
}

func TestResolvePlanGateUnknownPatient(t *testing.T) {
	got := ResolvePlanGate(models.PatientContext{})
	if got.Page != PageUserProblems {
		t.Errorf("unknown patient should land on %s, got %s", PageUserProblems, got.Page)
	}
	if got.Flow != "" {
		t.Errorf("unknown patient should not enter a flow, got %s", got.Flow)
	}
}

func TestGateTargetsExistInGraph(t *testing.T) {
	g, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	contexts := []models.PatientContext{
		{},
		{Plan: models.PlanPro, PlanStatus: models.PlanStatusActive},
		{Plan: models.PlanClub, PlanStatus: models.PlanStatusCanceled},
		{Plan: models.PlanBasic, PlanStatus: models.PlanStatusCanceled},
		{Plan: models.PlanType("MYSTERY"), PlanStatus: models.PlanStatusActive},
	}
	for _, pc := range contexts {
		d := ResolvePlanGate(pc)
		if d.Page != "" {
			if _, ok := g.Page(d.Page); !ok {
				t.Errorf("gate for %+v points at missing page %s", pc, d.Page)
			}
		}
		if d.Flow != "" {
			if _, ok := g.Flow(d.Flow); !ok {
				t.Errorf("gate for %+v points at missing flow %s", pc, d.Flow)
			}
		}
	}
}
