package service

import (
	"errors"
	"resilience_assessment/internal/model"
	"resilience_assessment/internal/questionnaire"
	"resilience_assessment/internal/util"
	"testing"
)

func resp(stage model.Stage, id string, score int) model.Response {
	return model.Response{Stage: stage, QuestionID: id, Score: score}
}

func TestCalculateNoResponses(t *testing.T) {
	_, err := NewScoringService(questionnaire.Default()).Calculate(nil)
	if !errors.Is(err, util.ErrNoResponses) {
		t.Fatalf("expected ErrNoResponses, got %v", err)
	}
}

func TestCalculateWeightedScores(t *testing.T) {
	svc := NewScoringService(questionnaire.Default())
	report, err := svc.Calculate([]model.Response{
		resp(model.StagePreInfection, "backup_strategy", 4),  // 40/40
		resp(model.StagePreInfection, "patch_management", 1), // 8/32
	})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}

	oa := report.OverallAssessment
	if oa.TotalScore != 48 || oa.MaxPossibleScore != 72 {
		t.Fatalf("unexpected totals %+v", oa)
	}
	if oa.PercentageScore != 66.7 || oa.ReadinessLevel != "Moderate" {
		t.Fatalf("unexpected overall %+v", oa)
	}

	pre := report.StagePerformance[model.StagePreInfection]
	if pre.AnsweredQuestions != 2 || pre.TotalQuestions != 7 || pre.Status != "Moderate" {
		t.Fatalf("unexpected pre-infection stage %+v", pre)
	}
	active := report.StagePerformance[model.StageActiveInfection]
	if active.Status != StatusNotStarted || active.Percentage != 0 || active.TotalQuestions != 4 {
		t.Fatalf("unexpected active stage %+v", active)
	}

	if len(report.RiskAreas) != 1 || report.RiskAreas[0].Area != "Patch Management" || report.RiskAreas[0].Score != 25 {
		t.Fatalf("unexpected risk areas %+v", report.RiskAreas)
	}
	if len(report.StrengthAreas) != 1 || report.StrengthAreas[0].QuestionID != "backup_strategy" {
		t.Fatalf("unexpected strength areas %+v", report.StrengthAreas)
	}

	qs := report.DetailedBreakdown[model.StagePreInfection]["patch_management"]
	if qs.Weight != 8 || qs.MitreTechnique != "T1190" || qs.Percentage != 25 {
		t.Fatalf("unexpected breakdown %+v", qs)
	}

	cov := report.MitreCoverage
	if cov.TotalTechniques != 2 || cov.TechniquesCovered != 2 {
		t.Fatalf("unexpected coverage %+v", cov)
	}
	if cov.TechniqueDetails["T1490"].Name != "Inhibit System Recovery" {
		t.Fatalf("technique name not resolved: %+v", cov.TechniqueDetails["T1490"])
	}
}

func TestCalculateCapsAreasAndKeepsCount(t *testing.T) {
	def := questionnaire.Default()
	var responses []model.Response
	for _, sec := range def.Sections {
		for _, q := range sec.Questions {
			responses = append(responses, resp(sec.Stage, q.ID, 0))
		}
	}

	report, err := NewScoringService(def).Calculate(responses)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if len(report.RiskAreas) != MaxReportAreas {
		t.Fatalf("expected %d risk areas, got %d", MaxReportAreas, len(report.RiskAreas))
	}
	if report.PriorityRiskCount != 15 {
		t.Fatalf("expected full risk count, got %d", report.PriorityRiskCount)
	}
	if report.OverallAssessment.ReadinessLevel != "Critical" {
		t.Fatalf("expected critical, got %s", report.OverallAssessment.ReadinessLevel)
	}
	if len(report.StrengthAreas) != 0 {
		t.Fatalf("expected no strengths")
	}
	if report.MitreCoverage.TechniquesCovered != 0 {
		t.Fatalf("zero scores must not count as coverage")
	}
}

func TestCalculateAreaOrdering(t *testing.T) {
	report, err := NewScoringService(questionnaire.Default()).Calculate([]model.Response{
		resp(model.StagePreInfection, "backup_strategy", 1),
		resp(model.StagePreInfection, "email_security", 0),
		resp(model.StagePostInfection, "recovery_procedures", 3),
		resp(model.StagePostInfection, "lessons_learned", 4),
	})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}

	if report.RiskAreas[0].QuestionID != "email_security" || report.RiskAreas[1].QuestionID != "backup_strategy" {
		t.Fatalf("risk areas must be ascending: %+v", report.RiskAreas)
	}
	if report.StrengthAreas[0].QuestionID != "lessons_learned" || report.StrengthAreas[1].QuestionID != "recovery_procedures" {
		t.Fatalf("strength areas must be descending: %+v", report.StrengthAreas)
	}
	if len(report.SummaryInsights) != 4 {
		t.Fatalf("expected level, weakest, strongest and focus insights, got %v", report.SummaryInsights)
	}
}

func TestBuildSummary(t *testing.T) {
	def := questionnaire.Default()
	report, err := NewScoringService(def).Calculate([]model.Response{
		resp(model.StageActiveInfection, "incident_response_plan", 3),
	})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	session := &model.AssessmentSession{Organization: "Acme", Assessor: "Jo"}

	summary := BuildSummary(session, report, def)
	if summary.OverallScore == nil || *summary.OverallScore != 75 {
		t.Fatalf("unexpected overall %v", summary.OverallScore)
	}
	if len(summary.Stages) != 3 || summary.Stages[1].Name != "Active Infection Response" {
		t.Fatalf("unexpected stages %+v", summary.Stages)
	}
	if summary.Stages[1].QuestionsAnswered != 1 || summary.Stages[1].TotalQuestions != 4 {
		t.Fatalf("unexpected stage counts %+v", summary.Stages[1])
	}

	empty := BuildSummary(session, nil, def)
	if empty.OverallScore != nil || empty.Organization != "Acme" {
		t.Fatalf("summary without scores should only carry session fields: %+v", empty)
	}
}

func TestGenerateRecommendations(t *testing.T) {
	svc := NewRecommendationService()

	rec := svc.Generate(&model.ScoreReport{
		OverallAssessment: model.OverallAssessment{ReadinessLevel: "Poor"},
		RiskAreas: []model.ScoredArea{
			{QuestionID: "backup_strategy", Score: 0},
			{QuestionID: "patch_management", Score: 25},
		},
	})
	if len(rec.PriorityActions) != 2 {
		t.Fatalf("expected two actions, got %+v", rec.PriorityActions)
	}
	if rec.PriorityActions[0].Priority != "High" || rec.PriorityActions[0].Timeframe != "30 days" {
		t.Fatalf("score below 25 should be urgent: %+v", rec.PriorityActions[0])
	}
	if rec.PriorityActions[1].Priority != "Medium" {
		t.Fatalf("score of 25 should be medium: %+v", rec.PriorityActions[1])
	}
	if rec.ExecutiveSummary == "" || len(rec.FrameworkAlignment) == 0 {
		t.Fatalf("missing summary or alignment: %+v", rec)
	}

	fallback := svc.Generate(&model.ScoreReport{OverallAssessment: model.OverallAssessment{ReadinessLevel: "Excellent"}})
	if len(fallback.PriorityActions) != len(defaultActions) {
		t.Fatalf("expected default actions, got %+v", fallback.PriorityActions)
	}
}
