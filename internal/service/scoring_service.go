package service

import (
	"fmt"
	"resilience_assessment/internal/model"
	"resilience_assessment/internal/questionnaire"
	"resilience_assessment/internal/util"
	"sort"
)

const StatusNotStarted = "Not Started"

const (
	riskThreshold     = 50.0
	strengthThreshold = 75.0
)

// ScoringService 加权评分：单题得分 = 分值 × 权重，满分 = 4 × 权重
type ScoringService struct {
	def *questionnaire.Definition
}

func NewScoringService(def *questionnaire.Definition) *ScoringService {
	return &ScoringService{def: def}
}

type scoredQuestion struct {
	stage    model.Stage
	response model.Response
	weight   int
	score    int
	max      int
	pct      float64
	mitre    string
}

func (s *ScoringService) score(responses []model.Response) []scoredQuestion {
	out := make([]scoredQuestion, 0, len(responses))
	for _, r := range responses {
		weight := s.def.Weight(r.Stage, r.QuestionID)
		mitre := ""
		if q, ok := s.def.Question(r.Stage, r.QuestionID); ok {
			mitre = q.MitreTechnique
		}
		sq := scoredQuestion{
			stage:    r.Stage,
			response: r,
			weight:   weight,
			score:    r.Score * weight,
			max:      questionnaire.MaxOptionValue * weight,
			mitre:    mitre,
		}
		if sq.max > 0 {
			sq.pct = util.Round1(float64(sq.score) / float64(sq.max) * 100)
		}
		out = append(out, sq)
	}
	return out
}

// Calculate 生成完整评分报告；没有任何作答时返回 ErrNoResponses
func (s *ScoringService) Calculate(responses []model.Response) (*model.ScoreReport, error) {
	if len(responses) == 0 {
		return nil, util.ErrNoResponses
	}
	scored := s.score(responses)

	stages := make(map[model.Stage]model.StagePerformance, len(model.Stages))
	breakdown := make(map[model.Stage]map[string]model.QuestionScore)
	for _, stage := range model.Stages {
		stages[stage] = model.StagePerformance{TotalQuestions: s.def.TotalQuestions(stage)}
	}

	totalScore, totalMax := 0, 0
	for _, q := range scored {
		sp := stages[q.stage]
		sp.Score += q.score
		sp.MaxScore += q.max
		sp.AnsweredQuestions++
		stages[q.stage] = sp
		totalScore += q.score
		totalMax += q.max

		if breakdown[q.stage] == nil {
			breakdown[q.stage] = make(map[string]model.QuestionScore)
		}
		breakdown[q.stage][q.response.QuestionID] = model.QuestionScore{
			Score:          q.score,
			MaxScore:       q.max,
			Percentage:     q.pct,
			Weight:         q.weight,
			ResponseText:   q.response.AnswerText,
			MitreTechnique: q.mitre,
		}
	}

	stagePct := make(map[model.Stage]float64, len(stages))
	for stage, sp := range stages {
		pct := 0.0
		if sp.MaxScore > 0 {
			pct = float64(sp.Score) / float64(sp.MaxScore) * 100
		}
		stagePct[stage] = pct
		sp.Percentage = util.Round1(pct)
		sp.Status = questionnaire.ReadinessLevel(pct)
		if sp.AnsweredQuestions == 0 {
			sp.Status = StatusNotStarted
		}
		stages[stage] = sp
	}

	overallPct := 0.0
	if totalMax > 0 {
		overallPct = float64(totalScore) / float64(totalMax) * 100
	}
	overall := model.OverallAssessment{
		PercentageScore:  util.Round1(overallPct),
		ReadinessLevel:   questionnaire.ReadinessLevel(overallPct),
		TotalScore:       totalScore,
		MaxPossibleScore: totalMax,
	}

	risks := s.riskAreas(scored)
	strengths := s.strengthAreas(scored)

	report := &model.ScoreReport{
		OverallAssessment: overall,
		StagePerformance:  stages,
		RiskAreas:         topAreas(risks),
		StrengthAreas:     topAreas(strengths),
		PriorityRiskCount: len(risks),
		MitreCoverage:     s.mitreCoverage(scored),
		DetailedBreakdown: breakdown,
	}
	report.SummaryInsights = insights(overall, stagePct, len(risks))
	return report, nil
}

func toArea(q scoredQuestion) model.ScoredArea {
	return model.ScoredArea{
		Stage:          q.stage,
		QuestionID:     q.response.QuestionID,
		Area:           util.HumanizeID(q.response.QuestionID),
		Score:          q.pct,
		MitreTechnique: q.mitre,
		Response:       q.response.AnswerText,
	}
}

// riskAreas 低于 50% 视为高风险，分数升序
func (s *ScoringService) riskAreas(scored []scoredQuestion) []model.ScoredArea {
	var out []model.ScoredArea
	for _, q := range scored {
		if q.pct < riskThreshold {
			out = append(out, toArea(q))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score < out[j].Score })
	return out
}

// strengthAreas 不低于 75% 视为优势，分数降序
func (s *ScoringService) strengthAreas(scored []scoredQuestion) []model.ScoredArea {
	var out []model.ScoredArea
	for _, q := range scored {
		if q.pct >= strengthThreshold {
			out = append(out, toArea(q))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func topAreas(areas []model.ScoredArea) []model.ScoredArea {
	if len(areas) > MaxReportAreas {
		return areas[:MaxReportAreas]
	}
	return areas
}

func (s *ScoringService) mitreCoverage(scored []scoredQuestion) model.MitreCoverage {
	details := make(map[string]model.TechniqueCoverage)
	for _, q := range scored {
		tc := details[q.mitre]
		tc.TotalScore += q.score
		tc.MaxScore += q.max
		tc.Questions = append(tc.Questions, q.response.QuestionID)
		details[q.mitre] = tc
	}

	covered := 0
	for id, tc := range details {
		if tc.MaxScore > 0 {
			tc.Percentage = util.Round1(float64(tc.TotalScore) / float64(tc.MaxScore) * 100)
		}
		if info, ok := questionnaire.MitreTechniques[id]; ok {
			tc.Name = info.Name
			tc.Tactic = info.Tactic
		}
		if tc.Percentage > 0 {
			covered++
		}
		details[id] = tc
	}

	coverage := 0.0
	if len(details) > 0 {
		coverage = util.Round1(float64(covered) / float64(len(details)) * 100)
	}
	return model.MitreCoverage{
		TechniquesCovered:  covered,
		TotalTechniques:    len(details),
		CoveragePercentage: coverage,
		TechniqueDetails:   details,
	}
}

func insights(overall model.OverallAssessment, stagePct map[model.Stage]float64, riskCount int) []string {
	pct := overall.PercentageScore
	var out []string
	switch overall.ReadinessLevel {
	case "Critical":
		out = append(out, fmt.Sprintf("URGENT: Your organization scores %.1f%% and requires immediate attention to basic security controls.", pct))
	case "Poor":
		out = append(out, fmt.Sprintf("WARNING: Your organization scores %.1f%% and has significant security gaps that need addressing.", pct))
	case "Moderate":
		out = append(out, fmt.Sprintf("DEVELOPING: Your organization scores %.1f%% with a moderate security posture that can be enhanced.", pct))
	case "Good":
		out = append(out, fmt.Sprintf("STRONG: Your organization scores %.1f%% with good security practices in place.", pct))
	default:
		out = append(out, fmt.Sprintf("EXCELLENT: Your organization scores %.1f%% with outstanding security practices.", pct))
	}

	weakest, strongest := model.Stages[0], model.Stages[0]
	for _, stage := range model.Stages[1:] {
		if stagePct[stage] < stagePct[weakest] {
			weakest = stage
		}
		if stagePct[stage] > stagePct[strongest] {
			strongest = stage
		}
	}
	out = append(out,
		fmt.Sprintf("Weakest area: %s (%.1f%%)", util.HumanizeID(weakest.String()), stagePct[weakest]),
		fmt.Sprintf("Strongest area: %s (%.1f%%)", util.HumanizeID(strongest.String()), stagePct[strongest]),
	)

	if riskCount > 0 {
		out = append(out, fmt.Sprintf("Priority focus: %d critical areas need immediate attention", riskCount))
	}
	return out
}

// BuildSummary 把评分结果整理成报告组装用的结果视图
func BuildSummary(session *model.AssessmentSession, report *model.ScoreReport, def *questionnaire.Definition) model.ResultsSummary {
	summary := model.ResultsSummary{}
	if session != nil {
		summary.Organization = session.Organization
		summary.Assessor = session.Assessor
	}
	if report == nil {
		return summary
	}

	overall := report.OverallAssessment.PercentageScore
	summary.OverallScore = &overall
	summary.ReadinessLevel = report.OverallAssessment.ReadinessLevel

	for _, stage := range model.Stages {
		sp := report.StagePerformance[stage]
		name := util.HumanizeID(stage.String())
		if sec, ok := def.Section(stage); ok && sec.Title != "" {
			name = sec.Title
		}
		summary.Stages = append(summary.Stages, model.StageSummary{
			Name:              name,
			Score:             sp.Percentage,
			QuestionsAnswered: sp.AnsweredQuestions,
			TotalQuestions:    sp.TotalQuestions,
			Status:            sp.Status,
		})
	}
	for _, a := range report.RiskAreas {
		summary.RiskAreas = append(summary.RiskAreas, model.AreaScore{Name: a.Area, Score: a.Score})
	}
	for _, a := range report.StrengthAreas {
		summary.StrengthAreas = append(summary.StrengthAreas, model.AreaScore{Name: a.Area, Score: a.Score})
	}
	summary.Insights = append(summary.Insights, report.SummaryInsights...)
	return summary
}
