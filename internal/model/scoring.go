package model

// QuestionScore 单题加权得分
type QuestionScore struct {
	Score          int     `json:"score"`
	MaxScore       int     `json:"max_score"`
	Percentage     float64 `json:"percentage"`
	Weight         int     `json:"weight"`
	ResponseText   string  `json:"response_text"`
	MitreTechnique string  `json:"mitre_technique"`
}

type StagePerformance struct {
	Score             int     `json:"score"`
	MaxScore          int     `json:"max_score"`
	Percentage        float64 `json:"percentage"`
	AnsweredQuestions int     `json:"answered_questions"`
	TotalQuestions    int     `json:"total_questions"`
	Status            string  `json:"status"`
}

type OverallAssessment struct {
	PercentageScore  float64 `json:"percentage_score"`
	ReadinessLevel   string  `json:"readiness_level"`
	TotalScore       int     `json:"total_score"`
	MaxPossibleScore int     `json:"max_possible_score"`
}

// ScoredArea 风险/优势条目，按分数排序
type ScoredArea struct {
	Stage          Stage   `json:"stage"`
	QuestionID     string  `json:"question_id"`
	Area           string  `json:"area"`
	Score          float64 `json:"score"`
	MitreTechnique string  `json:"mitre_technique"`
	Response       string  `json:"response"`
}

type TechniqueCoverage struct {
	Name       string   `json:"name,omitempty"`
	Tactic     string   `json:"tactic,omitempty"`
	TotalScore int      `json:"total_score"`
	MaxScore   int      `json:"max_score"`
	Percentage float64  `json:"percentage"`
	Questions  []string `json:"questions"`
}

type MitreCoverage struct {
	TechniquesCovered  int                          `json:"techniques_covered"`
	TotalTechniques    int                          `json:"total_techniques"`
	CoveragePercentage float64                      `json:"coverage_percentage"`
	TechniqueDetails   map[string]TechniqueCoverage `json:"technique_details"`
}

// ScoreReport 评分引擎输出
type ScoreReport struct {
	OverallAssessment OverallAssessment                  `json:"overall_assessment"`
	StagePerformance  map[Stage]StagePerformance         `json:"stage_performance"`
	RiskAreas         []ScoredArea                       `json:"risk_areas"`
	StrengthAreas     []ScoredArea                       `json:"strength_areas"`
	PriorityRiskCount int                                `json:"priority_risk_count"`
	MitreCoverage     MitreCoverage                      `json:"mitre_coverage"`
	SummaryInsights   []string                           `json:"summary_insights"`
	DetailedBreakdown map[Stage]map[string]QuestionScore `json:"detailed_breakdown"`
}

type PriorityAction struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Timeframe   string `json:"timeframe"`
	Category    string `json:"category"`
}

type Recommendations struct {
	PriorityActions    []PriorityAction  `json:"priority_actions"`
	FrameworkAlignment map[string]string `json:"framework_alignment"`
	ExecutiveSummary   string            `json:"executive_summary"`
	Detailed           []string          `json:"detailed_recommendations"`
}
