package model

// StageSummary 报告中的阶段行
type StageSummary struct {
	Name              string  `json:"name"`
	Score             float64 `json:"score"`
	QuestionsAnswered int     `json:"questions_answered"`
	TotalQuestions    int     `json:"total_questions"`
	Status            string  `json:"status"`
}

type AreaScore struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// ResultsSummary 结果页已计算好的数据，报告组装只读取不重算
type ResultsSummary struct {
	Organization   string         `json:"organization,omitempty"`
	Assessor       string         `json:"assessor,omitempty"`
	OverallScore   *float64       `json:"overall_score,omitempty"`
	ReadinessLevel string         `json:"readiness_level,omitempty"`
	Stages         []StageSummary `json:"stages"`
	RiskAreas      []AreaScore    `json:"risk_areas"`
	StrengthAreas  []AreaScore    `json:"strength_areas"`
	Insights       []string       `json:"insights"`
}

// ReportModel 每次导出/打印时重新构建，不持久化
type ReportModel struct {
	Organization   string         `json:"organization"`
	Assessor       string         `json:"assessor"`
	OverallScore   string         `json:"overallScore"`
	ReadinessLevel string         `json:"readinessLevel"`
	Stages         []StageSummary `json:"stages"`
	RiskAreas      []AreaScore    `json:"riskAreas"`
	StrengthAreas  []AreaScore    `json:"strengthAreas"`
	Insights       []string       `json:"insights"`
}

// ResultsPayload /api/results 返回体
type ResultsPayload struct {
	Scores          *ScoreReport     `json:"scores"`
	Recommendations *Recommendations `json:"recommendations"`
	Summary         ResultsSummary   `json:"summary"`
}
