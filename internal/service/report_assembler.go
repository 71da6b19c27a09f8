package service

import (
	"resilience_assessment/internal/model"
	"resilience_assessment/internal/util"
	"strings"
)

const (
	MaxReportAreas = 5

	DefaultOrganization   = "Organization"
	DefaultAssessor       = "Assessor"
	DefaultOverallScore   = "0%"
	DefaultReadinessLevel = "Unknown"
)

// ReportAssembler 从已计算好的结果中抽取报告模型，不计算分数也不排序
type ReportAssembler struct{}

func NewReportAssembler() *ReportAssembler {
	return &ReportAssembler{}
}

func orDefault(v, def string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return def
}

func capAreas(areas []model.AreaScore) []model.AreaScore {
	if len(areas) > MaxReportAreas {
		areas = areas[:MaxReportAreas]
	}
	out := make([]model.AreaScore, len(areas))
	copy(out, areas)
	return out
}

// Assemble 缺失字段用占位值替代，从不返回错误
func (a *ReportAssembler) Assemble(view model.ResultsSummary) model.ReportModel {
	overall := DefaultOverallScore
	if view.OverallScore != nil {
		overall = util.FormatPercent(*view.OverallScore)
	}

	stages := make([]model.StageSummary, len(view.Stages))
	copy(stages, view.Stages)
	insights := make([]string, len(view.Insights))
	copy(insights, view.Insights)

	return model.ReportModel{
		Organization:   orDefault(view.Organization, DefaultOrganization),
		Assessor:       orDefault(view.Assessor, DefaultAssessor),
		OverallScore:   overall,
		ReadinessLevel: orDefault(view.ReadinessLevel, DefaultReadinessLevel),
		Stages:         stages,
		RiskAreas:      capAreas(view.RiskAreas),
		StrengthAreas:  capAreas(view.StrengthAreas),
		Insights:       insights,
	}
}
