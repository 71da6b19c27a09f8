package service

import (
	"resilience_assessment/internal/model"
	"resilience_assessment/internal/util"
)

// QuestionTotals 每阶段题目总数，来自问卷定义
type QuestionTotals interface {
	TotalQuestions(stage model.Stage) int
}

// AnsweredCounter ResponseStore 满足此接口
type AnsweredCounter interface {
	CountAnswered(stage model.Stage) int
}

// ProgressAggregator 纯函数式地从作答数计算进度，聚合时不取整
type ProgressAggregator struct {
	answered AnsweredCounter
	totals   QuestionTotals
}

func NewProgressAggregator(answered AnsweredCounter, totals QuestionTotals) *ProgressAggregator {
	return &ProgressAggregator{answered: answered, totals: totals}
}

func (p *ProgressAggregator) counts(stage model.Stage) (int, int) {
	total := p.totals.TotalQuestions(stage)
	answered := p.answered.CountAnswered(stage)
	if answered > total {
		answered = total
	}
	return answered, total
}

func (p *ProgressAggregator) ComputeStageProgress(stage model.Stage) model.StageProgress {
	answered, total := p.counts(stage)
	sp := model.StageProgress{Stage: stage, Answered: answered, Total: total}
	if total > 0 {
		sp.Percentage = float64(answered) / float64(total) * 100
	}
	return sp
}

// ComputeOverallProgress 按题目数加权：Σanswered / Σtotal
func (p *ProgressAggregator) ComputeOverallProgress() float64 {
	var answered, total int
	for _, stage := range model.Stages {
		a, t := p.counts(stage)
		answered += a
		total += t
	}
	if total == 0 {
		return 0
	}
	return float64(answered) / float64(total) * 100
}

func (p *ProgressAggregator) AllStages() []model.StageProgress {
	out := make([]model.StageProgress, 0, len(model.Stages))
	for _, stage := range model.Stages {
		out = append(out, p.ComputeStageProgress(stage))
	}
	return out
}

// FormatProgress 一位小数的展示文本
func FormatProgress(percentage float64) string {
	return util.FormatPercent(percentage)
}
