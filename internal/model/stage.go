package model

import "time"

// Stage 问卷阶段
type Stage string

const (
	StagePreInfection    Stage = "pre_infection"
	StageActiveInfection Stage = "active_infection"
	StagePostInfection   Stage = "post_infection"
)

// Stages 固定的阶段顺序
var Stages = []Stage{StagePreInfection, StageActiveInfection, StagePostInfection}

func (s Stage) Valid() bool {
	switch s {
	case StagePreInfection, StageActiveInfection, StagePostInfection:
		return true
	}
	return false
}

func (s Stage) String() string {
	return string(s)
}

// Response 某阶段某题的一次作答
type Response struct {
	Stage      Stage     `json:"stage"`
	QuestionID string    `json:"question_id"`
	Score      int       `json:"score"`
	AnswerText string    `json:"answer_text"`
	Comments   string    `json:"comments,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// ResponseKey (stage, questionId) 唯一标识一道题
type ResponseKey struct {
	Stage      Stage
	QuestionID string
}

func (r Response) Key() ResponseKey {
	return ResponseKey{Stage: r.Stage, QuestionID: r.QuestionID}
}

// StageProgress 派生值，不持久化
type StageProgress struct {
	Stage      Stage   `json:"stage"`
	Answered   int     `json:"answered"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}
