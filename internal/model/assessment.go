package model

import "time"

// swagger:model AssessmentSession
type AssessmentSession struct {
	UUIDBase
	Organization string    `gorm:"size:255;not null" json:"organization"`
	Assessor     string    `gorm:"size:255;not null" json:"assessor"`
	Role         string    `gorm:"size:100" json:"role"`
	StartedAt    time.Time `json:"startedAt"`
	Progress     float64   `gorm:"default:0" json:"progress"`
	Completed    bool      `gorm:"default:false" json:"completed"`
}

func (AssessmentSession) TableName() string {
	return "assessment_sessions"
}

// AssessmentResponse 每个 (session, stage, question) 只保留一行，后写覆盖
type AssessmentResponse struct {
	BaseModel
	SessionID  string    `gorm:"uniqueIndex:idx_session_stage_question;type:varchar(36);not null" json:"sessionId"`
	Stage      Stage     `gorm:"uniqueIndex:idx_session_stage_question;size:32;not null" json:"stage"`
	QuestionID string    `gorm:"uniqueIndex:idx_session_stage_question;size:64;not null" json:"questionId"`
	Score      int       `gorm:"not null" json:"score"`
	AnswerText string    `gorm:"size:1000" json:"answerText"`
	Comments   string    `gorm:"type:text" json:"comments"`
	AnsweredAt time.Time `json:"answeredAt"`
}

func (AssessmentResponse) TableName() string {
	return "assessment_responses"
}

func (r AssessmentResponse) ToResponse() Response {
	return Response{
		Stage:      r.Stage,
		QuestionID: r.QuestionID,
		Score:      r.Score,
		AnswerText: r.AnswerText,
		Comments:   r.Comments,
		Timestamp:  r.AnsweredAt,
	}
}

// SaveResult save-response 接口返回体
type SaveResult struct {
	Success   bool    `json:"success"`
	Progress  float64 `json:"progress"`
	Completed bool    `json:"completed"`
	Error     string  `json:"error,omitempty"`
}

// SessionStatus session-status 接口返回体
type SessionStatus struct {
	SessionActive bool    `json:"session_active"`
	Organization  string  `json:"organization,omitempty"`
	Assessor      string  `json:"assessor,omitempty"`
	Progress      float64 `json:"progress,omitempty"`
	StartTime     string  `json:"start_time,omitempty"`
}

// ExportResult export 接口返回体
type ExportResult struct {
	Success bool   `json:"success"`
	Data    string `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// StartRequest 开始评估
type StartRequest struct {
	Organization string `json:"organization"`
	Assessor     string `json:"assessor"`
	Role         string `json:"role"`
}

// StartResult 开始评估返回体
type StartResult struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id,omitempty"`
	Token     string `json:"token,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ResponseData save-response 请求中的作答内容
type ResponseData struct {
	Score      *int   `json:"score"`
	AnswerText string `json:"answer_text"`
	Comments   string `json:"comments"`
	Timestamp  string `json:"timestamp"`
}

// SaveResponseRequest save-response 请求体
type SaveResponseRequest struct {
	Stage        Stage         `json:"stage"`
	QuestionID   string        `json:"question_id"`
	ResponseData *ResponseData `json:"response_data"`
}

func NewSaveResponseRequest(r Response) SaveResponseRequest {
	score := r.Score
	return SaveResponseRequest{
		Stage:      r.Stage,
		QuestionID: r.QuestionID,
		ResponseData: &ResponseData{
			Score:      &score,
			AnswerText: r.AnswerText,
			Comments:   r.Comments,
			Timestamp:  r.Timestamp.Format(time.RFC3339),
		},
	}
}
