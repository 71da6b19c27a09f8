package repository

import (
	"context"
	"errors"
	"resilience_assessment/internal/model"
	"resilience_assessment/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AssessmentRepository struct {
	DB *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{DB: db}
}

func (r *AssessmentRepository) CreateSession(ctx context.Context, s *model.AssessmentSession) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

func (r *AssessmentRepository) FindSession(ctx context.Context, id string) (*model.AssessmentSession, error) {
	var s model.AssessmentSession
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *AssessmentRepository) UpdateProgress(ctx context.Context, id string, progress float64, completed bool) error {
	return r.DB.WithContext(ctx).Model(&model.AssessmentSession{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"progress":  progress,
			"completed": completed,
		}).Error
}

// UpsertResponse 同一 (session, stage, question) 后写覆盖
func (r *AssessmentRepository) UpsertResponse(ctx context.Context, resp *model.AssessmentResponse) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}, {Name: "stage"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"score", "answer_text", "comments", "answered_at", "updated_at",
		}),
	}).Create(resp).Error
}

func (r *AssessmentRepository) ListResponses(ctx context.Context, sessionID string) ([]model.AssessmentResponse, error) {
	var rows []model.AssessmentResponse
	err := r.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("stage asc, question_id asc").
		Find(&rows).Error
	return rows, err
}

func (r *AssessmentRepository) ListSessions(ctx context.Context) ([]model.AssessmentSession, error) {
	var sessions []model.AssessmentSession
	err := r.DB.WithContext(ctx).Order("created_at asc").Find(&sessions).Error
	return sessions, err
}
