package service

import (
	"context"
	"errors"
	"fmt"
	"resilience_assessment/internal/config"
	"resilience_assessment/internal/model"
	"resilience_assessment/internal/questionnaire"
	"resilience_assessment/internal/util"
	"resilience_assessment/pkg/logger"
	"resilience_assessment/pkg/monitoring"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

// SessionRepository 会话与作答的持久化
type SessionRepository interface {
	CreateSession(ctx context.Context, s *model.AssessmentSession) error
	FindSession(ctx context.Context, id string) (*model.AssessmentSession, error)
	UpdateProgress(ctx context.Context, id string, progress float64, completed bool) error
	UpsertResponse(ctx context.Context, resp *model.AssessmentResponse) error
	ListResponses(ctx context.Context, sessionID string) ([]model.AssessmentResponse, error)
}

// StatusCache session-status 缓存，未命中返回 (nil, nil)
type StatusCache interface {
	GetStatus(ctx context.Context, sessionID string) (*model.SessionStatus, error)
	SetStatus(ctx context.Context, sessionID string, status *model.SessionStatus) error
	Invalidate(ctx context.Context, sessionID string) error
}

// ReportArchiver 归档生成的 PDF 报告
type ReportArchiver interface {
	ArchiveReport(ctx context.Context, sessionID, ext, contentType string, data []byte) (string, error)
}

type SessionService struct {
	Repo      SessionRepository
	Cache     StatusCache
	Def       *questionnaire.Definition
	Scoring   *ScoringService
	Recommend *RecommendationService
	Exporter  *ExportService
	Assembler *ReportAssembler
	Renderer  *RenderService
	Archiver  ReportArchiver
	Config    *config.Config
	now       func() time.Time
}

func NewSessionService(repo SessionRepository, cache StatusCache, def *questionnaire.Definition, archiver ReportArchiver, cfg *config.Config) *SessionService {
	return &SessionService{
		Repo:      repo,
		Cache:     cache,
		Def:       def,
		Scoring:   NewScoringService(def),
		Recommend: NewRecommendationService(),
		Exporter:  NewExportService(),
		Assembler: NewReportAssembler(),
		Renderer:  NewRenderService(),
		Archiver:  archiver,
		Config:    cfg,
		now:       time.Now,
	}
}

// Start 创建会话并签发会话令牌
func (s *SessionService) Start(ctx context.Context, req model.StartRequest) (*model.AssessmentSession, string, error) {
	org := strings.TrimSpace(req.Organization)
	assessor := strings.TrimSpace(req.Assessor)
	role := strings.TrimSpace(req.Role)
	if org == "" || assessor == "" || role == "" {
		return nil, "", util.ErrMissingFields
	}

	session := &model.AssessmentSession{
		Organization: org,
		Assessor:     assessor,
		Role:         role,
		StartedAt:    s.now(),
	}
	if err := s.Repo.CreateSession(ctx, session); err != nil {
		return nil, "", fmt.Errorf("create session: %w", err)
	}

	token, err := util.GenerateSessionToken(session.ID, s.Config.JWT.Secret, s.Config.JWT.ExpireTime)
	if err != nil {
		return nil, "", fmt.Errorf("sign session token: %w", err)
	}

	logger.Log.Info("assessment session started",
		zap.String("session", session.ID),
		zap.String("organization", org))
	return session, token, nil
}

func (s *SessionService) validate(req model.SaveResponseRequest) error {
	if req.Stage == "" || strings.TrimSpace(req.QuestionID) == "" || req.ResponseData == nil || req.ResponseData.Score == nil {
		return util.ErrMissingData
	}
	if !req.Stage.Valid() {
		return fmt.Errorf("%w: %s", util.ErrInvalidStage, req.Stage)
	}
	if _, ok := s.Def.Question(req.Stage, req.QuestionID); !ok {
		return fmt.Errorf("%w: %s", util.ErrInvalidQuestion, req.QuestionID)
	}
	if score := *req.ResponseData.Score; score < 0 || score > questionnaire.MaxOptionValue {
		return fmt.Errorf("%w: %d", util.ErrScoreOutOfRange, score)
	}
	if utf8.RuneCountInString(req.ResponseData.AnswerText) > util.MaxTextLength ||
		utf8.RuneCountInString(req.ResponseData.Comments) > util.MaxTextLength {
		return util.ErrTextTooLong
	}
	return nil
}

// SaveResponse 写入作答（后写覆盖）并重新计算会话进度
func (s *SessionService) SaveResponse(ctx context.Context, sessionID string, req model.SaveResponseRequest) (*model.SaveResult, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	if _, err := s.Repo.FindSession(ctx, sessionID); err != nil {
		return nil, err
	}

	answeredAt := s.now()
	if ts := req.ResponseData.Timestamp; ts != "" {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			answeredAt = t
		}
	}

	row := &model.AssessmentResponse{
		SessionID:  sessionID,
		Stage:      req.Stage,
		QuestionID: req.QuestionID,
		Score:      *req.ResponseData.Score,
		AnswerText: strings.TrimSpace(req.ResponseData.AnswerText),
		Comments:   strings.TrimSpace(req.ResponseData.Comments),
		AnsweredAt: answeredAt,
	}
	if err := s.Repo.UpsertResponse(ctx, row); err != nil {
		return nil, fmt.Errorf("save response: %w", err)
	}
	monitoring.ResponsesSaved.WithLabelValues(req.Stage.String()).Inc()

	store, err := s.loadStore(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	progress := NewProgressAggregator(store, s.Def).ComputeOverallProgress()
	completed := progress >= 100

	if err := s.Repo.UpdateProgress(ctx, sessionID, progress, completed); err != nil {
		return nil, fmt.Errorf("update progress: %w", err)
	}
	if err := s.Cache.Invalidate(ctx, sessionID); err != nil {
		logger.Log.Warn("failed to invalidate session status cache", zap.String("session", sessionID), zap.Error(err))
	}

	return &model.SaveResult{
		Success:   true,
		Progress:  progress,
		Completed: completed,
	}, nil
}

func (s *SessionService) loadStore(ctx context.Context, sessionID string) (*ResponseStore, error) {
	rows, err := s.Repo.ListResponses(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	responses := make([]model.Response, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, row.ToResponse())
	}
	store := NewResponseStore()
	store.Load(responses)
	return store, nil
}

// Status 无会话时返回 session_active=false
func (s *SessionService) Status(ctx context.Context, sessionID string) (*model.SessionStatus, error) {
	if sessionID == "" {
		return &model.SessionStatus{SessionActive: false}, nil
	}

	if cached, err := s.Cache.GetStatus(ctx, sessionID); err != nil {
		logger.Log.Warn("session status cache read failed", zap.String("session", sessionID), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	session, err := s.Repo.FindSession(ctx, sessionID)
	if errors.Is(err, util.ErrSessionNotFound) {
		return &model.SessionStatus{SessionActive: false}, nil
	}
	if err != nil {
		return nil, err
	}

	status := &model.SessionStatus{
		SessionActive: true,
		Organization:  session.Organization,
		Assessor:      session.Assessor,
		Progress:      session.Progress,
		StartTime:     session.StartedAt.Format(time.RFC3339),
	}
	if err := s.Cache.SetStatus(ctx, sessionID, status); err != nil {
		logger.Log.Warn("session status cache write failed", zap.String("session", sessionID), zap.Error(err))
	}
	return status, nil
}

// Responses 会话已保存的作答，客户端续答时用来恢复本地状态
func (s *SessionService) Responses(ctx context.Context, sessionID string) ([]model.Response, error) {
	if _, err := s.Repo.FindSession(ctx, sessionID); err != nil {
		return nil, err
	}
	store, err := s.loadStore(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	responses := store.Snapshot()
	if responses == nil {
		responses = []model.Response{}
	}
	return responses, nil
}

type sessionResults struct {
	session   *model.AssessmentSession
	responses []model.Response
	scores    *model.ScoreReport
	recs      *model.Recommendations
}

// collect 未作答时 scores 为 nil
func (s *SessionService) collect(ctx context.Context, sessionID string) (*sessionResults, error) {
	session, err := s.Repo.FindSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	store, err := s.loadStore(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	out := &sessionResults{session: session, responses: store.Snapshot()}
	scores, err := s.Scoring.Calculate(out.responses)
	if errors.Is(err, util.ErrNoResponses) {
		return out, nil
	}
	if err != nil {
		return nil, err
	}
	out.scores = scores
	out.recs = s.Recommend.Generate(scores)
	return out, nil
}

func (s *SessionService) Results(ctx context.Context, sessionID string) (*model.ResultsPayload, error) {
	res, err := s.collect(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if res.scores == nil {
		return nil, util.ErrNoResponses
	}
	return &model.ResultsPayload{
		Scores:          res.scores,
		Recommendations: res.recs,
		Summary:         BuildSummary(res.session, res.scores, s.Def),
	}, nil
}

// Export 返回 json/csv/txt 文本
func (s *SessionService) Export(ctx context.Context, sessionID, format string) (string, error) {
	format = strings.ToLower(format)
	res, err := s.collect(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if res.scores == nil {
		return "", util.ErrNoResponses
	}

	data, err := s.Exporter.Export(format, ExportData{
		Session:         res.session,
		Responses:       res.responses,
		Scores:          res.scores,
		Recommendations: res.recs,
		GeneratedAt:     s.now(),
	})
	if err != nil {
		return "", err
	}
	monitoring.ExportsTotal.WithLabelValues(format).Inc()
	return data, nil
}

// Report 每次调用都重新组装报告模型
func (s *SessionService) Report(ctx context.Context, sessionID string) (model.ReportModel, error) {
	res, err := s.collect(ctx, sessionID)
	if err != nil {
		return model.ReportModel{}, err
	}
	return s.Assembler.Assemble(BuildSummary(res.session, res.scores, s.Def)), nil
}

// ReportPDF 渲染 PDF，开启归档时同时上传存储
func (s *SessionService) ReportPDF(ctx context.Context, sessionID string) ([]byte, error) {
	report, err := s.Report(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	data, err := s.Renderer.RenderPDFBytes(report)
	if err != nil {
		return nil, err
	}
	monitoring.ExportsTotal.WithLabelValues(util.FormatPDF).Inc()

	if s.Archiver != nil && s.Config.ArchiveReports() {
		url, err := s.Archiver.ArchiveReport(ctx, sessionID, util.FormatPDF, util.MimePDF, data)
		if err != nil {
			logger.Log.Error("failed to archive report", zap.String("session", sessionID), zap.Error(err))
		} else {
			logger.Log.Info("report archived", zap.String("session", sessionID), zap.String("url", url))
		}
	}
	return data, nil
}

func (s *SessionService) ReportPrint(ctx context.Context, sessionID string) (string, error) {
	report, err := s.Report(ctx, sessionID)
	if err != nil {
		return "", err
	}
	monitoring.ExportsTotal.WithLabelValues("print").Inc()
	return s.Renderer.RenderPrint(report), nil
}
