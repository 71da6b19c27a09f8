package service

import (
	"context"
	"errors"
	"math"
	"resilience_assessment/internal/config"
	"resilience_assessment/internal/model"
	"resilience_assessment/internal/questionnaire"
	"resilience_assessment/internal/util"
	"strings"
	"testing"
	"time"
)

type fakeRepo struct {
	sessions  map[string]*model.AssessmentSession
	responses map[string]map[model.ResponseKey]model.AssessmentResponse
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		sessions:  make(map[string]*model.AssessmentSession),
		responses: make(map[string]map[model.ResponseKey]model.AssessmentResponse),
	}
}

func (r *fakeRepo) CreateSession(ctx context.Context, s *model.AssessmentSession) error {
	if s.ID == "" {
		s.ID = model.GenerateUUID()
	}
	copied := *s
	r.sessions[s.ID] = &copied
	return nil
}

func (r *fakeRepo) FindSession(ctx context.Context, id string) (*model.AssessmentSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, util.ErrSessionNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeRepo) UpdateProgress(ctx context.Context, id string, progress float64, completed bool) error {
	s, ok := r.sessions[id]
	if !ok {
		return util.ErrSessionNotFound
	}
	s.Progress = progress
	s.Completed = completed
	return nil
}

func (r *fakeRepo) UpsertResponse(ctx context.Context, resp *model.AssessmentResponse) error {
	rows, ok := r.responses[resp.SessionID]
	if !ok {
		rows = make(map[model.ResponseKey]model.AssessmentResponse)
		r.responses[resp.SessionID] = rows
	}
	rows[model.ResponseKey{Stage: resp.Stage, QuestionID: resp.QuestionID}] = *resp
	return nil
}

func (r *fakeRepo) ListResponses(ctx context.Context, sessionID string) ([]model.AssessmentResponse, error) {
	var out []model.AssessmentResponse
	for _, row := range r.responses[sessionID] {
		out = append(out, row)
	}
	return out, nil
}

type fakeCache struct {
	statuses    map[string]*model.SessionStatus
	invalidated []string
}

func (c *fakeCache) GetStatus(ctx context.Context, id string) (*model.SessionStatus, error) {
	return c.statuses[id], nil
}

func (c *fakeCache) SetStatus(ctx context.Context, id string, s *model.SessionStatus) error {
	c.statuses[id] = s
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context, id string) error {
	delete(c.statuses, id)
	c.invalidated = append(c.invalidated, id)
	return nil
}

type fakeArchiver struct {
	archived map[string][]byte
}

func (a *fakeArchiver) ArchiveReport(ctx context.Context, sessionID, ext, contentType string, data []byte) (string, error) {
	a.archived[sessionID+"."+ext] = data
	return "/uploads/reports/" + sessionID, nil
}

func newTestSessionService() (*SessionService, *fakeRepo, *fakeCache, *fakeArchiver) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-with-enough-length-000"
	cfg.JWT.ExpireTime = time.Hour
	cfg.Storage.ArchiveReport = true

	repo := newFakeRepo()
	cache := &fakeCache{statuses: make(map[string]*model.SessionStatus)}
	archiver := &fakeArchiver{archived: make(map[string][]byte)}
	svc := NewSessionService(repo, cache, questionnaire.Default(), archiver, cfg)
	return svc, repo, cache, archiver
}

func saveReq(stage model.Stage, id string, score int) model.SaveResponseRequest {
	return model.NewSaveResponseRequest(model.Response{
		Stage: stage, QuestionID: id, Score: score, AnswerText: "answer", Timestamp: time.Now(),
	})
}

func TestSessionStartValidatesFields(t *testing.T) {
	svc, _, _, _ := newTestSessionService()
	ctx := context.Background()

	if _, _, err := svc.Start(ctx, model.StartRequest{Organization: "Acme", Assessor: " "}); !errors.Is(err, util.ErrMissingFields) {
		t.Fatalf("expected missing fields, got %v", err)
	}

	session, token, err := svc.Start(ctx, model.StartRequest{Organization: " Acme ", Assessor: "Jo", Role: "CISO"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if session.Organization != "Acme" {
		t.Fatalf("expected trimmed organization, got %q", session.Organization)
	}
	claims, err := util.ParseSessionToken(token, svc.Config.JWT.Secret)
	if err != nil || claims.SessionID != session.ID {
		t.Fatalf("token does not identify session: %v %+v", err, claims)
	}
}

func TestSessionSaveResponseValidation(t *testing.T) {
	svc, _, _, _ := newTestSessionService()
	ctx := context.Background()
	session, _, _ := svc.Start(ctx, model.StartRequest{Organization: "Acme", Assessor: "Jo", Role: "CISO"})

	long := saveReq(model.StagePreInfection, "backup_strategy", 2)
	long.ResponseData.Comments = strings.Repeat("x", util.MaxTextLength+1)

	cases := []struct {
		name string
		req  model.SaveResponseRequest
		want error
	}{
		{"missing data", model.SaveResponseRequest{Stage: model.StagePreInfection, QuestionID: "backup_strategy"}, util.ErrMissingData},
		{"bad stage", saveReq("mid_infection", "backup_strategy", 2), util.ErrInvalidStage},
		{"unknown question", saveReq(model.StagePreInfection, "firewall", 2), util.ErrInvalidQuestion},
		{"question from other stage", saveReq(model.StagePostInfection, "backup_strategy", 2), util.ErrInvalidQuestion},
		{"score too high", saveReq(model.StagePreInfection, "backup_strategy", 5), util.ErrScoreOutOfRange},
		{"negative score", saveReq(model.StagePreInfection, "backup_strategy", -1), util.ErrScoreOutOfRange},
		{"text too long", long, util.ErrTextTooLong},
	}
	for _, tc := range cases {
		if _, err := svc.SaveResponse(ctx, session.ID, tc.req); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	if _, err := svc.SaveResponse(ctx, "missing", saveReq(model.StagePreInfection, "backup_strategy", 2)); !errors.Is(err, util.ErrSessionNotFound) {
		t.Fatalf("expected session not found, got %v", err)
	}
}

func TestSessionSaveResponseProgressAndCompletion(t *testing.T) {
	svc, repo, cache, _ := newTestSessionService()
	ctx := context.Background()
	session, _, _ := svc.Start(ctx, model.StartRequest{Organization: "Acme", Assessor: "Jo", Role: "CISO"})

	res, err := svc.SaveResponse(ctx, session.ID, saveReq(model.StagePreInfection, "backup_strategy", 2))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !res.Success || res.Completed || math.Abs(res.Progress-100.0/15.0) > 1e-9 {
		t.Fatalf("unexpected result %+v", res)
	}

	// 同一题再次保存覆盖，不增加进度
	res, err = svc.SaveResponse(ctx, session.ID, saveReq(model.StagePreInfection, "backup_strategy", 4))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if math.Abs(res.Progress-100.0/15.0) > 1e-9 {
		t.Fatalf("overwrite must not change progress, got %v", res.Progress)
	}
	if n := len(repo.responses[session.ID]); n != 1 {
		t.Fatalf("expected one stored row, got %d", n)
	}

	for _, sec := range svc.Def.Sections {
		for _, q := range sec.Questions {
			res, err = svc.SaveResponse(ctx, session.ID, saveReq(sec.Stage, q.ID, 3))
			if err != nil {
				t.Fatalf("save %s: %v", q.ID, err)
			}
		}
	}
	if !res.Completed || res.Progress != 100 {
		t.Fatalf("expected completed session, got %+v", res)
	}
	if !repo.sessions[session.ID].Completed {
		t.Fatalf("session row not marked completed")
	}
	if len(cache.invalidated) == 0 {
		t.Fatalf("expected status cache invalidation on save")
	}
}

func TestSessionStatusUsesCache(t *testing.T) {
	svc, repo, cache, _ := newTestSessionService()
	ctx := context.Background()

	status, err := svc.Status(ctx, "")
	if err != nil || status.SessionActive {
		t.Fatalf("expected inactive status without session, got %+v %v", status, err)
	}
	if status, _ := svc.Status(ctx, "unknown"); status.SessionActive {
		t.Fatalf("unknown session must be inactive")
	}

	session, _, _ := svc.Start(ctx, model.StartRequest{Organization: "Acme", Assessor: "Jo", Role: "CISO"})
	status, err = svc.Status(ctx, session.ID)
	if err != nil || !status.SessionActive || status.Organization != "Acme" {
		t.Fatalf("unexpected status %+v %v", status, err)
	}
	if cache.statuses[session.ID] == nil {
		t.Fatalf("status should be cached")
	}

	// 命中缓存时不查库
	delete(repo.sessions, session.ID)
	if status, _ := svc.Status(ctx, session.ID); !status.SessionActive {
		t.Fatalf("expected cached status")
	}
}

func TestSessionResultsAndExport(t *testing.T) {
	svc, _, _, archiver := newTestSessionService()
	ctx := context.Background()
	session, _, _ := svc.Start(ctx, model.StartRequest{Organization: "Acme", Assessor: "Jo", Role: "CISO"})

	if _, err := svc.Results(ctx, session.ID); !errors.Is(err, util.ErrNoResponses) {
		t.Fatalf("expected no responses error, got %v", err)
	}
	for _, format := range []string{"json", "csv", "txt"} {
		if _, err := svc.Export(ctx, session.ID, format); !errors.Is(err, util.ErrNoResponses) {
			t.Fatalf("export %s without answers: expected no responses error, got %v", format, err)
		}
	}

	if _, err := svc.SaveResponse(ctx, session.ID, saveReq(model.StagePreInfection, "patch_management", 0)); err != nil {
		t.Fatalf("save: %v", err)
	}

	results, err := svc.Results(ctx, session.ID)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if results.Summary.Organization != "Acme" || len(results.Summary.RiskAreas) != 1 {
		t.Fatalf("unexpected summary %+v", results.Summary)
	}
	if results.Recommendations.PriorityActions[0].Title != "Formalize Patch Management" {
		t.Fatalf("unexpected recommendations %+v", results.Recommendations.PriorityActions)
	}

	for _, format := range []string{"json", "csv", "txt"} {
		data, err := svc.Export(ctx, session.ID, format)
		if err != nil || data == "" {
			t.Fatalf("export %s: %v", format, err)
		}
	}
	if _, err := svc.Export(ctx, session.ID, "docx"); !errors.Is(err, util.ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format, got %v", err)
	}

	pdf, err := svc.ReportPDF(ctx, session.ID)
	if err != nil || len(pdf) == 0 {
		t.Fatalf("pdf: %v", err)
	}
	if _, ok := archiver.archived[session.ID+".pdf"]; !ok {
		t.Fatalf("expected pdf to be archived")
	}

	text, err := svc.ReportPrint(ctx, session.ID)
	if err != nil || !strings.Contains(text, "Patch Management") {
		t.Fatalf("unexpected print layout: %v\n%s", err, text)
	}
}

func TestSessionReportWithoutAnswersUsesDefaults(t *testing.T) {
	svc, _, _, _ := newTestSessionService()
	ctx := context.Background()
	session, _, _ := svc.Start(ctx, model.StartRequest{Organization: "Acme", Assessor: "Jo", Role: "CISO"})

	report, err := svc.Report(ctx, session.ID)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.OverallScore != DefaultOverallScore || report.ReadinessLevel != DefaultReadinessLevel {
		t.Fatalf("expected placeholders, got %+v", report)
	}
	if report.Organization != "Acme" {
		t.Fatalf("expected organization from session, got %q", report.Organization)
	}
}

func TestSessionResponsesForResume(t *testing.T) {
	svc, _, _, _ := newTestSessionService()
	ctx := context.Background()
	session, _, _ := svc.Start(ctx, model.StartRequest{Organization: "Acme", Assessor: "Jo", Role: "CISO"})

	responses, err := svc.Responses(ctx, session.ID)
	if err != nil || responses == nil || len(responses) != 0 {
		t.Fatalf("expected empty non-nil list, got %v %v", responses, err)
	}

	svc.SaveResponse(ctx, session.ID, saveReq(model.StagePostInfection, "lessons_learned", 2))
	svc.SaveResponse(ctx, session.ID, saveReq(model.StagePreInfection, "backup_strategy", 1))
	svc.SaveResponse(ctx, session.ID, saveReq(model.StagePreInfection, "backup_strategy", 3))

	responses, err = svc.Responses(ctx, session.ID)
	if err != nil {
		t.Fatalf("responses: %v", err)
	}
	if len(responses) != 2 {
		t.Fatalf("expected 2 current responses, got %d", len(responses))
	}
	if responses[0].QuestionID != "backup_strategy" || responses[0].Score != 3 {
		t.Fatalf("expected latest pre-infection answer first, got %+v", responses[0])
	}

	if _, err := svc.Responses(ctx, "missing"); !errors.Is(err, util.ErrSessionNotFound) {
		t.Fatalf("expected session not found, got %v", err)
	}
}
