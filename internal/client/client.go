package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"resilience_assessment/internal/model"
	"resilience_assessment/internal/questionnaire"
	"resilience_assessment/internal/service"
	"resilience_assessment/internal/util"
	"resilience_assessment/pkg/logger"
	"resilience_assessment/pkg/tracing"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultTimeout = 15 * time.Second

// envelope 服务端统一响应
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// rejection 服务端以 4xx 拒绝请求
type rejection struct {
	status  int
	message string
}

func (r *rejection) Error() string {
	return fmt.Sprintf("%s (status %d)", r.message, r.status)
}

func (r *rejection) Unwrap() error {
	return util.ErrServerRejection
}

// AssessmentClient 通过 HTTP 调用评估服务，自动携带会话令牌
type AssessmentClient struct {
	BaseURL string
	HTTP    *http.Client

	mu    sync.RWMutex
	token string
}

func NewAssessmentClient(baseURL string, httpClient *http.Client) *AssessmentClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &AssessmentClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    httpClient,
	}
}

func (c *AssessmentClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *AssessmentClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *AssessmentClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", util.MimeJSON)
	if body != nil {
		req.Header.Set("Content-Type", util.MimeJSON)
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	tracing.Inject(ctx, req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", util.ErrNetworkFailure, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", util.ErrNetworkFailure, path, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return &rejection{status: resp.StatusCode, message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("%w: decode %s: %v", util.ErrNetworkFailure, path, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &rejection{status: resp.StatusCode, message: msg}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%w: decode %s data: %v", util.ErrNetworkFailure, path, err)
		}
	}
	return nil
}

// Start 开始新的评估会话并保存令牌
func (c *AssessmentClient) Start(ctx context.Context, req model.StartRequest) (*model.StartResult, error) {
	var result model.StartResult
	if err := c.do(ctx, http.MethodPost, "/api/assessments/start", req, &result); err != nil {
		return nil, err
	}
	if !result.Success || result.Token == "" {
		return nil, fmt.Errorf("%w: %s", util.ErrServerRejection, result.Error)
	}
	c.SetToken(result.Token)
	logger.Log.Info("assessment session started", zap.String("session", result.SessionID))
	return &result, nil
}

// SaveResponse 服务端拒绝时返回 success=false 而不是 error
func (c *AssessmentClient) SaveResponse(ctx context.Context, r model.Response) (*model.SaveResult, error) {
	var result model.SaveResult
	err := c.do(ctx, http.MethodPost, "/api/save-response", model.NewSaveResponseRequest(r), &result)
	var rej *rejection
	if errors.As(err, &rej) {
		return &model.SaveResult{Success: false, Error: rej.message}, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *AssessmentClient) SessionStatus(ctx context.Context) (*model.SessionStatus, error) {
	var status model.SessionStatus
	if err := c.do(ctx, http.MethodGet, "/api/session-status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Responses 服务端已保存的作答
func (c *AssessmentClient) Responses(ctx context.Context) ([]model.Response, error) {
	var responses []model.Response
	if err := c.do(ctx, http.MethodGet, "/api/responses", nil, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

// RestoreResponses 续答时把已保存的作答载入本地 store，本地进度与服务端一致
func (c *AssessmentClient) RestoreResponses(ctx context.Context, store *service.ResponseStore) (int, error) {
	responses, err := c.Responses(ctx)
	if err != nil {
		return 0, err
	}
	store.Load(responses)
	logger.Log.Info("restored saved responses", zap.Int("count", len(responses)))
	return len(responses), nil
}

func (c *AssessmentClient) Questions(ctx context.Context) (*questionnaire.Definition, error) {
	var sections []questionnaire.Section
	if err := c.do(ctx, http.MethodGet, "/api/questions", nil, &sections); err != nil {
		return nil, err
	}
	return &questionnaire.Definition{Sections: sections}, nil
}

func (c *AssessmentClient) Results(ctx context.Context) (*model.ResultsPayload, error) {
	var results model.ResultsPayload
	if err := c.do(ctx, http.MethodGet, "/api/results", nil, &results); err != nil {
		return nil, err
	}
	return &results, nil
}

// Export 返回导出文本，success=false 视为服务端拒绝
func (c *AssessmentClient) Export(ctx context.Context, format string) (string, error) {
	var result model.ExportResult
	if err := c.do(ctx, http.MethodGet, "/api/export/"+format, nil, &result); err != nil {
		return "", err
	}
	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = "Export failed"
		}
		return "", fmt.Errorf("%w: %s", util.ErrServerRejection, msg)
	}
	return result.Data, nil
}
