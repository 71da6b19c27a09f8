package service

import (
	"context"
	"errors"
	"fmt"
	"resilience_assessment/internal/model"
	"resilience_assessment/internal/util"
	"resilience_assessment/pkg/logger"
	"resilience_assessment/pkg/monitoring"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const DefaultDebounce = time.Second

const (
	MsgResponseSaved       = "Response saved successfully"
	MsgAssessmentCompleted = "Assessment completed! You can now view your results."
	msgSaveFailedPrefix    = "Error saving response: "
)

// ResponsePersister 持久化协作方：返回 success=false 与返回 error 同样视为失败
type ResponsePersister interface {
	SaveResponse(ctx context.Context, r model.Response) (*model.SaveResult, error)
}

// Notifier 面向用户的提示（toast）
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// CompletionMarker 只在保存成功后把题目标记为已完成
type CompletionMarker interface {
	MarkCompleted(stage model.Stage, questionID string)
}

// ProgressUpdate 保存成功后推送给展示层
type ProgressUpdate struct {
	Overall   float64
	Stages    []model.StageProgress
	Reported  float64
	Completed bool
}

type AutoSaveOptions struct {
	Debounce   time.Duration
	Marker     CompletionMarker
	OnProgress func(ProgressUpdate)
}

type pendingSave struct {
	timer    *time.Timer
	response model.Response
	seq      uint64
}

// AutoSaveCoordinator 对同一 (stage, questionId) 的连续修改做防抖，静默期后只派发一次。
// 不重试；请求不取消，结果按完成先后生效。
type AutoSaveCoordinator struct {
	persister ResponsePersister
	store     *ResponseStore
	progress  *ProgressAggregator
	notifier  Notifier
	opts      AutoSaveOptions

	mu       sync.Mutex
	debounce time.Duration
	pending  map[model.ResponseKey]*pendingSave
	seq      uint64
	inflight sync.WaitGroup
	now      func() time.Time
}

func NewAutoSaveCoordinator(persister ResponsePersister, store *ResponseStore, progress *ProgressAggregator, notifier Notifier, opts AutoSaveOptions) *AutoSaveCoordinator {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	return &AutoSaveCoordinator{
		persister: persister,
		store:     store,
		progress:  progress,
		notifier:  notifier,
		opts:      opts,
		debounce:  opts.Debounce,
		pending:   make(map[model.ResponseKey]*pendingSave),
		now:       time.Now,
	}
}

// SetDebounce 配置热更新时调用，只影响之后的调度
func (c *AutoSaveCoordinator) SetDebounce(d time.Duration) {
	if d <= 0 {
		d = DefaultDebounce
	}
	c.mu.Lock()
	c.debounce = d
	c.mu.Unlock()
}

// current 返回待派发或已保存的作答；待派发优先
func (c *AutoSaveCoordinator) current(key model.ResponseKey) (model.Response, bool) {
	if p, ok := c.pending[key]; ok {
		return p.response, true
	}
	return c.store.Get(key.Stage, key.QuestionID)
}

func (c *AutoSaveCoordinator) OnAnswerChanged(stage model.Stage, questionID string, score int, answerText string) {
	key := model.ResponseKey{Stage: stage, QuestionID: questionID}

	c.mu.Lock()
	defer c.mu.Unlock()

	r := model.Response{
		Stage:      stage,
		QuestionID: questionID,
		Score:      score,
		AnswerText: strings.TrimSpace(answerText),
		Timestamp:  c.now(),
	}
	if prev, ok := c.current(key); ok {
		r.Comments = prev.Comments
	}
	c.scheduleLocked(key, r)
}

// OnCommentsChanged 没有选定分数的题目不保存备注，返回是否已调度
func (c *AutoSaveCoordinator) OnCommentsChanged(stage model.Stage, questionID string, comments string) bool {
	comments = strings.TrimSpace(comments)
	if comments == "" {
		return false
	}
	key := model.ResponseKey{Stage: stage, QuestionID: questionID}

	c.mu.Lock()
	defer c.mu.Unlock()

	prev, ok := c.current(key)
	if !ok {
		logger.Log.Debug("comment ignored, question has no answer",
			zap.String("stage", stage.String()), zap.String("question", questionID))
		return false
	}

	prev.Comments = comments
	prev.Timestamp = c.now()
	c.scheduleLocked(key, prev)
	return true
}

func (c *AutoSaveCoordinator) scheduleLocked(key model.ResponseKey, r model.Response) {
	if p, ok := c.pending[key]; ok {
		p.timer.Stop()
	}
	c.seq++
	seq := c.seq
	p := &pendingSave{response: r, seq: seq}
	p.timer = time.AfterFunc(c.debounce, func() { c.fire(key, seq) })
	c.pending[key] = p
}

// Pending 当前等待派发的题目数
func (c *AutoSaveCoordinator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

func (c *AutoSaveCoordinator) fire(key model.ResponseKey, seq uint64) {
	c.mu.Lock()
	p, ok := c.pending[key]
	if !ok || p.seq != seq {
		// 已被新的修改替换
		c.mu.Unlock()
		return
	}
	delete(c.pending, key)
	c.inflight.Add(1)
	c.mu.Unlock()

	defer c.inflight.Done()
	c.dispatch(context.Background(), p.response)
}

func (c *AutoSaveCoordinator) dispatch(ctx context.Context, r model.Response) error {
	result, err := c.persister.SaveResponse(ctx, r)
	if err == nil && (result == nil || !result.Success) {
		msg := "Failed to save response"
		if result != nil && result.Error != "" {
			msg = result.Error
		}
		err = fmt.Errorf("%w: %s", util.ErrServerRejection, msg)
	}
	if err != nil {
		kind := "network_failure"
		if errors.Is(err, util.ErrServerRejection) {
			kind = "server_rejection"
		}
		monitoring.AutoSaveDispatches.WithLabelValues(kind).Inc()
		logger.Log.Warn("auto-save failed",
			zap.String("stage", r.Stage.String()),
			zap.String("question", r.QuestionID),
			zap.String("kind", kind),
			zap.Error(err))
		c.notifier.Error(msgSaveFailedPrefix + err.Error())
		return err
	}

	monitoring.AutoSaveDispatches.WithLabelValues("success").Inc()
	c.store.Record(r.Stage, r.QuestionID, r)

	if c.opts.OnProgress != nil {
		c.opts.OnProgress(ProgressUpdate{
			Overall:   c.progress.ComputeOverallProgress(),
			Stages:    c.progress.AllStages(),
			Reported:  result.Progress,
			Completed: result.Completed,
		})
	}
	c.notifier.Success(MsgResponseSaved)
	if c.opts.Marker != nil {
		c.opts.Marker.MarkCompleted(r.Stage, r.QuestionID)
	}
	if result.Completed {
		c.notifier.Success(MsgAssessmentCompleted)
	}
	return nil
}

// Flush 立即派发所有待保存项，按阶段/题目顺序依次执行
func (c *AutoSaveCoordinator) Flush(ctx context.Context) error {
	c.mu.Lock()
	batch := make([]model.Response, 0, len(c.pending))
	for key, p := range c.pending {
		p.timer.Stop()
		batch = append(batch, p.response)
		delete(c.pending, key)
	}
	sort.Slice(batch, func(i, j int) bool {
		if batch[i].Stage != batch[j].Stage {
			return stageIndex(batch[i].Stage) < stageIndex(batch[j].Stage)
		}
		return batch[i].QuestionID < batch[j].QuestionID
	})
	c.inflight.Add(1)
	c.mu.Unlock()
	defer c.inflight.Done()

	var errs []error
	for _, r := range batch {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := c.dispatch(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Wait 等待已发出的保存请求完成
func (c *AutoSaveCoordinator) Wait() {
	c.inflight.Wait()
}

// Close 丢弃所有未派发的修改
func (c *AutoSaveCoordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, p := range c.pending {
		p.timer.Stop()
		delete(c.pending, key)
	}
}

func stageIndex(stage model.Stage) int {
	for i, st := range model.Stages {
		if st == stage {
			return i
		}
	}
	return len(model.Stages)
}
