package service

import (
	"context"
	"errors"
	"resilience_assessment/internal/model"
	"resilience_assessment/internal/util"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakePersister struct {
	mu     sync.Mutex
	calls  []model.Response
	result *model.SaveResult
	err    error
}

func (f *fakePersister) SaveResponse(ctx context.Context, r model.Response) (*model.SaveResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r)
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		res := *f.result
		return &res, nil
	}
	return &model.SaveResult{Success: true, Progress: 10}, nil
}

func (f *fakePersister) Calls() []model.Response {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Response, len(f.calls))
	copy(out, f.calls)
	return out
}

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
	marked    []model.ResponseKey
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

func (n *recordingNotifier) MarkCompleted(stage model.Stage, questionID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.marked = append(n.marked, model.ResponseKey{Stage: stage, QuestionID: questionID})
}

func (n *recordingNotifier) markedCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.marked)
}

func newTestCoordinator(p ResponsePersister, debounce time.Duration) (*AutoSaveCoordinator, *ResponseStore, *recordingNotifier) {
	store := NewResponseStore()
	notifier := &recordingNotifier{}
	agg := NewProgressAggregator(store, fixedTotals{
		model.StagePreInfection:    7,
		model.StageActiveInfection: 4,
		model.StagePostInfection:   4,
	})
	c := NewAutoSaveCoordinator(p, store, agg, notifier, AutoSaveOptions{
		Debounce: debounce,
		Marker:   notifier,
	})
	return c, store, notifier
}

func TestAutoSaveCoalescesRapidEdits(t *testing.T) {
	p := &fakePersister{}
	c, store, notifier := newTestCoordinator(p, time.Hour)
	defer c.Close()

	c.OnAnswerChanged(model.StagePreInfection, "backup_strategy", 1, "Monthly")
	c.OnAnswerChanged(model.StagePreInfection, "backup_strategy", 2, "Weekly")
	c.OnAnswerChanged(model.StagePreInfection, "backup_strategy", 4, "Daily")

	if n := c.Pending(); n != 1 {
		t.Fatalf("expected one pending save, got %d", n)
	}
	if err := c.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}

	calls := p.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected exactly one dispatch, got %d", len(calls))
	}
	if calls[0].Score != 4 || calls[0].AnswerText != "Daily" {
		t.Fatalf("expected latest answer to be sent, got %+v", calls[0])
	}
	got, ok := store.Get(model.StagePreInfection, "backup_strategy")
	if !ok || got.Score != 4 {
		t.Fatalf("store not updated after success: %+v", got)
	}
	if len(notifier.successes) != 1 || notifier.successes[0] != MsgResponseSaved {
		t.Fatalf("unexpected notifications: %v", notifier.successes)
	}
	if notifier.markedCount() != 1 {
		t.Fatalf("expected question marked completed")
	}
}

func TestAutoSaveFiresAfterQuietPeriod(t *testing.T) {
	p := &fakePersister{}
	c, store, notifier := newTestCoordinator(p, 10*time.Millisecond)
	defer c.Close()

	c.OnAnswerChanged(model.StageActiveInfection, "monitoring_logging", 3, "SIEM")

	deadline := time.Now().Add(2 * time.Second)
	for notifier.markedCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("debounced save never fired")
		}
		time.Sleep(5 * time.Millisecond)
	}
	c.Wait()

	if len(p.Calls()) != 1 {
		t.Fatalf("expected one dispatch, got %d", len(p.Calls()))
	}
	if _, ok := store.Get(model.StageActiveInfection, "monitoring_logging"); !ok {
		t.Fatalf("expected response in store")
	}
	if c.Pending() != 0 {
		t.Fatalf("pending table should be empty after dispatch")
	}
}

func TestAutoSaveSeparateKeysDispatchIndependently(t *testing.T) {
	p := &fakePersister{}
	c, _, _ := newTestCoordinator(p, time.Hour)
	defer c.Close()

	c.OnAnswerChanged(model.StagePostInfection, "recovery_procedures", 2, "Basic")
	c.OnAnswerChanged(model.StagePreInfection, "patch_management", 3, "Monthly")

	if err := c.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}
	calls := p.Calls()
	if len(calls) != 2 {
		t.Fatalf("expected two dispatches, got %d", len(calls))
	}
	if calls[0].Stage != model.StagePreInfection || calls[1].Stage != model.StagePostInfection {
		t.Fatalf("expected stage order, got %s then %s", calls[0].Stage, calls[1].Stage)
	}
}

func TestAutoSaveCommentsRequireScore(t *testing.T) {
	p := &fakePersister{}
	c, _, _ := newTestCoordinator(p, time.Hour)
	defer c.Close()

	if c.OnCommentsChanged(model.StagePreInfection, "user_training", "quarterly sessions") {
		t.Fatalf("comment without a score must be ignored")
	}
	if c.OnCommentsChanged(model.StagePreInfection, "user_training", "   ") {
		t.Fatalf("blank comment must be ignored")
	}
	if c.Pending() != 0 {
		t.Fatalf("nothing should be scheduled")
	}
	if err := c.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if len(p.Calls()) != 0 {
		t.Fatalf("expected no persistence calls")
	}
}

func TestAutoSaveCommentsJoinPendingAnswer(t *testing.T) {
	p := &fakePersister{}
	c, _, _ := newTestCoordinator(p, time.Hour)
	defer c.Close()

	c.OnAnswerChanged(model.StagePreInfection, "email_security", 3, "Advanced filtering")
	if !c.OnCommentsChanged(model.StagePreInfection, "email_security", "DMARC enforced") {
		t.Fatalf("comment on answered question should be scheduled")
	}
	if c.Pending() != 1 {
		t.Fatalf("answer and comment should share one pending save")
	}
	if err := c.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}

	calls := p.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected one dispatch, got %d", len(calls))
	}
	if calls[0].Score != 3 || calls[0].Comments != "DMARC enforced" {
		t.Fatalf("unexpected payload %+v", calls[0])
	}
}

func TestAutoSaveCommentsOnStoredResponse(t *testing.T) {
	p := &fakePersister{}
	c, store, _ := newTestCoordinator(p, time.Hour)
	defer c.Close()

	store.Record(model.StagePostInfection, "lessons_learned", model.Response{Score: 1, AnswerText: "Informal"})
	if !c.OnCommentsChanged(model.StagePostInfection, "lessons_learned", "no template yet") {
		t.Fatalf("comment on stored response should be scheduled")
	}
	if err := c.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}

	calls := p.Calls()
	if len(calls) != 1 || calls[0].Score != 1 || calls[0].Comments != "no template yet" {
		t.Fatalf("unexpected payload %+v", calls)
	}

	// 之后修改分数时保留已有备注
	c.OnAnswerChanged(model.StagePostInfection, "lessons_learned", 2, "Ad hoc")
	if err := c.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}
	calls = p.Calls()
	if calls[1].Comments != "no template yet" {
		t.Fatalf("expected comments carried forward, got %q", calls[1].Comments)
	}
}

func TestAutoSaveNetworkFailureLeavesStoreUnchanged(t *testing.T) {
	p := &fakePersister{err: util.ErrNetworkFailure}
	c, store, notifier := newTestCoordinator(p, time.Hour)
	defer c.Close()

	c.OnAnswerChanged(model.StagePreInfection, "backup_isolation", 4, "Air-gapped")
	err := c.Flush(context.Background())
	if !errors.Is(err, util.ErrNetworkFailure) {
		t.Fatalf("expected network failure, got %v", err)
	}

	if _, ok := store.Get(model.StagePreInfection, "backup_isolation"); ok {
		t.Fatalf("failed save must not be recorded")
	}
	if len(notifier.errors) != 1 || !strings.HasPrefix(notifier.errors[0], "Error saving response: ") {
		t.Fatalf("unexpected error notifications: %v", notifier.errors)
	}
	if notifier.markedCount() != 0 {
		t.Fatalf("failed save must not mark completion")
	}
	if len(p.Calls()) != 1 {
		t.Fatalf("failed save must not be retried")
	}
}

func TestAutoSaveServerRejection(t *testing.T) {
	p := &fakePersister{result: &model.SaveResult{Success: false, Error: "Missing required data"}}
	c, store, notifier := newTestCoordinator(p, time.Hour)
	defer c.Close()

	c.OnAnswerChanged(model.StagePreInfection, "backup_isolation", 4, "Air-gapped")
	err := c.Flush(context.Background())
	if !errors.Is(err, util.ErrServerRejection) {
		t.Fatalf("expected server rejection, got %v", err)
	}
	if _, ok := store.Get(model.StagePreInfection, "backup_isolation"); ok {
		t.Fatalf("rejected save must not be recorded")
	}
	if len(notifier.errors) != 1 || !strings.Contains(notifier.errors[0], "Missing required data") {
		t.Fatalf("expected rejection message in notification, got %v", notifier.errors)
	}
}

func TestAutoSaveAnnouncesCompletion(t *testing.T) {
	p := &fakePersister{result: &model.SaveResult{Success: true, Progress: 100, Completed: true}}
	c, _, notifier := newTestCoordinator(p, time.Hour)
	defer c.Close()

	var updates []ProgressUpdate
	c.opts.OnProgress = func(u ProgressUpdate) { updates = append(updates, u) }

	c.OnAnswerChanged(model.StagePostInfection, "lessons_learned", 4, "Formal review")
	if err := c.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}

	if len(notifier.successes) != 2 || notifier.successes[1] != MsgAssessmentCompleted {
		t.Fatalf("expected completion notice, got %v", notifier.successes)
	}
	if len(updates) != 1 || !updates[0].Completed || updates[0].Reported != 100 {
		t.Fatalf("unexpected progress updates %+v", updates)
	}
	if len(updates[0].Stages) != 3 {
		t.Fatalf("expected per-stage progress, got %+v", updates[0].Stages)
	}
}

func TestAutoSaveCloseDropsPending(t *testing.T) {
	p := &fakePersister{}
	c, _, _ := newTestCoordinator(p, 20*time.Millisecond)

	c.OnAnswerChanged(model.StagePreInfection, "patch_management", 2, "Quarterly")
	c.Close()
	time.Sleep(60 * time.Millisecond)

	if len(p.Calls()) != 0 {
		t.Fatalf("closed coordinator must not dispatch")
	}
}
