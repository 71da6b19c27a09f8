package service

import (
	"resilience_assessment/internal/model"
	"sort"
	"sync"
)

// ResponseStore 每个 (stage, questionId) 仅保留当前作答，后写覆盖。
// 不提供删除；持久化和界面刷新由调用方负责。
type ResponseStore struct {
	mu        sync.RWMutex
	responses map[model.Stage]map[string]model.Response
}

func NewResponseStore() *ResponseStore {
	return &ResponseStore{responses: make(map[model.Stage]map[string]model.Response)}
}

func (s *ResponseStore) Record(stage model.Stage, questionID string, r model.Response) {
	r.Stage = stage
	r.QuestionID = questionID

	s.mu.Lock()
	defer s.mu.Unlock()
	byQuestion, ok := s.responses[stage]
	if !ok {
		byQuestion = make(map[string]model.Response)
		s.responses[stage] = byQuestion
	}
	byQuestion[questionID] = r
}

func (s *ResponseStore) Get(stage model.Stage, questionID string) (model.Response, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.responses[stage][questionID]
	return r, ok
}

func (s *ResponseStore) CountAnswered(stage model.Stage) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.responses[stage])
}

// Load 用已持久化的作答批量填充
func (s *ResponseStore) Load(responses []model.Response) {
	for _, r := range responses {
		s.Record(r.Stage, r.QuestionID, r)
	}
}

// Snapshot 按阶段顺序、题目 ID 排序返回当前作答副本
func (s *ResponseStore) Snapshot() []model.Response {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Response
	for _, stage := range model.Stages {
		byQuestion := s.responses[stage]
		ids := make([]string, 0, len(byQuestion))
		for id := range byQuestion {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			out = append(out, byQuestion[id])
		}
	}
	return out
}
