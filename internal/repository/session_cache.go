package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"resilience_assessment/internal/model"
	"time"

	"github.com/go-redis/redis/v8"
)

const sessionStatusTTL = 10 * time.Minute

// SessionCache 缓存 session-status 结果，保存作答时失效
type SessionCache struct {
	Redis *redis.Client
}

func NewSessionCache(rdb *redis.Client) *SessionCache {
	return &SessionCache{Redis: rdb}
}

func statusKey(sessionID string) string {
	return fmt.Sprintf("assessment:status:%s", sessionID)
}

// GetStatus 未命中返回 (nil, nil)
func (c *SessionCache) GetStatus(ctx context.Context, sessionID string) (*model.SessionStatus, error) {
	if c.Redis == nil {
		return nil, nil
	}
	raw, err := c.Redis.Get(ctx, statusKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var status model.SessionStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *SessionCache) SetStatus(ctx context.Context, sessionID string, status *model.SessionStatus) error {
	if c.Redis == nil {
		return nil
	}
	raw, err := json.Marshal(status)
	if err != nil {
		return err
	}
	return c.Redis.Set(ctx, statusKey(sessionID), raw, sessionStatusTTL).Err()
}

func (c *SessionCache) Invalidate(ctx context.Context, sessionID string) error {
	if c.Redis == nil {
		return nil
	}
	return c.Redis.Del(ctx, statusKey(sessionID)).Err()
}
