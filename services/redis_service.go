package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gateguard-http-service/config"
	"gateguard-http-service/models"

	"github.com/go-redis/redis/v8"
)

// RedisService handles Redis operations
type RedisService struct {
	Client *redis.Client
	Ctx    context.Context
}

// NewRedisService creates a new Redis service
func NewRedisService(cfg *config.Config) *RedisService {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: "", // No password set
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()

	return &RedisService{
		Client: client,
		Ctx:    ctx,
	}
}

// Set sets a key-value pair in Redis with expiration
func (s *RedisService) Set(key string, value interface{}, expiration time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return s.Client.Set(s.Ctx, key, jsonValue, expiration).Err()
}

// Get gets a value from Redis by key
func (s *RedisService) Get(key string, dest interface{}) error {
	val, err := s.Client.Get(s.Ctx, key).Result()
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(val), dest)
}

// Delete deletes a key from Redis
func (s *RedisService) Delete(key string) error {
	return s.Client.Del(s.Ctx, key).Err()
}

// pendingApprovalsKey 住户待处理审批列表的缓存键
func pendingApprovalsKey(tenantID, residentID uint) string {
	return fmt.Sprintf("gate:pending_approvals:%d:%d", tenantID, residentID)
}

// CachePendingApprovals 缓存住户的待处理审批列表
func (s *RedisService) CachePendingApprovals(tenantID, residentID uint, requests []models.ExitApprovalRequest, expiration time.Duration) error {
	return s.Set(pendingApprovalsKey(tenantID, residentID), requests, expiration)
}

// GetCachedPendingApprovals 读取住户待处理审批列表缓存
func (s *RedisService) GetCachedPendingApprovals(tenantID, residentID uint) ([]models.ExitApprovalRequest, error) {
	var requests []models.ExitApprovalRequest
	if err := s.Get(pendingApprovalsKey(tenantID, residentID), &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// InvalidatePendingApprovals 审批状态变化后失效缓存
func (s *RedisService) InvalidatePendingApprovals(tenantID, residentID uint) error {
	return s.Delete(pendingApprovalsKey(tenantID, residentID))
}
