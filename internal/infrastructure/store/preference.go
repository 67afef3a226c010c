package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/RW04/recipe-service/internal/infrastructure/config"
	"github.com/RW04/recipe-service/internal/pkg/common"

	"github.com/go-redis/redis/v8"
)

// ErrNotFound 查無偏好紀錄
var ErrNotFound = errors.New("preference not found")

// PreferenceStore 偏好儲存庫介面
// 核心以不透明文件讀寫，每次寫入完整取代舊紀錄，不做部分欄位更新
type PreferenceStore interface {
	Get(ctx context.Context, userID string) (*common.PreferenceRecord, error)
	Put(ctx context.Context, userID string, record *common.PreferenceRecord) error
	Delete(ctx context.Context, userID string) error
	Ping(ctx context.Context) error
}

// RedisStore Redis 偏好儲存庫
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 創建 Redis 偏好儲存庫
func NewRedisStore(cfg *config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// preferenceKey 生成儲存鍵
func preferenceKey(userID string) string {
	return fmt.Sprintf("preference:user:%s", userID)
}

// Get 讀取偏好紀錄
func (s *RedisStore) Get(ctx context.Context, userID string) (*common.PreferenceRecord, error) {
	data, err := s.client.Get(ctx, preferenceKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get preference: %w", err)
	}

	var record common.PreferenceRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preference: %w", err)
	}
	return &record, nil
}

// Put 寫入偏好紀錄（完整取代）
func (s *RedisStore) Put(ctx context.Context, userID string, record *common.PreferenceRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal preference: %w", err)
	}

	if err := s.client.Set(ctx, preferenceKey(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set preference: %w", err)
	}
	return nil
}

// Delete 刪除偏好紀錄
func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	deleted, err := s.client.Del(ctx, preferenceKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete preference: %w", err)
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping 檢查儲存庫連接
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close 關閉儲存庫連接
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// MemoryStore 程序內偏好儲存庫，供測試與無 Redis 的開發環境使用
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*common.PreferenceRecord
}

// NewMemoryStore 創建程序內偏好儲存庫
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*common.PreferenceRecord),
	}
}

// Get 讀取偏好紀錄
func (s *MemoryStore) Get(ctx context.Context, userID string) (*common.PreferenceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[userID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *record
	return &copied, nil
}

// Put 寫入偏好紀錄（完整取代）
func (s *MemoryStore) Put(ctx context.Context, userID string, record *common.PreferenceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *record
	s.records[userID] = &copied
	return nil
}

// Delete 刪除偏好紀錄
func (s *MemoryStore) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[userID]; !ok {
		return ErrNotFound
	}
	delete(s.records, userID)
	return nil
}

// Ping 檢查儲存庫連接
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}
