package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/RW04/recipe-service/internal/core/ai/cache"
	"github.com/RW04/recipe-service/internal/core/ai/provider"
	"github.com/RW04/recipe-service/internal/infrastructure/config"
	"github.com/RW04/recipe-service/internal/pkg/common"
)

// Request 完成請求
// Cacheable 僅對決定性的呼叫開啟（溫度為零的分類），創造性生成不快取
type Request struct {
	Prompt      string
	Temperature float64
	MaxTokens   int
	Cacheable   bool
}

// Response AI 回應結構
type Response struct {
	Content  string
	CacheHit bool
}

// Service AI 服務
// 速率限制屬於 HTTP 中介層與外部提供者客戶端的範疇，不在此層處理
type Service struct {
	config       *config.Config
	provider     provider.Provider
	cacheManager *cache.CacheManager
}

// NewService 創建 AI 服務
func NewService(cfg *config.Config, prov provider.Provider, cacheManager *cache.CacheManager) (*Service, error) {
	if prov == nil {
		return nil, errors.New("ai provider is required")
	}

	return &Service{
		config:       cfg,
		provider:     prov,
		cacheManager: cacheManager,
	}, nil
}

// ProcessRequest 統一對外方法
// 單次阻塞呼叫，不在此層重試
func (s *Service) ProcessRequest(ctx context.Context, req *Request) (*Response, error) {
	// 統一 prompt 格式，去除多餘空白，確保快取 key 一致
	cacheKey := canonicalizePrompt(req.Prompt)

	// 檢查緩存（用 cacheManager）
	if req.Cacheable && s.cacheManager != nil {
		if val, err := s.cacheManager.Get(ctx, "completion", cacheKey); err == nil && val != "" {
			return &Response{Content: val, CacheHit: true}, nil
		}
	}

	start := time.Now()
	resp, err := s.provider.Generate(ctx, &provider.Request{
		Messages: []provider.Message{
			{Role: "user", Content: req.Prompt},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	common.LogAICall(time.Since(start), err, s.provider.GetModel())
	if err != nil {
		return nil, err
	}

	if req.Cacheable && s.cacheManager != nil {
		_ = s.cacheManager.Set(ctx, "completion", cacheKey, resp.Content)
	}

	return &Response{Content: resp.Content}, nil
}

// canonicalizePrompt 折疊空白產生穩定的快取鍵
func canonicalizePrompt(prompt string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(prompt)), " ")
}
