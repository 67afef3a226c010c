package ingredient

import (
	"context"
	"fmt"
	"strings"

	"github.com/RW04/recipe-service/internal/core/ai/cache"
	aiservice "github.com/RW04/recipe-service/internal/core/ai/service"
	"github.com/RW04/recipe-service/internal/pkg/common"

	"go.uber.org/zap"
)

// ResolvedIngredient 單項食材的解析結果
type ResolvedIngredient struct {
	Original string   // 使用者輸入的原始文字
	Name     string   // 正規化名稱
	Category Category // 分類；無法歸類時為空
	Valid    bool     // 是否為真實食材
	Source   string   // catalog / model / cache
}

// classification 分類快取中儲存的結果
type classification struct {
	Valid    bool   `json:"valid"`
	Category string `json:"category"`
}

// Resolver 未知食材解析器
// 只在資料表查無此名稱時使用；結果透過注入的有界快取記憶，
// 同名的併發解析允許競態，最後寫入者勝出（分類對同一名稱是決定性的）
type Resolver struct {
	aiService    *aiservice.Service
	cacheManager *cache.CacheManager
}

// NewResolver 創建未知食材解析器
func NewResolver(aiService *aiservice.Service, cacheManager *cache.CacheManager) *Resolver {
	return &Resolver{
		aiService:    aiService,
		cacheManager: cacheManager,
	}
}

// Resolve 解析未知食材
// 明確的失敗封閉規則：提供者失敗或回應無法解析時，一律視為無效食材，
// 不重試、不中斷整個請求
func (r *Resolver) Resolve(ctx context.Context, name string) ResolvedIngredient {
	resolved := ResolvedIngredient{
		Original: name,
		Name:     Normalize(name),
	}

	// 先查快取
	if r.cacheManager != nil {
		if raw, err := r.cacheManager.Get(ctx, "ingredient", resolved.Name); err == nil && raw != "" {
			var cached classification
			if err := common.ParseJSON(raw, &cached); err == nil {
				resolved.Valid = cached.Valid
				resolved.Source = "cache"
				if category, ok := ParseCategory(cached.Category); ok {
					resolved.Category = category
				}
				return resolved
			}
		}
	}

	result := r.classify(ctx, resolved.Name)
	resolved.Valid = result.Valid
	resolved.Source = "model"
	if category, ok := ParseCategory(result.Category); ok {
		resolved.Category = category
	}

	// 記憶結果（含失敗封閉的負面結果，分類對同一名稱是決定性的）
	if r.cacheManager != nil {
		if raw, err := common.ToJSON(result); err == nil {
			_ = r.cacheManager.Set(ctx, "ingredient", resolved.Name, raw)
		}
	}

	return resolved
}

// classify 以固定的分類提示詞詢問完成提供者
func (r *Resolver) classify(ctx context.Context, name string) classification {
	prompt := buildClassificationPrompt(name)

	// 分類提示詞對同一名稱完全相同，完成層快取可直接命中
	resp, err := r.aiService.ProcessRequest(ctx, &aiservice.Request{
		Prompt:      prompt,
		Temperature: 0,
		MaxTokens:   64,
		Cacheable:   true,
	})
	if err != nil {
		common.LogWarn("食材分類呼叫失敗，視為無效食材",
			zap.String("ingredient", name),
			zap.Error(err),
		)
		return classification{Valid: false}
	}

	var answer struct {
		Valid    string `json:"valid"`
		Category string `json:"category"`
	}
	content := common.ExtractJSONObject(resp.Content)
	if err := common.ParseJSON(content, &answer); err != nil {
		common.LogWarn("食材分類回應無法解析，視為無效食材",
			zap.String("ingredient", name),
			zap.Error(err),
		)
		return classification{Valid: false}
	}

	if !strings.EqualFold(strings.TrimSpace(answer.Valid), "YES") {
		return classification{Valid: false}
	}

	return classification{
		Valid:    true,
		Category: answer.Category,
	}
}

// buildClassificationPrompt 固定的分類提示詞
func buildClassificationPrompt(name string) string {
	return fmt.Sprintf(`Is "%s" a real food ingredient? Reply only in the JSON format below.
		Requirements:
		1. "valid" must be exactly "YES" or "NO".
		2. If YES, pick the single best category from: %s. If none fits, use "none".
		3. Strictly output compact JSON with no extra text and no markdown: {"valid":"YES","category":"vegetables"}`,
		name,
		strings.Join(CategoryNames(), ", "),
	)
}
