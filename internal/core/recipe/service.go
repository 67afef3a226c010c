package recipe

import (
	"context"
	"net/http"

	aiservice "github.com/RW04/recipe-service/internal/core/ai/service"
	"github.com/RW04/recipe-service/internal/infrastructure/store"
	"github.com/RW04/recipe-service/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 食譜生成管線
// 流程：寫入偏好 -> 驗證裁決 -> 構建提示 -> 單次完成呼叫 -> 解析與後置過濾
type Service struct {
	evaluator *Evaluator
	aiService *aiservice.Service
	prefStore store.PreferenceStore
}

// NewService 創建食譜生成管線
func NewService(evaluator *Evaluator, aiService *aiservice.Service, prefStore store.PreferenceStore) *Service {
	return &Service{
		evaluator: evaluator,
		aiService: aiService,
		prefStore: prefStore,
	}
}

// Generate 處理一次食譜生成請求
// 錯誤分類：RejectionError（業務結果）、GENERATION_FAILED、STORE_UNAVAILABLE，
// 全部在管線邊界映射為呼叫端可見的結果，不靜默吞沒
func (s *Service) Generate(ctx context.Context, req *common.RecipeRequest) ([]common.Recipe, error) {
	// 寫入偏好紀錄：完整取代，不嘗試部分寫入
	record := &common.PreferenceRecord{
		UserID:               req.UserID,
		AvailableIngredients: req.AvailableIngredients,
		LikedIngredients:     req.LikedIngredients,
		ExcludedIngredients:  req.ExcludedIngredients,
	}
	if err := s.prefStore.Put(ctx, req.UserID, record); err != nil {
		common.LogError("偏好寫入失敗",
			zap.String("user_id", req.UserID),
			zap.Error(err),
		)
		return nil, common.NewError(common.ErrCodeStoreUnavailable, "failed to save preference", http.StatusServiceUnavailable, err)
	}

	// 驗證裁決
	acceptance, err := s.evaluator.Evaluate(ctx, req.AvailableIngredients, req.LikedIngredients, req.ExcludedIngredients)
	if err != nil {
		return nil, err
	}

	validNames := acceptance.ValidNames()
	fromCatalog, fromResolver := acceptance.SourceCounts()
	common.LogInfo("請求通過驗證",
		zap.String("user_id", req.UserID),
		zap.Strings("valid_ingredients", validNames),
		zap.Int("from_catalog", fromCatalog),
		zap.Int("from_resolver", fromResolver),
		zap.Int("category_count", len(acceptance.Categories)),
	)

	// 構建提示並發送單次完成呼叫
	prompt := BuildPrompt(validNames, acceptance.Liked, acceptance.Excluded)
	resp, err := s.aiService.ProcessRequest(ctx, &aiservice.Request{
		Prompt:      prompt,
		Temperature: 1.0,
	})
	if err != nil {
		common.LogError("食譜生成呼叫失敗",
			zap.String("user_id", req.UserID),
			zap.Error(err),
		)
		return nil, common.NewError(common.ErrCodeGenerationFailed, "recipe generation failed", http.StatusBadGateway, err)
	}

	// 解析與後置過濾
	validSet := make(map[string]bool, len(validNames))
	for _, name := range validNames {
		validSet[name] = true
	}
	excludedSet := make(map[string]bool, len(acceptance.Excluded))
	for _, name := range acceptance.Excluded {
		excludedSet[name] = true
	}

	recipes, err := ParseRecipes(resp.Content, validSet, excludedSet)
	if err != nil {
		common.LogError("食譜回應解析失敗",
			zap.String("user_id", req.UserID),
			zap.Error(err),
		)
		return nil, common.NewError(common.ErrCodeGenerationFailed, "recipe generation failed", http.StatusBadGateway, err)
	}

	common.LogInfo("食譜生成成功",
		zap.String("user_id", req.UserID),
		zap.Int("recipe_count", len(recipes)),
	)
	return recipes, nil
}
