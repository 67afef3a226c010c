package recipe

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/RW04/recipe-service/internal/core/ai/cache"
	"github.com/RW04/recipe-service/internal/core/ai/provider"
	aiservice "github.com/RW04/recipe-service/internal/core/ai/service"
	"github.com/RW04/recipe-service/internal/core/ingredient"
	"github.com/RW04/recipe-service/internal/infrastructure/config"
	"github.com/RW04/recipe-service/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider 以 prompt 內容決定回應的假提供者
// classifications 以食材名稱對應分類回應；生成提示回傳 recipeContent
type fakeProvider struct {
	classifications map[string]string
	recipeContent   string
	err             error
	calls           int
	lastPrompt      string
}

func (f *fakeProvider) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	prompt := req.Messages[0].Content
	f.lastPrompt = prompt

	for name, reply := range f.classifications {
		if strings.Contains(prompt, fmt.Sprintf("%q", name)) {
			return &provider.Response{Content: reply}, nil
		}
	}
	if strings.Contains(prompt, "real food ingredient") {
		// 未預期的分類詢問一律回答無效
		return &provider.Response{Content: `{"valid":"NO","category":""}`}, nil
	}
	return &provider.Response{Content: f.recipeContent}, nil
}

func (f *fakeProvider) GetModel() string          { return "fake-model" }
func (f *fakeProvider) GetTimeout() time.Duration { return time.Second }
func (f *fakeProvider) Close() error              { return nil }

func testConfig() *config.Config {
	return &config.Config{
		Cache: config.CacheConfig{
			Enabled:         true,
			MaxSize:         100,
			TTL:             time.Hour,
			CleanupInterval: time.Minute,
		},
	}
}

func newTestEvaluator(t *testing.T, prov provider.Provider) *Evaluator {
	t.Helper()
	cfg := testConfig()

	catalog, err := ingredient.LoadCatalog("")
	require.NoError(t, err)

	cacheManager := cache.NewManager(cfg)
	require.NotNil(t, cacheManager)
	t.Cleanup(func() { _ = cacheManager.Close() })

	aiService, err := aiservice.NewService(cfg, prov, cacheManager)
	require.NoError(t, err)

	return NewEvaluator(catalog, ingredient.NewResolver(aiService, cacheManager))
}

func requireRejection(t *testing.T, err error, reason common.RejectionReason) {
	t.Helper()
	require.Error(t, err)
	rejection, ok := common.AsRejection(err)
	require.True(t, ok, "expected a rejection, got %v", err)
	assert.Equal(t, reason, rejection.Reason)
}

func TestEvaluateAcceptsValidRequest(t *testing.T) {
	evaluator := newTestEvaluator(t, &fakeProvider{})

	acceptance, err := evaluator.Evaluate(context.Background(),
		[]string{"chicken", "rice", "onion", "olive oil"},
		[]string{"chicken"},
		[]string{"onion"},
	)
	require.NoError(t, err)
	require.NotNil(t, acceptance)

	assert.Equal(t, []string{"chicken", "rice", "onion", "olive oil"}, acceptance.ValidNames())
	assert.Equal(t, []string{"chicken"}, acceptance.Liked)
	assert.Equal(t, []string{"onion"}, acceptance.Excluded)
}

func TestEvaluateNormalizesAndDeduplicates(t *testing.T) {
	evaluator := newTestEvaluator(t, &fakeProvider{})

	acceptance, err := evaluator.Evaluate(context.Background(),
		[]string{" Onions ", "onion", "Tomatoes", "chicken"},
		nil, nil,
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"onion", "tomato", "chicken"}, acceptance.ValidNames())
}

func TestEvaluateDropsUnrecognizedIngredients(t *testing.T) {
	// gravel 不在資料表，解析器判為無效：靜默丟棄，不中斷請求
	evaluator := newTestEvaluator(t, &fakeProvider{
		classifications: map[string]string{
			"gravel": `{"valid":"NO","category":""}`,
		},
	})

	acceptance, err := evaluator.Evaluate(context.Background(),
		[]string{"chicken", "rice", "onion", "gravel"},
		nil, nil,
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"chicken", "rice", "onion"}, acceptance.ValidNames())
}

func TestEvaluateResolverSuppliesUnknownIngredients(t *testing.T) {
	// rambutan 不在資料表，由解析器歸類為水果
	evaluator := newTestEvaluator(t, &fakeProvider{
		classifications: map[string]string{
			"rambutan": `{"valid":"YES","category":"fruits"}`,
		},
	})

	acceptance, err := evaluator.Evaluate(context.Background(),
		[]string{"rambutan", "salt", "olive oil"},
		nil, nil,
	)
	require.NoError(t, err)

	require.Len(t, acceptance.ValidIngredients, 3)
	assert.Equal(t, "model", acceptance.ValidIngredients[0].Source)
	assert.Equal(t, ingredient.CategoryFruits, acceptance.ValidIngredients[0].Category)

	fromCatalog, fromResolver := acceptance.SourceCounts()
	assert.Equal(t, 2, fromCatalog)
	assert.Equal(t, 1, fromResolver)
}

func TestAcceptanceSourceCountsAllCatalog(t *testing.T) {
	evaluator := newTestEvaluator(t, &fakeProvider{})

	acceptance, err := evaluator.Evaluate(context.Background(),
		[]string{"chicken", "rice", "onion"},
		nil, nil,
	)
	require.NoError(t, err)

	fromCatalog, fromResolver := acceptance.SourceCounts()
	assert.Equal(t, 3, fromCatalog)
	assert.Equal(t, 0, fromResolver)
}

func TestEvaluateRejectsInsufficientCount(t *testing.T) {
	evaluator := newTestEvaluator(t, &fakeProvider{})

	_, err := evaluator.Evaluate(context.Background(),
		[]string{"chicken", "rice"},
		nil, nil,
	)
	requireRejection(t, err, common.ReasonInsufficientIngredients)
}

func TestEvaluateCountChecksValidIngredientsOnly(t *testing.T) {
	// 三項輸入，但一項被丟棄後只剩兩項有效
	evaluator := newTestEvaluator(t, &fakeProvider{
		classifications: map[string]string{
			"gravel": `{"valid":"NO","category":""}`,
		},
	})

	_, err := evaluator.Evaluate(context.Background(),
		[]string{"chicken", "rice", "gravel"},
		nil, nil,
	)
	requireRejection(t, err, common.ReasonInsufficientIngredients)
}

func TestEvaluateRejectsWithoutCoreCategory(t *testing.T) {
	evaluator := newTestEvaluator(t, &fakeProvider{})

	_, err := evaluator.Evaluate(context.Background(),
		[]string{"salt", "sugar", "olive oil"},
		nil, nil,
	)
	requireRejection(t, err, common.ReasonNoCoreCategory)
}

func TestEvaluateRejectsLikedNotAvailable(t *testing.T) {
	evaluator := newTestEvaluator(t, &fakeProvider{})

	_, err := evaluator.Evaluate(context.Background(),
		[]string{"chicken", "rice", "onion"},
		[]string{"mango"},
		nil,
	)
	requireRejection(t, err, common.ReasonLikedNotAvailable)
}

func TestEvaluateRejectsExcludedNotAvailable(t *testing.T) {
	evaluator := newTestEvaluator(t, &fakeProvider{})

	_, err := evaluator.Evaluate(context.Background(),
		[]string{"chicken", "rice", "onion"},
		nil,
		[]string{"mango"},
	)
	requireRejection(t, err, common.ReasonExcludedNotAvailable)
}

func TestEvaluateRejectsConflictingPreferences(t *testing.T) {
	evaluator := newTestEvaluator(t, &fakeProvider{})

	_, err := evaluator.Evaluate(context.Background(),
		[]string{"chicken", "rice", "onion"},
		[]string{"onion"},
		[]string{"Onions"}, // 不同寫法，正規化後相同
	)
	requireRejection(t, err, common.ReasonConflictingPreferences)
}

func TestEvaluatePreferenceChecksUsePreFilterList(t *testing.T) {
	// 偏好項引用被丟棄的食材：出現在使用者給出的列表即可，不因丟棄而拒絕
	evaluator := newTestEvaluator(t, &fakeProvider{
		classifications: map[string]string{
			"gravel": `{"valid":"NO","category":""}`,
		},
	})

	acceptance, err := evaluator.Evaluate(context.Background(),
		[]string{"chicken", "rice", "onion", "gravel"},
		nil,
		[]string{"gravel"},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"gravel"}, acceptance.Excluded)
}

func TestEvaluateRequestOutcomes(t *testing.T) {
	// chair/truck 不是食物，由解析器判為無效後丟棄
	prov := &fakeProvider{
		classifications: map[string]string{
			"chair": `{"valid":"NO","category":""}`,
			"truck": `{"valid":"NO","category":""}`,
		},
	}

	tests := []struct {
		name       string
		available  []string
		liked      []string
		excluded   []string
		wantReason common.RejectionReason // 空字串表示接受
		wantValid  []string
	}{
		{
			name:      "accepted with core fruit",
			available: []string{"quinoa", "mango", "kale"},
			liked:     []string{"mango"},
			wantValid: []string{"quinoa", "mango", "kale"},
		},
		{
			name:       "no core category",
			available:  []string{"sugar", "soy sauce", "salt"},
			liked:      []string{"salt"},
			wantReason: common.ReasonNoCoreCategory,
		},
		{
			name:       "liked not in available list",
			available:  []string{"cauliflower", "onion", "potato", "tomato"},
			liked:      []string{"egg plants"},
			wantReason: common.ReasonLikedNotAvailable,
		},
		{
			name:       "liked and excluded conflict",
			available:  []string{"cauliflower", "onion", "potato", "tomato"},
			liked:      []string{"onion"},
			excluded:   []string{"onion"},
			wantReason: common.ReasonConflictingPreferences,
		},
		{
			name:       "non-food drop leaves too few",
			available:  []string{"okra", "beans", "chair"},
			liked:      []string{"okra"},
			wantReason: common.ReasonInsufficientIngredients,
		},
		{
			name:      "non-food drops still leave enough",
			available: []string{"okra", "beans", "chair", "spinach", "truck"},
			liked:     []string{"okra"},
			wantValid: []string{"okra", "bean", "spinach"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evaluator := newTestEvaluator(t, prov)
			acceptance, err := evaluator.Evaluate(context.Background(), tt.available, tt.liked, tt.excluded)

			if tt.wantReason != "" {
				requireRejection(t, err, tt.wantReason)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, acceptance.ValidNames())
		})
	}
}

func TestEvaluateRejectionOrder(t *testing.T) {
	// 數量不足優先於其他所有檢查
	evaluator := newTestEvaluator(t, &fakeProvider{})

	_, err := evaluator.Evaluate(context.Background(),
		[]string{"chicken", "rice"},
		[]string{"mango"}, // 同時也不在可用列表
		[]string{"mango"}, // 同時也衝突
	)
	requireRejection(t, err, common.ReasonInsufficientIngredients)
}
