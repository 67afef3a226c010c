package recipe

import (
	"context"
	"strings"

	"github.com/RW04/recipe-service/internal/core/ingredient"
	"github.com/RW04/recipe-service/internal/pkg/common"

	"go.uber.org/zap"
)

// minValidIngredients 合格請求的最低有效食材數
const minValidIngredients = 3

// ValidIngredient 通過驗證的食材
type ValidIngredient struct {
	Name     string              // 正規化名稱
	Category ingredient.Category // 分類；解析器無法歸類時為空
	Source   string              // catalog / model / cache
}

// Acceptance 驗證通過的結果
type Acceptance struct {
	ValidIngredients []ValidIngredient
	Categories       []ingredient.Category // 有效食材的分類多重集（依序）
	Liked            []string              // 正規化偏好
	Excluded         []string              // 正規化排除
}

// ValidNames 有效食材的正規化名稱列表
func (a *Acceptance) ValidNames() []string {
	names := make([]string, len(a.ValidIngredients))
	for i, v := range a.ValidIngredients {
		names[i] = v.Name
	}
	return names
}

// SourceCounts 統計有效食材中由資料表命中與由解析器判定的數量
// 解析器的快取命中也算解析器判定
func (a *Acceptance) SourceCounts() (fromCatalog, fromResolver int) {
	for _, v := range a.ValidIngredients {
		if v.Source == "catalog" {
			fromCatalog++
		} else {
			fromResolver++
		}
	}
	return fromCatalog, fromResolver
}

// Evaluator 食材驗證與請求裁決
// 資料表查詢一定先於解析器呼叫，避免重複的遠端分類
type Evaluator struct {
	catalog  *ingredient.Catalog
	resolver *ingredient.Resolver
}

// NewEvaluator 創建驗證器
func NewEvaluator(catalog *ingredient.Catalog, resolver *ingredient.Resolver) *Evaluator {
	return &Evaluator{
		catalog:  catalog,
		resolver: resolver,
	}
}

// Evaluate 依固定順序套用業務規則：
// 數量不足 -> 無核心分類 -> 偏好不在可用列表 -> 排除不在可用列表 -> 偏好衝突
// 第一個失敗的檢查決定回報的拒絕原因
func (e *Evaluator) Evaluate(ctx context.Context, available, liked, excluded []string) (*Acceptance, error) {
	availableNorm := normalizeList(available)
	likedNorm := normalizeList(liked)
	excludedNorm := normalizeList(excluded)

	// 步驟一：逐項驗證可用食材，無法辨識的靜默丟棄（政策決定，不是故障）
	valid := make([]ValidIngredient, 0, len(availableNorm))
	categories := make([]ingredient.Category, 0, len(availableNorm))
	seen := make(map[string]bool, len(availableNorm))

	for _, name := range availableNorm {
		if seen[name] {
			continue
		}
		seen[name] = true

		if category, ok := e.catalog.Lookup(name); ok {
			valid = append(valid, ValidIngredient{Name: name, Category: category, Source: "catalog"})
			categories = append(categories, category)
			continue
		}

		resolved := e.resolver.Resolve(ctx, name)
		if !resolved.Valid {
			common.LogWarn("食材未被辨識為有效食物，已丟棄",
				zap.String("ingredient", name),
			)
			continue
		}

		valid = append(valid, ValidIngredient{Name: name, Category: resolved.Category, Source: resolved.Source})
		if resolved.Category != "" {
			categories = append(categories, resolved.Category)
		}
	}

	// 步驟二：有效食材數量
	if len(valid) < minValidIngredients {
		return nil, common.NewRejection(common.ReasonInsufficientIngredients,
			"not enough valid ingredients: got %d, need at least %d food ingredients", len(valid), minValidIngredients)
	}

	// 步驟三：核心分類覆蓋
	if !hasCoreCategory(categories) {
		return nil, common.NewRejection(common.ReasonNoCoreCategory,
			"at least one ingredient should be a vegetable, carb, protein, or fruit")
	}

	// 步驟四、五：偏好項必須出現在使用者給出的可用列表（過濾前）
	availableSet := toSet(availableNorm)
	if missing := missingFrom(likedNorm, availableSet); len(missing) > 0 {
		return nil, common.NewRejection(common.ReasonLikedNotAvailable,
			"liked ingredients not in available list: %s", strings.Join(missing, ", "))
	}
	if missing := missingFrom(excludedNorm, availableSet); len(missing) > 0 {
		return nil, common.NewRejection(common.ReasonExcludedNotAvailable,
			"excluded ingredients not in available list: %s", strings.Join(missing, ", "))
	}

	// 步驟六：偏好衝突永遠是錯誤
	if conflict := intersect(likedNorm, excludedNorm); len(conflict) > 0 {
		return nil, common.NewRejection(common.ReasonConflictingPreferences,
			"ingredients cannot be both liked and excluded: %s", strings.Join(conflict, ", "))
	}

	return &Acceptance{
		ValidIngredients: valid,
		Categories:       categories,
		Liked:            likedNorm,
		Excluded:         excludedNorm,
	}, nil
}

func normalizeList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if name := ingredient.Normalize(item); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func hasCoreCategory(categories []ingredient.Category) bool {
	for _, c := range categories {
		if c.IsCore() {
			return true
		}
	}
	return false
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

func missingFrom(items []string, set map[string]bool) []string {
	var missing []string
	for _, item := range items {
		if !set[item] {
			missing = append(missing, item)
		}
	}
	return missing
}

func intersect(a, b []string) []string {
	setB := toSet(b)
	var out []string
	seen := make(map[string]bool)
	for _, item := range a {
		if setB[item] && !seen[item] {
			out = append(out, item)
			seen[item] = true
		}
	}
	return out
}
