package recipe

import (
	"errors"
	"fmt"

	"github.com/RW04/recipe-service/internal/core/ingredient"
	"github.com/RW04/recipe-service/internal/pkg/common"

	"go.uber.org/zap"
)

var (
	// ErrMalformedResponse 回應不是合法的食譜 JSON 陣列
	ErrMalformedResponse = errors.New("malformed recipe response")
	// ErrNoValidRecipes 所有候選食譜都被後置過濾丟棄，不允許靜默的空成功
	ErrNoValidRecipes = errors.New("no valid recipes after filtering")
)

// ParseRecipes 解析模型回應為食譜列表
// 流程：結構驗證 -> 逐筆欄位驗證 -> 後置過濾（防禦模型不遵守指令）
// 不自動重試；格式錯誤直接以生成失敗回報呼叫端
func ParseRecipes(raw string, validSet, excludedSet map[string]bool) ([]common.Recipe, error) {
	content := common.ExtractJSONArray(raw)

	var candidates []common.Recipe
	if err := common.ParseJSON(content, &candidates); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: empty recipe list", ErrMalformedResponse)
	}

	recipes := make([]common.Recipe, 0, len(candidates))
	for _, candidate := range candidates {
		if reason, ok := checkFields(candidate); !ok {
			common.LogWarn("候選食譜欄位不完整，已丟棄",
				zap.String("title", candidate.Title),
				zap.String("reason", reason),
			)
			continue
		}
		if reason, ok := checkIngredients(candidate, validSet, excludedSet); !ok {
			common.LogWarn("候選食譜引用不允許的食材，已丟棄",
				zap.String("title", candidate.Title),
				zap.String("reason", reason),
			)
			continue
		}
		recipes = append(recipes, candidate)
	}

	if len(recipes) == 0 {
		return nil, ErrNoValidRecipes
	}
	return recipes, nil
}

// checkFields 逐筆欄位驗證
func checkFields(r common.Recipe) (string, bool) {
	switch {
	case r.Title == "":
		return "missing title", false
	case len(r.Ingredients) == 0:
		return "missing ingredients", false
	case len(r.Instructions) == 0:
		return "missing instructions", false
	case r.EstimatedCookingTime == "":
		return "missing estimated_cooking_time", false
	case r.DifficultyLevel == "":
		return "missing difficulty_level", false
	}
	for _, ing := range r.Ingredients {
		if ing.Ingredient == "" {
			return "ingredient with empty name", false
		}
	}
	return "", true
}

// checkIngredients 食譜中的每項食材正規化後必須屬於有效食材集合，
// 且不得出現任何排除食材
func checkIngredients(r common.Recipe, validSet, excludedSet map[string]bool) (string, bool) {
	for _, ing := range r.Ingredients {
		name := ingredient.Normalize(ing.Ingredient)
		if excludedSet[name] {
			return fmt.Sprintf("references excluded ingredient %q", name), false
		}
		if !validSet[name] {
			return fmt.Sprintf("references ingredient %q outside the valid set", name), false
		}
	}
	return "", true
}
