package common

import (
	"strings"
)

// RecipeRequest 食譜生成請求（一次呼叫一份，不跨請求共用）
type RecipeRequest struct {
	UserID               string   `json:"user_id"`
	AvailableIngredients []string `json:"available_ingredients"`
	LikedIngredients     []string `json:"liked_ingredients,omitempty"`
	ExcludedIngredients  []string `json:"excluded_ingredients,omitempty"`
}

// PreferenceRecord 使用者偏好紀錄
// 由外部偏好儲存庫持有，核心只以不透明文件讀寫，不解讀儲存格式
type PreferenceRecord struct {
	UserID               string   `json:"user_id"`
	AvailableIngredients []string `json:"available_ingredients"`
	LikedIngredients     []string `json:"liked_ingredients"`
	ExcludedIngredients  []string `json:"excluded_ingredients"`
}

// RecipeIngredient 食譜中的單項食材與份量
type RecipeIngredient struct {
	Ingredient string `json:"ingredient"`
	Quantity   string `json:"quantity"`
}

// Recipe 生成的食譜
type Recipe struct {
	Title                string             `json:"title"`
	Ingredients          []RecipeIngredient `json:"ingredients"`
	Instructions         []string           `json:"instructions"`
	EstimatedCookingTime string             `json:"estimated_cooking_time"`
	DifficultyLevel      string             `json:"difficulty_level"`
}

// FormatIngredientList 將食材列表格式化為逗號分隔字串（用於提示詞）
func FormatIngredientList(ingredients []string) string {
	if len(ingredients) == 0 {
		return "none"
	}
	return strings.Join(ingredients, ", ")
}
