package recipe

import (
	"fmt"

	"github.com/RW04/recipe-service/internal/pkg/common"
)

// maxRecipes 一次生成的食譜數量上限
const maxRecipes = 5

// BuildPrompt 將有效食材與偏好約束嵌入結構化生成指令
// 要求模型輸出嚴格的 JSON 陣列，鍵名與 Recipe 結構一致
func BuildPrompt(validIngredients, liked, excluded []string) string {
	return fmt.Sprintf(`Generate up to %d recipes using only these ingredients: %s.
		Give preference to: %s.
		Strictly exclude: %s.
		Requirements:
		1. The recipes must make culinary sense.
		2. Use only ingredients from the provided list; never use an excluded ingredient.
		3. Each recipe must be a JSON object with exactly these keys: "title", "ingredients" (array of objects with "ingredient" and "quantity"), "instructions" (array of strings), "estimated_cooking_time" (e.g. "20 minutes"), "difficulty_level" (one of "Easy", "Medium", "Hard").
		4. All fields must use double quotes.
		5. Return only a valid JSON array, no extra text, no markdown fences.
		6. Output the most compact JSON possible: omit all whitespace and line breaks.`,
		maxRecipes,
		common.FormatIngredientList(validIngredients),
		common.FormatIngredientList(liked),
		common.FormatIngredientList(excluded),
	)
}
