package ingredient

import "strings"

// Category 食材分類（固定枚舉集合）
type Category string

const (
	CategoryVegetables Category = "vegetables"
	CategoryCarbs      Category = "carbs"
	CategoryProtein    Category = "protein"
	CategoryFruits     Category = "fruits"
	CategoryOils       Category = "oils"
	CategorySugars     Category = "sugars"
	CategorySalts      Category = "salts"
	CategoryCondiments Category = "condiments"
	CategorySeasonings Category = "seasonings"
)

// allCategories 全部合法分類
var allCategories = map[Category]bool{
	CategoryVegetables: true,
	CategoryCarbs:      true,
	CategoryProtein:    true,
	CategoryFruits:     true,
	CategoryOils:       true,
	CategorySugars:     true,
	CategorySalts:      true,
	CategoryCondiments: true,
	CategorySeasonings: true,
}

// coreCategories 核心分類：合格請求至少需要一項核心分類的食材
var coreCategories = map[Category]bool{
	CategoryVegetables: true,
	CategoryCarbs:      true,
	CategoryProtein:    true,
	CategoryFruits:     true,
}

// IsCore 回報分類是否屬於核心分類
func (c Category) IsCore() bool {
	return coreCategories[c]
}

// ParseCategory 解析分類字串，大小寫不敏感
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if allCategories[c] {
		return c, true
	}
	return "", false
}

// CoreCategoryNames 核心分類名稱列表（用於分類提示詞）
func CoreCategoryNames() []string {
	return []string{
		string(CategoryVegetables),
		string(CategoryCarbs),
		string(CategoryProtein),
		string(CategoryFruits),
	}
}

// CategoryNames 全部分類名稱列表（用於分類提示詞）
func CategoryNames() []string {
	return []string{
		string(CategoryVegetables),
		string(CategoryCarbs),
		string(CategoryProtein),
		string(CategoryFruits),
		string(CategoryOils),
		string(CategorySugars),
		string(CategorySalts),
		string(CategoryCondiments),
		string(CategorySeasonings),
	}
}
