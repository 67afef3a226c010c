package recipe

import (
	"errors"
	"testing"

	"github.com/RW04/recipe-service/internal/core/ingredient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validRecipeJSON = `[{"title":"Chicken Fried Rice","ingredients":[{"ingredient":"chicken","quantity":"200g"},{"ingredient":"rice","quantity":"1 cup"}],"instructions":["Cook the rice.","Stir-fry the chicken.","Combine and serve."],"estimated_cooking_time":"25 minutes","difficulty_level":"Easy"}]`

func testValidSet(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

func TestParseRecipesValidResponse(t *testing.T) {
	recipes, err := ParseRecipes(validRecipeJSON, testValidSet("chicken", "rice"), nil)
	require.NoError(t, err)
	require.Len(t, recipes, 1)

	recipe := recipes[0]
	assert.Equal(t, "Chicken Fried Rice", recipe.Title)
	assert.Len(t, recipe.Ingredients, 2)
	assert.Len(t, recipe.Instructions, 3)
	assert.Equal(t, "25 minutes", recipe.EstimatedCookingTime)
	assert.Equal(t, "Easy", recipe.DifficultyLevel)
}

func TestParseRecipesFenceWrappedResponse(t *testing.T) {
	// 模型不遵守「無 markdown」指令時仍需能取出 JSON 陣列
	raw := "```json\n" + validRecipeJSON + "\n```"
	recipes, err := ParseRecipes(raw, testValidSet("chicken", "rice"), nil)
	require.NoError(t, err)
	assert.Len(t, recipes, 1)
}

func TestParseRecipesSurroundingProse(t *testing.T) {
	raw := "Here are your recipes: " + validRecipeJSON + " Enjoy!"
	recipes, err := ParseRecipes(raw, testValidSet("chicken", "rice"), nil)
	require.NoError(t, err)
	assert.Len(t, recipes, 1)
}

func TestParseRecipesMalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"plain text", "I could not generate recipes this time."},
		{"truncated array", `[{"title":"Soup","ingredients":[{"ingredient":"onion"`},
		{"empty array", `[]`},
		{"object instead of array", `{"title":"Soup"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecipes(tt.raw, testValidSet("onion"), nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedResponse), "expected malformed response error, got %v", err)
		})
	}
}

func TestParseRecipesDropsIncompleteCandidates(t *testing.T) {
	raw := `[
		{"title":"","ingredients":[{"ingredient":"rice","quantity":"1 cup"}],"instructions":["Cook."],"estimated_cooking_time":"10 minutes","difficulty_level":"Easy"},
		{"title":"No Time","ingredients":[{"ingredient":"rice","quantity":"1 cup"}],"instructions":["Cook."],"estimated_cooking_time":"","difficulty_level":"Easy"},
		{"title":"Plain Rice","ingredients":[{"ingredient":"rice","quantity":"1 cup"}],"instructions":["Cook."],"estimated_cooking_time":"10 minutes","difficulty_level":"Easy"}
	]`
	recipes, err := ParseRecipes(raw, testValidSet("rice"), nil)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Plain Rice", recipes[0].Title)
}

func TestParseRecipesDropsExcludedIngredient(t *testing.T) {
	raw := `[{"title":"Onion Rice","ingredients":[{"ingredient":"Onions","quantity":"1"},{"ingredient":"rice","quantity":"1 cup"}],"instructions":["Cook."],"estimated_cooking_time":"15 minutes","difficulty_level":"Easy"}]`

	// 食譜中的 "Onions" 正規化後命中排除集合
	_, err := ParseRecipes(raw,
		testValidSet("onion", "rice"),
		testValidSet("onion"),
	)
	assert.ErrorIs(t, err, ErrNoValidRecipes)
}

func TestParseRecipesDropsIngredientOutsideValidSet(t *testing.T) {
	raw := `[{"title":"Truffle Rice","ingredients":[{"ingredient":"truffle","quantity":"10g"},{"ingredient":"rice","quantity":"1 cup"}],"instructions":["Cook."],"estimated_cooking_time":"15 minutes","difficulty_level":"Hard"}]`

	_, err := ParseRecipes(raw, testValidSet("rice"), nil)
	assert.ErrorIs(t, err, ErrNoValidRecipes)
}

func TestParseRecipesAllDroppedIsFailure(t *testing.T) {
	// 全部候選被丟棄：不允許回報空成功
	raw := `[
		{"title":"A","ingredients":[{"ingredient":"truffle","quantity":"1"}],"instructions":["Cook."],"estimated_cooking_time":"5 minutes","difficulty_level":"Easy"},
		{"title":"B","ingredients":[],"instructions":["Cook."],"estimated_cooking_time":"5 minutes","difficulty_level":"Easy"}
	]`
	_, err := ParseRecipes(raw, testValidSet("rice"), nil)
	assert.ErrorIs(t, err, ErrNoValidRecipes)
}

func TestParseRecipesAcceptedRecipeInvariant(t *testing.T) {
	// 通過的食譜每項食材必屬於有效集合且不含排除食材
	validSet := testValidSet("chicken", "rice", "onion")
	excludedSet := testValidSet("onion")

	raw := `[
		{"title":"Keep","ingredients":[{"ingredient":"chicken","quantity":"200g"},{"ingredient":"rice","quantity":"1 cup"}],"instructions":["Cook."],"estimated_cooking_time":"20 minutes","difficulty_level":"Medium"},
		{"title":"Drop","ingredients":[{"ingredient":"onion","quantity":"1"}],"instructions":["Cook."],"estimated_cooking_time":"20 minutes","difficulty_level":"Easy"}
	]`
	recipes, err := ParseRecipes(raw, validSet, excludedSet)
	require.NoError(t, err)

	for _, recipe := range recipes {
		for _, ing := range recipe.Ingredients {
			name := ingredient.Normalize(ing.Ingredient)
			assert.True(t, validSet[name], "recipe %q references %q outside the valid set", recipe.Title, name)
			assert.False(t, excludedSet[name], "recipe %q references excluded %q", recipe.Title, name)
		}
	}
}
