package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON(t *testing.T) {
	var out struct {
		Valid    string `json:"valid"`
		Category string `json:"category"`
	}
	err := ParseJSON(`{"valid":"YES","category":"fruits"}`, &out)
	require.NoError(t, err)
	assert.Equal(t, "YES", out.Valid)
	assert.Equal(t, "fruits", out.Category)
}

func TestParseJSONRejectsTrailingData(t *testing.T) {
	var out map[string]interface{}
	err := ParseJSON(`{"a":1} trailing`, &out)
	assert.Error(t, err)
}

func TestParseJSONStrict(t *testing.T) {
	var out struct {
		Valid string `json:"valid"`
	}
	err := ParseJSONStrict(`{"valid":"YES","surprise":true}`, &out)
	assert.Error(t, err)
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"fence with padding", "  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFence(tt.input))
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare array", `[1,2]`, `[1,2]`},
		{"surrounding prose", `Here you go: [1,2] enjoy`, `[1,2]`},
		{"fenced array", "```json\n[1,2]\n```", `[1,2]`},
		{"no array returns input", `not json`, `not json`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSONArray(tt.input))
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	got := ExtractJSONObject(`The answer is {"valid":"YES"} as requested.`)
	assert.Equal(t, `{"valid":"YES"}`, got)
}

func TestFormatIngredientList(t *testing.T) {
	assert.Equal(t, "none", FormatIngredientList(nil))
	assert.Equal(t, "none", FormatIngredientList([]string{}))
	assert.Equal(t, "chicken", FormatIngredientList([]string{"chicken"}))
	assert.Equal(t, "chicken, rice", FormatIngredientList([]string{"chicken", "rice"}))
}
