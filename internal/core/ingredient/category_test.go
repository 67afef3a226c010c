package ingredient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input  string
		want   Category
		wantOK bool
	}{
		{"vegetables", CategoryVegetables, true},
		{"Vegetables", CategoryVegetables, true},
		{" CARBS ", CategoryCarbs, true},
		{"protein", CategoryProtein, true},
		{"seasonings", CategorySeasonings, true},
		{"plasma", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseCategory(tt.input)
		assert.Equal(t, tt.wantOK, ok, "ParseCategory(%q)", tt.input)
		assert.Equal(t, tt.want, got, "ParseCategory(%q)", tt.input)
	}
}

func TestIsCore(t *testing.T) {
	core := []Category{CategoryVegetables, CategoryCarbs, CategoryProtein, CategoryFruits}
	for _, c := range core {
		assert.True(t, c.IsCore(), "%s should be core", c)
	}

	auxiliary := []Category{CategoryOils, CategorySugars, CategorySalts, CategoryCondiments, CategorySeasonings}
	for _, c := range auxiliary {
		assert.False(t, c.IsCore(), "%s should not be core", c)
	}
}
