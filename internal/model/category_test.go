package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryByID(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		wantID   string
		wantName string
	}{
		{
			name:     "known category",
			id:       "food",
			wantID:   "food",
			wantName: "Food & Dining",
		},
		{
			name:     "another known category",
			id:       "groceries",
			wantID:   "groceries",
			wantName: "Groceries",
		},
		{
			name:     "unknown ID falls back to other",
			id:       "cryptocurrency",
			wantID:   "other",
			wantName: "Other",
		},
		{
			name:     "empty ID falls back to other",
			id:       "",
			wantID:   "other",
			wantName: "Other",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CategoryByID(tt.id)
			assert.Equal(t, tt.wantID, got.ID)
			assert.Equal(t, tt.wantName, got.Name)
		})
	}
}

func TestDefaultCategory(t *testing.T) {
	assert.Equal(t, "other", DefaultCategory().ID)
}

func TestCategoriesRegistry(t *testing.T) {
	assert.Len(t, Categories, 10)

	seen := make(map[string]bool)
	for _, cat := range Categories {
		assert.False(t, seen[cat.ID], "duplicate category ID %s", cat.ID)
		seen[cat.ID] = true
		assert.NotEmpty(t, cat.Name)
		assert.NotEmpty(t, cat.Color)
		assert.NotEmpty(t, cat.Icon)
	}
}
