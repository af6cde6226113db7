// Package model defines the core domain models used throughout the application.
package model

// Category represents a spending category with its display metadata.
// Categories are immutable value objects; they are compared by ID.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// Categories is the static registry of spending categories. The last
// entry ("other") doubles as the fallback for unknown IDs.
var Categories = []Category{
	{ID: "food", Name: "Food & Dining", Color: "#EF4444", Icon: "🍽️"},
	{ID: "transport", Name: "Transportation", Color: "#3B82F6", Icon: "🚗"},
	{ID: "shopping", Name: "Shopping", Color: "#8B5CF6", Icon: "🛍️"},
	{ID: "entertainment", Name: "Entertainment", Color: "#F59E0B", Icon: "🎬"},
	{ID: "health", Name: "Healthcare", Color: "#10B981", Icon: "⚕️"},
	{ID: "bills", Name: "Bills & Utilities", Color: "#6B7280", Icon: "📄"},
	{ID: "groceries", Name: "Groceries", Color: "#84CC16", Icon: "🛒"},
	{ID: "education", Name: "Education", Color: "#06B6D4", Icon: "📚"},
	{ID: "travel", Name: "Travel", Color: "#EC4899", Icon: "✈️"},
	{ID: "other", Name: "Other", Color: "#64748B", Icon: "📋"},
}

// CategoryByID returns the category with the given ID, or the default
// ("other") category when no entry matches.
func CategoryByID(id string) Category {
	for _, cat := range Categories {
		if cat.ID == id {
			return cat
		}
	}
	return Categories[len(Categories)-1]
}

// DefaultCategory returns the fallback category used when nothing better
// is known.
func DefaultCategory() Category {
	return Categories[len(Categories)-1]
}
