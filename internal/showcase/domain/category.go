package domain

import "fmt"

// Category classifies a project. The set is fixed.
type Category string

const (
	CategoryWeb    Category = "Web"
	CategoryApp    Category = "App"
	CategoryAI     Category = "AI"
	CategoryGame   Category = "Game"
	CategoryDesign Category = "Design"
	CategoryOther  Category = "Other"
)

// AllCategories lists every valid category.
func AllCategories() []Category {
	return []Category{
		CategoryWeb,
		CategoryApp,
		CategoryAI,
		CategoryGame,
		CategoryDesign,
		CategoryOther,
	}
}

// IsValid returns true when the category is one of the fixed set.
func (c Category) IsValid() bool {
	switch c {
	case CategoryWeb, CategoryApp, CategoryAI, CategoryGame, CategoryDesign, CategoryOther:
		return true
	}
	return false
}

// ParseCategory parses a category string.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}
