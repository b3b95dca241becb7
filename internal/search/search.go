package search

import "strings"

// All is the category selector that matches every item.
const All = "all"

// Searchable is implemented by catalog items that can be matched by free text.
type Searchable interface {
	SearchName() string
	SearchDescription() string
}

// Categorized is implemented by catalog items that belong to a category.
type Categorized interface {
	CategoryName() string
}

// FilterByQuery keeps the items whose name or description contains query, ignoring
// case. An empty query returns items unchanged.
func FilterByQuery[T Searchable](items []T, query string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.SearchName()), q) ||
			strings.Contains(strings.ToLower(it.SearchDescription()), q) {
			out = append(out, it)
		}
	}
	return out
}

// FilterByCategory keeps the items in category. "all" and the empty selector
// return items unchanged.
func FilterByCategory[T Categorized](items []T, category string) []T {
	if category == "" || category == All {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if it.CategoryName() == category {
			out = append(out, it)
		}
	}
	return out
}
