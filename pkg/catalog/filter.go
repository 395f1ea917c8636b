package catalog

import (
	"strings"

	"routine-advisor-be/internal/entity"
)

// FilterState narrows the catalog for display. Empty fields place no constraint.
type FilterState struct {
	Category string `json:"category"`
	Query    string `json:"query"`
}

func NewFilterState(category, query string) FilterState {
	return FilterState{Category: category, Query: strings.TrimSpace(query)}
}

// Apply keeps products matching both the category and the free-text query, in catalog order.
// A query does not lift the category constraint.
func Apply(products []entity.Product, filter FilterState) []entity.Product {
	query := strings.ToLower(filter.Query)

	result := make([]entity.Product, 0, len(products))
	for _, p := range products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		result = append(result, p)
	}
	return result
}

func matchesQuery(p entity.Product, query string) bool {
	return strings.Contains(strings.ToLower(p.Name), query) ||
		strings.Contains(strings.ToLower(p.Brand), query) ||
		strings.Contains(strings.ToLower(p.Description), query) ||
		strings.Contains(strings.ToLower(p.Category), query)
}

// Categories lists distinct categories in order of first appearance.
func Categories(products []entity.Product) []string {
	seen := make(map[string]bool)
	categories := make([]string, 0)
	for _, p := range products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		categories = append(categories, p.Category)
	}
	return categories
}
