package models

import "strings"

type Category string

const (
	CategoryAll         Category = "All"
	CategoryClothing    Category = "Clothing"
	CategoryToys        Category = "Toys"
	CategoryBooks       Category = "Books"
	CategoryElectronics Category = "Electronics"
	CategorySports      Category = "Sports"
	CategoryOther       Category = "Other"
)

// FilterCategories est l'énumération proposée par la barre de filtres (All en tête).
var FilterCategories = []Category{
	CategoryAll,
	CategoryClothing,
	CategoryToys,
	CategoryBooks,
	CategoryElectronics,
	CategorySports,
}

var knownCategories = map[Category]bool{
	CategoryClothing:    true,
	CategoryToys:        true,
	CategoryBooks:       true,
	CategoryElectronics: true,
	CategorySports:      true,
	CategoryOther:       true,
}

// IsKnown indique si la catégorie fait partie de l'ensemble fixe (All exclu).
func (c Category) IsKnown() bool {
	return knownCategories[c]
}

// ParseCategory accepte la casse libre venant d'une query string ; vide = All.
func ParseCategory(s string) Category {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, string(CategoryAll)) {
		return CategoryAll
	}
	for c := range knownCategories {
		if strings.EqualFold(s, string(c)) {
			return c
		}
	}
	return Category(s)
}
