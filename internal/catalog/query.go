package catalog

import (
	"strings"

	"charityfinds/internal/models"
)

// Query retourne, dans l'ordre d'origine, les produits qui passent le filtre de
// catégorie (All = pas de contrainte) et dont le titre contient le terme, sans
// tenir compte de la casse. Seul le titre est cherché.
func Query(products []models.Product, category models.Category, term string) []models.Product {
	needle := strings.ToLower(term)
	result := make([]models.Product, 0, len(products))
	for _, p := range products {
		if category != models.CategoryAll && p.Category != category {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(p.Title), needle) {
			continue
		}
		result = append(result, p)
	}
	return result
}

