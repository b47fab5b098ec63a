package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"charityfinds/internal/models"
)

// Refinement ajoute des critères optionnels au résultat de Query (endpoint /api/products).
// Un champ nil ou vide ne filtre pas.
type Refinement struct {
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	Condition string
}

func (r Refinement) IsZero() bool {
	return r.MinPrice == nil && r.MaxPrice == nil && strings.TrimSpace(r.Condition) == ""
}

// Apply conserve l'ordre des annonces retenues ; le résultat n'est jamais nil.
func (r Refinement) Apply(products []models.Product) []models.Product {
	out := make([]models.Product, 0, len(products))
	condition := strings.TrimSpace(r.Condition)
	for _, p := range products {
		if r.MinPrice != nil && p.Price.LessThan(*r.MinPrice) {
			continue
		}
		if r.MaxPrice != nil && p.Price.GreaterThan(*r.MaxPrice) {
			continue
		}
		if condition != "" && !strings.EqualFold(p.Condition, condition) {
			continue
		}
		out = append(out, p)
	}
	return out
}
