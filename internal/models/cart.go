package models

// CartEntry est une ligne du panier : un produit et sa quantité (>= 1).
type CartEntry struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// FilterState est l'état des filtres de la page produits.
type FilterState struct {
	Category   Category `json:"category"`
	SearchTerm string   `json:"search"`
}

// DefaultFilter : aucune contrainte de catégorie ni de texte.
func DefaultFilter() FilterState {
	return FilterState{Category: CategoryAll}
}
