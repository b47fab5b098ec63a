package storefront

import (
	"charityfinds/internal/cart"
	"charityfinds/internal/models"
)

// State est l'état explicite d'une page produits : filtres et panier.
// Les transitions sont des fonctions pures qui retournent un nouvel état.
type State struct {
	Filter models.FilterState
	Cart   cart.Cart
}

func NewState() State {
	return State{Filter: models.DefaultFilter(), Cart: cart.New()}
}

func (s State) WithCategory(c models.Category) State {
	if c == "" {
		c = models.CategoryAll
	}
	s.Filter.Category = c
	return s
}

func (s State) WithSearchTerm(term string) State {
	s.Filter.SearchTerm = term
	return s
}

func (s State) WithProduct(p models.Product) State {
	s.Cart = s.Cart.AddOrIncrement(p)
	return s
}

func (s State) WithoutProduct(productID string) (State, error) {
	next, err := s.Cart.Remove(productID)
	if err != nil {
		return s, err
	}
	s.Cart = next
	return s, nil
}

func (s State) WithEmptyCart() State {
	s.Cart = s.Cart.Clear()
	return s
}
