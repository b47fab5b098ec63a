package cart

import (
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"charityfinds/internal/models"
)

var ErrNotInCart = errors.New("produit absent du panier")

// Cart est le panier d'une session : au plus une ligne par id produit, dans l'ordre du premier ajout.
// Les opérations retournent un nouveau panier, le receveur n'est jamais modifié.
// La valeur zéro est un panier vide utilisable.
type Cart struct {
	order   []string
	entries map[string]models.CartEntry
}

func New() Cart {
	return Cart{}
}

func (c Cart) clone() Cart {
	next := Cart{
		order:   make([]string, len(c.order), len(c.order)+1),
		entries: make(map[string]models.CartEntry, len(c.entries)+1),
	}
	copy(next.order, c.order)
	for id, e := range c.entries {
		next.entries[id] = e
	}
	return next
}

// AddOrIncrement incrémente la ligne existante sans la déplacer, sinon ajoute {produit, 1} en fin.
func (c Cart) AddOrIncrement(p models.Product) Cart {
	next := c.clone()
	if e, ok := next.entries[p.ID]; ok {
		e.Quantity++
		next.entries[p.ID] = e
		return next
	}
	next.order = append(next.order, p.ID)
	next.entries[p.ID] = models.CartEntry{Product: p, Quantity: 1}
	return next
}

// Remove retire la ligne du produit ; l'ordre des autres lignes est conservé.
func (c Cart) Remove(productID string) (Cart, error) {
	if _, ok := c.entries[productID]; !ok {
		return c, errors.Wrapf(ErrNotInCart, "id %q", productID)
	}
	next := c.clone()
	delete(next.entries, productID)
	order := next.order[:0]
	for _, id := range next.order {
		if id != productID {
			order = append(order, id)
		}
	}
	next.order = order
	return next, nil
}

// Clear retourne un panier vide (passage en caisse).
func (c Cart) Clear() Cart {
	return Cart{}
}

// Entries retourne les lignes dans l'ordre d'insertion.
func (c Cart) Entries() []models.CartEntry {
	out := make([]models.CartEntry, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.entries[id])
	}
	return out
}

func (c Cart) Get(productID string) (models.CartEntry, bool) {
	e, ok := c.entries[productID]
	return e, ok
}

func (c Cart) IsEmpty() bool {
	return len(c.order) == 0
}

// ItemCount compte les lignes distinctes (pastille du panier), pas les unités.
func (c Cart) ItemCount() int {
	return len(c.order)
}

// Units est la somme des quantités.
func (c Cart) Units() int {
	n := 0
	for _, e := range c.entries {
		n += e.Quantity
	}
	return n
}

// Total = Σ prix × quantité, en décimal exact.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, id := range c.order {
		e := c.entries[id]
		total = total.Add(e.Product.Price.Mul(decimal.NewFromInt(int64(e.Quantity))))
	}
	return total
}

// TotalDisplay arrondit le total à deux décimales pour l'affichage.
func (c Cart) TotalDisplay() string {
	return c.Total().StringFixed(2)
}

func (c Cart) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Items []models.CartEntry `json:"items"`
		Count int                `json:"count"`
		Units int                `json:"units"`
		Total string             `json:"total"`
	}{
		Items: c.Entries(),
		Count: c.ItemCount(),
		Units: c.Units(),
		Total: c.TotalDisplay(),
	})
}
