package handlers

import (
	"context"

	"github.com/shopspring/decimal"

	"charityfinds/internal/cart"
	"charityfinds/internal/models"
	"charityfinds/internal/storefront"
)

type productResponse struct {
	models.Product
	Savings int64 `json:"savings"`
}

type cartItemResponse struct {
	Product  productResponse `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal string          `json:"subtotal"`
}

type cartResponse struct {
	Items []cartItemResponse `json:"items"`
	Count int                `json:"count"`
	Units int                `json:"units"`
	Total string             `json:"total"`
}

// viewResponse est la frontière de rendu : filteredProducts, cart, cartItemCount, cartTotal.
type viewResponse struct {
	FilteredProducts []productResponse  `json:"filteredProducts"`
	Cart             cartResponse       `json:"cart"`
	CartItemCount    int                `json:"cartItemCount"`
	CartUnits        int                `json:"cartUnits"`
	CartTotal        string             `json:"cartTotal"`
	Filter           models.FilterState `json:"filter"`
	Revision         uint64             `json:"revision"`
}

func (h *Handler) products(ctx context.Context, products []models.Product) []productResponse {
	signed := h.images.SignProducts(ctx, products)
	out := make([]productResponse, 0, len(signed))
	for _, p := range signed {
		out = append(out, productResponse{Product: p, Savings: p.Savings()})
	}
	return out
}

func (h *Handler) product(ctx context.Context, p models.Product) productResponse {
	p.Image = h.images.SignedURL(ctx, p.Image)
	return productResponse{Product: p, Savings: p.Savings()}
}

func (h *Handler) cart(ctx context.Context, c cart.Cart) cartResponse {
	entries := c.Entries()
	items := make([]cartItemResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, cartItemResponse{
			Product:  h.product(ctx, e.Product),
			Quantity: e.Quantity,
			Subtotal: e.Product.Price.Mul(decimal.NewFromInt(int64(e.Quantity))).StringFixed(2),
		})
	}
	return cartResponse{
		Items: items,
		Count: c.ItemCount(),
		Units: c.Units(),
		Total: c.TotalDisplay(),
	}
}

func (h *Handler) view(ctx context.Context, v storefront.View) viewResponse {
	return viewResponse{
		FilteredProducts: h.products(ctx, v.FilteredProducts),
		Cart:             h.cart(ctx, v.Cart),
		CartItemCount:    v.CartItemCount,
		CartUnits:        v.CartUnits,
		CartTotal:        v.CartTotal.StringFixed(2),
		Filter:           v.Filter,
		Revision:         v.Revision,
	}
}
