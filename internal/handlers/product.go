package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"

	"charityfinds/internal/catalog"
	"charityfinds/internal/models"
)

const (
	featuredCount = 3
	qrCodeSize    = 256
)

// 🟢 GET /api/categories
func (h *Handler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.catalog.Categories()})
}

// 🟢 GET /api/products?category=&search=&min_price=&max_price=&condition=
func (h *Handler) ListProducts(c *gin.Context) {
	filter := models.FilterState{
		Category:   models.ParseCategory(c.Query("category")),
		SearchTerm: c.Query("search"),
	}

	minPrice, err := queryPrice(c, "min_price")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	maxPrice, err := queryPrice(c, "max_price")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	refine := catalog.Refinement{MinPrice: minPrice, MaxPrice: maxPrice, Condition: c.Query("condition")}

	products := refine.Apply(h.catalog.Query(filter))
	c.JSON(http.StatusOK, gin.H{
		"products": h.products(c.Request.Context(), products),
		"count":    len(products),
		"filter":   filter,
	})
}

// queryPrice lit un prix optionnel ; absent = nil.
func queryPrice(c *gin.Context, name string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return nil, fmt.Errorf("Paramètre %s invalide", name)
	}
	return &d, nil
}

// 🟢 GET /api/products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	p, err := h.catalog.Lookup(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.product(c.Request.Context(), p))
}

// 🟢 GET /api/products/:id/qrcode
// Étiquette à coller sur l'article en boutique : renvoie vers sa fiche.
func (h *Handler) ProductQRCode(c *gin.Context) {
	p, err := h.catalog.Lookup(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	link := fmt.Sprintf("%s/products/%s", strings.TrimRight(h.publicURL, "/"), p.ID)
	png, err := qrcode.Encode(link, qrcode.Medium, qrCodeSize)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/png", png)
}
