package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type addToCartInput struct {
	ProductID string `json:"productId"`
}

// 🟢 GET /api/cart
func (h *Handler) GetCart(c *gin.Context) {
	ctl, ok := h.controller(c)
	if !ok {
		return
	}
	v := ctl.View()
	c.JSON(http.StatusOK, h.cart(c.Request.Context(), v.Cart))
}

// 🟢 POST /api/cart/add
func (h *Handler) AddToCart(c *gin.Context) {
	ctl, ok := h.controller(c)
	if !ok {
		return
	}

	var input addToCartInput
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.ProductID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	v, err := ctl.AddToCart(input.ProductID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(c.Request.Context(), v))
}

// 🟢 DELETE /api/cart/:productId
func (h *Handler) RemoveFromCart(c *gin.Context) {
	ctl, ok := h.controller(c)
	if !ok {
		return
	}

	v, err := ctl.RemoveFromCart(c.Param("productId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(c.Request.Context(), v))
}

// 🟢 DELETE /api/cart
func (h *Handler) ClearCart(c *gin.Context) {
	ctl, ok := h.controller(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.view(c.Request.Context(), ctl.ClearCart()))
}
