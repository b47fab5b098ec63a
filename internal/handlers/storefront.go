package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"charityfinds/internal/models"
)

type categoryInput struct {
	Category string `json:"category"`
}

type searchInput struct {
	Search string `json:"search"`
}

// 🟢 GET /api/storefront
func (h *Handler) GetStorefront(c *gin.Context) {
	ctl, ok := h.controller(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.view(c.Request.Context(), ctl.View()))
}

// 🟢 PUT /api/storefront/category
func (h *Handler) SetCategory(c *gin.Context) {
	ctl, ok := h.controller(c)
	if !ok {
		return
	}

	var input categoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	v := ctl.SetCategory(models.ParseCategory(input.Category))
	c.JSON(http.StatusOK, h.view(c.Request.Context(), v))
}

// 🟢 PUT /api/storefront/search
func (h *Handler) SetSearchTerm(c *gin.Context) {
	ctl, ok := h.controller(c)
	if !ok {
		return
	}

	var input searchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	v := ctl.SetSearchTerm(input.Search)
	c.JSON(http.StatusOK, h.view(c.Request.Context(), v))
}
