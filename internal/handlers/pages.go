package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"charityfinds/internal/models"
)

type categoryTile struct {
	Category models.Category `json:"category"`
	Image    string          `json:"image"`
}

var homeTiles = []categoryTile{
	{models.CategoryClothing, "https://images.unsplash.com/photo-1604467794349-0b74285de7e7?w=600"},
	{models.CategoryToys, "https://images.unsplash.com/photo-1599623560574-39d485900c95?w=600"},
	{models.CategoryBooks, "https://images.unsplash.com/photo-1604866830893-c13cafa515d5?w=600"},
}

// 🟢 GET /api/
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "CharityFinds API is running!", "version": Version})
}

// 🟢 GET /api/health
func (h *Handler) Health(c *gin.Context) {
	status := "healthy"
	datastores := map[string]string{}
	if h.health != nil {
		datastores = h.health.Ping(c.Request.Context())
		for _, s := range datastores {
			if s != "connected" {
				status = "degraded"
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     status,
		"products":   h.catalog.Len(),
		"datastores": datastores,
		"timestamp":  time.Now().UTC(),
	})
}

// 🟢 GET /api/home
func (h *Handler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"featured":   h.products(c.Request.Context(), h.catalog.Featured(featuredCount)),
		"categories": homeTiles,
		"stats": gin.H{
			"itemsDonated":     "10K+",
			"orphanagesHelped": "50+",
			"happyDonors":      "5K+",
		},
	})
}

// 🟢 GET /api/donate
func (h *Handler) Donate(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"page": "donate", "message": "Donate Page Coming Soon"})
}

// 🟢 GET /api/about
func (h *Handler) About(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"page": "about", "message": "About Page Coming Soon"})
}
