package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"charityfinds/internal/handlers"
)

// Middlewares propres au storefront ; un champ nil est ignoré.
type Middlewares struct {
	Session   gin.HandlerFunc
	RateLimit gin.HandlerFunc
}

// CORS autorise les origines configurées. Avec "*", les cookies ne sont pas acceptés en
// cross-origin : un front servi sur une autre origine perd sa session à chaque requête.
func CORS(origins []string, logger *zap.Logger) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		logger.Warn("⚠️ CORS_ORIGINS=*: credentials désactivés, les sessions ne suivent pas un front cross-origin ; renseigner les origines du front")
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

func RegisterRoutes(r *gin.Engine, h *handlers.Handler, mw Middlewares) {
	api := r.Group("/api")

	public := api.Group("")
	if mw.RateLimit != nil {
		public.Use(mw.RateLimit)
	}

	// Catalogue (sans session)
	public.GET("/", h.Root)
	public.GET("/health", h.Health)
	public.GET("/categories", h.Categories)
	public.GET("/home", h.Home)
	public.GET("/products", h.ListProducts)
	public.GET("/products/:id", h.GetProduct)
	public.GET("/products/:id/qrcode", h.ProductQRCode)
	public.GET("/donate", h.Donate)
	public.GET("/about", h.About)

	session := api.Group("")
	if mw.Session != nil {
		session.Use(mw.Session)
	}
	if mw.RateLimit != nil {
		session.Use(mw.RateLimit)
	}

	// Page produits
	session.GET("/storefront", h.GetStorefront)
	session.PUT("/storefront/category", h.SetCategory)
	session.PUT("/storefront/search", h.SetSearchTerm)
	session.GET("/storefront/ws", h.StorefrontWebSocket)

	// Panier
	session.GET("/cart", h.GetCart)
	session.POST("/cart/add", h.AddToCart)
	session.DELETE("/cart", h.ClearCart)
	session.DELETE("/cart/:productId", h.RemoveFromCart)
}
