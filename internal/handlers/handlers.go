package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"charityfinds/internal/cart"
	"charityfinds/internal/catalog"
	"charityfinds/internal/middleware"
	"charityfinds/internal/services"
	"charityfinds/internal/storefront"
)

const Version = "1.0.0"

// HealthChecker rapporte l'état des datastores (database.Connections).
type HealthChecker interface {
	Ping(ctx context.Context) map[string]string
}

type Options struct {
	Catalog   *catalog.Catalog
	Images    *services.ImageSigner
	Health    HealthChecker
	PublicURL string
	// Origins autorisées pour le websocket ; vide ou "*" = toutes.
	Origins []string
	Logger  *zap.Logger
}

type Handler struct {
	catalog   *catalog.Catalog
	images    *services.ImageSigner
	health    HealthChecker
	publicURL string
	logger    *zap.Logger
	upgrader  websocket.Upgrader
}

func New(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		catalog:   opts.Catalog,
		images:    opts.Images,
		health:    opts.Health,
		publicURL: opts.PublicURL,
		logger:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(opts.Origins),
		},
	}
}

// controller récupère le contrôleur posé par le middleware de session.
func (h *Handler) controller(c *gin.Context) (*storefront.Controller, bool) {
	ctl, ok := middleware.Controller(c)
	if !ok {
		h.logger.Error("❌ Contrôleur de session absent", zap.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session indisponible"})
		return nil, false
	}
	return ctl, true
}

// fail traduit une erreur métier en réponse HTTP.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storefront.ErrUnknownProduct), errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
	case errors.Is(err, cart.ErrNotInCart):
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit absent du panier"})
	default:
		h.logger.Error("❌ Erreur interne", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur interne"})
	}
}
