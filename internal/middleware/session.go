package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"charityfinds/internal/storefront"
)

const (
	SessionCookieName = "charityfinds_session"
	SessionIDKey      = "session_id"
	ControllerKey     = "storefront"

	sessionValueID = "sid"
)

// NewCookieStore configure le store de cookies de session.
func NewCookieStore(secret string, secure bool, maxAge int) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure, // false en dev, true en prod
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// Session rattache chaque requête à son contrôleur de page.
// Le cookie ne porte que l'identifiant ; l'état vit en mémoire dans le registre.
func Session(store sessions.Store, registry *storefront.Sessions, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := store.Get(c.Request, SessionCookieName)
		if err != nil {
			// Cookie illisible (secret changé) : on repart d'une session neuve.
			logger.Debug("cookie de session invalide", zap.Error(err))
		}

		id, _ := sess.Values[sessionValueID].(string)
		if _, parseErr := uuid.Parse(id); parseErr != nil {
			id = uuid.NewString()
			sess.Values[sessionValueID] = id
			if err := sess.Save(c.Request, c.Writer); err != nil {
				logger.Error("❌ Enregistrement session impossible", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Session indisponible"})
				c.Abort()
				return
			}
			logger.Debug("nouvelle session", zap.String("session_id", id))
		}

		c.Set(SessionIDKey, id)
		c.Set(ControllerKey, registry.Get(id))
		c.Next()
	}
}

// Controller retourne le contrôleur de la session courante.
func Controller(c *gin.Context) (*storefront.Controller, bool) {
	v, ok := c.Get(ControllerKey)
	if !ok {
		return nil, false
	}
	ctl, ok := v.(*storefront.Controller)
	return ctl, ok
}
