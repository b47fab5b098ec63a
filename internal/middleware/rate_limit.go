package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"charityfinds/internal/cache"
)

const (
	APIMaxRequests = 100 // Par minute pour les endpoints généraux
	APICooldown    = 1 * time.Minute
)

// RateLimit limite le nombre de requêtes par session (ou par IP avant la session).
// Sans Redis, la limite est désactivée ; une erreur Redis laisse passer la requête.
func RateLimit(store *cache.Store, limit int64, logger *zap.Logger) gin.HandlerFunc {
	if limit <= 0 {
		limit = APIMaxRequests
	}
	return func(c *gin.Context) {
		if store == nil {
			c.Next()
			return
		}

		subject := c.GetString(SessionIDKey)
		if subject == "" {
			subject = c.ClientIP()
		}
		key := "api_requests:" + subject

		requests, err := store.IncrementRateLimit(c.Request.Context(), key, APICooldown)
		if err != nil {
			logger.Warn("⚠️ Rate limit indisponible", zap.Error(err))
			c.Next()
			return
		}

		remaining := limit - requests
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if requests > limit {
			retry := store.RetryAfter(c.Request.Context(), key)
			if retry <= 0 {
				retry = APICooldown
			}
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Trop de requêtes. Réessayez dans 1 minute",
				"retry_after": int(retry.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
