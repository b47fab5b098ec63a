package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"charityfinds/internal/catalog"
	"charityfinds/internal/models"
)

const (
	CatalogCacheKey = "catalog:products"
	CatalogCacheTTL = 10 * time.Minute
)

// CachedLoader place un catalogue.Loader derrière Redis.
// Une panne Redis n'empêche jamais le chargement : on retombe sur Next.
type CachedLoader struct {
	Store  *Store
	Next   catalog.Loader
	Key    string
	TTL    time.Duration
	Logger *zap.Logger
}

func NewCachedLoader(store *Store, next catalog.Loader, ttl time.Duration, logger *zap.Logger) *CachedLoader {
	if ttl <= 0 {
		ttl = CatalogCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedLoader{Store: store, Next: next, Key: CatalogCacheKey, TTL: ttl, Logger: logger}
}

func (l *CachedLoader) Load(ctx context.Context) ([]models.Product, error) {
	// 1. Essayer le cache Redis
	data, err := l.Store.GetCache(ctx, l.Key)
	switch {
	case err == nil:
		var products []models.Product
		if jsonErr := json.Unmarshal([]byte(data), &products); jsonErr == nil {
			l.Logger.Debug("catalogue servi depuis Redis", zap.Int("products", len(products)))
			return products, nil
		}
		l.Logger.Warn("⚠️ Cache catalogue illisible, rechargement", zap.String("key", l.Key))
	case errors.Is(err, redis.Nil):
	default:
		l.Logger.Warn("⚠️ Redis indisponible pour le catalogue", zap.Error(err))
	}

	// 2. Récupérer depuis la source
	products, err := l.Next.Load(ctx)
	if err != nil {
		return nil, err
	}

	// 3. Mettre en cache
	payload, err := json.Marshal(products)
	if err != nil {
		return products, nil
	}
	if err := l.Store.SetCache(ctx, l.Key, payload, l.TTL); err != nil {
		l.Logger.Warn("⚠️ Mise en cache du catalogue impossible", zap.Error(err))
	}
	return products, nil
}

// Invalidate supprime le catalogue en cache.
func (l *CachedLoader) Invalidate(ctx context.Context) error {
	return l.Store.DeleteCache(ctx, l.Key)
}
