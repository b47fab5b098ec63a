package cache

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
)

// Store regroupe les opérations Redis du storefront.
type Store struct {
	Client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{Client: client}
}

// --- Rate Limiting ---

// IncrementRateLimit incrémente le compteur d'une fenêtre fixe. L'expiration n'est posée
// qu'à l'ouverture de la fenêtre (ou si la clé en est dépourvue) : les requêtes suivantes
// ne la prolongent pas.
func (s *Store) IncrementRateLimit(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := s.Client.Pipeline()
	incr := pipe.Incr(ctx, key)
	ttl := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, errors.Wrap(err, "rate limit")
	}

	// TTL < 0 : clé sans expiration (Expire perdu après un Incr)
	if incr.Val() == 1 || ttl.Val() < 0 {
		if err := s.Client.Expire(ctx, key, window).Err(); err != nil {
			return 0, errors.Wrap(err, "rate limit expire")
		}
	}
	return incr.Val(), nil
}

// GetRateLimit récupère le compteur de rate limit
func (s *Store) GetRateLimit(ctx context.Context, key string) (int64, error) {
	val, err := s.Client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return val, err
}

// RetryAfter retourne le temps restant de la fenêtre d'une clé.
func (s *Store) RetryAfter(ctx context.Context, key string) time.Duration {
	ttl, err := s.Client.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		return 0
	}
	return ttl
}

// --- Cache générique ---

func (s *Store) SetCache(ctx context.Context, key string, value any, ttl time.Duration) error {
	return s.Client.Set(ctx, key, value, ttl).Err()
}

func (s *Store) GetCache(ctx context.Context, key string) (string, error) {
	return s.Client.Get(ctx, key).Result()
}

func (s *Store) DeleteCache(ctx context.Context, key string) error {
	return s.Client.Del(ctx, key).Err()
}
