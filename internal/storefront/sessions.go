package storefront

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"charityfinds/internal/catalog"
)

const DefaultSessionTTL = 24 * time.Hour

// Sessions associe un id de session à son Controller. Rien n'est persisté :
// une session inactive plus longtemps que ttl est oubliée avec son panier.
type Sessions struct {
	mu      sync.Mutex
	catalog *catalog.Catalog
	ttl     time.Duration
	items   map[string]*Controller
	logger  *zap.Logger
	now     func() time.Time
}

func NewSessions(c *catalog.Catalog, ttl time.Duration, logger *zap.Logger) *Sessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sessions{
		catalog: c,
		ttl:     ttl,
		items:   make(map[string]*Controller),
		logger:  logger,
		now:     time.Now,
	}
}

// Catalog retourne le catalogue partagé par toutes les sessions.
func (s *Sessions) Catalog() *catalog.Catalog {
	return s.catalog
}

// Get retourne le Controller de la session, créé au premier accès.
func (s *Sessions) Get(id string) *Controller {
	now := s.now()

	// touch sous s.mu : Sweep ne peut pas évincer une session entre sa lecture et son usage.
	s.mu.Lock()
	defer s.mu.Unlock()
	ctl, ok := s.items[id]
	if !ok {
		ctl = NewController(s.catalog, s.logger.With(zap.String("session_id", id)))
		s.items[id] = ctl
	}
	ctl.touch(now)
	return ctl
}

func (s *Sessions) Lookup(id string) (*Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctl, ok := s.items[id]
	return ctl, ok
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Sweep supprime les sessions inactives et retourne leur nombre.
func (s *Sessions) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	var expired []*Controller
	for id, ctl := range s.items {
		if ctl.idleSince().Before(cutoff) {
			delete(s.items, id)
			expired = append(expired, ctl)
		}
	}
	s.mu.Unlock()

	for _, ctl := range expired {
		ctl.mu.Lock()
		ctl.closeLocked()
		ctl.mu.Unlock()
	}
	if len(expired) > 0 {
		s.logger.Info("🧹 sessions expirées", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// Run balaie les sessions à intervalle régulier jusqu'à l'annulation du contexte.
func (s *Sessions) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
