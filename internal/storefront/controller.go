package storefront

import (
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"charityfinds/internal/cart"
	"charityfinds/internal/catalog"
	"charityfinds/internal/models"
)

// View est ce que la couche de rendu consomme.
type View struct {
	FilteredProducts []models.Product  `json:"filteredProducts"`
	Cart             cart.Cart          `json:"cart"`
	CartItemCount    int                `json:"cartItemCount"`
	CartUnits        int                `json:"cartUnits"`
	CartTotal        decimal.Decimal    `json:"cartTotal"`
	Filter           models.FilterState `json:"filter"`
	Revision         uint64             `json:"revision"`
}

// Controller porte l'état d'une page produits pour une session.
// Chaque mutation relance la requête catalogue et incrémente Revision ;
// un client qui reçoit une révision plus ancienne que la dernière vue peut l'ignorer.
type Controller struct {
	mu       sync.Mutex
	catalog  *catalog.Catalog
	state    State
	filtered []models.Product
	revision uint64
	lastSeen time.Time
	subs     map[chan View]struct{}
	logger   *zap.Logger
}

func NewController(c *catalog.Catalog, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctl := &Controller{
		catalog:  c,
		state:    NewState(),
		lastSeen: time.Now(),
		subs:     make(map[chan View]struct{}),
		logger:   logger,
	}
	ctl.filtered = c.Query(ctl.state.Filter)
	return ctl
}

// apply remplace l'état, relance la requête si les filtres ont changé et notifie les abonnés.
// Doit être appelé avec mu verrouillé.
func (c *Controller) apply(next State) View {
	if next.Filter != c.state.Filter {
		c.filtered = c.catalog.Query(next.Filter)
	}
	c.state = next
	c.revision++
	v := c.viewLocked()
	c.publishLocked(v)
	return v
}

func (c *Controller) viewLocked() View {
	filtered := make([]models.Product, len(c.filtered))
	copy(filtered, c.filtered)
	return View{
		FilteredProducts: filtered,
		Cart:             c.state.Cart,
		CartItemCount:    c.state.Cart.ItemCount(),
		CartUnits:        c.state.Cart.Units(),
		CartTotal:        c.state.Cart.Total().Round(2),
		Filter:           c.state.Filter,
		Revision:         c.revision,
	}
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Controller) SetCategory(category models.Category) View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apply(c.state.WithCategory(category))
}

// SetSearchTerm est appelé à chaque frappe, sans anti-rebond.
func (c *Controller) SetSearchTerm(term string) View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apply(c.state.WithSearchTerm(term))
}

// AddToCart ajoute le produit du catalogue. Un id inconnu laisse le panier intact.
func (c *Controller) AddToCart(productID string) (View, error) {
	p, err := c.catalog.Lookup(productID)
	if err != nil {
		return c.View(), errors.Wrapf(ErrUnknownProduct, "id %q", productID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.apply(c.state.WithProduct(p))
	c.logger.Debug("🛒 ajout panier",
		zap.String("product_id", productID),
		zap.Int("lines", v.CartItemCount))
	return v, nil
}

func (c *Controller) RemoveFromCart(productID string) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := c.state.WithoutProduct(productID)
	if err != nil {
		return c.viewLocked(), err
	}
	return c.apply(next), nil
}

func (c *Controller) ClearCart() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apply(c.state.WithEmptyCart())
}

// Subscribe retourne un canal qui reçoit chaque nouvelle vue. Seule la plus récente
// est gardée si le lecteur est en retard. cancel ferme le canal.
func (c *Controller) Subscribe() (<-chan View, func()) {
	ch := make(chan View, 1)

	c.mu.Lock()
	c.subs[ch] = struct{}{}
	c.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if _, ok := c.subs[ch]; ok {
				delete(c.subs, ch)
				close(ch)
			}
		})
	}
	return ch, cancel
}

func (c *Controller) publishLocked(v View) {
	for ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- v:
		default:
		}
	}
}

// closeLocked ferme tous les abonnements (session expirée).
func (c *Controller) closeLocked() {
	for ch := range c.subs {
		delete(c.subs, ch)
		close(ch)
	}
}

func (c *Controller) touch(now time.Time) {
	c.mu.Lock()
	c.lastSeen = now
	c.mu.Unlock()
}

func (c *Controller) idleSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeen
}
