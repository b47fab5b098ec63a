package catalog

import (
	"strings"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"charityfinds/internal/models"
)

// Catalog est la liste ordonnée des annonces d'une session, indexée par id.
// Elle ne change plus après sa construction.
type Catalog struct {
	products []models.Product
	index    map[string]int
}

// New construit un catalogue sans validation. En cas d'id dupliqué, la première annonce gagne.
func New(products []models.Product) *Catalog {
	c := &Catalog{
		products: make([]models.Product, 0, len(products)),
		index:    make(map[string]int, len(products)),
	}
	for _, p := range products {
		if _, dup := c.index[p.ID]; dup {
			continue
		}
		c.index[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c
}

// Validate vérifie les invariants d'une annonce au chargement.
func Validate(p models.Product) error {
	switch {
	case strings.TrimSpace(p.ID) == "":
		return errors.Wrap(ErrInvalidProduct, "id manquant")
	case strings.TrimSpace(p.Title) == "":
		return errors.Wrapf(ErrInvalidProduct, "produit %s: titre manquant", p.ID)
	case p.Price.IsNegative() || p.OriginalPrice.IsNegative():
		return errors.Wrapf(ErrInvalidProduct, "produit %s: prix négatif", p.ID)
	case p.Price.GreaterThan(p.OriginalPrice):
		return errors.Wrapf(ErrInvalidProduct, "produit %s: prix %s supérieur au prix d'origine %s",
			p.ID, p.Price.StringFixed(2), p.OriginalPrice.StringFixed(2))
	}
	return nil
}

// Ingest valide les annonces chargées et construit le catalogue avec celles qui passent.
// Les annonces rejetées sont retournées dans rejected ; le chargement continue.
// Une catégorie inconnue n'est pas un rejet : l'annonce reste visible sous "All".
func Ingest(products []models.Product, logger *zap.Logger) (c *Catalog, rejected []error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	valid := make([]models.Product, 0, len(products))
	seen := make(map[string]bool, len(products))
	for _, p := range products {
		if err := Validate(p); err != nil {
			logger.Warn("⚠️ annonce rejetée", zap.String("product_id", p.ID), zap.Error(err))
			rejected = append(rejected, err)
			continue
		}
		if seen[p.ID] {
			err := errors.Wrapf(ErrInvalidProduct, "produit %s: id dupliqué", p.ID)
			logger.Warn("⚠️ annonce rejetée", zap.String("product_id", p.ID), zap.Error(err))
			rejected = append(rejected, err)
			continue
		}
		if !p.Category.IsKnown() {
			logger.Warn("⚠️ catégorie hors filtres",
				zap.String("product_id", p.ID),
				zap.String("category", string(p.Category)))
		}
		seen[p.ID] = true
		valid = append(valid, p)
	}

	return New(valid), rejected
}

// Products retourne une copie de la liste complète.
func (c *Catalog) Products() []models.Product {
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Catalog) Len() int {
	return len(c.products)
}

// Lookup retourne l'annonce d'id donné ou ErrNotFound.
func (c *Catalog) Lookup(id string) (models.Product, error) {
	i, ok := c.index[id]
	if !ok {
		return models.Product{}, errors.Wrapf(ErrNotFound, "id %q", id)
	}
	return c.products[i], nil
}

// Query applique le filtre au catalogue complet.
func (c *Catalog) Query(filter models.FilterState) []models.Product {
	return Query(c.products, filter.Category, filter.SearchTerm)
}

// Featured retourne les n premières annonces (bandeau de la page d'accueil).
func (c *Catalog) Featured(n int) []models.Product {
	if n > len(c.products) {
		n = len(c.products)
	}
	if n < 0 {
		n = 0
	}
	out := make([]models.Product, n)
	copy(out, c.products[:n])
	return out
}

// Categories retourne l'énumération de la barre de filtres.
func (c *Catalog) Categories() []models.Category {
	out := make([]models.Category, len(models.FilterCategories))
	copy(out, models.FilterCategories)
	return out
}
