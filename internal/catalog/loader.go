package catalog

import (
	"context"
	_ "embed"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"charityfinds/internal/models"
)

// Loader fournit la liste brute des annonces d'une session.
type Loader interface {
	Load(ctx context.Context) ([]models.Product, error)
}

// LoaderFunc adapte une fonction en Loader.
type LoaderFunc func(ctx context.Context) ([]models.Product, error)

func (f LoaderFunc) Load(ctx context.Context) ([]models.Product, error) {
	return f(ctx)
}

//go:embed mock_catalog.yaml
var mockCatalog []byte

type catalogFile struct {
	Products []models.Product `yaml:"products"`
}

// StaticLoader décode un catalogue YAML. Sans données, il sert le catalogue de démonstration embarqué.
type StaticLoader struct {
	Data []byte
}

func (l StaticLoader) Load(ctx context.Context) ([]models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := l.Data
	if len(data) == 0 {
		data = mockCatalog
	}

	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "décodage catalogue yaml")
	}
	return f.Products, nil
}

// Load charge puis valide le catalogue.
func Load(ctx context.Context, loader Loader, logger *zap.Logger) (*Catalog, error) {
	products, err := loader.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "chargement catalogue")
	}
	c, rejected := Ingest(products, logger)
	if logger != nil {
		logger.Info("✅ Catalogue chargé",
			zap.Int("products", c.Len()),
			zap.Int("rejected", len(rejected)))
	}
	return c, nil
}
