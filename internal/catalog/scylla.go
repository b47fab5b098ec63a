package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/gocql/gocql"
	"github.com/shopspring/decimal"

	"charityfinds/internal/models"
)

const selectProductsCQL = `SELECT product_id, title, description, price, original_price, category, condition,
	donor_name, location, rating, reviews_count, image_url, is_available FROM products`

// ScyllaLoader lit la table products du keyspace produits.
type ScyllaLoader struct {
	Session *gocql.Session
}

func (l ScyllaLoader) Load(ctx context.Context) ([]models.Product, error) {
	if l.Session == nil {
		return nil, errors.New("session ScyllaDB non initialisée")
	}

	iter := l.Session.Query(selectProductsCQL).WithContext(ctx).Iter()

	var (
		products      []models.Product
		id            gocql.UUID
		title         string
		description   string
		price         float64
		originalPrice float64
		category      string
		condition     string
		donor         string
		location      string
		rating        float64
		reviews       int
		image         string
		available     bool
	)
	for iter.Scan(&id, &title, &description, &price, &originalPrice, &category, &condition,
		&donor, &location, &rating, &reviews, &image, &available) {
		if !available {
			continue
		}
		products = append(products, models.Product{
			ID:            id.String(),
			Title:         title,
			Description:   description,
			Price:         decimal.NewFromFloat(price).Round(2),
			OriginalPrice: decimal.NewFromFloat(originalPrice).Round(2),
			Category:      models.Category(category),
			Condition:     condition,
			Donor:         donor,
			Location:      location,
			Rating:        rating,
			Reviews:       reviews,
			Image:         image,
		})
	}
	if err := iter.Close(); err != nil {
		return nil, errors.Wrap(err, "lecture products ScyllaDB")
	}
	return products, nil
}
