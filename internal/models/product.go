package models

import (
	"github.com/shopspring/decimal"
)

// Product est une annonce du catalogue. Elle n'est jamais modifiée après le chargement.
type Product struct {
	ID            string          `json:"id" yaml:"id" db:"product_id"`
	Title         string          `json:"title" yaml:"title" db:"title"`
	Description   string          `json:"description" yaml:"description" db:"description"`
	Price         decimal.Decimal `json:"price" yaml:"price" db:"price"`
	OriginalPrice decimal.Decimal `json:"originalPrice" yaml:"originalPrice" db:"original_price"`
	Category      Category        `json:"category" yaml:"category" db:"category"`
	Condition     string          `json:"condition" yaml:"condition" db:"condition"`
	Donor         string          `json:"donor" yaml:"donor" db:"donor_name"`
	Location      string          `json:"location" yaml:"location" db:"location"`
	Rating        float64         `json:"rating" yaml:"rating" db:"rating"`
	Reviews       int             `json:"reviews" yaml:"reviews" db:"reviews_count"`
	Image         string          `json:"image" yaml:"image" db:"image_url"`
}

var hundred = decimal.NewFromInt(100)

// Savings retourne le pourcentage économisé par rapport au prix d'origine, arrondi à l'entier.
func (p Product) Savings() int64 {
	if !p.OriginalPrice.IsPositive() {
		return 0
	}
	return p.OriginalPrice.Sub(p.Price).Div(p.OriginalPrice).Mul(hundred).Round(0).IntPart()
}
