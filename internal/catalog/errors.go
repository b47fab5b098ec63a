package catalog

import "github.com/go-faster/errors"

var (
	ErrNotFound       = errors.New("produit introuvable")
	ErrInvalidProduct = errors.New("produit invalide")
)
