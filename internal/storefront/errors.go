package storefront

import "github.com/go-faster/errors"

// ErrUnknownProduct : l'id demandé n'existe pas dans le catalogue de la session.
var ErrUnknownProduct = errors.New("produit inconnu")
