package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"charityfinds/internal/models"
)

const (
	DefaultProductIndex = "products"
	scrollPageSize      = 500
	scrollKeepAlive     = time.Minute
)

// ProductIndex lit et alimente l'index Elasticsearch des annonces.
// Il implémente catalog.Loader.
type ProductIndex struct {
	Client *elasticsearch.Client
	Index  string
	Logger *zap.Logger
}

func NewProductIndex(client *elasticsearch.Client, index string, logger *zap.Logger) *ProductIndex {
	if index == "" {
		index = DefaultProductIndex
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductIndex{Client: client, Index: index, Logger: logger}
}

type searchResponse struct {
	ScrollID string `json:"_scroll_id"`
	Hits     struct {
		Hits []struct {
			ID     string         `json:"_id"`
			Source models.Product `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

//
// --- LECTURE (scroll) ---
//

// Load parcourt tout l'index par pages de scroll.
func (p *ProductIndex) Load(ctx context.Context) ([]models.Product, error) {
	if p.Client == nil {
		return nil, errors.New("client Elasticsearch non initialisé")
	}

	body := strings.NewReader(`{"query":{"match_all":{}},"sort":["_doc"]}`)
	res, err := p.Client.Search(
		p.Client.Search.WithContext(ctx),
		p.Client.Search.WithIndex(p.Index),
		p.Client.Search.WithBody(body),
		p.Client.Search.WithSize(scrollPageSize),
		p.Client.Search.WithScroll(scrollKeepAlive),
	)
	if err != nil {
		return nil, errors.Wrap(err, "requête Elastic")
	}

	var products []models.Product
	scrollID := ""
	for {
		page, err := decodeSearch(res)
		if err != nil {
			p.clearScroll(scrollID)
			return nil, err
		}
		if page.ScrollID != "" {
			scrollID = page.ScrollID
		}
		if len(page.Hits.Hits) == 0 {
			break
		}
		for _, hit := range page.Hits.Hits {
			product := hit.Source
			if product.ID == "" {
				product.ID = hit.ID
			}
			products = append(products, product)
		}
		if scrollID == "" {
			break
		}

		res, err = p.Client.Scroll(
			p.Client.Scroll.WithContext(ctx),
			p.Client.Scroll.WithScrollID(scrollID),
			p.Client.Scroll.WithScroll(scrollKeepAlive),
		)
		if err != nil {
			p.clearScroll(scrollID)
			return nil, errors.Wrap(err, "scroll Elastic")
		}
	}

	p.clearScroll(scrollID)
	return products, nil
}

func decodeSearch(res *esapi.Response) (searchResponse, error) {
	defer res.Body.Close()

	var page searchResponse
	if res.IsError() {
		raw, _ := io.ReadAll(res.Body)
		return page, fmt.Errorf("elasticsearch: %s: %s", res.Status(), raw)
	}
	if err := json.NewDecoder(res.Body).Decode(&page); err != nil {
		return page, errors.Wrap(err, "décodage réponse Elastic")
	}
	return page, nil
}

func (p *ProductIndex) clearScroll(scrollID string) {
	if scrollID == "" {
		return
	}
	res, err := p.Client.ClearScroll(p.Client.ClearScroll.WithScrollID(scrollID))
	if err != nil {
		p.Logger.Debug("clear scroll", zap.Error(err))
		return
	}
	res.Body.Close()
}

//
// --- INDEXATION ---
//

// IndexProducts indexe les annonces une par une ; la première erreur interrompt l'opération.
func (p *ProductIndex) IndexProducts(ctx context.Context, products []models.Product) error {
	if p.Client == nil {
		return errors.New("client Elasticsearch non initialisé")
	}

	for i, product := range products {
		data, err := json.Marshal(product)
		if err != nil {
			return errors.Wrapf(err, "encodage produit %s", product.ID)
		}

		refresh := "false"
		if i == len(products)-1 {
			refresh = "true"
		}
		req := esapi.IndexRequest{
			Index:      p.Index,
			DocumentID: product.ID,
			Body:       bytes.NewReader(data),
			Refresh:    refresh,
		}
		res, err := req.Do(ctx, p.Client)
		if err != nil {
			return errors.Wrapf(err, "indexation produit %s", product.ID)
		}
		failed := res.IsError()
		status := res.Status()
		res.Body.Close()
		if failed {
			return fmt.Errorf("indexation produit %s: %s", product.ID, status)
		}
	}

	p.Logger.Info("✅ Produits indexés dans Elasticsearch",
		zap.String("index", p.Index),
		zap.Int("products", len(products)))
	return nil
}
