package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"charityfinds/internal/models"
)

const defaultRemoteLimit = 1000

// remoteProduct est la forme JSON servie par le service catalogue distant (GET /api/products).
type remoteProduct struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"original_price"`
	Category      string          `json:"category"`
	Condition     string          `json:"condition"`
	ImageURL      string          `json:"image_url"`
	Location      string          `json:"location"`
	DonorName     string          `json:"donor_name"`
	Rating        float64         `json:"rating"`
	ReviewsCount  int             `json:"reviews_count"`
	IsAvailable   *bool           `json:"is_available"`
}

func (r remoteProduct) toModel() models.Product {
	return models.Product{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		Category:      models.Category(r.Category),
		Condition:     r.Condition,
		Donor:         r.DonorName,
		Location:      r.Location,
		Rating:        r.Rating,
		Reviews:       r.ReviewsCount,
		Image:         r.ImageURL,
	}
}

// RemoteLoader lit le catalogue depuis le service distant, préfixe API = BaseURL + "/api".
// Les annonces sont lues par pages de Limit (paramètres limit/skip) jusqu'à une page incomplète.
type RemoteLoader struct {
	BaseURL string
	Limit   int
	Client  *http.Client
	Logger  *zap.Logger
}

func NewRemoteLoader(baseURL string, logger *zap.Logger) *RemoteLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RemoteLoader{
		BaseURL: baseURL,
		Limit:   defaultRemoteLimit,
		Client:  &http.Client{Timeout: 10 * time.Second},
		Logger:  logger,
	}
}

// APIPrefix construit le préfixe des routes du service distant.
func APIPrefix(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/api"
}

func (l *RemoteLoader) Load(ctx context.Context) ([]models.Product, error) {
	if l.BaseURL == "" {
		return nil, errors.New("BACKEND_URL non configuré")
	}

	limit := l.Limit
	if limit <= 0 {
		limit = defaultRemoteLimit
	}
	logger := l.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var products []models.Product
	seen := map[string]bool{}
	for skip := 0; ; skip += limit {
		page, err := l.fetchPage(ctx, limit, skip)
		if err != nil {
			return nil, err
		}

		fresh := 0
		for _, p := range page {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			fresh++
			if p.IsAvailable != nil && !*p.IsAvailable {
				continue
			}
			products = append(products, p.toModel())
		}

		if len(page) < limit {
			break
		}
		if fresh == 0 {
			// Le service ignore skip : on garde ce qu'on a plutôt que de boucler.
			logger.Warn("⚠️ Pagination du catalogue distant ignorée, catalogue possiblement tronqué",
				zap.Int("limit", limit),
				zap.Int("products", len(products)))
			break
		}
	}
	return products, nil
}

func (l *RemoteLoader) fetchPage(ctx context.Context, limit, skip int) ([]remoteProduct, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("skip", strconv.Itoa(skip))
	endpoint := APIPrefix(l.BaseURL) + "/products?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "construction requête catalogue")
	}
	req.Header.Set("Accept", "application/json")

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "requête catalogue distant")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalogue distant: statut %d", res.StatusCode)
	}

	var page []remoteProduct
	if err := json.NewDecoder(res.Body).Decode(&page); err != nil {
		return nil, errors.Wrap(err, "décodage catalogue distant")
	}
	return page, nil
}
