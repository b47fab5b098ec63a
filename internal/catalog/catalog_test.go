package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"charityfinds/internal/models"
)

func TestIngest_RejectsInvalidProducts(t *testing.T) {
	good := product("1", "Winter Coat", models.CategoryClothing, "15.99")
	good.OriginalPrice = decimal.RequireFromString("45.00")

	overpriced := product("2", "Lego Set", models.CategoryToys, "30.00")
	overpriced.OriginalPrice = decimal.RequireFromString("25.00")

	negative := product("3", "Books", models.CategoryBooks, "-1.00")
	noTitle := product("4", "  ", models.CategoryBooks, "1.00")
	noID := product("", "Orphan", models.CategoryBooks, "1.00")
	dup := product("1", "Winter Coat again", models.CategoryClothing, "1.00")

	c, rejected := Ingest([]models.Product{good, overpriced, negative, noTitle, noID, dup}, zap.NewNop())

	assert.Equal(t, 1, c.Len())
	require.Len(t, rejected, 5)
	for _, err := range rejected {
		assert.True(t, errors.Is(err, ErrInvalidProduct), err.Error())
	}

	p, err := c.Lookup("1")
	require.NoError(t, err)
	assert.Equal(t, "Winter Coat", p.Title)
}

func TestIngest_KeepsUnknownCategory(t *testing.T) {
	odd := product("9", "Garden Gnome", models.Category("Garden"), "4.00")

	c, rejected := Ingest([]models.Product{odd}, nil)

	assert.Empty(t, rejected)
	assert.Equal(t, 1, c.Len())
}

func TestCatalog_Lookup(t *testing.T) {
	c := New(sampleProducts())

	p, err := c.Lookup("4")
	require.NoError(t, err)
	assert.Equal(t, "Train Set", p.Title)

	_, err = c.Lookup("404")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCatalog_NewKeepsFirstDuplicate(t *testing.T) {
	c := New([]models.Product{
		product("1", "First", models.CategoryToys, "1.00"),
		product("1", "Second", models.CategoryToys, "1.00"),
	})

	require.Equal(t, 1, c.Len())
	p, _ := c.Lookup("1")
	assert.Equal(t, "First", p.Title)
}

func TestCatalog_ProductsIsACopy(t *testing.T) {
	c := New(sampleProducts())

	products := c.Products()
	products[0].Title = "changed"

	p, _ := c.Lookup("1")
	assert.Equal(t, "Winter Coat", p.Title)
}

func TestCatalog_Featured(t *testing.T) {
	c := New(sampleProducts())

	assert.Equal(t, []string{"1", "2", "3"}, ids(c.Featured(3)))
	assert.Len(t, c.Featured(50), 5)
	assert.Empty(t, c.Featured(-1))
}

func TestCatalog_QueryUsesFilterState(t *testing.T) {
	c := New(sampleProducts())

	got := c.Query(models.FilterState{Category: models.CategoryToys, SearchTerm: "train"})
	assert.Equal(t, []string{"4"}, ids(got))
}

func TestCatalog_Categories(t *testing.T) {
	c := New(nil)

	cats := c.Categories()
	assert.Equal(t, models.CategoryAll, cats[0])
	assert.Len(t, cats, 6)

	cats[0] = "mutated"
	assert.Equal(t, models.CategoryAll, c.Categories()[0])
}

func TestStaticLoader_EmbeddedMockCatalog(t *testing.T) {
	products, err := StaticLoader{}.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 6)

	first := products[0]
	assert.Equal(t, "1", first.ID)
	assert.Equal(t, "Children's Winter Clothes Bundle", first.Title)
	assert.True(t, first.Price.Equal(decimal.RequireFromString("15.99")))
	assert.True(t, first.OriginalPrice.Equal(decimal.RequireFromString("45.00")))
	assert.Equal(t, models.CategoryClothing, first.Category)
	assert.Equal(t, "Very Good", first.Condition)
	assert.Equal(t, 12, first.Reviews)
	assert.InDelta(t, 4.8, first.Rating, 0.0001)

	c, rejected := Ingest(products, nil)
	assert.Empty(t, rejected)
	assert.Equal(t, 6, c.Len())
}

func TestStaticLoader_CustomData(t *testing.T) {
	data := []byte(`
products:
  - id: "a"
    title: "Chess Board"
    price: "5.00"
    originalPrice: "9.00"
    category: Sports
`)
	products, err := StaticLoader{Data: data}.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, models.CategorySports, products[0].Category)
}

func TestStaticLoader_BadYAML(t *testing.T) {
	_, err := StaticLoader{Data: []byte("products: [")}.Load(context.Background())
	assert.Error(t, err)
}

func TestRemoteLoader_Load(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products", r.URL.Path)
		assert.Equal(t, "1000", r.URL.Query().Get("limit"))
		assert.Equal(t, "0", r.URL.Query().Get("skip"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"r1","title":"Football","price":7.5,"original_price":20,"category":"Sports",
			 "condition":"Good","image_url":"balls/football.jpg","location":"Lyon","donor_name":"Ana",
			 "rating":4.2,"reviews_count":3,"is_available":true},
			{"id":"r2","title":"Gone","price":1,"original_price":2,"category":"Toys","is_available":false}
		]`))
	}))
	defer srv.Close()

	products, err := NewRemoteLoader(srv.URL+"/", nil).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)

	p := products[0]
	assert.Equal(t, "r1", p.ID)
	assert.Equal(t, "Ana", p.Donor)
	assert.Equal(t, "balls/football.jpg", p.Image)
	assert.Equal(t, 3, p.Reviews)
	assert.Equal(t, "7.50", p.Price.StringFixed(2))
}

func remotePage(ids []string) string {
	items := make([]string, 0, len(ids))
	for _, id := range ids {
		items = append(items, fmt.Sprintf(`{"id":%q,"title":"item %s","price":1,"original_price":2,"category":"Toys"}`, id, id))
	}
	return "[" + strings.Join(items, ",") + "]"
}

func TestRemoteLoader_PagesBeyondLimit(t *testing.T) {
	all := []string{"a", "b", "c", "d", "e"}
	var (
		mu    sync.Mutex
		skips []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
		mu.Lock()
		skips = append(skips, r.URL.Query().Get("skip"))
		mu.Unlock()
		end := min(skip+limit, len(all))
		start := min(skip, len(all))
		_, _ = w.Write([]byte(remotePage(all[start:end])))
	}))
	defer srv.Close()

	l := NewRemoteLoader(srv.URL, nil)
	l.Limit = 2
	products, err := l.Load(context.Background())
	require.NoError(t, err)

	ids := []string{}
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, all, ids)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"0", "2", "4"}, skips)
}

func TestRemoteLoader_ServerIgnoringSkipStops(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(remotePage([]string{"a", "b"})))
	}))
	defer srv.Close()

	core, logs := observer.New(zap.WarnLevel)
	l := NewRemoteLoader(srv.URL, zap.New(core))
	l.Limit = 2
	products, err := l.Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, products, 2)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 1, logs.Len(), "truncation is reported")
}

func TestRemoteLoader_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewRemoteLoader(srv.URL, nil).Load(context.Background())
	assert.Error(t, err)
}

func TestRemoteLoader_MissingBaseURL(t *testing.T) {
	_, err := NewRemoteLoader("", nil).Load(context.Background())
	assert.Error(t, err)
}

func TestAPIPrefix(t *testing.T) {
	assert.Equal(t, "http://backend/api", APIPrefix("http://backend"))
	assert.Equal(t, "http://backend/api", APIPrefix("http://backend/"))
}

func TestLoad_IngestsThroughLoader(t *testing.T) {
	loader := LoaderFunc(func(ctx context.Context) ([]models.Product, error) {
		return sampleProducts(), nil
	})

	c, err := Load(context.Background(), loader, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 5, c.Len())

	failing := LoaderFunc(func(ctx context.Context) ([]models.Product, error) {
		return nil, errors.New("boom")
	})
	_, err = Load(context.Background(), failing, zap.NewNop())
	assert.Error(t, err)
}

func TestProduct_Savings(t *testing.T) {
	p := product("1", "Coat", models.CategoryClothing, "15.99")
	p.OriginalPrice = decimal.RequireFromString("45.00")
	assert.Equal(t, int64(64), p.Savings())

	p.OriginalPrice = decimal.Zero
	assert.Equal(t, int64(0), p.Savings())
}
