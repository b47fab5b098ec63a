package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"charityfinds/internal/models"
)

type fakeElastic struct {
	mu      sync.Mutex
	indexed map[string]models.Product
	cleared bool
	pages   []string
}

func (f *fakeElastic) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/_search/scroll"):
		f.cleared = true
		io.WriteString(w, `{"succeeded":true}`)
	case strings.HasSuffix(r.URL.Path, "/_search") || strings.HasPrefix(r.URL.Path, "/_search/scroll"):
		page := `{"_scroll_id":"s1","hits":{"hits":[]}}`
		if len(f.pages) > 0 {
			page, f.pages = f.pages[0], f.pages[1:]
		}
		io.WriteString(w, page)
	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/products/_doc/"):
		var p models.Product
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.indexed[p.ID] = p
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"result":"created"}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{}`)
	}
}

func newFakeIndex(t *testing.T, pages ...string) (*ProductIndex, *fakeElastic) {
	t.Helper()
	fake := &fakeElastic{indexed: map[string]models.Product{}, pages: pages}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewProductIndex(client, "", nil), fake
}

func TestProductIndex_LoadScrollsAllPages(t *testing.T) {
	idx, fake := newFakeIndex(t,
		`{"_scroll_id":"s1","hits":{"hits":[
			{"_id":"1","_source":{"id":"1","title":"Winter Coat","price":"15.99","originalPrice":"45.00","category":"Clothing"}},
			{"_id":"2","_source":{"title":"Lego Set","price":8.5,"originalPrice":25,"category":"Toys"}}]}}`,
		`{"_scroll_id":"s1","hits":{"hits":[
			{"_id":"3","_source":{"id":"3","title":"Book Collection","price":"12.00","originalPrice":"35.00","category":"Books"}}]}}`,
	)

	products, err := idx.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)

	assert.Equal(t, "Winter Coat", products[0].Title)
	assert.Equal(t, "2", products[1].ID, "document id fills a missing product id")
	assert.True(t, products[1].Price.Equal(decimal.RequireFromString("8.50")))
	assert.Equal(t, models.CategoryBooks, products[2].Category)
	assert.True(t, fake.cleared)
}

func TestProductIndex_LoadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error":"index_not_found_exception"}`)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	_, err = NewProductIndex(client, "missing", nil).Load(context.Background())
	assert.Error(t, err)
}

func TestProductIndex_NilClient(t *testing.T) {
	idx := NewProductIndex(nil, "", nil)
	_, err := idx.Load(context.Background())
	assert.Error(t, err)
	assert.Error(t, idx.IndexProducts(context.Background(), nil))
}

func TestProductIndex_IndexProducts(t *testing.T) {
	idx, fake := newFakeIndex(t)
	products := []models.Product{
		{ID: "1", Title: "Winter Coat", Price: decimal.RequireFromString("15.99")},
		{ID: "2", Title: "Lego Set", Price: decimal.RequireFromString("8.50")},
	}

	require.NoError(t, idx.IndexProducts(context.Background(), products))

	require.Len(t, fake.indexed, 2)
	assert.Equal(t, "Lego Set", fake.indexed["2"].Title)
	assert.Equal(t, DefaultProductIndex, idx.Index)
}
