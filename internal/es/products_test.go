package es

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/marketplace/internal/models"
)

func newTestIndex(t *testing.T, h http.HandlerFunc) *ProductIndex {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return &ProductIndex{Client: client, Index: "products"}
}

func TestSearchBody(t *testing.T) {
	t.Parallel()

	body := SearchBody("phone", 20, 10)
	assert.Equal(t, 20, body["from"])
	assert.Equal(t, 10, body["size"])

	mm := body["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "phone", mm["query"])
	assert.Equal(t, []string{"name^2", "description"}, mm["fields"])
}

func TestDecodeHits(t *testing.T) {
	t.Parallel()

	total, ids, err := decodeHits(strings.NewReader(`{"hits":{"total":{"value":7},"hits":[{"_id":"a"},{"_id":"b"}]}}`))
	require.NoError(t, err)
	assert.EqualValues(t, 7, total)
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestProductIndex_Upsert(t *testing.T) {
	t.Parallel()

	p := &models.Product{ID: uuid.New(), Name: "phone", Description: "smart", Price: 100, CategoryID: 2}

	var gotPath string
	var gotDoc ProductDoc
	x := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotDoc)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	require.NoError(t, x.Upsert(context.Background(), p))
	assert.Equal(t, "/products/_doc/"+p.ID.String(), gotPath)
	assert.Equal(t, DocFromProduct(p), gotDoc)
}

func TestProductIndex_DeleteMissingIsNotError(t *testing.T) {
	t.Parallel()

	x := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"result":"not_found"}`))
	})

	require.NoError(t, x.Delete(context.Background(), uuid.NewString()))
}

func TestProductIndex_SearchError(t *testing.T) {
	t.Parallel()

	x := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	})

	_, _, err := x.Search(context.Background(), "phone", 0, 10)
	require.Error(t, err)
}
