package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/marketplace/internal/models"
)

type ProductDoc struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	CategoryID  uint   `json:"category_id"`
}

func DocFromProduct(p *models.Product) ProductDoc {
	return ProductDoc{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		CategoryID:  p.CategoryID,
	}
}

// ProductIndex mirrors products into one Elasticsearch index.
type ProductIndex struct {
	Client *elasticsearch.Client
	Index  string
}

func (x *ProductIndex) Upsert(ctx context.Context, p *models.Product) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(DocFromProduct(p)); err != nil {
		return err
	}

	res, err := x.Client.Index(
		x.Index,
		&buf,
		x.Client.Index.WithContext(ctx),
		x.Client.Index.WithDocumentID(p.ID.String()),
	)
	if err != nil {
		return fmt.Errorf("index product: %w", err)
	}
	defer res.Body.Close()
	return responseError(res.IsError(), res.Status(), res.Body)
}

func (x *ProductIndex) Delete(ctx context.Context, id string) error {
	res, err := x.Client.Delete(x.Index, id, x.Client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete product doc: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	return responseError(res.IsError(), res.Status(), res.Body)
}

// Search returns matching product ids in relevance order and the total hit count.
func (x *ProductIndex) Search(ctx context.Context, query string, from, size int) (int64, []string, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(SearchBody(query, from, size)); err != nil {
		return 0, nil, err
	}

	res, err := x.Client.Search(
		x.Client.Search.WithContext(ctx),
		x.Client.Search.WithIndex(x.Index),
		x.Client.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if err := responseError(res.IsError(), res.Status(), res.Body); err != nil {
		return 0, nil, err
	}

	return decodeHits(res.Body)
}

func SearchBody(query string, from, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from":    from,
		"size":    size,
		"_source": []string{"id"},
	}
}

func decodeHits(body io.Reader) (int64, []string, error) {
	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]string, 0, len(r.Hits.Hits))
	for _, h := range r.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return r.Hits.Total.Value, ids, nil
}

func responseError(isError bool, status string, body io.Reader) error {
	if !isError {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(body, 1024))
	return fmt.Errorf("elasticsearch error %s: %s", status, bytes.TrimSpace(msg))
}
