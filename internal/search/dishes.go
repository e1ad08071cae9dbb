package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/restaurant_web/internal/util"
	"github.com/Skotchmaster/restaurant_web/pkg/apiclient"
)

type Index interface {
	Reindex(ctx context.Context, dishes []apiclient.Dish) error
	Delete(ctx context.Context, id int) error
	Search(ctx context.Context, query string, page, size int) (int64, []int, error)
}

type dishDoc struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	CategoryName string `json:"category_name"`
	Price        string `json:"price"`
}

type DishIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewDishIndex(es *elasticsearch.Client, index string) *DishIndex {
	return &DishIndex{es: es, index: index}
}

// Reindex upserts every dish with one bulk request.
func (d *DishIndex) Reindex(ctx context.Context, dishes []apiclient.Dish) error {
	if len(dishes) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, dish := range dishes {
		meta := map[string]any{"index": map[string]any{"_index": d.index, "_id": strconv.Itoa(dish.ID)}}
		if err := enc.Encode(meta); err != nil {
			return fmt.Errorf("encode bulk meta: %w", err)
		}
		doc := dishDoc{
			ID:           dish.ID,
			Name:         dish.Name,
			Description:  dish.Description,
			CategoryName: dish.CategoryName,
			Price:        dish.Price.StringFixed(2),
		}
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode bulk doc: %w", err)
		}
	}

	res, err := d.es.Bulk(
		bytes.NewReader(buf.Bytes()),
		d.es.Bulk.WithContext(ctx),
		d.es.Bulk.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("bulk index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("bulk index: %s", res.Status())
	}

	var out struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode bulk response: %w", err)
	}
	if out.Errors {
		return fmt.Errorf("bulk index: some documents were rejected")
	}
	return nil
}

func (d *DishIndex) Delete(ctx context.Context, id int) error {
	res, err := d.es.Delete(d.index, strconv.Itoa(id), d.es.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete doc: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete doc: %s", res.Status())
	}
	return nil
}

// Search returns matching dish ids, best match first.
func (d *DishIndex) Search(ctx context.Context, query string, page, size int) (int64, []int, error) {
	from, limit := util.Calculate(page, size)
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "description", "category_name"},
				"fuzziness": "AUTO",
			},
		},
		"_source": []string{"id"},
		"from":    from,
		"size":    limit,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("encode query: %w", err)
	}

	res, err := d.es.Search(
		d.es.Search.WithContext(ctx),
		d.es.Search.WithIndex(d.index),
		d.es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return 0, nil, fmt.Errorf("search: %s: %s", res.Status(), msg)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source dishDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]int, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		ids[i] = hit.Source.ID
	}
	return r.Hits.Total.Value, ids, nil
}

// Filter is the in-process fallback: a case-insensitive substring match on
// name, description and category.
func Filter(dishes []apiclient.Dish, query string) []apiclient.Dish {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return dishes
	}
	out := make([]apiclient.Dish, 0, len(dishes))
	for _, d := range dishes {
		if strings.Contains(strings.ToLower(d.Name), q) ||
			strings.Contains(strings.ToLower(d.Description), q) ||
			strings.Contains(strings.ToLower(d.CategoryName), q) {
			out = append(out, d)
		}
	}
	return out
}

// OrderByIDs keeps the dishes named in ids, in the order of ids.
func OrderByIDs(dishes []apiclient.Dish, ids []int) []apiclient.Dish {
	byID := make(map[int]apiclient.Dish, len(dishes))
	for _, d := range dishes {
		byID[d.ID] = d
	}
	out := make([]apiclient.Dish, 0, len(ids))
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			out = append(out, d)
		}
	}
	return out
}
