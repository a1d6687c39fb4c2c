package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/jsonplaceholder-api/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

// UserIndex mirrors users into an Elasticsearch index for full text search.
type UserIndex struct {
	ES        *elasticsearch.Client
	IndexName string
}

func NewUserIndex(es *elasticsearch.Client, index string) *UserIndex {
	return &UserIndex{ES: es, IndexName: index}
}

// document is the flattened shape stored in the index.
func document(u *entity.User) map[string]any {
	doc := map[string]any{
		"id":       u.ID,
		"name":     u.Name,
		"username": u.Username,
		"email":    u.Email,
		"phone":    u.Phone,
		"website":  u.Website,
	}
	if u.Address != nil {
		doc["city"] = u.Address.City
	}
	if u.Company != nil {
		doc["company"] = u.Company.Name
	}
	return doc
}

func (x *UserIndex) Index(ctx context.Context, u *entity.User) error {
	b, err := json.Marshal(document(u))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{
		Index:      x.IndexName,
		DocumentID: strconv.FormatInt(u.ID, 10),
		Body:       bytes.NewReader(b),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

func (x *UserIndex) Remove(ctx context.Context, id int64) error {
	req := esapi.DeleteRequest{Index: x.IndexName, DocumentID: strconv.FormatInt(id, 10)}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	// a missing document is already removed
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("es delete: %s", res.Status())
	}
	return nil
}

// Search runs a multi_match query over the text fields of the index.
func (x *UserIndex) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	b, err := json.Marshal(searchQuery(q, size))
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.ES.Search(
		x.ES.Search.WithContext(c),
		x.ES.Search.WithIndex(x.IndexName),
		x.ES.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		// searching before the first document was indexed
		if res.StatusCode == 404 {
			return []map[string]any{}, nil
		}
		return nil, fmt.Errorf("es search: %s", res.Status())
	}
	return decodeHits(res.Body)
}

func searchQuery(q string, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"username^3", "email^2", "name^2", "company", "city", "website"},
			},
		},
		"size": size,
	}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string         `json:"_id"`
			Source map[string]any `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func decodeHits(r io.Reader) ([]map[string]any, error) {
	var parsed searchResponse
	if err := json.NewDecoder(r).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
