package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/alnnovate/academy/internal/domain/entity"
	"github.com/alnnovate/academy/internal/domain/repository"
)

const indexMapping = `{
  "mappings": {
    "properties": {
      "id":         {"type": "keyword"},
      "email":      {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "full_name":  {"type": "text"},
      "role":       {"type": "keyword"},
      "verified":   {"type": "boolean"},
      "created_at": {"type": "date"}
    }
  }
}`

// StudentIndex keeps a searchable copy of accounts in Elasticsearch.
type StudentIndex struct {
	es      *elasticsearch.Client
	index   string
	timeout time.Duration
}

func NewStudentIndex(es *elasticsearch.Client, index string) *StudentIndex {
	return &StudentIndex{es: es, index: index, timeout: 3 * time.Second}
}

type studentDoc struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Role      string `json:"role"`
	Verified  bool   `json:"verified"`
	CreatedAt string `json:"created_at,omitempty"`
}

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (s *StudentIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.es.Indices.Exists([]string{s.index}, s.es.Indices.Exists.WithContext(c))
	if err != nil {
		return err
	}
	_ = res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = s.es.Indices.Create(s.index,
		s.es.Indices.Create.WithContext(c),
		s.es.Indices.Create.WithBody(bytes.NewReader([]byte(indexMapping))),
	)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusBadRequest {
		return fmt.Errorf("create index %s: %s", s.index, res.Status())
	}
	return nil
}

func (s *StudentIndex) Index(ctx context.Context, a *entity.Account) error {
	doc := studentDoc{
		ID:       a.ID,
		Email:    a.Email,
		FullName: a.FullName,
		Role:     string(a.Role),
		Verified: a.Verified,
	}
	if !a.CreatedAt.IsZero() {
		doc.CreatedAt = a.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	c, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req := esapi.IndexRequest{Index: s.index, DocumentID: a.ID, Body: bytes.NewReader(b), Refresh: "false"}
	res, err := req.Do(c, s.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index account %s: %s", a.ID, res.Status())
	}
	return nil
}

func searchQuery(q string, size int) map[string]any {
	return map[string]any{
		"size": size,
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":     q,
						"fields":    []string{"email^2", "full_name"},
						"fuzziness": "AUTO",
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"role": string(entity.RoleStudent)},
				},
			},
		},
	}
}

// Search runs a multi_match over email and name restricted to students.
func (s *StudentIndex) Search(ctx context.Context, q string, size int) ([]repository.StudentHit, error) {
	b, err := json.Marshal(searchQuery(q, size))
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.es.Search(
		s.es.Search.WithContext(c),
		s.es.Search.WithIndex(s.index),
		s.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("search %s: %s", s.index, res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string     `json:"_id"`
				Source studentDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]repository.StudentHit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		id := h.Source.ID
		if id == "" {
			id = h.ID
		}
		out = append(out, repository.StudentHit{
			ID:       id,
			Email:    h.Source.Email,
			FullName: h.Source.FullName,
			Role:     h.Source.Role,
			Verified: h.Source.Verified,
		})
	}
	return out, nil
}

var _ repository.StudentIndex = (*StudentIndex)(nil)
