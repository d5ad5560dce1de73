package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/gracegather/community-api/internal/domain/entity"
)

// ArticleSearch mirrors published articles into Elasticsearch. Indexing is
// best effort; the SQL store stays the source of truth and ILIKE search takes
// over when ES is disabled.
type ArticleSearch struct {
	ES     *elasticsearch.Client
	Index  string
	Logger *logrus.Logger
}

func (s *ArticleSearch) enabled() bool {
	return s != nil && s.ES != nil && s.Index != ""
}

func (s *ArticleSearch) IndexArticle(ctx context.Context, a *entity.Article) {
	if !s.enabled() {
		return
	}
	doc := map[string]any{
		"id":         a.ID,
		"title":      a.Title,
		"slug":       a.Slug,
		"excerpt":    a.Excerpt,
		"content":    a.Content,
		"category":   a.Category,
		"status":     a.Status,
		"author_id":  a.AuthorID,
		"created_at": a.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{
		Index:      s.Index,
		DocumentID: strconv.FormatInt(a.ID, 10),
		Body:       strings.NewReader(string(b)),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("article_id", a.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("article_id", a.ID).Warn("es index response error")
	}
}

func (s *ArticleSearch) DeleteArticle(ctx context.Context, id int64) {
	if !s.enabled() {
		return
	}
	req := esapi.DeleteRequest{Index: s.Index, DocumentID: strconv.FormatInt(id, 10)}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("article_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search returns matching article IDs ranked by relevance plus the total hit
// count. Title matches outrank content matches; category and status narrow
// the hits when set, and page/limit ride in the query so ES paginates the
// same way the SQL path does.
func (s *ArticleSearch) Search(ctx context.Context, q, category, status string, page, limit int) ([]int64, int64, error) {
	if !s.enabled() {
		return nil, 0, nil
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}
	filters := []map[string]any{}
	if category != "" {
		filters = append(filters, map[string]any{"term": map[string]any{"category.keyword": category}})
	}
	if status != "" {
		filters = append(filters, map[string]any{"term": map[string]any{"status.keyword": status}})
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"title^2", "excerpt", "content"},
					},
				},
				"filter": filters,
			},
		},
		"from":             (page - 1) * limit,
		"size":             limit,
		"track_total_hits": true,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.Index),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, 0, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, 0, err
	}
	out := make([]int64, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		if id, convErr := strconv.ParseInt(h.ID, 10, 64); convErr == nil {
			out = append(out, id)
		}
	}
	return out, parsed.Hits.Total.Value, nil
}
