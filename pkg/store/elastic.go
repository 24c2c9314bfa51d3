package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/adfharrison1/go-catalog/pkg/domain"
	"github.com/adfharrison1/go-catalog/pkg/metrics"
)

// Config holds connection settings for the Elasticsearch cluster
type Config struct {
	Addresses []string
	Username  string
	Password  string
}

// ElasticStore implements domain.Store on top of the official Elasticsearch client.
// The underlying client is safe for concurrent use, so one ElasticStore is shared
// by every request.
type ElasticStore struct {
	es *elasticsearch.Client
}

// NewElasticStore creates a store client. Retries are disabled: a failed call is
// reported once and never re-submitted.
func NewElasticStore(cfg Config) (*ElasticStore, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:    cfg.Addresses,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DisableRetry: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return &ElasticStore{es: es}, nil
}

// do executes one esapi call, drains its body and records the outcome.
func (s *ElasticStore) do(op string, res *esapi.Response, err error) (*domain.Response, error) {
	if err != nil {
		metrics.ObserveStore(op, 0, err)
		return nil, fmt.Errorf("%s request failed: %w", op, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		metrics.ObserveStore(op, 0, err)
		return nil, fmt.Errorf("failed to read %s response: %w", op, err)
	}

	metrics.ObserveStore(op, res.StatusCode, nil)
	return &domain.Response{StatusCode: res.StatusCode, Body: body}, nil
}

func encode(v interface{}) (io.Reader, error) {
	if raw, ok := v.(json.RawMessage); ok {
		return bytes.NewReader(raw), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return bytes.NewReader(data), nil
}

// Index stores a single document under a store-assigned id
func (s *ElasticStore) Index(ctx context.Context, collection string, doc interface{}) (*domain.Response, error) {
	body, err := encode(doc)
	if err != nil {
		return nil, err
	}
	res, err := s.es.Index(collection, body, s.es.Index.WithContext(ctx))
	return s.do("index", res, err)
}

// Create stores a document under a caller-chosen id, failing with 409 when it exists
func (s *ElasticStore) Create(ctx context.Context, collection, id string, doc interface{}) (*domain.Response, error) {
	body, err := encode(doc)
	if err != nil {
		return nil, err
	}
	res, err := s.es.Create(collection, id, body, s.es.Create.WithContext(ctx))
	return s.do("create", res, err)
}

// Get returns the source of one document. An empty field list, or "*", returns every field.
func (s *ElasticStore) Get(ctx context.Context, collection, id string, fields []string) (*domain.Response, error) {
	opts := []func(*esapi.GetSourceRequest){s.es.GetSource.WithContext(ctx)}
	if len(fields) > 0 {
		opts = append(opts, s.es.GetSource.WithSourceIncludes(fields...))
	}
	res, err := s.es.GetSource(collection, id, opts...)
	return s.do("get", res, err)
}

// Update merges patch into the stored document; only supplied fields change.
func (s *ElasticStore) Update(ctx context.Context, collection, id string, patch interface{}) (*domain.Response, error) {
	body, err := encode(map[string]interface{}{"doc": patch})
	if err != nil {
		return nil, err
	}
	res, err := s.es.Update(collection, id, body, s.es.Update.WithContext(ctx))
	return s.do("update", res, err)
}

func (s *ElasticStore) Delete(ctx context.Context, collection, id string) (*domain.Response, error) {
	res, err := s.es.Delete(collection, id, s.es.Delete.WithContext(ctx))
	return s.do("delete", res, err)
}

// Bulk indexes docs in one round-trip. Per-item results come back in submission order.
func (s *ElasticStore) Bulk(ctx context.Context, collection string, docs []interface{}) (*domain.Response, error) {
	var buf bytes.Buffer
	for i, doc := range docs {
		buf.WriteString(`{"index":{}}` + "\n")
		data, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to encode bulk item %d: %w", i, err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}
	res, err := s.es.Bulk(&buf, s.es.Bulk.WithIndex(collection), s.es.Bulk.WithContext(ctx))
	return s.do("bulk", res, err)
}

// Search runs body against collection (which may be a wildcard pattern).
func (s *ElasticStore) Search(ctx context.Context, collection string, body interface{}, from, size int) (*domain.Response, error) {
	r, err := encode(body)
	if err != nil {
		return nil, err
	}
	res, err := s.es.Search(
		s.es.Search.WithContext(ctx),
		s.es.Search.WithIndex(collection),
		s.es.Search.WithBody(r),
		s.es.Search.WithFrom(from),
		s.es.Search.WithSize(size),
	)
	return s.do("search", res, err)
}

// CollectionExists answers 200 when the collection exists and 404 when it does not.
func (s *ElasticStore) CollectionExists(ctx context.Context, collection string) (*domain.Response, error) {
	res, err := s.es.Indices.Exists([]string{collection}, s.es.Indices.Exists.WithContext(ctx))
	return s.do("exists", res, err)
}

// CollectionStats returns the JSON rows of the cat indices API for pattern.
func (s *ElasticStore) CollectionStats(ctx context.Context, pattern string) (*domain.Response, error) {
	res, err := s.es.Cat.Indices(
		s.es.Cat.Indices.WithContext(ctx),
		s.es.Cat.Indices.WithIndex(strings.TrimSpace(pattern)),
		s.es.Cat.Indices.WithFormat("json"),
	)
	return s.do("stats", res, err)
}

func (s *ElasticStore) CreateCollection(ctx context.Context, collection string, body interface{}) (*domain.Response, error) {
	opts := []func(*esapi.IndicesCreateRequest){s.es.Indices.Create.WithContext(ctx)}
	if body != nil {
		r, err := encode(body)
		if err != nil {
			return nil, err
		}
		opts = append(opts, s.es.Indices.Create.WithBody(r))
	}
	res, err := s.es.Indices.Create(collection, opts...)
	return s.do("create_collection", res, err)
}

func (s *ElasticStore) DeleteCollection(ctx context.Context, collection string) (*domain.Response, error) {
	res, err := s.es.Indices.Delete([]string{collection}, s.es.Indices.Delete.WithContext(ctx))
	return s.do("delete_collection", res, err)
}
