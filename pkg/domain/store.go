package domain

import (
	"context"
	"encoding/json"
	"fmt"
)

// Response is the status and body the store answered with.
type Response struct {
	StatusCode int
	Body       []byte
}

// IsSuccess reports a 2xx status
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v interface{}) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode store response: %w", err)
	}
	return nil
}

// Store is the document store the catalog talks to. A returned error is a
// transport failure; any answer from the store, including 4xx/5xx, is a Response.
// Implementations must be safe for concurrent use.
type Store interface {
	Index(ctx context.Context, collection string, doc interface{}) (*Response, error)
	// Create stores doc under id and answers 409 if the id is taken.
	Create(ctx context.Context, collection, id string, doc interface{}) (*Response, error)
	Get(ctx context.Context, collection, id string, fields []string) (*Response, error)
	Update(ctx context.Context, collection, id string, patch interface{}) (*Response, error)
	Delete(ctx context.Context, collection, id string) (*Response, error)
	Bulk(ctx context.Context, collection string, docs []interface{}) (*Response, error)
	Search(ctx context.Context, collection string, body interface{}, from, size int) (*Response, error)
	CollectionExists(ctx context.Context, collection string) (*Response, error)
	CollectionStats(ctx context.Context, pattern string) (*Response, error)
	CreateCollection(ctx context.Context, collection string, body interface{}) (*Response, error)
	DeleteCollection(ctx context.Context, collection string) (*Response, error)
}
