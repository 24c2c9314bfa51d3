package catalog

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sort"

	"github.com/adfharrison1/go-catalog/pkg/domain"
	"github.com/adfharrison1/go-catalog/pkg/metrics"
)

type bulkResponse struct {
	Errors *bool                       `json:"errors"`
	Items  []map[string]bulkItemResult `json:"items"`
}

type bulkItemResult struct {
	Status int `json:"status"`
	Error  *struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
}

// InterpretBulkResponse extracts the failed items of a bulk write, in
// submission order. Successful items are not reported; an empty slice means
// every item was stored. A response without an errors flag is Unknown.
func InterpretBulkResponse(raw []byte) ([]domain.FailureRecord, error) {
	var resp bulkResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		log.Printf("ERROR: Bulk response is not valid JSON: %v", err)
		return nil, domain.Unknown(0)
	}
	if resp.Errors == nil {
		return nil, domain.Unknown(0)
	}

	failures := []domain.FailureRecord{}
	if !*resp.Errors {
		return failures, nil
	}
	for position, item := range resp.Items {
		// each item holds a single action key: index, create, update or delete
		for _, result := range item {
			if result.Error == nil {
				continue
			}
			reason := result.Error.Reason
			if reason == "" {
				reason = result.Error.Type
			}
			failures = append(failures, domain.FailureRecord{
				Position: position,
				Reason:   reason,
				Status:   result.Status,
			})
		}
	}
	return failures, nil
}

// indexBooks checks every book against the Book schema, bulk-inserts the ones
// that pass and reports both kinds of rejection by position in books.
func (c *Catalog) indexBooks(ctx context.Context, collection string, books []domain.Document) ([]domain.FailureRecord, error) {
	failures := []domain.FailureRecord{}
	docs := make([]interface{}, 0, len(books))
	positions := make([]int, 0, len(books))
	for i, b := range books {
		if err := domain.ValidateBook(b); err != nil {
			failures = append(failures, domain.FailureRecord{Position: i, Reason: err.Error(), Status: http.StatusBadRequest})
			continue
		}
		docs = append(docs, b)
		positions = append(positions, i)
	}
	if len(failures) > 0 {
		metrics.BulkFailures.Add(float64(len(failures)))
		log.Printf("WARN: %d of %d books for '%s' failed validation", len(failures), len(books), collection)
	}
	if len(docs) == 0 {
		return failures, nil
	}

	stored, err := c.bulkIndex(ctx, collection, docs)
	if err != nil {
		return nil, err
	}
	for _, f := range stored {
		if f.Position >= 0 && f.Position < len(positions) {
			f.Position = positions[f.Position]
		}
		failures = append(failures, f)
	}
	sort.SliceStable(failures, func(i, j int) bool { return failures[i].Position < failures[j].Position })
	return failures, nil
}

// bulkIndex submits docs in one round-trip and interprets the per-item results.
func (c *Catalog) bulkIndex(ctx context.Context, collection string, docs []interface{}) ([]domain.FailureRecord, error) {
	resp, err := c.store.Bulk(ctx, collection, docs)
	if err != nil {
		log.Printf("ERROR: Bulk write to '%s' failed: %v", collection, err)
		return nil, domain.Unknown(0)
	}
	if !resp.IsSuccess() {
		if resp.StatusCode == http.StatusBadRequest {
			return nil, domain.BadRequest("")
		}
		return nil, domain.Unknown(resp.StatusCode)
	}

	failures, err := InterpretBulkResponse(resp.Body)
	if err != nil {
		return nil, err
	}
	metrics.BulkFailures.Add(float64(len(failures)))
	log.Printf("INFO: Bulk write to '%s': %d submitted, %d failed", collection, len(docs), len(failures))
	return failures, nil
}
