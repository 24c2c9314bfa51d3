package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/adfharrison1/go-catalog/pkg/domain"
)

// SearchRequest is a book search within one owner's namespace.
type SearchRequest struct {
	// Genre scopes the search; empty or "*" searches every genre of the owner.
	Genre        string `json:"genre"`
	Term         string `json:"search_term"`
	Fields       string `json:"search_fields"`
	ReturnFields string `json:"return_fields"`
	Exact        bool   `json:"exact"`
	From         *int   `json:"from"`
	Count        *int   `json:"count"`
}

// SearchResult is the search response envelope
type SearchResult struct {
	Took  int64           `json:"took"`
	Data  json.RawMessage `json:"data"`
	Total int64           `json:"total"`
	From  int             `json:"from"`
	Count int             `json:"count"`
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits json.RawMessage `json:"hits"`
	} `json:"hits"`
}

// NewPage builds a page bounded by the catalog's max page size
func (c *Catalog) NewPage(from, count *int) (Page, error) {
	return NewPage(from, count, c.maxPageSize)
}

// Search finds books of an owner. An explicit genre must exist; without one,
// the owner's whole namespace is searched even though no genre matched.
func (c *Catalog) Search(ctx context.Context, ownerID string, req SearchRequest) (*SearchResult, error) {
	start := time.Now()

	genre := strings.ToLower(strings.TrimSpace(req.Genre))
	scoped := !domain.IsAllGenres(genre)
	if !scoped {
		genre = domain.AllGenres
	}

	if _, err := c.EnsureReachableOwnerGenre(ctx, ownerID, genre); err != nil {
		if scoped || !errors.Is(err, domain.ErrGenreNotFound) {
			return nil, err
		}
	}

	page, err := c.NewPage(req.From, req.Count)
	if err != nil {
		return nil, err
	}

	body := BuildQuery(SearchOptions{
		Term:         req.Term,
		Fields:       fieldList(req.Fields),
		ReturnFields: req.ReturnFields,
		Exact:        req.Exact,
	})
	collection := domain.Resolve(ownerID, genre)
	result, err := c.search(ctx, collection, body, page)
	if err != nil {
		if err == errMissingCollection {
			log.Printf("WARN: Registry lists genre '%s' for owner '%s' but collection '%s' does not exist", genre, ownerID, collection)
			return nil, domain.GenreNotFound(genre)
		}
		return nil, err
	}
	result.Took = time.Since(start).Milliseconds()
	return result, nil
}

// errMissingCollection is returned by search when a concrete collection does not exist
var errMissingCollection = domain.Unknown(http.StatusNotFound)

// search runs body against collection and fills the envelope except Took.
func (c *Catalog) search(ctx context.Context, collection string, body QueryBody, page Page) (*SearchResult, error) {
	resp, err := c.store.Search(ctx, collection, body, page.From, page.Count)
	if err != nil {
		log.Printf("ERROR: Searching '%s' failed: %v", collection, err)
		return nil, domain.Unknown(0)
	}
	if !resp.IsSuccess() {
		switch resp.StatusCode {
		case http.StatusBadRequest:
			return nil, domain.BadRequest("")
		case http.StatusNotFound:
			return nil, errMissingCollection
		default:
			return nil, domain.Unknown(resp.StatusCode)
		}
	}

	var sr searchResponse
	if err := resp.Decode(&sr); err != nil {
		return nil, domain.Unknown(0)
	}
	data := sr.Hits.Hits
	if len(data) == 0 || string(data) == "null" {
		data = json.RawMessage("[]")
	}
	return &SearchResult{
		Data:  data,
		Total: sr.Hits.Total.Value,
		From:  page.From,
		Count: page.Count,
	}, nil
}

// fieldList parses a comma-joined search field list; empty means all fields.
func fieldList(fields string) []string {
	var out []string
	for _, f := range strings.Split(fields, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
