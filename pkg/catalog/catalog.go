package catalog

import (
	"golang.org/x/sync/singleflight"

	"github.com/adfharrison1/go-catalog/pkg/domain"
)

// Catalog implements owner, genre and book operations over a domain.Store.
// It holds no per-request state and is safe for concurrent use.
type Catalog struct {
	store        domain.Store
	maxPageSize  int
	genreMapping interface{}
	bootstrap    singleflight.Group
}

// NewCatalog creates a catalog backed by store
func NewCatalog(store domain.Store, opts ...CatalogOption) *Catalog {
	c := &Catalog{
		store:        store,
		genreMapping: DefaultGenreMapping(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultGenreMapping is the mapping every genre collection is created with:
// dynamic fields, and published_date parsed as a day-month-year date.
func DefaultGenreMapping() map[string]interface{} {
	return map[string]interface{}{
		"mappings": map[string]interface{}{
			"dynamic": "true",
			"properties": map[string]interface{}{
				"published_date": map[string]interface{}{
					"type":   "date",
					"format": domain.PublishedDateFormat,
				},
			},
		},
	}
}

// MaxPageSize is the largest page a search may ask for; 0 means unbounded.
func (c *Catalog) MaxPageSize() int {
	return c.maxPageSize
}
