package catalog

// CatalogOption configures a Catalog
type CatalogOption func(*Catalog)

// WithMaxPageSize rejects searches asking for more than n hits per page.
// 0 leaves the page size unbounded.
func WithMaxPageSize(n int) CatalogOption {
	return func(c *Catalog) {
		c.maxPageSize = n
	}
}

// WithGenreMapping replaces the mapping used when a genre collection is created
func WithGenreMapping(mapping interface{}) CatalogOption {
	return func(c *Catalog) {
		c.genreMapping = mapping
	}
}
