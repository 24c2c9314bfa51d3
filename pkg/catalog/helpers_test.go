package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-catalog/pkg/domain"
	"github.com/adfharrison1/go-catalog/pkg/store"
)

func newTestCatalog(t *testing.T, opts ...CatalogOption) (*Catalog, *store.MockStore) {
	t.Helper()
	mockStore := store.NewMockStore()
	return NewCatalog(mockStore, opts...), mockStore
}

// seedOwner creates an owner with the given genres through the catalog itself
func seedOwner(t *testing.T, c *Catalog, name string, genres ...string) string {
	t.Helper()
	ctx := context.Background()
	id, err := c.CreateOwner(ctx, name)
	require.NoError(t, err)
	for _, g := range genres {
		require.NoError(t, c.CreateGenre(ctx, id, g))
	}
	return id
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func book(title, author string) domain.Document {
	return domain.Document{"title": title, "author": author}
}
