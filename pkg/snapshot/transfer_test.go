package snapshot

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-catalog/pkg/catalog"
	"github.com/adfharrison1/go-catalog/pkg/domain"
	"github.com/adfharrison1/go-catalog/pkg/store"
)

func seedCatalog(t *testing.T, c *catalog.Catalog, books int) string {
	t.Helper()
	ctx := context.Background()
	id, err := c.CreateOwner(ctx, "Alice")
	require.NoError(t, err)
	require.NoError(t, c.CreateGenre(ctx, id, "scifi"))
	require.NoError(t, c.CreateGenre(ctx, id, "drama"))

	docs := make([]domain.Document, books)
	for i := range docs {
		docs[i] = domain.Document{"title": fmt.Sprintf("Book %d", i)}
	}
	failures, err := c.AddBooks(ctx, id, "scifi", docs)
	require.NoError(t, err)
	require.Empty(t, failures)
	return id
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	mockStore := store.NewMockStore()
	// a small page size forces export to page through the genre
	c := catalog.NewCatalog(mockStore, catalog.WithMaxPageSize(7))
	ownerID := seedCatalog(t, c, 30)

	snap, err := Export(ctx, c, ownerID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", snap.OwnerName)
	assert.Equal(t, []string{"drama", "scifi"}, snap.GenreNames())
	assert.Len(t, snap.Genres["scifi"], 30)
	assert.Empty(t, snap.Genres["drama"])

	report, err := Import(ctx, c, snap)
	require.NoError(t, err)
	assert.NotEqual(t, ownerID, report.OwnerID)
	assert.Equal(t, 2, report.Genres)
	assert.Equal(t, 30, report.Books)
	assert.Empty(t, report.Failures)
	assert.Equal(t, 30, mockStore.DocumentCount(domain.Resolve(report.OwnerID, "scifi")))

	owner, err := c.GetOwner(ctx, report.OwnerID)
	require.NoError(t, err)
	assert.Equal(t, []string{"drama", "scifi"}, owner.Genres)
}

func TestImport_ReportsBulkFailures(t *testing.T) {
	ctx := context.Background()
	mockStore := store.NewMockStore()
	c := catalog.NewCatalog(mockStore)
	mockStore.FailBulkItem(2, store.BulkItemError{Type: "mapper_parsing_exception", Reason: "bad field", Status: http.StatusBadRequest})

	report, err := Import(ctx, c, sampleSnapshot(5))
	require.NoError(t, err)
	assert.Equal(t, 4, report.Books)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, 2, report.Failures[0].Position)
}

func TestExport_UnknownOwner(t *testing.T) {
	c := catalog.NewCatalog(store.NewMockStore())

	_, err := Export(context.Background(), c, "nobody")
	assert.ErrorIs(t, err, domain.ErrOwnerNotFound)
}
