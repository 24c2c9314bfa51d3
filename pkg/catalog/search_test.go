package catalog

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-catalog/pkg/domain"
	"github.com/adfharrison1/go-catalog/pkg/store"
)

func seedLibrary(t *testing.T) (*Catalog, *store.MockStore, string) {
	t.Helper()
	ctx := context.Background()
	c, mockStore := newTestCatalog(t)
	ownerID := seedOwner(t, c, "Alice", "scifi", "drama")
	_, err := c.AddBooks(ctx, ownerID, "scifi", []domain.Document{
		book("Dune", "Frank Herbert"),
		book("Dune Messiah", "Frank Herbert"),
		book("Hyperion", "Dan Simmons"),
	})
	require.NoError(t, err)
	_, err = c.AddBooks(ctx, ownerID, "drama", []domain.Document{book("Hamlet", "William Shakespeare")})
	require.NoError(t, err)
	return c, mockStore, ownerID
}

func hitsOf(t *testing.T, result *SearchResult) []domain.Hit {
	t.Helper()
	var hits []domain.Hit
	require.NoError(t, json.Unmarshal(result.Data, &hits))
	return hits
}

func TestSearch_UnscopedFallsBackToWholeNamespace(t *testing.T) {
	ctx := context.Background()
	c, mockStore, ownerID := seedLibrary(t)

	for _, genre := range []string{"", "*"} {
		mockStore.ResetOperations()
		result, err := c.Search(ctx, ownerID, SearchRequest{Genre: genre})
		require.NoError(t, err)
		assert.Equal(t, int64(4), result.Total)
		assert.Len(t, hitsOf(t, result), 4)
		assert.Contains(t, mockStore.Operations(), "search "+domain.Resolve(ownerID, "*"))
	}
}

func TestSearch_ExplicitMissingGenreFails(t *testing.T) {
	ctx := context.Background()
	c, _, ownerID := seedLibrary(t)

	_, err := c.Search(ctx, ownerID, SearchRequest{Genre: "horror"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGenreNotFound)
	assert.Equal(t, "Cannot find genre: horror", err.Error())
}

func TestSearch_MissingOwnerFailsEvenUnscoped(t *testing.T) {
	ctx := context.Background()
	c, _, _ := seedLibrary(t)

	_, err := c.Search(ctx, "nobody", SearchRequest{})
	assert.ErrorIs(t, err, domain.ErrOwnerNotFound)
}

func TestSearch_Unreachable(t *testing.T) {
	ctx := context.Background()
	c, mockStore, ownerID := seedLibrary(t)
	mockStore.SetUnreachable(true)

	_, err := c.Search(ctx, ownerID, SearchRequest{Genre: "scifi", Term: "dune"})
	assert.ErrorIs(t, err, domain.ErrServerUnavailable)
}

func TestSearch_PrefixTerm(t *testing.T) {
	ctx := context.Background()
	c, _, ownerID := seedLibrary(t)

	result, err := c.Search(ctx, ownerID, SearchRequest{Genre: "SCIFI", Term: "Dun"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)

	result, err = c.Search(ctx, ownerID, SearchRequest{Term: "ham", Fields: "title", ReturnFields: "title"})
	require.NoError(t, err)
	hits := hitsOf(t, result)
	require.Len(t, hits, 1)
	assert.JSONEq(t, `{"title":"Hamlet"}`, string(hits[0].Source))
}

func TestSearch_PaginationEcho(t *testing.T) {
	ctx := context.Background()
	c, _, ownerID := seedLibrary(t)

	result, err := c.Search(ctx, ownerID, SearchRequest{Genre: "scifi", From: intPtr(10), Count: intPtr(5)})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Total)
	assert.Equal(t, 10, result.From)
	assert.Equal(t, 5, result.Count)
	assert.Empty(t, hitsOf(t, result))

	data, err := json.Marshal(result)
	require.NoError(t, err)
	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &envelope))
	for _, key := range []string{"took", "data", "total", "from", "count"} {
		assert.Contains(t, envelope, key)
	}
}

func TestSearch_MaxPageSize(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCatalog(t, WithMaxPageSize(10))
	ownerID := seedOwner(t, c, "Alice", "scifi")

	_, err := c.Search(ctx, ownerID, SearchRequest{Count: intPtr(11)})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestSearch_DanglingRegistryGenre(t *testing.T) {
	ctx := context.Background()
	c, mockStore, ownerID := seedLibrary(t)
	mockStore.RemoveCollection(domain.Resolve(ownerID, "drama"))

	_, err := c.Search(ctx, ownerID, SearchRequest{Genre: "drama"})
	assert.ErrorIs(t, err, domain.ErrGenreNotFound)
}
