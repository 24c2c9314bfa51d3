package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-catalog/pkg/domain"
)

func TestCreateGenre(t *testing.T) {
	ctx := context.Background()
	c, mockStore := newTestCatalog(t)
	ownerID := seedOwner(t, c, "Alice")

	require.NoError(t, c.CreateGenre(ctx, ownerID, "SciFi"))
	assert.True(t, mockStore.HasCollection(domain.Resolve(ownerID, "scifi")))

	owner, err := c.GetOwner(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, []string{"scifi"}, owner.Genres)

	err = c.CreateGenre(ctx, ownerID, "scifi")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGenreAlreadyExists)
	assert.Equal(t, "Genre already exists: scifi", err.Error())
}

func TestCreateGenre_Validation(t *testing.T) {
	ctx := context.Background()
	c, mockStore := newTestCatalog(t)
	ownerID := seedOwner(t, c, "Alice")

	for _, name := range []string{"", "sci fi", "sci*fi", "_hidden", "a/b", "..", "x,y"} {
		t.Run(name, func(t *testing.T) {
			err := c.CreateGenre(ctx, ownerID, name)
			assert.ErrorIs(t, err, domain.ErrBadRequest)
		})
	}
	assert.False(t, mockStore.HasCollection(domain.Resolve(ownerID, "sci fi")))

	assert.ErrorIs(t, c.CreateGenre(ctx, "missing", "scifi"), domain.ErrOwnerNotFound)
}

func TestCreateGenre_RejectsOwnerIDUnfitForCollectionName(t *testing.T) {
	ctx := context.Background()
	c, mockStore := newTestCatalog(t)

	for _, ownerID := range []string{"_Xy9kQ", "-abc", "+abc"} {
		t.Run(ownerID, func(t *testing.T) {
			mockStore.Put(domain.RegistryCollection, ownerID, domain.Document{"name": "legacy", "genres": []interface{}{}})
			mockStore.ResetOperations()

			err := c.CreateGenre(ctx, ownerID, "scifi")
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrBadRequest)
			for _, op := range mockStore.Operations() {
				assert.NotContains(t, op, "create_collection")
				assert.NotContains(t, op, "update")
			}
		})
	}
}

func TestCreateGenre_AdoptsDanglingCollection(t *testing.T) {
	ctx := context.Background()
	c, mockStore := newTestCatalog(t)
	ownerID := seedOwner(t, c, "Alice")
	collection := domain.Resolve(ownerID, "poetry")
	mockStore.Put(collection, "b1", book("Leaves of Grass", "Walt Whitman"))
	mockStore.ResetOperations()

	require.NoError(t, c.CreateGenre(ctx, ownerID, "poetry"))
	assert.Equal(t, 0, countOps(mockStore.Operations(), "create_collection "+collection))
	assert.Equal(t, 1, mockStore.DocumentCount(collection))

	genres, err := c.EnsureReachableOwnerGenre(ctx, ownerID, "poetry")
	require.NoError(t, err)
	assert.True(t, genres.Contains("poetry"))
}

func TestListGenres(t *testing.T) {
	ctx := context.Background()
	c, mockStore := newTestCatalog(t)
	ownerID := seedOwner(t, c, "Alice", "scifi", "drama")
	_, err := c.AddBooks(ctx, ownerID, "scifi", []domain.Document{book("Dune", "Herbert"), book("Hyperion", "Simmons")})
	require.NoError(t, err)

	// registry is authoritative: the orphan is ignored, the missing one reported empty
	mockStore.AddCollection(domain.Resolve(ownerID, "orphan"))
	mockStore.RemoveCollection(domain.Resolve(ownerID, "drama"))

	stats, err := c.ListGenres(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "drama", stats[0].Genre)
	assert.Equal(t, "0", stats[0].BooksCount)
	assert.Equal(t, "scifi", stats[1].Genre)
	assert.Equal(t, domain.Resolve(ownerID, "scifi"), stats[1].Collection)
	assert.Equal(t, "2", stats[1].BooksCount)
}

func TestDeleteGenre(t *testing.T) {
	ctx := context.Background()
	c, mockStore := newTestCatalog(t)
	ownerID := seedOwner(t, c, "Alice", "scifi", "drama")

	require.NoError(t, c.DeleteGenre(ctx, ownerID, "SCIFI"))
	assert.False(t, mockStore.HasCollection(domain.Resolve(ownerID, "scifi")))

	owner, err := c.GetOwner(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, []string{"drama"}, owner.Genres)

	assert.ErrorIs(t, c.DeleteGenre(ctx, ownerID, "scifi"), domain.ErrGenreNotFound)
}
