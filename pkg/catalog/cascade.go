package catalog

import (
	"context"
	"log"
	"net/http"
	"sort"
	"strings"

	"github.com/adfharrison1/go-catalog/pkg/domain"
)

// GenreSet is the set of genre names an owner's registry document lists.
type GenreSet map[string]struct{}

// NewGenreSet builds a set from lower-cased names
func NewGenreSet(names ...string) GenreSet {
	set := make(GenreSet, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = struct{}{}
	}
	return set
}

func (s GenreSet) Contains(genre string) bool {
	_, ok := s[strings.ToLower(genre)]
	return ok
}

// Sorted returns the genre names in ascending order
func (s GenreSet) Sorted() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// EnsureReachable probes the store. Any answer counts as reachable; only a
// transport failure is ServerUnavailable.
func (c *Catalog) EnsureReachable(ctx context.Context) error {
	if _, err := c.store.CollectionExists(ctx, domain.RegistryCollection); err != nil {
		log.Printf("ERROR: Store unreachable: %v", err)
		return domain.ServerUnavailable()
	}
	return nil
}

// EnsureReachableOwner runs the reachability and owner stages of the cascade
// and returns the owner's genres.
func (c *Catalog) EnsureReachableOwner(ctx context.Context, ownerID string) (GenreSet, error) {
	if err := c.EnsureReachable(ctx); err != nil {
		return nil, err
	}
	if err := domain.ValidateOwnerID(ownerID); err != nil {
		return nil, err
	}
	return c.ownerGenres(ctx, ownerID)
}

// EnsureReachableOwnerGenre validates, in order, store reachability, owner
// existence and genre membership, stopping at the first failure.
//
// A GenreNotFound failure still returns the owner's genre set: unscoped
// searches treat it as "search everything the owner has".
func (c *Catalog) EnsureReachableOwnerGenre(ctx context.Context, ownerID, genreID string) (GenreSet, error) {
	genres, err := c.EnsureReachableOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !genres.Contains(genreID) {
		return genres, domain.GenreNotFound(genreID)
	}
	return genres, nil
}

// ownerGenres reads the genres field of the owner's registry document.
func (c *Catalog) ownerGenres(ctx context.Context, ownerID string) (GenreSet, error) {
	resp, err := c.store.Get(ctx, domain.RegistryCollection, ownerID, []string{"genres"})
	if err != nil {
		log.Printf("ERROR: Reading owner '%s' failed: %v", ownerID, err)
		return nil, domain.Unknown(0)
	}
	if !resp.IsSuccess() {
		if resp.StatusCode == http.StatusNotFound {
			return nil, domain.OwnerNotFound(ownerID)
		}
		return nil, domain.Unknown(resp.StatusCode)
	}

	var source struct {
		Genres []string `json:"genres"`
	}
	if err := resp.Decode(&source); err != nil {
		log.Printf("ERROR: Owner '%s' has a malformed registry document: %v", ownerID, err)
		return nil, domain.Unknown(0)
	}
	return NewGenreSet(source.Genres...), nil
}
