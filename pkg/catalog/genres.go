package catalog

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/adfharrison1/go-catalog/pkg/domain"
)

// catIndexRow is one row of the store's collection statistics
type catIndexRow struct {
	Index       string `json:"index"`
	DocsCount   string `json:"docs.count"`
	DocsDeleted string `json:"docs.deleted"`
	PrimarySize string `json:"pri.store.size"`
}

// CreateGenre adds a genre to the owner and creates its collection. The
// registry is the source of truth: a collection that already exists without a
// registry entry is logged and adopted.
func (c *Catalog) CreateGenre(ctx context.Context, ownerID, genre string) error {
	genres, err := c.EnsureReachableOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	genre = strings.ToLower(strings.TrimSpace(genre))
	if err := domain.ValidateGenreName(genre); err != nil {
		return err
	}
	if genres.Contains(genre) {
		return domain.GenreAlreadyExists(genre)
	}

	collection := domain.Resolve(ownerID, genre)
	if err := domain.ValidateCollectionName(collection); err != nil {
		log.Printf("WARN: Rejected collection name '%s': %v", collection, err)
		return err
	}
	resp, err := c.store.CollectionExists(ctx, collection)
	if err != nil {
		log.Printf("ERROR: Probing collection '%s' failed: %v", collection, err)
		return domain.Unknown(0)
	}
	switch resp.StatusCode {
	case http.StatusOK:
		log.Printf("WARN: Collection '%s' exists without a registry entry, adopting it", collection)
	case http.StatusNotFound:
		if err := c.createGenreCollection(ctx, collection); err != nil {
			return err
		}
	default:
		return domain.Unknown(resp.StatusCode)
	}

	genres[genre] = struct{}{}
	if err := c.saveGenres(ctx, ownerID, genres); err != nil {
		return err
	}
	log.Printf("INFO: Created genre '%s' for owner '%s'", genre, ownerID)
	return nil
}

func (c *Catalog) createGenreCollection(ctx context.Context, collection string) error {
	resp, err := c.store.CreateCollection(ctx, collection, c.genreMapping)
	if err != nil {
		log.Printf("ERROR: Creating collection '%s' failed: %v", collection, err)
		return domain.Unknown(0)
	}
	if !resp.IsSuccess() {
		log.Printf("ERROR: Creating collection '%s' answered %d: %s", collection, resp.StatusCode, resp.Body)
		if resp.StatusCode == http.StatusBadRequest {
			return domain.BadRequest("")
		}
		return domain.Unknown(resp.StatusCode)
	}
	return nil
}

// ListGenres returns statistics for every genre the registry lists for the owner.
func (c *Catalog) ListGenres(ctx context.Context, ownerID string) ([]domain.GenreStats, error) {
	genres, err := c.EnsureReachableOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	pattern := domain.Resolve(ownerID, domain.AllGenres)
	resp, err := c.store.CollectionStats(ctx, pattern)
	if err != nil {
		log.Printf("ERROR: Reading statistics for '%s' failed: %v", pattern, err)
		return nil, domain.Unknown(0)
	}

	var rows []catIndexRow
	switch {
	case resp.IsSuccess():
		if err := resp.Decode(&rows); err != nil {
			return nil, domain.Unknown(0)
		}
	case resp.StatusCode == http.StatusNotFound:
	default:
		return nil, domain.Unknown(resp.StatusCode)
	}

	byCollection := make(map[string]catIndexRow, len(rows))
	for _, row := range rows {
		byCollection[row.Index] = row
	}

	stats := make([]domain.GenreStats, 0, len(genres))
	for _, genre := range genres.Sorted() {
		collection := domain.Resolve(ownerID, genre)
		row, ok := byCollection[collection]
		if !ok {
			log.Printf("WARN: Registry lists genre '%s' for owner '%s' but collection '%s' does not exist", genre, ownerID, collection)
			row = catIndexRow{Index: collection, DocsCount: "0", DocsDeleted: "0", PrimarySize: "0b"}
		}
		delete(byCollection, collection)
		stats = append(stats, domain.GenreStats{
			Genre:        genre,
			Collection:   collection,
			BooksCount:   row.DocsCount,
			BooksDeleted: row.DocsDeleted,
			PrimarySize:  row.PrimarySize,
		})
	}
	for collection := range byCollection {
		log.Printf("WARN: Collection '%s' has no registry entry for owner '%s'", collection, ownerID)
	}
	return stats, nil
}

// DeleteGenre removes a genre collection and its registry entry.
func (c *Catalog) DeleteGenre(ctx context.Context, ownerID, genre string) error {
	genre = strings.ToLower(strings.TrimSpace(genre))
	genres, err := c.EnsureReachableOwnerGenre(ctx, ownerID, genre)
	if err != nil {
		return err
	}

	collection := domain.Resolve(ownerID, genre)
	resp, err := c.store.DeleteCollection(ctx, collection)
	if err != nil {
		log.Printf("ERROR: Deleting collection '%s' failed: %v", collection, err)
		return domain.Unknown(0)
	}
	switch {
	case resp.IsSuccess():
	case resp.StatusCode == http.StatusNotFound:
		log.Printf("WARN: Registry lists genre '%s' for owner '%s' but collection '%s' does not exist", genre, ownerID, collection)
	default:
		return domain.Unknown(resp.StatusCode)
	}

	delete(genres, genre)
	if err := c.saveGenres(ctx, ownerID, genres); err != nil {
		return err
	}
	log.Printf("INFO: Deleted genre '%s' of owner '%s'", genre, ownerID)
	return nil
}
