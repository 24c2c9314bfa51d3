package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/adfharrison1/go-catalog/pkg/catalog"
	"github.com/adfharrison1/go-catalog/pkg/domain"
)

const (
	// exportPageSize is the search page used to read a genre
	exportPageSize = 500
	// importBatchSize is the number of books sent per bulk request
	importBatchSize = 500
)

// ImportReport summarises a snapshot import
type ImportReport struct {
	OwnerID  string                 `json:"owner_id"`
	Genres   int                    `json:"genres"`
	Books    int                    `json:"books"`
	Failures []domain.FailureRecord `json:"failures"`
}

// Export reads every book of ownerID into a snapshot.
func Export(ctx context.Context, c *catalog.Catalog, ownerID string) (*Snapshot, error) {
	owner, err := c.GetOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		OwnerID:   owner.ID,
		OwnerName: owner.Name,
		CreatedAt: time.Now().UTC(),
		Genres:    make(map[string][]domain.Document, len(owner.Genres)),
	}
	for _, genre := range owner.Genres {
		books, err := exportGenre(ctx, c, ownerID, genre)
		if err != nil {
			return nil, fmt.Errorf("export genre %s: %w", genre, err)
		}
		snap.Genres[genre] = books
		log.Printf("INFO: Exported %d books of genre '%s' for owner '%s'", len(books), genre, ownerID)
	}
	return snap, nil
}

func exportGenre(ctx context.Context, c *catalog.Catalog, ownerID, genre string) ([]domain.Document, error) {
	size := exportPageSize
	if limit := c.MaxPageSize(); limit > 0 && limit < size {
		size = limit
	}

	books := []domain.Document{}
	for from := 0; ; from += size {
		result, err := c.Search(ctx, ownerID, catalog.SearchRequest{Genre: genre, From: &from, Count: &size})
		if err != nil {
			return nil, err
		}

		var hits []domain.Hit
		if err := json.Unmarshal(result.Data, &hits); err != nil {
			return nil, fmt.Errorf("malformed search hits: %w", err)
		}
		for _, hit := range hits {
			var doc domain.Document
			if err := json.Unmarshal(hit.Source, &doc); err != nil {
				return nil, fmt.Errorf("malformed book %s: %w", hit.ID, err)
			}
			books = append(books, doc)
		}

		if len(hits) == 0 || int64(len(books)) >= result.Total {
			return books, nil
		}
	}
}

// Import creates a new owner from snap with all its genres and books. Bulk
// failures are collected with positions relative to the genre's book list.
func Import(ctx context.Context, c *catalog.Catalog, snap *Snapshot) (*ImportReport, error) {
	ownerID, err := c.CreateOwner(ctx, snap.OwnerName)
	if err != nil {
		return nil, err
	}
	log.Printf("INFO: Importing snapshot of owner '%s' as '%s'", snap.OwnerID, ownerID)

	report := &ImportReport{OwnerID: ownerID, Failures: []domain.FailureRecord{}}
	for _, genre := range snap.GenreNames() {
		if err := c.CreateGenre(ctx, ownerID, genre); err != nil {
			return report, fmt.Errorf("create genre %s: %w", genre, err)
		}
		report.Genres++

		books := snap.Genres[genre]
		for start := 0; start < len(books); start += importBatchSize {
			end := start + importBatchSize
			if end > len(books) {
				end = len(books)
			}
			failures, err := c.AddBooks(ctx, ownerID, genre, books[start:end])
			if err != nil {
				return report, fmt.Errorf("import genre %s: %w", genre, err)
			}
			for _, f := range failures {
				f.Position += start
				report.Failures = append(report.Failures, f)
			}
			report.Books += end - start - len(failures)
		}
	}
	return report, nil
}
