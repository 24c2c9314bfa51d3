package catalog

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/adfharrison1/go-catalog/pkg/domain"
)

// UploadExtension is the only accepted suffix for book uploads
const UploadExtension = ".json"

// genreCollection runs the full cascade and resolves the genre's collection.
func (c *Catalog) genreCollection(ctx context.Context, ownerID, genre string) (string, error) {
	genre = strings.ToLower(strings.TrimSpace(genre))
	if _, err := c.EnsureReachableOwnerGenre(ctx, ownerID, genre); err != nil {
		return "", err
	}
	return domain.Resolve(ownerID, genre), nil
}

// AddBooks bulk-inserts books and reports the ones the store rejected.
func (c *Catalog) AddBooks(ctx context.Context, ownerID, genre string, books []domain.Document) ([]domain.FailureRecord, error) {
	collection, err := c.genreCollection(ctx, ownerID, genre)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, domain.BadRequest("No books provided")
	}
	return c.indexBooks(ctx, collection, books)
}

// AddBook inserts a single book and returns its store-assigned id.
func (c *Catalog) AddBook(ctx context.Context, ownerID, genre string, book domain.Document) (string, error) {
	collection, err := c.genreCollection(ctx, ownerID, genre)
	if err != nil {
		return "", err
	}
	if err := domain.ValidateBook(book); err != nil {
		return "", err
	}

	resp, err := c.store.Index(ctx, collection, book)
	if err != nil {
		log.Printf("ERROR: Inserting book into '%s' failed: %v", collection, err)
		return "", domain.Unknown(0)
	}
	if !resp.IsSuccess() {
		if resp.StatusCode == http.StatusBadRequest {
			return "", domain.BadRequest("")
		}
		return "", domain.Unknown(resp.StatusCode)
	}

	var created struct {
		ID string `json:"_id"`
	}
	if err := resp.Decode(&created); err != nil {
		return "", domain.Unknown(0)
	}
	return created.ID, nil
}

// GetBook returns the book's source restricted to returnFields (comma-joined, "*" for all).
func (c *Catalog) GetBook(ctx context.Context, ownerID, genre, bookID, returnFields string) (json.RawMessage, error) {
	collection, err := c.genreCollection(ctx, ownerID, genre)
	if err != nil {
		return nil, err
	}

	resp, err := c.store.Get(ctx, collection, bookID, ParseFields(returnFields))
	if err != nil {
		log.Printf("ERROR: Reading book '%s' from '%s' failed: %v", bookID, collection, err)
		return nil, domain.Unknown(0)
	}
	if !resp.IsSuccess() {
		if resp.StatusCode == http.StatusNotFound {
			return nil, domain.ItemNotFound(bookID)
		}
		return nil, domain.Unknown(resp.StatusCode)
	}
	return json.RawMessage(resp.Body), nil
}

// UpdateBook merges patch into the stored book; fields not in patch are kept.
func (c *Catalog) UpdateBook(ctx context.Context, ownerID, genre, bookID string, patch domain.Document) error {
	collection, err := c.genreCollection(ctx, ownerID, genre)
	if err != nil {
		return err
	}
	if err := domain.ValidateBook(patch); err != nil {
		return err
	}

	resp, err := c.store.Update(ctx, collection, bookID, patch)
	if err != nil {
		log.Printf("ERROR: Updating book '%s' in '%s' failed: %v", bookID, collection, err)
		return domain.Unknown(0)
	}
	switch {
	case resp.IsSuccess():
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return domain.ItemNotFound(bookID)
	case resp.StatusCode == http.StatusBadRequest:
		return domain.BadRequest("")
	default:
		return domain.Unknown(resp.StatusCode)
	}
}

func (c *Catalog) DeleteBook(ctx context.Context, ownerID, genre, bookID string) error {
	collection, err := c.genreCollection(ctx, ownerID, genre)
	if err != nil {
		return err
	}

	resp, err := c.store.Delete(ctx, collection, bookID)
	if err != nil {
		log.Printf("ERROR: Deleting book '%s' from '%s' failed: %v", bookID, collection, err)
		return domain.Unknown(0)
	}
	switch {
	case resp.IsSuccess():
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return domain.ItemNotFound(bookID)
	default:
		return domain.Unknown(resp.StatusCode)
	}
}

// ImportBooks bulk-inserts the books of an uploaded file. The file name must
// end in .json and the content must be a JSON array of objects; otherwise
// nothing is written.
func (c *Catalog) ImportBooks(ctx context.Context, ownerID, genre, filename string, content []byte) ([]domain.FailureRecord, error) {
	collection, err := c.genreCollection(ctx, ownerID, genre)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(strings.ToLower(filename), UploadExtension) {
		return nil, domain.BadRequest("Only JSON is accepted")
	}

	books, err := ParseBookArray(content)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, domain.BadRequest("No books provided")
	}
	return c.indexBooks(ctx, collection, books)
}

// ParseBookArray decodes a JSON array whose every element is an object.
func ParseBookArray(content []byte) ([]domain.Document, error) {
	var books []domain.Document
	if err := json.Unmarshal(content, &books); err != nil {
		return nil, domain.BadRequest("Invalid JSON")
	}
	for _, b := range books {
		if b == nil {
			return nil, domain.BadRequest("Invalid JSON")
		}
	}
	return books, nil
}
