package catalog

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/adfharrison1/go-catalog/pkg/domain"
	"github.com/google/uuid"
)

// ownerDocument is the registry source of one owner
type ownerDocument struct {
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
}

// DeleteReport lists which genre collections an owner deletion removed.
type DeleteReport struct {
	Owner   string         `json:"owner"`
	Deleted []string       `json:"deleted_genres"`
	Failed  []GenreFailure `json:"failed_genres"`
}

// GenreFailure is a genre collection that could not be deleted
type GenreFailure struct {
	Genre      string `json:"genre"`
	Collection string `json:"collection"`
	Status     int    `json:"status,omitempty"`
	Error      string `json:"error"`
}

// ListOwnersRequest filters the owner listing
type ListOwnersRequest struct {
	// Name, when set, matches owners whose name contains this exact phrase.
	Name string
	Page Page
}

// CreateOwner registers a new owner with no genres and returns its id.
func (c *Catalog) CreateOwner(ctx context.Context, name string) (string, error) {
	if err := c.EnsureReachable(ctx); err != nil {
		return "", err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.BadRequest("Owner name is required")
	}
	if err := c.ensureRegistry(ctx); err != nil {
		return "", err
	}

	id := uuid.NewString()
	resp, err := c.store.Create(ctx, domain.RegistryCollection, id, ownerDocument{Name: name, Genres: []string{}})
	if err != nil {
		log.Printf("ERROR: Creating owner '%s' failed: %v", name, err)
		return "", domain.Unknown(0)
	}
	if !resp.IsSuccess() {
		log.Printf("ERROR: Creating owner '%s' answered %d: %s", name, resp.StatusCode, resp.Body)
		if resp.StatusCode == http.StatusBadRequest {
			return "", domain.BadRequest("")
		}
		return "", domain.Unknown(resp.StatusCode)
	}
	log.Printf("INFO: Created owner '%s' with ID '%s'", name, id)
	return id, nil
}

// ListOwners returns the raw registry hits for the requested page.
func (c *Catalog) ListOwners(ctx context.Context, req ListOwnersRequest) (json.RawMessage, error) {
	if err := c.EnsureReachable(ctx); err != nil {
		return nil, err
	}
	if err := c.ensureRegistry(ctx); err != nil {
		return nil, err
	}

	opts := SearchOptions{ReturnFields: "name,genres"}
	if req.Name != "" {
		opts.Term = req.Name
		opts.Fields = []string{"name"}
		opts.Exact = true
	}
	result, err := c.search(ctx, domain.RegistryCollection, BuildQuery(opts), req.Page)
	if err != nil {
		return nil, err
	}
	return result.Data, nil
}

// GetOwner returns one owner record.
func (c *Catalog) GetOwner(ctx context.Context, ownerID string) (*domain.Owner, error) {
	if err := c.EnsureReachable(ctx); err != nil {
		return nil, err
	}
	if err := domain.ValidateOwnerID(ownerID); err != nil {
		return nil, err
	}
	if err := c.ensureRegistry(ctx); err != nil {
		return nil, err
	}

	resp, err := c.store.Get(ctx, domain.RegistryCollection, ownerID, []string{"name", "genres"})
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

	var doc ownerDocument
	if err := resp.Decode(&doc); err != nil {
		return nil, domain.Unknown(0)
	}
	owner := &domain.Owner{ID: ownerID, Name: doc.Name, Genres: NewGenreSet(doc.Genres...).Sorted()}
	return owner, nil
}

// RenameOwner changes an owner's display name.
func (c *Catalog) RenameOwner(ctx context.Context, ownerID, name string) error {
	if err := c.EnsureReachable(ctx); err != nil {
		return err
	}
	if err := domain.ValidateOwnerID(ownerID); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.BadRequest("Owner name is required")
	}

	resp, err := c.store.Update(ctx, domain.RegistryCollection, ownerID, map[string]interface{}{"name": name})
	if err != nil {
		log.Printf("ERROR: Renaming owner '%s' failed: %v", ownerID, err)
		return domain.Unknown(0)
	}
	switch {
	case resp.IsSuccess():
		log.Printf("INFO: Renamed owner '%s' to '%s'", ownerID, name)
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return domain.OwnerNotFound(ownerID)
	case resp.StatusCode == http.StatusBadRequest:
		return domain.BadRequest("")
	default:
		return domain.Unknown(resp.StatusCode)
	}
}

// DeleteOwner removes every genre collection of the owner, one after the other,
// and then the owner's registry document. A failed collection deletion does not
// stop the loop or the owner deletion; it is listed in the report instead.
func (c *Catalog) DeleteOwner(ctx context.Context, ownerID string) (*DeleteReport, error) {
	genres, err := c.EnsureReachableOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	report := &DeleteReport{Owner: ownerID, Deleted: []string{}, Failed: []GenreFailure{}}
	for _, genre := range genres.Sorted() {
		collection := domain.Resolve(ownerID, genre)
		resp, err := c.store.DeleteCollection(ctx, collection)
		switch {
		case err != nil:
			log.Printf("ERROR: Deleting collection '%s' failed: %v", collection, err)
			report.Failed = append(report.Failed, GenreFailure{Genre: genre, Collection: collection, Error: err.Error()})
		case resp.IsSuccess():
			report.Deleted = append(report.Deleted, genre)
		case resp.StatusCode == http.StatusNotFound:
			log.Printf("WARN: Registry lists genre '%s' for owner '%s' but collection '%s' does not exist", genre, ownerID, collection)
			report.Deleted = append(report.Deleted, genre)
		default:
			log.Printf("ERROR: Deleting collection '%s' answered %d", collection, resp.StatusCode)
			report.Failed = append(report.Failed, GenreFailure{
				Genre:      genre,
				Collection: collection,
				Status:     resp.StatusCode,
				Error:      domain.Unknown(resp.StatusCode).Error(),
			})
		}
	}

	resp, err := c.store.Delete(ctx, domain.RegistryCollection, ownerID)
	if err != nil {
		log.Printf("ERROR: Deleting owner '%s' failed: %v", ownerID, err)
		return nil, domain.Unknown(0)
	}
	if !resp.IsSuccess() {
		if resp.StatusCode == http.StatusNotFound {
			return nil, domain.OwnerNotFound(ownerID)
		}
		return nil, domain.Unknown(resp.StatusCode)
	}

	log.Printf("INFO: Deleted owner '%s' (%d genres removed, %d failed)", ownerID, len(report.Deleted), len(report.Failed))
	return report, nil
}
