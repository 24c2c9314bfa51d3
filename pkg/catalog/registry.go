package catalog

import (
	"bytes"
	"context"
	"log"
	"net/http"

	"github.com/adfharrison1/go-catalog/pkg/domain"
)

// registryMapping keeps genre names as exact keywords and names searchable.
var registryMapping = map[string]interface{}{
	"mappings": map[string]interface{}{
		"properties": map[string]interface{}{
			"name":   map[string]interface{}{"type": "text"},
			"genres": map[string]interface{}{"type": "keyword"},
		},
	},
}

// ensureRegistry creates the registry collection if it does not exist yet.
// Concurrent callers share one bootstrap round-trip. The shared call runs
// detached from any one caller's cancellation; each caller still stops
// waiting when its own context is done.
func (c *Catalog) ensureRegistry(ctx context.Context) error {
	shared := context.WithoutCancel(ctx)
	ch := c.bootstrap.DoChan(domain.RegistryCollection, func() (interface{}, error) {
		return nil, c.createRegistryIfMissing(shared)
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		log.Printf("WARN: Gave up waiting for registry bootstrap: %v", ctx.Err())
		return domain.ServerUnavailable()
	}
}

func (c *Catalog) createRegistryIfMissing(ctx context.Context) error {
	resp, err := c.store.CollectionExists(ctx, domain.RegistryCollection)
	if err != nil {
		log.Printf("ERROR: Registry probe failed: %v", err)
		return domain.ServerUnavailable()
	}
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
	default:
		return domain.Unknown(resp.StatusCode)
	}

	resp, err = c.store.CreateCollection(ctx, domain.RegistryCollection, registryMapping)
	if err != nil {
		log.Printf("ERROR: Creating registry collection failed: %v", err)
		return domain.Unknown(0)
	}
	if resp.IsSuccess() {
		log.Printf("INFO: Created registry collection '%s'", domain.RegistryCollection)
		return nil
	}
	// another instance created it between the probe and the create
	if resp.StatusCode == http.StatusBadRequest && bytes.Contains(resp.Body, []byte("resource_already_exists_exception")) {
		return nil
	}
	log.Printf("ERROR: Creating registry collection answered %d: %s", resp.StatusCode, resp.Body)
	return domain.Unknown(resp.StatusCode)
}

// saveGenres replaces the owner's genre list in the registry.
func (c *Catalog) saveGenres(ctx context.Context, ownerID string, genres GenreSet) error {
	resp, err := c.store.Update(ctx, domain.RegistryCollection, ownerID, map[string]interface{}{
		"genres": genres.Sorted(),
	})
	if err != nil {
		log.Printf("ERROR: Updating genres of owner '%s' failed: %v", ownerID, err)
		return domain.Unknown(0)
	}
	if !resp.IsSuccess() {
		if resp.StatusCode == http.StatusNotFound {
			return domain.OwnerNotFound(ownerID)
		}
		return domain.Unknown(resp.StatusCode)
	}
	return nil
}
