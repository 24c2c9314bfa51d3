package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-catalog/pkg/domain"
	"github.com/adfharrison1/go-catalog/pkg/store"
)

// gatedStore holds the registry probe until released and reports the context
// state the probe ran with.
type gatedStore struct {
	*store.MockStore
	entered chan struct{}
	release chan struct{}
	seen    chan error
}

func (g *gatedStore) CollectionExists(ctx context.Context, collection string) (*domain.Response, error) {
	if collection == domain.RegistryCollection {
		g.entered <- struct{}{}
		<-g.release
		g.seen <- ctx.Err()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return g.MockStore.CollectionExists(ctx, collection)
}

func (g *gatedStore) CreateCollection(ctx context.Context, collection string, body interface{}) (*domain.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return g.MockStore.CreateCollection(ctx, collection, body)
}

func TestEnsureRegistry_BootstrapOutlivesCancelledCaller(t *testing.T) {
	mockStore := store.NewMockStore()
	gated := &gatedStore{
		MockStore: mockStore,
		entered:   make(chan struct{}, 4),
		release:   make(chan struct{}),
		seen:      make(chan error, 4),
	}
	c := NewCatalog(gated)

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() { errs <- c.ensureRegistry(ctx) }()

	<-gated.entered
	cancel()
	select {
	case err := <-errs:
		assert.ErrorIs(t, err, domain.ErrServerUnavailable)
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled caller kept waiting on the bootstrap")
	}

	close(gated.release)
	select {
	case err := <-gated.seen:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("bootstrap probe never completed")
	}
	assert.Eventually(t, func() bool {
		return mockStore.HasCollection(domain.RegistryCollection)
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, c.ensureRegistry(context.Background()))
	assert.Equal(t, 1, countOps(mockStore.Operations(), "create_collection "+domain.RegistryCollection))
}
