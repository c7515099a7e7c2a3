package query_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Builder-Lawyers/publisher/internal/application/errs"
	"github.com/Builder-Lawyers/publisher/internal/application/query"
	"github.com/Builder-Lawyers/publisher/internal/domain/consts"
	"github.com/Builder-Lawyers/publisher/internal/domain/entity"
	"github.com/Builder-Lawyers/publisher/internal/testinfra/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDomainStore() *memory.ContentStore {
	store := memory.NewContentStore()
	store.Domains["d1"] = entity.Domain{ID: "d1", SiteID: "site-1", Hostname: "example.com", Status: consts.DomainStatusActive}
	store.Domains["d2"] = entity.Domain{ID: "d2", SiteID: "site-2", Hostname: "pending.example.com", Status: consts.DomainStatusPendingVerification}
	return store
}

func TestResolveDomainFillsCacheOnMiss(t *testing.T) {
	store := newDomainStore()
	cache := memory.NewDomainCache()
	resolver := query.NewResolveDomain(cache, store, 300*time.Second)
	ctx := context.Background()

	siteID, err := resolver.Query(ctx, "Example.com:8080")
	require.NoError(t, err)
	assert.Equal(t, "site-1", siteID)

	cached, ok, err := cache.GetSiteID(ctx, "example.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "site-1", cached)
	assert.Equal(t, 300*time.Second, cache.TTLs["example.com"])

	_, err = resolver.Query(ctx, "example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, store.DomainLookups)
}

func TestResolveDomainConcurrentMisses(t *testing.T) {
	store := newDomainStore()
	resolver := query.NewResolveDomain(memory.NewDomainCache(), store, 300*time.Second)

	var wg sync.WaitGroup
	results := make([]string, 16)
	failures := make([]error, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], failures[i] = resolver.Query(context.Background(), "example.com")
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, failures[i])
		assert.Equal(t, "site-1", results[i])
	}
}

func TestResolveDomainInactiveIsNotFound(t *testing.T) {
	resolver := query.NewResolveDomain(memory.NewDomainCache(), newDomainStore(), time.Minute)

	_, err := resolver.Query(context.Background(), "pending.example.com")
	assert.True(t, errs.IsNotFound(err))

	_, err = resolver.Query(context.Background(), "unknown.example.com")
	assert.True(t, errs.IsNotFound(err))
}

func TestResolveDomainDegradesOnCacheFailure(t *testing.T) {
	cache := memory.NewDomainCache()
	cache.Err = errors.New("redis down")
	resolver := query.NewResolveDomain(cache, newDomainStore(), time.Minute)

	siteID, err := resolver.Query(context.Background(), "example.com")

	require.NoError(t, err)
	assert.Equal(t, "site-1", siteID)
}

func TestNormalizeHost(t *testing.T) {
	assert.Equal(t, "example.com", query.NormalizeHost("EXAMPLE.com."))
	assert.Equal(t, "example.com", query.NormalizeHost("example.com:443"))
	assert.Equal(t, "[::1]", query.NormalizeHost("[::1]:8080"))
}

// slowDomainStore answers after delay unless its context ends first.
type slowDomainStore struct {
	*memory.ContentStore
	delay time.Duration
}

func (s slowDomainStore) FindActiveSiteID(ctx context.Context, hostname string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(s.delay):
		return s.ContentStore.FindActiveSiteID(ctx, hostname)
	}
}

func TestResolveDomainCancelledCallerDoesNotFailOthers(t *testing.T) {
	cache := memory.NewDomainCache()
	resolver := query.NewResolveDomain(cache, slowDomainStore{ContentStore: newDomainStore(), delay: 100 * time.Millisecond}, time.Minute)

	var firstErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, firstErr = resolver.Query(ctx, "example.com")
	}()
	time.Sleep(5 * time.Millisecond)

	siteID, err := resolver.Query(context.Background(), "example.com")
	<-done

	require.NoError(t, err)
	assert.Equal(t, "site-1", siteID)
	assert.ErrorIs(t, firstErr, context.DeadlineExceeded)

	cached, ok, err := cache.GetSiteID(context.Background(), "example.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "site-1", cached)
}
