package query

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Builder-Lawyers/publisher/internal/application/interfaces"
	"github.com/Builder-Lawyers/publisher/internal/infra/metrics"
	"golang.org/x/sync/singleflight"
)

// sharedLookupTimeout bounds a db lookup that no longer belongs to one request.
const sharedLookupTimeout = 10 * time.Second

// ResolveDomain maps a request hostname to a site id: cache first, then the
// domain table (active records only), then a cache fill with a bounded TTL.
type ResolveDomain struct {
	cache   interfaces.DomainCache
	domains interfaces.DomainStore
	ttl     time.Duration
	group   singleflight.Group
}

func NewResolveDomain(cache interfaces.DomainCache, domains interfaces.DomainStore, ttl time.Duration) *ResolveDomain {
	return &ResolveDomain{cache: cache, domains: domains, ttl: ttl}
}

// Query returns errs.NotFoundError when no active domain matches.
func (c *ResolveDomain) Query(ctx context.Context, hostname string) (string, error) {
	hostname = NormalizeHost(hostname)

	siteID, ok, err := c.cache.GetSiteID(ctx, hostname)
	switch {
	case err != nil:
		metrics.DomainCacheLookups.WithLabelValues("error").Inc()
		slog.Warn("domain cache read failed, falling back to db", "hostname", hostname, "err", err)
	case ok:
		metrics.DomainCacheLookups.WithLabelValues("hit").Inc()
		return siteID, nil
	default:
		metrics.DomainCacheLookups.WithLabelValues("miss").Inc()
	}

	// Concurrent misses for one hostname share a single db lookup. The lookup
	// is detached from the first caller so its cancellation does not fail the others.
	ch := c.group.DoChan(hostname, func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLookupTimeout)
		defer cancel()
		siteID, err := c.domains.FindActiveSiteID(lookupCtx, hostname)
		if err != nil {
			return "", err
		}
		if err := c.cache.SetSiteID(lookupCtx, hostname, siteID, c.ttl); err != nil {
			slog.Warn("domain cache write failed", "hostname", hostname, "err", err)
		}
		return siteID, nil
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// NormalizeHost lowercases the host and strips a port and trailing dot.
func NormalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if strings.HasPrefix(host, "[") {
		if end := strings.Index(host, "]"); end > 0 {
			return host[:end+1]
		}
		return host
	}
	if i := strings.LastIndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	return strings.TrimSuffix(host, ".")
}
