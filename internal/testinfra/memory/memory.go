// Package memory holds map backed implementations of the application
// interfaces for unit tests. All types are safe for concurrent use.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Builder-Lawyers/publisher/internal/application/errs"
	"github.com/Builder-Lawyers/publisher/internal/application/events"
	"github.com/Builder-Lawyers/publisher/internal/application/interfaces"
	"github.com/Builder-Lawyers/publisher/internal/domain/consts"
	"github.com/Builder-Lawyers/publisher/internal/domain/entity"
)

var (
	_ interfaces.ContentStore  = (*ContentStore)(nil)
	_ interfaces.DomainStore   = (*ContentStore)(nil)
	_ interfaces.ArtifactStore = (*ArtifactStore)(nil)
	_ interfaces.PointerStore  = (*PointerStore)(nil)
	_ interfaces.DomainCache   = (*DomainCache)(nil)
	_ interfaces.CDNPurger     = (*Purger)(nil)
	_ interfaces.JobSender     = (*Sender)(nil)
)

type ContentStore struct {
	mu            sync.Mutex
	Versions      map[string]entity.PublishVersion
	Sites         map[string]entity.Site
	Themes        map[string]entity.Theme
	Blocks        []entity.BlockDefinition
	Domains       map[string]entity.Domain
	DomainLookups int
	// Err, when set, is returned by every read.
	Err error
}

func NewContentStore() *ContentStore {
	return &ContentStore{
		Versions: map[string]entity.PublishVersion{},
		Sites:    map[string]entity.Site{},
		Themes:   map[string]entity.Theme{},
		Domains:  map[string]entity.Domain{},
	}
}

func (c *ContentStore) PutVersion(v entity.PublishVersion) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Versions[v.ID] = v
}

func (c *ContentStore) Version(id string) entity.PublishVersion {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Versions[id]
}

func (c *ContentStore) GetVersion(_ context.Context, versionID string) (*entity.PublishVersion, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	v, ok := c.Versions[versionID]
	if !ok {
		return nil, errs.NotFoundError{Entity: "version", ID: versionID}
	}
	return &v, nil
}

func (c *ContentStore) GetSite(_ context.Context, siteID string) (*entity.Site, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	s, ok := c.Sites[siteID]
	if !ok {
		return nil, errs.NotFoundError{Entity: "site", ID: siteID}
	}
	return &s, nil
}

func (c *ContentStore) GetTheme(_ context.Context, themeID string) (*entity.Theme, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	t, ok := c.Themes[themeID]
	if !ok {
		return nil, errs.NotFoundError{Entity: "theme", ID: themeID}
	}
	return &t, nil
}

func (c *ContentStore) ListBlocks(_ context.Context) ([]entity.BlockDefinition, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	return append([]entity.BlockDefinition(nil), c.Blocks...), nil
}

func (c *ContentStore) UpdateVersionStatus(_ context.Context, versionID string, status consts.VersionStatus) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.Versions[versionID]
	if !ok {
		return errs.NotFoundError{Entity: "version", ID: versionID}
	}
	v.Status = status
	c.Versions[versionID] = v
	return nil
}

func (c *ContentStore) MarkVersionPublished(_ context.Context, versionID string, publishedAt time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.Versions[versionID]
	if !ok {
		return errs.NotFoundError{Entity: "version", ID: versionID}
	}
	v.Status = consts.VersionStatusPublished
	v.PublishedAt = &publishedAt
	c.Versions[versionID] = v
	return nil
}

func (c *ContentStore) ListDistributionIDs(_ context.Context, siteID string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var ids []string
	for _, d := range c.Domains {
		if d.SiteID == siteID && d.Status == consts.DomainStatusActive && d.CloudfrontID != nil {
			ids = append(ids, *d.CloudfrontID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (c *ContentStore) FindActiveSiteID(_ context.Context, hostname string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.DomainLookups++
	if c.Err != nil {
		return "", c.Err
	}
	for _, d := range c.Domains {
		if d.Hostname == hostname && d.Status == consts.DomainStatusActive {
			return d.SiteID, nil
		}
	}
	return "", errs.NotFoundError{Entity: "domain", ID: hostname}
}

type ArtifactStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	Puts    int
	Err     error
}

func NewArtifactStore() *ArtifactStore {
	return &ArtifactStore{objects: map[string][]byte{}}
}

func (a *ArtifactStore) PutArtifact(_ context.Context, key string, body []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return a.Err
	}
	a.Puts++
	a.objects[key] = append([]byte(nil), body...)
	return nil
}

func (a *ArtifactStore) GetArtifact(_ context.Context, key string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return nil, a.Err
	}
	body, ok := a.objects[key]
	if !ok {
		return nil, errs.NotFoundError{Entity: "artifact", ID: key}
	}
	return append([]byte(nil), body...), nil
}

// Snapshot copies every stored object.
func (a *ArtifactStore) Snapshot() map[string][]byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[string][]byte, len(a.objects))
	for k, v := range a.objects {
		out[k] = append([]byte(nil), v...)
	}
	return out
}

func (a *ArtifactStore) Keys(prefix string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	var keys []string
	for k := range a.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

type PointerStore struct {
	mu       sync.Mutex
	pointers map[string]string
	Err      error
}

func NewPointerStore() *PointerStore {
	return &PointerStore{pointers: map[string]string{}}
}

func (p *PointerStore) GetPublished(_ context.Context, siteID string) (string, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return "", false, p.Err
	}
	v, ok := p.pointers[siteID]
	return v, ok, nil
}

func (p *PointerStore) SetPublished(_ context.Context, siteID, versionID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.pointers[siteID] = versionID
	return nil
}

type DomainCache struct {
	mu      sync.Mutex
	entries map[string]string
	TTLs    map[string]time.Duration
	Err     error
}

func NewDomainCache() *DomainCache {
	return &DomainCache{entries: map[string]string{}, TTLs: map[string]time.Duration{}}
}

func (d *DomainCache) GetSiteID(_ context.Context, hostname string) (string, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return "", false, d.Err
	}
	v, ok := d.entries[hostname]
	return v, ok, nil
}

func (d *DomainCache) SetSiteID(_ context.Context, hostname, siteID string, ttl time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}
	d.entries[hostname] = siteID
	d.TTLs[hostname] = ttl
	return nil
}

type Purge struct {
	DistributionID string
	Reference      string
}

type Purger struct {
	mu     sync.Mutex
	Purges []Purge
	Err    error
}

func (p *Purger) Purge(_ context.Context, distributionID, reference string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Purges = append(p.Purges, Purge{DistributionID: distributionID, Reference: reference})
	return p.Err
}

type Sender struct {
	mu   sync.Mutex
	Jobs []events.PublishJob
	Err  error
}

func (s *Sender) Send(_ context.Context, job events.PublishJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Jobs = append(s.Jobs, job)
	return nil
}
