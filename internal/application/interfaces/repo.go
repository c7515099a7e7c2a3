package interfaces

import (
	"context"
	"time"

	"github.com/Builder-Lawyers/publisher/internal/application/events"
	"github.com/Builder-Lawyers/publisher/internal/domain/consts"
	"github.com/Builder-Lawyers/publisher/internal/domain/entity"
	shared "github.com/Builder-Lawyers/publisher/pkg/interfaces"
)

// ContentStore is the read side of the relational store used by the publish
// worker, plus the version status writes it owns.
type ContentStore interface {
	GetVersion(ctx context.Context, versionID string) (*entity.PublishVersion, error)
	GetSite(ctx context.Context, siteID string) (*entity.Site, error)
	GetTheme(ctx context.Context, themeID string) (*entity.Theme, error)
	ListBlocks(ctx context.Context) ([]entity.BlockDefinition, error)
	UpdateVersionStatus(ctx context.Context, versionID string, status consts.VersionStatus) error
	MarkVersionPublished(ctx context.Context, versionID string, publishedAt time.Time) error
	ListDistributionIDs(ctx context.Context, siteID string) ([]string, error)
}

type DomainStore interface {
	// FindActiveSiteID returns errs.NotFoundError when no active domain matches.
	FindActiveSiteID(ctx context.Context, hostname string) (string, error)
}

type VersionRepo interface {
	InsertVersion(ctx context.Context, version entity.PublishVersion) error
	GetSiteVersion(ctx context.Context, siteID, versionID string) (*entity.PublishVersion, error)
	ListVersions(ctx context.Context, siteID string, limit int) ([]entity.PublishVersion, error)
}

type SiteRepo interface {
	GetTenantSite(ctx context.Context, siteID, tenantID string) (*entity.Site, error)
	ListPages(ctx context.Context, siteID string) ([]map[string]any, error)
}

type EventRepo interface {
	InsertEvent(ctx context.Context, event shared.Event) error
}

type AuditRepo interface {
	InsertAuditLog(ctx context.Context, entry entity.AuditLog) error
}

type ArtifactStore interface {
	PutArtifact(ctx context.Context, key string, body []byte) error
	// GetArtifact returns errs.NotFoundError when the key does not exist.
	GetArtifact(ctx context.Context, key string) ([]byte, error)
}

// PointerStore holds site:{siteId}:published. The publish worker is the only
// writer, the runtime the only reader.
type PointerStore interface {
	GetPublished(ctx context.Context, siteID string) (versionID string, ok bool, err error)
	SetPublished(ctx context.Context, siteID, versionID string) error
}

type DomainCache interface {
	GetSiteID(ctx context.Context, hostname string) (siteID string, ok bool, err error)
	SetSiteID(ctx context.Context, hostname, siteID string, ttl time.Duration) error
}

type CDNPurger interface {
	Purge(ctx context.Context, distributionID, reference string) error
}

type JobSender interface {
	Send(ctx context.Context, job events.PublishJob) error
}
