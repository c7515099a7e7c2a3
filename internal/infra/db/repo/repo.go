package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Builder-Lawyers/publisher/internal/application/consts"
	"github.com/Builder-Lawyers/publisher/internal/application/errs"
	"github.com/Builder-Lawyers/publisher/internal/application/interfaces"
	domainConsts "github.com/Builder-Lawyers/publisher/internal/domain/consts"
	"github.com/Builder-Lawyers/publisher/internal/domain/entity"
	"github.com/Builder-Lawyers/publisher/internal/infra/db"
	dbs "github.com/Builder-Lawyers/publisher/pkg/db"
	shared "github.com/Builder-Lawyers/publisher/pkg/interfaces"
	"github.com/jackc/pgx/v5"
)

const versionColumns = "id, site_id, version, status, pages_snapshot, created_by, created_at, published_at"

func scanVersion(row pgx.Row) (*entity.PublishVersion, error) {
	var v entity.PublishVersion
	var snapshot []byte
	if err := row.Scan(&v.ID, &v.SiteID, &v.Version, &v.Status, &snapshot, &v.CreatedBy, &v.CreatedAt, &v.PublishedAt); err != nil {
		return nil, err
	}
	v.PagesSnapshot = snapshot
	return &v, nil
}

func notFound(err error, entityName, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.NotFoundError{Entity: entityName, ID: id}
	}
	return err
}

// ContentRepo is the publish worker's view of the relational store.
type ContentRepo struct {
	db dbs.DBTX
}

var _ interfaces.ContentStore = (*ContentRepo)(nil)

func NewContentRepo(db dbs.DBTX) *ContentRepo {
	return &ContentRepo{db: db}
}

func (c *ContentRepo) GetVersion(ctx context.Context, versionID string) (*entity.PublishVersion, error) {
	query := "SELECT " + versionColumns + " FROM publisher.publish_versions WHERE id = $1"
	v, err := scanVersion(c.db.QueryRow(ctx, query, versionID))
	if err != nil {
		return nil, notFound(err, "version", versionID)
	}
	return v, nil
}

func (c *ContentRepo) GetSite(ctx context.Context, siteID string) (*entity.Site, error) {
	var site entity.Site
	var globals []byte
	query := "SELECT id, tenant_id, name, theme_id, global_blocks FROM publisher.sites WHERE id = $1"
	err := c.db.QueryRow(ctx, query, siteID).Scan(&site.ID, &site.TenantID, &site.Name, &site.ThemeID, &globals)
	if err != nil {
		return nil, notFound(err, "site", siteID)
	}
	site.GlobalBlocks = globals
	return &site, nil
}

func (c *ContentRepo) GetTheme(ctx context.Context, themeID string) (*entity.Theme, error) {
	var model db.Theme
	query := "SELECT id, name, config FROM publisher.themes WHERE id = $1"
	err := c.db.QueryRow(ctx, query, themeID).Scan(&model.ID, &model.Name, &model.Config)
	if err != nil {
		return nil, notFound(err, "theme", themeID)
	}
	return db.MapThemeModelToEntity(model)
}

func (c *ContentRepo) ListBlocks(ctx context.Context) ([]entity.BlockDefinition, error) {
	rows, err := c.db.Query(ctx, "SELECT id, type, name, default_props FROM publisher.blocks ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []entity.BlockDefinition
	for rows.Next() {
		var model db.Block
		if err = rows.Scan(&model.ID, &model.Type, &model.Name, &model.DefaultProps); err != nil {
			return nil, err
		}
		blocks = append(blocks, db.MapBlockModelToEntity(model))
	}
	return blocks, rows.Err()
}

func (c *ContentRepo) UpdateVersionStatus(ctx context.Context, versionID string, status domainConsts.VersionStatus) error {
	tag, err := c.db.Exec(ctx, "UPDATE publisher.publish_versions SET status = $1 WHERE id = $2", status, versionID)
	if err != nil {
		return fmt.Errorf("err updating version %s status, %w", versionID, err)
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFoundError{Entity: "version", ID: versionID}
	}
	return nil
}

func (c *ContentRepo) MarkVersionPublished(ctx context.Context, versionID string, publishedAt time.Time) error {
	tag, err := c.db.Exec(ctx, "UPDATE publisher.publish_versions SET status = $1, published_at = $2 WHERE id = $3",
		domainConsts.VersionStatusPublished, publishedAt, versionID)
	if err != nil {
		return fmt.Errorf("err marking version %s published, %w", versionID, err)
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFoundError{Entity: "version", ID: versionID}
	}
	return nil
}

func (c *ContentRepo) ListDistributionIDs(ctx context.Context, siteID string) ([]string, error) {
	rows, err := c.db.Query(ctx, `SELECT DISTINCT cloudfront_id FROM publisher.domains
		WHERE site_id = $1 AND status = $2 AND cloudfront_id IS NOT NULL AND cloudfront_id <> ''
		ORDER BY cloudfront_id`, siteID, domainConsts.DomainStatusActive)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

type DomainRepo struct {
	db dbs.DBTX
}

var _ interfaces.DomainStore = (*DomainRepo)(nil)

func NewDomainRepo(db dbs.DBTX) *DomainRepo {
	return &DomainRepo{db: db}
}

func (d *DomainRepo) FindActiveSiteID(ctx context.Context, hostname string) (string, error) {
	var siteID string
	query := "SELECT site_id FROM publisher.domains WHERE domain = $1 AND status = $2 LIMIT 1"
	err := d.db.QueryRow(ctx, query, hostname, domainConsts.DomainStatusActive).Scan(&siteID)
	if err != nil {
		return "", notFound(err, "domain", hostname)
	}
	return siteID, nil
}

type VersionRepo struct {
	db dbs.DBTX
}

var _ interfaces.VersionRepo = (*VersionRepo)(nil)

func NewVersionRepo(db dbs.DBTX) *VersionRepo {
	return &VersionRepo{db: db}
}

func (v *VersionRepo) InsertVersion(ctx context.Context, version entity.PublishVersion) error {
	_, err := v.db.Exec(ctx, `INSERT INTO publisher.publish_versions (`+versionColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		version.ID, version.SiteID, version.Version, version.Status, []byte(version.PagesSnapshot),
		version.CreatedBy, version.CreatedAt, version.PublishedAt)
	if err != nil {
		return fmt.Errorf("err inserting version %s, %w", version.ID, err)
	}
	return nil
}

func (v *VersionRepo) GetSiteVersion(ctx context.Context, siteID, versionID string) (*entity.PublishVersion, error) {
	query := "SELECT " + versionColumns + " FROM publisher.publish_versions WHERE id = $1 AND site_id = $2"
	version, err := scanVersion(v.db.QueryRow(ctx, query, versionID, siteID))
	if err != nil {
		return nil, notFound(err, "version", versionID)
	}
	return version, nil
}

// ListVersions returns the newest versions first, without page snapshots.
func (v *VersionRepo) ListVersions(ctx context.Context, siteID string, limit int) ([]entity.PublishVersion, error) {
	rows, err := v.db.Query(ctx, `SELECT id, site_id, version, status, created_by, created_at, published_at
		FROM publisher.publish_versions WHERE site_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`, siteID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	versions := make([]entity.PublishVersion, 0)
	for rows.Next() {
		var ver entity.PublishVersion
		if err = rows.Scan(&ver.ID, &ver.SiteID, &ver.Version, &ver.Status, &ver.CreatedBy, &ver.CreatedAt, &ver.PublishedAt); err != nil {
			return nil, err
		}
		versions = append(versions, ver)
	}
	return versions, rows.Err()
}

type SiteRepo struct {
	db dbs.DBTX
}

var _ interfaces.SiteRepo = (*SiteRepo)(nil)

func NewSiteRepo(db dbs.DBTX) *SiteRepo {
	return &SiteRepo{db: db}
}

func (s *SiteRepo) GetTenantSite(ctx context.Context, siteID, tenantID string) (*entity.Site, error) {
	var site entity.Site
	var globals []byte
	query := "SELECT id, tenant_id, name, theme_id, global_blocks FROM publisher.sites WHERE id = $1 AND tenant_id = $2"
	err := s.db.QueryRow(ctx, query, siteID, tenantID).Scan(&site.ID, &site.TenantID, &site.Name, &site.ThemeID, &globals)
	if err != nil {
		return nil, notFound(err, "site", siteID)
	}
	site.GlobalBlocks = globals
	return &site, nil
}

// ListPages returns the site's page rows as generic documents, ready to be
// frozen into a version snapshot.
func (s *SiteRepo) ListPages(ctx context.Context, siteID string) ([]map[string]any, error) {
	rows, err := s.db.Query(ctx, `SELECT id, site_id, slug, title, meta_description, content
		FROM publisher.pages WHERE site_id = $1 ORDER BY slug`, siteID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToMap)
}

type EventRepo struct {
	db dbs.DBTX
}

var _ interfaces.EventRepo = (*EventRepo)(nil)

func NewEventRepo(db dbs.DBTX) *EventRepo {
	return &EventRepo{db: db}
}

func (e *EventRepo) InsertEvent(ctx context.Context, event shared.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("err marshalling event payload, %v", err)
	}
	outbox := db.Outbox{
		Event:     event.GetType(),
		Status:    int(consts.NotProcessed),
		Payload:   payload,
		CreatedAt: time.Now(),
	}
	_, err = e.db.Exec(ctx, "INSERT INTO publisher.outbox (event, status, payload, created_at) VALUES ($1,$2,$3,$4)",
		outbox.Event, outbox.Status, []byte(outbox.Payload), outbox.CreatedAt)
	if err != nil {
		return fmt.Errorf("err inserting a new event, %v", err)
	}

	return nil
}

type AuditRepo struct {
	db dbs.DBTX
}

var _ interfaces.AuditRepo = (*AuditRepo)(nil)

func NewAuditRepo(db dbs.DBTX) *AuditRepo {
	return &AuditRepo{db: db}
}

func (a *AuditRepo) InsertAuditLog(ctx context.Context, entry entity.AuditLog) error {
	metadata, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("err marshalling audit metadata, %v", err)
	}
	_, err = a.db.Exec(ctx, `INSERT INTO publisher.audit_logs
		(id, tenant_id, user_id, action, resource_type, resource_id, metadata, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		entry.ID, entry.TenantID, entry.UserID, entry.Action, entry.ResourceType, entry.ResourceID, metadata, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("err inserting audit log, %w", err)
	}
	return nil
}
