package repo_test

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/Builder-Lawyers/publisher/internal/application/consts"
	"github.com/Builder-Lawyers/publisher/internal/application/errs"
	"github.com/Builder-Lawyers/publisher/internal/application/events"
	domainConsts "github.com/Builder-Lawyers/publisher/internal/domain/consts"
	"github.com/Builder-Lawyers/publisher/internal/domain/entity"
	"github.com/Builder-Lawyers/publisher/internal/infra/db/repo"
	"github.com/Builder-Lawyers/publisher/internal/testinfra"
	dbs "github.com/Builder-Lawyers/publisher/pkg/db"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var uowFactory *dbs.UOWFactory

func TestMain(m *testing.M) {
	uowFactory = dbs.NewUoWFactory(testinfra.Pool)
	code := m.Run()

	testinfra.Truncate(context.Background())

	os.Exit(code)
}

func seedSite(t *testing.T, ctx context.Context, db dbs.DBTX, siteID, tenantID string) {
	t.Helper()
	_, err := db.Exec(ctx, `INSERT INTO publisher.sites (id, tenant_id, name, theme_id, global_blocks)
		VALUES ($1, $2, 'Acme', 'theme-blue', '{"header":{"block_id":"b-header"}}')`, siteID, tenantID)
	require.NoError(t, err)
}

func TestContentRepo_GetSiteAndTheme(t *testing.T) {
	ctx := context.Background()
	uow := uowFactory.GetUoW()
	tx, err := uow.Begin()
	require.NoError(t, err)
	defer uow.Rollback()

	seedSite(t, ctx, tx, "site-theme", "tenant-1")
	_, err = tx.Exec(ctx, `INSERT INTO publisher.themes (id, name, config)
		VALUES ('theme-blue', 'Blue', '{"colors":{"primary":"#0000ff"},"spacing":{"unit":8}}')`)
	require.NoError(t, err)

	content := repo.NewContentRepo(tx)

	site, err := content.GetSite(ctx, "site-theme")
	require.NoError(t, err)
	require.NotNil(t, site.ThemeID)
	assert.Equal(t, "theme-blue", *site.ThemeID)
	assert.JSONEq(t, `{"header":{"block_id":"b-header"}}`, string(site.GlobalBlocks))

	theme, err := content.GetTheme(ctx, "theme-blue")
	require.NoError(t, err)
	assert.Equal(t, "theme-blue", theme.ID)
	assert.Equal(t, "Blue", theme.Name)
	assert.Equal(t, "#0000ff", theme.Colors.Primary)
	assert.Equal(t, 8, theme.Spacing.Unit)

	_, err = content.GetTheme(ctx, "theme-missing")
	assert.True(t, errs.IsNotFound(err))

	_, err = content.GetSite(ctx, "site-missing")
	assert.True(t, errs.IsNotFound(err))
}

func TestContentRepo_ListBlocks(t *testing.T) {
	ctx := context.Background()
	uow := uowFactory.GetUoW()
	tx, err := uow.Begin()
	require.NoError(t, err)
	defer uow.Rollback()

	_, err = tx.Exec(ctx, `INSERT INTO publisher.blocks (id, type, name, default_props) VALUES
		('b-hero', 'hero', 'Hero', '{"headline":"Default"}'),
		('b-text', 'text', 'Text', '{}')`)
	require.NoError(t, err)

	blocks, err := repo.NewContentRepo(tx).ListBlocks(ctx)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "hero", blocks[0].Type)
	assert.Equal(t, map[string]any{"headline": "Default"}, blocks[0].DefaultProps)
}

func TestVersionLifecycle(t *testing.T) {
	ctx := context.Background()
	uow := uowFactory.GetUoW()
	tx, err := uow.Begin()
	require.NoError(t, err)
	defer uow.Rollback()

	seedSite(t, ctx, tx, "site-ver", "tenant-1")
	versions := repo.NewVersionRepo(tx)
	content := repo.NewContentRepo(tx)

	created := time.Now().Truncate(time.Microsecond)
	for i, id := range []string{"v-old", "v-new"} {
		err = versions.InsertVersion(ctx, entity.PublishVersion{
			ID:            id,
			SiteID:        "site-ver",
			Version:       int64(1000 + i),
			Status:        domainConsts.VersionStatusPending,
			PagesSnapshot: json.RawMessage(`[{"slug":"index"}]`),
			CreatedBy:     "user-1",
			CreatedAt:     created.Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}

	require.NoError(t, content.UpdateVersionStatus(ctx, "v-new", domainConsts.VersionStatusBuilding))
	publishedAt := created.Add(time.Minute)
	require.NoError(t, content.MarkVersionPublished(ctx, "v-new", publishedAt))

	got, err := content.GetVersion(ctx, "v-new")
	require.NoError(t, err)
	assert.Equal(t, domainConsts.VersionStatusPublished, got.Status)
	require.NotNil(t, got.PublishedAt)
	assert.WithinDuration(t, publishedAt, *got.PublishedAt, time.Microsecond)
	assert.JSONEq(t, `[{"slug":"index"}]`, string(got.PagesSnapshot))

	list, err := versions.ListVersions(ctx, "site-ver", 50)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "v-new", list[0].ID)
	assert.Nil(t, list[0].PagesSnapshot)

	_, err = versions.GetSiteVersion(ctx, "other-site", "v-new")
	assert.True(t, errs.IsNotFound(err))

	err = content.UpdateVersionStatus(ctx, "v-missing", domainConsts.VersionStatusFailed)
	assert.True(t, errs.IsNotFound(err))
}

func TestSiteRepo_TenantScopeAndPages(t *testing.T) {
	ctx := context.Background()
	uow := uowFactory.GetUoW()
	tx, err := uow.Begin()
	require.NoError(t, err)
	defer uow.Rollback()

	seedSite(t, ctx, tx, "site-pages", "tenant-1")
	_, err = tx.Exec(ctx, `INSERT INTO publisher.pages (id, site_id, slug, title, meta_description, content) VALUES
		('p2', 'site-pages', 'index', 'Home', NULL, '{"blocks":[]}'),
		('p1', 'site-pages', 'about', 'About', 'About us', '{"blocks":[{"block_id":"b-hero"}]}')`)
	require.NoError(t, err)

	sites := repo.NewSiteRepo(tx)

	_, err = sites.GetTenantSite(ctx, "site-pages", "tenant-2")
	assert.True(t, errs.IsNotFound(err))

	site, err := sites.GetTenantSite(ctx, "site-pages", "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", site.Name)

	pages, err := sites.ListPages(ctx, "site-pages")
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "about", pages[0]["slug"])
	assert.Equal(t, "About us", pages[0]["meta_description"])
	assert.Nil(t, pages[1]["meta_description"])

	raw, err := json.Marshal(pages)
	require.NoError(t, err)
	snapshot := make([]entity.SnapshotPage, 0)
	require.NoError(t, json.Unmarshal(raw, &snapshot))
	assert.Equal(t, "index", snapshot[1].Slug)
}

func TestDomainRepo_ActiveOnly(t *testing.T) {
	ctx := context.Background()
	uow := uowFactory.GetUoW()
	tx, err := uow.Begin()
	require.NoError(t, err)
	defer uow.Rollback()

	seedSite(t, ctx, tx, "site-dom", "tenant-1")
	_, err = tx.Exec(ctx, `INSERT INTO publisher.domains (id, site_id, domain, status, cloudfront_id) VALUES
		('d1', 'site-dom', 'acme.example.com', 'active', 'E123'),
		('d2', 'site-dom', 'pending.example.com', 'pending_verification', 'E456')`)
	require.NoError(t, err)

	domains := repo.NewDomainRepo(tx)

	siteID, err := domains.FindActiveSiteID(ctx, "acme.example.com")
	require.NoError(t, err)
	assert.Equal(t, "site-dom", siteID)

	_, err = domains.FindActiveSiteID(ctx, "pending.example.com")
	assert.True(t, errs.IsNotFound(err))

	ids, err := repo.NewContentRepo(tx).ListDistributionIDs(ctx, "site-dom")
	require.NoError(t, err)
	assert.Equal(t, []string{"E123"}, ids)
}

func TestEventAndAuditRepos(t *testing.T) {
	ctx := context.Background()
	uow := uowFactory.GetUoW()
	tx, err := uow.Begin()
	require.NoError(t, err)
	defer uow.Rollback()

	job := events.PublishJob{Type: domainConsts.JobPublishSite, VersionID: "v1", SiteID: "s1", TenantID: "t1", UserID: "u1"}
	require.NoError(t, repo.NewEventRepo(tx).InsertEvent(ctx, job))

	var event string
	var status int
	var payload []byte
	err = tx.QueryRow(ctx, "SELECT event, status, payload FROM publisher.outbox ORDER BY id DESC LIMIT 1").
		Scan(&event, &status, &payload)
	require.NoError(t, err)
	assert.Equal(t, "publish_site", event)
	assert.Equal(t, int(consts.NotProcessed), status)
	assert.JSONEq(t, `{"type":"publish_site","versionId":"v1","siteId":"s1","tenantId":"t1","userId":"u1"}`, string(payload))

	entry := entity.AuditLog{
		ID:           uuid.New(),
		TenantID:     "t1",
		UserID:       "u1",
		Action:       consts.AuditActionPublishSite,
		ResourceType: consts.AuditResourceSite,
		ResourceID:   "s1",
		Metadata:     map[string]any{"version_id": "v1"},
		CreatedAt:    time.Now(),
	}
	require.NoError(t, repo.NewAuditRepo(tx).InsertAuditLog(ctx, entry))

	var count int
	err = tx.QueryRow(ctx, "SELECT COUNT(*) FROM publisher.audit_logs WHERE id = $1 AND metadata->>'version_id' = 'v1'", entry.ID).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestContentRepo_MalformedTheme(t *testing.T) {
	ctx := context.Background()
	uow := uowFactory.GetUoW()
	tx, err := uow.Begin()
	require.NoError(t, err)
	defer uow.Rollback()

	_, err = tx.Exec(ctx, `INSERT INTO publisher.themes (id, name, config)
		VALUES ('theme-odd', 'Odd', '{"spacing":{"unit":"8px"}}')`)
	require.NoError(t, err)

	_, err = repo.NewContentRepo(tx).GetTheme(ctx, "theme-odd")
	require.Error(t, err)
	assert.True(t, errs.IsMalformedContent(err))
	assert.False(t, errs.IsNotFound(err))
}
