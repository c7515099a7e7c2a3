package processors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Builder-Lawyers/publisher/internal/application/errs"
	"github.com/Builder-Lawyers/publisher/internal/application/events"
	"github.com/Builder-Lawyers/publisher/internal/application/interfaces"
	"github.com/Builder-Lawyers/publisher/internal/application/publish"
	"github.com/Builder-Lawyers/publisher/internal/domain/consts"
	"github.com/Builder-Lawyers/publisher/internal/domain/entity"
	"github.com/Builder-Lawyers/publisher/internal/infra/metrics"
)

// PublishSite freezes a version's page snapshot into artifacts and makes it
// live. Safe to run repeatedly for the same job.
type PublishSite struct {
	content   interfaces.ContentStore
	artifacts interfaces.ArtifactStore
	pointers  interfaces.PointerStore
	purger    interfaces.CDNPurger
	now       func() time.Time
}

// NewPublishSite wires the processor. purger may be nil to skip CDN invalidation.
func NewPublishSite(content interfaces.ContentStore, artifacts interfaces.ArtifactStore,
	pointers interfaces.PointerStore, purger interfaces.CDNPurger,
) *PublishSite {
	return &PublishSite{content: content, artifacts: artifacts, pointers: pointers, purger: purger, now: time.Now}
}

func (c *PublishSite) Handle(ctx context.Context, job events.PublishJob) (err error) {
	version, err := c.content.GetVersion(ctx, job.VersionID)
	if err != nil {
		return fmt.Errorf("error loading version, %w", err)
	}
	if version.SiteID != job.SiteID {
		return errs.InvalidJobError{Err: fmt.Errorf("version %s belongs to site %s", version.ID, version.SiteID)}
	}

	// a published version stays published: the pointer may already serve it
	defer func() {
		if err != nil && errs.IsTerminal(err) && !version.IsPublished() {
			c.markFailed(ctx, job)
		}
	}()

	site, err := c.content.GetSite(ctx, job.SiteID)
	if err != nil {
		return fmt.Errorf("error loading site, %w", err)
	}

	if version.Status == consts.VersionStatusPending {
		if err = c.content.UpdateVersionStatus(ctx, version.ID, consts.VersionStatusBuilding); err != nil {
			return errs.RetryableError{Err: err}
		}
	}

	theme, err := c.loadTheme(ctx, site)
	if err != nil {
		return err
	}

	blocks, err := c.content.ListBlocks(ctx)
	if err != nil {
		return errs.RetryableError{Err: fmt.Errorf("error loading block definitions, %w", err)}
	}
	lookup := publish.NewBlockLookup(blocks)
	globals := publish.ResolveGlobalBlocks(site.GlobalBlocks, lookup)

	pages, err := publish.ParseSnapshot(version.PagesSnapshot)
	if err != nil {
		return errs.InvalidJobError{Err: fmt.Errorf("version %s: %w", version.ID, err)}
	}

	for _, page := range pages {
		doc := publish.ResolvePage(page, lookup, theme, globals)
		body, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("error serializing page %s, %w", doc.Slug, err)
		}
		key := publish.ArtifactKey(site.ID, version.ID, doc.Slug)
		if err = c.artifacts.PutArtifact(ctx, key, body); err != nil {
			return err
		}
		metrics.ArtifactsWritten.Inc()
		slog.Debug("uploaded page", "key", key)
	}

	if err = c.content.MarkVersionPublished(ctx, version.ID, c.now().UTC()); err != nil {
		return errs.RetryableError{Err: err}
	}
	if err = c.pointers.SetPublished(ctx, site.ID, version.ID); err != nil {
		return errs.RetryableError{Err: err}
	}
	slog.Info("site published", append(job.LogArgs(), "pages", len(pages))...)

	purgeSite(ctx, c.content, c.purger, site.ID, "publish-"+version.ID)
	return nil
}

// loadTheme falls back to the built-in theme when the site has none, its
// theme row is gone or the row cannot be decoded. Store failures are not masked.
func (c *PublishSite) loadTheme(ctx context.Context, site *entity.Site) (entity.Theme, error) {
	themeID := entity.DefaultThemeID
	if site.ThemeID != nil && *site.ThemeID != "" {
		themeID = *site.ThemeID
	}
	theme, err := c.content.GetTheme(ctx, themeID)
	if err != nil {
		if errs.IsNotFound(err) {
			return entity.DefaultTheme(), nil
		}
		if errs.IsMalformedContent(err) {
			slog.Warn("site theme is malformed, using default theme", "siteID", site.ID, "themeID", themeID, "err", err)
			return entity.DefaultTheme(), nil
		}
		return entity.Theme{}, errs.RetryableError{Err: fmt.Errorf("error loading theme %s, %w", themeID, err)}
	}
	return *theme, nil
}

func (c *PublishSite) markFailed(ctx context.Context, job events.PublishJob) {
	err := c.content.UpdateVersionStatus(ctx, job.VersionID, consts.VersionStatusFailed)
	var nf errs.NotFoundError
	if err != nil && !errors.As(err, &nf) {
		slog.Error("error marking version failed", append(job.LogArgs(), "err", err)...)
	}
}

// purgeSite invalidates the CDN for every distribution serving the site.
// Failures are logged only: the pointer already moved.
func purgeSite(ctx context.Context, content interfaces.ContentStore, purger interfaces.CDNPurger, siteID, reference string) {
	if purger == nil {
		return
	}
	ids, err := content.ListDistributionIDs(ctx, siteID)
	if err != nil {
		slog.Warn("error listing distributions for purge", "siteID", siteID, "err", err)
		return
	}
	for _, id := range ids {
		if err := purger.Purge(ctx, id, reference); err != nil {
			slog.Warn("cdn purge failed", "siteID", siteID, "distribution", id, "err", err)
		}
	}
}
