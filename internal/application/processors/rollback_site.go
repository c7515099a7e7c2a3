package processors

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Builder-Lawyers/publisher/internal/application/errs"
	"github.com/Builder-Lawyers/publisher/internal/application/events"
	"github.com/Builder-Lawyers/publisher/internal/application/interfaces"
	"github.com/Builder-Lawyers/publisher/internal/infra/config"
)

// RollbackSite repoints a site at an already published version. It never
// writes artifacts.
type RollbackSite struct {
	cfg      *config.PublishConfig
	content  interfaces.ContentStore
	pointers interfaces.PointerStore
	purger   interfaces.CDNPurger
	now      func() time.Time
}

func NewRollbackSite(cfg *config.PublishConfig, content interfaces.ContentStore,
	pointers interfaces.PointerStore, purger interfaces.CDNPurger,
) *RollbackSite {
	return &RollbackSite{cfg: cfg, content: content, pointers: pointers, purger: purger, now: time.Now}
}

func (c *RollbackSite) Handle(ctx context.Context, job events.PublishJob) error {
	if c.cfg.RollbackVerify {
		version, err := c.content.GetVersion(ctx, job.VersionID)
		if err != nil {
			return fmt.Errorf("error loading rollback target, %w", err)
		}
		if version.SiteID != job.SiteID {
			return errs.InvalidJobError{Err: fmt.Errorf("version %s belongs to site %s", version.ID, version.SiteID)}
		}
		if !version.IsPublished() {
			return errs.InvalidJobError{Err: fmt.Errorf("version %s is %s, not published", version.ID, version.Status)}
		}
	}

	if err := c.pointers.SetPublished(ctx, job.SiteID, job.VersionID); err != nil {
		return errs.RetryableError{Err: err}
	}
	slog.Info("site rolled back", job.LogArgs()...)

	reference := "rollback-" + job.VersionID + "-" + strconv.FormatInt(c.now().UnixNano(), 10)
	purgeSite(ctx, c.content, c.purger, job.SiteID, reference)
	return nil
}
