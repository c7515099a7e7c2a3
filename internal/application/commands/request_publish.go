package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Builder-Lawyers/publisher/internal/application/consts"
	"github.com/Builder-Lawyers/publisher/internal/application/dto"
	"github.com/Builder-Lawyers/publisher/internal/application/errs"
	"github.com/Builder-Lawyers/publisher/internal/application/events"
	domainConsts "github.com/Builder-Lawyers/publisher/internal/domain/consts"
	"github.com/Builder-Lawyers/publisher/internal/domain/entity"
	"github.com/Builder-Lawyers/publisher/internal/infra/auth"
	"github.com/Builder-Lawyers/publisher/internal/infra/db/repo"
	"github.com/Builder-Lawyers/publisher/internal/infra/ids"
	dbs "github.com/Builder-Lawyers/publisher/pkg/db"
	"github.com/google/uuid"
)

// RequestPublish snapshots a site's pages into a pending version and
// enqueues the publish job through the outbox, all in one transaction.
type RequestPublish struct {
	uowFactory *dbs.UOWFactory
	now        func() time.Time
}

func NewRequestPublish(uowFactory *dbs.UOWFactory) *RequestPublish {
	return &RequestPublish{uowFactory: uowFactory, now: time.Now}
}

func (c *RequestPublish) Execute(ctx context.Context, siteID string, identity *auth.Identity) (_ dto.PublishResponse, err error) {
	uow := c.uowFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return dto.PublishResponse{}, err
	}
	defer uow.Finalize(&err)

	siteRepo := repo.NewSiteRepo(tx)
	if _, err = siteRepo.GetTenantSite(ctx, siteID, identity.TenantID); err != nil {
		return dto.PublishResponse{}, err
	}

	pages, err := siteRepo.ListPages(ctx, siteID)
	if err != nil {
		return dto.PublishResponse{}, fmt.Errorf("error loading pages, %w", err)
	}
	if len(pages) == 0 {
		return dto.PublishResponse{}, errs.ValidationError{Err: errors.New("site has no pages to publish")}
	}

	snapshot, err := json.Marshal(pages)
	if err != nil {
		return dto.PublishResponse{}, fmt.Errorf("error serializing snapshot, %w", err)
	}

	now := c.now().UTC().Truncate(time.Microsecond)
	versionID, err := ids.NewVersionID(now)
	if err != nil {
		return dto.PublishResponse{}, err
	}
	version := entity.PublishVersion{
		ID:            versionID,
		SiteID:        siteID,
		Version:       now.Unix(),
		Status:        domainConsts.VersionStatusPending,
		PagesSnapshot: snapshot,
		CreatedBy:     identity.UserID,
		CreatedAt:     now,
	}
	if err = repo.NewVersionRepo(tx).InsertVersion(ctx, version); err != nil {
		return dto.PublishResponse{}, err
	}

	job := events.PublishJob{
		Type:      domainConsts.JobPublishSite,
		VersionID: versionID,
		SiteID:    siteID,
		TenantID:  identity.TenantID,
		UserID:    identity.UserID,
	}
	if err = repo.NewEventRepo(tx).InsertEvent(ctx, job); err != nil {
		return dto.PublishResponse{}, err
	}

	err = repo.NewAuditRepo(tx).InsertAuditLog(ctx, entity.AuditLog{
		ID:           uuid.New(),
		TenantID:     identity.TenantID,
		UserID:       identity.UserID,
		Action:       consts.AuditActionPublishSite,
		ResourceType: consts.AuditResourceSite,
		ResourceID:   siteID,
		Metadata:     map[string]any{"version_id": versionID},
		CreatedAt:    now,
	})
	if err != nil {
		return dto.PublishResponse{}, err
	}

	slog.Info("publish requested", append(job.LogArgs(), "pages", len(pages))...)

	version.PagesSnapshot = nil
	return dto.PublishResponse{
		Success: true,
		Version: &version,
		Message: "Publish job queued. Site will be live in a few moments.",
	}, nil
}
