package commands

import (
	"context"
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
	dbs "github.com/Builder-Lawyers/publisher/pkg/db"
	"github.com/google/uuid"
)

type RequestRollback struct {
	uowFactory *dbs.UOWFactory
}

func NewRequestRollback(uowFactory *dbs.UOWFactory) *RequestRollback {
	return &RequestRollback{uowFactory: uowFactory}
}

func (c *RequestRollback) Execute(ctx context.Context, siteID, versionID string, identity *auth.Identity) (_ dto.PublishResponse, err error) {
	uow := c.uowFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return dto.PublishResponse{}, err
	}
	defer uow.Finalize(&err)

	if _, err = repo.NewSiteRepo(tx).GetTenantSite(ctx, siteID, identity.TenantID); err != nil {
		return dto.PublishResponse{}, err
	}

	version, err := repo.NewVersionRepo(tx).GetSiteVersion(ctx, siteID, versionID)
	if err != nil {
		return dto.PublishResponse{}, err
	}
	if !version.IsPublished() {
		return dto.PublishResponse{}, errs.ValidationError{Err: fmt.Errorf("can only rollback to published versions, %s is %s", versionID, version.Status)}
	}

	job := events.PublishJob{
		Type:      domainConsts.JobRollbackSite,
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
		Action:       consts.AuditActionRollbackSite,
		ResourceType: consts.AuditResourceSite,
		ResourceID:   siteID,
		Metadata:     map[string]any{"version_id": versionID},
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return dto.PublishResponse{}, err
	}

	slog.Info("rollback requested", job.LogArgs()...)
	return dto.PublishResponse{Success: true, Message: "Rollback job queued."}, nil
}
