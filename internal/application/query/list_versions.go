package query

import (
	"context"

	"github.com/Builder-Lawyers/publisher/internal/application/dto"
	"github.com/Builder-Lawyers/publisher/internal/infra/auth"
	"github.com/Builder-Lawyers/publisher/internal/infra/db/repo"
	dbs "github.com/Builder-Lawyers/publisher/pkg/db"
)

const versionHistoryLimit = 50

type ListVersions struct {
	uowFactory *dbs.UOWFactory
}

func NewListVersions(uowFactory *dbs.UOWFactory) *ListVersions {
	return &ListVersions{uowFactory: uowFactory}
}

func (c *ListVersions) Query(ctx context.Context, siteID string, identity *auth.Identity) (dto.VersionsResponse, error) {
	pool := c.uowFactory.Pool
	if _, err := repo.NewSiteRepo(pool).GetTenantSite(ctx, siteID, identity.TenantID); err != nil {
		return dto.VersionsResponse{}, err
	}
	versions, err := repo.NewVersionRepo(pool).ListVersions(ctx, siteID, versionHistoryLimit)
	if err != nil {
		return dto.VersionsResponse{}, err
	}
	return dto.VersionsResponse{Versions: versions}, nil
}
