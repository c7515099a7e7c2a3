package entity

import (
	"encoding/json"
	"time"

	"github.com/Builder-Lawyers/publisher/internal/domain/consts"
)

type PublishVersion struct {
	ID            string               `json:"id"`
	SiteID        string               `json:"site_id"`
	Version       int64                `json:"version"`
	Status        consts.VersionStatus `json:"status"`
	PagesSnapshot json.RawMessage      `json:"pages_snapshot,omitempty"`
	CreatedBy     string               `json:"created_by"`
	CreatedAt     time.Time            `json:"created_at"`
	PublishedAt   *time.Time           `json:"published_at,omitempty"`
}

func (v PublishVersion) IsPublished() bool {
	return v.Status == consts.VersionStatusPublished
}

type Site struct {
	ID           string
	TenantID     string
	Name         string
	ThemeID      *string
	GlobalBlocks json.RawMessage
}

type Domain struct {
	ID           string
	SiteID       string
	Hostname     string
	Status       consts.DomainStatus
	CloudfrontID *string
}
