package events

import (
	"github.com/Builder-Lawyers/publisher/internal/domain/consts"
)

// PublishJob is the queue message consumed by the publish worker.
type PublishJob struct {
	Type      consts.JobType `json:"type"`
	VersionID string         `json:"versionId"`
	SiteID    string         `json:"siteId"`
	TenantID  string         `json:"tenantId"`
	UserID    string         `json:"userId"`
}

func (e PublishJob) GetType() string {
	return string(e.Type)
}

// LogArgs returns the fields every job log line carries.
func (e PublishJob) LogArgs() []any {
	return []any{"jobType", e.Type, "siteID", e.SiteID, "versionID", e.VersionID}
}
