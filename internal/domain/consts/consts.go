package consts

type VersionStatus string

const (
	VersionStatusPending   VersionStatus = "pending"
	VersionStatusBuilding  VersionStatus = "building"
	VersionStatusDeploying VersionStatus = "deploying"
	VersionStatusPublished VersionStatus = "published"
	VersionStatusFailed    VersionStatus = "failed"
)

type DomainStatus string

const (
	DomainStatusPendingVerification DomainStatus = "pending_verification"
	DomainStatusActive              DomainStatus = "active"
	DomainStatusFailed              DomainStatus = "failed"
)

type JobType string

const (
	JobPublishSite  JobType = "publish_site"
	JobRollbackSite JobType = "rollback_site"
)

const (
	// BlockTypeUnknown tags placeholder nodes for instances that could not be resolved.
	BlockTypeUnknown = "unknown"
	// MaxBlockDepth bounds recursion over tenant supplied block trees.
	MaxBlockDepth = 32

	IndexSlug    = "index"
	NotFoundSlug = "404"
)
