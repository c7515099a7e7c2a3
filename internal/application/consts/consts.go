package consts

type OutboxStatus int

const (
	NotProcessed OutboxStatus = iota
	Processing
	Processed
	InError
)

const (
	AuditActionPublishSite  = "publish_site"
	AuditActionRollbackSite = "rollback_site"
	AuditResourceSite       = "site"
)
