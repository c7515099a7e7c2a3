package application

import (
	"github.com/Builder-Lawyers/publisher/internal/application/commands"
	"github.com/Builder-Lawyers/publisher/internal/application/query"
)

// Collection holds the handlers behind the publish API.
type Collection struct {
	*commands.RequestPublish
	*commands.RequestRollback
	*query.ListVersions
}
