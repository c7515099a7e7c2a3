package db

import (
	"encoding/json"
	"fmt"

	"github.com/Builder-Lawyers/publisher/internal/application/errs"
	"github.com/Builder-Lawyers/publisher/internal/application/events"
	"github.com/Builder-Lawyers/publisher/internal/domain/entity"
)

func MapOutboxModelToPublishJob(outbox Outbox) (events.PublishJob, error) {
	var job events.PublishJob
	if err := json.Unmarshal(outbox.Payload, &job); err != nil {
		return events.PublishJob{}, fmt.Errorf("error unmarshaling outbox %d: %w", outbox.ID, err)
	}
	return job, nil
}

// MapThemeModelToEntity decodes the stored token document. id and name come
// from the row so a config without them still identifies the theme.
func MapThemeModelToEntity(model Theme) (*entity.Theme, error) {
	var theme entity.Theme
	if err := json.Unmarshal(model.Config, &theme); err != nil {
		return nil, errs.MalformedContentError{Entity: "theme", ID: model.ID, Err: err}
	}
	theme.ID = model.ID
	theme.Name = model.Name
	return &theme, nil
}

func MapBlockModelToEntity(model Block) entity.BlockDefinition {
	def := entity.BlockDefinition{
		ID:   model.ID,
		Type: model.Type,
		Name: model.Name,
	}
	if len(model.DefaultProps) > 0 {
		if err := json.Unmarshal(model.DefaultProps, &def.DefaultProps); err != nil {
			def.DefaultProps = nil
		}
	}
	return def
}
