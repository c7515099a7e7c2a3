package dto

import (
	"time"

	"github.com/Builder-Lawyers/publisher/internal/domain/entity"
)

type PublishResponse struct {
	Success bool                   `json:"success"`
	Version *entity.PublishVersion `json:"version,omitempty"`
	Message string                 `json:"message"`
}

type VersionsResponse struct {
	Versions []entity.PublishVersion `json:"versions"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status      string    `json:"status"`
	Service     string    `json:"service"`
	Environment string    `json:"environment,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
