// Package dto defines data transfer objects for the commentary HTTP API.
package dto

import (
	"time"

	"fxsignal_backend/internal/feature/commentary/domain/entity"
)

type CommentaryResponse struct {
	Instrument string `json:"instrument"`
	Name       string `json:"name"`
	Summary    string `json:"summary"`
	AsOf       string `json:"as_of"` // RFC3339 (UTC)
}

func FromCommentary(c *entity.Commentary) CommentaryResponse {
	return CommentaryResponse{
		Instrument: c.Instrument,
		Name:       c.Name,
		Summary:    c.Summary,
		AsOf:       c.AsOf.UTC().Format(time.RFC3339),
	}
}
