package dto

import (
	"encoding/json"
	"time"

	"github.com/pawfectpets/pawfect-api/internal/models"
)

// AuditLogDTO renders stored metadata as JSON instead of an escaped string.
type AuditLogDTO struct {
	ID       uint            `json:"id"`
	UserID   *uint           `json:"userId"`
	Action   string          `json:"action"`
	Entity   string          `json:"entity"`
	EntityID *uint           `json:"entityId"`
	Metadata json.RawMessage `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func NewAuditLogDTOs(logs []models.AuditLog) []AuditLogDTO {
	out := make([]AuditLogDTO, 0, len(logs))
	for _, l := range logs {
		d := AuditLogDTO{
			ID:        l.ID,
			UserID:    l.UserID,
			Action:    l.Action,
			Entity:    l.Entity,
			EntityID:  l.EntityID,
			CreatedAt: l.CreatedAt,
		}
		if l.Metadata != "" && json.Valid([]byte(l.Metadata)) {
			d.Metadata = json.RawMessage(l.Metadata)
		}
		out = append(out, d)
	}
	return out
}
