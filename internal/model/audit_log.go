package model

import "time"

// AuditLog is an append-only record of a mutating action. Writes are
// best-effort; a failed audit write never fails the action it describes.
type AuditLog struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	ActorUserID string         `gorm:"size:64;not null;index" json:"actor_user_id"`
	Action      string         `gorm:"size:32;not null" json:"action"`
	Entity      string         `gorm:"size:64;not null;index" json:"entity"`
	EntityID    string         `gorm:"size:36;not null;index" json:"entity_id"`
	Payload     map[string]any `gorm:"serializer:json" json:"payload"`
	IP          string         `gorm:"size:64" json:"ip"`
	UserAgent   string         `gorm:"size:256" json:"user_agent"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
}
