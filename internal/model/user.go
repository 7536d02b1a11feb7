package model

import "time"

// User represents an application account (admin console login identity).
type User struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	ExternalID string    `gorm:"size:64;index" json:"external_id"`
	Name       string    `gorm:"size:256;not null" json:"name"`
	Email      string    `gorm:"size:256;uniqueIndex" json:"email"`
	Status     string    `gorm:"size:32;not null;default:active" json:"status"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}
