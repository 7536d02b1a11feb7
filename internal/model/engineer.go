package model

import "time"

// Engineer represents a person whose hours are tracked. It is distinct
// from User: an engineer may exist without a console account.
type Engineer struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	UserID         string    `gorm:"size:36;index" json:"user_id"`
	DocumentNumber string    `gorm:"size:64" json:"document_number"`
	Title          string    `gorm:"size:128" json:"title"`
	Status         string    `gorm:"size:32;not null;default:active" json:"status"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
}
