package model

import "time"

// CostCenter represents an accounting cost center.
type CostCenter struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Code      string    `gorm:"size:64;uniqueIndex;not null" json:"code"`
	Name      string    `gorm:"size:256;not null" json:"name"`
	Status    string    `gorm:"size:32;not null;default:active" json:"status"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
