package model

import "time"

// Project represents a billable project hours are logged against.
type Project struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Code         string    `gorm:"size:64;uniqueIndex;not null" json:"code"`
	Name         string    `gorm:"size:256;not null" json:"name"`
	Client       string    `gorm:"size:256" json:"client"`
	Status       string    `gorm:"size:32;not null;default:active" json:"status"`
	LeaderUserID string    `gorm:"size:36;index" json:"leader_user_id"`
	CostCenterID string    `gorm:"size:36;index" json:"cost_center_id"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}
