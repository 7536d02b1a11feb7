package model

import "time"

// TimeEntry represents one engineer's hours on one calendar day against a
// project, cost center and concept.
//
// Date is a calendar-day string (YYYY-MM-DD) normalized to the configured
// time zone before it is stored; closure ranges use the same representation
// so range checks are plain string comparisons.
type TimeEntry struct {
	ID           string  `gorm:"primaryKey;size:36" json:"id"`
	Date         string  `gorm:"size:10;not null;index" json:"date"`
	ProjectID    string  `gorm:"size:36;not null;index" json:"project_id"`
	CostCenterID string  `gorm:"size:36;not null;index" json:"cost_center_id"`
	EngineerID   string  `gorm:"size:36;not null;index:idx_time_entries_engineer_date" json:"engineer_id"`
	ConceptID    string  `gorm:"size:36;not null" json:"concept_id"`
	Hours        float64 `gorm:"not null" json:"hours"`
	Notes        string  `gorm:"type:text" json:"notes"`
	CreatedBy    string  `gorm:"size:64;not null" json:"created_by"`

	// ClosureID is set only when the entry was written through a partial
	// reopen exception; such entries are post-export adjustments.
	ClosureID            *string `gorm:"size:36;index" json:"closure_id"`
	PostExportAdjustment bool    `gorm:"not null;default:false" json:"post_export_adjustment"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
