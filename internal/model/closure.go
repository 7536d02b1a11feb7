package model

import "time"

// Export closure statuses. CerradoDefinitivo is reserved: no lifecycle
// transition currently produces it, but the value is part of the contract
// with existing data and the admin console.
const (
	ClosureStatusActivo                = "ACTIVO"
	ClosureStatusReabierto             = "REABIERTO"
	ClosureStatusParcialmenteReabierto = "PARCIALMENTE_REABIERTO"
	ClosureStatusCerradoDefinitivo     = "CERRADO_DEFINITIVO"
)

// ExportClosure records the effect of one Excel export: the exported date
// range and scope are frozen against time-entry mutation until reopened.
// Closures are never deleted; repeated identical exports bump Revision
// instead of creating duplicates.
type ExportClosure struct {
	ID         string `gorm:"primaryKey;size:36" json:"id"`
	DateStart  string `gorm:"size:10;not null;index" json:"date_start"`
	DateEnd    string `gorm:"size:10;not null;index" json:"date_end"`
	Status     string `gorm:"size:32;not null;index" json:"status"`
	Revision   int    `gorm:"not null;default:1" json:"revision"`
	FilterHash string `gorm:"size:64;not null;index" json:"filter_hash"`
	FileID     string `gorm:"size:36;not null" json:"file_id"`
	CreatedBy  string `gorm:"size:64;not null" json:"created_by"`

	ReopenedAt *time.Time `json:"reopened_at"`
	ReopenedBy string     `gorm:"size:64" json:"reopened_by"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	// Associations
	Scopes     []ClosureScope     `gorm:"foreignKey:ClosureID" json:"scopes,omitempty"`
	Exceptions []ClosureException `gorm:"foreignKey:ClosureID" json:"exceptions,omitempty"`
}

// ClosureScope is one (project, cost center, engineer) combination a closure
// blocks. A nil dimension means "all values of that dimension"; a closure
// exported without filters carries exactly one all-nil row.
type ClosureScope struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	ClosureID    string    `gorm:"size:36;not null;index" json:"closure_id"`
	ProjectID    *string   `gorm:"size:36" json:"project_id"`
	CostCenterID *string   `gorm:"size:36" json:"cost_center_id"`
	EngineerID   *string   `gorm:"size:36" json:"engineer_id"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

// ClosureException is one partial-reopen window: a sub-range of the parent
// closure plus optional override id lists describing what is exempt from
// blocking inside it. A nil list exempts any value of that dimension.
// Exceptions are written once by a partial reopen and never mutated.
type ClosureException struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	ClosureID string `gorm:"size:36;not null;index" json:"closure_id"`
	DateStart string `gorm:"size:10;not null" json:"date_start"`
	DateEnd   string `gorm:"size:10;not null" json:"date_end"`

	ProjectIDs    []string `gorm:"serializer:json" json:"project_ids"`
	CostCenterIDs []string `gorm:"serializer:json" json:"cost_center_ids"`
	EngineerIDs   []string `gorm:"serializer:json" json:"engineer_ids"`

	Note      string    `gorm:"type:text" json:"note"`
	CreatedBy string    `gorm:"size:64;not null" json:"created_by"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
