package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"ziklo-timetrack-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	// Catalog entities
	CreateUser(ctx context.Context, u *model.User) error
	ListUsers(ctx context.Context) ([]model.User, error)
	CreateProject(ctx context.Context, p *model.Project) error
	ListProjects(ctx context.Context) ([]model.Project, error)
	CreateCostCenter(ctx context.Context, cc *model.CostCenter) error
	ListCostCenters(ctx context.Context) ([]model.CostCenter, error)
	CreateEngineer(ctx context.Context, e *model.Engineer) error
	ListEngineers(ctx context.Context) ([]model.Engineer, error)
	CreateConcept(ctx context.Context, c *model.Concept) error
	ListConcepts(ctx context.Context) ([]model.Concept, error)

	// Time entries
	CreateTimeEntry(ctx context.Context, e *model.TimeEntry) error
	GetTimeEntry(ctx context.Context, id string) (*model.TimeEntry, error)
	SaveTimeEntry(ctx context.Context, e *model.TimeEntry) error
	DeleteTimeEntry(ctx context.Context, id string) error
	ListTimeEntries(ctx context.Context, q TimeEntryQuery) ([]model.TimeEntry, error)
	SumEngineerHours(ctx context.Context, engineerID, date, excludeEntryID string) (float64, error)

	// Export closures
	FindBlockingClosure(ctx context.Context, date string) (*model.ExportClosure, error)
	FindActiveClosureByHash(ctx context.Context, dateStart, dateEnd, hash string) (*model.ExportClosure, error)
	GetClosure(ctx context.Context, id string) (*model.ExportClosure, error)
	ListClosures(ctx context.Context, detailed bool) ([]model.ExportClosure, error)
	CreateClosureWithScopes(ctx context.Context, c *model.ExportClosure, scopes []model.ClosureScope) error
	SaveClosure(ctx context.Context, c *model.ExportClosure) error
	ReopenPartial(ctx context.Context, c *model.ExportClosure, exc *model.ClosureException) error

	// Export projection and dashboard aggregations
	ExportRows(ctx context.Context, q ExportQuery) ([]ExportRow, error)
	DashboardKPIs(ctx context.Context, monthStart, monthEnd string) (*KPIs, error)
	HoursByProject(ctx context.Context, dateStart, dateEnd string) ([]ProjectHours, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// --- Catalog entities ---

func (s *gormStore) CreateUser(ctx context.Context, u *model.User) error {
	return s.db.WithContext(ctx).Create(u).Error
}

func (s *gormStore) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := s.db.WithContext(ctx).Find(&users).Error
	return users, err
}

func (s *gormStore) CreateProject(ctx context.Context, p *model.Project) error {
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *gormStore) ListProjects(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	err := s.db.WithContext(ctx).Find(&projects).Error
	return projects, err
}

func (s *gormStore) CreateCostCenter(ctx context.Context, cc *model.CostCenter) error {
	return s.db.WithContext(ctx).Create(cc).Error
}

func (s *gormStore) ListCostCenters(ctx context.Context) ([]model.CostCenter, error) {
	var centers []model.CostCenter
	err := s.db.WithContext(ctx).Find(&centers).Error
	return centers, err
}

func (s *gormStore) CreateEngineer(ctx context.Context, e *model.Engineer) error {
	return s.db.WithContext(ctx).Create(e).Error
}

func (s *gormStore) ListEngineers(ctx context.Context) ([]model.Engineer, error) {
	var engineers []model.Engineer
	err := s.db.WithContext(ctx).Find(&engineers).Error
	return engineers, err
}

func (s *gormStore) CreateConcept(ctx context.Context, c *model.Concept) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *gormStore) ListConcepts(ctx context.Context) ([]model.Concept, error) {
	var concepts []model.Concept
	err := s.db.WithContext(ctx).Find(&concepts).Error
	return concepts, err
}

// --- Time entries ---

// TimeEntryQuery filters the time-entry listing. Zero values mean "no
// filter on that attribute".
type TimeEntryQuery struct {
	DateStart  string
	DateEnd    string
	ProjectID  string
	EngineerID string
}

func (s *gormStore) CreateTimeEntry(ctx context.Context, e *model.TimeEntry) error {
	return s.db.WithContext(ctx).Create(e).Error
}

func (s *gormStore) GetTimeEntry(ctx context.Context, id string) (*model.TimeEntry, error) {
	var entry model.TimeEntry
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *gormStore) SaveTimeEntry(ctx context.Context, e *model.TimeEntry) error {
	return s.db.WithContext(ctx).Save(e).Error
}

func (s *gormStore) DeleteTimeEntry(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.TimeEntry{}).Error
}

func (s *gormStore) ListTimeEntries(ctx context.Context, q TimeEntryQuery) ([]model.TimeEntry, error) {
	tx := s.db.WithContext(ctx).Model(&model.TimeEntry{})
	if q.DateStart != "" && q.DateEnd != "" {
		tx = tx.Where("date >= ? AND date <= ?", q.DateStart, q.DateEnd)
	}
	if q.ProjectID != "" {
		tx = tx.Where("project_id = ?", q.ProjectID)
	}
	if q.EngineerID != "" {
		tx = tx.Where("engineer_id = ?", q.EngineerID)
	}

	var entries []model.TimeEntry
	err := tx.Order("date, created_at").Find(&entries).Error
	return entries, err
}

// SumEngineerHours sums the hours an engineer already has on a date,
// optionally excluding one entry (the one being updated).
func (s *gormStore) SumEngineerHours(ctx context.Context, engineerID, date, excludeEntryID string) (float64, error) {
	tx := s.db.WithContext(ctx).
		Model(&model.TimeEntry{}).
		Where("engineer_id = ? AND date = ?", engineerID, date)
	if excludeEntryID != "" {
		tx = tx.Where("id <> ?", excludeEntryID)
	}

	var total float64
	err := tx.Select("COALESCE(SUM(hours), 0)").Scan(&total).Error
	return total, err
}

// --- Export closures ---

// FindBlockingClosure returns the closure whose range contains the date and
// whose status can still block mutations, with scopes and exceptions
// preloaded. The lifecycle keeps at most one such closure per date, so the
// first match is the only match. Returns (nil, nil) when none overlaps.
func (s *gormStore) FindBlockingClosure(ctx context.Context, date string) (*model.ExportClosure, error) {
	var c model.ExportClosure
	err := s.db.WithContext(ctx).
		Preload("Scopes").
		Preload("Exceptions").
		Where("status IN ? AND date_start <= ? AND date_end >= ?",
			[]string{model.ClosureStatusActivo, model.ClosureStatusParcialmenteReabierto}, date, date).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindActiveClosureByHash looks up the ACTIVO closure a repeated identical
// export would revise. Returns (nil, nil) when there is none.
func (s *gormStore) FindActiveClosureByHash(ctx context.Context, dateStart, dateEnd, hash string) (*model.ExportClosure, error) {
	var c model.ExportClosure
	err := s.db.WithContext(ctx).
		Where("status = ? AND date_start = ? AND date_end = ? AND filter_hash = ?",
			model.ClosureStatusActivo, dateStart, dateEnd, hash).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *gormStore) GetClosure(ctx context.Context, id string) (*model.ExportClosure, error) {
	var c model.ExportClosure
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *gormStore) ListClosures(ctx context.Context, detailed bool) ([]model.ExportClosure, error) {
	tx := s.db.WithContext(ctx).Order("created_at DESC")
	if detailed {
		tx = tx.Preload("Scopes").Preload("Exceptions")
	}
	var closures []model.ExportClosure
	err := tx.Find(&closures).Error
	return closures, err
}

// CreateClosureWithScopes persists a closure and its scope rows in one
// transaction so a half-created closure is never observable.
func (s *gormStore) CreateClosureWithScopes(ctx context.Context, c *model.ExportClosure, scopes []model.ClosureScope) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return fmt.Errorf("failed to create closure: %w", err)
		}
		if len(scopes) == 0 {
			return nil
		}
		if err := tx.Create(&scopes).Error; err != nil {
			return fmt.Errorf("failed to create closure scopes: %w", err)
		}
		return nil
	})
}

func (s *gormStore) SaveClosure(ctx context.Context, c *model.ExportClosure) error {
	return s.db.WithContext(ctx).
		Omit("Scopes", "Exceptions").
		Save(c).Error
}

// ReopenPartial applies a partial reopen atomically: the status change and
// the new exception row land in the same transaction.
func (s *gormStore) ReopenPartial(ctx context.Context, c *model.ExportClosure, exc *model.ClosureException) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Scopes", "Exceptions").Save(c).Error; err != nil {
			return fmt.Errorf("failed to update closure status: %w", err)
		}
		if err := tx.Create(exc).Error; err != nil {
			return fmt.Errorf("failed to create closure exception: %w", err)
		}
		return nil
	})
}

// --- Export projection and dashboard aggregations ---

// ExportQuery mirrors the filter set an export runs with.
type ExportQuery struct {
	DateStart     string
	DateEnd       string
	ProjectIDs    []string
	CostCenterIDs []string
	EngineerIDs   []string
}

// ExportRow is the flattened time-entry projection the spreadsheet
// serializer consumes.
type ExportRow struct {
	Date         string
	ProjectCode  string
	ProjectName  string
	CostCenter   string
	EngineerName string
	Concept      string
	Hours        float64
	Notes        string
}

func (s *gormStore) ExportRows(ctx context.Context, q ExportQuery) ([]ExportRow, error) {
	tx := s.db.WithContext(ctx).
		Model(&model.TimeEntry{}).
		Select(`time_entries.date,
			projects.code AS project_code,
			projects.name AS project_name,
			cost_centers.name AS cost_center,
			users.name AS engineer_name,
			concepts.name AS concept,
			time_entries.hours,
			time_entries.notes`).
		Joins("LEFT JOIN projects ON projects.id = time_entries.project_id").
		Joins("LEFT JOIN cost_centers ON cost_centers.id = time_entries.cost_center_id").
		Joins("LEFT JOIN engineers ON engineers.id = time_entries.engineer_id").
		Joins("LEFT JOIN users ON users.id = engineers.user_id").
		Joins("LEFT JOIN concepts ON concepts.id = time_entries.concept_id").
		Where("time_entries.date >= ? AND time_entries.date <= ?", q.DateStart, q.DateEnd)

	if len(q.ProjectIDs) > 0 {
		tx = tx.Where("time_entries.project_id IN ?", q.ProjectIDs)
	}
	if len(q.CostCenterIDs) > 0 {
		tx = tx.Where("time_entries.cost_center_id IN ?", q.CostCenterIDs)
	}
	if len(q.EngineerIDs) > 0 {
		tx = tx.Where("time_entries.engineer_id IN ?", q.EngineerIDs)
	}

	var rows []ExportRow
	err := tx.Order("time_entries.date, project_code").Scan(&rows).Error
	return rows, err
}

// KPIs are the dashboard headline numbers.
type KPIs struct {
	TotalProjects  int64   `json:"total_projects"`
	ActiveProjects int64   `json:"active_projects"`
	TotalEngineers int64   `json:"total_engineers"`
	MonthlyHours   float64 `json:"monthly_hours"`
}

func (s *gormStore) DashboardKPIs(ctx context.Context, monthStart, monthEnd string) (*KPIs, error) {
	var kpis KPIs

	if err := s.db.WithContext(ctx).Model(&model.Project{}).Count(&kpis.TotalProjects).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&model.Project{}).
		Where("status = ?", "active").Count(&kpis.ActiveProjects).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&model.Engineer{}).Count(&kpis.TotalEngineers).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&model.TimeEntry{}).
		Where("date >= ? AND date <= ?", monthStart, monthEnd).
		Select("COALESCE(SUM(hours), 0)").Scan(&kpis.MonthlyHours).Error; err != nil {
		return nil, err
	}

	return &kpis, nil
}

// ProjectHours is one row of the hours-by-project aggregation.
type ProjectHours struct {
	ProjectID   string  `json:"project_id"`
	ProjectName string  `json:"project_name"`
	TotalHours  float64 `json:"total_hours"`
}

func (s *gormStore) HoursByProject(ctx context.Context, dateStart, dateEnd string) ([]ProjectHours, error) {
	tx := s.db.WithContext(ctx).
		Model(&model.TimeEntry{}).
		Select("time_entries.project_id AS project_id, projects.name AS project_name, SUM(time_entries.hours) AS total_hours").
		Joins("LEFT JOIN projects ON projects.id = time_entries.project_id").
		Group("time_entries.project_id, projects.name").
		Order("total_hours DESC")

	if dateStart != "" && dateEnd != "" {
		tx = tx.Where("time_entries.date >= ? AND time_entries.date <= ?", dateStart, dateEnd)
	}

	var rows []ProjectHours
	err := tx.Scan(&rows).Error
	return rows, err
}
