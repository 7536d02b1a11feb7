package tracking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"ziklo-timetrack-backend/internal/audit"
	"ziklo-timetrack-backend/internal/closure"
	"ziklo-timetrack-backend/internal/model"
	"ziklo-timetrack-backend/internal/store"
)

// EntryInput carries the mutable fields of a time entry. Updates replace
// all of them.
type EntryInput struct {
	Date         string  `json:"date"`
	ProjectID    string  `json:"project_id"`
	CostCenterID string  `json:"cost_center_id"`
	EngineerID   string  `json:"engineer_id"`
	ConceptID    string  `json:"concept_id"`
	Hours        float64 `json:"hours"`
	Notes        string  `json:"notes"`
	CreatedBy    string  `json:"created_by"`
}

// Service owns the time-entry mutation path: date normalization, the
// closure gate, the daily-hours ceiling, and the writes themselves.
//
// There is a known check-then-write window between the closure/limit checks
// and the mutation; the backing store is the only serialization point.
type Service struct {
	store     store.Store
	dates     *DateNormalizer
	audit     audit.Sink
	logger    *zap.Logger
	maxPerDay float64
}

// NewService creates the time-entry service.
func NewService(s store.Store, dates *DateNormalizer, sink audit.Sink, logger *zap.Logger, maxHoursPerDay float64) *Service {
	return &Service{
		store:     s,
		dates:     dates,
		audit:     sink,
		logger:    logger,
		maxPerDay: maxHoursPerDay,
	}
}

// List returns entries matching the query.
func (s *Service) List(ctx context.Context, q store.TimeEntryQuery) ([]model.TimeEntry, error) {
	return s.store.ListTimeEntries(ctx, q)
}

// Create validates and persists a new time entry. An entry admitted through
// a partial-reopen exception is flagged as a post-export adjustment and
// linked to the closure it adjusts.
func (s *Service) Create(ctx context.Context, in EntryInput) (*model.TimeEntry, error) {
	date, err := s.dates.Normalize(in.Date)
	if err != nil {
		return nil, err
	}

	decision, err := s.gate(ctx, in, date)
	if err != nil {
		return nil, err
	}

	if err := s.checkDailyLimit(ctx, in.EngineerID, date, in.Hours, ""); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	createdBy := in.CreatedBy
	if createdBy == "" {
		createdBy = "system"
	}
	entry := &model.TimeEntry{
		ID:           uuid.NewString(),
		Date:         date,
		ProjectID:    in.ProjectID,
		CostCenterID: in.CostCenterID,
		EngineerID:   in.EngineerID,
		ConceptID:    in.ConceptID,
		Hours:        in.Hours,
		Notes:        in.Notes,
		CreatedBy:    createdBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	applyAdjustmentFlag(entry, decision)

	if err := s.store.CreateTimeEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create time entry: %w", err)
	}

	s.audit.Record(audit.Entry{
		Actor:    createdBy,
		Action:   "CREATE",
		Entity:   "time_entry",
		EntityID: entry.ID,
		Payload:  entryPayload(entry),
	})
	return entry, nil
}

// Update replaces the mutable fields of an existing entry after re-running
// the closure gate and the daily limit against the new values.
func (s *Service) Update(ctx context.Context, id string, in EntryInput) (*model.TimeEntry, error) {
	entry, err := s.store.GetTimeEntry(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to load time entry: %w", err)
	}

	date, err := s.dates.Normalize(in.Date)
	if err != nil {
		return nil, err
	}

	decision, err := s.gate(ctx, in, date)
	if err != nil {
		return nil, err
	}

	if err := s.checkDailyLimit(ctx, in.EngineerID, date, in.Hours, id); err != nil {
		return nil, err
	}

	entry.Date = date
	entry.ProjectID = in.ProjectID
	entry.CostCenterID = in.CostCenterID
	entry.EngineerID = in.EngineerID
	entry.ConceptID = in.ConceptID
	entry.Hours = in.Hours
	entry.Notes = in.Notes
	entry.UpdatedAt = time.Now().UTC()
	applyAdjustmentFlag(entry, decision)

	if err := s.store.SaveTimeEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to update time entry: %w", err)
	}

	s.audit.Record(audit.Entry{
		Actor:    entry.CreatedBy,
		Action:   "UPDATE",
		Entity:   "time_entry",
		EntityID: entry.ID,
		Payload:  entryPayload(entry),
	})
	return entry, nil
}

// Delete removes an entry unless its stored tuple falls inside a blocking
// closure scope.
func (s *Service) Delete(ctx context.Context, id, requestedBy string) error {
	entry, err := s.store.GetTimeEntry(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEntryNotFound
		}
		return fmt.Errorf("failed to load time entry: %w", err)
	}

	decision, err := s.evaluateClosure(ctx, closure.Candidate{
		ProjectID:    entry.ProjectID,
		CostCenterID: entry.CostCenterID,
		EngineerID:   entry.EngineerID,
		Date:         entry.Date,
	})
	if err != nil {
		return err
	}
	if decision.Blocked {
		return &BlockedError{
			ClosureID: decision.Closure.ID,
			DateStart: decision.Closure.DateStart,
			DateEnd:   decision.Closure.DateEnd,
		}
	}

	if err := s.store.DeleteTimeEntry(ctx, id); err != nil {
		return fmt.Errorf("failed to delete time entry: %w", err)
	}

	s.audit.Record(audit.Entry{
		Actor:    requestedBy,
		Action:   "DELETE",
		Entity:   "time_entry",
		EntityID: id,
		Payload:  entryPayload(entry),
	})
	return nil
}

// gate runs the closure check for a create/update and converts a blocking
// decision into the caller-visible error.
func (s *Service) gate(ctx context.Context, in EntryInput, date string) (closure.Decision, error) {
	decision, err := s.evaluateClosure(ctx, closure.Candidate{
		ProjectID:    in.ProjectID,
		CostCenterID: in.CostCenterID,
		EngineerID:   in.EngineerID,
		Date:         date,
	})
	if err != nil {
		return closure.Decision{}, err
	}
	if decision.Blocked {
		s.logger.Info("time entry mutation blocked by closure",
			zap.String("closure_id", decision.Closure.ID),
			zap.String("date", date))
		return closure.Decision{}, &BlockedError{
			ClosureID: decision.Closure.ID,
			DateStart: decision.Closure.DateStart,
			DateEnd:   decision.Closure.DateEnd,
		}
	}
	return decision, nil
}

// evaluateClosure finds the closure overlapping the candidate's date, if
// any, and delegates the decision to the scope matcher.
func (s *Service) evaluateClosure(ctx context.Context, cand closure.Candidate) (closure.Decision, error) {
	c, err := s.store.FindBlockingClosure(ctx, cand.Date)
	if err != nil {
		return closure.Decision{}, fmt.Errorf("closure lookup failed: %w", err)
	}
	if c == nil {
		return closure.Decision{}, nil
	}
	return closure.Evaluate(c, cand), nil
}

// checkDailyLimit enforces the per-engineer daily ceiling. It runs after
// the closure gate so closure blocking wins in error reporting.
func (s *Service) checkDailyLimit(ctx context.Context, engineerID, date string, hours float64, excludeEntryID string) error {
	existing, err := s.store.SumEngineerHours(ctx, engineerID, date, excludeEntryID)
	if err != nil {
		return fmt.Errorf("failed to sum daily hours: %w", err)
	}
	total := existing + hours
	if total > s.maxPerDay {
		return &DailyLimitError{Total: total, Max: s.maxPerDay}
	}
	return nil
}

// applyAdjustmentFlag marks an entry admitted through a partial-reopen
// exception as a post-export adjustment tied to that closure.
func applyAdjustmentFlag(entry *model.TimeEntry, decision closure.Decision) {
	if decision.InException {
		id := decision.Closure.ID
		entry.ClosureID = &id
		entry.PostExportAdjustment = true
	}
}

func entryPayload(e *model.TimeEntry) map[string]any {
	return map[string]any{
		"date":                   e.Date,
		"project_id":             e.ProjectID,
		"cost_center_id":         e.CostCenterID,
		"engineer_id":            e.EngineerID,
		"concept_id":             e.ConceptID,
		"hours":                  e.Hours,
		"post_export_adjustment": e.PostExportAdjustment,
	}
}
