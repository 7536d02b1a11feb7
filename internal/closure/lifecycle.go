package closure

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"ziklo-timetrack-backend/internal/audit"
	"ziklo-timetrack-backend/internal/model"
	"ziklo-timetrack-backend/internal/store"
)

// Domain errors surfaced to the caller. "Not found" and "wrong state" are
// deliberately distinct: reopening an already-reopened closure must not
// look like reopening one that never existed.
var (
	ErrClosureNotFound    = errors.New("cierre no encontrado")
	ErrInvalidReopenState = errors.New("solo los cierres en estado ACTIVO pueden ser reabiertos")
	ErrInvalidReopenType  = errors.New("tipo de reapertura inválido")
)

// ReopenType selects between lifting a closure entirely and opening an
// exception window inside it.
type ReopenType string

const (
	ReopenTotal   ReopenType = "total"
	ReopenPartial ReopenType = "partial"
)

// PartialFilters scopes a partial reopen. An empty sub-range defaults to
// the closure's own range; nil id lists exempt any value of the dimension.
type PartialFilters struct {
	DateStart     string   `json:"date_start"`
	DateEnd       string   `json:"date_end"`
	ProjectIDs    []string `json:"project_ids"`
	CostCenterIDs []string `json:"cost_center_ids"`
	EngineerIDs   []string `json:"engineer_ids"`
	Note          string   `json:"note"`
}

// Manager owns the closure lifecycle: creation on export, hash-based
// revision of repeated exports, and total/partial reopening.
type Manager struct {
	store  store.Store
	audit  audit.Sink
	logger *zap.Logger
}

// NewManager creates a lifecycle manager.
func NewManager(s store.Store, sink audit.Sink, logger *zap.Logger) *Manager {
	return &Manager{store: s, audit: sink, logger: logger}
}

// CreateOrRevise records an export's closure. A previous ACTIVO closure for
// the same range and filter hash is revised in place (revision bumped, file
// id regenerated) instead of duplicated; otherwise a new ACTIVO closure is
// created together with its scope rows. The returned bool reports whether
// an existing closure was revised.
func (m *Manager) CreateOrRevise(ctx context.Context, filters ExportFilters, recordCount int, requestedBy string) (*model.ExportClosure, bool, error) {
	hash := FilterHash(filters, recordCount)

	existing, err := m.store.FindActiveClosureByHash(ctx, filters.DateStart, filters.DateEnd, hash)
	if err != nil {
		return nil, false, fmt.Errorf("closure lookup failed: %w", err)
	}

	if existing != nil {
		existing.Revision++
		existing.FileID = uuid.NewString()
		existing.UpdatedAt = time.Now().UTC()
		if err := m.store.SaveClosure(ctx, existing); err != nil {
			return nil, false, fmt.Errorf("failed to revise closure: %w", err)
		}

		m.logger.Info("export closure revised",
			zap.String("closure_id", existing.ID),
			zap.Int("revision", existing.Revision))
		m.audit.Record(audit.Entry{
			Actor:    requestedBy,
			Action:   "UPDATE",
			Entity:   "export_closure",
			EntityID: existing.ID,
			Payload: map[string]any{
				"revision": existing.Revision,
				"file_id":  existing.FileID,
			},
		})
		return existing, true, nil
	}

	now := time.Now().UTC()
	c := &model.ExportClosure{
		ID:         uuid.NewString(),
		DateStart:  filters.DateStart,
		DateEnd:    filters.DateEnd,
		Status:     model.ClosureStatusActivo,
		Revision:   1,
		FilterHash: hash,
		FileID:     uuid.NewString(),
		CreatedBy:  requestedBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	scopes := ScopeRows(filters)
	for i := range scopes {
		scopes[i].ID = uuid.NewString()
		scopes[i].ClosureID = c.ID
		scopes[i].CreatedAt = now
	}

	if err := m.store.CreateClosureWithScopes(ctx, c, scopes); err != nil {
		return nil, false, fmt.Errorf("failed to create closure: %w", err)
	}

	m.logger.Info("export closure created",
		zap.String("closure_id", c.ID),
		zap.String("date_start", c.DateStart),
		zap.String("date_end", c.DateEnd),
		zap.Int("scope_rows", len(scopes)))
	m.audit.Record(audit.Entry{
		Actor:    requestedBy,
		Action:   "CREATE",
		Entity:   "export_closure",
		EntityID: c.ID,
		Payload: map[string]any{
			"date_start":  c.DateStart,
			"date_end":    c.DateEnd,
			"filter_hash": c.FilterHash,
			"scope_rows":  len(scopes),
		},
	})
	return c, false, nil
}

// Reopen transitions an ACTIVO closure to REABIERTO (total) or
// PARCIALMENTE_REABIERTO plus one exception window (partial).
func (m *Manager) Reopen(ctx context.Context, closureID string, typ ReopenType, partial *PartialFilters, requestedBy string) (*model.ExportClosure, error) {
	c, err := m.store.GetClosure(ctx, closureID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClosureNotFound
		}
		return nil, fmt.Errorf("closure lookup failed: %w", err)
	}
	if c.Status != model.ClosureStatusActivo {
		return nil, fmt.Errorf("%w (estado actual: %s)", ErrInvalidReopenState, c.Status)
	}

	now := time.Now().UTC()
	c.ReopenedAt = &now
	c.ReopenedBy = requestedBy
	c.UpdatedAt = now

	switch typ {
	case ReopenTotal:
		c.Status = model.ClosureStatusReabierto
		if err := m.store.SaveClosure(ctx, c); err != nil {
			return nil, fmt.Errorf("failed to reopen closure: %w", err)
		}

	case ReopenPartial:
		c.Status = model.ClosureStatusParcialmenteReabierto
		exc := buildException(c, partial, requestedBy, now)
		if err := m.store.ReopenPartial(ctx, c, exc); err != nil {
			return nil, fmt.Errorf("failed to partially reopen closure: %w", err)
		}

	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidReopenType, typ)
	}

	m.logger.Info("export closure reopened",
		zap.String("closure_id", c.ID),
		zap.String("type", string(typ)),
		zap.String("status", c.Status))
	m.audit.Record(audit.Entry{
		Actor:    requestedBy,
		Action:   "REOPEN",
		Entity:   "export_closure",
		EntityID: c.ID,
		Payload: map[string]any{
			"type":            string(typ),
			"partial_filters": partial,
		},
	})
	return c, nil
}

// buildException materializes a partial reopen's exception window. The
// sub-range defaults to the closure's full range; override lists stay nil
// (exempt any value) unless the caller supplied them.
func buildException(c *model.ExportClosure, partial *PartialFilters, requestedBy string, now time.Time) *model.ClosureException {
	exc := &model.ClosureException{
		ID:        uuid.NewString(),
		ClosureID: c.ID,
		DateStart: c.DateStart,
		DateEnd:   c.DateEnd,
		CreatedBy: requestedBy,
		CreatedAt: now,
	}
	if partial != nil {
		if partial.DateStart != "" {
			exc.DateStart = partial.DateStart
		}
		if partial.DateEnd != "" {
			exc.DateEnd = partial.DateEnd
		}
		exc.ProjectIDs = partial.ProjectIDs
		exc.CostCenterIDs = partial.CostCenterIDs
		exc.EngineerIDs = partial.EngineerIDs
		exc.Note = partial.Note
	}
	return exc
}
