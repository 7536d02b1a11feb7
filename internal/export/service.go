package export

import (
	"bytes"
	"context"
	"fmt"

	"go.uber.org/zap"

	"ziklo-timetrack-backend/internal/closure"
	"ziklo-timetrack-backend/internal/model"
	"ziklo-timetrack-backend/internal/store"
)

// Request carries the export filter set as supplied by the admin console.
type Request struct {
	StartDate     string   `json:"start_date" binding:"required"`
	EndDate       string   `json:"end_date" binding:"required"`
	ProjectIDs    []string `json:"project_ids"`
	CostCenterIDs []string `json:"cost_center_ids"`
	EngineerIDs   []string `json:"engineer_ids"`
	RequestedBy   string   `json:"requested_by"`
}

// Result is a finished export: the workbook, its suggested filename, and
// the closure the export created or revised.
type Result struct {
	File     *bytes.Buffer
	Filename string
	Closure  *model.ExportClosure
	Revised  bool
}

// Service runs hour exports: it queries the entry projection, serializes
// the spreadsheet, and freezes the exported range through the closure
// lifecycle manager.
type Service struct {
	store    store.Store
	closures *closure.Manager
	logger   *zap.Logger
}

// NewService creates the export service.
func NewService(s store.Store, closures *closure.Manager, logger *zap.Logger) *Service {
	return &Service{store: s, closures: closures, logger: logger}
}

// ExportExcel produces the spreadsheet and the closure for one export run.
// The exported record count feeds the idempotency hash: repeating the same
// export over unchanged data revises the existing closure instead of
// creating a second one.
func (s *Service) ExportExcel(ctx context.Context, req Request) (*Result, error) {
	rows, err := s.store.ExportRows(ctx, store.ExportQuery{
		DateStart:     req.StartDate,
		DateEnd:       req.EndDate,
		ProjectIDs:    req.ProjectIDs,
		CostCenterIDs: req.CostCenterIDs,
		EngineerIDs:   req.EngineerIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("export query failed: %w", err)
	}

	buf, err := buildWorkbook(rows)
	if err != nil {
		return nil, err
	}

	filters := closure.ExportFilters{
		DateStart:     req.StartDate,
		DateEnd:       req.EndDate,
		ProjectIDs:    req.ProjectIDs,
		CostCenterIDs: req.CostCenterIDs,
		EngineerIDs:   req.EngineerIDs,
	}
	c, revised, err := s.closures.CreateOrRevise(ctx, filters, len(rows), req.RequestedBy)
	if err != nil {
		return nil, err
	}

	s.logger.Info("excel export completed",
		zap.String("closure_id", c.ID),
		zap.Int("rows", len(rows)),
		zap.Bool("revised", revised))

	return &Result{
		File:     buf,
		Filename: fmt.Sprintf("horas_%s_%s_rev%d.xlsx", req.StartDate, req.EndDate, c.Revision),
		Closure:  c,
		Revised:  revised,
	}, nil
}
