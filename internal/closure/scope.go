package closure

import "ziklo-timetrack-backend/internal/model"

// ExportFilters describes one export request's filter set. Empty id slices
// mean "no filter on that dimension".
type ExportFilters struct {
	DateStart     string
	DateEnd       string
	ProjectIDs    []string
	CostCenterIDs []string
	EngineerIDs   []string
}

// ScopeRows expands a filter set into the scope rows the resulting closure
// must carry: the cartesian product of the supplied dimension id lists,
// where an unfiltered dimension contributes a single nil placeholder. A
// filter set with no dimensions at all yields exactly one all-nil row (a
// global block for the date range).
//
// ClosureID, row ids and timestamps are left for the caller to fill in.
func ScopeRows(f ExportFilters) []model.ClosureScope {
	projects := dimensionValues(f.ProjectIDs)
	costCenters := dimensionValues(f.CostCenterIDs)
	engineers := dimensionValues(f.EngineerIDs)

	rows := make([]model.ClosureScope, 0, len(projects)*len(costCenters)*len(engineers))
	for _, p := range projects {
		for _, cc := range costCenters {
			for _, e := range engineers {
				rows = append(rows, model.ClosureScope{
					ProjectID:    p,
					CostCenterID: cc,
					EngineerID:   e,
				})
			}
		}
	}
	return rows
}

// dimensionValues turns an id list into its cartesian-product factor: the
// nil placeholder when unfiltered, one pointer per id otherwise.
func dimensionValues(ids []string) []*string {
	if len(ids) == 0 {
		return []*string{nil}
	}
	vals := make([]*string, len(ids))
	for i := range ids {
		vals[i] = &ids[i]
	}
	return vals
}
