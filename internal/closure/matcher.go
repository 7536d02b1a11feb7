package closure

import (
	"fmt"

	"ziklo-timetrack-backend/internal/model"
)

// Candidate is the (project, cost center, engineer, date) tuple a time-entry
// mutation wants to touch. Date must already be a normalized calendar-day
// string in the configured time zone.
type Candidate struct {
	ProjectID    string
	CostCenterID string
	EngineerID   string
	Date         string
}

// Decision is the outcome of matching a candidate against one closure.
//
// InException is only ever true together with Blocked == false: it signals
// that a partially reopened closure lets the mutation through an exception
// window, so the caller must record it as a post-export adjustment linked
// to the closure.
type Decision struct {
	Blocked     bool
	InException bool
	Closure     *model.ExportClosure
	Reason      string
}

// Evaluate decides whether a candidate mutation is blocked by the given
// closure. The caller is responsible for only passing closures whose date
// range contains cand.Date, and for preloading Scopes and Exceptions.
//
// Precedence: a REABIERTO (or reserved CERRADO_DEFINITIVO) closure never
// blocks; a PARCIALMENTE_REABIERTO closure consults its exception windows
// before falling back to the original scope; an ACTIVO closure blocks iff a
// scope row matches on all three dimensions with nulls as wildcards.
func Evaluate(c *model.ExportClosure, cand Candidate) Decision {
	switch c.Status {
	case model.ClosureStatusActivo:
		return matchScope(c, cand)

	case model.ClosureStatusParcialmenteReabierto:
		for i := range c.Exceptions {
			exc := &c.Exceptions[i]
			if cand.Date < exc.DateStart || cand.Date > exc.DateEnd {
				continue
			}
			if listMatch(exc.ProjectIDs, cand.ProjectID) &&
				listMatch(exc.CostCenterIDs, cand.CostCenterID) &&
				listMatch(exc.EngineerIDs, cand.EngineerID) {
				return Decision{InException: true, Closure: c}
			}
		}
		// No exception applies: the original scope still governs.
		return matchScope(c, cand)

	default:
		// REABIERTO fully lifts blocking; CERRADO_DEFINITIVO is reserved
		// and unreachable through the lifecycle, treated the same way.
		return Decision{}
	}
}

func matchScope(c *model.ExportClosure, cand Candidate) Decision {
	for i := range c.Scopes {
		scope := &c.Scopes[i]
		if FilterFor(scope.ProjectID).Matches(cand.ProjectID) &&
			FilterFor(scope.CostCenterID).Matches(cand.CostCenterID) &&
			FilterFor(scope.EngineerID).Matches(cand.EngineerID) {
			return Decision{
				Blocked: true,
				Closure: c,
				Reason:  fmt.Sprintf("Operación bloqueada por cierre activo del %s al %s", c.DateStart, c.DateEnd),
			}
		}
	}
	return Decision{}
}
