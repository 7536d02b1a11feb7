package closure

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ziklo-timetrack-backend/internal/model"
)

func strPtr(s string) *string { return &s }

func activoClosure(scopes ...model.ClosureScope) *model.ExportClosure {
	return &model.ExportClosure{
		ID:        "closure-1",
		DateStart: "2024-01-01",
		DateEnd:   "2024-01-31",
		Status:    model.ClosureStatusActivo,
		Scopes:    scopes,
	}
}

func TestEvaluate_ActivoScopeMatching(t *testing.T) {
	testCases := []struct {
		name        string
		scopes      []model.ClosureScope
		cand        Candidate
		wantBlocked bool
	}{
		{
			name:        "all-null scope blocks any combination",
			scopes:      []model.ClosureScope{{}},
			cand:        Candidate{ProjectID: "p1", CostCenterID: "cc1", EngineerID: "e1", Date: "2024-01-15"},
			wantBlocked: true,
		},
		{
			name:        "project-only scope blocks matching project regardless of other dimensions",
			scopes:      []model.ClosureScope{{ProjectID: strPtr("p1")}},
			cand:        Candidate{ProjectID: "p1", CostCenterID: "cc9", EngineerID: "e9", Date: "2024-01-15"},
			wantBlocked: true,
		},
		{
			name:        "project-only scope does not block a different project",
			scopes:      []model.ClosureScope{{ProjectID: strPtr("p1")}},
			cand:        Candidate{ProjectID: "p2", CostCenterID: "cc1", EngineerID: "e1", Date: "2024-01-15"},
			wantBlocked: false,
		},
		{
			name: "all three dimensions must match",
			scopes: []model.ClosureScope{{
				ProjectID:    strPtr("p1"),
				CostCenterID: strPtr("cc1"),
				EngineerID:   strPtr("e1"),
			}},
			cand:        Candidate{ProjectID: "p1", CostCenterID: "cc1", EngineerID: "e2", Date: "2024-01-15"},
			wantBlocked: false,
		},
		{
			name: "second scope row can match when the first does not",
			scopes: []model.ClosureScope{
				{ProjectID: strPtr("p1")},
				{ProjectID: strPtr("p2")},
			},
			cand:        Candidate{ProjectID: "p2", CostCenterID: "cc1", EngineerID: "e1", Date: "2024-01-15"},
			wantBlocked: true,
		},
		{
			name:        "no scope rows means nothing is blocked",
			scopes:      nil,
			cand:        Candidate{ProjectID: "p1", CostCenterID: "cc1", EngineerID: "e1", Date: "2024-01-15"},
			wantBlocked: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := Evaluate(activoClosure(tc.scopes...), tc.cand)
			assert.Equal(t, tc.wantBlocked, d.Blocked)
			assert.False(t, d.InException)
			if tc.wantBlocked {
				assert.Contains(t, d.Reason, "2024-01-01")
				assert.Contains(t, d.Reason, "2024-01-31")
			}
		})
	}
}

func TestEvaluate_ReopenedStatusesNeverBlock(t *testing.T) {
	for _, status := range []string{model.ClosureStatusReabierto, model.ClosureStatusCerradoDefinitivo} {
		c := activoClosure(model.ClosureScope{})
		c.Status = status
		d := Evaluate(c, Candidate{ProjectID: "p1", CostCenterID: "cc1", EngineerID: "e1", Date: "2024-01-15"})
		assert.False(t, d.Blocked, "status %s must not block", status)
	}
}

func TestEvaluate_PartialReopenExceptions(t *testing.T) {
	base := func() *model.ExportClosure {
		c := activoClosure(model.ClosureScope{})
		c.Status = model.ClosureStatusParcialmenteReabierto
		return c
	}

	t.Run("exception exempting one project lets it through and flags it", func(t *testing.T) {
		c := base()
		c.Exceptions = []model.ClosureException{{
			DateStart:  "2024-01-01",
			DateEnd:    "2024-01-31",
			ProjectIDs: []string{"p1"},
		}}

		d := Evaluate(c, Candidate{ProjectID: "p1", CostCenterID: "cc1", EngineerID: "e1", Date: "2024-01-15"})
		assert.False(t, d.Blocked)
		assert.True(t, d.InException)
		assert.Equal(t, c, d.Closure)
	})

	t.Run("project outside the override list falls back to scope and is blocked", func(t *testing.T) {
		c := base()
		c.Exceptions = []model.ClosureException{{
			DateStart:  "2024-01-01",
			DateEnd:    "2024-01-31",
			ProjectIDs: []string{"p1"},
		}}

		d := Evaluate(c, Candidate{ProjectID: "p2", CostCenterID: "cc1", EngineerID: "e1", Date: "2024-01-15"})
		assert.True(t, d.Blocked)
		assert.False(t, d.InException)
	})

	t.Run("date outside the exception sub-range falls back to scope", func(t *testing.T) {
		c := base()
		c.Exceptions = []model.ClosureException{{
			DateStart: "2024-01-10",
			DateEnd:   "2024-01-12",
		}}

		inside := Evaluate(c, Candidate{ProjectID: "p1", CostCenterID: "cc1", EngineerID: "e1", Date: "2024-01-11"})
		assert.False(t, inside.Blocked)
		assert.True(t, inside.InException)

		outside := Evaluate(c, Candidate{ProjectID: "p1", CostCenterID: "cc1", EngineerID: "e1", Date: "2024-01-20"})
		assert.True(t, outside.Blocked)
	})

	t.Run("all-null override lists exempt everything within the sub-range", func(t *testing.T) {
		c := base()
		c.Exceptions = []model.ClosureException{{
			DateStart: "2024-01-01",
			DateEnd:   "2024-01-31",
		}}

		d := Evaluate(c, Candidate{ProjectID: "px", CostCenterID: "ccx", EngineerID: "ex", Date: "2024-01-15"})
		assert.False(t, d.Blocked)
		assert.True(t, d.InException)
	})

	t.Run("every supplied override list must contain the candidate", func(t *testing.T) {
		c := base()
		c.Exceptions = []model.ClosureException{{
			DateStart:   "2024-01-01",
			DateEnd:     "2024-01-31",
			ProjectIDs:  []string{"p1"},
			EngineerIDs: []string{"e1"},
		}}

		match := Evaluate(c, Candidate{ProjectID: "p1", CostCenterID: "anything", EngineerID: "e1", Date: "2024-01-15"})
		assert.True(t, match.InException)

		miss := Evaluate(c, Candidate{ProjectID: "p1", CostCenterID: "anything", EngineerID: "e2", Date: "2024-01-15"})
		assert.True(t, miss.Blocked)
	})
}

func TestDimensionFilter(t *testing.T) {
	assert.True(t, AnyValue().Matches("anything"))
	assert.True(t, AnyValue().IsAny())
	assert.True(t, Exactly("p1").Matches("p1"))
	assert.False(t, Exactly("p1").Matches("p2"))
	assert.True(t, FilterFor(nil).IsAny())
	assert.False(t, FilterFor(strPtr("x")).IsAny())
}
