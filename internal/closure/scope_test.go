package closure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeRows_NoFilters(t *testing.T) {
	rows := ScopeRows(ExportFilters{DateStart: "2024-01-01", DateEnd: "2024-01-31"})

	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].ProjectID)
	assert.Nil(t, rows[0].CostCenterID)
	assert.Nil(t, rows[0].EngineerID)
}

func TestScopeRows_SingleDimension(t *testing.T) {
	rows := ScopeRows(ExportFilters{ProjectIDs: []string{"p1", "p2"}})

	require.Len(t, rows, 2)
	for i, want := range []string{"p1", "p2"} {
		require.NotNil(t, rows[i].ProjectID)
		assert.Equal(t, want, *rows[i].ProjectID)
		assert.Nil(t, rows[i].CostCenterID)
		assert.Nil(t, rows[i].EngineerID)
	}
}

func TestScopeRows_CartesianProduct(t *testing.T) {
	rows := ScopeRows(ExportFilters{
		ProjectIDs:    []string{"p1", "p2"},
		CostCenterIDs: []string{"cc1", "cc2", "cc3"},
		EngineerIDs:   []string{"e1"},
	})

	require.Len(t, rows, 6)

	seen := make(map[string]bool)
	for _, row := range rows {
		require.NotNil(t, row.ProjectID)
		require.NotNil(t, row.CostCenterID)
		require.NotNil(t, row.EngineerID)
		seen[*row.ProjectID+"/"+*row.CostCenterID+"/"+*row.EngineerID] = true
	}
	assert.Len(t, seen, 6)
	assert.True(t, seen["p2/cc3/e1"])
}

func TestScopeRows_UnfilteredDimensionKeepsPlaceholder(t *testing.T) {
	rows := ScopeRows(ExportFilters{
		ProjectIDs:  []string{"p1"},
		EngineerIDs: []string{"e1", "e2"},
	})

	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Nil(t, row.CostCenterID)
	}
}
