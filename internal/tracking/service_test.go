package tracking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"ziklo-timetrack-backend/internal/audit"
	"ziklo-timetrack-backend/internal/closure"
	"ziklo-timetrack-backend/internal/db"
	"ziklo-timetrack-backend/internal/store"
)

func newTestService(t *testing.T) (*Service, store.Store, *closure.Manager) {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))

	s := store.NewGormStore(gormDB)
	dates, err := NewDateNormalizer("America/Bogota")
	require.NoError(t, err)

	svc := NewService(s, dates, audit.Nop{}, zap.NewNop(), 8)
	mgr := closure.NewManager(s, audit.Nop{}, zap.NewNop())
	return svc, s, mgr
}

func validInput(date string) EntryInput {
	return EntryInput{
		Date:         date,
		ProjectID:    "p1",
		CostCenterID: "cc1",
		EngineerID:   "e1",
		ConceptID:    "con1",
		Hours:        4,
		Notes:        "desarrollo",
		CreatedBy:    "tester",
	}
}

func TestCreate_NormalizesDate(t *testing.T) {
	svc, _, _ := newTestService(t)

	// 03:00 UTC is still the previous day in Bogota.
	entry, err := svc.Create(context.Background(), validInput("2024-01-15T03:00:00Z"))
	require.NoError(t, err)
	assert.Equal(t, "2024-01-14", entry.Date)
	assert.False(t, entry.PostExportAdjustment)
	assert.Nil(t, entry.ClosureID)
}

func TestCreate_RejectsInvalidDate(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), validInput("not-a-date"))
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestCreate_DailyLimitBoundary(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	existing := validInput("2024-01-10")
	existing.Hours = 6
	_, err := svc.Create(ctx, existing)
	require.NoError(t, err)

	// 6h + 2h = exactly the 8h ceiling: allowed.
	atLimit := validInput("2024-01-10")
	atLimit.Hours = 2
	_, err = svc.Create(ctx, atLimit)
	require.NoError(t, err)

	// 8h + 2.5h exceeds the ceiling.
	over := validInput("2024-01-10")
	over.Hours = 2.5
	_, err = svc.Create(ctx, over)

	var limitErr *DailyLimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 10.5, limitErr.Total)
	assert.Equal(t, 8.0, limitErr.Max)
}

func TestCreate_DailyLimitCountsOnlySameEngineerAndDate(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	first := validInput("2024-01-10")
	first.Hours = 8
	_, err := svc.Create(ctx, first)
	require.NoError(t, err)

	otherDay := validInput("2024-01-11")
	otherDay.Hours = 8
	_, err = svc.Create(ctx, otherDay)
	assert.NoError(t, err)

	otherEngineer := validInput("2024-01-10")
	otherEngineer.EngineerID = "e2"
	otherEngineer.Hours = 8
	_, err = svc.Create(ctx, otherEngineer)
	assert.NoError(t, err)
}

func TestCreate_BlockedByClosure(t *testing.T) {
	svc, _, mgr := newTestService(t)
	ctx := context.Background()

	_, _, err := mgr.CreateOrRevise(ctx, closure.ExportFilters{
		DateStart: "2024-01-01", DateEnd: "2024-01-31",
	}, 0, "admin")
	require.NoError(t, err)

	_, err = svc.Create(ctx, validInput("2024-01-15"))
	var blocked *BlockedError
	require.ErrorAs(t, err, &blocked)
	assert.Equal(t, "2024-01-01", blocked.DateStart)
	assert.Equal(t, "2024-01-31", blocked.DateEnd)
	assert.Contains(t, blocked.Error(), "cierre activo")

	// Outside the closed range the mutation goes through.
	_, err = svc.Create(ctx, validInput("2024-02-01"))
	assert.NoError(t, err)
}

func TestCreate_ClosureBlockWinsOverDailyLimit(t *testing.T) {
	svc, _, mgr := newTestService(t)
	ctx := context.Background()

	_, _, err := mgr.CreateOrRevise(ctx, closure.ExportFilters{
		DateStart: "2024-01-01", DateEnd: "2024-01-31",
	}, 0, "admin")
	require.NoError(t, err)

	in := validInput("2024-01-15")
	in.Hours = 99

	_, err = svc.Create(ctx, in)
	var blocked *BlockedError
	assert.ErrorAs(t, err, &blocked, "closure blocking must take precedence in error reporting")
}

func TestCreate_PartialReopenFlagsAdjustment(t *testing.T) {
	svc, _, mgr := newTestService(t)
	ctx := context.Background()

	c, _, err := mgr.CreateOrRevise(ctx, closure.ExportFilters{
		DateStart: "2024-01-01", DateEnd: "2024-01-31",
	}, 0, "admin")
	require.NoError(t, err)

	_, err = mgr.Reopen(ctx, c.ID, closure.ReopenPartial, &closure.PartialFilters{
		ProjectIDs: []string{"p1"},
	}, "admin")
	require.NoError(t, err)

	entry, err := svc.Create(ctx, validInput("2024-01-15"))
	require.NoError(t, err)
	assert.True(t, entry.PostExportAdjustment)
	require.NotNil(t, entry.ClosureID)
	assert.Equal(t, c.ID, *entry.ClosureID)

	// A project outside the override list is still blocked.
	other := validInput("2024-01-15")
	other.ProjectID = "p2"
	_, err = svc.Create(ctx, other)
	var blocked *BlockedError
	assert.ErrorAs(t, err, &blocked)
}

func TestCreate_TotalReopenLiftsBlocking(t *testing.T) {
	svc, _, mgr := newTestService(t)
	ctx := context.Background()

	c, _, err := mgr.CreateOrRevise(ctx, closure.ExportFilters{
		DateStart: "2024-01-01", DateEnd: "2024-01-31",
	}, 0, "admin")
	require.NoError(t, err)

	_, err = svc.Create(ctx, validInput("2024-01-15"))
	require.Error(t, err)

	_, err = mgr.Reopen(ctx, c.ID, closure.ReopenTotal, nil, "admin")
	require.NoError(t, err)

	entry, err := svc.Create(ctx, validInput("2024-01-15"))
	require.NoError(t, err)
	assert.False(t, entry.PostExportAdjustment, "total reopen is not an exception window")
}

func TestUpdate(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	entry, err := svc.Create(ctx, validInput("2024-01-10"))
	require.NoError(t, err)

	t.Run("replaces mutable fields", func(t *testing.T) {
		in := validInput("2024-01-12")
		in.Hours = 7.5
		in.Notes = "corrección"

		updated, err := svc.Update(ctx, entry.ID, in)
		require.NoError(t, err)
		assert.Equal(t, "2024-01-12", updated.Date)
		assert.Equal(t, 7.5, updated.Hours)
		assert.Equal(t, "corrección", updated.Notes)
	})

	t.Run("daily limit excludes the entry being updated", func(t *testing.T) {
		in := validInput("2024-01-12")
		in.Hours = 8

		_, err := svc.Update(ctx, entry.ID, in)
		assert.NoError(t, err, "the entry's own hours must not count against it")
	})

	t.Run("unknown entry", func(t *testing.T) {
		_, err := svc.Update(ctx, "missing", validInput("2024-01-12"))
		assert.ErrorIs(t, err, ErrEntryNotFound)
	})
}

func TestDelete(t *testing.T) {
	svc, s, mgr := newTestService(t)
	ctx := context.Background()

	entry, err := svc.Create(ctx, validInput("2024-01-10"))
	require.NoError(t, err)

	t.Run("blocked while a closure covers the stored tuple", func(t *testing.T) {
		_, _, err := mgr.CreateOrRevise(ctx, closure.ExportFilters{
			DateStart: "2024-01-01", DateEnd: "2024-01-31",
		}, 1, "admin")
		require.NoError(t, err)

		err = svc.Delete(ctx, entry.ID, "tester")
		var blocked *BlockedError
		assert.ErrorAs(t, err, &blocked)

		// Still present.
		_, err = s.GetTimeEntry(ctx, entry.ID)
		assert.NoError(t, err)
	})

	t.Run("unknown entry", func(t *testing.T) {
		err := svc.Delete(ctx, "missing", "tester")
		assert.ErrorIs(t, err, ErrEntryNotFound)
	})
}

func TestDelete_Succeeds(t *testing.T) {
	svc, s, _ := newTestService(t)
	ctx := context.Background()

	entry, err := svc.Create(ctx, validInput("2024-01-10"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, entry.ID, "tester"))

	_, err = s.GetTimeEntry(ctx, entry.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestList_Filters(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	a := validInput("2024-01-10")
	b := validInput("2024-01-20")
	b.ProjectID = "p2"
	c := validInput("2024-02-05")
	for _, in := range []EntryInput{a, b, c} {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	january, err := svc.List(ctx, store.TimeEntryQuery{DateStart: "2024-01-01", DateEnd: "2024-01-31"})
	require.NoError(t, err)
	assert.Len(t, january, 2)

	p2, err := svc.List(ctx, store.TimeEntryQuery{ProjectID: "p2"})
	require.NoError(t, err)
	require.Len(t, p2, 1)
	assert.Equal(t, "2024-01-20", p2[0].Date)
}

func TestTimeEntryRoundTrip(t *testing.T) {
	// Sanity-check that the adjustment columns survive storage.
	svc, s, mgr := newTestService(t)
	ctx := context.Background()

	c, _, err := mgr.CreateOrRevise(ctx, closure.ExportFilters{
		DateStart: "2024-01-01", DateEnd: "2024-01-31",
	}, 0, "admin")
	require.NoError(t, err)
	_, err = mgr.Reopen(ctx, c.ID, closure.ReopenPartial, nil, "admin")
	require.NoError(t, err)

	entry, err := svc.Create(ctx, validInput("2024-01-15"))
	require.NoError(t, err)

	stored, err := s.GetTimeEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.True(t, stored.PostExportAdjustment)
	require.NotNil(t, stored.ClosureID)
	assert.Equal(t, c.ID, *stored.ClosureID)
}
