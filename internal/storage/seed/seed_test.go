package seed

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/tracklit/internal/constants"
	"github.com/julianstephens/tracklit/internal/storage/driver"
	"github.com/julianstephens/tracklit/internal/storage/schema"
)

var fixedNow = func() time.Time { return time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC) }

func setupDB(t *testing.T) driver.Driver {
	t.Helper()
	drv := driver.NewSQLite()
	require.NoError(t, drv.Open(filepath.Join(t.TempDir(), "seed.db")))
	t.Cleanup(func() { _ = drv.Close() })

	m, err := schema.NewManager(drv)
	require.NoError(t, err)
	require.NoError(t, m.Initialize(context.Background()))
	return drv
}

func counts(t *testing.T, drv driver.Driver) map[string]int {
	t.Helper()
	out := make(map[string]int)
	for _, table := range []string{"checkin_templates", "checkin_questions", "bored_categories", "bored_activities", "applied_defaults"} {
		var n int
		require.NoError(t, drv.QueryRow(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n))
		out[table] = n
	}
	return out
}

func TestApplyDefaultSeedsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	drv := setupDB(t)
	m := NewManager(drv, fixedNow)

	applied, err := m.ApplyDefaultSeeds(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{constants.SeedCheckinDaily, constants.SeedCheckinWeekly, constants.SeedBoredDefaults}, applied)
	once := counts(t, drv)

	applied, err = m.ApplyDefaultSeeds(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)
	assert.Equal(t, once, counts(t, drv))

	assert.Equal(t, 2, once["checkin_templates"])
	assert.Equal(t, 10, once["checkin_questions"])
	assert.Equal(t, len(defaultCategories), once["bored_categories"])
	assert.Equal(t, 3, once["applied_defaults"])
}

func TestSeedsSurviveDataDeletion(t *testing.T) {
	ctx := context.Background()
	drv := setupDB(t)
	m := NewManager(drv, fixedNow)

	_, err := m.ApplyDefaultSeeds(ctx)
	require.NoError(t, err)

	_, err = drv.Exec(ctx, "DELETE FROM checkin_templates")
	require.NoError(t, err)
	_, err = drv.Exec(ctx, "DELETE FROM bored_categories")
	require.NoError(t, err)

	applied, err := m.ApplyDefaultSeeds(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied, "ledger keeps deleted defaults from coming back")

	c := counts(t, drv)
	assert.Zero(t, c["checkin_templates"])
	assert.Zero(t, c["bored_activities"], "activities cascade with their category")
}

func TestResetRearmsSeeds(t *testing.T) {
	ctx := context.Background()
	drv := setupDB(t)
	m := NewManager(drv, fixedNow)

	_, err := m.ApplyDefaultSeeds(ctx)
	require.NoError(t, err)
	_, err = drv.Exec(ctx, "DELETE FROM checkin_templates")
	require.NoError(t, err)

	applied, err := m.Reset(ctx)
	require.NoError(t, err)
	assert.Len(t, applied, 3)

	c := counts(t, drv)
	assert.Equal(t, 2, c["checkin_templates"])
	assert.Equal(t, len(defaultCategories), c["bored_categories"], "fixed ids are not duplicated")

	ledger, err := m.Ledger(ctx)
	require.NoError(t, err)
	require.Len(t, ledger, 3)
	assert.Equal(t, "2024-03-10T09:00:00.000Z", ledger[0].AppliedAt)
}

func TestTemplateIDsStableAcrossDatabases(t *testing.T) {
	ctx := context.Background()
	ids := func(drv driver.Driver) []string {
		t.Helper()
		_, err := NewManager(drv, fixedNow).ApplyDefaultSeeds(ctx)
		require.NoError(t, err)
		rows, err := drv.Query(ctx, "SELECT id FROM checkin_templates UNION ALL SELECT id FROM checkin_questions ORDER BY 1")
		require.NoError(t, err)
		defer rows.Close()
		var out []string
		for rows.Next() {
			var id string
			require.NoError(t, rows.Scan(&id))
			out = append(out, id)
		}
		require.NoError(t, rows.Err())
		return out
	}

	a := ids(setupDB(t))
	b := ids(setupDB(t))
	assert.Len(t, a, 12)
	assert.Equal(t, a, b)
}

func TestResetKeepsExistingTemplates(t *testing.T) {
	ctx := context.Background()
	drv := setupDB(t)
	m := NewManager(drv, fixedNow)

	_, err := m.ApplyDefaultSeeds(ctx)
	require.NoError(t, err)
	_, err = m.Reset(ctx)
	require.NoError(t, err)

	c := counts(t, drv)
	assert.Equal(t, 2, c["checkin_templates"])
	assert.Equal(t, 10, c["checkin_questions"])
}

func TestFailedSeedLeavesNoLedgerEntry(t *testing.T) {
	ctx := context.Background()
	drv := setupDB(t)

	boom := errors.New("boom")
	m := NewManagerWith(drv, fixedNow, []Seed{
		{Key: "partial_v1", Insert: func(ctx context.Context, tx driver.Tx, now string) error {
			if _, err := tx.Exec(ctx, "INSERT INTO bored_categories (id, name, created_at) VALUES (?, ?, ?)", "c1", "Half", now); err != nil {
				return err
			}
			return boom
		}},
	})

	_, err := m.ApplyDefaultSeeds(ctx)
	require.ErrorIs(t, err, boom)

	c := counts(t, drv)
	assert.Zero(t, c["applied_defaults"])
	assert.Zero(t, c["bored_categories"], "inserts roll back with the failed seed")
}
