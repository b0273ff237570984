package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/tracklit/internal/constants"
	apperr "github.com/julianstephens/tracklit/internal/errors"
	"github.com/julianstephens/tracklit/internal/models"
	"github.com/julianstephens/tracklit/internal/storage"
)

func setupDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	s, err := storage.Open(context.Background(), storage.Config{
		Backend: constants.BackendSQLite,
		Path:    filepath.Join(t.TempDir(), "tracklit.db"),
	}, storage.WithClock(func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) }))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return New(s)
}

func call(t *testing.T, d *Dispatcher, typ Type, payload any) Result {
	t.Helper()
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		raw = b
	}
	return d.Dispatch(context.Background(), string(typ), raw)
}

// serverBackend stands in for a backend with neither a serialization
// primitive nor file storage.
type serverBackend struct {
	storage.Provider
}

func (serverBackend) ExportBinary(context.Context) ([]byte, error) {
	return nil, fmt.Errorf("binary export: %w", apperr.ErrUnsupported)
}

func (serverBackend) WipeStorage(context.Context) (models.WipeResult, error) {
	return models.WipeResult{Wiped: false}, nil
}

func TestUnknownTypeFails(t *testing.T) {
	d := setupDispatcher(t)
	res := d.Dispatch(context.Background(), "DROP_EVERYTHING", nil)
	assert.False(t, res.OK)
	assert.Contains(t, res.Error, apperr.ErrInvalidRequest.Error())
}

func TestMalformedPayloadFails(t *testing.T) {
	d := setupDispatcher(t)

	res := d.Dispatch(context.Background(), string(CreateHabit), json.RawMessage(`{"name": "x", "colour": "red"}`))
	assert.False(t, res.OK)
	assert.Contains(t, res.Error, "malformed payload")

	res = d.Dispatch(context.Background(), string(GetHabit), json.RawMessage(`[1, 2`))
	assert.False(t, res.OK)

	res = call(t, d, GetHabit, nil)
	assert.False(t, res.OK)
	assert.Contains(t, res.Error, "id is required")
}

func TestHabitRequests(t *testing.T) {
	d := setupDispatcher(t)

	res := call(t, d, CreateHabit, models.HabitInput{Name: "Read"})
	require.True(t, res.OK, res.Error)
	hw := res.Data.(models.HabitWithSchedule)

	res = call(t, d, ToggleCompletion, habitDatePayload{HabitID: hw.ID, Date: "2024-03-10"})
	require.True(t, res.OK, res.Error)
	assert.NotNil(t, res.Data)

	res = call(t, d, GetStreak, streakPayload{HabitID: hw.ID})
	require.True(t, res.OK, res.Error)
	assert.Equal(t, 1, res.Data.(models.Streak).Current)

	res = call(t, d, ToggleCompletion, habitDatePayload{HabitID: hw.ID, Date: "2024-03-10"})
	require.True(t, res.OK, res.Error)
	assert.Nil(t, res.Data)

	res = call(t, d, UpdateHabit, patchPayload[models.HabitPatch]{ID: hw.ID, Patch: models.HabitPatch{Tags: &[]string{"x"}}})
	require.True(t, res.OK, res.Error)
	assert.Equal(t, []string{"x"}, res.Data.(models.HabitWithSchedule).Tags)

	res = call(t, d, DeleteHabit, idPayload{ID: hw.ID})
	require.True(t, res.OK, res.Error)

	res = call(t, d, GetHabit, idPayload{ID: hw.ID})
	assert.False(t, res.OK)
	assert.Contains(t, res.Error, apperr.ErrNotFound.Error())
}

func TestOracleRequest(t *testing.T) {
	d := setupDispatcher(t)
	require.True(t, call(t, d, ClearAllData, nil).OK)

	res := call(t, d, GetBoredOracle, nil)
	require.True(t, res.OK, res.Error)
	assert.Nil(t, res.Data)

	res = call(t, d, CreateBoredCategory, models.CategoryInput{Name: "Games"})
	require.True(t, res.OK, res.Error)
	cat := res.Data.(models.BoredCategory)
	res = call(t, d, CreateBoredActivity, models.ActivityInput{CategoryID: cat.ID, Title: "Chess"})
	require.True(t, res.OK, res.Error)

	res = call(t, d, GetBoredOracle, models.OracleQuery{})
	require.True(t, res.OK, res.Error)
	assert.Equal(t, "Chess", res.Data.(*models.OracleSuggestion).Activity.Title)
}

func TestSnapshotRequests(t *testing.T) {
	d := setupDispatcher(t)
	res := call(t, d, CreateHabit, models.HabitInput{Name: "Read"})
	require.True(t, res.OK, res.Error)

	res = call(t, d, ExportSnapshot, nil)
	require.True(t, res.OK, res.Error)
	snap := res.Data.(models.Snapshot)
	assert.Len(t, snap.Habits, 1)
	assert.NotEmpty(t, snap.BoredCategories)

	res = call(t, d, ExportSnapshot, models.ExportSelection{Scribbles: true})
	require.True(t, res.OK, res.Error)
	assert.Empty(t, res.Data.(models.Snapshot).Habits)

	res = call(t, d, ImportSnapshot, snap)
	require.True(t, res.OK, res.Error)
	assert.Equal(t, 0, res.Data.(models.ImportReport).Inserted["habits"])

	res = d.Dispatch(context.Background(), string(ImportSnapshot), json.RawMessage(`{"version": 7}`))
	assert.False(t, res.OK)
	assert.Contains(t, res.Error, apperr.ErrUnsupportedVersion.Error())
}

func TestBackendSpecificRequests(t *testing.T) {
	d := setupDispatcher(t)

	res := call(t, d, ExportBinary, nil)
	require.True(t, res.OK, res.Error)
	assert.NotEmpty(t, res.Data.([]byte))

	server := New(serverBackend{Provider: d.provider})
	res = call(t, server, ExportBinary, nil)
	assert.False(t, res.OK)
	assert.Contains(t, res.Error, "not supported on this backend")

	res = call(t, server, WipeStorage, nil)
	require.True(t, res.OK, res.Error)
	assert.Equal(t, models.WipeResult{Wiped: false}, res.Data)
}

func TestResultJSON(t *testing.T) {
	b, err := json.Marshal(Success(map[string]int{"n": 1}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok": true, "data": {"n": 1}}`, string(b))

	b, err = json.Marshal(Success(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok": true, "data": null}`, string(b))

	b, err = json.Marshal(Failure(apperr.ErrNotFound))
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok": false, "error": "entity not found"}`, string(b))

	var r Result
	require.NoError(t, json.Unmarshal([]byte(`{"ok": true, "data": [1]}`), &r))
	assert.True(t, r.OK)
	assert.JSONEq(t, `[1]`, string(r.Data.(json.RawMessage)))
}

func TestEveryTypeIsRouted(t *testing.T) {
	d := setupDispatcher(t)
	types := d.Types()
	assert.Len(t, types, len(routes()))
	assert.Contains(t, types, ToggleCompletion)
	assert.Contains(t, types, WipeStorage)
	for i := 1; i < len(types); i++ {
		assert.Less(t, string(types[i-1]), string(types[i]))
	}
}
