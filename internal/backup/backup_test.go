package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/tracklit/internal/constants"
	apperr "github.com/julianstephens/tracklit/internal/errors"
	"github.com/julianstephens/tracklit/internal/lock"
	"github.com/julianstephens/tracklit/internal/models"
	"github.com/julianstephens/tracklit/internal/storage"
)

func openStore(t *testing.T, path string) *storage.Store {
	t.Helper()
	s, err := storage.Open(context.Background(), storage.Config{
		Backend:        constants.BackendSQLite,
		Path:           path,
		LockAttempts:   1,
		LockRetryDelay: time.Millisecond,
	})
	require.NoError(t, err)
	return s
}

type unsupported struct{}

func (unsupported) ExportBinary(context.Context) ([]byte, error) {
	return nil, fmt.Errorf("binary export: %w", apperr.ErrUnsupported)
}

func TestCreateAndList(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "tracklit.db")
	s := openStore(t, dbPath)
	defer s.Close()

	mgr := NewManager(dbPath, 0)
	mgr.now = func() time.Time { return time.Date(2024, 3, 10, 9, 30, 0, 0, time.Local) }

	first, err := mgr.CreateBackup(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, "tracklit-20240310-0930.db", filepath.Base(first))

	second, err := mgr.CreateBackup(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, "tracklit-20240310-093000.db", filepath.Base(second))

	third, err := mgr.CreateBackup(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, "tracklit-20240310-093000-1.db", filepath.Base(third))

	backups, err := mgr.ListBackups()
	require.NoError(t, err)
	require.Len(t, backups, 3)
	for _, b := range backups {
		assert.Positive(t, b.Size)
		require.NoError(t, verifyBackup(b.Path))
	}
}

func TestRotation(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "tracklit.db")
	s := openStore(t, dbPath)
	defer s.Close()

	mgr := NewManager(dbPath, 2)
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.Local)
	for i := range 4 {
		mgr.now = func() time.Time { return base.AddDate(0, 0, i) }
		_, err := mgr.CreateBackup(context.Background(), s)
		require.NoError(t, err)
	}

	backups, err := mgr.ListBackups()
	require.NoError(t, err)
	require.Len(t, backups, 2)
	assert.Equal(t, "tracklit-20240304-0800.db", filepath.Base(backups[0].Path))
	assert.Equal(t, "tracklit-20240303-0800.db", filepath.Base(backups[1].Path))
}

func TestCreateBackupUnsupported(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "tracklit.db"), 0)
	_, err := mgr.CreateBackup(context.Background(), unsupported{})
	assert.True(t, errors.Is(err, apperr.ErrUnsupported))

	backups, err := mgr.ListBackups()
	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestListIgnoresForeignFiles(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "tracklit.db")
	mgr := NewManager(dbPath, 0)
	require.NoError(t, os.MkdirAll(mgr.GetBackupDir(), 0o700))
	for _, name := range []string{"notes.txt", "tracklit-garbage.db", "tracklit-20240101-1200.db"} {
		require.NoError(t, os.WriteFile(filepath.Join(mgr.GetBackupDir(), name), []byte("x"), 0o600))
	}

	backups, err := mgr.ListBackups()
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, "tracklit-20240101-1200.db", filepath.Base(backups[0].Path))
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "tracklit.db")
	mgr := NewManager(dbPath, 0)

	s := openStore(t, dbPath)
	_, err := s.CreateHabit(ctx, models.HabitInput{Name: "Before"})
	require.NoError(t, err)
	saved, err := mgr.CreateBackup(ctx, s)
	require.NoError(t, err)
	_, err = s.CreateHabit(ctx, models.HabitInput{Name: "After"})
	require.NoError(t, err)

	// the open store owns the lock
	err = mgr.RestoreBackup(ctx, dbPath, saved, lock.WithAttempts(1))
	require.ErrorIs(t, err, apperr.ErrStorageUnavailable)
	require.NoError(t, s.Close())

	require.NoError(t, mgr.RestoreBackup(ctx, dbPath, saved, lock.WithAttempts(1)))

	s = openStore(t, dbPath)
	defer s.Close()
	habits, err := s.ListHabits(ctx)
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, "Before", habits[0].Name)

	backups, err := mgr.ListBackups()
	require.NoError(t, err)
	assert.Len(t, backups, 2)
}

func TestRestoreRemovesSideFiles(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "tracklit.db")
	mgr := NewManager(dbPath, 0)

	s := openStore(t, dbPath)
	_, err := s.CreateHabit(ctx, models.HabitInput{Name: "Kept"})
	require.NoError(t, err)
	saved, err := mgr.CreateBackup(ctx, s)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	for _, suffix := range []string{"-wal", "-shm"} {
		require.NoError(t, os.WriteFile(dbPath+suffix, []byte("left over from the replaced database"), 0o600))
	}
	require.NoError(t, mgr.RestoreBackup(ctx, dbPath, saved, lock.WithAttempts(1)))
	for _, suffix := range []string{"-wal", "-shm"} {
		assert.NoFileExists(t, dbPath+suffix)
	}

	s = openStore(t, dbPath)
	defer s.Close()
	habits, err := s.ListHabits(ctx)
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, "Kept", habits[0].Name)
}

func TestRestoreRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	bogus := filepath.Join(dir, "bogus.db")
	require.NoError(t, os.WriteFile(bogus, []byte("definitely not sqlite, padded out to look like a header......."), 0o600))

	mgr := NewManager(filepath.Join(dir, "tracklit.db"), 0)
	err := mgr.RestoreBackup(context.Background(), filepath.Join(dir, "tracklit.db"), bogus)
	assert.ErrorContains(t, err, "corrupted or invalid")
}
