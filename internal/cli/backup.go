package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/tracklit/internal/backup"
	"github.com/julianstephens/tracklit/internal/constants"
	"github.com/julianstephens/tracklit/internal/lock"
	"github.com/julianstephens/tracklit/internal/storage"
)

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Create a backup." default:"1"`
	List    BackupListCmd    `cmd:"" help:"List available backups."`
	Restore BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
}

func (c *Context) backups() (*backup.Manager, error) {
	if c.Config.Backend != constants.BackendSQLite {
		return nil, fmt.Errorf("backups are only available on the sqlite backend")
	}
	return backup.NewManager(c.Config.Path, c.Config.MaxBackups), nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	mgr, err := ctx.backups()
	if err != nil {
		return err
	}
	return ctx.withStore(func(bg context.Context, s *storage.Store) error {
		path, err := mgr.CreateBackup(bg, s)
		if err != nil {
			return fmt.Errorf("backup failed: %w", err)
		}
		ctx.ok("Backup created: %s", filepath.Base(path))
		return nil
	})
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	mgr, err := ctx.backups()
	if err != nil {
		return err
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		ctx.printf("No backups found.\nBackups are stored in: %s\n", mgr.GetBackupDir())
		return nil
	}

	ctx.printf("%s\n\n", headerStyle.Render(fmt.Sprintf("Backups (%d, keeping %d)", len(backups), ctx.Config.MaxBackups)))
	for _, b := range backups {
		ctx.printf("  %s  %s  %s\n",
			b.Timestamp.Format("2006-01-02 15:04:05"),
			filepath.Base(b.Path),
			dimStyle.Render(fmt.Sprintf("(%.1f KB)", float64(b.Size)/1024.0)))
	}
	ctx.printf("\nBackup directory: %s\n", mgr.GetBackupDir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	mgr, err := ctx.backups()
	if err != nil {
		return err
	}

	// bare filenames resolve against the backup directory
	path := c.BackupFile
	if _, err := os.Stat(path); err != nil && !filepath.IsAbs(path) {
		path = filepath.Join(mgr.GetBackupDir(), path)
	}

	err = mgr.RestoreBackup(context.Background(), ctx.Config.Path, path,
		lock.WithAttempts(ctx.Config.LockAttempts), lock.WithRetryDelay(ctx.Config.LockRetryDelay))
	if err != nil {
		return err
	}
	ctx.ok("Restored %s", filepath.Base(path))
	return nil
}
