package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/tracklit/internal/backup"
	"github.com/julianstephens/tracklit/internal/constants"
	"github.com/julianstephens/tracklit/internal/storage"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.printf("%s\n\n", headerStyle.Render("Running diagnostics..."))
	failed := false

	cfg := ctx.Config
	if cfg.Backend == constants.BackendSQLite {
		ctx.ok("Backend: sqlite (%s)", cfg.Path)
	} else if cfg.DSN != "" {
		ctx.ok("Backend: postgres (%s)", maskPassword(cfg.DSN))
	} else {
		ctx.ok("Backend: postgres (connection string from keyring)")
	}

	bg := context.Background()
	s, err := ctx.Open(bg)
	if err != nil {
		ctx.fail("Database reachable: %v", err)
		ctx.printf("%s\n", dimStyle.Render("  remaining checks skipped"))
		return errors.New("diagnostics failed")
	}
	defer s.Close()
	ctx.ok("Database reachable and locked for this process")

	if err := checkSchema(bg, ctx, s); err != nil {
		ctx.fail("Schema: %v", err)
		failed = true
	}

	if applied, err := s.AppliedDefaults(bg); err != nil {
		ctx.fail("Applied defaults: %v", err)
		failed = true
	} else {
		ctx.ok("Applied defaults: %d", len(applied))
	}

	if report, err := s.CheckIntegrity(bg); err != nil {
		ctx.fail("Referential integrity: %v", err)
		failed = true
	} else if !report.OK() {
		ctx.fail("Referential integrity: orphaned rows found")
		keys := make([]string, 0, len(report.Orphans))
		for k, n := range report.Orphans {
			if n > 0 {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			ctx.printf("    %s: %d\n", k, report.Orphans[k])
		}
		failed = true
	} else {
		ctx.ok("Referential integrity: OK")
	}

	if cfg.Backend == constants.BackendSQLite {
		backups, err := backup.NewManager(cfg.Path, cfg.MaxBackups).ListBackups()
		switch {
		case err != nil:
			ctx.warn("Backups: %v", err)
		case len(backups) == 0:
			ctx.warn("Backups: none yet (tracklit backup create)")
		default:
			ctx.ok("Backups: %d, newest %s", len(backups), backups[0].Timestamp.Format(time.RFC3339))
		}
	}

	zone, offset := time.Now().Zone()
	ctx.ok("Local day boundary: %s (UTC%+d)", zone, offset/3600)

	if failed {
		return errors.New("diagnostics failed")
	}
	return nil
}

func checkSchema(bg context.Context, ctx *Context, s *storage.Store) error {
	info, err := s.Schema(bg)
	if err != nil {
		return err
	}
	if len(info.Objects) == 0 {
		return fmt.Errorf("no tables found")
	}
	ctx.ok("Schema: version %d, %d objects", info.Version, len(info.Objects))
	return nil
}
