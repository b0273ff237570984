package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/julianstephens/tracklit/internal/models"
	"github.com/julianstephens/tracklit/internal/storage"
)

type ExportCmd struct {
	Output string   `short:"o" help:"Write to this file instead of stdout." type:"path"`
	Only   []string `help:"Export only these families." enum:"habits,checkins,journal,scribbles,todos,bored" sep:","`
	Binary bool     `help:"Export the raw database image instead of a JSON snapshot."`
}

func (c *ExportCmd) Run(ctx *Context) error {
	return ctx.withStore(func(bg context.Context, s *storage.Store) error {
		var (
			data []byte
			err  error
		)
		if c.Binary {
			data, err = s.ExportBinary(bg)
		} else {
			data, err = s.ExportSnapshotJSON(bg, selection(c.Only))
		}
		if err != nil {
			return err
		}

		if c.Output == "" {
			_, err = ctx.Out.Write(data)
			return err
		}
		if err := os.WriteFile(c.Output, data, 0o600); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		ctx.ok("Exported %d bytes to %s", len(data), c.Output)
		return nil
	})
}

func selection(only []string) models.ExportSelection {
	if len(only) == 0 {
		return models.SelectAll()
	}
	var sel models.ExportSelection
	for _, f := range only {
		switch f {
		case "habits":
			sel.Habits = true
		case "checkins":
			sel.Checkins = true
		case "journal":
			sel.Journal = true
		case "scribbles":
			sel.Scribbles = true
		case "todos":
			sel.Todos = true
		case "bored":
			sel.Bored = true
		}
	}
	return sel
}

type ImportCmd struct {
	File string `arg:"" help:"Snapshot file to import, or - for stdin."`
}

func (c *ImportCmd) Run(ctx *Context) error {
	var (
		data []byte
		err  error
	)
	if c.File == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(c.File)
	}
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	return ctx.withStore(func(bg context.Context, s *storage.Store) error {
		report, err := s.ImportSnapshotJSON(bg, data)
		if err != nil {
			return err
		}
		tables := make([]string, 0, len(report.Inserted)+len(report.Skipped))
		seen := map[string]bool{}
		for _, m := range []map[string]int{report.Inserted, report.Skipped} {
			for t := range m {
				if !seen[t] {
					seen[t] = true
					tables = append(tables, t)
				}
			}
		}
		sort.Strings(tables)

		ctx.ok("Snapshot imported")
		for _, t := range tables {
			ctx.printf("  %-20s %d inserted, %d skipped\n", t, report.Inserted[t], report.Skipped[t])
		}
		return nil
	})
}

type ClearCmd struct {
	Yes bool `help:"Confirm deletion of all user data."`
}

func (c *ClearCmd) Run(ctx *Context) error {
	if !c.Yes {
		return fmt.Errorf("refusing to clear data without --yes")
	}
	return ctx.withStore(func(bg context.Context, s *storage.Store) error {
		if err := s.ClearAllData(bg); err != nil {
			return err
		}
		ctx.ok("All user data cleared")
		return nil
	})
}
