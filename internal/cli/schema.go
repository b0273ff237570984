package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/julianstephens/tracklit/internal/storage"
)

type MigrateCmd struct{}

// Run opens the store, which creates or upgrades the schema, and reports
// the resulting version.
func (c *MigrateCmd) Run(ctx *Context) error {
	return ctx.withStore(func(bg context.Context, s *storage.Store) error {
		info, err := s.Schema(bg)
		if err != nil {
			return err
		}
		ctx.ok("%s schema at version %d", info.Backend, info.Version)
		return nil
	})
}

type SchemaCmd struct {
	JSON bool `help:"Print the schema as JSON."`
	SQL  bool `name:"sql" help:"Include the DDL of each object."`
}

func (c *SchemaCmd) Run(ctx *Context) error {
	return ctx.withStore(func(bg context.Context, s *storage.Store) error {
		info, err := s.Schema(bg)
		if err != nil {
			return err
		}
		if c.JSON {
			enc := json.NewEncoder(ctx.Out)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		}

		ctx.printf("%s\n\n", headerStyle.Render(fmt.Sprintf("Schema %s v%d", info.Backend, info.Version)))
		for _, obj := range info.Objects {
			ctx.printf("  %-6s %s\n", dimStyle.Render(obj.Type), obj.Name)
			if c.SQL && obj.SQL != "" {
				for _, line := range strings.Split(strings.TrimSpace(obj.SQL), "\n") {
					ctx.printf("         %s\n", dimStyle.Render(line))
				}
			}
		}
		return nil
	})
}
