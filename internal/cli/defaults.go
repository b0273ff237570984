package cli

import (
	"context"

	"github.com/julianstephens/tracklit/internal/storage"
)

type DefaultsCmd struct {
	List  DefaultsListCmd  `cmd:"" help:"List applied default content." default:"1"`
	Reset DefaultsResetCmd `cmd:"" help:"Forget applied defaults and apply them again."`
}

type DefaultsListCmd struct{}

func (c *DefaultsListCmd) Run(ctx *Context) error {
	return ctx.withStore(func(bg context.Context, s *storage.Store) error {
		applied, err := s.AppliedDefaults(bg)
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			ctx.printf("No defaults applied.\n")
			return nil
		}
		for _, a := range applied {
			ctx.printf("  %-28s %s\n", a.Key, dimStyle.Render(a.AppliedAt))
		}
		return nil
	})
}

type DefaultsResetCmd struct{}

func (c *DefaultsResetCmd) Run(ctx *Context) error {
	return ctx.withStore(func(bg context.Context, s *storage.Store) error {
		keys, err := s.ResetDefaults(bg)
		if err != nil {
			return err
		}
		ctx.ok("Reapplied %d default(s)", len(keys))
		for _, k := range keys {
			ctx.printf("  %s\n", k)
		}
		return nil
	})
}
