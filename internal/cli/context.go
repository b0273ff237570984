// Package cli holds the kong commands and the context they share.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/tracklit/internal/config"
	"github.com/julianstephens/tracklit/internal/storage"
)

var (
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Context is passed to every command's Run
type Context struct {
	Config *config.Config
	Out    io.Writer
}

// Open opens the configured store. Callers must Close it.
func (c *Context) Open(ctx context.Context) (*storage.Store, error) {
	sc, err := c.Config.Storage()
	if err != nil {
		return nil, err
	}
	return storage.Open(ctx, sc)
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) ok(format string, args ...any) {
	c.printf("%s %s\n", okStyle.Render("✓"), fmt.Sprintf(format, args...))
}

func (c *Context) warn(format string, args ...any) {
	c.printf("%s %s\n", warnStyle.Render("⚠"), fmt.Sprintf(format, args...))
}

func (c *Context) fail(format string, args ...any) {
	c.printf("%s %s\n", failStyle.Render("✗"), fmt.Sprintf(format, args...))
}

// withStore opens the store, runs fn and closes it
func (c *Context) withStore(fn func(ctx context.Context, s *storage.Store) error) error {
	ctx := context.Background()
	s, err := c.Open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(ctx, s)
}
