package main

import (
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/tracklit/internal/cli"
	"github.com/julianstephens/tracklit/internal/config"
	"github.com/julianstephens/tracklit/internal/constants"
	apperr "github.com/julianstephens/tracklit/internal/errors"
	"github.com/julianstephens/tracklit/internal/logger"
)

var CLI struct {
	Version   kong.VersionFlag
	ConfigDir string `help:"Directory holding tracklit.yaml, logs and the default database." default:"${config_dir}" env:"TRACKLIT_CONFIG_DIR"`
	Debug     bool   `help:"Log at debug level and mirror logs to stderr."`
	Backend   string `help:"Storage backend (sqlite or postgres)."`
	Path      string `help:"SQLite database file." type:"path"`
	DSN       string `name:"dsn" help:"PostgreSQL connection string. Must not contain a password; use the keyring, PGPASSWORD or .pgpass instead."`

	Serve    cli.ServeCmd    `cmd:"" help:"Serve the data layer over stdio, or WebSocket with --listen." default:"1"`
	Migrate  cli.MigrateCmd  `cmd:"" help:"Create or upgrade the schema."`
	Schema   cli.SchemaCmd   `cmd:"" help:"Show the live schema."`
	Export   cli.ExportCmd   `cmd:"" help:"Export a JSON snapshot or binary image."`
	Import   cli.ImportCmd   `cmd:"" help:"Merge a JSON snapshot into the database."`
	Clear    cli.ClearCmd    `cmd:"" help:"Delete all user data, keeping applied defaults."`
	Backup   cli.BackupCmd   `cmd:"" help:"Manage database backups."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Defaults cli.DefaultsCmd `cmd:"" help:"Inspect or reset default content."`
	Keyring  cli.KeyringCmd  `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Local-first habit, check-in and todo data layer"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":    constants.Version,
			"config_dir": constants.DefaultConfigDir,
		},
	)

	cfg, err := config.Load(CLI.ConfigDir)
	if err != nil {
		apperr.Fatal(err)
	}
	if CLI.Backend != "" {
		cfg.Backend = CLI.Backend
	}
	if CLI.Path != "" {
		cfg.Path = CLI.Path
	}
	if CLI.DSN != "" {
		cfg.DSN = CLI.DSN
	}
	if CLI.Debug {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		apperr.Fatal(err)
	}

	// serve logs to the file only, unless debugging
	err = logger.Init(logger.Config{
		Debug:     cfg.Debug,
		ConfigDir: cfg.Dir,
		Level:     cfg.LogLevel,
		Stderr:    ctx.Command() != "serve",
	})
	if err != nil {
		apperr.Fatal(err)
	}

	if err := ctx.Run(&cli.Context{Config: cfg, Out: os.Stdout}); err != nil {
		apperr.Fatal(err)
	}
}
