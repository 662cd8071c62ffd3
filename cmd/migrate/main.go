// Command migrate manages the PostgreSQL schema of the storefront backend.
//
//	migrate up
//	migrate down
//	migrate step -- -1
//	migrate goto 3
//	migrate version
//	migrate force 2
//	migrate create add_product_sku
//	migrate list
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	flags "github.com/jessevdk/go-flags"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/migration"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

// Options are shared by every command
type Options struct {
	Path     string `short:"p" long:"path" description:"Migrations directory; the compiled-in set is used when empty"`
	LogLevel string `long:"log-level" default:"info" choice:"debug" choice:"info" choice:"warn" choice:"error" description:"Log level"`
}

var (
	opts Options
	log  *zap.Logger
)

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if cmd == nil {
			return nil
		}
		l, err := logger.New(logger.Config{Level: opts.LogLevel, Format: "console", Output: "stdout"})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		log = l
		defer func() { _ = log.Sync() }()
		return cmd.Execute(args)
	}

	mustAdd(parser, "up", "Apply all pending migrations", &upCommand{})
	mustAdd(parser, "down", "Roll back all migrations", &downCommand{})
	mustAdd(parser, "step", "Apply N migrations (negative rolls back)", &stepCommand{})
	mustAdd(parser, "goto", "Migrate to a specific version", &gotoCommand{})
	mustAdd(parser, "version", "Show the current schema version", &versionCommand{})
	mustAdd(parser, "force", "Set the version without running migrations", &forceCommand{})
	mustAdd(parser, "create", "Create a new up/down migration pair", &createCommand{})
	mustAdd(parser, "list", "List migrations on disk", &listCommand{})

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		if log != nil {
			log.Error("Migration command failed", zap.Error(err))
		}
		os.Exit(1)
	}
}

func mustAdd(p *flags.Parser, name, short string, data any) {
	if _, err := p.AddCommand(name, short, "", data); err != nil {
		panic(err)
	}
}

// withMigrator opens the configured database and runs fn against it
func withMigrator(fn func(*migration.Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	m, err := migration.Open(&cfg.Database, opts.Path, log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := m.Close(); cerr != nil {
			log.Warn("Failed to close migrator", zap.Error(cerr))
		}
	}()
	return fn(m)
}

func migrationsDir() string {
	if opts.Path != "" {
		return opts.Path
	}
	return defaultMigrationsPath
}

type upCommand struct{}

func (c *upCommand) Execute([]string) error {
	return withMigrator((*migration.Migrator).Up)
}

type downCommand struct{}

func (c *downCommand) Execute([]string) error {
	return withMigrator((*migration.Migrator).Down)
}

type stepCommand struct {
	Args struct {
		N int `positional-arg-name:"n" description:"Number of steps"`
	} `positional-args:"yes" required:"yes"`
}

func (c *stepCommand) Execute([]string) error {
	return withMigrator(func(m *migration.Migrator) error { return m.Steps(c.Args.N) })
}

type gotoCommand struct {
	Args struct {
		Version uint `positional-arg-name:"version"`
	} `positional-args:"yes" required:"yes"`
}

func (c *gotoCommand) Execute([]string) error {
	return withMigrator(func(m *migration.Migrator) error { return m.GoTo(c.Args.Version) })
}

type versionCommand struct{}

func (c *versionCommand) Execute([]string) error {
	return withMigrator(func(m *migration.Migrator) error {
		status, err := m.Status()
		if err != nil {
			return err
		}
		if !status.Applied {
			log.Info("No migrations applied")
			return nil
		}
		log.Info("Current schema version",
			zap.Uint("version", status.Version),
			zap.Bool("dirty", status.Dirty))
		return nil
	})
}

type forceCommand struct {
	Args struct {
		Version int `positional-arg-name:"version"`
	} `positional-args:"yes" required:"yes"`
}

func (c *forceCommand) Execute([]string) error {
	return withMigrator(func(m *migration.Migrator) error { return m.Force(c.Args.Version) })
}

type createCommand struct {
	Args struct {
		Name string `positional-arg-name:"name"`
	} `positional-args:"yes" required:"yes"`
}

func (c *createCommand) Execute([]string) error {
	mf, err := migration.CreateMigration(migrationsDir(), c.Args.Name, time.Now())
	if err != nil {
		return err
	}
	log.Info("Migration created",
		zap.Uint("version", mf.Version),
		zap.String("up_file", mf.UpPath),
		zap.String("down_file", mf.DownPath))
	return nil
}

type listCommand struct{}

func (c *listCommand) Execute([]string) error {
	files, err := migration.ListMigrations(migrationsDir())
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Info("No migrations found", zap.String("path", migrationsDir()))
		return nil
	}
	for _, f := range files {
		fmt.Printf("%06d  %s\n", f.Version, f.Name)
	}
	return nil
}
