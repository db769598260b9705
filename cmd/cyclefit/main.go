package main

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/cyclefit/internal/cli"
	"github.com/julianstephens/cyclefit/internal/cli/backups"
	"github.com/julianstephens/cyclefit/internal/cli/plans"
	"github.com/julianstephens/cyclefit/internal/cli/system"
	"github.com/julianstephens/cyclefit/internal/cli/users"
	"github.com/julianstephens/cyclefit/internal/constants"
	cferrors "github.com/julianstephens/cyclefit/internal/errors"
	"github.com/julianstephens/cyclefit/internal/keyring"
	"github.com/julianstephens/cyclefit/internal/logger"
	"github.com/julianstephens/cyclefit/internal/storage"
	"github.com/julianstephens/cyclefit/internal/storage/postgres"
	"github.com/julianstephens/cyclefit/internal/utils"
	"github.com/julianstephens/cyclefit/internal/workout"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"SQLite path, .json path, PostgreSQL connection string, or 'postgres' to use the keyring. Connection strings must NOT embed passwords." env:"CYCLEFIT_CONFIG" default:"${config_path}"`
	Debug    bool   `help:"Mirror the log to stderr at debug level." env:"CYCLEFIT_DEBUG"`
	Timezone string `help:"IANA timezone that decides 'today' for every user (default: each user's preference)." env:"CYCLEFIT_TIMEZONE"`

	Init    system.InitCmd    `cmd:"" help:"Initialize cyclefit storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Serve   system.ServeCmd   `cmd:"" help:"Serve the JSON HTTP API."`
	User    struct {
		Add  users.UserAddCmd  `cmd:"" help:"Add a user."`
		List users.UserListCmd `cmd:"" help:"List users." default:"1"`
		Show users.UserShowCmd `cmd:"" help:"Show a user's preferences."`
	} `cmd:"" help:"Manage users."`
	Prefs users.PrefsCmd `cmd:"" help:"Update preferences for future plans."`
	Plan  struct {
		Start plans.PlanStartCmd `cmd:"" help:"Generate a new 30-day plan."`
		Show  plans.PlanShowCmd  `cmd:"" help:"Show the current plan." default:"1"`
	} `cmd:"" help:"Manage plans."`
	Day     plans.DayCmd     `cmd:"" help:"Show the exercises for a day."`
	Record  plans.RecordCmd  `cmd:"" help:"Record completed amounts for a day."`
	History plans.HistoryCmd `cmd:"" help:"Show past and current plans."`
	Export  plans.ExportCmd  `cmd:"" help:"Export the current plan to Excel."`
	Backup  struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
}

func registerHints() {
	cferrors.RegisterHint(cli.ErrNoUsers, "add one with 'cyclefit user add <name>'")
	cferrors.RegisterHint(cli.ErrAmbiguousUser, "see 'cyclefit user list' for names")
	cferrors.RegisterHint(storage.ErrUserNotFound, "see 'cyclefit user list' for names")
	cferrors.RegisterHint(workout.ErrNoCurrentPlan, "start one with 'cyclefit plan start'")
	cferrors.RegisterHint(workout.ErrActivePlanExists, "the next plan is generated when the last day is recorded")
	cferrors.RegisterHint(postgres.ErrEmbeddedCredentials, "use ~/.pgpass, PGPASSWORD, or 'cyclefit init --store-connection'")
	cferrors.RegisterHint(keyring.ErrNotFound, "run 'cyclefit init --store-connection' or set "+constants.EnvDBConnection)
}

// logDir keeps the log next to file-based stores and under the default
// config directory otherwise.
func logDir(kind cli.StoreKind, store storage.Provider) string {
	if kind != cli.StorePostgres {
		return filepath.Dir(store.GetConfigPath())
	}
	dir, err := utils.ExpandHome(filepath.Dir(constants.DefaultConfigPath))
	if err != nil {
		return "."
	}
	return dir
}

func main() {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		cferrors.Fatal(err)
	}

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Adaptive 30-day home workout planner"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version, "config_path": constants.DefaultConfigPath},
	)

	registerHints()

	command := ""
	if ctx.Selected() != nil {
		command = ctx.Selected().Name
	}

	if command == "init" && CLI.Init.StoreConnection {
		if err := system.StoreConnection(ctx.Stdout); err != nil {
			cferrors.Fatal(err)
		}
	}

	store, kind, err := cli.OpenStore(CLI.Config)
	if err != nil {
		cferrors.Fatal(err)
	}

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: logDir(kind, store)}); err != nil {
		cferrors.Fatalf("failed to initialize logger: %v", err)
	}
	logger.Debug("Starting command", "command", ctx.Command(), "store", kind)

	appCtx, err := cli.NewContext(store, kind, CLI.Timezone)
	if err != nil {
		cferrors.Fatal(err)
	}

	// init creates the store and doctor reports on loading it
	if command != "init" && command != "doctor" {
		if err := store.Load(); err != nil {
			cferrors.Fatal(err)
		}
	}

	err = ctx.Run(appCtx)
	if closeErr := store.Close(); closeErr != nil {
		logger.Warn("Failed to close store", "error", closeErr)
	}
	cferrors.Fatal(err)
}
