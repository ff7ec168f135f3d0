package main

import (
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitquest/internal/cli"
	"github.com/julianstephens/habitquest/internal/cli/backups"
	"github.com/julianstephens/habitquest/internal/cli/habits"
	"github.com/julianstephens/habitquest/internal/cli/progress"
	"github.com/julianstephens/habitquest/internal/cli/settings"
	"github.com/julianstephens/habitquest/internal/cli/system"
	"github.com/julianstephens/habitquest/internal/config"
	"github.com/julianstephens/habitquest/internal/constants"
	apperrors "github.com/julianstephens/habitquest/internal/errors"
	"github.com/julianstephens/habitquest/internal/logger"
	"github.com/julianstephens/habitquest/internal/storage"
	"github.com/julianstephens/habitquest/internal/utils"
)

var CLI struct {
	Version   kong.VersionFlag
	ConfigDir string `help:"Directory holding config.yaml, logs and backups." default:"${config_dir}" env:"HABITQUEST_CONFIG_DIR"`
	Store     string `help:"Store path or connection string. PostgreSQL credentials must NOT be embedded; use the OS keyring, PGPASSWORD or .pgpass instead."`
	Debug     bool   `help:"Enable debug logging."`
	Yes       bool   `short:"y" help:"Answer yes to every confirmation prompt."`

	Init     system.InitCmd       `cmd:"" help:"Initialize habitquest storage."`
	Migrate  system.MigrateCmd    `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Today    habits.HabitTodayCmd `cmd:"" help:"Show today's habits." default:"1"`
	Habit    habits.HabitCmd      `cmd:"" help:"Manage habits and habit tracking."`
	Profile  progress.ProfileCmd  `cmd:"" help:"Show level, XP and streaks."`
	Quests   progress.QuestsCmd   `cmd:"" help:"Show today's quests."`
	Badges   progress.BadgesCmd   `cmd:"" help:"Show badge progress."`
	Insights progress.InsightsCmd `cmd:"" help:"Show completion insights."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Backup   struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage backups."`
	Export  backups.ExportCmd `cmd:"" help:"Export all data to a JSON bundle."`
	Import  backups.ImportCmd `cmd:"" help:"Replace all data with an exported bundle."`
	Keyring system.KeyringCmd `cmd:"" help:"Manage credentials in the OS keyring."`
	Relay   system.RelayCmd   `cmd:"" help:"Push relay commands."`
	Serve   system.ServeCmd   `cmd:"" help:"Serve the HTTP API."`
	Daemon  system.DaemonCmd  `cmd:"" help:"Run quest rollover, reminders and backups in the background."`
	Notify  system.NotifyCmd  `cmd:"" hidden:"" help:"Send a test desktop notification."`
}

// Commands that run before, or without, a loaded store.
var noLoad = map[string]bool{
	"init":    true,
	"doctor":  true,
	"keyring": true,
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Gamified habit tracker with XP, levels, quests and badges"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version, "config_dir": constants.DefaultConfigDir},
	)

	dir, err := utils.ExpandHome(CLI.ConfigDir)
	if err != nil {
		apperrors.Fatal(err)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		apperrors.Fatal(err)
	}
	if err := logger.Init(logger.Config{Debug: CLI.Debug || cfg.Debug, ConfigDir: dir}); err != nil {
		apperrors.Fatal(err)
	}

	store, err := openStore(cfg)
	if err != nil {
		apperrors.Fatal(err)
	}

	appCtx, err := cli.NewContext(cfg, store)
	if err != nil {
		apperrors.Fatal(err)
	}
	appCtx.Yes = CLI.Yes

	command := strings.Fields(kctx.Command())[0]
	loaded := !noLoad[command]
	if loaded {
		if err := appCtx.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	err = kctx.Run(appCtx)
	if err == nil && loaded {
		appCtx.PerformAutomaticBackup()
	}
	if cerr := appCtx.Close(); cerr != nil {
		logger.Warn("Failed to close store", "error", cerr)
	}
	apperrors.Fatal(err)
}

// openStore allows embedded PostgreSQL passwords only when the DSN came
// from the OS keyring.
func openStore(cfg *config.Config) (storage.Provider, error) {
	dsn, err := cfg.ResolveStorage(CLI.Store)
	if err != nil {
		return nil, err
	}
	if CLI.Store == "" && cfg.Storage == "" {
		return cli.OpenKeyringStore(dsn)
	}
	return cli.OpenStore(dsn)
}
