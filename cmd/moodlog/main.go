package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	moodlog "github.com/unowned-ai/moodlog/pkg"
	"github.com/unowned-ai/moodlog/pkg/config"
	pkgdb "github.com/unowned-ai/moodlog/pkg/db"
	"github.com/unowned-ai/moodlog/pkg/logging"
)

var (
	configPath string
	dbPath     string
	walMode    bool
	syncMode   string

	cfg    *config.Config
	logger = zap.NewNop()
)

// skipSetup marks commands that run without loading configuration.
const skipSetup = "moodlog/skip-setup"

var rootCmd = &cobra.Command{
	Use:           "moodlog",
	Short:         "Emotion check-ins and daily mood summaries.",
	Version:       fmt.Sprintf("v%s", moodlog.Version),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipSetup] != "" {
			return nil
		}
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// setup loads the configuration, applies explicitly set global flags on top
// of it and builds the logger.
func setup(cmd *cobra.Command) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		loaded.Database.Path = dbPath
	}
	if flags.Changed("wal") {
		loaded.Database.WAL = walMode
	}
	if flags.Changed("sync") {
		loaded.Database.Sync = syncMode
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	l, err := logging.New(loaded.Log)
	if err != nil {
		return err
	}

	cfg = loaded
	logger = l
	return nil
}

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

var completionCmd = &cobra.Command{
	Use:   fmt.Sprintf("completion %s", strings.Join(completionShells, "|")),
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for moodlog.

Examples:

  Bash (current shell):
    $ source <(moodlog completion bash)

  Zsh:
    $ moodlog completion zsh > "${fpath[1]}/_moodlog"

  Fish:
    $ moodlog completion fish > ~/.config/fish/completions/moodlog.fish

  PowerShell:
    PS> moodlog completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             completionShells,
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Annotations:           map[string]string{skipSetup: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return rootCmd.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print the version number of moodlog",
	Annotations: map[string]string{skipSetup: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), moodlog.Version)
	},
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the moodlog database",
}

var dbUpgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Create or upgrade the moodlog database schema",
	Long: `Opens the SQLite database (from --db, the config file or the system default)
and applies any pending schema migrations for the moodlogdb component.
A missing database is created and initialized with the latest schema.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveDBPath()
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Upgrading moodlogdb component in database at: %s (WAL: %t, Sync: %s)\n",
			path, cfg.Database.WAL, cfg.Database.Sync)

		dbConn, err := pkgdb.OpenDB(path, dbOptions())
		if err != nil {
			return err
		}
		defer dbConn.Close()

		version, err := pkgdb.GetComponentSchemaVersion(cmd.Context(), dbConn, pkgdb.MoodlogDBComponent)
		if err != nil {
			return err
		}
		if err := pkgdb.UpgradeDB(cmd.Context(), dbConn, pkgdb.TargetSchemaVersion, logger); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Schema version: %d -> %d\n", version, pkgdb.TargetSchemaVersion)
		return nil
	},
}

func initCmd() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (default: <user config dir>/moodlog/config.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the database file (overrides database.path; uses a system-specific default if unset)")
	rootCmd.PersistentFlags().BoolVar(&walMode, "wal", false, "Enable SQLite WAL (Write-Ahead Logging) mode (overrides database.wal)")
	rootCmd.PersistentFlags().StringVar(&syncMode, "sync", "FULL", "SQLite synchronous pragma: OFF, NORMAL, FULL, EXTRA (overrides database.sync)")

	dbCmd.AddCommand(dbUpgradeCmd)

	initCheckInsCmd()
	initSummariesCmd()
	initActivitiesCmd()
	initMCPCmd()
	rootCmd.AddCommand(completionCmd, versionCmd, dbCmd, checkInsCmd, summariesCmd, activitiesCmd, mcpCmd)
}

func main() {
	initCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
