// Package cli wires the pomo command tree.
package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/pomo/internal/config"
	"github.com/sadopc/pomo/internal/pomo"
	"github.com/sadopc/pomo/internal/sound"
	"github.com/sadopc/pomo/internal/store"
	"github.com/sadopc/pomo/internal/tui"
	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var (
	flagConfig string
	flagDB     string
)

var rootCmd = &cobra.Command{
	Use:   "pomo",
	Short: "Pomodoro timer and task planner for the terminal",
	Long: `pomo runs focus and break intervals, credits finished focus sessions to
your tasks, and keeps a local history for daily goals, streaks and reports.

Run without arguments to open the interactive timer.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pomo %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default is <config dir>/pomo/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "database path, overrides db_path from the config")
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagDB != "" {
		cfg.DBPath = flagDB
	}
	return cfg, nil
}

// openStore loads the configuration and opens the database it names.
func openStore() (*store.Store, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	st, err := store.New(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return st, cfg, nil
}

func runTUI(cmd *cobra.Command, _ []string) error {
	st, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	logger := log.New(io.Discard, "", 0)
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return fmt.Errorf("creating log dir: %w", err)
		}
		f, err := tea.LogToFile(cfg.LogFile, "pomo")
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logger = log.Default()
	}

	var bell io.Writer
	if cfg.Bell {
		bell = os.Stderr
	}
	player := sound.NewPlayer(cfg.Player, bell, logger)
	defer player.Close()

	session := pomo.Open(st, pomo.WithNotifier(player), pomo.WithLogger(logger))
	logger.Printf("opened %s", cfg.DBPath)

	p := tea.NewProgram(tui.NewApp(session), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
