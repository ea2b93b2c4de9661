// t2048 plays 2048 in the terminal, over SSH or through an HTTP API.
//
// Usage:
//
//	t2048 play     - Play a game in this terminal
//	t2048 scores   - Show high scores
//	t2048 serve    - Start SSH server for remote play
//	t2048 api      - Start the HTTP/JSON API with a WebSocket feed
//	t2048 config   - Print the configuration
//
// Global flags:
//
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set database path (default: ~/.t2048/scores.db)
//	--config <path>      - Use a specific config file
//	--log-level <level>  - Server log level (debug, info, warn, error)
//	--player <name>      - Name scores are saved under
package main

import (
	"fmt"
	"os"
	"os/user"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/session"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	// Global flags
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
	flagPlayer   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "t2048",
	Short: "2048 in your terminal",
	Long: `t2048 is the sliding tile game 2048 for the terminal.

Play locally, host games over SSH, or drive sessions through an HTTP API.

Available commands:
  play     - Play a game in this terminal
  scores   - View high scores
  serve    - Start SSH server for remote play
  api      - Start HTTP/JSON API
  config   - Print the configuration

Examples:
  t2048 play
  t2048 play --seed 42 --player alice
  t2048 scores --interactive
  t2048 serve --ssh :2222
  t2048 api --http :8080`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (default from config: ~/.t2048/scores.db)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Player name for saved scores (default: current user)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(apiCmd)
}

// fail prints an error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// loadConfig loads the config file and applies global flag overrides.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fail("%v", err)
	}

	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}

	if err := cfg.Validate(); err != nil {
		fail("%v", err)
	}
	return cfg
}

// newLogger builds the server logger at the configured level.
func newLogger(cfg config.Config, prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	logger.SetLevel(cfg.LogLevel())
	return logger
}

// playerName resolves --player, falling back to the OS user name.
func playerName() string {
	name := flagPlayer
	if name == "" {
		if u, err := user.Current(); err == nil {
			name = u.Username
		}
	}

	player, err := session.NormalizePlayer(name)
	if err != nil {
		fail("%v", err)
	}
	return player
}

// openStore opens the score database. With required unset a failure is
// reported as a warning and nil is returned so the caller can run without
// persistence.
func openStore(cfg config.Config, required bool) *storage.Store {
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		if required {
			fail("cannot open scores database: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		return nil
	}
	return store
}
