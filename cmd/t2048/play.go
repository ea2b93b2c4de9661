package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/platform/tui"
)

var flagNoScreenshots bool

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play 2048",
	Long: `Start a game of 2048 in this terminal.

Controls (default bindings, change them in the config file):
  Arrows/WASD/HJKL  - Slide tiles
  P                 - Pause
  R                 - Restart (after game over)
  Ctrl+S            - Save a text screenshot to ~/.t2048/screenshots
  Q/Esc/Ctrl+C      - Quit

Your score is saved when the game ends.

Examples:
  t2048 play
  t2048 play --seed 42
  t2048 play --player alice --config ./my-keys.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagNoScreenshots, "no-screenshots", false, "Disable the screenshot key")
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	player := playerName()

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	runtime := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: cfg.TickRate,
		Seed:     flagSeed,
	}

	opts := tui.Options{
		Keys:   tui.NewKeyMap(cfg.Keys),
		Player: player,
	}
	if dir := config.Dir(); dir != "" && !flagNoScreenshots {
		opts.ScreenshotDir = filepath.Join(dir, "screenshots")
	}

	// The game still works without storage
	store := openStore(cfg, false)
	opts.Store = store

	runErr := tui.Run(runtime, opts)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
