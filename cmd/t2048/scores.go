package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	flagScoresLimit  int
	flagInteractive  bool
	flagScoresPlayer bool
	flagClear        bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores",
	Long: `Display the top high scores.

With --mine only the scores of the current player (--player) are listed.
With --interactive a scrollable table opens that can switch between the
top scores and the per-player leaderboard.

Examples:
  t2048 scores
  t2048 scores --limit 25
  t2048 scores --mine --player alice
  t2048 scores --interactive
  t2048 scores --clear --player alice`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVarP(&flagScoresLimit, "limit", "n", storage.DefaultLimit, "Number of scores to show")
	scoresCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Open the interactive scoreboard")
	scoresCmd.Flags().BoolVar(&flagScoresPlayer, "mine", false, "Only show scores of the current player")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete scores (of --player if set, otherwise all)")
}

func runScores(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	store := openStore(cfg, true)
	defer store.Close()

	switch {
	case flagClear:
		clearScores(store)
	case flagInteractive:
		width, height := 80, 24
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width, height = w, h
		}
		if err := tui.RunScoreboard(store, width, height); err != nil {
			store.Close()
			fail("%v", err)
		}
	default:
		printScores(store)
	}
}

func clearScores(store *storage.Store) {
	if flagPlayer == "" {
		if err := store.ClearScores(); err != nil {
			store.Close()
			fail("%v", err)
		}
		fmt.Println("All scores deleted.")
		return
	}

	player := playerName()
	if err := store.ClearPlayer(player); err != nil {
		store.Close()
		fail("%v", err)
	}
	fmt.Printf("Scores of %s deleted.\n", player)
}

func printScores(store *storage.Store) {
	var (
		scores []storage.Entry
		err    error
		title  = "High Scores - 2048"
	)
	if flagScoresPlayer {
		player := playerName()
		title = "High Scores - " + player
		scores, err = store.PlayerScores(player, flagScoresLimit)
	} else {
		scores, err = store.TopScores(flagScoresLimit)
	}
	if err != nil {
		store.Close()
		fail("retrieving scores: %v", err)
	}

	fmt.Println(title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 't2048 play' to set the first high score!")
		return
	}

	fmt.Printf("  %-4s  %-16s  %-8s  %-8s  %-6s  %s\n", "Rank", "Player", "Score", "Max Tile", "Moves", "Date")
	fmt.Printf("  %-4s  %-16s  %-8s  %-8s  %-6s  %s\n", "----", "------", "-----", "--------", "-----", "----")

	for i, e := range scores {
		fmt.Printf("  %-4d  %-16s  %-8d  %-8d  %-6d  %s\n",
			i+1, e.Player, e.Score, e.MaxTile, e.Moves, e.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.Stats()
	if err == nil {
		fmt.Println()
		fmt.Printf("Best: %d  Best tile: %d  Games: %d  Players: %d\n",
			stats.HighScore, stats.BestTile, stats.GamesCount, stats.Players)
	}
}
