package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/rope-survival/internal/platform/tui"
	"github.com/vovakirdan/rope-survival/internal/storage"
)

var (
	flagLimit       int
	flagInteractive bool
	flagMine        bool
	flagClear       bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores",
	Long: `Display the top high scores.

Examples:
  ropesurvival scores
  ropesurvival scores --limit 25
  ropesurvival scores --mine --player ann
  ropesurvival scores --interactive
  ropesurvival scores --clear --mine`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagInteractive, "interactive", false, "Browse scores in a table")
	scoresCmd.Flags().BoolVar(&flagMine, "mine", false, "Only show the current player's runs")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete scores (only the current player's with --mine)")
}

func runScores(_ *cobra.Command, _ []string) {
	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagClear {
		player := ""
		if flagMine {
			player = flagPlayer
		}
		if err := store.ClearScores(player); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing scores: %v\n", err)
			return
		}
		fmt.Println("Scores cleared.")
		return
	}

	if flagInteractive {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if _, err := tui.RunScoreboard(store, flagPlayer, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return
	}

	var scores []storage.ScoreEntry
	title := "High Scores"
	if flagMine {
		title = fmt.Sprintf("High Scores - %s", flagPlayer)
		scores, err = store.PlayerScores(flagPlayer, flagLimit)
	} else {
		scores, err = store.TopScores(flagLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		return
	}

	// Display scores
	fmt.Println(title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'ropesurvival play' to set the first high score!")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-12s  %-7s  %-5s  %-6s  %s\n", "Rank", "Player", "Score", "Level", "Deaths", "Date")
	fmt.Printf("  %-4s  %-12s  %-7s  %-5s  %-6s  %s\n", "----", "------", "-----", "-----", "------", "----")

	// Print scores
	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-12s  %-7d  %-5d  %-6d  %s\n",
			i+1, entry.Player, entry.Score, entry.Difficulty, entry.Deaths, dateStr)
	}

	// Show the player's personal best and totals
	fmt.Println()
	if best, err := store.HighScore(flagPlayer); err == nil && best > 0 {
		fmt.Printf("Best for %s: %d\n", flagPlayer, best)
	}
	if stats, err := store.GetStats(); err == nil {
		fmt.Printf("Runs: %d  Average: %.0f  Highest level: %d\n", stats.Runs, stats.AvgScore, stats.MaxDifficulty)
	}
}
