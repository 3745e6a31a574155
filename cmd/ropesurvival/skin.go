package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rope-survival/internal/sim"
	"github.com/vovakirdan/rope-survival/internal/storage"
)

var skinCmd = &cobra.Command{
	Use:   "skin [id]",
	Short: "Show or select the rope skin",
	Long: `Without an argument, list the rope skins and mark the selected one.
With an id, select that skin for the current player.

Examples:
  ropesurvival skin
  ropesurvival skin neon-blue`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSkin,
}

func runSkin(_ *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening settings database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	settings := store.Settings(flagPlayer)

	if len(args) == 1 {
		skin, ok := sim.SkinByID(args[0])
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown skin %q\n", args[0])
			fmt.Fprintln(os.Stderr, "Run 'ropesurvival skin' to see available skins.")
			return
		}
		if err := settings.SetSelectedSkin(skin.ID); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving skin: %v\n", err)
			return
		}
		fmt.Printf("Selected %s (%s) for %s.\n", skin.Name, skin.Color, flagPlayer)
		return
	}

	selected, err := settings.SelectedSkin()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not read the selected skin: %v\n", err)
	}
	current, _ := sim.SkinByID(selected)

	fmt.Printf("Rope skins for %s:\n", flagPlayer)
	fmt.Println()
	for _, s := range sim.Skins() {
		mark := " "
		if s.ID == current.ID {
			mark = "*"
		}
		fmt.Printf(" %s %-10s  %-14s  %s\n", mark, s.ID, s.Name, s.Color)
	}

	if n, err := settings.PurchasedLives(); err == nil && n > 0 {
		fmt.Println()
		fmt.Printf("Purchased lives so far: %d\n", n)
	}
}
