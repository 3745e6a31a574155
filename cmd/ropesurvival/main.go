// ropesurvival is a terminal rope survival game: swing a ball on a rope and
// dodge the saws for as long as you can.
//
// Usage:
//
//	ropesurvival play               - Play locally
//	ropesurvival serve              - Start SSH server for remote play
//	ropesurvival watch <ws-url>     - Watch a session started with play --observe
//	ropesurvival scores             - Show high scores
//	ropesurvival skin [id]          - Show or select the rope skin
//	ropesurvival generators         - List generator backends
//
// Global flags:
//
//	--fps <rate>      - Set tick rate (default: 60)
//	--seed <value>    - Set RNG seed for reproducible gameplay
//	--db <path>       - Set database path (default: ~/.ropesurvival/scores.db)
//	--player <name>   - Name scores and settings are stored under
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// Import generator backends to register them
	_ "github.com/vovakirdan/rope-survival/internal/generator/local"
	_ "github.com/vovakirdan/rope-survival/internal/generator/remote"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
	flagPlayer string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ropesurvival",
	Short: "Rope Survival - swing and dodge the saws in your terminal",
	Long: `Rope Survival is a terminal pendulum game. Steer a ball hanging from a
rope with the mouse or arrow keys and keep it away from the saws. Every
close call scores points, and the saws get meaner as the score climbs.

Available commands:
  play        - Play locally
  serve       - Start SSH server for remote play
  watch       - Watch a running session
  scores      - View high scores
  skin        - Show or select the rope skin
  generators  - List pattern and commentary backends

Examples:
  ropesurvival play
  ropesurvival play --difficulty easy --autopilot
  ropesurvival play --observe :8080
  ropesurvival watch ws://localhost:8080/watch
  ropesurvival serve --ssh :2222
  ropesurvival scores --interactive`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.ropesurvival/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", defaultPlayer(), "Player name for scores and settings")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(skinCmd)
	rootCmd.AddCommand(generatorsCmd)
}

func defaultPlayer() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "player"
}

// newLogger returns the stderr logger used outside the alt screen.
func newLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "ropesurvival",
	})
}

// newFileLogger returns a logger writing to ~/.ropesurvival/ropesurvival.log
// so log lines do not corrupt the alt screen. It discards logs if the file
// cannot be opened.
func newFileLogger() (*log.Logger, io.Closer) {
	discard := log.New(io.Discard)
	home, err := os.UserHomeDir()
	if err != nil {
		return discard, io.NopCloser(nil)
	}
	dir := filepath.Join(home, ".ropesurvival")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return discard, io.NopCloser(nil)
	}
	f, err := os.OpenFile(filepath.Join(dir, "ropesurvival.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return discard, io.NopCloser(nil)
	}
	return log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "ropesurvival",
	}), f
}
