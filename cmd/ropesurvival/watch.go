package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/rope-survival/internal/config"
	"github.com/vovakirdan/rope-survival/internal/core"
	"github.com/vovakirdan/rope-survival/internal/observer"
	"github.com/vovakirdan/rope-survival/internal/platform/tui"
)

var flagWatchAutopilot bool

var watchCmd = &cobra.Command{
	Use:   "watch <ws-url>",
	Short: "Watch a running session",
	Long: `Connect to a session started with 'play --observe' and show it
read-only. With --autopilot the watcher runs its own autopilot ball
against the streamed saws.

Examples:
  ropesurvival watch ws://localhost:8080/watch
  ropesurvival watch ws://rope.example:8080/watch --autopilot`,
	Args: cobra.ExactArgs(1),
	Run:  runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&flagWatchAutopilot, "autopilot", false, "Run an autopilot ball against the streamed saws")
	watchCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML (autopilot tuning)")
}

func runWatch(_ *cobra.Command, args []string) {
	url := args[0]

	gameCfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := observer.Dial(ctx, url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	rt := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	if err := tui.RunWatch(ctx, client, url, gameCfg, rt, flagWatchAutopilot); err != nil {
		fmt.Fprintf(os.Stderr, "Error watching: %v\n", err)
		os.Exit(1)
	}
}
