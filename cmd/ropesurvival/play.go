package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/rope-survival/internal/config"
	"github.com/vovakirdan/rope-survival/internal/core"
	"github.com/vovakirdan/rope-survival/internal/generator"
	"github.com/vovakirdan/rope-survival/internal/observer"
	"github.com/vovakirdan/rope-survival/internal/platform/tui"
	"github.com/vovakirdan/rope-survival/internal/registry"
	"github.com/vovakirdan/rope-survival/internal/storage"
)

var (
	flagConfig       string
	flagDifficulty   string
	flagGenerator    string
	flagGeneratorURL string
	flagAutopilot    bool
	flagObserve      string
	flagScoreScale   float64
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play rope survival",
	Long: `Start a local run.

Controls:
  Mouse          - Swing the ball toward the pointer
  Arrows/hjkl    - Move the pointer without a mouse
  P/Esc          - Pause
  R              - Restart
  B / A          - Buy a life / watch an ad (after game over)
  S              - Next rope skin
  T/Enter        - Say something to the commentator
  O              - Toggle the autopilot
  Y              - Copy your score (after game over)
  Q/Ctrl+C       - Quit

Difficulty options:
  easy   - More lives, mercy kicks in sooner
  normal - The configured values
  hard   - Fewer lives, fewer purchases, faster progression

Examples:
  ropesurvival play
  ropesurvival play --difficulty hard
  ropesurvival play --generator http --generator-url http://localhost:9000
  ropesurvival play --observe :8080
  ropesurvival play --config ./my-rope.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	playCmd.Flags().StringVar(&flagGenerator, "generator", "", "Generator backend (default from config)")
	playCmd.Flags().StringVar(&flagGeneratorURL, "generator-url", "", "Base URL for the http generator")
	playCmd.Flags().BoolVar(&flagAutopilot, "autopilot", false, "Show the autopilot ball from the start")
	playCmd.Flags().StringVar(&flagObserve, "observe", "", "Stream snapshots to watchers on this address (e.g. :8080)")
	playCmd.Flags().Float64Var(&flagScoreScale, "score-scale", 1, "Multiplier applied to the displayed score")
}

// loadGameConfig loads the config file and applies the difficulty preset.
func loadGameConfig() (config.GameConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return cfg, err
	}
	config.ApplyPreset(&cfg, preset)
	return cfg, cfg.Validate()
}

// createGenerator builds the backend named by --generator or the config.
// An empty name yields no backend.
func createGenerator(cfg config.GeneratorConfig) (generator.Backend, error) {
	name := cfg.Backend
	if flagGenerator != "" {
		name = flagGenerator
	}
	url := cfg.URL
	if flagGeneratorURL != "" {
		url = flagGeneratorURL
	}
	if name == "" {
		return nil, nil
	}
	return registry.Create(name, generator.Options{
		URL:     url,
		Timeout: cfg.Timeout,
		Seed:    flagSeed,
	})
}

// newGenerator is createGenerator for a single run. A backend that cannot
// be built leaves the run on fallback patterns.
func newGenerator(cfg config.GeneratorConfig, logger *log.Logger) generator.Backend {
	backend, err := createGenerator(cfg)
	if err != nil {
		logger.Warn("generator unavailable, using fallback patterns", "error", err)
		return nil
	}
	return backend
}

func runPlay(_ *cobra.Command, _ []string) {
	gameCfg, err := loadGameConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, logFile := newFileLogger()
	defer logFile.Close()

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

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	opts := tui.Options{
		Config:     gameCfg,
		Runtime:    rt,
		Generator:  newGenerator(gameCfg.Generator, logger),
		Store:      store,
		Player:     flagPlayer,
		Logger:     logger,
		Autopilot:  flagAutopilot,
		ScoreScale: flagScoreScale,
	}

	ctx, cancel := context.WithCancel(context.Background())
	if flagObserve != "" {
		hub := observer.NewHub(0)
		opts.Sink = hub
		srv := observer.NewServer(hub, logger)
		go func() {
			if err := srv.ListenAndServe(ctx, flagObserve); err != nil {
				logger.Error("observer server stopped", "address", flagObserve, "error", err)
			}
		}()
	}

	runErr := tui.Run(opts)
	cancel()

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
