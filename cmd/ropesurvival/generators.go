package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rope-survival/internal/generator"
	"github.com/vovakirdan/rope-survival/internal/registry"
)

var flagPing bool

var generatorsCmd = &cobra.Command{
	Use:   "generators",
	Short: "List pattern and commentary backends",
	Long: `Shows the generator backends that can drive saw patterns and commentary.

With --ping, each backend is built (http uses --generator-url)
and asked whether it can serve requests.`,
	Args: cobra.NoArgs,
	Run:  runGenerators,
}

func init() {
	generatorsCmd.Flags().BoolVar(&flagPing, "ping", false, "Check that each backend answers")
	generatorsCmd.Flags().StringVar(&flagGeneratorURL, "generator-url", "", "Base URL for the http generator")
}

func runGenerators(_ *cobra.Command, _ []string) {
	backends := registry.List()

	if len(backends) == 0 {
		fmt.Println("No generator backends available.")
		return
	}

	fmt.Println("Available generators:")
	fmt.Println()

	// Calculate column widths
	maxNameLen := 4 // "Name" header
	for _, b := range backends {
		if len(b.Name) > maxNameLen {
			maxNameLen = len(b.Name)
		}
	}

	// Print header
	fmt.Printf("  %-*s  %s\n", maxNameLen, "Name", "Description")
	fmt.Printf("  %-*s  %s\n", maxNameLen, "----", "-----------")

	for _, b := range backends {
		status := ""
		if flagPing {
			status = "  [" + ping(b.Name) + "]"
		}
		fmt.Printf("  %-*s  %s%s\n", maxNameLen, b.Name, b.Description, status)
	}

	fmt.Println()
	fmt.Println("Run 'ropesurvival play --generator <name>' to use one.")
}

func ping(name string) string {
	timeout := 3 * time.Second
	backend, err := registry.Create(name, generator.Options{
		URL:     flagGeneratorURL,
		Timeout: timeout,
		Seed:    flagSeed,
	})
	if err != nil {
		return "unavailable: " + err.Error()
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := backend.Ping(ctx); err != nil {
		return "down: " + err.Error()
	}
	return "ok"
}
