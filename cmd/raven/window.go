package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/raven-flight/internal/core"
	"github.com/vovakirdan/raven-flight/internal/platform/canvas"
	"github.com/vovakirdan/raven-flight/internal/raven"
	"github.com/vovakirdan/raven-flight/internal/registry"
)

var windowCmd = &cobra.Command{
	Use:   "window [variant]",
	Short: "Fly in a desktop window",
	Long: `Open a window and draw the field with the image assets.

Scores are saved under --name (or your login name) when a flight ends.

Controls:
  Enter/S          - Take flight
  Space/Up/Click   - Flap (fly again after a crash)
  Esc              - Close the window

Examples:
  raven window
  raven window raven-classic --assets ./assets
  raven window --sound --name Hugin`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWindow,
}

func runWindow(_ *cobra.Command, args []string) error {
	id, err := variantArg(args)
	if err != nil {
		return err
	}
	game, err := registry.Create(id)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}

	svc := openServices(flagSound)
	defer svc.Close()

	deps := canvas.Deps{
		Board:  svc.board,
		Cues:   svc.cues,
		Logger: logger,
		Player: playerName(),
	}
	if svc.store != nil {
		deps.History = svc.store
	}

	cfg := core.DefaultConfig()
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return canvas.Run(game.(*raven.Game), deps, cfg)
}
