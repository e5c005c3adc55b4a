package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/raven-flight/internal/platform/tui"
	"github.com/vovakirdan/raven-flight/internal/registry"
)

var playCmd = &cobra.Command{
	Use:   "play [variant]",
	Short: "Fly in the terminal",
	Long: `Start a flight in the terminal.

Controls:
  Enter/S        - Take flight
  Space/Up/W     - Flap (fly again after a crash)
  Mouse click    - Flap
  Tab            - Hall of Ravens
  Esc/Ctrl+C     - Quit

Variants:
  raven          - The sky wind is fatal, whispers on milestones
  raven-classic  - Ceiling stops the raven, ground from the image
  raven-saga     - Ceiling stops the raven, fixed ground

Examples:
  raven play
  raven play raven-classic
  raven play --difficulty hard --hitbox
  raven play --config ./my-raven.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, args []string) error {
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

	if err := tui.Run(game, svc.deps(), runtimeConfig()); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}

// runMenu is the root command: pick a variant, fly, come back.
func runMenu(_ *cobra.Command, _ []string) error {
	svc := openServices(flagSound)
	defer svc.Close()
	deps := svc.deps()
	cfg := runtimeConfig()

	for {
		result, err := tui.RunMenu(cfg)
		if err != nil {
			return err
		}
		cfg = result.Config

		if result.Quit {
			return nil
		}

		if result.WantsScoreboard {
			if err := tui.RunScoreboard(svc.board, svc.history(), "", cfg.ScreenW, cfg.ScreenH); err != nil {
				logger.Error("scoreboard failed", "error", err)
			}
			continue
		}

		game, err := registry.Create(result.GameID)
		if err != nil {
			logger.Error("cannot create game", "variant", result.GameID, "error", err)
			continue
		}

		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}
		if err := tui.Run(game, deps, cfg); err != nil {
			return fmt.Errorf("running game: %w", err)
		}
	}
}
