// raven is a side-scrolling flight game through the roots of Yggdrasil.
//
// Usage:
//
//	raven                    - Pick a variant from the menu
//	raven play [variant]     - Fly in the terminal
//	raven window [variant]   - Fly in a desktop window
//	raven serve              - Host the game over SSH
//	raven web                - Serve the score list over HTTP
//	raven scores             - Show the Hall of Ravens
//	raven list               - List the variants
//	raven config             - Print the default configuration
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible flights
//	--db <path>          - Set database path (default: ~/.raven/raven.db)
//	--scores file|sqlite - Where the high-score list lives
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/raven-flight/internal/raven"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagVariant    string
	flagDifficulty string
	flagAssets     string
	flagScores     string
	flagScoreDir   string
	flagLog        string
	flagDebug      bool
	flagSound      bool
	flagHitbox     bool
	flagName       string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "raven",
	Short: "Raven Flight - guide Odin's raven through the roots of Yggdrasil",
	Long: `Raven Flight is a one-button flying game. Flap between the roots,
stay out of the mud of Niflheim and mind the sky wind.

Without a subcommand the variant menu opens in the terminal.

Available commands:
  play     - Fly a variant in the terminal
  window   - Fly a variant in a desktop window
  serve    - Start SSH server for remote play
  web      - Serve the high-score list over HTTP
  scores   - View the Hall of Ravens and run history
  list     - Show all variants
  config   - Print the default configuration

Examples:
  raven
  raven play raven-saga --difficulty hard
  raven window --assets ./assets --sound
  raven serve --ssh :2222
  raven scores --history`,
	PersistentPreRunE: setup,
	RunE:              runMenu,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "~/.raven/raven.db", "Path to the SQLite database")
	pf.StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	pf.StringVar(&flagVariant, "variant", raven.DefaultVariant, "Variant used when none is given")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	pf.StringVar(&flagAssets, "assets", "", "Directory holding the image assets")
	pf.StringVar(&flagScores, "scores", "sqlite", "High-score backend: file or sqlite")
	pf.StringVar(&flagScoreDir, "score-dir", "~/.raven/scores", "Directory for the file score backend")
	pf.StringVar(&flagLog, "log", "", "Log file (default ~/.raven/raven.log, stderr for servers)")
	pf.BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	pf.BoolVar(&flagSound, "sound", false, "Play sound cues")
	pf.BoolVar(&flagHitbox, "hitbox", false, "Outline the raven's collision box")
	pf.StringVar(&flagName, "name", "", "Name saved with your scores")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(windowCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
}
