package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/raven-flight/internal/audio"
	"github.com/vovakirdan/raven-flight/internal/config"
	"github.com/vovakirdan/raven-flight/internal/core"
	"github.com/vovakirdan/raven-flight/internal/platform/tui"
	"github.com/vovakirdan/raven-flight/internal/raven"
	"github.com/vovakirdan/raven-flight/internal/registry"
	"github.com/vovakirdan/raven-flight/internal/scores"
	"github.com/vovakirdan/raven-flight/internal/storage"
)

// Commands that own the terminal; everything else logs to stderr.
var fullscreen = map[string]bool{"raven": true, "play": true, "scores": true}

var logger = log.Default()

// setup configures logging and the game options shared by every command.
func setup(cmd *cobra.Command, _ []string) error {
	var out io.Writer = os.Stderr
	path := flagLog
	if path == "" && fullscreen[cmd.Name()] {
		path = "~/.raven/raven.log"
	}
	if path != "" {
		f, err := openLogFile(path)
		if err != nil {
			return err
		}
		out = f
	}

	logger = log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Prefix:          "raven",
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	log.SetDefault(logger)

	if flagDifficulty != "" && config.ParseDifficulty(flagDifficulty) == "" {
		return fmt.Errorf("unknown difficulty %q (want easy, normal or hard)", flagDifficulty)
	}
	if flagScores != "file" && flagScores != "sqlite" {
		return fmt.Errorf("unknown score backend %q (want file or sqlite)", flagScores)
	}

	raven.SetLogger(logger)
	raven.SetConfigPath(flagConfig)
	raven.SetDifficulty(config.ParseDifficulty(flagDifficulty))
	raven.SetAssetDir(flagAssets)
	raven.SetHitbox(flagHitbox)
	return nil
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

func openLogFile(path string) (*os.File, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("cannot open log file: %w", err)
	}
	return f, nil
}

// services are the stores and outputs a command reports to.
type services struct {
	board *scores.Board
	store *storage.Store // nil when the database is unavailable
	cues  audio.Cues
	close []func()
}

// openServices opens the database, the score list and, with --sound, the
// speaker. Failures degrade: the game still runs without them.
func openServices(withSound bool) *services {
	svc := &services{cues: audio.Nop{}}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open database, continuing without history", "path", flagDBPath, "error", err)
	} else {
		svc.store = store
		svc.close = append(svc.close, func() { store.Close() })
	}

	sc := raven.LoadConfig(defaultVariant()).Scores
	var backend scores.Backend
	switch {
	case flagScores == "file":
		fb, err := scores.NewFileBackend(flagScoreDir)
		if err != nil {
			logger.Warn("could not open score directory, scores kept in memory", "dir", flagScoreDir, "error", err)
			backend = scores.NewMemory()
		} else {
			backend = fb
		}
	case svc.store != nil:
		backend = svc.store
	default:
		backend = scores.NewMemory()
	}
	svc.board = scores.NewBoard(backend, sc.Key, sc.Capacity, logger)

	if withSound {
		cues, stop := audio.NewSynth(logger)
		svc.cues = cues
		svc.close = append(svc.close, stop)
	}
	return svc
}

// history returns the run history, or nil without a database.
func (s *services) history() tui.History {
	if s.store == nil {
		return nil
	}
	return s.store
}

func (s *services) deps() tui.Deps {
	return tui.Deps{
		Board:   s.board,
		History: s.history(),
		Cues:    s.cues,
		Logger:  logger,
		Player:  playerName(),
	}
}

func (s *services) Close() {
	for i := len(s.close) - 1; i >= 0; i-- {
		s.close[i]()
	}
}

// playerName is --name, or the login name.
func playerName() string {
	if flagName != "" {
		return flagName
	}
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return scores.UnknownName
}

func defaultVariant() raven.Variant {
	for _, v := range raven.Variants {
		if v.ID == flagVariant {
			return v
		}
	}
	return raven.Variants[0]
}

// variantArg resolves the optional variant argument.
func variantArg(args []string) (string, error) {
	id := flagVariant
	if len(args) > 0 {
		id = args[0]
	}
	if registry.Exists(id) {
		return id, nil
	}
	return "", fmt.Errorf("unknown variant %q, run 'raven list' to see them", id)
}

// runtimeConfig sizes the field to the terminal.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}
